package generator

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"strings"
)

// RandomTokenType is an opaque random token
type RandomTokenType string

func tokenTypeFromString(token string) RandomTokenType {
	if token == "" {
		panic("zero length token issued, this is probably the only reason to ever panic")
	}
	return RandomTokenType(token)
}

// RandomTokenGenerator produces unguessable opaque tokens,
// uniqueness against a store is the callers concern
type RandomTokenGenerator struct{}

// CreateSecureToken returns a url-safe token with 32 bytes of entropy
func (*RandomTokenGenerator) CreateSecureToken() RandomTokenType {
	return createToken(32)
}

// CreateSecureTokenWithSize returns a url-safe token with the given bytes of entropy
func (*RandomTokenGenerator) CreateSecureTokenWithSize(size int) RandomTokenType {
	return createToken(size)
}

func createToken(size int) RandomTokenType {
	b := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		panic(err.Error()) // rand should never fail
	}
	return tokenTypeFromString(removePadding(base64.URLEncoding.EncodeToString(b)))
}

func removePadding(token string) string {
	return strings.TrimRight(token, "=")
}

// New returns a ready to use token generator
func New() *RandomTokenGenerator {
	return &RandomTokenGenerator{}
}
