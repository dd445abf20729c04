package generator

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var urlSafe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func TestCreateSecureTokenIsURLSafe(t *testing.T) {
	assert := assert.New(t)
	gen := New()
	token := gen.CreateSecureToken()
	assert.True(urlSafe.MatchString(string(token)))
	// 32 bytes of entropy, base64url without padding
	assert.Equal(43, len(token))
}

func TestCreateSecureTokenDoesNotRepeat(t *testing.T) {
	assert := assert.New(t)
	gen := New()
	seen := make(map[RandomTokenType]bool)
	for i := 0; i < 1000; i++ {
		token := gen.CreateSecureToken()
		assert.False(seen[token])
		seen[token] = true
	}
}

func TestCreateSecureTokenWithSize(t *testing.T) {
	assert := assert.New(t)
	gen := New()
	token := gen.CreateSecureTokenWithSize(16)
	assert.True(urlSafe.MatchString(string(token)))
	assert.Equal(22, len(token))
}

func TestCreateSecureTokenWithSizeRefreshLength(t *testing.T) {
	assert := assert.New(t)
	gen := New()
	// refresh tokens carry 48 bytes of entropy
	token := gen.CreateSecureTokenWithSize(48)
	assert.True(urlSafe.MatchString(string(token)))
	assert.Equal(64, len(token))
}
