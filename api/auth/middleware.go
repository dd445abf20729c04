package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/authorization"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/db/tables"
)

var (
	ErrNoSubject     = errors.New("no subject in token")
	ErrNoFamilyScope = errors.New("no family in request context")
)

type contextKey struct {
	name string
}

var (
	FamilyContextKey       = &contextKey{"Family"}
	CapabilitiesContextKey = &contextKey{"Capabilities"}
)

// FamilyStore loads the family a request is scoped to
type FamilyStore interface {
	FamilyByPublicID(ctx context.Context, publicID uuid.UUID) (*tables.FamilyTable, error)
}

// CapabilityResolver resolves the callers effective capability set
type CapabilityResolver interface {
	CapabilitiesFor(
		ctx context.Context,
		familyID int64,
		userID uuid.UUID,
	) (*authorization.CapabilitySet, error)
}

// Subject pulls the authenticated user id out of the verified token
func Subject(r *http.Request) (uuid.UUID, error) {
	token, _, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return uuid.UUID{}, err
	}
	if token == nil || token.Subject() == "" {
		return uuid.UUID{}, ErrNoSubject
	}
	return uuid.Parse(token.Subject())
}

// FamilyContext resolves the {familyID} route param to the family and
// the callers capability set within it, a caller without a membership
// never learns whether the family exists
func FamilyContext(
	store FamilyStore,
	resolver CapabilityResolver,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			publicID, err := uuid.Parse(chi.URLParam(r, "familyID"))
			if err != nil {
				http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
				return
			}
			userID, err := Subject(r)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			family, err := store.FamilyByPublicID(r.Context(), publicID)
			if err != nil {
				if errors.Is(err, db.ErrNotFound) {
					http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
					return
				}
				http.Error(
					w,
					http.StatusText(http.StatusInternalServerError),
					http.StatusInternalServerError,
				)
				return
			}
			if family.ArchivedAt != nil {
				http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
				return
			}
			caps, err := resolver.CapabilitiesFor(r.Context(), family.ID, userID)
			if err != nil {
				if errors.Is(err, authorization.ErrNotAMember) ||
					errors.Is(err, authorization.ErrMembershipExpired) {
					http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
					return
				}
				http.Error(
					w,
					http.StatusText(http.StatusInternalServerError),
					http.StatusInternalServerError,
				)
				return
			}
			ctx := context.WithValue(r.Context(), FamilyContextKey, family)
			ctx = context.WithValue(ctx, CapabilitiesContextKey, caps)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

// RequireCapability rejects callers whose capability set misses the
// given capability
func RequireCapability(capability authorization.Capability) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			caps, ok := r.Context().Value(CapabilitiesContextKey).(*authorization.CapabilitySet)
			if !ok || !caps.Can(capability) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

// FamilyFromContext returns the family the request is scoped to
func FamilyFromContext(ctx context.Context) (*tables.FamilyTable, error) {
	family, ok := ctx.Value(FamilyContextKey).(*tables.FamilyTable)
	if !ok {
		return nil, ErrNoFamilyScope
	}
	return family, nil
}

// CapabilitiesFromContext returns the callers resolved capability set
func CapabilitiesFromContext(ctx context.Context) (*authorization.CapabilitySet, error) {
	caps, ok := ctx.Value(CapabilitiesContextKey).(*authorization.CapabilitySet)
	if !ok {
		return nil, ErrNoFamilyScope
	}
	return caps, nil
}
