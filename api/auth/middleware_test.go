package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/authorization"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/db/tables"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
)

type familyStoreStub struct {
	family *tables.FamilyTable
	err    error
}

func (s *familyStoreStub) FamilyByPublicID(
	_ context.Context,
	_ uuid.UUID,
) (*tables.FamilyTable, error) {
	return s.family, s.err
}

type capResolverStub struct {
	caps *authorization.CapabilitySet
	err  error
}

func (s *capResolverStub) CapabilitiesFor(
	_ context.Context,
	_ int64,
	_ uuid.UUID,
) (*authorization.CapabilitySet, error) {
	return s.caps, s.err
}

func scopedRequest(t *testing.T, familyID uuid.UUID, userID uuid.UUID) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/families/"+familyID.String()+"/invites", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("familyID", familyID.String())
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	token := jwt.New()
	if err := token.Set(jwt.SubjectKey, userID.String()); err != nil {
		t.Fatal(err)
	}
	ctx = jwtauth.NewContext(ctx, token, nil)
	return r.WithContext(ctx)
}

func TestFamilyContextResolvesScope(t *testing.T) {
	assert := assert.New(t)
	family := &tables.FamilyTable{ID: 7, PublicID: uuid.New(), Name: "The Does"}
	caps := authorization.NewCapabilitySet("member", []string{string(authorization.CapSendInvitations)})
	mw := FamilyContext(
		&familyStoreStub{family: family},
		&capResolverStub{caps: caps},
	)
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		got, err := FamilyFromContext(r.Context())
		assert.NoError(err)
		assert.Equal(family.ID, got.ID)
		set, err := CapabilitiesFromContext(r.Context())
		assert.NoError(err)
		assert.True(set.Can(authorization.CapSendInvitations))
	})
	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, scopedRequest(t, family.PublicID, uuid.New()))
	assert.True(called)
	assert.Equal(http.StatusOK, rr.Code)
}

func TestFamilyContextUnknownFamily(t *testing.T) {
	assert := assert.New(t)
	mw := FamilyContext(
		&familyStoreStub{err: db.ErrNotFound},
		&capResolverStub{},
	)
	next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("next handler must not run")
	})
	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, scopedRequest(t, uuid.New(), uuid.New()))
	assert.Equal(http.StatusNotFound, rr.Code)
}

// a caller without a membership gets the same answer as for a family
// that does not exist at all
func TestFamilyContextNonMemberLooksLikeUnknownFamily(t *testing.T) {
	assert := assert.New(t)
	family := &tables.FamilyTable{ID: 7, PublicID: uuid.New(), Name: "The Does"}
	mw := FamilyContext(
		&familyStoreStub{family: family},
		&capResolverStub{err: authorization.ErrNotAMember},
	)
	next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("next handler must not run")
	})
	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, scopedRequest(t, family.PublicID, uuid.New()))
	assert.Equal(http.StatusNotFound, rr.Code)
}

func TestFamilyContextExpiredMembershipLooksLikeUnknownFamily(t *testing.T) {
	assert := assert.New(t)
	family := &tables.FamilyTable{ID: 7, PublicID: uuid.New(), Name: "The Does"}
	mw := FamilyContext(
		&familyStoreStub{family: family},
		&capResolverStub{err: authorization.ErrMembershipExpired},
	)
	next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("next handler must not run")
	})
	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, scopedRequest(t, family.PublicID, uuid.New()))
	assert.Equal(http.StatusNotFound, rr.Code)
}

func TestFamilyContextArchivedFamily(t *testing.T) {
	assert := assert.New(t)
	archived := &tables.FamilyTable{ID: 7, PublicID: uuid.New(), Name: "The Does"}
	now := time.Now().UTC()
	archived.ArchivedAt = &now
	mw := FamilyContext(
		&familyStoreStub{family: archived},
		&capResolverStub{},
	)
	next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("next handler must not run")
	})
	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, scopedRequest(t, archived.PublicID, uuid.New()))
	assert.Equal(http.StatusNotFound, rr.Code)
}

func TestRequireCapabilityMissing(t *testing.T) {
	assert := assert.New(t)
	caps := authorization.NewCapabilitySet("member", []string{string(authorization.CapSendInvitations)})
	mw := RequireCapability(authorization.CapManageInvitations)
	next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("next handler must not run")
	})
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r = r.WithContext(context.WithValue(r.Context(), CapabilitiesContextKey, caps))
	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, r)
	assert.Equal(http.StatusForbidden, rr.Code)
}
