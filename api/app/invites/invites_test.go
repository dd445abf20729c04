package invites

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/api/auth"
	"github.com/kinfolkhq/kinfolk/authorization"
	"github.com/kinfolkhq/kinfolk/config"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/db/tables"
	"github.com/kinfolkhq/kinfolk/invites"
	"github.com/kinfolkhq/kinfolk/invites/mocks"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"
)

func testRessource(
	t *testing.T,
) (*InviteRessource, *mocks.InviteStorer, *mocks.Dispatcher) {
	t.Helper()
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	service := invites.New(store, zaptest.NewLogger(t), &config.BehaviourConfiguration{
		DefaultRole:  "member",
		InviteExpiry: 7 * 24 * time.Hour,
		ReminderLead: 48 * time.Hour,
	}, dispatcher)
	return NewInviteRessource(zaptest.NewLogger(t), service, validator.New()), store, dispatcher
}

func inviteRow(familyID int64, invitedBy uuid.UUID) *tables.InvitationTable {
	return &tables.InvitationTable{
		ID:        1,
		PublicID:  uuid.New(),
		FamilyID:  familyID,
		Email:     "test@example.com",
		Role:      "member",
		Status:    db.InvitationStatusPending,
		Token:     "sometoken",
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
		InvitedBy: invitedBy,
		CreatedAt: time.Now().UTC(),
	}
}

func scopedRequest(
	t *testing.T,
	method string,
	body string,
	family *tables.FamilyTable,
	caps *authorization.CapabilitySet,
	userID uuid.UUID,
	inviteID uuid.UUID,
) *http.Request {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, "/", nil)
	} else {
		r = httptest.NewRequest(method, "/", strings.NewReader(body))
	}
	rctx := chi.NewRouteContext()
	if inviteID != (uuid.UUID{}) {
		rctx.URLParams.Add("inviteID", inviteID.String())
	}
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, auth.FamilyContextKey, family)
	ctx = context.WithValue(ctx, auth.CapabilitiesContextKey, caps)
	token := jwt.New()
	if err := token.Set(jwt.SubjectKey, userID.String()); err != nil {
		t.Fatal(err)
	}
	ctx = jwtauth.NewContext(ctx, token, nil)
	return r.WithContext(ctx)
}

func memberCaps() *authorization.CapabilitySet {
	return authorization.NewCapabilitySet("member", []string{
		string(authorization.CapSendInvitations),
	})
}

func organizerCaps() *authorization.CapabilitySet {
	return authorization.NewCapabilitySet("organizer", []string{
		string(authorization.CapSendInvitations),
		string(authorization.CapManageInvitations),
		string(authorization.CapViewAllInvitations),
	})
}

func TestCancelByInviterWithoutManageCapability(t *testing.T) {
	assert := assert.New(t)
	i, store, dispatcher := testRessource(t)
	family := &tables.FamilyTable{ID: 7, PublicID: uuid.New(), Name: "The Does"}
	owner := uuid.New()
	row := inviteRow(7, owner)

	store.On("InvitationByPublicID", mock.Anything, row.PublicID).Return(row, nil)
	store.On("CancelInvitation", mock.Anything, row.ID).Return(true, nil)
	store.On("DropOutboxForInvitation", mock.Anything, row.ID).Return(nil)
	dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return()

	rr := httptest.NewRecorder()
	i.cancel(rr, scopedRequest(t, http.MethodPost, "", family, memberCaps(), owner, row.PublicID))
	assert.Equal(http.StatusNoContent, rr.Code)
}

func TestCancelForeignInviteWithoutManageCapability(t *testing.T) {
	assert := assert.New(t)
	i, store, _ := testRessource(t)
	family := &tables.FamilyTable{ID: 7, PublicID: uuid.New(), Name: "The Does"}
	row := inviteRow(7, uuid.New())

	store.On("InvitationByPublicID", mock.Anything, row.PublicID).Return(row, nil)

	rr := httptest.NewRecorder()
	i.cancel(rr, scopedRequest(t, http.MethodPost, "", family, memberCaps(), uuid.New(), row.PublicID))
	assert.Equal(http.StatusNotFound, rr.Code)
	store.AssertNotCalled(t, "CancelInvitation", mock.Anything, mock.Anything)
}

func TestCancelForeignInviteWithManageCapability(t *testing.T) {
	assert := assert.New(t)
	i, store, dispatcher := testRessource(t)
	family := &tables.FamilyTable{ID: 7, PublicID: uuid.New(), Name: "The Does"}
	row := inviteRow(7, uuid.New())

	store.On("InvitationByPublicID", mock.Anything, row.PublicID).Return(row, nil)
	store.On("CancelInvitation", mock.Anything, row.ID).Return(true, nil)
	store.On("DropOutboxForInvitation", mock.Anything, row.ID).Return(nil)
	dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return()

	rr := httptest.NewRecorder()
	i.cancel(rr, scopedRequest(t, http.MethodPost, "", family, organizerCaps(), uuid.New(), row.PublicID))
	assert.Equal(http.StatusNoContent, rr.Code)
}

func TestExtendForeignInviteWithoutManageCapability(t *testing.T) {
	assert := assert.New(t)
	i, store, _ := testRessource(t)
	family := &tables.FamilyTable{ID: 7, PublicID: uuid.New(), Name: "The Does"}
	row := inviteRow(7, uuid.New())

	store.On("InvitationByPublicID", mock.Anything, row.PublicID).Return(row, nil)

	until := time.Now().UTC().Add(72 * time.Hour).Format(time.RFC3339)
	body := `{"until":"` + until + `"}`
	rr := httptest.NewRecorder()
	i.extend(rr, scopedRequest(t, http.MethodPost, body, family, memberCaps(), uuid.New(), row.PublicID))
	assert.Equal(http.StatusNotFound, rr.Code)
	store.AssertNotCalled(t, "ExtendInvitationExpiry", mock.Anything, mock.Anything, mock.Anything)
}

func TestListDoesNotExposeTokens(t *testing.T) {
	assert := assert.New(t)
	i, store, _ := testRessource(t)
	family := &tables.FamilyTable{ID: 7, PublicID: uuid.New(), Name: "The Does"}
	row := inviteRow(7, uuid.New())

	store.On("Invitations", mock.Anything, int64(7), (*uuid.UUID)(nil), mock.Anything).
		Return([]*tables.InvitationTable{row}, 1, nil)

	rr := httptest.NewRecorder()
	i.list(rr, scopedRequest(t, http.MethodGet, "", family, organizerCaps(), uuid.New(), uuid.UUID{}))
	assert.Equal(http.StatusOK, rr.Code)
	assert.NotContains(rr.Body.String(), row.Token)
	assert.NotContains(rr.Body.String(), `"token"`)
}

func TestGetDoesNotExposeToken(t *testing.T) {
	assert := assert.New(t)
	i, store, _ := testRessource(t)
	family := &tables.FamilyTable{ID: 7, PublicID: uuid.New(), Name: "The Does"}
	owner := uuid.New()
	row := inviteRow(7, owner)

	store.On("InvitationByPublicID", mock.Anything, row.PublicID).Return(row, nil)

	rr := httptest.NewRecorder()
	i.get(rr, scopedRequest(t, http.MethodGet, "", family, memberCaps(), owner, row.PublicID))
	assert.Equal(http.StatusOK, rr.Code)
	assert.NotContains(rr.Body.String(), row.Token)
}

func TestCreateReturnsTokenToInviter(t *testing.T) {
	assert := assert.New(t)
	i, store, dispatcher := testRessource(t)
	family := &tables.FamilyTable{ID: 7, PublicID: uuid.New(), Name: "The Does"}
	owner := uuid.New()
	row := inviteRow(7, owner)

	store.On("IsInviteable", mock.Anything, int64(7), "test@example.com").Return(true, nil)
	store.On("RoleByName", mock.Anything, "member").Return(&tables.RoleTable{
		ID:           1,
		Name:         "member",
		Capabilities: tables.StringSlice{},
		Active:       true,
	}, nil)
	store.On("InvitationTokenExists", mock.Anything, mock.Anything).Return(false, nil)
	store.On("InsertInvitation", mock.Anything, mock.Anything).Return(int64(1), row.PublicID, nil)
	store.On("EnqueueEmail", mock.Anything, db.OutboxKindInvite, int64(1)).Return(int64(1), nil)
	store.On("InvitationByPublicID", mock.Anything, row.PublicID).Return(row, nil)
	dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return()

	body := `{"email":"test@example.com","role":"member"}`
	rr := httptest.NewRecorder()
	i.create(rr, scopedRequest(t, http.MethodPost, body, family, memberCaps(), owner, uuid.UUID{}))
	assert.Equal(http.StatusCreated, rr.Code)

	var resp map[string]interface{}
	assert.NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(row.Token, resp["token"])
}
