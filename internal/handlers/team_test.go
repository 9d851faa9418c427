package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stefanr/teamup-api/internal/middleware"
	"github.com/stefanr/teamup-api/internal/models"
	"github.com/stefanr/teamup-api/internal/services"
	"github.com/stefanr/teamup-api/pkg/dto"
	"github.com/stefanr/teamup-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTeamTest(t *testing.T) (*testutil.MockTeamService, *testutil.MockMembershipService, *TeamHandler, *services.JWTService) {
	t.Helper()
	mockTeamService := new(testutil.MockTeamService)
	mockMembershipService := new(testutil.MockMembershipService)
	handler := NewTeamHandler(mockTeamService, mockMembershipService)
	jwtSvc := testutil.TestJWTService()
	return mockTeamService, mockMembershipService, handler, jwtSvc
}

func TestTeamHandler_Create_Success(t *testing.T) {
	mockTeamService, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	email := "test@example.com"
	team := &models.Team{
		ID:         uuid.New(),
		Name:       "My Team",
		OwnerID:    userID,
		MaxMembers: 5,
		IsActive:   true,
	}

	mockTeamService.On("Create", mock.Anything, "My Team", userID, 5).Return(team, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/teams", handler.Create)

	body := dto.CreateTeamRequest{Name: "My Team", MaxMembers: 5}
	jsonBody, _ := json.Marshal(body)

	token := testutil.GenerateTestToken(t, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/teams", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response dto.TeamResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, team.ID, response.ID)
	assert.Equal(t, "My Team", response.Name)
	assert.Equal(t, 5, response.MaxMembers)
	assert.Equal(t, "owner", response.Role)

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Create_EmptyName(t *testing.T) {
	_, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	email := "test@example.com"

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/teams", handler.Create)

	body := dto.CreateTeamRequest{Name: "", MaxMembers: 5}
	jsonBody, _ := json.Marshal(body)

	token := testutil.GenerateTestToken(t, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/teams", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name is required")
}

func TestTeamHandler_Create_InvalidMaxMembers(t *testing.T) {
	mockTeamService, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	email := "test@example.com"

	mockTeamService.On("Create", mock.Anything, "My Team", userID, 0).Return(nil, services.ErrInvalidMaxMembers)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/teams", handler.Create)

	body := dto.CreateTeamRequest{Name: "My Team", MaxMembers: 0}
	jsonBody, _ := json.Marshal(body)

	token := testutil.GenerateTestToken(t, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/teams", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "max members must be at least 1")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_List_Success(t *testing.T) {
	mockTeamService, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	email := "test@example.com"
	teams := []models.Team{
		{ID: uuid.New(), Name: "Team 1", OwnerID: userID, MaxMembers: 3, IsActive: true},
		{ID: uuid.New(), Name: "Team 2", OwnerID: uuid.New(), MaxMembers: 10, IsActive: true},
	}
	roles := []string{"owner", "member"}

	mockTeamService.On("GetUserTeams", mock.Anything, userID).Return(teams, roles, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/teams", handler.List)

	token := testutil.GenerateTestToken(t, userID, email)
	req := httptest.NewRequest(http.MethodGet, "/teams", nil)
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []dto.TeamResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Len(t, response, 2)
	assert.Equal(t, "owner", response[0].Role)
	assert.Equal(t, "member", response[1].Role)

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Get_Success(t *testing.T) {
	mockTeamService, mockMembershipService, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	email := "test@example.com"
	teamID := uuid.New()
	team := &models.Team{
		ID:         teamID,
		Name:       "My Team",
		OwnerID:    userID,
		MaxMembers: 5,
		IsActive:   true,
	}

	mockTeamService.On("GetByID", mock.Anything, teamID).Return(team, nil)
	mockMembershipService.On("CountMembers", mock.Anything, teamID).Return(3, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/teams/:id", handler.Get)

	token := testutil.GenerateTestToken(t, userID, email)
	req := httptest.NewRequest(http.MethodGet, "/teams/"+teamID.String(), nil)
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.TeamResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, teamID, response.ID)
	assert.Equal(t, 3, response.MemberCount)
	assert.Equal(t, "owner", response.Role)

	mockTeamService.AssertExpectations(t)
	mockMembershipService.AssertExpectations(t)
}

func TestTeamHandler_Get_NotFound(t *testing.T) {
	mockTeamService, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	email := "test@example.com"
	teamID := uuid.New()

	mockTeamService.On("GetByID", mock.Anything, teamID).Return(nil, services.ErrTeamNotFound)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/teams/:id", handler.Get)

	token := testutil.GenerateTestToken(t, userID, email)
	req := httptest.NewRequest(http.MethodGet, "/teams/"+teamID.String(), nil)
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "team not found")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Update_Success(t *testing.T) {
	mockTeamService, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	email := "test@example.com"
	teamID := uuid.New()
	updatedTeam := &models.Team{
		ID:         teamID,
		Name:       "Updated Team",
		OwnerID:    userID,
		MaxMembers: 8,
		IsActive:   true,
	}

	mockTeamService.On("IsOwner", mock.Anything, teamID, userID).Return(true, nil)
	mockTeamService.On("Update", mock.Anything, teamID, "Updated Team", 8).Return(updatedTeam, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Patch("/teams/:id", handler.Update)

	body := dto.UpdateTeamRequest{Name: "Updated Team", MaxMembers: 8}
	jsonBody, _ := json.Marshal(body)

	token := testutil.GenerateTestToken(t, userID, email)
	req := httptest.NewRequest(http.MethodPatch, "/teams/"+teamID.String(), bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.TeamResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Updated Team", response.Name)
	assert.Equal(t, 8, response.MaxMembers)

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Update_NotOwner(t *testing.T) {
	mockTeamService, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	email := "test@example.com"
	teamID := uuid.New()

	mockTeamService.On("IsOwner", mock.Anything, teamID, userID).Return(false, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Patch("/teams/:id", handler.Update)

	body := dto.UpdateTeamRequest{Name: "Updated Team", MaxMembers: 8}
	jsonBody, _ := json.Marshal(body)

	token := testutil.GenerateTestToken(t, userID, email)
	req := httptest.NewRequest(http.MethodPatch, "/teams/"+teamID.String(), bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "only owner can update team")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Update_MaxBelowMembers(t *testing.T) {
	mockTeamService, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	email := "test@example.com"
	teamID := uuid.New()

	mockTeamService.On("IsOwner", mock.Anything, teamID, userID).Return(true, nil)
	mockTeamService.On("Update", mock.Anything, teamID, "My Team", 2).Return(nil, services.ErrMaxBelowMembers)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Patch("/teams/:id", handler.Update)

	body := dto.UpdateTeamRequest{Name: "My Team", MaxMembers: 2}
	jsonBody, _ := json.Marshal(body)

	token := testutil.GenerateTestToken(t, userID, email)
	req := httptest.NewRequest(http.MethodPatch, "/teams/"+teamID.String(), bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "max members cannot be below current member count")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Deactivate_Success(t *testing.T) {
	mockTeamService, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	email := "test@example.com"
	teamID := uuid.New()

	mockTeamService.On("IsOwner", mock.Anything, teamID, userID).Return(true, nil)
	mockTeamService.On("Deactivate", mock.Anything, teamID).Return(nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/teams/:id/deactivate", handler.Deactivate)

	token := testutil.GenerateTestToken(t, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/teams/"+teamID.String()+"/deactivate", nil)
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "team deactivated")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Delete_Success(t *testing.T) {
	mockTeamService, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	email := "test@example.com"
	teamID := uuid.New()

	mockTeamService.On("IsOwner", mock.Anything, teamID, userID).Return(true, nil)
	mockTeamService.On("Delete", mock.Anything, teamID).Return(nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Delete("/teams/:id", handler.Delete)

	token := testutil.GenerateTestToken(t, userID, email)
	req := httptest.NewRequest(http.MethodDelete, "/teams/"+teamID.String(), nil)
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "team deleted")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Delete_NotOwner(t *testing.T) {
	mockTeamService, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	email := "test@example.com"
	teamID := uuid.New()

	mockTeamService.On("IsOwner", mock.Anything, teamID, userID).Return(false, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Delete("/teams/:id", handler.Delete)

	token := testutil.GenerateTestToken(t, userID, email)
	req := httptest.NewRequest(http.MethodDelete, "/teams/"+teamID.String(), nil)
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "only owner can delete team")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_GetMembers_Success(t *testing.T) {
	mockTeamService, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	email := "test@example.com"
	teamID := uuid.New()
	avatarURL := "https://example.com/avatar.png"
	members := []models.TeamMember{
		{
			ID:     uuid.New(),
			TeamID: teamID,
			UserID: userID,
			Role:   "owner",
			User: &models.User{
				ID:        userID,
				Email:     email,
				Name:      "Test User",
				AvatarURL: &avatarURL,
			},
		},
	}

	mockTeamService.On("IsMember", mock.Anything, teamID, userID).Return(true, nil)
	mockTeamService.On("GetMembers", mock.Anything, teamID).Return(members, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/teams/:id/members", handler.GetMembers)

	token := testutil.GenerateTestToken(t, userID, email)
	req := httptest.NewRequest(http.MethodGet, "/teams/"+teamID.String()+"/members", nil)
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []dto.TeamMemberResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Len(t, response, 1)
	assert.Equal(t, "owner", response[0].Role)
	assert.Equal(t, email, response[0].User.Email)

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_GetMembers_NotMember(t *testing.T) {
	mockTeamService, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	email := "test@example.com"
	teamID := uuid.New()

	mockTeamService.On("IsMember", mock.Anything, teamID, userID).Return(false, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/teams/:id/members", handler.GetMembers)

	token := testutil.GenerateTestToken(t, userID, email)
	req := httptest.NewRequest(http.MethodGet, "/teams/"+teamID.String()+"/members", nil)
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "team not found")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_RemoveMember_Success(t *testing.T) {
	_, mockMembershipService, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	email := "test@example.com"
	teamID := uuid.New()
	memberID := uuid.New()

	mockMembershipService.On("RemoveMember", mock.Anything, teamID, memberID, userID).Return(nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Delete("/teams/:id/members/:userId", handler.RemoveMember)

	token := testutil.GenerateTestToken(t, userID, email)
	req := httptest.NewRequest(http.MethodDelete, "/teams/"+teamID.String()+"/members/"+memberID.String(), nil)
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "member removed")

	mockMembershipService.AssertExpectations(t)
}

func TestTeamHandler_RemoveMember_NotAuthorized(t *testing.T) {
	_, mockMembershipService, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	email := "test@example.com"
	teamID := uuid.New()
	memberID := uuid.New()

	mockMembershipService.On("RemoveMember", mock.Anything, teamID, memberID, userID).Return(services.ErrNotAuthorized)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Delete("/teams/:id/members/:userId", handler.RemoveMember)

	token := testutil.GenerateTestToken(t, userID, email)
	req := httptest.NewRequest(http.MethodDelete, "/teams/"+teamID.String()+"/members/"+memberID.String(), nil)
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "not authorized")

	mockMembershipService.AssertExpectations(t)
}

func TestTeamHandler_RemoveMember_CannotRemoveOwner(t *testing.T) {
	_, mockMembershipService, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	email := "test@example.com"
	teamID := uuid.New()

	mockMembershipService.On("RemoveMember", mock.Anything, teamID, userID, userID).Return(services.ErrCannotRemoveOwner)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Delete("/teams/:id/members/:userId", handler.RemoveMember)

	token := testutil.GenerateTestToken(t, userID, email)
	req := httptest.NewRequest(http.MethodDelete, "/teams/"+teamID.String()+"/members/"+userID.String(), nil)
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot remove team owner")

	mockMembershipService.AssertExpectations(t)
}

func TestTeamHandler_InvalidTeamID(t *testing.T) {
	_, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	email := "test@example.com"

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/teams/:id", handler.Get)

	token := testutil.GenerateTestToken(t, userID, email)
	req := httptest.NewRequest(http.MethodGet, "/teams/invalid-uuid", nil)
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid team id")
}

func TestTeamHandler_NotAuthenticated(t *testing.T) {
	_, _, handler, jwtSvc := setupTeamTest(t)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/teams", handler.List)
	app.Post("/teams", handler.Create)

	req := httptest.NewRequest(http.MethodGet, "/teams", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := dto.CreateTeamRequest{Name: "Test", MaxMembers: 3}
	jsonBody, _ := json.Marshal(body)
	req = httptest.NewRequest(http.MethodPost, "/teams", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTeamHandler_Create_ServiceError(t *testing.T) {
	mockTeamService, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	email := "test@example.com"

	mockTeamService.On("Create", mock.Anything, "My Team", userID, 5).Return(nil, errors.New("database error"))

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/teams", handler.Create)

	body := dto.CreateTeamRequest{Name: "My Team", MaxMembers: 5}
	jsonBody, _ := json.Marshal(body)

	token := testutil.GenerateTestToken(t, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/teams", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", testutil.AuthHeader(token))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	mockTeamService.AssertExpectations(t)
}
