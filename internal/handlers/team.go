package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stefanr/teamup-api/internal/middleware"
	"github.com/stefanr/teamup-api/internal/models"
	"github.com/stefanr/teamup-api/pkg/dto"
)

type TeamHandler struct {
	teamService       TeamServiceInterface
	membershipService MembershipServiceInterface
}

func NewTeamHandler(teamService TeamServiceInterface, membershipService MembershipServiceInterface) *TeamHandler {
	return &TeamHandler{
		teamService:       teamService,
		membershipService: membershipService,
	}
}

func (h *TeamHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	team, err := h.teamService.Create(context.Background(), req.Name, userID, req.MaxMembers)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	_ = c.JSON(201, toTeamResponse(team, models.RoleOwner))
}

func (h *TeamHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teams, roles, err := h.teamService.GetUserTeams(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get teams")
		return
	}

	response := make([]dto.TeamResponse, len(teams))
	for i, team := range teams {
		response[i] = toTeamResponse(&team, roles[i])
	}

	_ = c.JSON(200, response)
}

func (h *TeamHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	team, err := h.teamService.GetByID(context.Background(), teamID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	count, err := h.membershipService.CountMembers(context.Background(), teamID)
	if err != nil {
		c.InternalServerError("failed to count members")
		return
	}

	role := ""
	if team.OwnerID == userID {
		role = models.RoleOwner
	} else if isMember, err := h.teamService.IsMember(context.Background(), teamID, userID); err == nil && isMember {
		role = models.RoleMember
	}

	response := toTeamResponse(team, role)
	response.MemberCount = count
	_ = c.JSON(200, response)
}

func (h *TeamHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	isOwner, err := h.teamService.IsOwner(context.Background(), teamID, userID)
	if err != nil || !isOwner {
		c.Forbidden("only owner can update team")
		return
	}

	var req dto.UpdateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	team, err := h.teamService.Update(context.Background(), teamID, req.Name, req.MaxMembers)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	_ = c.JSON(200, toTeamResponse(team, models.RoleOwner))
}

func (h *TeamHandler) Deactivate(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	isOwner, err := h.teamService.IsOwner(context.Background(), teamID, userID)
	if err != nil || !isOwner {
		c.Forbidden("only owner can deactivate team")
		return
	}

	if err := h.teamService.Deactivate(context.Background(), teamID); err != nil {
		writeServiceError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "team deactivated"})
}

func (h *TeamHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	isOwner, err := h.teamService.IsOwner(context.Background(), teamID, userID)
	if err != nil || !isOwner {
		c.Forbidden("only owner can delete team")
		return
	}

	if err := h.teamService.Delete(context.Background(), teamID); err != nil {
		writeServiceError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "team deleted"})
}

func (h *TeamHandler) GetMembers(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	isMember, err := h.teamService.IsMember(context.Background(), teamID, userID)
	if err != nil || !isMember {
		c.NotFound("team not found")
		return
	}

	members, err := h.teamService.GetMembers(context.Background(), teamID)
	if err != nil {
		c.InternalServerError("failed to get members")
		return
	}

	response := make([]dto.TeamMemberResponse, len(members))
	for i, member := range members {
		response[i] = toTeamMemberResponse(&member)
	}

	_ = c.JSON(200, response)
}

func (h *TeamHandler) RemoveMember(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	if err := h.membershipService.RemoveMember(context.Background(), teamID, memberID, userID); err != nil {
		writeServiceError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "member removed"})
}

func toTeamResponse(team *models.Team, role string) dto.TeamResponse {
	return dto.TeamResponse{
		ID:         team.ID,
		Name:       team.Name,
		OwnerID:    team.OwnerID,
		MaxMembers: team.MaxMembers,
		IsActive:   team.IsActive,
		Role:       role,
	}
}

func toTeamMemberResponse(member *models.TeamMember) dto.TeamMemberResponse {
	response := dto.TeamMemberResponse{
		ID:       member.ID,
		UserID:   member.UserID,
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
	if member.User != nil {
		response.User = toUserResponse(member.User)
	}
	return response
}

func toUserResponse(user *models.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}
}
