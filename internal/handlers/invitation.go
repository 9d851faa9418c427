package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stefanr/teamup-api/internal/middleware"
	"github.com/stefanr/teamup-api/internal/models"
	"github.com/stefanr/teamup-api/pkg/dto"
)

type InvitationHandler struct {
	invitationService InvitationServiceInterface
	teamService       TeamServiceInterface
	userService       UserServiceInterface
}

func NewInvitationHandler(invitationService InvitationServiceInterface, teamService TeamServiceInterface, userService UserServiceInterface) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
		teamService:       teamService,
		userService:       userService,
	}
}

func (h *InvitationHandler) Create(c *drift.Context) {
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

	var req dto.CreateInvitationRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	inviteeID := req.InviteeID
	if inviteeID == uuid.Nil {
		if req.Email == "" {
			c.BadRequest("invitee_id or email is required")
			return
		}
		invitee, err := h.userService.GetByEmail(context.Background(), req.Email)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		inviteeID = invitee.ID
	}

	invitation, err := h.invitationService.Invite(context.Background(), teamID, userID, inviteeID, req.Message)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	_ = c.JSON(201, toInvitationResponse(invitation))
}

func (h *InvitationHandler) Respond(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	invitationID, err := uuid.Parse(c.Param("invitationId"))
	if err != nil {
		c.BadRequest("invalid invitation id")
		return
	}

	var req dto.RespondRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	invitation, err := h.invitationService.Respond(context.Background(), invitationID, userID, req.Decision)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	_ = c.JSON(200, toInvitationResponse(invitation))
}

func (h *InvitationHandler) Cancel(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	invitationID, err := uuid.Parse(c.Param("invitationId"))
	if err != nil {
		c.BadRequest("invalid invitation id")
		return
	}

	if err := h.invitationService.Cancel(context.Background(), invitationID, userID); err != nil {
		writeServiceError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "invitation cancelled"})
}

// ListForTeam returns a team's invitations to its owner. Defaults to pending
// only; pass ?status=all for the full history.
func (h *InvitationHandler) ListForTeam(c *drift.Context) {
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
		c.Forbidden("only owner can view invitations")
		return
	}

	status := c.QueryParam("status")
	switch status {
	case "":
		status = models.InvitationStatusPending
	case "all":
		status = ""
	}

	invitations, err := h.invitationService.GetTeamInvitations(context.Background(), teamID, status)
	if err != nil {
		c.InternalServerError("failed to get invitations")
		return
	}

	response := make([]dto.InvitationResponse, len(invitations))
	for i, invitation := range invitations {
		response[i] = toInvitationResponse(&invitation)
	}

	_ = c.JSON(200, response)
}

func (h *InvitationHandler) ListMine(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	invitations, err := h.invitationService.GetUserInvitations(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get invitations")
		return
	}

	response := make([]dto.InvitationResponse, len(invitations))
	for i, invitation := range invitations {
		response[i] = toInvitationResponse(&invitation)
	}

	_ = c.JSON(200, response)
}

func toInvitationResponse(invitation *models.Invitation) dto.InvitationResponse {
	response := dto.InvitationResponse{
		ID:        invitation.ID,
		TeamID:    invitation.TeamID,
		InviterID: invitation.InviterID,
		InviteeID: invitation.InviteeID,
		Message:   invitation.Message,
		Status:    invitation.Status,
		CreatedAt: invitation.CreatedAt,
		UpdatedAt: invitation.UpdatedAt,
	}
	if invitation.Team != nil {
		team := toTeamResponse(invitation.Team, "")
		response.Team = &team
	}
	if invitation.Inviter != nil {
		response.Inviter = toUserResponse(invitation.Inviter)
	}
	if invitation.Invitee != nil {
		response.Invitee = toUserResponse(invitation.Invitee)
	}
	return response
}
