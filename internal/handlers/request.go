package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stefanr/teamup-api/internal/middleware"
	"github.com/stefanr/teamup-api/internal/models"
	"github.com/stefanr/teamup-api/pkg/dto"
)

type RequestHandler struct {
	requestService JoinRequestServiceInterface
	teamService    TeamServiceInterface
}

func NewRequestHandler(requestService JoinRequestServiceInterface, teamService TeamServiceInterface) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		teamService:    teamService,
	}
}

func (h *RequestHandler) Submit(c *drift.Context) {
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

	var req dto.SubmitJoinRequestRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	request, err := h.requestService.Submit(context.Background(), teamID, userID, req.Message)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	_ = c.JSON(201, toJoinRequestResponse(request))
}

func (h *RequestHandler) Respond(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		c.BadRequest("invalid request id")
		return
	}

	var req dto.RespondRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	request, err := h.requestService.Respond(context.Background(), requestID, userID, req.Decision)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	_ = c.JSON(200, toJoinRequestResponse(request))
}

// ListForTeam returns a team's join requests to its owner. Defaults to
// pending only; pass ?status=all for the full history.
func (h *RequestHandler) ListForTeam(c *drift.Context) {
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
		c.Forbidden("only owner can view join requests")
		return
	}

	status := c.QueryParam("status")
	switch status {
	case "":
		status = models.RequestStatusPending
	case "all":
		status = ""
	}

	requests, err := h.requestService.GetTeamRequests(context.Background(), teamID, status)
	if err != nil {
		c.InternalServerError("failed to get join requests")
		return
	}

	response := make([]dto.JoinRequestResponse, len(requests))
	for i, request := range requests {
		response[i] = toJoinRequestResponse(&request)
	}

	_ = c.JSON(200, response)
}

func (h *RequestHandler) ListMine(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	requests, err := h.requestService.GetUserRequests(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get join requests")
		return
	}

	response := make([]dto.JoinRequestResponse, len(requests))
	for i, request := range requests {
		response[i] = toJoinRequestResponse(&request)
	}

	_ = c.JSON(200, response)
}

func toJoinRequestResponse(request *models.JoinRequest) dto.JoinRequestResponse {
	response := dto.JoinRequestResponse{
		ID:        request.ID,
		TeamID:    request.TeamID,
		UserID:    request.UserID,
		Message:   request.Message,
		Status:    request.Status,
		CreatedAt: request.CreatedAt,
		UpdatedAt: request.UpdatedAt,
	}
	if request.Team != nil {
		team := toTeamResponse(request.Team, "")
		response.Team = &team
	}
	if request.User != nil {
		response.User = toUserResponse(request.User)
	}
	return response
}
