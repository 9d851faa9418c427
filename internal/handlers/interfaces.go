package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/stefanr/teamup-api/internal/models"
)

// TeamServiceInterface defines the methods used by handlers from TeamService
type TeamServiceInterface interface {
	Create(ctx context.Context, name string, ownerID uuid.UUID, maxMembers int) (*models.Team, error)
	GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error)
	GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, []string, error)
	Update(ctx context.Context, teamID uuid.UUID, name string, maxMembers int) (*models.Team, error)
	Deactivate(ctx context.Context, teamID uuid.UUID) error
	Delete(ctx context.Context, teamID uuid.UUID) error
	IsOwner(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error)
}

// MembershipServiceInterface defines the methods used by handlers from MembershipService
type MembershipServiceInterface interface {
	RemoveMember(ctx context.Context, teamID, userID, requestedBy uuid.UUID) error
	CountMembers(ctx context.Context, teamID uuid.UUID) (int, error)
}

// JoinRequestServiceInterface defines the methods used by handlers from JoinRequestService
type JoinRequestServiceInterface interface {
	Submit(ctx context.Context, teamID, userID uuid.UUID, message string) (*models.JoinRequest, error)
	Respond(ctx context.Context, requestID, actorID uuid.UUID, decision string) (*models.JoinRequest, error)
	GetByID(ctx context.Context, requestID uuid.UUID) (*models.JoinRequest, error)
	GetTeamRequests(ctx context.Context, teamID uuid.UUID, status string) ([]models.JoinRequest, error)
	GetUserRequests(ctx context.Context, userID uuid.UUID) ([]models.JoinRequest, error)
}

// InvitationServiceInterface defines the methods used by handlers from InvitationService
type InvitationServiceInterface interface {
	Invite(ctx context.Context, teamID, inviterID, inviteeID uuid.UUID, message string) (*models.Invitation, error)
	Respond(ctx context.Context, invitationID, actorID uuid.UUID, decision string) (*models.Invitation, error)
	Cancel(ctx context.Context, invitationID, actorID uuid.UUID) error
	GetByID(ctx context.Context, invitationID uuid.UUID) (*models.Invitation, error)
	GetTeamInvitations(ctx context.Context, teamID uuid.UUID, status string) ([]models.Invitation, error)
	GetUserInvitations(ctx context.Context, userID uuid.UUID) ([]models.Invitation, error)
}

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
