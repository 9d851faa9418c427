package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateInvitationRequest identifies the invitee either directly by id or by
// email, which the handler resolves to a user.
type CreateInvitationRequest struct {
	InviteeID uuid.UUID `json:"invitee_id"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
}

type InvitationResponse struct {
	ID        uuid.UUID     `json:"id"`
	TeamID    uuid.UUID     `json:"team_id"`
	InviterID uuid.UUID     `json:"inviter_id"`
	InviteeID uuid.UUID     `json:"invitee_id"`
	Message   string        `json:"message"`
	Status    string        `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Team      *TeamResponse `json:"team,omitempty"`
	Inviter   *UserResponse `json:"inviter,omitempty"`
	Invitee   *UserResponse `json:"invitee,omitempty"`
}
