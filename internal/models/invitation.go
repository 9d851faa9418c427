package models

import (
	"time"

	"github.com/google/uuid"
)

// Invitation is an owner-initiated ask for a specific user to join a team,
// resolved by the invitee.
type Invitation struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"team_id"`
	InviterID uuid.UUID `json:"inviter_id"`
	InviteeID uuid.UUID `json:"invitee_id"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Team      *Team     `json:"team,omitempty"`
	Inviter   *User     `json:"inviter,omitempty"`
	Invitee   *User     `json:"invitee,omitempty"`
}

const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusRejected = "rejected"
)
