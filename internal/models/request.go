package models

import (
	"time"

	"github.com/google/uuid"
)

// JoinRequest is an applicant-initiated ask to join a team, resolved by the
// team owner. Pending is the only non-terminal status.
type JoinRequest struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"team_id"`
	UserID    uuid.UUID `json:"user_id"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Team      *Team     `json:"team,omitempty"`
	User      *User     `json:"user,omitempty"`
}

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)
