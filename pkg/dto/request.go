package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitJoinRequestRequest struct {
	Message string `json:"message"`
}

type RespondRequest struct {
	Decision string `json:"decision"`
}

type JoinRequestResponse struct {
	ID        uuid.UUID     `json:"id"`
	TeamID    uuid.UUID     `json:"team_id"`
	UserID    uuid.UUID     `json:"user_id"`
	Message   string        `json:"message"`
	Status    string        `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Team      *TeamResponse `json:"team,omitempty"`
	User      *UserResponse `json:"user,omitempty"`
}
