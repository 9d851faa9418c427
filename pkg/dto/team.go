package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTeamRequest struct {
	Name       string `json:"name"`
	MaxMembers int    `json:"max_members"`
}

type UpdateTeamRequest struct {
	Name       string `json:"name"`
	MaxMembers int    `json:"max_members"`
}

type TeamResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	OwnerID     uuid.UUID `json:"owner_id"`
	MaxMembers  int       `json:"max_members"`
	IsActive    bool      `json:"is_active"`
	MemberCount int       `json:"member_count,omitempty"`
	Role        string    `json:"role,omitempty"`
}

type TeamMemberResponse struct {
	ID       uuid.UUID     `json:"id"`
	UserID   uuid.UUID     `json:"user_id"`
	Role     string        `json:"role"`
	JoinedAt time.Time     `json:"joined_at"`
	User     *UserResponse `json:"user,omitempty"`
}
