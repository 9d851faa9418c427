package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stefanr/teamup-api/internal/database"
	"github.com/stefanr/teamup-api/internal/models"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email: fmt.Sprintf("user%d@example.com", f.counter),
		Name:  fmt.Sprintf("Test User %d", f.counter),
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, name, avatar_url)
		VALUES ($1, $2, $3)
		RETURNING id, email, name, avatar_url, created_at, updated_at
	`, user.Email, user.Name, user.AvatarURL).Scan(
		&user.ID, &user.Email, &user.Name, &user.AvatarURL,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// CreateTeam creates a test team owned by ownerID with the owner seated
func (f *Fixtures) CreateTeam(t *testing.T, ownerID uuid.UUID, maxMembers int, opts ...TeamOption) *models.Team {
	t.Helper()
	f.counter++

	team := &models.Team{
		Name:       fmt.Sprintf("Test Team %d", f.counter),
		OwnerID:    ownerID,
		MaxMembers: maxMembers,
	}

	for _, opt := range opts {
		opt(team)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO teams (name, owner_id, max_members)
		VALUES ($1, $2, $3)
		RETURNING id, name, owner_id, max_members, is_active, created_at, updated_at
	`, team.Name, team.OwnerID, team.MaxMembers).Scan(
		&team.ID, &team.Name, &team.OwnerID, &team.MaxMembers,
		&team.IsActive, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create team: %v", err)
	}

	f.SeatMember(t, team.ID, ownerID, models.RoleOwner)

	return team
}

// TeamOption configures a test team
type TeamOption func(*models.Team)

// WithTeamName sets the team's name
func WithTeamName(name string) TeamOption {
	return func(tm *models.Team) {
		tm.Name = name
	}
}

// SeatMember inserts a membership row directly, bypassing the coordinator
func (f *Fixtures) SeatMember(t *testing.T, teamID, userID uuid.UUID, role string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
	`, teamID, userID, role)
	if err != nil {
		t.Fatalf("failed to seat member: %v", err)
	}
}

// CreateJoinRequest inserts a pending join request
func (f *Fixtures) CreateJoinRequest(t *testing.T, teamID, userID uuid.UUID, message string) *models.JoinRequest {
	t.Helper()
	ctx := context.Background()

	var request models.JoinRequest
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO join_requests (team_id, user_id, message)
		VALUES ($1, $2, $3)
		RETURNING id, team_id, user_id, message, status, created_at, updated_at
	`, teamID, userID, message).Scan(
		&request.ID, &request.TeamID, &request.UserID, &request.Message,
		&request.Status, &request.CreatedAt, &request.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create join request: %v", err)
	}
	return &request
}

// CreateInvitation inserts a pending invitation
func (f *Fixtures) CreateInvitation(t *testing.T, teamID, inviterID, inviteeID uuid.UUID, message string) *models.Invitation {
	t.Helper()
	ctx := context.Background()

	var invitation models.Invitation
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO invitations (team_id, inviter_id, invitee_id, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, team_id, inviter_id, invitee_id, message, status, created_at, updated_at
	`, teamID, inviterID, inviteeID, message).Scan(
		&invitation.ID, &invitation.TeamID, &invitation.InviterID, &invitation.InviteeID,
		&invitation.Message, &invitation.Status, &invitation.CreatedAt, &invitation.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create invitation: %v", err)
	}
	return &invitation
}

// CountMembers returns the current member count for a team
func (f *Fixtures) CountMembers(t *testing.T, teamID uuid.UUID) int {
	t.Helper()
	var count int
	err := f.db.Pool.QueryRow(context.Background(), `
		SELECT COUNT(*) FROM team_members WHERE team_id = $1
	`, teamID).Scan(&count)
	if err != nil {
		t.Fatalf("failed to count members: %v", err)
	}
	return count
}

// RequestStatus reloads a join request's status
func (f *Fixtures) RequestStatus(t *testing.T, requestID uuid.UUID) string {
	t.Helper()
	var status string
	err := f.db.Pool.QueryRow(context.Background(), `
		SELECT status FROM join_requests WHERE id = $1
	`, requestID).Scan(&status)
	if err != nil {
		t.Fatalf("failed to load join request status: %v", err)
	}
	return status
}

// InvitationStatus reloads an invitation's status
func (f *Fixtures) InvitationStatus(t *testing.T, invitationID uuid.UUID) string {
	t.Helper()
	var status string
	err := f.db.Pool.QueryRow(context.Background(), `
		SELECT status FROM invitations WHERE id = $1
	`, invitationID).Scan(&status)
	if err != nil {
		t.Fatalf("failed to load invitation status: %v", err)
	}
	return status
}
