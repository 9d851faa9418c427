package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stefanr/teamup-api/internal/database"
	"github.com/stefanr/teamup-api/internal/models"
)

var (
	ErrInvalidMaxMembers = errors.New("max members must be at least 1")
	ErrMaxBelowMembers   = errors.New("max members cannot be below current member count")
)

type TeamService struct {
	db         *database.DB
	membership *MembershipService
}

func NewTeamService(db *database.DB, membership *MembershipService) *TeamService {
	return &TeamService{db: db, membership: membership}
}

// Create inserts the team and seats the owner in one transaction. This is the
// only path that creates an owner-role membership row.
func (s *TeamService) Create(ctx context.Context, name string, ownerID uuid.UUID, maxMembers int) (*models.Team, error) {
	if maxMembers < 1 {
		return nil, ErrInvalidMaxMembers
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var team models.Team
	err = tx.QueryRow(ctx, `
		INSERT INTO teams (name, owner_id, max_members)
		VALUES ($1, $2, $3)
		RETURNING id, name, owner_id, max_members, is_active, created_at, updated_at
	`, name, ownerID, maxMembers).Scan(
		&team.ID, &team.Name, &team.OwnerID, &team.MaxMembers,
		&team.IsActive, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	if _, err := s.membership.AddMemberTx(ctx, tx, team.ID, ownerID, models.RoleOwner); err != nil {
		return nil, fmt.Errorf("failed to add owner as member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &team, nil
}

func (s *TeamService) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, owner_id, max_members, is_active, created_at, updated_at
		FROM teams WHERE id = $1
	`, teamID).Scan(
		&team.ID, &team.Name, &team.OwnerID, &team.MaxMembers,
		&team.IsActive, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (s *TeamService) GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, []string, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT t.id, t.name, t.owner_id, t.max_members, t.is_active, t.created_at, t.updated_at, tm.role
		FROM teams t
		JOIN team_members tm ON t.id = tm.team_id
		WHERE tm.user_id = $1
		ORDER BY t.created_at DESC
	`, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var teams []models.Team
	var roles []string
	for rows.Next() {
		var team models.Team
		var role string
		if err := rows.Scan(
			&team.ID, &team.Name, &team.OwnerID, &team.MaxMembers,
			&team.IsActive, &team.CreatedAt, &team.UpdatedAt, &role,
		); err != nil {
			return nil, nil, err
		}
		teams = append(teams, team)
		roles = append(roles, role)
	}
	return teams, roles, nil
}

// Update changes the team name and capacity. The capacity change locks the
// team row so it cannot race with a concurrent member insert and end up below
// the seated count.
func (s *TeamService) Update(ctx context.Context, teamID uuid.UUID, name string, maxMembers int) (*models.Team, error) {
	if maxMembers < 1 {
		return nil, ErrInvalidMaxMembers
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var currentMax int
	err = tx.QueryRow(ctx, `SELECT max_members FROM teams WHERE id = $1 FOR UPDATE`, teamID).Scan(&currentMax)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to lock team: %w", err)
	}

	var count int
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM team_members WHERE team_id = $1`, teamID).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	if maxMembers < count {
		return nil, ErrMaxBelowMembers
	}

	var team models.Team
	err = tx.QueryRow(ctx, `
		UPDATE teams SET name = $1, max_members = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id, name, owner_id, max_members, is_active, created_at, updated_at
	`, name, maxMembers, teamID).Scan(
		&team.ID, &team.Name, &team.OwnerID, &team.MaxMembers,
		&team.IsActive, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &team, nil
}

// Deactivate flips is_active off. Pending requests and invitations stay in
// place but every later transition on them fails with ErrTeamInactive.
func (s *TeamService) Deactivate(ctx context.Context, teamID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE teams SET is_active = FALSE, updated_at = NOW() WHERE id = $1
	`, teamID)
	if err != nil {
		return fmt.Errorf("failed to deactivate team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTeamNotFound
	}
	return nil
}

// Delete hard-deletes the team; memberships, join requests and invitations
// are discarded by FK cascade.
func (s *TeamService) Delete(ctx context.Context, teamID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, teamID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (s *TeamService) IsOwner(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var ownerID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `SELECT owner_id FROM teams WHERE id = $1`, teamID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrTeamNotFound
		}
		return false, err
	}
	return ownerID == userID, nil
}

func (s *TeamService) IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
	`, teamID, userID).Scan(&exists)
	return exists, err
}

func (s *TeamService) GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT tm.id, tm.team_id, tm.user_id, tm.role, tm.joined_at,
		       u.id, u.email, u.name, u.avatar_url, u.created_at, u.updated_at
		FROM team_members tm
		JOIN users u ON tm.user_id = u.id
		WHERE tm.team_id = $1
		ORDER BY tm.joined_at
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.TeamMember
	for rows.Next() {
		var member models.TeamMember
		var user models.User
		if err := rows.Scan(
			&member.ID, &member.TeamID, &member.UserID, &member.Role, &member.JoinedAt,
			&user.ID, &user.Email, &user.Name, &user.AvatarURL, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		member.User = &user
		members = append(members, member)
	}
	return members, nil
}
