package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stefanr/teamup-api/internal/database"
	"github.com/stefanr/teamup-api/internal/models"
	"github.com/stefanr/teamup-api/internal/notify"
)

var (
	ErrTeamNotFound      = errors.New("team not found")
	ErrTeamInactive      = errors.New("team is not active")
	ErrTeamFull          = errors.New("team is full")
	ErrAlreadyMember     = errors.New("user is already a team member")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrCannotRemoveOwner = errors.New("cannot remove team owner")
)

// MembershipService is the only component that writes team_members rows. The
// capacity and uniqueness invariants are enforced here: every insert locks the
// team row first, so concurrent adds for the same team serialize on that lock
// while adds for different teams proceed independently.
type MembershipService struct {
	db         *database.DB
	dispatcher notify.Dispatcher
}

func NewMembershipService(db *database.DB, dispatcher notify.Dispatcher) *MembershipService {
	return &MembershipService{db: db, dispatcher: dispatcher}
}

// AddMember seats a user on a team in its own transaction.
func (s *MembershipService) AddMember(ctx context.Context, teamID, userID uuid.UUID, role string) (*models.TeamMember, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	member, err := s.AddMemberTx(ctx, tx, teamID, userID, role)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return member, nil
}

// AddMemberTx is the atomic check-then-insert unit, run inside the caller's
// transaction. Ledgers use it so their status transition and the membership
// insert commit or roll back together. The FOR UPDATE lock on the team row
// must be held before the member count is read; computing the count earlier
// and reusing it would let two racers both observe a free slot.
func (s *MembershipService) AddMemberTx(ctx context.Context, tx pgx.Tx, teamID, userID uuid.UUID, role string) (*models.TeamMember, error) {
	var maxMembers int
	var isActive bool
	err := tx.QueryRow(ctx, `
		SELECT max_members, is_active FROM teams WHERE id = $1 FOR UPDATE
	`, teamID).Scan(&maxMembers, &isActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to lock team: %w", err)
	}
	if !isActive {
		return nil, ErrTeamInactive
	}

	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
	`, teamID, userID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if exists {
		return nil, ErrAlreadyMember
	}

	var count int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM team_members WHERE team_id = $1
	`, teamID).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	if count >= maxMembers {
		return nil, ErrTeamFull
	}

	var member models.TeamMember
	err = tx.QueryRow(ctx, `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, team_id, user_id, role, joined_at
	`, teamID, userID, role).Scan(
		&member.ID, &member.TeamID, &member.UserID, &member.Role, &member.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert member: %w", err)
	}
	return &member, nil
}

// RemoveMember deletes a membership row. Only the team owner may remove
// members, and the owner's own row can never be removed this way. Removing a
// user who is not a member is a no-op success so callers can retry safely.
func (s *MembershipService) RemoveMember(ctx context.Context, teamID, userID, requestedBy uuid.UUID) error {
	var ownerID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `SELECT owner_id FROM teams WHERE id = $1`, teamID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to load team: %w", err)
	}

	if requestedBy != ownerID {
		return ErrNotAuthorized
	}
	if userID == ownerID {
		return ErrCannotRemoveOwner
	}

	tag, err := s.db.Pool.Exec(ctx, `
		DELETE FROM team_members WHERE team_id = $1 AND user_id = $2
	`, teamID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	if tag.RowsAffected() > 0 {
		s.dispatcher.Notify(notify.Event{
			Kind:     notify.KindMemberRemoved,
			TeamID:   teamID,
			ActorID:  requestedBy,
			TargetID: userID,
		})
	}
	return nil
}

func (s *MembershipService) CountMembers(ctx context.Context, teamID uuid.UUID) (int, error) {
	var count int
	err := s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM team_members WHERE team_id = $1
	`, teamID).Scan(&count)
	return count, err
}
