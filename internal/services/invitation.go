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
	ErrInvitationNotFound         = errors.New("invitation not found")
	ErrDuplicatePendingInvitation = errors.New("a pending invitation for this user already exists")
)

// InvitationService mirrors the join-request ledger with initiation reversed:
// the owner invites, the invitee responds. Acceptance seats the member through
// the membership service in the same transaction as the status flip.
type InvitationService struct {
	db         *database.DB
	membership *MembershipService
	dispatcher notify.Dispatcher
}

func NewInvitationService(db *database.DB, membership *MembershipService, dispatcher notify.Dispatcher) *InvitationService {
	return &InvitationService{
		db:         db,
		membership: membership,
		dispatcher: dispatcher,
	}
}

// Invite creates a pending invitation. Capacity is checked optimistically
// here and again authoritatively at acceptance time, since the team can fill
// up in between.
func (s *InvitationService) Invite(ctx context.Context, teamID, inviterID, inviteeID uuid.UUID, message string) (*models.Invitation, error) {
	var ownerID uuid.UUID
	var maxMembers int
	var isActive bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT owner_id, max_members, is_active FROM teams WHERE id = $1
	`, teamID).Scan(&ownerID, &maxMembers, &isActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	if inviterID != ownerID {
		return nil, ErrNotAuthorized
	}
	if !isActive {
		return nil, ErrTeamInactive
	}

	var isMember bool
	err = s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
	`, teamID, inviteeID).Scan(&isMember)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if isMember {
		return nil, ErrAlreadyMember
	}

	var count int
	err = s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM team_members WHERE team_id = $1
	`, teamID).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	if count >= maxMembers {
		return nil, ErrTeamFull
	}

	var invitation models.Invitation
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO invitations (team_id, inviter_id, invitee_id, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, team_id, inviter_id, invitee_id, message, status, created_at, updated_at
	`, teamID, inviterID, inviteeID, message).Scan(
		&invitation.ID, &invitation.TeamID, &invitation.InviterID, &invitation.InviteeID,
		&invitation.Message, &invitation.Status, &invitation.CreatedAt, &invitation.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicatePendingInvitation
		}
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	s.dispatcher.Notify(notify.Event{
		Kind:     notify.KindInvitationSent,
		TeamID:   teamID,
		ActorID:  inviterID,
		TargetID: inviteeID,
	})

	return &invitation, nil
}

// Respond resolves a pending invitation. Only the invitee may respond.
// Acceptance and the membership insert share one transaction: a full team
// rolls both back and the invitation stays pending.
func (s *InvitationService) Respond(ctx context.Context, invitationID, actorID uuid.UUID, decision string) (*models.Invitation, error) {
	if decision != DecisionAccept && decision != DecisionReject {
		return nil, ErrInvalidDecision
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var invitation models.Invitation
	err = tx.QueryRow(ctx, `
		SELECT id, team_id, inviter_id, invitee_id, message, status, created_at, updated_at
		FROM invitations WHERE id = $1 FOR UPDATE
	`, invitationID).Scan(
		&invitation.ID, &invitation.TeamID, &invitation.InviterID, &invitation.InviteeID,
		&invitation.Message, &invitation.Status, &invitation.CreatedAt, &invitation.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to load invitation: %w", err)
	}

	if actorID != invitation.InviteeID {
		return nil, ErrNotAuthorized
	}
	if invitation.Status != models.InvitationStatusPending {
		return nil, ErrInvalidStateTransition
	}

	var isActive bool
	err = tx.QueryRow(ctx, `SELECT is_active FROM teams WHERE id = $1`, invitation.TeamID).Scan(&isActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	if !isActive {
		return nil, ErrTeamInactive
	}

	status := models.InvitationStatusRejected
	if decision == DecisionAccept {
		status = models.InvitationStatusAccepted
	}

	err = tx.QueryRow(ctx, `
		UPDATE invitations SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING status, updated_at
	`, status, invitationID).Scan(&invitation.Status, &invitation.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}

	if decision == DecisionAccept {
		if _, err := s.membership.AddMemberTx(ctx, tx, invitation.TeamID, invitation.InviteeID, models.RoleMember); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	kind := notify.KindInvitationRejected
	if decision == DecisionAccept {
		kind = notify.KindInvitationAccepted
	}
	s.dispatcher.Notify(notify.Event{
		Kind:     kind,
		TeamID:   invitation.TeamID,
		ActorID:  actorID,
		TargetID: invitation.InviterID,
	})

	return &invitation, nil
}

// Cancel lets the team owner withdraw a pending invitation.
func (s *InvitationService) Cancel(ctx context.Context, invitationID, actorID uuid.UUID) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var teamID uuid.UUID
	var status string
	err = tx.QueryRow(ctx, `
		SELECT team_id, status FROM invitations WHERE id = $1 FOR UPDATE
	`, invitationID).Scan(&teamID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvitationNotFound
		}
		return fmt.Errorf("failed to load invitation: %w", err)
	}

	var ownerID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT owner_id FROM teams WHERE id = $1`, teamID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to load team: %w", err)
	}
	if actorID != ownerID {
		return ErrNotAuthorized
	}
	if status != models.InvitationStatusPending {
		return ErrInvalidStateTransition
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invitations WHERE id = $1`, invitationID); err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *InvitationService) GetByID(ctx context.Context, invitationID uuid.UUID) (*models.Invitation, error) {
	var invitation models.Invitation
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, team_id, inviter_id, invitee_id, message, status, created_at, updated_at
		FROM invitations WHERE id = $1
	`, invitationID).Scan(
		&invitation.ID, &invitation.TeamID, &invitation.InviterID, &invitation.InviteeID,
		&invitation.Message, &invitation.Status, &invitation.CreatedAt, &invitation.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

// GetTeamInvitations lists a team's invitations, optionally filtered by status.
func (s *InvitationService) GetTeamInvitations(ctx context.Context, teamID uuid.UUID, status string) ([]models.Invitation, error) {
	query := `
		SELECT i.id, i.team_id, i.inviter_id, i.invitee_id, i.message, i.status, i.created_at, i.updated_at,
		       u.id, u.email, u.name, u.avatar_url, u.created_at, u.updated_at
		FROM invitations i
		JOIN users u ON i.invitee_id = u.id
		WHERE i.team_id = $1`
	args := []any{teamID}
	if status != "" {
		query += ` AND i.status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY i.created_at DESC`

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		var invitation models.Invitation
		var invitee models.User
		if err := rows.Scan(
			&invitation.ID, &invitation.TeamID, &invitation.InviterID, &invitation.InviteeID,
			&invitation.Message, &invitation.Status, &invitation.CreatedAt, &invitation.UpdatedAt,
			&invitee.ID, &invitee.Email, &invitee.Name, &invitee.AvatarURL,
			&invitee.CreatedAt, &invitee.UpdatedAt,
		); err != nil {
			return nil, err
		}
		invitation.Invitee = &invitee
		invitations = append(invitations, invitation)
	}
	return invitations, nil
}

// GetUserInvitations lists pending invitations addressed to the user.
func (s *InvitationService) GetUserInvitations(ctx context.Context, userID uuid.UUID) ([]models.Invitation, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT i.id, i.team_id, i.inviter_id, i.invitee_id, i.message, i.status, i.created_at, i.updated_at,
		       t.id, t.name, t.owner_id, t.max_members, t.is_active, t.created_at, t.updated_at,
		       u.id, u.email, u.name, u.avatar_url, u.created_at, u.updated_at
		FROM invitations i
		JOIN teams t ON i.team_id = t.id
		JOIN users u ON i.inviter_id = u.id
		WHERE i.invitee_id = $1 AND i.status = $2
		ORDER BY i.created_at DESC
	`, userID, models.InvitationStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		var invitation models.Invitation
		var team models.Team
		var inviter models.User
		if err := rows.Scan(
			&invitation.ID, &invitation.TeamID, &invitation.InviterID, &invitation.InviteeID,
			&invitation.Message, &invitation.Status, &invitation.CreatedAt, &invitation.UpdatedAt,
			&team.ID, &team.Name, &team.OwnerID, &team.MaxMembers,
			&team.IsActive, &team.CreatedAt, &team.UpdatedAt,
			&inviter.ID, &inviter.Email, &inviter.Name, &inviter.AvatarURL,
			&inviter.CreatedAt, &inviter.UpdatedAt,
		); err != nil {
			return nil, err
		}
		invitation.Team = &team
		invitation.Inviter = &inviter
		invitations = append(invitations, invitation)
	}
	return invitations, nil
}
