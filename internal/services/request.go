package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stefanr/teamup-api/internal/database"
	"github.com/stefanr/teamup-api/internal/models"
	"github.com/stefanr/teamup-api/internal/notify"
)

var (
	ErrRequestNotFound         = errors.New("join request not found")
	ErrDuplicatePendingRequest = errors.New("a pending request for this team already exists")
	ErrIsOwner                 = errors.New("user is the team owner")
	ErrInvalidStateTransition  = errors.New("request or invitation is no longer pending")
	ErrInvalidDecision         = errors.New("invalid decision")
)

const (
	DecisionApprove = "approve"
	DecisionAccept  = "accept"
	DecisionReject  = "reject"
)

// JoinRequestService tracks applicant-initiated join requests. It validates
// its own state transitions and delegates the membership insert to the
// membership service inside the same transaction, so an approval either seats
// the member or leaves the request pending.
type JoinRequestService struct {
	db         *database.DB
	membership *MembershipService
	dispatcher notify.Dispatcher
}

func NewJoinRequestService(db *database.DB, membership *MembershipService, dispatcher notify.Dispatcher) *JoinRequestService {
	return &JoinRequestService{
		db:         db,
		membership: membership,
		dispatcher: dispatcher,
	}
}

// Submit creates a pending request. The fullness check here is advisory: the
// authoritative check happens at approval time under the team row lock.
func (s *JoinRequestService) Submit(ctx context.Context, teamID, userID uuid.UUID, message string) (*models.JoinRequest, error) {
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
	if !isActive {
		return nil, ErrTeamInactive
	}
	if userID == ownerID {
		return nil, ErrIsOwner
	}

	var isMember bool
	err = s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
	`, teamID, userID).Scan(&isMember)
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

	var request models.JoinRequest
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO join_requests (team_id, user_id, message)
		VALUES ($1, $2, $3)
		RETURNING id, team_id, user_id, message, status, created_at, updated_at
	`, teamID, userID, message).Scan(
		&request.ID, &request.TeamID, &request.UserID, &request.Message,
		&request.Status, &request.CreatedAt, &request.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicatePendingRequest
		}
		return nil, fmt.Errorf("failed to create join request: %w", err)
	}

	s.dispatcher.Notify(notify.Event{
		Kind:     notify.KindRequestSubmitted,
		TeamID:   teamID,
		ActorID:  userID,
		TargetID: ownerID,
	})

	return &request, nil
}

// Respond resolves a pending request. Only the team owner may respond.
// Approval updates the status and seats the member in one transaction; a
// capacity failure rolls the whole thing back and the request stays pending.
func (s *JoinRequestService) Respond(ctx context.Context, requestID, actorID uuid.UUID, decision string) (*models.JoinRequest, error) {
	if decision != DecisionApprove && decision != DecisionReject {
		return nil, ErrInvalidDecision
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var request models.JoinRequest
	err = tx.QueryRow(ctx, `
		SELECT id, team_id, user_id, message, status, created_at, updated_at
		FROM join_requests WHERE id = $1 FOR UPDATE
	`, requestID).Scan(
		&request.ID, &request.TeamID, &request.UserID, &request.Message,
		&request.Status, &request.CreatedAt, &request.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load join request: %w", err)
	}

	var ownerID uuid.UUID
	var isActive bool
	err = tx.QueryRow(ctx, `
		SELECT owner_id, is_active FROM teams WHERE id = $1
	`, request.TeamID).Scan(&ownerID, &isActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	if actorID != ownerID {
		return nil, ErrNotAuthorized
	}
	if request.Status != models.RequestStatusPending {
		return nil, ErrInvalidStateTransition
	}
	if !isActive {
		return nil, ErrTeamInactive
	}

	status := models.RequestStatusRejected
	if decision == DecisionApprove {
		status = models.RequestStatusApproved
	}

	err = tx.QueryRow(ctx, `
		UPDATE join_requests SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING status, updated_at
	`, status, requestID).Scan(&request.Status, &request.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update join request: %w", err)
	}

	if decision == DecisionApprove {
		if _, err := s.membership.AddMemberTx(ctx, tx, request.TeamID, request.UserID, models.RoleMember); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	kind := notify.KindRequestRejected
	if decision == DecisionApprove {
		kind = notify.KindRequestApproved
	}
	s.dispatcher.Notify(notify.Event{
		Kind:     kind,
		TeamID:   request.TeamID,
		ActorID:  actorID,
		TargetID: request.UserID,
	})

	return &request, nil
}

func (s *JoinRequestService) GetByID(ctx context.Context, requestID uuid.UUID) (*models.JoinRequest, error) {
	var request models.JoinRequest
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, team_id, user_id, message, status, created_at, updated_at
		FROM join_requests WHERE id = $1
	`, requestID).Scan(
		&request.ID, &request.TeamID, &request.UserID, &request.Message,
		&request.Status, &request.CreatedAt, &request.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

// GetTeamRequests lists a team's requests, optionally filtered by status.
func (s *JoinRequestService) GetTeamRequests(ctx context.Context, teamID uuid.UUID, status string) ([]models.JoinRequest, error) {
	query := `
		SELECT jr.id, jr.team_id, jr.user_id, jr.message, jr.status, jr.created_at, jr.updated_at,
		       u.id, u.email, u.name, u.avatar_url, u.created_at, u.updated_at
		FROM join_requests jr
		JOIN users u ON jr.user_id = u.id
		WHERE jr.team_id = $1`
	args := []any{teamID}
	if status != "" {
		query += ` AND jr.status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY jr.created_at DESC`

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.JoinRequest
	for rows.Next() {
		var request models.JoinRequest
		var user models.User
		if err := rows.Scan(
			&request.ID, &request.TeamID, &request.UserID, &request.Message,
			&request.Status, &request.CreatedAt, &request.UpdatedAt,
			&user.ID, &user.Email, &user.Name, &user.AvatarURL, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		request.User = &user
		requests = append(requests, request)
	}
	return requests, nil
}

// GetUserRequests lists every request the user has submitted, newest first.
func (s *JoinRequestService) GetUserRequests(ctx context.Context, userID uuid.UUID) ([]models.JoinRequest, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT jr.id, jr.team_id, jr.user_id, jr.message, jr.status, jr.created_at, jr.updated_at,
		       t.id, t.name, t.owner_id, t.max_members, t.is_active, t.created_at, t.updated_at
		FROM join_requests jr
		JOIN teams t ON jr.team_id = t.id
		WHERE jr.user_id = $1
		ORDER BY jr.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.JoinRequest
	for rows.Next() {
		var request models.JoinRequest
		var team models.Team
		if err := rows.Scan(
			&request.ID, &request.TeamID, &request.UserID, &request.Message,
			&request.Status, &request.CreatedAt, &request.UpdatedAt,
			&team.ID, &team.Name, &team.OwnerID, &team.MaxMembers,
			&team.IsActive, &team.CreatedAt, &team.UpdatedAt,
		); err != nil {
			return nil, err
		}
		request.Team = &team
		requests = append(requests, request)
	}
	return requests, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation. The partial unique indexes on pending rows are the second line
// of defense behind the explicit duplicate checks.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
