package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stefanr/teamup-api/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserService(t *testing.T) (*UserService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewUserService(&database.DB{Pool: mock}), mock
}

func userRows(userID uuid.UUID, email, name string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "email", "name", "avatar_url", "created_at", "updated_at"}).
		AddRow(userID, email, name, nil, now, now)
}

func TestUserService_Create(t *testing.T) {
	svc, mock := setupUserService(t)
	userID := uuid.New()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice@example.com", "Alice").
		WillReturnRows(userRows(userID, "alice@example.com", "Alice"))

	user, err := svc.Create(context.Background(), "alice@example.com", "Alice")

	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Nil(t, user.AvatarURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc, mock := setupUserService(t)
	userID := uuid.New()

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(context.Background(), userID)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_GetByEmail(t *testing.T) {
	svc, mock := setupUserService(t)
	userID := uuid.New()

	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("bob@example.com").
		WillReturnRows(userRows(userID, "bob@example.com", "Bob"))

	user, err := svc.GetByEmail(context.Background(), "bob@example.com")

	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
