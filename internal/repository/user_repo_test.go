package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"estate_ledger/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (name, email, password_hash, role)")).
		WithArgs("Bea", "bea@example.com", "hash", model.RoleBuyer).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(4, now))

	u := &model.User{Name: "Bea", Email: "bea@example.com", PasswordHash: "hash", Role: model.RoleBuyer}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, 4, u.ID)
	assert.Equal(t, now, u.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Bea", "bea@example.com", "hash", model.RoleBuyer).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Create(context.Background(), &model.User{Name: "Bea", Email: "bea@example.com", PasswordHash: "hash", Role: model.RoleBuyer})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("nobody@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at"}))

	u, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, u)
	assert.NoError(t, mock.ExpectationsWereMet())
}
