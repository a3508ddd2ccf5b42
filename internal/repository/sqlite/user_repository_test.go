package sqlite

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/domain"
	"shopfront/internal/repository"
)

func TestUserRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestUserRepo(t)

	user := &domain.User{Name: "ann", Email: "ann@example.com", PasswordHash: "hash", Cart: domain.NewCart()}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)
	require.False(t, user.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "ann", byEmail.Name)
	assert.Equal(t, "hash", byEmail.PasswordHash)
	assert.Equal(t, domain.NewCart(), byEmail.Cart)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", byID.Email)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := newTestUserRepo(t)

	require.NoError(t, repo.Create(ctx, &domain.User{Email: "dup@example.com", PasswordHash: "a"}))
	err := repo.Create(ctx, &domain.User{Email: "dup@example.com", PasswordHash: "b"})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)

	var count int
	require.NoError(t, repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email=?`, "dup@example.com").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestUserRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestUserRepo(t)

	_, err := repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateCart(ctx, "missing", domain.NewCart()), repository.ErrNotFound)
}

func TestUserRepositoryUpdateCart(t *testing.T) {
	ctx := context.Background()
	repo := newTestUserRepo(t)

	user := &domain.User{Email: "cart@example.com", PasswordHash: "x", Cart: domain.NewCart()}
	require.NoError(t, repo.Create(ctx, user))

	cart := user.Cart
	require.NoError(t, cart.Add(3))
	require.NoError(t, cart.Add(299))
	require.NoError(t, repo.UpdateCart(ctx, user.ID, cart))

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart, stored.Cart)
}

func TestUserRepositoryStorageFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, name, email").WillReturnError(assert.AnError)

	repo := NewUserRepository(db)
	_, err = repo.GetByEmail(context.Background(), "ann@example.com")
	require.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
