package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/domain"
	"shopfront/internal/repository"
)

func seedUser(t *testing.T, users *memUsers) string {
	t.Helper()
	user := &domain.User{Email: "ann@example.com", PasswordHash: "x", Cart: domain.NewCart()}
	require.NoError(t, users.Create(context.Background(), user))
	return user.ID
}

func TestCartAddThenRemoveRestoresCart(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	svc := NewCartService(users)
	id := seedUser(t, users)

	before, err := svc.GetCart(ctx, id)
	require.NoError(t, err)

	require.NoError(t, svc.AddToCart(ctx, id, 12))
	cart, err := svc.GetCart(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, cart[12])

	require.NoError(t, svc.RemoveFromCart(ctx, id, 12))
	after, err := svc.GetCart(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCartRemoveFromEmptySlotIsNoop(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	svc := NewCartService(users)
	id := seedUser(t, users)

	require.NoError(t, svc.RemoveFromCart(ctx, id, 3))
	cart, err := svc.GetCart(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, cart[3])
	assert.Zero(t, users.updates)
}

func TestCartInvalidSlot(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	svc := NewCartService(users)
	id := seedUser(t, users)

	assert.ErrorIs(t, svc.AddToCart(ctx, id, domain.CartSlots), domain.ErrInvalidSlot)
	assert.ErrorIs(t, svc.RemoveFromCart(ctx, id, -1), domain.ErrInvalidSlot)
	assert.Zero(t, users.updates)
}

func TestCartUnknownUser(t *testing.T) {
	svc := NewCartService(newMemUsers())
	assert.ErrorIs(t, svc.AddToCart(context.Background(), "ghost", 1), repository.ErrNotFound)
	_, err := svc.GetCart(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
