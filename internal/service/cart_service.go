package service

import (
	"context"

	"shopfront/internal/domain"
	"shopfront/internal/repository"
)

// CartService mutates the cart stored on a user record. Mutations are a plain
// read-modify-write; concurrent requests for the same user may race.
type CartService interface {
	AddToCart(ctx context.Context, userID string, slot int) error
	RemoveFromCart(ctx context.Context, userID string, slot int) error
	GetCart(ctx context.Context, userID string) (domain.Cart, error)
}

type cartService struct {
	users repository.UserRepository
}

func NewCartService(users repository.UserRepository) CartService {
	return &cartService{users: users}
}

func (s *cartService) AddToCart(ctx context.Context, userID string, slot int) error {
	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		return cart.Add(slot)
	})
}

func (s *cartService) RemoveFromCart(ctx context.Context, userID string, slot int) error {
	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		return cart.Remove(slot)
	})
}

func (s *cartService) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}
	return user.Cart, nil
}

func (s *cartService) mutate(ctx context.Context, userID string, fn func(*domain.Cart) error) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	cart := user.Cart
	if err := fn(&cart); err != nil {
		return err
	}
	if cart == user.Cart {
		return nil
	}
	return s.users.UpdateCart(ctx, userID, cart)
}
