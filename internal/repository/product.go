package repository

import (
	"context"

	"shopfront/internal/domain"
)

// ProductRepository exposes persistence operations for catalog products.
// Listing methods return products in insertion order.
type ProductRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, product *domain.Product) error
	List(ctx context.Context) ([]domain.Product, error)
	// Last returns the most recently inserted product.
	Last(ctx context.Context) (*domain.Product, error)
	ListByCategory(ctx context.Context, substring string, limit int) ([]domain.Product, error)
	// DeleteBySeq removes the first product carrying seq and returns it.
	DeleteBySeq(ctx context.Context, seq int64) (*domain.Product, error)
}
