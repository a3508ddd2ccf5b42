package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"shopfront/internal/domain"
	"shopfront/internal/repository"
)

const (
	newCollectionSize = 8
	popularLimit      = 4
)

// ErrNotFound is returned when a catalog query matches nothing.
var ErrNotFound = errors.New("no products found")

// ProductInput carries the caller-supplied fields of a new product.
type ProductInput struct {
	Name        string
	Image       string
	Category    string
	NewPrice    float64
	OldPrice    float64
	Description string
}

// CatalogService lists, creates and deletes catalog products.
type CatalogService interface {
	ListAll(ctx context.Context) ([]domain.Product, error)
	ListNewCollections(ctx context.Context) ([]domain.Product, error)
	ListPopularInCategory(ctx context.Context, substring string) ([]domain.Product, error)
	AddProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	// RemoveProduct deletes the first product with seq. It returns nil, nil
	// when no product matches.
	RemoveProduct(ctx context.Context, seq int64) (*domain.Product, error)
}

type catalogService struct {
	products repository.ProductRepository

	// addMu keeps sequence id assignment single-writer within the process.
	addMu sync.Mutex
}

func NewCatalogService(products repository.ProductRepository) CatalogService {
	return &catalogService{products: products}
}

func (s *catalogService) ListAll(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *catalogService) ListNewCollections(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	return newCollectionWindow(products), nil
}

// newCollectionWindow drops the first product then keeps the last eight of
// what remains.
func newCollectionWindow(products []domain.Product) []domain.Product {
	if len(products) <= 1 {
		return []domain.Product{}
	}
	rest := products[1:]
	if len(rest) > newCollectionSize {
		rest = rest[len(rest)-newCollectionSize:]
	}
	out := make([]domain.Product, len(rest))
	copy(out, rest)
	return out
}

func (s *catalogService) ListPopularInCategory(ctx context.Context, substring string) ([]domain.Product, error) {
	products, err := s.products.ListByCategory(ctx, strings.TrimSpace(substring), popularLimit)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNotFound
	}
	return products, nil
}

func (s *catalogService) AddProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	s.addMu.Lock()
	defer s.addMu.Unlock()

	next := int64(1)
	last, err := s.products.Last(ctx)
	switch {
	case err == nil:
		next = last.Seq + 1
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	product := &domain.Product{
		Seq:         next,
		Name:        input.Name,
		Image:       input.Image,
		Category:    input.Category,
		NewPrice:    input.NewPrice,
		OldPrice:    input.OldPrice,
		Description: input.Description,
		Available:   true,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) RemoveProduct(ctx context.Context, seq int64) (*domain.Product, error) {
	product, err := s.products.DeleteBySeq(ctx, seq)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return product, nil
}
