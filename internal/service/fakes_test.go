package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"shopfront/internal/domain"
	"shopfront/internal/repository"
	"shopfront/internal/storage"
)

type memUsers struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	nextID  int
	updates int
	err     error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*domain.User{}}
}

func (m *memUsers) Init(ctx context.Context) error { return nil }

func (m *memUsers) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, u := range m.byID {
		if u.Email == user.Email {
			return repository.ErrAlreadyExists
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("u%d", m.nextID)
	stored := *user
	m.byID[user.ID] = &stored
	return nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *u
	return &found, nil
}

func (m *memUsers) UpdateCart(ctx context.Context, id string, cart domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Cart = cart
	m.updates++
	return nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type memProducts struct {
	products []domain.Product
	nextID   int
	err      error
}

func (m *memProducts) Init(ctx context.Context) error { return nil }

func (m *memProducts) Create(ctx context.Context, product *domain.Product) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	product.StorageID = fmt.Sprintf("p%d", m.nextID)
	m.products = append(m.products, *product)
	return nil
}

func (m *memProducts) List(ctx context.Context) ([]domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.Product{}, m.products...), nil
}

func (m *memProducts) Last(ctx context.Context) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.products) == 0 {
		return nil, repository.ErrNotFound
	}
	last := m.products[len(m.products)-1]
	return &last, nil
}

func (m *memProducts) ListByCategory(ctx context.Context, substring string, limit int) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range m.products {
		if strings.Contains(strings.ToLower(p.Category), strings.ToLower(substring)) {
			out = append(out, p)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *memProducts) DeleteBySeq(ctx context.Context, seq int64) (*domain.Product, error) {
	for i, p := range m.products {
		if p.Seq == seq {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memStore struct {
	objects map[string]string
	err     error
}

func (m *memStore) Save(ctx context.Context, name string, body io.Reader, contentType string) (storage.ObjectInfo, error) {
	if m.err != nil {
		return storage.ObjectInfo{}, m.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	if m.objects == nil {
		m.objects = map[string]string{}
	}
	m.objects[name] = string(data)
	return storage.ObjectInfo{Key: name, Size: int64(len(data))}, nil
}

func (m *memStore) Open(ctx context.Context, name string) (io.ReadCloser, storage.ObjectInfo, error) {
	data, ok := m.objects[name]
	if !ok {
		return nil, storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return io.NopCloser(strings.NewReader(data)), storage.ObjectInfo{Key: name, Size: int64(len(data))}, nil
}
