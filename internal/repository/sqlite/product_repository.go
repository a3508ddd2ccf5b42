package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"shopfront/internal/domain"
	"shopfront/internal/repository"
)

const createProductsTable = `
CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	seq INTEGER NOT NULL,
	name TEXT NOT NULL,
	image TEXT NOT NULL,
	category TEXT NOT NULL,
	new_price REAL NOT NULL DEFAULT 0,
	old_price REAL NOT NULL DEFAULT 0,
	description TEXT NOT NULL DEFAULT '',
	available INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_seq ON products(seq);
`

const selectProduct = `
SELECT id, seq, name, image, category, new_price, old_price, description, available, created_at
FROM products`

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createProductsTable); err != nil {
		return fmt.Errorf("create products table: %w", err)
	}
	return nil
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO products (seq, name, image, category, new_price, old_price, description, available, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.Seq,
		product.Name,
		product.Image,
		product.Category,
		product.NewPrice,
		product.OldPrice,
		product.Description,
		product.Available,
		product.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("product last insert id: %w", err)
	}
	product.StorageID = strconv.FormatInt(id, 10)
	return nil
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, selectProduct+` ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return collectProducts(rows)
}

func (r *ProductRepository) Last(ctx context.Context) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, selectProduct+` ORDER BY id DESC LIMIT 1`)
	return scanProduct(row)
}

// ListByCategory matches substring against category with Unicode case
// folding, which sqlite LIKE does not do beyond ASCII.
func (r *ProductRepository) ListByCategory(ctx context.Context, substring string, limit int) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, selectProduct+` ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query products by category: %w", err)
	}
	defer rows.Close()

	needle := strings.ToLower(substring)
	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		if !strings.Contains(strings.ToLower(product.Category), needle) {
			continue
		}
		products = append(products, *product)
		if limit > 0 && len(products) == limit {
			break
		}
	}
	return products, rows.Err()
}

func (r *ProductRepository) DeleteBySeq(ctx context.Context, seq int64) (*domain.Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	row := tx.QueryRowContext(ctx, selectProduct+` WHERE seq=? ORDER BY id ASC LIMIT 1`, seq)
	product, err := scanProduct(row)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id=?`, product.StorageID); err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit product delete: %w", err)
	}
	return product, nil
}

func collectProducts(rows *sql.Rows) ([]domain.Product, error) {
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

func scanProduct(scanner interface {
	Scan(dest ...any) error
}) (*domain.Product, error) {
	var (
		product domain.Product
		id      int64
	)
	if err := scanner.Scan(
		&id,
		&product.Seq,
		&product.Name,
		&product.Image,
		&product.Category,
		&product.NewPrice,
		&product.OldPrice,
		&product.Description,
		&product.Available,
		&product.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	product.StorageID = strconv.FormatInt(id, 10)
	return &product, nil
}
