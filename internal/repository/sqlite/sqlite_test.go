package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "shop.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestUserRepo(t *testing.T) *UserRepository {
	t.Helper()
	repo := NewUserRepository(openTestDB(t)).(*UserRepository)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func newTestProductRepo(t *testing.T) *ProductRepository {
	t.Helper()
	repo := NewProductRepository(openTestDB(t)).(*ProductRepository)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}
