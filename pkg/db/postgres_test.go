package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"startupconnect/pkg/config"
)

func setupDBTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL_FOR_TEST")
	if dsn == "" {
		t.Skip("DATABASE_URL_FOR_TEST not set; skipping db tests")
	}

	pool, err := Connect(context.Background(), config.DatabaseConfig{
		URL:         dsn,
		MaxConns:    4,
		MinConns:    1,
		ApplySchema: true,
		SchemaPath:  "schema.sql",
	})
	require.NoError(t, err)

	t.Cleanup(pool.Close)
	return pool
}

func TestApplySchema_MissingFile(t *testing.T) {
	err := ApplySchema(context.Background(), nil, filepath.Join(t.TempDir(), "nope.sql"))

	require.ErrorContains(t, err, "read schema file")
}

func TestApplySchema_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.sql")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	err := ApplySchema(context.Background(), nil, path)

	require.ErrorContains(t, err, "schema file is empty")
}

func TestApplySchema_Idempotent(t *testing.T) {
	pool := setupDBTestPool(t)

	require.NoError(t, ApplySchema(context.Background(), pool, "schema.sql"))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	pool := setupDBTestPool(t)
	ctx := context.Background()
	email := "rollback-check@example.com"
	boom := errors.New("boom")

	err := WithTx(ctx, pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO otps (email, code, expires_at) VALUES ($1, '000000', NOW())`, email)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM otps WHERE email = $1`, email).Scan(&count))
	require.Zero(t, count)
}
