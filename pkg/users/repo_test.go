package users

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"startupconnect/pkg/policy"
	"startupconnect/pkg/testhelpers"
)

func setupUserTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	return testhelpers.SetupTestPool(t, "user")
}

func insertUser(t *testing.T, pool *pgxpool.Pool, name string) User {
	t.Helper()

	ctx := context.Background()
	stamp := time.Now().UnixNano()
	repo := NewPostgresUserRepository(pool)
	created, err := repo.CreateUser(ctx, User{
		UUID:     fmt.Sprintf("uuid-%d", stamp),
		Email:    fmt.Sprintf("%s-%d@example.com", name, stamp),
		FullName: name,
		Role:     policy.RoleInvestor,
	}, "hash")
	require.NoError(t, err)
	return created
}

func TestPostgresUserRepository_CreateUser(t *testing.T) {
	pool := setupUserTestPool(t)

	created := insertUser(t, pool, "Alice")

	require.NotZero(t, created.ID)
	require.Equal(t, "Alice", created.FullName)
	require.Equal(t, policy.RoleInvestor, created.Role)
	require.Nil(t, created.VerifiedAt)
	require.False(t, created.CreatedAt.IsZero())
}

func TestPostgresUserRepository_UpdateUser(t *testing.T) {
	pool := setupUserTestPool(t)

	repo := NewPostgresUserRepository(pool)
	ctx := context.Background()
	created := insertUser(t, pool, "Bob")

	created.FullName = "Bobby"
	created.Role = policy.RoleStartup
	updated, err := repo.UpdateUser(ctx, created)

	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "Bobby", updated.FullName)
	require.Equal(t, policy.RoleStartup, updated.Role)
}

func TestPostgresUserRepository_UpdateUser_NotFound(t *testing.T) {
	pool := setupUserTestPool(t)

	repo := NewPostgresUserRepository(pool)

	_, err := repo.UpdateUser(context.Background(), User{ID: 999999999, FullName: "Ghost", Email: "ghost@example.com", Role: policy.RoleInvestor})

	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestPostgresUserRepository_AuthAndVerification(t *testing.T) {
	pool := setupUserTestPool(t)

	repo := NewPostgresUserRepository(pool)
	ctx := context.Background()
	created := insertUser(t, pool, "Carol")

	id, hash, err := repo.GetUserAuthByEmail(ctx, created.Email)
	require.NoError(t, err)
	require.Equal(t, created.ID, id)
	require.Equal(t, "hash", hash)

	require.NoError(t, repo.UpdateVerifiedAtByEmail(ctx, created.Email, time.Now()))
	got, err := repo.GetUserByEmail(ctx, created.Email)
	require.NoError(t, err)
	require.NotNil(t, got.VerifiedAt)

	require.ErrorIs(t, repo.UpdateVerifiedAtByEmail(ctx, "nobody@example.com", time.Now()), ErrUserNotFound)
}

func TestPostgresUserRepository_ListUsers(t *testing.T) {
	pool := setupUserTestPool(t)

	repo := NewPostgresUserRepository(pool)
	insertUser(t, pool, "First")
	insertUser(t, pool, "Second")

	users, total, err := repo.ListUsers(context.Background(), 1, 0)

	require.NoError(t, err)
	require.GreaterOrEqual(t, total, int64(2))
	require.Len(t, users, 1)
}
