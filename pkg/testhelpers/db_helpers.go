package testhelpers

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

var uniqueCounter int64

func nextSuffix() int64 {
	return atomic.AddInt64(&uniqueCounter, 1)
}

// SetupTestPool connects to DATABASE_URL_FOR_TEST or skips the test.
func SetupTestPool(t *testing.T, name string) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL_FOR_TEST")
	if dsn == "" {
		t.Skipf("DATABASE_URL_FOR_TEST not set; skipping %s repository tests", name)
	}

	ctx := context.Background()
	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))

	t.Cleanup(pool.Close)
	return pool
}

// CreateTestUser inserts a user with the given role and returns its ID.
func CreateTestUser(t *testing.T, db *pgxpool.Pool, role string) int64 {
	t.Helper()

	ctx := context.Background()
	suffix := nextSuffix()
	name := fmt.Sprintf("test-user-%d-%d", time.Now().UnixNano(), suffix)
	email := fmt.Sprintf("%s@example.com", name)

	var id int64
	err := db.QueryRow(ctx,
		"INSERT INTO users (uuid, email, full_name, password_hash, role) VALUES ($1, $2, $3, 'hash', $4) RETURNING id",
		name, email, name, role).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTestStartupProfile inserts a startup profile for the given user and returns its ID.
func CreateTestStartupProfile(t *testing.T, db *pgxpool.Pool, userID int64) int64 {
	t.Helper()

	ctx := context.Background()
	name := fmt.Sprintf("test-startup-%d", nextSuffix())

	var id int64
	err := db.QueryRow(ctx,
		"INSERT INTO startup_profiles (user_id, startup_name, industry, funding_stage) VALUES ($1, $2, 'fintech', 'seed') RETURNING id",
		userID, name).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTestInvestorProfile inserts an investor profile for the given user and returns its ID.
func CreateTestInvestorProfile(t *testing.T, db *pgxpool.Pool, userID int64) int64 {
	t.Helper()

	ctx := context.Background()
	company := fmt.Sprintf("test-fund-%d", nextSuffix())

	var id int64
	err := db.QueryRow(ctx,
		"INSERT INTO investor_profiles (user_id, company_name, investment_range_min, investment_range_max) VALUES ($1, $2, 1000, 500000) RETURNING id",
		userID, company).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTestOffer inserts an ACTIVE offer with remaining_amount = amount and returns its ID.
func CreateTestOffer(t *testing.T, db *pgxpool.Pool, startupID int64, amount int64) int64 {
	t.Helper()

	ctx := context.Background()

	var id int64
	err := db.QueryRow(ctx,
		"INSERT INTO investment_offers (startup_id, amount, equity_percentage, remaining_amount) VALUES ($1, $2, 10, $2) RETURNING id",
		startupID, amount).Scan(&id)
	require.NoError(t, err)
	return id
}
