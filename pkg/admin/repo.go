package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"startupconnect/pkg/db"
	"startupconnect/pkg/users"
)

type AccountRepository interface {
	// DeleteAccount removes the user and every row that references it in one
	// transaction and returns the storage keys of the pitch decks it removed.
	DeleteAccount(ctx context.Context, userID int64) ([]string, error)
}

type postgresAccountRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &postgresAccountRepository{pool: pool}
}

const (
	ownStartups  = `SELECT id FROM startup_profiles WHERE user_id = $1`
	ownInvestors = `SELECT id FROM investor_profiles WHERE user_id = $1`
)

// cascade runs after pitch decks are collected. Order follows the foreign keys.
var cascade = []struct {
	name  string
	query string
}{
	{"transactions", `DELETE FROM transactions WHERE startup_id IN (` + ownStartups + `) OR investor_id IN (` + ownInvestors + `)`},
	{"offers", `DELETE FROM investment_offers WHERE startup_id IN (` + ownStartups + `)`},
	{"accepted offers", `UPDATE investment_offers SET investor_user_id = NULL, updated_at = NOW() WHERE investor_user_id = $1`},
	{"messages", `DELETE FROM messages WHERE sender_id = $1 OR receiver_id = $1`},
	{"notifications", `DELETE FROM notifications WHERE user_id = $1`},
	{"otps", `DELETE FROM otps WHERE email = (SELECT email FROM users WHERE id = $1)`},
	{"startup profile", `DELETE FROM startup_profiles WHERE user_id = $1`},
	{"investor profile", `DELETE FROM investor_profiles WHERE user_id = $1`},
}

func (r *postgresAccountRepository) DeleteAccount(ctx context.Context, userID int64) ([]string, error) {
	var keys []string
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		// lock the user row so concurrent deletes serialise
		var id int64
		if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return users.ErrUserNotFound
			}
			return fmt.Errorf("lock user: %w", err)
		}

		rows, err := tx.Query(ctx, `DELETE FROM pitch_decks WHERE startup_id IN (`+ownStartups+`) RETURNING storage_key`, userID)
		if err != nil {
			return fmt.Errorf("delete pitch decks: %w", err)
		}
		keys, err = pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("delete pitch decks: %w", err)
		}

		for _, step := range cascade {
			if _, err := tx.Exec(ctx, step.query, userID); err != nil {
				return fmt.Errorf("delete %s: %w", step.name, err)
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
