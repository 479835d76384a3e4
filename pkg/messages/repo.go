package messages

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageStore interface {
	SaveMessage(ctx context.Context, m Message) (Message, error)
	GetConversation(ctx context.Context, userID, peerID int64, limit int, before time.Time) ([]Message, error)
	GetConversationUsers(ctx context.Context, userID int64) ([]Contact, error)
}

type PostgresMessageStore struct {
	pool *pgxpool.Pool
}

func NewPostgresMessageStore(pool *pgxpool.Pool) *PostgresMessageStore {
	return &PostgresMessageStore{pool: pool}
}

// SaveMessage inserts a message and returns it with its id.
func (r *PostgresMessageStore) SaveMessage(ctx context.Context, m Message) (Message, error) {
	const insertSQL = `
		INSERT INTO messages (sender_id, receiver_id, content, sent_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.pool.QueryRow(ctxTimeout, insertSQL, m.SenderID, m.ReceiverID, m.Content, m.SentAt).Scan(&m.ID); err != nil {
		return Message{}, fmt.Errorf("insert message: %w", err)
	}
	return m, nil
}

// GetConversation returns up to limit messages exchanged between two users
// before the cursor, oldest first.
func (r *PostgresMessageStore) GetConversation(ctx context.Context, userID, peerID int64, limit int, before time.Time) ([]Message, error) {
	const querySQL = `
		SELECT id, sender_id, receiver_id, content, sent_at
		FROM (
			SELECT id, sender_id, receiver_id, content, sent_at
			FROM messages
			WHERE ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
			  AND sent_at < $3
			ORDER BY sent_at DESC, id DESC
			LIMIT $4
		) page
		ORDER BY sent_at ASC, id ASC
	`

	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctxTimeout, querySQL, userID, peerID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("query conversation: %w", err)
	}
	defer rows.Close()

	result := make([]Message, 0, limit)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.SentAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}

// GetConversationUsers lists every user that sent to or received from userID.
func (r *PostgresMessageStore) GetConversationUsers(ctx context.Context, userID int64) ([]Contact, error) {
	const querySQL = `
		SELECT u.id, u.full_name, u.email, u.role
		FROM users u
		WHERE u.id IN (
			SELECT receiver_id FROM messages WHERE sender_id = $1
			UNION
			SELECT sender_id FROM messages WHERE receiver_id = $1
		)
		ORDER BY u.full_name, u.id
	`

	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctxTimeout, querySQL, userID)
	if err != nil {
		return nil, fmt.Errorf("query conversation users: %w", err)
	}
	defer rows.Close()

	contacts := make([]Contact, 0)
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.FullName, &c.Email, &c.Role); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return contacts, nil
}
