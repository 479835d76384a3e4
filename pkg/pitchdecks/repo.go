package pitchdecks

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PitchDeckRepository interface {
	Create(ctx context.Context, d PitchDeck) (PitchDeck, error)
	GetByID(ctx context.Context, id int64) (PitchDeck, error)
	ListByStartup(ctx context.Context, startupID int64, publicOnly bool) ([]PitchDeck, error)
	Update(ctx context.Context, d PitchDeck) (PitchDeck, error)
	Delete(ctx context.Context, id int64) error
}

type postgresPitchDeckRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPitchDeckRepository(pool *pgxpool.Pool) PitchDeckRepository {
	return &postgresPitchDeckRepository{pool: pool}
}

const deckColumns = `id, startup_id, title, description, file_name, storage_key, content_type, file_size, is_public, uploaded_at, updated_at`

func scanDeck(row pgx.Row) (PitchDeck, error) {
	var d PitchDeck
	err := row.Scan(&d.ID, &d.StartupID, &d.Title, &d.Description, &d.FileName, &d.StorageKey,
		&d.ContentType, &d.FileSize, &d.IsPublic, &d.UploadedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PitchDeck{}, ErrPitchDeckNotFound
		}
		return PitchDeck{}, err
	}
	return d, nil
}

func (r *postgresPitchDeckRepository) Create(ctx context.Context, d PitchDeck) (PitchDeck, error) {
	query := `INSERT INTO pitch_decks (startup_id, title, description, file_name, storage_key, content_type, file_size, is_public)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
              RETURNING ` + deckColumns
	return scanDeck(r.pool.QueryRow(ctx, query, d.StartupID, d.Title, d.Description, d.FileName, d.StorageKey,
		d.ContentType, d.FileSize, d.IsPublic))
}

func (r *postgresPitchDeckRepository) GetByID(ctx context.Context, id int64) (PitchDeck, error) {
	return scanDeck(r.pool.QueryRow(ctx, `SELECT `+deckColumns+` FROM pitch_decks WHERE id = $1`, id))
}

func (r *postgresPitchDeckRepository) ListByStartup(ctx context.Context, startupID int64, publicOnly bool) ([]PitchDeck, error) {
	query := `SELECT ` + deckColumns + ` FROM pitch_decks WHERE startup_id = $1 AND (is_public OR NOT $2) ORDER BY uploaded_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, startupID, publicOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	decks := make([]PitchDeck, 0)
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

func (r *postgresPitchDeckRepository) Update(ctx context.Context, d PitchDeck) (PitchDeck, error) {
	query := `UPDATE pitch_decks SET title = $1, description = $2, is_public = $3, updated_at = NOW()
              WHERE id = $4
              RETURNING ` + deckColumns
	return scanDeck(r.pool.QueryRow(ctx, query, d.Title, d.Description, d.IsPublic, d.ID))
}

func (r *postgresPitchDeckRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pitch_decks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPitchDeckNotFound
	}
	return nil
}
