package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"startupconnect/pkg/apperr"
)

var ErrUserNotFound = apperr.New(apperr.NotFound, "USER_NOT_FOUND", "user not found")

type UserRepository interface {
	CreateUser(ctx context.Context, u User, passwordHash string) (User, error)
	UpdateUser(ctx context.Context, u User) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]User, int64, error)
	// Auth helpers
	GetUserAuthByEmail(ctx context.Context, email string) (int64, string, error)
	UpdateVerifiedAtByEmail(ctx context.Context, email string, ts time.Time) error
}

type postgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepository(pool *pgxpool.Pool) UserRepository {
	return &postgresUserRepository{pool: pool}
}

const userColumns = `id, uuid, email, full_name, role, verified_at, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.UUID, &u.Email, &u.FullName, &u.Role, &u.VerifiedAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *postgresUserRepository) CreateUser(ctx context.Context, u User, passwordHash string) (User, error) {
	query := `INSERT INTO users (uuid, email, full_name, password_hash, role, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
              RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, u.UUID, u.Email, u.FullName, passwordHash, u.Role))
}

func (r *postgresUserRepository) UpdateUser(ctx context.Context, u User) (User, error) {
	query := `UPDATE users
              SET full_name = $1, email = $2, role = $3, updated_at = NOW()
              WHERE id = $4
              RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, u.FullName, u.Email, u.Role, u.ID))
}

func (r *postgresUserRepository) GetUserByID(ctx context.Context, id int64) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresUserRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *postgresUserRepository) ListUsers(ctx context.Context, limit, offset int) ([]User, int64, error) {
	query := `SELECT ` + userColumns + `
              FROM users
              ORDER BY id
              LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *postgresUserRepository) GetUserAuthByEmail(ctx context.Context, email string) (int64, string, error) {
	var id int64
	var hash string
	row := r.pool.QueryRow(ctx, `SELECT id, password_hash FROM users WHERE email = $1`, email)
	if err := row.Scan(&id, &hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, "", ErrUserNotFound
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *postgresUserRepository) UpdateVerifiedAtByEmail(ctx context.Context, email string, ts time.Time) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET verified_at = $1, updated_at = NOW() WHERE email = $2`, ts, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
