package otp

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OTPRepository interface {
	CreateOTP(ctx context.Context, email, code string, expiresAt time.Time) (OTP, error)
	GetOTPByEmail(ctx context.Context, email string) (OTP, error)
	CountOTPsSince(ctx context.Context, email string, since time.Time) (int, error)
	MarkOTPAsVerified(ctx context.Context, id int64) error
	DeleteExpiredOTPs(ctx context.Context) error
}

type postgresOTPRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOTPRepository(pool *pgxpool.Pool) OTPRepository {
	return &postgresOTPRepository{pool: pool}
}

func scanOTP(row pgx.Row) (OTP, error) {
	var otp OTP
	err := row.Scan(
		&otp.ID,
		&otp.Email,
		&otp.Code,
		&otp.ExpiresAt,
		&otp.Verified,
		&otp.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return OTP{}, ErrOTPNotFound
	}
	return otp, err
}

func (r *postgresOTPRepository) CreateOTP(ctx context.Context, email, code string, expiresAt time.Time) (OTP, error) {
	query := `
		INSERT INTO otps (email, code, expires_at, verified, created_at)
		VALUES ($1, $2, $3, false, NOW())
		RETURNING id, email, code, expires_at, verified, created_at
	`
	return scanOTP(r.pool.QueryRow(ctx, query, email, code, expiresAt))
}

func (r *postgresOTPRepository) GetOTPByEmail(ctx context.Context, email string) (OTP, error) {
	query := `
		SELECT id, email, code, expires_at, verified, created_at
		FROM otps
		WHERE email = $1 AND verified = false
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	return scanOTP(r.pool.QueryRow(ctx, query, email))
}

func (r *postgresOTPRepository) CountOTPsSince(ctx context.Context, email string, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM otps WHERE email = $1 AND created_at >= $2`, email, since).Scan(&n)
	return n, err
}

func (r *postgresOTPRepository) MarkOTPAsVerified(ctx context.Context, id int64) error {
	query := `UPDATE otps SET verified = true WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *postgresOTPRepository) DeleteExpiredOTPs(ctx context.Context) error {
	query := `DELETE FROM otps WHERE expires_at < NOW()`
	_, err := r.pool.Exec(ctx, query)
	return err
}
