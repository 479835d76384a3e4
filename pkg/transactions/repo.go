package transactions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"startupconnect/pkg/apperr"
)

var ErrTransactionNotFound = apperr.New(apperr.NotFound, "TRANSACTION_NOT_FOUND", "transaction not found")

type TransactionRepository interface {
	Create(ctx context.Context, t Transaction) (Transaction, error)
	GetView(ctx context.Context, id int64) (TransactionView, error)
	ListAll(ctx context.Context) ([]TransactionView, error)
	ListByInvestor(ctx context.Context, investorID int64) ([]TransactionView, error)
	ListByStartup(ctx context.Context, startupID int64) ([]TransactionView, error)
}

type postgresTransactionRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresTransactionRepository(pool *pgxpool.Pool) TransactionRepository {
	return &postgresTransactionRepository{pool: pool}
}

const viewQuery = `SELECT t.id, t.investor_id, t.startup_id, t.amount, t.status, t.transaction_date,
       t.transaction_type, t.description,
       u.full_name, ip.company_name, s.startup_name, s.funding_stage
       FROM transactions t
       JOIN investor_profiles ip ON ip.id = t.investor_id
       JOIN users u ON u.id = ip.user_id
       JOIN startup_profiles s ON s.id = t.startup_id`

func scanView(row pgx.Row) (TransactionView, error) {
	var v TransactionView
	err := row.Scan(&v.ID, &v.InvestorID, &v.StartupID, &v.Amount, &v.Status, &v.TransactionDate,
		&v.TransactionType, &v.Description,
		&v.InvestorName, &v.InvestorCompanyName, &v.StartupName, &v.StartupStage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TransactionView{}, ErrTransactionNotFound
		}
		return TransactionView{}, err
	}
	return v, nil
}

func (r *postgresTransactionRepository) Create(ctx context.Context, t Transaction) (Transaction, error) {
	query := `INSERT INTO transactions (investor_id, startup_id, amount, status, transaction_date, transaction_type, description)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	err := r.pool.QueryRow(ctx, query, t.InvestorID, t.StartupID, t.Amount.String(), t.Status,
		t.TransactionDate, t.TransactionType, t.Description).Scan(&t.ID)
	if err != nil {
		return Transaction{}, err
	}
	return t, nil
}

func (r *postgresTransactionRepository) GetView(ctx context.Context, id int64) (TransactionView, error) {
	return scanView(r.pool.QueryRow(ctx, viewQuery+` WHERE t.id = $1`, id))
}

func (r *postgresTransactionRepository) ListAll(ctx context.Context) ([]TransactionView, error) {
	return r.list(ctx, viewQuery+` ORDER BY t.transaction_date DESC, t.id DESC`)
}

func (r *postgresTransactionRepository) ListByInvestor(ctx context.Context, investorID int64) ([]TransactionView, error) {
	return r.list(ctx, viewQuery+` WHERE t.investor_id = $1 ORDER BY t.transaction_date DESC, t.id DESC`, investorID)
}

func (r *postgresTransactionRepository) ListByStartup(ctx context.Context, startupID int64) ([]TransactionView, error) {
	return r.list(ctx, viewQuery+` WHERE t.startup_id = $1 ORDER BY t.transaction_date DESC, t.id DESC`, startupID)
}

func (r *postgresTransactionRepository) list(ctx context.Context, query string, args ...any) ([]TransactionView, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TransactionView{}
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
