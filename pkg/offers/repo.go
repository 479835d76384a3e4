package offers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"startupconnect/pkg/db"
)

type OfferRepository interface {
	Create(ctx context.Context, o Offer) (Offer, error)
	GetByID(ctx context.Context, id int64) (Offer, error)
	GetView(ctx context.Context, id int64) (OfferView, error)
	ListByStartup(ctx context.Context, startupID int64, activeOnly bool) ([]OfferView, error)
	// UpdateLocked loads the offer under a row lock, applies fn and writes the
	// result in the same transaction. An error from fn aborts without writing.
	UpdateLocked(ctx context.Context, id int64, fn func(Offer) (Offer, error)) (Offer, error)
	Delete(ctx context.Context, id int64) error
}

type postgresOfferRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOfferRepository(pool *pgxpool.Pool) OfferRepository {
	return &postgresOfferRepository{pool: pool}
}

const offerColumns = `o.id, o.startup_id, o.investor_user_id, o.amount, o.equity_percentage, o.remaining_amount,
       o.description, o.terms, o.status, o.is_active, o.created_at, o.updated_at`

func scanOffer(row pgx.Row, extra ...any) (Offer, error) {
	var o Offer
	dest := []any{&o.ID, &o.StartupID, &o.InvestorUserID, &o.Amount, &o.EquityPercentage, &o.RemainingAmount,
		&o.Description, &o.Terms, &o.Status, &o.IsActive, &o.CreatedAt, &o.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Offer{}, ErrOfferNotFound
		}
		return Offer{}, err
	}
	return o, nil
}

const viewQuery = `SELECT ` + offerColumns + `, s.startup_name, COALESCE(u.full_name, ''), COALESCE(ip.company_name, '')
       FROM investment_offers o
       JOIN startup_profiles s ON s.id = o.startup_id
       LEFT JOIN users u ON u.id = o.investor_user_id
       LEFT JOIN investor_profiles ip ON ip.user_id = o.investor_user_id`

func scanView(row pgx.Row) (OfferView, error) {
	var v OfferView
	o, err := scanOffer(row, &v.StartupName, &v.InvestorName, &v.InvestorCompany)
	if err != nil {
		return OfferView{}, err
	}
	v.Offer = o
	return v, nil
}

func (r *postgresOfferRepository) Create(ctx context.Context, o Offer) (Offer, error) {
	query := `INSERT INTO investment_offers AS o (startup_id, amount, equity_percentage, remaining_amount, description, terms, status, is_active, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
              RETURNING ` + offerColumns
	return scanOffer(r.pool.QueryRow(ctx, query, o.StartupID, o.Amount.String(), o.EquityPercentage.String(), o.RemainingAmount.String(),
		o.Description, o.Terms, o.Status, o.IsActive, o.CreatedAt))
}

func (r *postgresOfferRepository) GetByID(ctx context.Context, id int64) (Offer, error) {
	return scanOffer(r.pool.QueryRow(ctx, `SELECT `+offerColumns+` FROM investment_offers o WHERE o.id = $1`, id))
}

func (r *postgresOfferRepository) GetView(ctx context.Context, id int64) (OfferView, error) {
	return scanView(r.pool.QueryRow(ctx, viewQuery+` WHERE o.id = $1`, id))
}

func (r *postgresOfferRepository) ListByStartup(ctx context.Context, startupID int64, activeOnly bool) ([]OfferView, error) {
	query := viewQuery + ` WHERE o.startup_id = $1`
	if activeOnly {
		query += ` AND o.status = 'ACTIVE'`
	}
	query += ` ORDER BY o.created_at DESC, o.id DESC`

	rows, err := r.pool.Query(ctx, query, startupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]OfferView, 0)
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func (r *postgresOfferRepository) UpdateLocked(ctx context.Context, id int64, fn func(Offer) (Offer, error)) (Offer, error) {
	var out Offer
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := scanOffer(tx.QueryRow(ctx, `SELECT `+offerColumns+` FROM investment_offers o WHERE o.id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		query := `UPDATE investment_offers AS o
                  SET investor_user_id = $1, amount = $2, equity_percentage = $3, remaining_amount = $4,
                      description = $5, terms = $6, status = $7, is_active = $8, updated_at = $9
                  WHERE o.id = $10
                  RETURNING ` + offerColumns
		out, err = scanOffer(tx.QueryRow(ctx, query, next.InvestorUserID, next.Amount.String(), next.EquityPercentage.String(),
			next.RemainingAmount.String(), next.Description, next.Terms, next.Status, next.IsActive, next.UpdatedAt, id))
		return err
	})
	if err != nil {
		return Offer{}, err
	}
	return out, nil
}

func (r *postgresOfferRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM investment_offers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOfferNotFound
	}
	return nil
}
