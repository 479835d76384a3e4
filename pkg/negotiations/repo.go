package negotiations

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"startupconnect/pkg/db"
)

const transactionType = "NEGOTIATION"

type NegotiationRepository interface {
	Create(ctx context.Context, n Negotiation) (Negotiation, error)
	GetView(ctx context.Context, id int64) (View, error)
	ListByStartup(ctx context.Context, startupID int64) ([]View, error)
	ListByInvestor(ctx context.Context, investorID int64) ([]View, error)
	// UpdateLocked applies fn to the row under FOR UPDATE and persists the
	// result in the same transaction.
	UpdateLocked(ctx context.Context, id int64, fn func(Negotiation) (Negotiation, error)) (Negotiation, error)
}

type postgresNegotiationRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresNegotiationRepository(pool *pgxpool.Pool) NegotiationRepository {
	return &postgresNegotiationRepository{pool: pool}
}

const negotiationColumns = `t.id, t.startup_id, t.investor_id, t.proposed_amount, t.equity_percentage, t.negotiation_status,
       t.negotiation_round, t.is_counter_offer, t.negotiation_notes, t.rejection_reason, t.last_negotiation_date, t.updated_at`

func scanNegotiation(row pgx.Row, extra ...any) (Negotiation, error) {
	var n Negotiation
	dest := []any{&n.ID, &n.StartupID, &n.InvestorID, &n.ProposedAmount, &n.EquityPercentage, &n.Status,
		&n.Round, &n.IsCounterOffer, &n.Notes, &n.RejectionReason, &n.LastUpdated, &n.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Negotiation{}, ErrNegotiationNotFound
		}
		return Negotiation{}, err
	}
	return n, nil
}

const viewQuery = `SELECT ` + negotiationColumns + `, s.startup_name, u.full_name, ip.company_name, s.user_id, ip.user_id
       FROM transactions t
       JOIN startup_profiles s ON s.id = t.startup_id
       JOIN investor_profiles ip ON ip.id = t.investor_id
       JOIN users u ON u.id = ip.user_id
       WHERE t.negotiation_status IS NOT NULL`

func scanView(row pgx.Row) (View, error) {
	var v View
	n, err := scanNegotiation(row, &v.StartupName, &v.InvestorName, &v.InvestorCompanyName, &v.StartupUserID, &v.InvestorUserID)
	if err != nil {
		return View{}, err
	}
	v.Negotiation = n
	return v, nil
}

func (r *postgresNegotiationRepository) Create(ctx context.Context, n Negotiation) (Negotiation, error) {
	query := `INSERT INTO transactions AS t (investor_id, startup_id, status, transaction_type, transaction_date,
	              proposed_amount, equity_percentage, negotiation_status, negotiation_round, is_counter_offer,
	              negotiation_notes, rejection_reason, last_negotiation_date, updated_at)
	          VALUES ($1, $2, 'PENDING', $3, $4, $5, $6, $7, $8, $9, $10, $11, $4, $4)
	          RETURNING ` + negotiationColumns
	return scanNegotiation(r.pool.QueryRow(ctx, query,
		n.InvestorID, n.StartupID, transactionType, n.LastUpdated,
		n.ProposedAmount.String(), n.EquityPercentage.String(), n.Status, n.Round, n.IsCounterOffer,
		n.Notes, n.RejectionReason))
}

func (r *postgresNegotiationRepository) GetView(ctx context.Context, id int64) (View, error) {
	return scanView(r.pool.QueryRow(ctx, viewQuery+` AND t.id = $1`, id))
}

func (r *postgresNegotiationRepository) ListByStartup(ctx context.Context, startupID int64) ([]View, error) {
	return r.list(ctx, viewQuery+` AND t.startup_id = $1 ORDER BY t.last_negotiation_date DESC, t.id DESC`, startupID)
}

func (r *postgresNegotiationRepository) ListByInvestor(ctx context.Context, investorID int64) ([]View, error) {
	return r.list(ctx, viewQuery+` AND t.investor_id = $1 ORDER BY t.last_negotiation_date DESC, t.id DESC`, investorID)
}

func (r *postgresNegotiationRepository) list(ctx context.Context, query string, args ...any) ([]View, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []View{}
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

func (r *postgresNegotiationRepository) UpdateLocked(ctx context.Context, id int64, fn func(Negotiation) (Negotiation, error)) (Negotiation, error) {
	var out Negotiation
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := scanNegotiation(tx.QueryRow(ctx,
			`SELECT `+negotiationColumns+` FROM transactions t WHERE t.id = $1 AND t.negotiation_status IS NOT NULL FOR UPDATE`, id))
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		query := `UPDATE transactions AS t
		          SET proposed_amount = $1, equity_percentage = $2, negotiation_status = $3, negotiation_round = $4,
		              is_counter_offer = $5, negotiation_notes = $6, rejection_reason = $7,
		              last_negotiation_date = $8, updated_at = $9
		          WHERE t.id = $10
		          RETURNING ` + negotiationColumns
		out, err = scanNegotiation(tx.QueryRow(ctx, query,
			next.ProposedAmount.String(), next.EquityPercentage.String(), next.Status, next.Round,
			next.IsCounterOffer, next.Notes, next.RejectionReason, next.LastUpdated, next.UpdatedAt, id))
		return err
	})
	if err != nil {
		return Negotiation{}, err
	}
	return out, nil
}
