package profiles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"startupconnect/pkg/apperr"
)

var (
	ErrStartupNotFound  = apperr.New(apperr.NotFound, "STARTUP_NOT_FOUND", "startup profile not found")
	ErrInvestorNotFound = apperr.New(apperr.NotFound, "INVESTOR_NOT_FOUND", "investor profile not found")
)

type ProfileRepository interface {
	CreateStartupProfile(ctx context.Context, p StartupProfile) (StartupProfile, error)
	UpdateStartupProfile(ctx context.Context, p StartupProfile) (StartupProfile, error)
	GetStartupProfileByID(ctx context.Context, id int64) (StartupProfile, error)
	GetStartupProfileByUserID(ctx context.Context, userID int64) (StartupProfile, error)
	ListStartupProfiles(ctx context.Context, limit, offset int) ([]StartupProfile, int64, error)

	CreateInvestorProfile(ctx context.Context, p InvestorProfile) (InvestorProfile, error)
	UpdateInvestorProfile(ctx context.Context, p InvestorProfile) (InvestorProfile, error)
	GetInvestorProfileByID(ctx context.Context, id int64) (InvestorProfile, error)
	GetInvestorProfileByUserID(ctx context.Context, userID int64) (InvestorProfile, error)
	ListInvestorProfiles(ctx context.Context, limit, offset int) ([]InvestorProfile, int64, error)
}

type postgresProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &postgresProfileRepository{pool: pool}
}

const startupColumns = `id, user_id, startup_name, description, industry, funding_stage, team_size, website, created_at, updated_at`

func scanStartup(row pgx.Row) (StartupProfile, error) {
	var p StartupProfile
	err := row.Scan(&p.ID, &p.UserID, &p.StartupName, &p.Description, &p.Industry, &p.FundingStage, &p.TeamSize, &p.Website, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StartupProfile{}, ErrStartupNotFound
		}
		return StartupProfile{}, err
	}
	return p, nil
}

func (r *postgresProfileRepository) CreateStartupProfile(ctx context.Context, p StartupProfile) (StartupProfile, error) {
	query := `INSERT INTO startup_profiles (user_id, startup_name, description, industry, funding_stage, team_size, website)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              RETURNING ` + startupColumns
	return scanStartup(r.pool.QueryRow(ctx, query, p.UserID, p.StartupName, p.Description, p.Industry, p.FundingStage, p.TeamSize, p.Website))
}

func (r *postgresProfileRepository) UpdateStartupProfile(ctx context.Context, p StartupProfile) (StartupProfile, error) {
	query := `UPDATE startup_profiles
              SET startup_name = $1, description = $2, industry = $3, funding_stage = $4, team_size = $5, website = $6, updated_at = NOW()
              WHERE id = $7
              RETURNING ` + startupColumns
	return scanStartup(r.pool.QueryRow(ctx, query, p.StartupName, p.Description, p.Industry, p.FundingStage, p.TeamSize, p.Website, p.ID))
}

func (r *postgresProfileRepository) GetStartupProfileByID(ctx context.Context, id int64) (StartupProfile, error) {
	return scanStartup(r.pool.QueryRow(ctx, `SELECT `+startupColumns+` FROM startup_profiles WHERE id = $1`, id))
}

func (r *postgresProfileRepository) GetStartupProfileByUserID(ctx context.Context, userID int64) (StartupProfile, error) {
	return scanStartup(r.pool.QueryRow(ctx, `SELECT `+startupColumns+` FROM startup_profiles WHERE user_id = $1`, userID))
}

func (r *postgresProfileRepository) ListStartupProfiles(ctx context.Context, limit, offset int) ([]StartupProfile, int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+startupColumns+` FROM startup_profiles ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]StartupProfile, 0)
	for rows.Next() {
		p, err := scanStartup(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM startup_profiles").Scan(&total); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

const investorColumns = `id, user_id, company_name, sector, investment_range_min, investment_range_max, location,
       investment_focus, active_investments_count, description, created_at, updated_at`

func scanInvestor(row pgx.Row) (InvestorProfile, error) {
	var p InvestorProfile
	err := row.Scan(&p.ID, &p.UserID, &p.CompanyName, &p.Sector, &p.InvestmentRangeMin, &p.InvestmentRangeMax, &p.Location,
		&p.InvestmentFocus, &p.ActiveInvestmentsCount, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return InvestorProfile{}, ErrInvestorNotFound
		}
		return InvestorProfile{}, err
	}
	return p, nil
}

func (r *postgresProfileRepository) CreateInvestorProfile(ctx context.Context, p InvestorProfile) (InvestorProfile, error) {
	query := `INSERT INTO investor_profiles (user_id, company_name, sector, investment_range_min, investment_range_max, location,
                  investment_focus, active_investments_count, description)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
              RETURNING ` + investorColumns
	return scanInvestor(r.pool.QueryRow(ctx, query, p.UserID, p.CompanyName, p.Sector, p.InvestmentRangeMin.String(), p.InvestmentRangeMax.String(),
		p.Location, p.InvestmentFocus, p.ActiveInvestmentsCount, p.Description))
}

func (r *postgresProfileRepository) UpdateInvestorProfile(ctx context.Context, p InvestorProfile) (InvestorProfile, error) {
	query := `UPDATE investor_profiles
              SET company_name = $1, sector = $2, investment_range_min = $3, investment_range_max = $4, location = $5,
                  investment_focus = $6, active_investments_count = $7, description = $8, updated_at = NOW()
              WHERE id = $9
              RETURNING ` + investorColumns
	return scanInvestor(r.pool.QueryRow(ctx, query, p.CompanyName, p.Sector, p.InvestmentRangeMin.String(), p.InvestmentRangeMax.String(), p.Location,
		p.InvestmentFocus, p.ActiveInvestmentsCount, p.Description, p.ID))
}

func (r *postgresProfileRepository) GetInvestorProfileByID(ctx context.Context, id int64) (InvestorProfile, error) {
	return scanInvestor(r.pool.QueryRow(ctx, `SELECT `+investorColumns+` FROM investor_profiles WHERE id = $1`, id))
}

func (r *postgresProfileRepository) GetInvestorProfileByUserID(ctx context.Context, userID int64) (InvestorProfile, error) {
	return scanInvestor(r.pool.QueryRow(ctx, `SELECT `+investorColumns+` FROM investor_profiles WHERE user_id = $1`, userID))
}

func (r *postgresProfileRepository) ListInvestorProfiles(ctx context.Context, limit, offset int) ([]InvestorProfile, int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+investorColumns+` FROM investor_profiles ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]InvestorProfile, 0)
	for rows.Next() {
		p, err := scanInvestor(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM investor_profiles").Scan(&total); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
