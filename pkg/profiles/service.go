package profiles

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"startupconnect/pkg/apperr"
	"startupconnect/pkg/policy"
)

var (
	ErrProfileExists      = apperr.New(apperr.Conflict, "PROFILE_EXISTS", "profile already exists for this user")
	ErrStartupRoleNeeded  = apperr.New(apperr.Forbidden, "STARTUP_ROLE_REQUIRED", "only startup users may create a startup profile")
	ErrInvestorRoleNeeded = apperr.New(apperr.Forbidden, "INVESTOR_ROLE_REQUIRED", "only investor users may create an investor profile")
	ErrStartupNameMissing = apperr.New(apperr.InvalidInput, "STARTUP_NAME_REQUIRED", "startup name is required")
	ErrNegativeTeamSize   = apperr.New(apperr.InvalidRange, "NEGATIVE_TEAM_SIZE", "team size cannot be negative")
	ErrNegativeRange      = apperr.New(apperr.InvalidRange, "NEGATIVE_INVESTMENT_RANGE", "investment range cannot be negative")
	ErrRangeInverted      = apperr.New(apperr.InvalidRange, "INVESTMENT_RANGE_INVERTED", "minimum investment range cannot be greater than maximum")
)

type ProfileService interface {
	CreateStartupProfile(ctx context.Context, actor policy.Actor, in StartupProfile) (StartupProfile, error)
	UpdateStartupProfile(ctx context.Context, actor policy.Actor, id int64, in StartupProfile) (StartupProfile, error)
	GetStartupProfile(ctx context.Context, id int64) (StartupProfile, error)
	GetStartupProfileByUserID(ctx context.Context, userID int64) (StartupProfile, error)
	ListStartupProfiles(ctx context.Context, page, limit int) ([]StartupProfile, int64, error)

	CreateInvestorProfile(ctx context.Context, actor policy.Actor, in InvestorProfile) (InvestorProfile, error)
	UpdateInvestorProfile(ctx context.Context, actor policy.Actor, id int64, in InvestorProfile) (InvestorProfile, error)
	GetInvestorProfile(ctx context.Context, id int64) (InvestorProfile, error)
	GetInvestorProfileByUserID(ctx context.Context, userID int64) (InvestorProfile, error)
	ListInvestorProfiles(ctx context.Context, page, limit int) ([]InvestorProfile, int64, error)
}

type profileService struct {
	repo ProfileRepository
}

func NewProfileService(repo ProfileRepository) ProfileService {
	return &profileService{repo: repo}
}

// ValidateInvestmentRange rejects negative bounds and min > max.
func ValidateInvestmentRange(min, max decimal.Decimal) error {
	if min.IsNegative() || max.IsNegative() {
		return ErrNegativeRange
	}
	if min.GreaterThan(max) {
		return apperr.Wrap(ErrRangeInverted, "min %s > max %s", min.String(), max.String())
	}
	return nil
}

func validateStartup(p StartupProfile) error {
	if strings.TrimSpace(p.StartupName) == "" {
		return ErrStartupNameMissing
	}
	if p.TeamSize < 0 {
		return ErrNegativeTeamSize
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func pageOffset(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	return limit, (page - 1) * limit
}

func (s *profileService) CreateStartupProfile(ctx context.Context, actor policy.Actor, in StartupProfile) (StartupProfile, error) {
	if !actor.Authenticated() {
		return StartupProfile{}, apperr.ErrUnauthorized
	}
	if actor.Role != policy.RoleStartup {
		return StartupProfile{}, ErrStartupRoleNeeded
	}
	in.StartupName = strings.TrimSpace(in.StartupName)
	if err := validateStartup(in); err != nil {
		return StartupProfile{}, err
	}

	in.UserID = actor.UserID
	p, err := s.repo.CreateStartupProfile(ctx, in)
	if err != nil {
		if isUniqueViolation(err) {
			return StartupProfile{}, ErrProfileExists
		}
		return StartupProfile{}, err
	}
	return p, nil
}

func (s *profileService) UpdateStartupProfile(ctx context.Context, actor policy.Actor, id int64, in StartupProfile) (StartupProfile, error) {
	current, err := s.repo.GetStartupProfileByID(ctx, id)
	if err != nil {
		return StartupProfile{}, err
	}
	if err := policy.AuthorizeOwnProfileAccess(actor, current.UserID); err != nil {
		return StartupProfile{}, err
	}
	in.StartupName = strings.TrimSpace(in.StartupName)
	if err := validateStartup(in); err != nil {
		return StartupProfile{}, err
	}

	in.ID = current.ID
	in.UserID = current.UserID
	return s.repo.UpdateStartupProfile(ctx, in)
}

func (s *profileService) GetStartupProfile(ctx context.Context, id int64) (StartupProfile, error) {
	return s.repo.GetStartupProfileByID(ctx, id)
}

func (s *profileService) GetStartupProfileByUserID(ctx context.Context, userID int64) (StartupProfile, error) {
	return s.repo.GetStartupProfileByUserID(ctx, userID)
}

func (s *profileService) ListStartupProfiles(ctx context.Context, page, limit int) ([]StartupProfile, int64, error) {
	limit, offset := pageOffset(page, limit)
	return s.repo.ListStartupProfiles(ctx, limit, offset)
}

func (s *profileService) CreateInvestorProfile(ctx context.Context, actor policy.Actor, in InvestorProfile) (InvestorProfile, error) {
	if !actor.Authenticated() {
		return InvestorProfile{}, apperr.ErrUnauthorized
	}
	if actor.Role != policy.RoleInvestor {
		return InvestorProfile{}, ErrInvestorRoleNeeded
	}
	if err := ValidateInvestmentRange(in.InvestmentRangeMin, in.InvestmentRangeMax); err != nil {
		return InvestorProfile{}, err
	}

	in.UserID = actor.UserID
	p, err := s.repo.CreateInvestorProfile(ctx, in)
	if err != nil {
		if isUniqueViolation(err) {
			return InvestorProfile{}, ErrProfileExists
		}
		return InvestorProfile{}, err
	}
	return p, nil
}

func (s *profileService) UpdateInvestorProfile(ctx context.Context, actor policy.Actor, id int64, in InvestorProfile) (InvestorProfile, error) {
	current, err := s.repo.GetInvestorProfileByID(ctx, id)
	if err != nil {
		return InvestorProfile{}, err
	}
	if err := policy.AuthorizeOwnProfileAccess(actor, current.UserID); err != nil {
		return InvestorProfile{}, err
	}
	if err := ValidateInvestmentRange(in.InvestmentRangeMin, in.InvestmentRangeMax); err != nil {
		return InvestorProfile{}, err
	}

	in.ID = current.ID
	in.UserID = current.UserID
	return s.repo.UpdateInvestorProfile(ctx, in)
}

func (s *profileService) GetInvestorProfile(ctx context.Context, id int64) (InvestorProfile, error) {
	return s.repo.GetInvestorProfileByID(ctx, id)
}

func (s *profileService) GetInvestorProfileByUserID(ctx context.Context, userID int64) (InvestorProfile, error) {
	return s.repo.GetInvestorProfileByUserID(ctx, userID)
}

func (s *profileService) ListInvestorProfiles(ctx context.Context, page, limit int) ([]InvestorProfile, int64, error) {
	limit, offset := pageOffset(page, limit)
	return s.repo.ListInvestorProfiles(ctx, limit, offset)
}
