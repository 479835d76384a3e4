package transactions

import (
	"context"
	"strings"
	"time"

	"startupconnect/pkg/apperr"
	"startupconnect/pkg/policy"
	"startupconnect/pkg/profiles"
)

var ErrInvalidAmount = apperr.New(apperr.InvalidInput, "INVALID_AMOUNT", "transaction amount must be greater than zero")

// ProfileLookup resolves the profiles a transaction links.
type ProfileLookup interface {
	GetStartupProfile(ctx context.Context, id int64) (profiles.StartupProfile, error)
	GetInvestorProfile(ctx context.Context, id int64) (profiles.InvestorProfile, error)
	GetInvestorProfileByUserID(ctx context.Context, userID int64) (profiles.InvestorProfile, error)
}

type TransactionService interface {
	CreateTransaction(ctx context.Context, actor policy.Actor, in CreateTransactionInput) (TransactionView, error)
	GetTransaction(ctx context.Context, id int64) (TransactionView, error)
	ListAll(ctx context.Context, actor policy.Actor) ([]TransactionView, error)
	ListByInvestor(ctx context.Context, investorID int64) ([]TransactionView, error)
	ListByStartup(ctx context.Context, startupID int64) ([]TransactionView, error)
}

type transactionService struct {
	repo     TransactionRepository
	profiles ProfileLookup
	now      func() time.Time
}

func NewTransactionService(repo TransactionRepository, profiles ProfileLookup) TransactionService {
	return &transactionService{
		repo:     repo,
		profiles: profiles,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateTransaction records an investment by the acting user's investor
// profile into the given startup.
func (s *transactionService) CreateTransaction(ctx context.Context, actor policy.Actor, in CreateTransactionInput) (TransactionView, error) {
	if err := policy.AuthorizeOfferAcceptance(actor); err != nil {
		return TransactionView{}, err
	}
	if !in.Amount.IsPositive() {
		return TransactionView{}, ErrInvalidAmount
	}

	investor, err := s.profiles.GetInvestorProfileByUserID(ctx, actor.UserID)
	if err != nil {
		return TransactionView{}, err
	}
	startup, err := s.profiles.GetStartupProfile(ctx, in.StartupID)
	if err != nil {
		return TransactionView{}, err
	}

	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status == "" {
		status = StatusPending
	}
	date := in.TransactionDate
	if date.IsZero() {
		date = s.now()
	}

	t, err := s.repo.Create(ctx, Transaction{
		InvestorID:      investor.ID,
		StartupID:       startup.ID,
		Amount:          in.Amount,
		Status:          status,
		TransactionDate: date,
		TransactionType: in.TransactionType,
		Description:     in.Description,
	})
	if err != nil {
		return TransactionView{}, err
	}
	return s.repo.GetView(ctx, t.ID)
}

func (s *transactionService) GetTransaction(ctx context.Context, id int64) (TransactionView, error) {
	return s.repo.GetView(ctx, id)
}

func (s *transactionService) ListAll(ctx context.Context, actor policy.Actor) ([]TransactionView, error) {
	if err := policy.AuthorizeAdmin(actor); err != nil {
		return nil, err
	}
	return s.repo.ListAll(ctx)
}

func (s *transactionService) ListByInvestor(ctx context.Context, investorID int64) ([]TransactionView, error) {
	if _, err := s.profiles.GetInvestorProfile(ctx, investorID); err != nil {
		return nil, err
	}
	return s.repo.ListByInvestor(ctx, investorID)
}

func (s *transactionService) ListByStartup(ctx context.Context, startupID int64) ([]TransactionView, error) {
	if _, err := s.profiles.GetStartupProfile(ctx, startupID); err != nil {
		return nil, err
	}
	return s.repo.ListByStartup(ctx, startupID)
}
