package admin

import (
	"context"
	"log"

	"startupconnect/pkg/policy"
	"startupconnect/pkg/profiles"
	"startupconnect/pkg/transactions"
	"startupconnect/pkg/users"
)

// FileRemover deletes stored pitch-deck files.
type FileRemover interface {
	Remove(key string) error
}

// AccountDeleter satisfies users.AccountDeleter. It has no actor check of its
// own; callers authorize first.
type AccountDeleter struct {
	repo   AccountRepository
	files  FileRemover
	logger *log.Logger
}

func NewAccountDeleter(repo AccountRepository, files FileRemover) *AccountDeleter {
	return &AccountDeleter{
		repo:   repo,
		files:  files,
		logger: log.New(log.Writer(), "[admin] ", log.LstdFlags),
	}
}

func (d *AccountDeleter) DeleteAccount(ctx context.Context, userID int64) error {
	keys, err := d.repo.DeleteAccount(ctx, userID)
	if err != nil {
		return err
	}
	// rows are gone; a file that fails to delete is only orphaned
	for _, key := range keys {
		if err := d.files.Remove(key); err != nil {
			d.logger.Printf("remove pitch deck file %s for user %d: %v", key, userID, err)
		}
	}
	d.logger.Printf("deleted account %d (%d files)", userID, len(keys))
	return nil
}

type UserStore interface {
	ListUsers(ctx context.Context, page, limit int) ([]users.User, int64, error)
	UpdateUser(ctx context.Context, actor policy.Actor, id int64, in users.UpdateUserInput) (users.User, error)
	GetUserByID(ctx context.Context, id int64) (users.User, error)
}

type InvestorStore interface {
	ListInvestorProfiles(ctx context.Context, page, limit int) ([]profiles.InvestorProfile, int64, error)
}

type TransactionStore interface {
	ListAll(ctx context.Context, actor policy.Actor) ([]transactions.TransactionView, error)
}

type AdminService interface {
	ListUsers(ctx context.Context, actor policy.Actor, page, limit int) ([]users.User, int64, error)
	UpdateUser(ctx context.Context, actor policy.Actor, id int64, in users.UpdateUserInput) (users.User, error)
	DeleteUser(ctx context.Context, actor policy.Actor, id int64) error
	ListInvestors(ctx context.Context, actor policy.Actor, page, limit int) ([]profiles.InvestorProfile, int64, error)
	ListTransactions(ctx context.Context, actor policy.Actor) ([]transactions.TransactionView, error)
}

type adminService struct {
	users        UserStore
	investors    InvestorStore
	transactions TransactionStore
	deleter      users.AccountDeleter
}

func NewAdminService(userStore UserStore, investors InvestorStore, txStore TransactionStore, deleter users.AccountDeleter) AdminService {
	return &adminService{users: userStore, investors: investors, transactions: txStore, deleter: deleter}
}

func (s *adminService) ListUsers(ctx context.Context, actor policy.Actor, page, limit int) ([]users.User, int64, error) {
	if err := policy.AuthorizeAdmin(actor); err != nil {
		return nil, 0, err
	}
	return s.users.ListUsers(ctx, page, limit)
}

func (s *adminService) UpdateUser(ctx context.Context, actor policy.Actor, id int64, in users.UpdateUserInput) (users.User, error) {
	if err := policy.AuthorizeAdmin(actor); err != nil {
		return users.User{}, err
	}
	return s.users.UpdateUser(ctx, actor, id, in)
}

func (s *adminService) DeleteUser(ctx context.Context, actor policy.Actor, id int64) error {
	if err := policy.AuthorizeAdmin(actor); err != nil {
		return err
	}
	if _, err := s.users.GetUserByID(ctx, id); err != nil {
		return err
	}
	return s.deleter.DeleteAccount(ctx, id)
}

func (s *adminService) ListInvestors(ctx context.Context, actor policy.Actor, page, limit int) ([]profiles.InvestorProfile, int64, error) {
	if err := policy.AuthorizeAdmin(actor); err != nil {
		return nil, 0, err
	}
	return s.investors.ListInvestorProfiles(ctx, page, limit)
}

func (s *adminService) ListTransactions(ctx context.Context, actor policy.Actor) ([]transactions.TransactionView, error) {
	if err := policy.AuthorizeAdmin(actor); err != nil {
		return nil, err
	}
	return s.transactions.ListAll(ctx, actor)
}
