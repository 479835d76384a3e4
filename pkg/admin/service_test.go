package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"startupconnect/pkg/apperr"
	"startupconnect/pkg/policy"
	"startupconnect/pkg/profiles"
	"startupconnect/pkg/transactions"
	"startupconnect/pkg/users"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) ListUsers(ctx context.Context, page, limit int) ([]users.User, int64, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]users.User), args.Get(1).(int64), args.Error(2)
}

func (m *mockUserStore) UpdateUser(ctx context.Context, actor policy.Actor, id int64, in users.UpdateUserInput) (users.User, error) {
	args := m.Called(ctx, actor, id, in)
	return args.Get(0).(users.User), args.Error(1)
}

func (m *mockUserStore) GetUserByID(ctx context.Context, id int64) (users.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(users.User), args.Error(1)
}

type mockInvestorStore struct {
	mock.Mock
}

func (m *mockInvestorStore) ListInvestorProfiles(ctx context.Context, page, limit int) ([]profiles.InvestorProfile, int64, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]profiles.InvestorProfile), args.Get(1).(int64), args.Error(2)
}

type mockTransactionStore struct {
	mock.Mock
}

func (m *mockTransactionStore) ListAll(ctx context.Context, actor policy.Actor) ([]transactions.TransactionView, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]transactions.TransactionView), args.Error(1)
}

type stubAccountRepository struct {
	keys    []string
	err     error
	deleted []int64
}

func (s *stubAccountRepository) DeleteAccount(_ context.Context, userID int64) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.deleted = append(s.deleted, userID)
	return s.keys, nil
}

type recordingRemover struct {
	removed []string
	failOn  string
}

func (r *recordingRemover) Remove(key string) error {
	if key == r.failOn {
		return errors.New("disk error")
	}
	r.removed = append(r.removed, key)
	return nil
}

var (
	adminActor   = policy.Actor{UserID: 1, Role: policy.RoleAdmin}
	startupActor = policy.Actor{UserID: 2, Role: policy.RoleStartup}
)

type fixture struct {
	users        *mockUserStore
	investors    *mockInvestorStore
	transactions *mockTransactionStore
	accounts     *stubAccountRepository
	files        *recordingRemover
	service      AdminService
}

func newFixture() *fixture {
	f := &fixture{
		users:        new(mockUserStore),
		investors:    new(mockInvestorStore),
		transactions: new(mockTransactionStore),
		accounts:     &stubAccountRepository{keys: []string{"a.pdf", "b.pdf"}},
		files:        &recordingRemover{},
	}
	f.service = NewAdminService(f.users, f.investors, f.transactions, NewAccountDeleter(f.accounts, f.files))
	return f
}

func TestAdminService_RequiresAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, _, err := f.service.ListUsers(ctx, startupActor, 1, 10)
	require.ErrorIs(t, err, policy.ErrNotAdmin)

	_, err = f.service.UpdateUser(ctx, startupActor, 5, users.UpdateUserInput{})
	require.ErrorIs(t, err, policy.ErrNotAdmin)

	require.ErrorIs(t, f.service.DeleteUser(ctx, startupActor, 5), policy.ErrNotAdmin)

	_, _, err = f.service.ListInvestors(ctx, policy.Actor{}, 1, 10)
	require.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = f.service.ListTransactions(ctx, startupActor)
	require.ErrorIs(t, err, policy.ErrNotAdmin)

	f.users.AssertNotCalled(t, "ListUsers", mock.Anything, mock.Anything, mock.Anything)
	require.Empty(t, f.accounts.deleted)
}

func TestAdminService_Listings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.users.On("ListUsers", mock.Anything, 2, 20).Return([]users.User{{ID: 7}}, int64(21), nil)
	f.investors.On("ListInvestorProfiles", mock.Anything, 1, 10).Return([]profiles.InvestorProfile{{ID: 3}}, int64(1), nil)
	f.transactions.On("ListAll", mock.Anything, adminActor).Return([]transactions.TransactionView{{}}, nil)

	us, total, err := f.service.ListUsers(ctx, adminActor, 2, 20)
	require.NoError(t, err)
	require.Len(t, us, 1)
	require.Equal(t, int64(21), total)

	inv, _, err := f.service.ListInvestors(ctx, adminActor, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(3), inv[0].ID)

	txs, err := f.service.ListTransactions(ctx, adminActor)
	require.NoError(t, err)
	require.Len(t, txs, 1)
}

func TestAdminService_UpdateUserPassesActor(t *testing.T) {
	f := newFixture()
	in := users.UpdateUserInput{Role: policy.RoleInvestor}
	f.users.On("UpdateUser", mock.Anything, adminActor, int64(5), in).Return(users.User{ID: 5, Role: policy.RoleInvestor}, nil)

	u, err := f.service.UpdateUser(context.Background(), adminActor, 5, in)

	require.NoError(t, err)
	require.Equal(t, policy.RoleInvestor, u.Role)
	f.users.AssertExpectations(t)
}

func TestAdminService_DeleteUserRemovesFiles(t *testing.T) {
	f := newFixture()
	f.users.On("GetUserByID", mock.Anything, int64(5)).Return(users.User{ID: 5}, nil)

	require.NoError(t, f.service.DeleteUser(context.Background(), adminActor, 5))

	require.Equal(t, []int64{5}, f.accounts.deleted)
	require.Equal(t, []string{"a.pdf", "b.pdf"}, f.files.removed)
}

func TestAdminService_DeleteUnknownUser(t *testing.T) {
	f := newFixture()
	f.users.On("GetUserByID", mock.Anything, int64(404)).Return(users.User{}, users.ErrUserNotFound)

	err := f.service.DeleteUser(context.Background(), adminActor, 404)

	require.ErrorIs(t, err, users.ErrUserNotFound)
	require.Empty(t, f.accounts.deleted)
}

func TestAccountDeleter_FileFailureDoesNotFail(t *testing.T) {
	accounts := &stubAccountRepository{keys: []string{"a.pdf", "b.pdf"}}
	files := &recordingRemover{failOn: "a.pdf"}

	err := NewAccountDeleter(accounts, files).DeleteAccount(context.Background(), 9)

	require.NoError(t, err)
	require.Equal(t, []string{"b.pdf"}, files.removed)
}

func TestAccountDeleter_RepositoryFailureKeepsFiles(t *testing.T) {
	accounts := &stubAccountRepository{err: errors.New("tx aborted")}
	files := &recordingRemover{}

	err := NewAccountDeleter(accounts, files).DeleteAccount(context.Background(), 9)

	require.EqualError(t, err, "tx aborted")
	require.Empty(t, files.removed)
}
