package offers

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"startupconnect/pkg/apperr"
	"startupconnect/pkg/policy"
	"startupconnect/pkg/profiles"
	"startupconnect/pkg/users"
)

// memoryOfferRepository serialises UpdateLocked the way a row lock would.
type memoryOfferRepository struct {
	mu     sync.Mutex
	nextID int64
	offers map[int64]Offer
}

func newMemoryOfferRepository() *memoryOfferRepository {
	return &memoryOfferRepository{offers: map[int64]Offer{}}
}

func (m *memoryOfferRepository) Create(_ context.Context, o Offer) (Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	o.ID = m.nextID
	m.offers[o.ID] = o
	return o, nil
}

func (m *memoryOfferRepository) GetByID(_ context.Context, id int64) (Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.offers[id]
	if !ok {
		return Offer{}, ErrOfferNotFound
	}
	return o, nil
}

func (m *memoryOfferRepository) GetView(ctx context.Context, id int64) (OfferView, error) {
	o, err := m.GetByID(ctx, id)
	if err != nil {
		return OfferView{}, err
	}
	return OfferView{Offer: o, StartupName: "Acme"}, nil
}

func (m *memoryOfferRepository) ListByStartup(_ context.Context, startupID int64, activeOnly bool) ([]OfferView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []OfferView
	for _, o := range m.offers {
		if o.StartupID != startupID || (activeOnly && o.Status != StatusActive) {
			continue
		}
		out = append(out, OfferView{Offer: o, StartupName: "Acme"})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryOfferRepository) UpdateLocked(_ context.Context, id int64, fn func(Offer) (Offer, error)) (Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.offers[id]
	if !ok {
		return Offer{}, ErrOfferNotFound
	}
	next, err := fn(o)
	if err != nil {
		return Offer{}, err
	}
	m.offers[id] = next
	return next, nil
}

func (m *memoryOfferRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.offers[id]; !ok {
		return ErrOfferNotFound
	}
	delete(m.offers, id)
	return nil
}

type stubStartups map[int64]profiles.StartupProfile

func (s stubStartups) GetStartupProfile(_ context.Context, id int64) (profiles.StartupProfile, error) {
	p, ok := s[id]
	if !ok {
		return profiles.StartupProfile{}, profiles.ErrStartupNotFound
	}
	return p, nil
}

type stubUsers map[int64]users.User

func (s stubUsers) GetUserByID(_ context.Context, id int64) (users.User, error) {
	u, ok := s[id]
	if !ok {
		return users.User{}, users.ErrUserNotFound
	}
	return u, nil
}

type sentNotification struct {
	userID int64
	kind   string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (r *recordingNotifier) Notify(_ context.Context, userID int64, kind, _, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentNotification{userID: userID, kind: kind})
}

var (
	founder  = policy.Actor{UserID: 1, Email: "founder@example.com", Role: policy.RoleStartup}
	outsider = policy.Actor{UserID: 2, Email: "other@example.com", Role: policy.RoleStartup}
	backer   = policy.Actor{UserID: 3, Email: "backer@example.com", Role: policy.RoleInvestor}
)

type fixture struct {
	repo     *memoryOfferRepository
	notifier *recordingNotifier
	service  OfferService
}

func newFixture(rules policy.Rules) fixture {
	repo := newMemoryOfferRepository()
	notifier := &recordingNotifier{}
	startups := stubStartups{
		10: {ID: 10, UserID: founder.UserID, StartupName: "Acme"},
		20: {ID: 20, UserID: outsider.UserID, StartupName: "Other"},
	}
	people := stubUsers{
		backer.UserID: {ID: backer.UserID, FullName: "Bea Backer", Role: policy.RoleInvestor},
	}
	return fixture{
		repo:     repo,
		notifier: notifier,
		service:  NewOfferService(repo, startups, people, notifier, rules),
	}
}

func (f fixture) create(t *testing.T, amount string) Offer {
	t.Helper()
	o, err := f.service.CreateOffer(context.Background(), founder, 10, OfferInput{Amount: d(amount), EquityPercentage: d("10")})
	require.NoError(t, err)
	return o
}

func TestOfferService_CreateOffer(t *testing.T) {
	f := newFixture(policy.Strict())

	o := f.create(t, "25000")

	require.NotZero(t, o.ID)
	require.Equal(t, int64(10), o.StartupID)
	require.True(t, o.RemainingAmount.Equal(d("25000")))
}

func TestOfferService_CreateOffer_NotOwner(t *testing.T) {
	f := newFixture(policy.Strict())

	_, err := f.service.CreateOffer(context.Background(), outsider, 10, OfferInput{Amount: d("100"), EquityPercentage: d("1")})

	require.ErrorIs(t, err, policy.ErrNotStartupOwner)
}

func TestOfferService_CreateOffer_LaxRulesAllowAnyUser(t *testing.T) {
	f := newFixture(policy.Lax())

	_, err := f.service.CreateOffer(context.Background(), outsider, 10, OfferInput{Amount: d("100"), EquityPercentage: d("1")})

	require.NoError(t, err)
}

func TestOfferService_CreateOffer_UnknownStartup(t *testing.T) {
	f := newFixture(policy.Strict())

	_, err := f.service.CreateOffer(context.Background(), founder, 99, OfferInput{Amount: d("100"), EquityPercentage: d("1")})

	require.ErrorIs(t, err, profiles.ErrStartupNotFound)
}

func TestOfferService_CreateOffer_Anonymous(t *testing.T) {
	f := newFixture(policy.Strict())

	_, err := f.service.CreateOffer(context.Background(), policy.Actor{}, 10, OfferInput{Amount: d("100"), EquityPercentage: d("1")})

	require.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
}

func TestOfferService_UpdateOffer_OwnershipMismatch(t *testing.T) {
	f := newFixture(policy.Lax())
	o := f.create(t, "1000")

	// the offer belongs to startup 10, the path names startup 20
	_, err := f.service.UpdateOffer(context.Background(), outsider, 20, o.ID, OfferInput{Amount: d("2000"), EquityPercentage: d("5")})

	require.ErrorIs(t, err, ErrOwnershipMismatch)
	stored, _ := f.repo.GetByID(context.Background(), o.ID)
	require.True(t, stored.Amount.Equal(d("1000")))
}

func TestOfferService_UpdateOfferStatus(t *testing.T) {
	f := newFixture(policy.Strict())
	o := f.create(t, "1000")

	updated, err := f.service.UpdateOfferStatus(context.Background(), founder, 10, o.ID, StatusExpired)
	require.NoError(t, err)
	require.Equal(t, StatusExpired, updated.Status)
	require.False(t, updated.IsActive)

	_, err = f.service.UpdateOfferStatus(context.Background(), founder, 10, o.ID, StatusActive)
	require.ErrorIs(t, err, ErrStatusTransition)
}

func TestOfferService_AcceptOffer(t *testing.T) {
	f := newFixture(policy.Strict())
	o := f.create(t, "1000")

	accepted, err := f.service.AcceptOffer(context.Background(), backer, o.ID)

	require.NoError(t, err)
	require.Equal(t, backer.UserID, *accepted.InvestorUserID)
	require.Equal(t, StatusClosed, accepted.Status)
	require.Equal(t, []sentNotification{{userID: founder.UserID, kind: "offer_accepted"}}, f.notifier.sent)

	_, err = f.service.AcceptOffer(context.Background(), backer, o.ID)
	require.ErrorIs(t, err, ErrAlreadyClosed)
	require.Len(t, f.notifier.sent, 1)
}

func TestOfferService_AcceptOffer_RequiresInvestor(t *testing.T) {
	f := newFixture(policy.Strict())
	o := f.create(t, "1000")

	_, err := f.service.AcceptOffer(context.Background(), founder, o.ID)

	require.ErrorIs(t, err, policy.ErrNotInvestor)
}

func TestOfferService_UpdateRemainingAmount_NotifiesOnClose(t *testing.T) {
	f := newFixture(policy.Strict())
	o := f.create(t, "1000")

	partial, err := f.service.UpdateRemainingAmount(context.Background(), backer, o.ID, d("250"))
	require.NoError(t, err)
	require.True(t, partial.RemainingAmount.Equal(d("750")))
	require.Empty(t, f.notifier.sent)

	closed, err := f.service.UpdateRemainingAmount(context.Background(), backer, o.ID, d("750"))
	require.NoError(t, err)
	require.Equal(t, StatusClosed, closed.Status)
	require.Equal(t, []sentNotification{{userID: founder.UserID, kind: "offer_closed"}}, f.notifier.sent)
}

func TestOfferService_UpdateRemainingAmount_AfterClose(t *testing.T) {
	f := newFixture(policy.Strict())
	o := f.create(t, "100000")

	o, err := f.service.UpdateRemainingAmount(context.Background(), backer, o.ID, d("40000"))
	require.NoError(t, err)
	require.True(t, o.RemainingAmount.Equal(d("60000")))
	require.Equal(t, StatusActive, o.Status)

	o, err = f.service.UpdateRemainingAmount(context.Background(), backer, o.ID, d("60000"))
	require.NoError(t, err)
	require.True(t, o.RemainingAmount.IsZero())
	require.Equal(t, StatusClosed, o.Status)

	_, err = f.service.UpdateRemainingAmount(context.Background(), backer, o.ID, d("1"))
	require.ErrorIs(t, err, ErrInsufficientRemaining)

	stored, err := f.repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.Equal(t, o, stored)
}

func TestOfferService_UpdateOffer_KeepsRemaining(t *testing.T) {
	f := newFixture(policy.Strict())
	o := f.create(t, "1000")
	_, err := f.service.UpdateRemainingAmount(context.Background(), backer, o.ID, d("400"))
	require.NoError(t, err)

	updated, err := f.service.UpdateOffer(context.Background(), founder, 10, o.ID, OfferInput{Amount: d("5000"), EquityPercentage: d("20")})
	require.NoError(t, err)
	require.True(t, updated.Amount.Equal(d("5000")))
	require.True(t, updated.RemainingAmount.Equal(d("600")))

	_, err = f.service.UpdateOffer(context.Background(), founder, 10, o.ID, OfferInput{Amount: d("500"), EquityPercentage: d("20")})
	require.ErrorIs(t, err, ErrAmountBelowRemaining)
}

func TestOfferService_ConcurrentInvestmentsNeverOverdraw(t *testing.T) {
	f := newFixture(policy.Strict())
	o := f.create(t, "1000")

	const attempts = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.UpdateRemainingAmount(context.Background(), backer, o.ID, d("100"))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			if apperr.KindOf(err) == apperr.InvalidRange || apperr.KindOf(err) == apperr.InvalidState {
				rejected++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 10, succeeded)
	require.Equal(t, attempts-10, rejected)

	stored, err := f.repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.True(t, stored.RemainingAmount.IsZero())
	require.Equal(t, StatusClosed, stored.Status)
}

func TestOfferService_DeleteOffer(t *testing.T) {
	f := newFixture(policy.Strict())
	o := f.create(t, "1000")

	require.ErrorIs(t, f.service.DeleteOffer(context.Background(), outsider, 10, o.ID), policy.ErrNotStartupOwner)
	require.NoError(t, f.service.DeleteOffer(context.Background(), founder, 10, o.ID))

	_, err := f.service.GetOffer(context.Background(), o.ID)
	require.ErrorIs(t, err, ErrOfferNotFound)
}

func TestOfferService_ListActiveByStartup(t *testing.T) {
	f := newFixture(policy.Strict())
	open := f.create(t, "1000")
	gone := f.create(t, "500")
	_, err := f.service.UpdateOfferStatus(context.Background(), founder, 10, gone.ID, StatusExpired)
	require.NoError(t, err)
	talking := f.create(t, "750")
	_, err = f.service.UpdateOfferStatus(context.Background(), founder, 10, talking.ID, StatusNegotiating)
	require.NoError(t, err)

	active, err := f.service.ListActiveByStartup(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, open.ID, active[0].ID)

	all, err := f.service.ListByStartup(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
}
