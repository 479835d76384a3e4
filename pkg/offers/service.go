package offers

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"startupconnect/pkg/notifications"
	"startupconnect/pkg/policy"
	"startupconnect/pkg/profiles"
	"startupconnect/pkg/users"
)

// StartupLookup resolves startup profiles by id.
type StartupLookup interface {
	GetStartupProfile(ctx context.Context, id int64) (profiles.StartupProfile, error)
}

// UserLookup resolves users by id.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (users.User, error)
}

type OfferService interface {
	CreateOffer(ctx context.Context, actor policy.Actor, startupID int64, in OfferInput) (Offer, error)
	UpdateOffer(ctx context.Context, actor policy.Actor, startupID, offerID int64, in OfferInput) (Offer, error)
	UpdateOfferStatus(ctx context.Context, actor policy.Actor, startupID, offerID int64, status Status) (Offer, error)
	AcceptOffer(ctx context.Context, actor policy.Actor, offerID int64) (Offer, error)
	UpdateRemainingAmount(ctx context.Context, actor policy.Actor, offerID int64, delta decimal.Decimal) (Offer, error)
	DeleteOffer(ctx context.Context, actor policy.Actor, startupID, offerID int64) error
	ListActiveByStartup(ctx context.Context, startupID int64) ([]OfferView, error)
	ListByStartup(ctx context.Context, startupID int64) ([]OfferView, error)
	GetOffer(ctx context.Context, offerID int64) (OfferView, error)
}

type offerService struct {
	repo     OfferRepository
	startups StartupLookup
	users    UserLookup
	notifier notifications.Notifier
	rules    policy.Rules
	now      func() time.Time
}

func NewOfferService(repo OfferRepository, startups StartupLookup, users UserLookup, notifier notifications.Notifier, rules policy.Rules) OfferService {
	return &offerService{
		repo:     repo,
		startups: startups,
		users:    users,
		notifier: notifier,
		rules:    rules,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// authorizeStartup resolves the startup and checks the actor may mutate its
// offers.
func (s *offerService) authorizeStartup(ctx context.Context, actor policy.Actor, startupID int64) (profiles.StartupProfile, error) {
	if !actor.Authenticated() {
		return profiles.StartupProfile{}, s.rules.AuthorizeOfferMutation(actor, 0)
	}
	startup, err := s.startups.GetStartupProfile(ctx, startupID)
	if err != nil {
		return profiles.StartupProfile{}, err
	}
	if err := s.rules.AuthorizeOfferMutation(actor, startup.UserID); err != nil {
		return profiles.StartupProfile{}, err
	}
	return startup, nil
}

func ownedBy(o Offer, startupID int64) error {
	if o.StartupID != startupID {
		return ErrOwnershipMismatch
	}
	return nil
}

func (s *offerService) CreateOffer(ctx context.Context, actor policy.Actor, startupID int64, in OfferInput) (Offer, error) {
	startup, err := s.authorizeStartup(ctx, actor, startupID)
	if err != nil {
		return Offer{}, err
	}
	o, err := NewOffer(startup.ID, in, s.now())
	if err != nil {
		return Offer{}, err
	}
	return s.repo.Create(ctx, o)
}

func (s *offerService) UpdateOffer(ctx context.Context, actor policy.Actor, startupID, offerID int64, in OfferInput) (Offer, error) {
	if _, err := s.authorizeStartup(ctx, actor, startupID); err != nil {
		return Offer{}, err
	}
	return s.repo.UpdateLocked(ctx, offerID, func(o Offer) (Offer, error) {
		if err := ownedBy(o, startupID); err != nil {
			return Offer{}, err
		}
		return ApplyUpdate(o, in, s.now())
	})
}

func (s *offerService) UpdateOfferStatus(ctx context.Context, actor policy.Actor, startupID, offerID int64, status Status) (Offer, error) {
	if _, err := s.authorizeStartup(ctx, actor, startupID); err != nil {
		return Offer{}, err
	}
	return s.repo.UpdateLocked(ctx, offerID, func(o Offer) (Offer, error) {
		if err := ownedBy(o, startupID); err != nil {
			return Offer{}, err
		}
		return TransitionStatus(o, status, s.now())
	})
}

func (s *offerService) AcceptOffer(ctx context.Context, actor policy.Actor, offerID int64) (Offer, error) {
	if err := policy.AuthorizeOfferAcceptance(actor); err != nil {
		return Offer{}, err
	}
	investor, err := s.users.GetUserByID(ctx, actor.UserID)
	if err != nil {
		return Offer{}, err
	}

	o, err := s.repo.UpdateLocked(ctx, offerID, func(o Offer) (Offer, error) {
		return Accept(o, investor.ID, s.now())
	})
	if err != nil {
		return Offer{}, err
	}

	s.notifyOwner(ctx, o.StartupID, notifications.KindOfferAccepted, "Offer accepted",
		fmt.Sprintf("%s accepted investment offer #%d", investor.FullName, o.ID))
	return o, nil
}

func (s *offerService) UpdateRemainingAmount(ctx context.Context, actor policy.Actor, offerID int64, delta decimal.Decimal) (Offer, error) {
	if err := policy.AuthorizeOfferAcceptance(actor); err != nil {
		return Offer{}, err
	}

	o, err := s.repo.UpdateLocked(ctx, offerID, func(o Offer) (Offer, error) {
		return Decrement(o, delta, s.now())
	})
	if err != nil {
		return Offer{}, err
	}

	if o.RemainingAmount.IsZero() {
		s.notifyOwner(ctx, o.StartupID, notifications.KindOfferClosed, "Offer fully funded",
			fmt.Sprintf("investment offer #%d has no remaining amount and is now closed", o.ID))
	}
	return o, nil
}

func (s *offerService) DeleteOffer(ctx context.Context, actor policy.Actor, startupID, offerID int64) error {
	if _, err := s.authorizeStartup(ctx, actor, startupID); err != nil {
		return err
	}
	o, err := s.repo.GetByID(ctx, offerID)
	if err != nil {
		return err
	}
	if err := ownedBy(o, startupID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, offerID)
}

func (s *offerService) ListActiveByStartup(ctx context.Context, startupID int64) ([]OfferView, error) {
	return s.repo.ListByStartup(ctx, startupID, true)
}

func (s *offerService) ListByStartup(ctx context.Context, startupID int64) ([]OfferView, error) {
	return s.repo.ListByStartup(ctx, startupID, false)
}

func (s *offerService) GetOffer(ctx context.Context, offerID int64) (OfferView, error) {
	return s.repo.GetView(ctx, offerID)
}

func (s *offerService) notifyOwner(ctx context.Context, startupID int64, kind, title, description string) {
	startup, err := s.startups.GetStartupProfile(ctx, startupID)
	if err != nil {
		return
	}
	s.notifier.Notify(ctx, startup.UserID, kind, title, description)
}
