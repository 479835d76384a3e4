package negotiations

import (
	"context"
	"fmt"
	"time"

	"startupconnect/pkg/notifications"
	"startupconnect/pkg/policy"
	"startupconnect/pkg/profiles"
)

// ProfileLookup resolves the two parties of a negotiation.
type ProfileLookup interface {
	GetStartupProfile(ctx context.Context, id int64) (profiles.StartupProfile, error)
	GetInvestorProfile(ctx context.Context, id int64) (profiles.InvestorProfile, error)
	GetInvestorProfileByUserID(ctx context.Context, userID int64) (profiles.InvestorProfile, error)
}

type NegotiationService interface {
	CreateNegotiationOffer(ctx context.Context, actor policy.Actor, startupID, investorID int64, p Proposal) (View, error)
	UpdateNegotiationOffer(ctx context.Context, actor policy.Actor, id int64, in CounterInput) (View, error)
	AcceptNegotiationOffer(ctx context.Context, actor policy.Actor, id int64) (View, error)
	RejectNegotiationOffer(ctx context.Context, actor policy.Actor, id int64, reason string) (View, error)
	GetNegotiation(ctx context.Context, actor policy.Actor, id int64) (View, error)
	ListByStartup(ctx context.Context, startupID int64) ([]View, error)
	ListByInvestor(ctx context.Context, investorID int64) ([]View, error)
}

type negotiationService struct {
	repo     NegotiationRepository
	profiles ProfileLookup
	notifier notifications.Notifier
	rules    policy.Rules
	now      func() time.Time
}

func NewNegotiationService(repo NegotiationRepository, profiles ProfileLookup, notifier notifications.Notifier, rules policy.Rules) NegotiationService {
	return &negotiationService{
		repo:     repo,
		profiles: profiles,
		notifier: notifier,
		rules:    rules,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateNegotiationOffer opens a negotiation between a startup and an
// investor profile. A zero investorID means the acting investor's own
// profile.
func (s *negotiationService) CreateNegotiationOffer(ctx context.Context, actor policy.Actor, startupID, investorID int64, p Proposal) (View, error) {
	startup, err := s.profiles.GetStartupProfile(ctx, startupID)
	if err != nil {
		return View{}, err
	}

	var investor profiles.InvestorProfile
	if investorID == 0 && actor.Role == policy.RoleInvestor {
		investor, err = s.profiles.GetInvestorProfileByUserID(ctx, actor.UserID)
	} else {
		investor, err = s.profiles.GetInvestorProfile(ctx, investorID)
	}
	if err != nil {
		return View{}, err
	}

	if err := s.rules.AuthorizeNegotiationParty(actor, startup.UserID, investor.UserID); err != nil {
		return View{}, err
	}

	n, err := Open(startup.ID, investor.ID, p, s.now())
	if err != nil {
		return View{}, err
	}
	created, err := s.repo.Create(ctx, n)
	if err != nil {
		return View{}, err
	}

	view, err := s.repo.GetView(ctx, created.ID)
	if err != nil {
		return View{}, err
	}
	s.notifyCounterparts(ctx, actor, view, "New negotiation offer",
		fmt.Sprintf("%s opened a negotiation with %s for %s", view.InvestorName, view.StartupName, view.ProposedAmount))
	return view, nil
}

func (s *negotiationService) UpdateNegotiationOffer(ctx context.Context, actor policy.Actor, id int64, in CounterInput) (View, error) {
	return s.transition(ctx, actor, id, func(n Negotiation) (Negotiation, error) {
		return Counter(n, in, s.now())
	}, func(v View) (string, string) {
		return "Negotiation updated", fmt.Sprintf("round %d: %s for %s%% equity (%s)", v.Round, v.ProposedAmount, v.EquityPercentage, v.Status)
	})
}

func (s *negotiationService) AcceptNegotiationOffer(ctx context.Context, actor policy.Actor, id int64) (View, error) {
	return s.transition(ctx, actor, id, func(n Negotiation) (Negotiation, error) {
		return Accept(n, s.now())
	}, func(v View) (string, string) {
		return "Negotiation accepted", fmt.Sprintf("the negotiation between %s and %s was accepted", v.StartupName, v.InvestorName)
	})
}

func (s *negotiationService) RejectNegotiationOffer(ctx context.Context, actor policy.Actor, id int64, reason string) (View, error) {
	return s.transition(ctx, actor, id, func(n Negotiation) (Negotiation, error) {
		return Reject(n, reason, s.now())
	}, func(v View) (string, string) {
		return "Negotiation rejected", fmt.Sprintf("the negotiation between %s and %s was rejected: %s", v.StartupName, v.InvestorName, reason)
	})
}

// transition authorizes the actor against the stored parties, applies fn
// under the row lock and notifies the other side.
func (s *negotiationService) transition(ctx context.Context, actor policy.Actor, id int64, fn func(Negotiation) (Negotiation, error), message func(View) (string, string)) (View, error) {
	if !actor.Authenticated() {
		return View{}, s.rules.AuthorizeNegotiationParty(actor, 0, 0)
	}
	current, err := s.repo.GetView(ctx, id)
	if err != nil {
		return View{}, err
	}
	if err := s.rules.AuthorizeNegotiationParty(actor, current.StartupUserID, current.InvestorUserID); err != nil {
		return View{}, err
	}

	if _, err := s.repo.UpdateLocked(ctx, id, fn); err != nil {
		return View{}, err
	}

	view, err := s.repo.GetView(ctx, id)
	if err != nil {
		return View{}, err
	}
	title, description := message(view)
	s.notifyCounterparts(ctx, actor, view, title, description)
	return view, nil
}

func (s *negotiationService) GetNegotiation(ctx context.Context, actor policy.Actor, id int64) (View, error) {
	if !actor.Authenticated() {
		return View{}, s.rules.AuthorizeNegotiationParty(actor, 0, 0)
	}
	view, err := s.repo.GetView(ctx, id)
	if err != nil {
		return View{}, err
	}
	if err := s.rules.AuthorizeNegotiationParty(actor, view.StartupUserID, view.InvestorUserID); err != nil {
		return View{}, err
	}
	return view, nil
}

func (s *negotiationService) ListByStartup(ctx context.Context, startupID int64) ([]View, error) {
	if _, err := s.profiles.GetStartupProfile(ctx, startupID); err != nil {
		return nil, err
	}
	return s.repo.ListByStartup(ctx, startupID)
}

func (s *negotiationService) ListByInvestor(ctx context.Context, investorID int64) ([]View, error) {
	if _, err := s.profiles.GetInvestorProfile(ctx, investorID); err != nil {
		return nil, err
	}
	return s.repo.ListByInvestor(ctx, investorID)
}

// notifyCounterparts tells every party other than the actor.
func (s *negotiationService) notifyCounterparts(ctx context.Context, actor policy.Actor, v View, title, description string) {
	for _, userID := range []int64{v.StartupUserID, v.InvestorUserID} {
		if userID == actor.UserID {
			continue
		}
		s.notifier.Notify(ctx, userID, notifications.KindNegotiation, title, description)
	}
}
