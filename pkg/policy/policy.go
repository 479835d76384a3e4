// Package policy decides whether an authenticated actor may perform a
// mutation. Checks are pure functions over identifiers; callers resolve
// ownership facts (who owns a startup profile) before asking.
package policy

import (
	"strings"

	"startupconnect/pkg/apperr"
	"startupconnect/pkg/config"
)

type Role string

const (
	RoleStartup  Role = "STARTUP"
	RoleInvestor Role = "INVESTOR"
	RoleAdmin    Role = "ADMIN"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleStartup, RoleInvestor, RoleAdmin:
		return r, true
	default:
		return "", false
	}
}

// Actor is the identity a request acts as. A zero UserID means the request
// carries no identity.
type Actor struct {
	UserID int64
	Email  string
	Role   Role
}

func (a Actor) Authenticated() bool { return a.UserID > 0 }

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

var (
	ErrNotStartupOwner = apperr.New(apperr.Forbidden, "NOT_STARTUP_OWNER", "actor does not own this startup")
	ErrNotProfileOwner = apperr.New(apperr.Forbidden, "NOT_PROFILE_OWNER", "actor may only access their own profile")
	ErrSameRoleContact = apperr.New(apperr.Forbidden, "SAME_ROLE_CONTACT", "startups may only contact investors and vice versa")
	ErrNotInvestor     = apperr.New(apperr.Forbidden, "NOT_INVESTOR", "only investors may perform this action")
	ErrNotParty        = apperr.New(apperr.Forbidden, "NOT_NEGOTIATION_PARTY", "actor is not a party to this negotiation")
	ErrNotAdmin        = apperr.New(apperr.Forbidden, "NOT_ADMIN", "admin role required")
)

// Rules holds the switchable parts of the policy.
type Rules struct {
	// RequireStartupOwnership limits offer mutations to the user owning the
	// startup profile. When false any authenticated user may mutate.
	RequireStartupOwnership bool
	// RequireNegotiationParty limits negotiation steps to the startup owner
	// and the investor named on the negotiation.
	RequireNegotiationParty bool
}

func Strict() Rules {
	return Rules{RequireStartupOwnership: true, RequireNegotiationParty: true}
}

// Lax only requires an authenticated identity for offer and negotiation
// mutations.
func Lax() Rules {
	return Rules{}
}

func FromConfig(cfg config.PolicyConfig) Rules {
	return Rules{
		RequireStartupOwnership: cfg.RequireStartupOwnership,
		RequireNegotiationParty: cfg.RequireNegotiationParty,
	}
}

func (r Rules) AuthorizeOfferMutation(actor Actor, startupOwnerUserID int64) error {
	if !actor.Authenticated() {
		return apperr.ErrUnauthorized
	}
	if actor.IsAdmin() || !r.RequireStartupOwnership {
		return nil
	}
	if actor.UserID != startupOwnerUserID {
		return ErrNotStartupOwner
	}
	return nil
}

func (r Rules) AuthorizeNegotiationParty(actor Actor, startupOwnerUserID, investorUserID int64) error {
	if !actor.Authenticated() {
		return apperr.ErrUnauthorized
	}
	if actor.IsAdmin() || !r.RequireNegotiationParty {
		return nil
	}
	if actor.UserID != startupOwnerUserID && actor.UserID != investorUserID {
		return ErrNotParty
	}
	return nil
}

func AuthorizeOwnProfileAccess(actor Actor, targetUserID int64) error {
	if !actor.Authenticated() {
		return apperr.ErrUnauthorized
	}
	if actor.UserID != targetUserID && !actor.IsAdmin() {
		return ErrNotProfileOwner
	}
	return nil
}

func AuthorizeCrossRoleContact(actorRole, targetRole Role) error {
	if actorRole == "" {
		return apperr.ErrUnauthorized
	}
	if actorRole == targetRole {
		return ErrSameRoleContact
	}
	return nil
}

func AuthorizeOfferAcceptance(actor Actor) error {
	if !actor.Authenticated() {
		return apperr.ErrUnauthorized
	}
	if actor.Role != RoleInvestor && !actor.IsAdmin() {
		return ErrNotInvestor
	}
	return nil
}

func AuthorizeAdmin(actor Actor) error {
	if !actor.Authenticated() {
		return apperr.ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}
