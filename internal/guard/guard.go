// Package guard decides route access from a session snapshot. Two guard
// policies exist on purpose: the generic guard covers end-user areas and the
// role guard covers administrative ones, and their differing behavior
// (silent vs visible pending state, redirect vs in-place denial) is a UX
// decision, not a shared component with a flag.
package guard

import (
	"fmt"
	"strings"

	"github.com/edufinai/edufin/internal/models"
	"github.com/edufinai/edufin/internal/session"
)

// Action is what the caller should do with the protected content.
type Action int

const (
	// ActionAllow renders the protected content.
	ActionAllow Action = iota
	// ActionWait means the session is not resolved yet; show nothing or a
	// loading state depending on Quiet, never a premature redirect.
	ActionWait
	// ActionRedirect sends the user to a login route, carrying the
	// attempted target so the login flow can return them afterwards.
	ActionRedirect
	// ActionDeny shows an in-place access-denied message. No redirect.
	ActionDeny
)

func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionWait:
		return "wait"
	case ActionRedirect:
		return "redirect"
	default:
		return "deny"
	}
}

// Decision is the outcome of evaluating a guard against a snapshot.
type Decision struct {
	Action Action
	// Route is the login route for redirects.
	Route string
	// From is the attempted target carried through a redirect.
	From string
	// Message is the denial or loading text.
	Message string
	// Roles lists the roles the user actually holds, shown on denial.
	Roles []string
	// Quiet means the pending state renders nothing at all.
	Quiet bool
}

const (
	// LoginRoute is the generic login entry point.
	LoginRoute = "/auth/login"
	// AdminLoginRoute is the administrative login entry point.
	AdminLoginRoute = "/admin/login"
)

// Generic admits any authenticated user. With auth disabled app-wide it
// admits everyone.
type Generic struct {
	AuthEnabled bool
}

// Evaluate decides access for the attempted target.
func (g Generic) Evaluate(snap session.Snapshot, from string) Decision {
	if !g.AuthEnabled {
		return Decision{Action: ActionAllow}
	}

	if !snap.Ready {
		return Decision{Action: ActionWait, Quiet: true}
	}

	if !snap.IsAuthenticated {
		return Decision{Action: ActionRedirect, Route: LoginRoute, From: from}
	}

	return Decision{Action: ActionAllow}
}

// RoleGuard admits only users holding one of the accepted role names.
// Unlike Generic it never honors the app-wide auth switch: administrative
// surfaces require an explicit login even when auth is globally disabled.
type RoleGuard struct {
	AuthEnabled bool
	LoginRoute  string
	Accepted    []string
}

// Admin guards administrative surfaces.
func Admin(authEnabled bool) RoleGuard {
	return RoleGuard{
		AuthEnabled: authEnabled,
		LoginRoute:  AdminLoginRoute,
		Accepted:    []string{"ADMIN", "ROLE_ADMIN"},
	}
}

// Moderator guards the moderation queue.
func Moderator(authEnabled bool) RoleGuard {
	return RoleGuard{
		AuthEnabled: authEnabled,
		LoginRoute:  AdminLoginRoute,
		Accepted:    []string{"ADMIN", "ROLE_ADMIN", "MODERATOR", "ROLE_MODERATOR"},
	}
}

// Evaluate decides access for the attempted target.
func (g RoleGuard) Evaluate(snap session.Snapshot, from string) Decision {
	if !g.AuthEnabled {
		return Decision{Action: ActionRedirect, Route: g.LoginRoute, From: from}
	}

	if !snap.Ready {
		return Decision{Action: ActionWait, Message: "Checking your session..."}
	}

	if !snap.IsAuthenticated || snap.User == nil {
		return Decision{Action: ActionRedirect, Route: g.LoginRoute, From: from}
	}

	if !snap.User.HasAnyRole(g.Accepted...) {
		roles := models.RoleNames(snap.User.Roles)
		return Decision{
			Action:  ActionDeny,
			Message: denialMessage(roles),
			Roles:   roles,
		}
	}

	return Decision{Action: ActionAllow}
}

func denialMessage(roles []string) string {
	if len(roles) == 0 {
		return "access denied: you have no roles assigned"
	}
	return fmt.Sprintf("access denied: your roles (%s) do not grant access here", strings.Join(roles, ", "))
}
