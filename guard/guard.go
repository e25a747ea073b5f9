// Package guard gates role-scoped sections behind session state. The check
// is a pure derived-state computation over the current session, not a
// fetch; it re-runs whenever the session changes.
package guard

import (
	"taskboard-client/domain"
	"taskboard-client/session"
)

// LoginRoute is the entry point unauthenticated sessions are sent to.
const LoginRoute = "/"

// Decision is the outcome of evaluating a session against a required role
// set. Exactly one of Allow or RedirectTo is meaningful: a denial always
// carries a single redirect target and renders nothing.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Evaluate applies the guard contract: unauthenticated sessions are
// redirected to the login entry point, authenticated sessions with a role
// outside allowed are redirected to their own home route, everything else
// is allowed.
func Evaluate(s session.Session, allowed []domain.Role) Decision {
	if !s.Authenticated {
		return Decision{RedirectTo: LoginRoute}
	}
	for _, r := range allowed {
		if s.Role == r {
			return Decision{Allow: true}
		}
	}
	return Decision{RedirectTo: s.Role.HomeRoute()}
}

// Protect evaluates the manager's current session and re-evaluates on every
// session change, pushing the redirect through nav on denial and invoking
// render on allowance. It returns a cancel function releasing the
// subscription, plus the initial decision.
func Protect(m *session.Manager, allowed []domain.Role, nav session.Navigator, render func()) (Decision, func()) {
	apply := func(s session.Session) Decision {
		d := Evaluate(s, allowed)
		if d.Allow {
			if render != nil {
				render()
			}
		} else if nav != nil {
			nav.NavigateTo(d.RedirectTo)
		}
		return d
	}

	initial := apply(m.Session())
	cancel := m.Subscribe(func(s session.Session) { apply(s) })
	return initial, cancel
}
