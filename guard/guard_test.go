package guard

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"

	"taskboard-client/domain"
	"taskboard-client/session"
)

type recordingNav struct{ routes []string }

func (n *recordingNav) NavigateTo(path string) { n.routes = append(n.routes, path) }

func TestEvaluateUnauthenticated(t *testing.T) {
	d := Evaluate(session.Session{}, []domain.Role{domain.RoleAdmin})
	if d.Allow {
		t.Fatalf("unauthenticated session allowed")
	}
	if d.RedirectTo != LoginRoute {
		t.Fatalf("expected redirect to %s, got %s", LoginRoute, d.RedirectTo)
	}
}

func TestEvaluateRoleMismatchRedirectsHome(t *testing.T) {
	s := session.Session{Authenticated: true, UserID: "u1", Role: domain.RoleMember}
	d := Evaluate(s, []domain.Role{domain.RoleAdmin})
	if d.Allow {
		t.Fatalf("member allowed into admin section")
	}
	if d.RedirectTo != domain.RoleMember.HomeRoute() {
		t.Fatalf("expected redirect to member home, got %s", d.RedirectTo)
	}
}

func TestEvaluateAllowed(t *testing.T) {
	s := session.Session{Authenticated: true, UserID: "u1", Role: domain.RoleManager}
	d := Evaluate(s, []domain.Role{domain.RoleManager, domain.RoleMember})
	if !d.Allow {
		t.Fatalf("manager denied: %+v", d)
	}
	if d.RedirectTo != "" {
		t.Fatalf("allowed decision carries a redirect: %s", d.RedirectTo)
	}
}

func TestProtectReactsToSessionChanges(t *testing.T) {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	m := session.NewManager(session.NewMemStore(), nil, logger)
	m.Initialize()

	nav := &recordingNav{}
	renders := 0
	initial, cancel := Protect(m, []domain.Role{domain.RoleMember}, nav, func() { renders++ })
	defer cancel()

	if initial.Allow {
		t.Fatalf("empty session allowed")
	}
	if len(nav.routes) != 1 || nav.routes[0] != LoginRoute {
		t.Fatalf("expected login redirect, got %v", nav.routes)
	}

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"_id":  "u1",
		"role": "Member",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if err := m.Login(tok); err != nil {
		t.Fatalf("login: %v", err)
	}
	if renders != 1 {
		t.Fatalf("expected one render after login, got %d", renders)
	}

	m.Logout()
	if len(nav.routes) != 2 || nav.routes[1] != LoginRoute {
		t.Fatalf("logout did not redirect to login: %v", nav.routes)
	}
}
