package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"

	"taskboard-client/domain"
)

type recordingNav struct{ routes []string }

func (n *recordingNav) NavigateTo(path string) { n.routes = append(n.routes, path) }

type failingStore struct{ loadErr error }

func (s *failingStore) Load() (Credentials, error) { return Credentials{}, s.loadErr }
func (s *failingStore) Save(Credentials) error     { return nil }
func (s *failingStore) Clear() error               { return nil }

func testLogger() *log.Logger {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	return logger
}

func memberToken(t *testing.T, userID string) string {
	t.Helper()
	return signToken(t, jwt.MapClaims{
		"_id":  userID,
		"role": "Member",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
}

func TestInitializeRestoresPersistedSession(t *testing.T) {
	store := NewMemStore()
	tok := memberToken(t, "u1")
	if err := store.Save(Credentials{Token: tok, UserID: "u1"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	m := NewManager(store, nil, testLogger())
	m.Initialize()

	sess := m.Session()
	if !sess.Authenticated || sess.UserID != "u1" || sess.Role != domain.RoleMember {
		t.Fatalf("unexpected session %+v", sess)
	}
	if m.Token() != tok {
		t.Fatalf("token not restored")
	}
}

func TestInitializeRunsOnce(t *testing.T) {
	store := NewMemStore()
	m := NewManager(store, nil, testLogger())
	m.Initialize()
	if !m.Initialized() {
		t.Fatalf("expected initialized")
	}

	// A token saved after the first Initialize must not sneak in.
	if err := store.Save(Credentials{Token: memberToken(t, "u1"), UserID: "u1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	m.Initialize()
	if m.Session().Authenticated {
		t.Fatalf("second Initialize restored a session")
	}
}

func TestInitializeSwallowsStoreAndTokenErrors(t *testing.T) {
	m := NewManager(&failingStore{loadErr: errors.New("disk gone")}, nil, testLogger())
	m.Initialize()
	if m.Session().Authenticated {
		t.Fatalf("unexpected session from broken store")
	}

	store := NewMemStore()
	if err := store.Save(Credentials{Token: "not.a.token"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	m = NewManager(store, nil, testLogger())
	m.Initialize()
	if m.Session().Authenticated {
		t.Fatalf("unexpected session from malformed token")
	}
}

func TestLoginPersistsAndRoutes(t *testing.T) {
	store := NewMemStore()
	nav := &recordingNav{}
	m := NewManager(store, nav, testLogger())
	m.Initialize()

	tok := memberToken(t, "u1")
	if err := m.Login(tok); err != nil {
		t.Fatalf("login: %v", err)
	}
	sess := m.Session()
	if !sess.Authenticated || sess.UserID != "u1" || sess.Role != domain.RoleMember {
		t.Fatalf("unexpected session %+v", sess)
	}
	creds, err := store.Load()
	if err != nil || creds.Token != tok {
		t.Fatalf("token not persisted: %v %+v", err, creds)
	}
	if len(nav.routes) != 1 || nav.routes[0] != domain.RoleMember.HomeRoute() {
		t.Fatalf("unexpected routes %v", nav.routes)
	}
}

func TestLoginRejectsBadTokenWithoutMutation(t *testing.T) {
	store := NewMemStore()
	nav := &recordingNav{}
	m := NewManager(store, nav, testLogger())
	m.Initialize()

	if err := m.Login("junk"); err == nil {
		t.Fatalf("expected decode error")
	}
	if m.Session().Authenticated {
		t.Fatalf("bad login mutated session")
	}
	if creds, _ := store.Load(); creds.Token != "" {
		t.Fatalf("bad login persisted a token")
	}
	if len(nav.routes) != 0 {
		t.Fatalf("bad login routed: %v", nav.routes)
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	store := NewMemStore()
	m := NewManager(store, &recordingNav{}, testLogger())
	m.Initialize()
	if err := m.Login(memberToken(t, "u1")); err != nil {
		t.Fatalf("login: %v", err)
	}

	m.Logout()
	if sess := m.Session(); sess.Authenticated || sess.UserID != "" || sess.Role != "" {
		t.Fatalf("session not cleared: %+v", sess)
	}
	if m.Token() != "" {
		t.Fatalf("token not cleared")
	}
	if creds, _ := store.Load(); creds.Token != "" {
		t.Fatalf("persisted token not cleared")
	}
}

func TestSubscribeObservesChanges(t *testing.T) {
	m := NewManager(NewMemStore(), nil, testLogger())
	m.Initialize()

	var seen []Session
	cancel := m.Subscribe(func(s Session) { seen = append(seen, s) })

	if err := m.Login(memberToken(t, "u1")); err != nil {
		t.Fatalf("login: %v", err)
	}
	m.Logout()
	if len(seen) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(seen))
	}
	if !seen[0].Authenticated || seen[1].Authenticated {
		t.Fatalf("unexpected notification order %+v", seen)
	}

	cancel()
	if err := m.Login(memberToken(t, "u1")); err != nil {
		t.Fatalf("login: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("cancelled subscriber still notified")
	}
}

func TestApplyRemoteLogout(t *testing.T) {
	store := NewMemStore()
	m := NewManager(store, nil, testLogger())
	m.Initialize()
	if err := m.Login(memberToken(t, "u1")); err != nil {
		t.Fatalf("login: %v", err)
	}

	// Logout for a different user changes nothing.
	m.applyRemote(SessionEvent{Kind: eventLoggedOut, UserID: "someone-else"})
	if !m.Session().Authenticated {
		t.Fatalf("foreign logout applied locally")
	}

	m.applyRemote(SessionEvent{Kind: eventLoggedOut, UserID: "u1"})
	if m.Session().Authenticated {
		t.Fatalf("remote logout not applied")
	}
	if creds, _ := store.Load(); creds.Token != "" {
		t.Fatalf("remote logout left persisted token")
	}
}
