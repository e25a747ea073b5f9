package session

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"taskboard-client/domain"
)

// Credentials is the persisted client state: one token and the user id it
// was issued for.
type Credentials struct {
	Token  string
	UserID string
}

// TokenStore persists credentials across process starts. Load returns zero
// credentials and a nil error when nothing is stored.
type TokenStore interface {
	Load() (Credentials, error)
	Save(Credentials) error
	Clear() error
}

// Navigator receives route pushes issued by the session lifecycle.
type Navigator interface {
	NavigateTo(path string)
}

// Session is the tuple readers consume. It is a value; mutation happens
// only inside the Manager.
type Session struct {
	Authenticated bool
	UserID        string
	Role          domain.Role
}

// Manager owns the authentication token and derives the typed session from
// it. It is the single writer of session state; the guard, feed adapter and
// API call sites only read.
type Manager struct {
	store TokenStore
	nav   Navigator
	log   *log.Logger

	mu          sync.RWMutex
	sess        Session
	token       string
	initialized bool

	subMu  sync.Mutex
	subs   map[int]func(Session)
	nextID int

	broadcaster *Broadcaster
}

// Option configures a Manager.
type Option func(*Manager)

// WithBroadcaster publishes session lifecycle changes to other client
// processes and applies remote logouts locally.
func WithBroadcaster(b *Broadcaster) Option {
	return func(m *Manager) { m.broadcaster = b }
}

// NewManager creates a Manager. store and logger are required; nav may be
// nil when the caller does not route.
func NewManager(store TokenStore, nav Navigator, logger *log.Logger, opts ...Option) *Manager {
	if store == nil {
		panic("session.NewManager: nil token store")
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	m := &Manager{
		store: store,
		nav:   nav,
		log:   logger,
		subs:  make(map[int]func(Session)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize restores a persisted session, if any. A missing or malformed
// token is not an error: it just means no session. The initialized flag is
// set exactly once; callers must not render session-dependent output before
// Initialized reports true.
func (m *Manager) Initialize() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initialized {
		return
	}
	m.initialized = true

	creds, err := m.store.Load()
	if err != nil {
		m.log.WithError(err).Debug("session: token store unavailable")
		return
	}
	if creds.Token == "" {
		return
	}
	claims, err := DecodeClaims(creds.Token)
	if err != nil {
		m.log.WithError(err).Debug("session: ignoring persisted token")
		return
	}
	m.token = creds.Token
	m.sess = Session{Authenticated: true, UserID: claims.UserID, Role: claims.Role}
}

// Initialized reports whether Initialize has completed.
func (m *Manager) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// Login decodes the token, persists it and marks the session authenticated.
// On decode failure nothing is mutated and the error is returned for the
// caller to surface. On success the navigator is pushed to the role's home
// route.
func (m *Manager) Login(token string) error {
	claims, err := DecodeClaims(token)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if err := m.store.Save(Credentials{Token: token, UserID: claims.UserID}); err != nil {
		m.log.WithError(err).Warn("session: failed to persist token")
	}
	m.token = token
	m.sess = Session{Authenticated: true, UserID: claims.UserID, Role: claims.Role}
	sess := m.sess
	m.mu.Unlock()

	m.notify(sess)
	m.publish(eventLoggedIn, sess.UserID)
	if m.nav != nil {
		m.nav.NavigateTo(claims.Role.HomeRoute())
	}
	return nil
}

// Logout clears the persisted token and the in-memory session. It is a
// client-side invalidation only; token revocation is the backend's job.
func (m *Manager) Logout() {
	m.mu.Lock()
	userID := m.sess.UserID
	if err := m.store.Clear(); err != nil {
		m.log.WithError(err).Warn("session: failed to clear persisted token")
	}
	m.token = ""
	m.sess = Session{}
	sess := m.sess
	m.mu.Unlock()

	m.notify(sess)
	m.publish(eventLoggedOut, userID)
}

// Session returns the current session tuple. Pure read.
func (m *Manager) Session() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sess
}

// Token returns the raw token for Authorization headers.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Subscribe registers fn to run on every session change. The returned
// function cancels the subscription.
func (m *Manager) Subscribe(fn func(Session)) func() {
	m.subMu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.subMu.Unlock()
	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Manager) notify(sess Session) {
	m.subMu.Lock()
	fns := make([]func(Session), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()
	for _, fn := range fns {
		fn(sess)
	}
}

func (m *Manager) publish(kind, userID string) {
	if m.broadcaster == nil || userID == "" {
		return
	}
	m.broadcaster.Publish(kind, userID)
}

// applyRemote reacts to a session event from another client context.
// Only logouts for the currently authenticated user are applied, and the
// local logout must not republish or the contexts would ping-pong.
func (m *Manager) applyRemote(ev SessionEvent) {
	if ev.Kind != eventLoggedOut {
		return
	}
	m.mu.Lock()
	if !m.sess.Authenticated || m.sess.UserID != ev.UserID {
		m.mu.Unlock()
		return
	}
	if err := m.store.Clear(); err != nil {
		m.log.WithError(err).Warn("session: failed to clear persisted token")
	}
	m.token = ""
	m.sess = Session{}
	sess := m.sess
	m.mu.Unlock()

	m.log.WithField("user", ev.UserID).Info("session: logout applied from another context")
	m.notify(sess)
}
