// Package feed keeps the client's task cache approximately in sync with
// server-side task mutations. One adapter serves one viewing context: a
// single board with either the "my tasks" or "all tasks" view active.
package feed

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"taskboard-client/cache"
	"taskboard-client/domain"
)

// State is the adapter's connection state.
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	}
	return "disconnected"
}

// Notifier surfaces feed activity to the user. Notifications fire only for
// relevant events while the "my tasks" view is active.
type Notifier interface {
	TaskCreated(t domain.Task)
	TaskUpdated(t domain.Task)
}

// ResyncFunc re-fetches the full task list for the viewing context. It runs
// after every successful (re)connect because the feed has no replay or
// backfill: events emitted while the connection was down are gone.
type ResyncFunc func(ctx context.Context) ([]domain.Task, error)

// Config parametrizes an Adapter.
type Config struct {
	URL    string
	UserID string

	// ActiveView selects which projection the user is looking at; it
	// gates notifications, never merges.
	ActiveView cache.View

	// Resync is optional; without it the cache keeps its current content
	// across reconnects.
	Resync ResyncFunc

	// Reconnect tuning. MaxAttempts <= 0 retries forever.
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxAttempts int
}

// Adapter owns a persistent feed connection and merges incoming task
// events into the shared cache.
type Adapter struct {
	cfg      Config
	dialer   Dialer
	store    *cache.Store
	notifier Notifier
	log      *log.Logger

	state atomic.Int32
	rnd   *rand.Rand

	mu     sync.Mutex
	conn   Conn
	done   chan struct{}
	closed bool
}

// New creates an Adapter. store is required; notifier may be nil.
func New(cfg Config, dialer Dialer, store *cache.Store, notifier Notifier, logger *log.Logger) *Adapter {
	if store == nil {
		panic("feed.New: nil store")
	}
	if dialer == nil {
		dialer = NewWebsocketDialer()
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	if cfg.ActiveView == "" {
		cfg.ActiveView = cache.ViewMine
	}
	return &Adapter{
		cfg:      cfg,
		dialer:   dialer,
		store:    store,
		notifier: notifier,
		log:      logger,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		done:     make(chan struct{}),
	}
}

// State returns the current connection state.
func (a *Adapter) State() State {
	return State(a.state.Load())
}

// SetActiveView switches which projection gates notifications. The caller
// is expected to re-fetch the list for the new view; the underlying cache
// is shared either way.
func (a *Adapter) SetActiveView(v cache.View) {
	a.mu.Lock()
	a.cfg.ActiveView = v
	a.mu.Unlock()
}

// Run connects and consumes the feed until ctx is cancelled or Close is
// called. Connection loss triggers reconnection with capped exponential
// backoff and a full resync after each successful handshake.
func (a *Adapter) Run(ctx context.Context) error {
	defer a.state.Store(int32(Disconnected))

	attempt := 0
	for {
		if err := a.checkDone(ctx); err != nil {
			return nil
		}

		a.state.Store(int32(Connecting))
		conn, err := a.dialer.DialContext(ctx, a.cfg.URL)
		if err != nil {
			a.state.Store(int32(Disconnected))
			attempt++
			if a.cfg.MaxAttempts > 0 && attempt >= a.cfg.MaxAttempts {
				a.log.WithError(err).Error("feed: giving up after repeated connect failures")
				return err
			}
			delay := backoffDelay(attempt-1, a.cfg.BaseDelay, a.cfg.MaxDelay, a.rnd)
			a.log.WithError(err).WithField("retry_in", delay).Warn("feed: connect failed")
			select {
			case <-ctx.Done():
				return nil
			case <-a.done:
				return nil
			case <-time.After(delay):
			}
			continue
		}
		attempt = 0

		if !a.setConn(conn) {
			_ = conn.Close()
			return nil
		}
		a.state.Store(int32(Connected))
		a.log.Debug("feed: connected")

		a.resync(ctx)
		a.readLoop(ctx, conn)

		a.clearConn()
		a.state.Store(int32(Disconnected))
		if err := a.checkDone(ctx); err != nil {
			return nil
		}
		a.log.Info("feed: disconnected, reconnecting")
	}
}

// Close tears the adapter down. No events are applied after Close returns;
// a blocked Run wakes up and exits.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	close(a.done)
	if a.conn != nil {
		_ = a.conn.Close()
		a.conn = nil
	}
	return nil
}

func (a *Adapter) checkDone(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-a.done:
		return context.Canceled
	default:
		return nil
	}
}

func (a *Adapter) setConn(conn Conn) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return false
	}
	a.conn = conn
	return true
}

func (a *Adapter) clearConn() {
	a.mu.Lock()
	a.conn = nil
	a.mu.Unlock()
}

func (a *Adapter) resync(ctx context.Context) {
	if a.cfg.Resync == nil {
		return
	}
	tasks, err := a.cfg.Resync(ctx)
	if err != nil {
		// The feed still delivers future events; the cache is just stale
		// until the next successful resync.
		a.log.WithError(err).Warn("feed: resync failed")
		return
	}
	if a.isDone() {
		return
	}
	a.store.Replace(tasks)
	a.log.WithField("tasks", len(tasks)).Debug("feed: resynced")
}

func (a *Adapter) readLoop(ctx context.Context, conn Conn) {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && !a.isDone() {
				a.log.WithError(err).Debug("feed: read failed")
			}
			return
		}
		if ctx.Err() != nil || a.isDone() {
			return
		}
		a.apply(data)
	}
}

func (a *Adapter) isDone() bool {
	select {
	case <-a.done:
		return true
	default:
		return false
	}
}

// apply merges one raw frame into the cache. Malformed frames and events
// not assigned to the current user are discarded without any state change.
func (a *Adapter) apply(data []byte) {
	ev, err := domain.ParseTaskEvent(data)
	if err != nil {
		a.log.WithError(err).Debug("feed: discarding frame")
		return
	}
	if !ev.Payload.AssignedTo(a.cfg.UserID) {
		return
	}

	created := a.store.Upsert(ev.Payload)

	a.mu.Lock()
	active := a.cfg.ActiveView
	a.mu.Unlock()
	if a.notifier == nil || active != cache.ViewMine {
		return
	}
	switch ev.Type {
	case domain.TaskCreated:
		// A redelivered creation is a replacement, not news.
		if created {
			a.notifier.TaskCreated(ev.Payload)
		}
	case domain.TaskUpdated:
		a.notifier.TaskUpdated(ev.Payload)
	}
}
