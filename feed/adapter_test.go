package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"taskboard-client/cache"
	"taskboard-client/domain"
)

// scriptConn replays a fixed list of frames and then reports closure.
type scriptConn struct {
	mu     sync.Mutex
	frames [][]byte
	closed chan struct{}
	once   sync.Once
}

func newScriptConn(frames ...[]byte) *scriptConn {
	return &scriptConn{frames: frames, closed: make(chan struct{})}
}

func (c *scriptConn) ReadMessage() ([]byte, error) {
	c.mu.Lock()
	if len(c.frames) > 0 {
		frame := c.frames[0]
		c.frames = c.frames[1:]
		c.mu.Unlock()
		return frame, nil
	}
	c.mu.Unlock()
	<-c.closed
	return nil, io.EOF
}

func (c *scriptConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

// scriptDialer hands out one conn per dial, failing when the script runs
// out.
type scriptDialer struct {
	mu    sync.Mutex
	conns []Conn
	dials int
}

func (d *scriptDialer) DialContext(ctx context.Context, url string) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	if len(d.conns) == 0 {
		return nil, errors.New("refused")
	}
	conn := d.conns[0]
	d.conns = d.conns[1:]
	return conn, nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	created []string
	updated []string
}

func (n *recordingNotifier) TaskCreated(t domain.Task) {
	n.mu.Lock()
	n.created = append(n.created, t.ID)
	n.mu.Unlock()
}

func (n *recordingNotifier) TaskUpdated(t domain.Task) {
	n.mu.Lock()
	n.updated = append(n.updated, t.ID)
	n.mu.Unlock()
}

func (n *recordingNotifier) snapshot() ([]string, []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.created...), append([]string(nil), n.updated...)
}

func quietLogger() *log.Logger {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	return logger
}

func frame(typ, id string, assignees ...string) []byte {
	payload := fmt.Sprintf(`{"_id":%q,"title":"t","status":"todo","assignees":[`, id)
	for i, a := range assignees {
		if i > 0 {
			payload += ","
		}
		payload += fmt.Sprintf(`{"_id":%q}`, a)
	}
	payload += "]}"
	return []byte(fmt.Sprintf(`{"type":%q,"payload":%s}`, typ, payload))
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("%s", msg)
}

func TestApplyMergesRelevantEvents(t *testing.T) {
	store := cache.NewStore()
	notifier := &recordingNotifier{}
	a := New(Config{UserID: "u1", ActiveView: cache.ViewMine}, &scriptDialer{}, store, notifier, quietLogger())

	a.apply(frame(domain.TaskCreated, "t1", "u1"))
	a.apply(frame(domain.TaskUpdated, "t1", "u1"))
	a.apply(frame(domain.TaskCreated, "t2", "other"))

	if store.Len() != 1 {
		t.Fatalf("expected 1 cached task, got %d", store.Len())
	}
	created, updated := notifier.snapshot()
	if len(created) != 1 || created[0] != "t1" {
		t.Fatalf("unexpected created notifications %v", created)
	}
	if len(updated) != 1 || updated[0] != "t1" {
		t.Fatalf("unexpected updated notifications %v", updated)
	}
}

func TestApplyDiscardsMalformedFrames(t *testing.T) {
	store := cache.NewStore()
	a := New(Config{UserID: "u1"}, &scriptDialer{}, store, nil, quietLogger())

	a.apply(nil)
	a.apply([]byte(`not json`))
	a.apply([]byte(`{"type":"TASK_EXPLODED","payload":{"_id":"t1"}}`))
	a.apply([]byte(`{"type":"TASK_CREATED","payload":{}}`))

	if store.Len() != 0 {
		t.Fatalf("malformed frames mutated the cache")
	}
}

func TestApplyDeduplicatesCreationNotifications(t *testing.T) {
	store := cache.NewStore()
	notifier := &recordingNotifier{}
	a := New(Config{UserID: "u1", ActiveView: cache.ViewMine}, &scriptDialer{}, store, notifier, quietLogger())

	a.apply(frame(domain.TaskCreated, "t1", "u1"))
	a.apply(frame(domain.TaskCreated, "t1", "u1"))

	created, _ := notifier.snapshot()
	if len(created) != 1 {
		t.Fatalf("redelivered creation notified twice: %v", created)
	}
	if store.Len() != 1 {
		t.Fatalf("redelivered creation duplicated the task")
	}
}

func TestApplySilentOutsideMyTasksView(t *testing.T) {
	store := cache.NewStore()
	notifier := &recordingNotifier{}
	a := New(Config{UserID: "u1", ActiveView: cache.ViewAll}, &scriptDialer{}, store, notifier, quietLogger())

	a.apply(frame(domain.TaskCreated, "t1", "u1"))

	if store.Len() != 1 {
		t.Fatalf("merge must happen regardless of view")
	}
	created, updated := notifier.snapshot()
	if len(created) != 0 || len(updated) != 0 {
		t.Fatalf("notifications fired outside my-tasks view")
	}

	a.SetActiveView(cache.ViewMine)
	a.apply(frame(domain.TaskUpdated, "t1", "u1"))
	if _, updated := notifier.snapshot(); len(updated) != 1 {
		t.Fatalf("notification missing after switching to my-tasks")
	}
}

func TestRunConsumesAndResyncs(t *testing.T) {
	store := cache.NewStore()
	conn := newScriptConn(frame(domain.TaskUpdated, "t2", "u1"))
	dialer := &scriptDialer{conns: []Conn{conn}}

	resyncs := 0
	cfg := Config{
		UserID:     "u1",
		ActiveView: cache.ViewMine,
		Resync: func(ctx context.Context) ([]domain.Task, error) {
			resyncs++
			return []domain.Task{{ID: "t1", Assignees: []domain.Assignee{{ID: "u1"}}}}, nil
		},
	}
	a := New(cfg, dialer, store, nil, quietLogger())

	done := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = a.Run(ctx)
		close(done)
	}()

	waitFor(t, func() bool { return store.Len() == 2 }, "event not merged after resync")
	if resyncs != 1 {
		t.Fatalf("expected 1 resync, got %d", resyncs)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after Close")
	}
	if a.State() != Disconnected {
		t.Fatalf("expected disconnected state, got %s", a.State())
	}
}

func TestRunReconnectsAfterConnectionLoss(t *testing.T) {
	store := cache.NewStore()
	first := newScriptConn(frame(domain.TaskCreated, "t1", "u1"))
	second := newScriptConn()
	dialer := &scriptDialer{conns: []Conn{first, second}}

	resyncs := 0
	a := New(Config{
		UserID:     "u1",
		ActiveView: cache.ViewMine,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
		Resync: func(ctx context.Context) ([]domain.Task, error) {
			resyncs++
			return nil, nil
		},
	}, dialer, store, nil, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = a.Run(ctx) }()

	waitFor(t, func() bool { return store.Len() == 1 }, "first event not merged")
	_ = first.Close()
	waitFor(t, func() bool {
		dialer.mu.Lock()
		defer dialer.mu.Unlock()
		return dialer.dials >= 2
	}, "no reconnect after connection loss")
	waitFor(t, func() bool { return resyncs >= 2 }, "no resync after reconnect")
	_ = a.Close()
}

func TestRunGivesUpAfterMaxAttempts(t *testing.T) {
	a := New(Config{
		MaxAttempts: 2,
		BaseDelay:   time.Millisecond,
		MaxDelay:    time.Millisecond,
	}, &scriptDialer{}, cache.NewStore(), nil, quietLogger())

	errc := make(chan error, 1)
	go func() { errc <- a.Run(context.Background()) }()

	select {
	case err := <-errc:
		if err == nil {
			t.Fatalf("expected connect error")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not give up")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	a := New(Config{}, &scriptDialer{}, cache.NewStore(), nil, quietLogger())
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
