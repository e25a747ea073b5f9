package session

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	eventLoggedIn  = "logged-in"
	eventLoggedOut = "logged-out"

	// DefaultChannel carries session events between client contexts.
	DefaultChannel = "taskboard:session-events"
)

// SessionEvent is the frame published when a session changes in some
// client context.
type SessionEvent struct {
	Kind   string `json:"kind"`
	UserID string `json:"userId"`
}

// Broadcaster synchronizes session changes across independently running
// client processes through Redis pub/sub. Without it a logout in one
// context is not observed by others.
type Broadcaster struct {
	rc      *redis.Client
	channel string
	log     *log.Logger
}

// NewBroadcaster creates a Broadcaster on the given channel. An empty
// channel falls back to DefaultChannel.
func NewBroadcaster(rc *redis.Client, channel string, logger *log.Logger) *Broadcaster {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Broadcaster{rc: rc, channel: channel, log: logger}
}

// Publish emits a session event. Failures are logged and swallowed: the
// local session change already happened and must not be rolled back.
func (b *Broadcaster) Publish(kind, userID string) {
	data, err := sonic.ConfigStd.Marshal(SessionEvent{Kind: kind, UserID: userID})
	if err != nil {
		b.log.WithError(err).Error("session: marshal broadcast event")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := b.rc.Publish(ctx, b.channel, data).Err(); err != nil {
		b.log.WithError(err).Warn("session: publish broadcast event")
	}
}

// Listen subscribes to session events and applies remote logouts to the
// manager until ctx is cancelled. The subscription is re-established after
// channel closure.
func (b *Broadcaster) Listen(ctx context.Context, m *Manager) {
	for {
		sub := b.rc.Subscribe(ctx, b.channel)
		ch := sub.Channel()
	recv:
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					break recv
				}
				var ev SessionEvent
				if err := sonic.ConfigStd.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.log.WithError(err).Error("session: unable to parse broadcast event")
					continue
				}
				m.applyRemote(ev)
			}
		}
		_ = sub.Close()
		if ctx.Err() != nil {
			return
		}
		b.log.Error("session: pubsub channel closed, resubscribing")
		time.Sleep(time.Second)
	}
}
