package main

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"taskboard-client/client"
	"taskboard-client/config"
	"taskboard-client/credstore"
	"taskboard-client/domain"
	"taskboard-client/guard"
	"taskboard-client/session"
)

// app wires the client core for one command invocation.
type app struct {
	cfg      config.Config
	store    *credstore.Store
	sessions *session.Manager
	api      *client.Client
	redis    *redis.Client
	bcast    *session.Broadcaster
	log      *log.Logger
}

// routeNavigator renders route pushes as plain output; the CLI has no
// pages to switch.
type routeNavigator struct{}

func (routeNavigator) NavigateTo(path string) {
	fmt.Printf("→ %s\n", path)
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := log.StandardLogger()
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	store, err := credstore.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, store: store, log: logger}

	opts := []session.Option{}
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("invalid %s: %w", "TASKBOARD_REDIS", err)
		}
		a.redis = redis.NewClient(redisOpts)
		a.bcast = session.NewBroadcaster(a.redis, session.DefaultChannel, logger)
		opts = append(opts, session.WithBroadcaster(a.bcast))
	}

	a.sessions = session.NewManager(store, routeNavigator{}, logger, opts...)
	a.sessions.Initialize()

	a.api = client.New(cfg.APIBaseURL,
		client.WithTokenSource(a.sessions.Token),
		client.WithLogger(logger),
	)
	return a, nil
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	_ = a.store.Close()
}

// requireRoles runs the route guard for a role-scoped command. A denial
// carries the single redirect the guard decided on.
func (a *app) requireRoles(roles ...domain.Role) error {
	d := guard.Evaluate(a.sessions.Session(), roles)
	if d.Allow {
		return nil
	}
	if d.RedirectTo == guard.LoginRoute {
		return errors.New("not signed in: run `taskboard login` first")
	}
	return fmt.Errorf("this section is not available for role %s; your dashboard is %s",
		a.sessions.Session().Role, d.RedirectTo)
}
