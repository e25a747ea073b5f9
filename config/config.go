// Package config loads client configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	envAPIURL   = "TASKBOARD_API_URL"
	envWSURL    = "TASKBOARD_WS_URL"
	envDBPath   = "TASKBOARD_DB"
	envRedisURL = "TASKBOARD_REDIS"
	envGoogleID = "GOOGLE_CLIENT_ID"
	envGoogleSc = "GOOGLE_CLIENT_SECRET"
	envDebug    = "DEBUG"
)

var errMissingAPIURL = errors.New("missing " + envAPIURL)

// Config is everything the client needs to talk to its collaborators.
type Config struct {
	APIBaseURL string
	WSURL      string
	DBPath     string
	RedisURL   string

	GoogleClientID     string
	GoogleClientSecret string

	Debug bool
}

// Load reads a .env file when present, then the environment. The WebSocket
// URL is derived from the API URL when not set explicitly.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		APIBaseURL:         strings.TrimRight(os.Getenv(envAPIURL), "/"),
		WSURL:              os.Getenv(envWSURL),
		DBPath:             os.Getenv(envDBPath),
		RedisURL:           os.Getenv(envRedisURL),
		GoogleClientID:     os.Getenv(envGoogleID),
		GoogleClientSecret: os.Getenv(envGoogleSc),
	}
	if cfg.APIBaseURL == "" {
		return Config{}, errMissingAPIURL
	}
	if cfg.WSURL == "" {
		cfg.WSURL = deriveWSURL(cfg.APIBaseURL)
	}
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		cfg.DBPath = filepath.Join(home, ".taskboard", "credentials.db")
	}
	if v, err := strconv.ParseBool(os.Getenv(envDebug)); err == nil {
		cfg.Debug = v
	}
	return cfg, nil
}

func deriveWSURL(apiURL string) string {
	switch {
	case strings.HasPrefix(apiURL, "https://"):
		return "wss://" + strings.TrimPrefix(apiURL, "https://") + "/ws"
	case strings.HasPrefix(apiURL, "http://"):
		return "ws://" + strings.TrimPrefix(apiURL, "http://") + "/ws"
	}
	return apiURL + "/ws"
}
