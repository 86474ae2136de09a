package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"maturity/internal/scoring"
)

// ErrNoDatabase is returned alongside an otherwise usable Config when
// DATABASE_URL is unset; pure commands can still run.
var ErrNoDatabase = errors.New("DATABASE_URL not set")

type Config struct {
	Env               string
	ListenAddr        string
	DatabaseURL       string
	AssessWorkers     int
	PollInterval      time.Duration
	DBConnectAttempts int
	ScoringProfile    string
	Profile           scoring.Profile
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if out, err := strconv.Atoi(v); err == nil {
			return out
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// Load reads the environment. A broken scoring profile is fatal; a missing
// database URL is reported as ErrNoDatabase with the rest of the config filled.
func Load() (Config, error) {
	cfg := Config{
		Env:               getenv("APP_ENV", "development"),
		ListenAddr:        getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		AssessWorkers:     getenvInt("ASSESS_WORKERS", 2),
		PollInterval:      getenvDuration("ASSESS_POLL_INTERVAL", 500*time.Millisecond),
		DBConnectAttempts: getenvInt("DB_CONNECT_ATTEMPTS", 5),
		ScoringProfile:    os.Getenv("SCORING_PROFILE"),
		Profile:           scoring.DefaultProfile(),
	}
	if cfg.ScoringProfile != "" {
		p, err := LoadProfile(cfg.ScoringProfile)
		if err != nil {
			return cfg, err
		}
		cfg.Profile = p
	}
	if cfg.DatabaseURL == "" {
		return cfg, ErrNoDatabase
	}
	return cfg, nil
}

// LoadProfile reads a YAML scoring profile from path.
func LoadProfile(path string) (scoring.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scoring.Profile{}, fmt.Errorf("read scoring profile: %w", err)
	}
	p, err := scoring.ParseProfile(data)
	if err != nil {
		return scoring.Profile{}, fmt.Errorf("scoring profile %s: %w", path, err)
	}
	return p, nil
}
