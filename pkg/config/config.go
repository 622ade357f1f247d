// Package config reads the configuration of the client from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pocketledger/client/pkg/resource"
	"github.com/pocketledger/client/pkg/retry"
	"github.com/rs/zerolog"
)

var ErrMissing = errors.New("missing required environment variable")

// Config is the configuration of the client.
type Config struct {
	APIURL    *url.URL // Base URL of the finance server
	APIToken  string   // Bearer token for the finance server
	AccountID int64    // ID of the account on the finance server

	DataDir    string // Directory for the cache database and the preferences
	ListenAddr string // Address of the local API

	LogFormat string // "human" or "json". Empty selects by gin mode.
	LogLevel  zerolog.Level

	CORSAllowOrigins []string
	EnablePprof      bool

	RetryMax             int
	RetryDelay           time.Duration
	HTTPTimeout          time.Duration
	ConnectivityInterval time.Duration

	// Fetch policy for all resources. Empty uses the default of each.
	FetchPolicy string
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Config{
		AccountID:            1,
		DataDir:              filepath.Join(".", "data"),
		ListenAddr:           ":8080",
		LogLevel:             zerolog.InfoLevel,
		RetryMax:             retry.DefaultMaxRetries,
		RetryDelay:           retry.DefaultDelay,
		HTTPTimeout:          30 * time.Second,
		ConnectivityInterval: 10 * time.Second,
	}

	var errs []error
	env := func(name string) (string, bool) {
		v, ok := lookup(name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	if v, ok := env("API_URL"); ok {
		u, err := url.Parse(v)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("API_URL must be an absolute URL, got %q", v))
		}
		cfg.APIURL = u
	} else {
		errs = append(errs, fmt.Errorf("%w API_URL", ErrMissing))
	}

	if v, ok := env("API_TOKEN"); ok {
		cfg.APIToken = v
	} else {
		errs = append(errs, fmt.Errorf("%w API_TOKEN", ErrMissing))
	}

	if v, ok := env("ACCOUNT_ID"); ok {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			errs = append(errs, fmt.Errorf("ACCOUNT_ID must be a positive integer, got %q", v))
		}
		cfg.AccountID = id
	}

	if v, ok := env("DATA_DIR"); ok {
		cfg.DataDir = v
	}

	if v, ok := env("LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}

	if v, ok := env("LOG_FORMAT"); ok {
		if v != "human" && v != "json" {
			errs = append(errs, fmt.Errorf("LOG_FORMAT must be human or json, got %q", v))
		}
		cfg.LogFormat = v
	}

	if v, ok := env("LOG_LEVEL"); ok {
		level, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
		}
		cfg.LogLevel = level
	}

	if v, ok := env("CORS_ALLOW_ORIGINS"); ok {
		cfg.CORSAllowOrigins = strings.Fields(v)
	}

	if v, ok := env("ENABLE_PPROF"); ok {
		cfg.EnablePprof = v == "true"
	}

	if v, ok := env("RETRY_MAX"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("RETRY_MAX must be a non-negative integer, got %q", v))
		}
		cfg.RetryMax = n
	}

	durations := []struct {
		name   string
		target *time.Duration
	}{
		{"RETRY_DELAY", &cfg.RetryDelay},
		{"HTTP_TIMEOUT", &cfg.HTTPTimeout},
		{"CONNECTIVITY_INTERVAL", &cfg.ConnectivityInterval},
	}
	for _, d := range durations {
		v, ok := env(d.name)
		if !ok {
			continue
		}

		duration, err := time.ParseDuration(v)
		if err != nil || duration < 0 {
			errs = append(errs, fmt.Errorf("%s must be a non-negative duration like 2s, got %q", d.name, v))
			continue
		}
		*d.target = duration
	}

	if cfg.ConnectivityInterval == 0 {
		errs = append(errs, errors.New("CONNECTIVITY_INTERVAL must not be 0"))
	}

	if v, ok := env("FETCH_POLICY"); ok {
		if _, err := resource.PolicyByName[any](v); err != nil {
			errs = append(errs, fmt.Errorf("FETCH_POLICY: %w", err))
		}
		cfg.FetchPolicy = v
	}

	return cfg, errors.Join(errs...)
}

// RetryPolicy returns the retry policy for remote calls.
func (c Config) RetryPolicy() retry.Policy {
	p := retry.Default("")
	p.MaxRetries = c.RetryMax
	p.Delay = c.RetryDelay
	return p
}

// DatabasePath returns the path of the cache database.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "cache.db")
}

// PreferencesDir returns the directory of the preference files.
func (c Config) PreferencesDir() string {
	return filepath.Join(c.DataDir, "preferences")
}
