package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"svw.info/picreveal/internal/imageinput"
	"svw.info/picreveal/internal/persistence"
)

// Store kinds.
const (
	StoreFS       = "fs"
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	HTTPAddr    string
	LogLevel    zerolog.Level
	LogFormat   string // console or json
	Store       string
	DataDir     string
	DatabaseURL string
	Slot        string
	MaxUpload   int64
	RatePerSec  float64
	RateBurst   int
	IdleTimeout time.Duration // idle browser sessions are dropped after this
}

// Load reads PICREVEAL_* environment variables over the defaults.
func Load() (Config, error) {
	c := Config{
		HTTPAddr:    envOr("PICREVEAL_ADDR", ":8080"),
		LogFormat:   strings.ToLower(envOr("PICREVEAL_LOG_FORMAT", "console")),
		Store:       strings.ToLower(envOr("PICREVEAL_STORE", StoreFS)),
		DataDir:     envOr("PICREVEAL_DATA_DIR", "./data"),
		DatabaseURL: os.Getenv("PICREVEAL_DATABASE_URL"),
		Slot:        envOr("PICREVEAL_SLOT", persistence.DefaultSlot),
		MaxUpload:   imageinput.DefaultMaxBytes,
		RatePerSec:  20,
		RateBurst:   40,
		IdleTimeout: 30 * time.Minute,
	}

	level, err := ParseLogLevel(envOr("PICREVEAL_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level

	if v := os.Getenv("PICREVEAL_MAX_UPLOAD"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid PICREVEAL_MAX_UPLOAD %q", v)
		}
		c.MaxUpload = n
	}
	if v := os.Getenv("PICREVEAL_RATE"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r < 0 {
			return Config{}, fmt.Errorf("invalid PICREVEAL_RATE %q", v)
		}
		c.RatePerSec = r
	}

	if v := os.Getenv("PICREVEAL_IDLE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid PICREVEAL_IDLE_TIMEOUT %q", v)
		}
		c.IdleTimeout = d
	}

	return c, c.Validate()
}

// Validate checks combinations that Load cannot catch field by field.
func (c Config) Validate() error {
	switch c.Store {
	case StoreFS:
		if strings.TrimSpace(c.DataDir) == "" {
			return fmt.Errorf("data dir is required for the fs store")
		}
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("PICREVEAL_DATABASE_URL is required when PICREVEAL_STORE=postgres")
		}
	default:
		return fmt.Errorf("invalid store %q (fs|memory|postgres)", c.Store)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q (console|json)", c.LogFormat)
	}
	if strings.TrimSpace(c.Slot) == "" {
		return fmt.Errorf("slot name must not be empty")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func ParseLogLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", s)
	}
}
