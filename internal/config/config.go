package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/jwebster45206/resolution-engine/pkg/subaction"
)

type Config struct {
	Environment string     `env:"ENVIRONMENT" envDefault:"development"`
	RawLogLevel string     `env:"LOG_LEVEL" envDefault:"info"`
	LogLevel    slog.Level `env:"-"`

	// RedisURL is the address of the resolution log store; blank disables it.
	RedisURL      string        `env:"REDIS_URL"`
	LogTTL        time.Duration `env:"RESOLUTION_LOG_TTL" envDefault:"24h"`
	LogMaxEntries int64         `env:"RESOLUTION_LOG_MAX_ENTRIES" envDefault:"500"`
	// PublishEvents also publishes each resolution on the game's Pub/Sub
	// channel. Requires REDIS_URL.
	PublishEvents bool `env:"PUBLISH_EVENTS" envDefault:"false"`

	ContentFile string `env:"CONTENT_FILE" envDefault:"data/content.yaml"`
	// ArchiveDir receives zstd JSONL archives; blank disables archiving.
	ArchiveDir string `env:"ARCHIVE_DIR"`

	// AuthoredResourcesOnly limits resource diffs to the catalog's resources.
	AuthoredResourcesOnly bool `env:"AUTHORED_RESOURCES_ONLY" envDefault:"false"`

	RawUnmatched string                    `env:"UNMATCHED_TRACES" envDefault:"discard"`
	Unmatched    subaction.UnmatchedPolicy `env:"-"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.RawLogLevel)

	policy, err := subaction.ParseUnmatchedPolicy(cfg.RawUnmatched)
	if err != nil {
		return nil, fmt.Errorf("invalid UNMATCHED_TRACES: %w", err)
	}
	cfg.Unmatched = policy

	if cfg.PublishEvents && cfg.RedisURL == "" {
		return nil, fmt.Errorf("PUBLISH_EVENTS requires REDIS_URL")
	}
	if cfg.LogMaxEntries < 0 {
		return nil, fmt.Errorf("RESOLUTION_LOG_MAX_ENTRIES must not be negative, got %d", cfg.LogMaxEntries)
	}
	return &cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
