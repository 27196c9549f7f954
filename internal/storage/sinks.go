package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jwebster45206/resolution-engine/internal/config"
	"github.com/jwebster45206/resolution-engine/internal/services/events"
	"github.com/jwebster45206/resolution-engine/pkg/resolution"
)

// Sinks fans a composed resolution out to the configured log store and,
// when enabled, the archive and the game's event channel.
type Sinks struct {
	Log     LogStore
	Archive *JSONLArchive
	Events  *events.Broadcaster
}

// Open builds the sinks described by cfg. Without REDIS_URL the log is kept
// in memory.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Sinks, error) {
	s := &Sinks{}
	if cfg.RedisURL != "" {
		store := NewRedisLogStore(cfg.RedisURL, cfg.LogTTL, cfg.LogMaxEntries, logger)
		if err := store.WaitForConnection(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		s.Log = store
		if cfg.PublishEvents {
			s.Events = events.NewBroadcaster(store.Client(), logger)
		}
	} else {
		logger.Debug("REDIS_URL not set, keeping resolution log in memory")
		s.Log = NewMemoryLogStore()
	}
	if cfg.ArchiveDir != "" {
		s.Archive = NewJSONLArchive(cfg.ArchiveDir, "resolutions")
	}
	return s, nil
}

// Append writes res to the log, its rendered lines to the text log and the
// record to the archive.
func (s *Sinks) Append(ctx context.Context, gameID uuid.UUID, res resolution.Resolution) error {
	if s.Log != nil {
		if err := s.Log.Append(ctx, gameID, res); err != nil {
			return err
		}
		if err := s.Log.AppendLines(ctx, gameID, res.Lines); err != nil {
			return err
		}
	}
	if s.Archive != nil {
		if err := s.Archive.Append(ctx, gameID, res); err != nil {
			return err
		}
	}
	if s.Events != nil {
		if err := s.Events.Append(ctx, gameID, res); err != nil {
			return err
		}
	}
	return nil
}

// Finish announces the end of a replay on the event channel, if any.
func (s *Sinks) Finish(ctx context.Context, gameID uuid.UUID, count int) error {
	if s.Events == nil {
		return nil
	}
	return s.Events.PublishReplayFinished(ctx, gameID, count)
}

func (s *Sinks) Close() error {
	var errs []error
	if s.Archive != nil {
		errs = append(errs, s.Archive.Close())
	}
	if s.Log != nil {
		errs = append(errs, s.Log.Close())
	}
	return errors.Join(errs...)
}
