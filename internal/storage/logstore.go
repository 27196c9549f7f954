// Package storage holds the caller-owned sinks resolutions are appended to
// once composed. The pipeline in pkg/ never touches them.
package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwebster45206/resolution-engine/pkg/resolution"
)

// LogStore is a per-game append-only resolution log.
type LogStore interface {
	Ping(ctx context.Context) error
	Close() error

	Append(ctx context.Context, gameID uuid.UUID, res resolution.Resolution) error
	// AppendLines stores a text-only entry for consumers that accept just
	// the rendered lines.
	AppendLines(ctx context.Context, gameID uuid.UUID, lines []string) error
	List(ctx context.Context, gameID uuid.UUID) ([]resolution.Resolution, error)
	Clear(ctx context.Context, gameID uuid.UUID) error
}
