// Package replay drives the composer the way a game client does: resolutions
// are produced in (turn, sequence) order, appended to the game's log sinks,
// and handed to a presenter one at a time.
package replay

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/jwebster45206/resolution-engine/pkg/resolution"
)

// Entry is one recorded action or phase step awaiting composition.
type Entry struct {
	Turn     int
	Sequence int
	Input    resolution.Input
}

// Presenter shows a resolution. It must not return until the player has
// acknowledged it when RequireAcknowledgement is set.
type Presenter interface {
	Present(ctx context.Context, res resolution.Resolution) error
}

// Sink receives every composed resolution, e.g. a per-game log store.
type Sink interface {
	Append(ctx context.Context, gameID uuid.UUID, res resolution.Resolution) error
}

// Replayer composes a batch of entries and feeds them to sinks and a
// presenter.
type Replayer struct {
	Composer  *resolution.Composer
	Sinks     []Sink
	Presenter Presenter
	Logger    *slog.Logger
}

// Run composes entries in (turn, sequence) order. Each resolution is
// appended to every sink and then presented; the next entry is not composed
// until the presenter returns. Cancellation is checked between entries.
func (r *Replayer) Run(ctx context.Context, gameID uuid.UUID, entries []Entry) ([]resolution.Resolution, error) {
	ordered := Sorted(entries)
	out := make([]resolution.Resolution, 0, len(ordered))

	for i, e := range ordered {
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("replay cancelled after %d of %d entries: %w", i, len(ordered), err)
		}

		res := r.Composer.Compose(e.Input)
		out = append(out, res)

		for _, sink := range r.Sinks {
			if err := sink.Append(ctx, gameID, res); err != nil {
				return out, fmt.Errorf("failed to append resolution for turn %d: %w", e.Turn, err)
			}
		}

		if r.Logger != nil {
			r.Logger.Debug("Resolution composed",
				"game_id", gameID,
				"turn", e.Turn,
				"sequence", e.Sequence,
				"headline", res.Headline())
		}

		if r.Presenter == nil {
			continue
		}
		if err := r.Presenter.Present(ctx, res); err != nil {
			return out, fmt.Errorf("failed to present resolution for turn %d: %w", e.Turn, err)
		}
	}
	return out, nil
}

// Sorted returns a copy of entries ordered by turn then sequence. Ties keep
// their recorded order.
func Sorted(entries []Entry) []Entry {
	out := append([]Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Turn != out[j].Turn {
			return out[i].Turn < out[j].Turn
		}
		return out[i].Sequence < out[j].Sequence
	})
	return out
}
