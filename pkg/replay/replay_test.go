package replay

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/resolution-engine/pkg/content"
	"github.com/jwebster45206/resolution-engine/pkg/resolution"
	"github.com/jwebster45206/resolution-engine/pkg/snapshot"
	"github.com/jwebster45206/resolution-engine/pkg/timeline"
)

type recordingSink struct {
	got []string
	err error
}

func (s *recordingSink) Append(_ context.Context, _ uuid.UUID, res resolution.Resolution) error {
	if s.err != nil {
		return s.err
	}
	s.got = append(s.got, res.Headline())
	return nil
}

type recordingPresenter struct {
	got    []string
	cancel context.CancelFunc
}

func (p *recordingPresenter) Present(_ context.Context, res resolution.Resolution) error {
	p.got = append(p.got, res.Headline())
	if p.cancel != nil {
		p.cancel()
	}
	return nil
}

func composer(t *testing.T) *resolution.Composer {
	t.Helper()
	reg, err := content.New(content.Catalog{
		Resources: []content.Meta{{Key: "gold", Label: "Gold", Icon: "🪙"}},
	})
	require.NoError(t, err)
	return resolution.NewComposer(reg, resolution.Options{}, nil)
}

func entry(turn, seq int, headline string) Entry {
	s := snapshot.Capture(snapshot.PlayerState{ID: "A"})
	return Entry{Turn: turn, Sequence: seq, Input: resolution.Input{
		Lines:  timeline.FromText(headline),
		Before: s,
		After:  s,
	}}
}

func TestSorted(t *testing.T) {
	entries := []Entry{entry(2, 1, "c"), entry(1, 2, "b"), entry(1, 1, "a"), entry(2, 1, "d")}
	var got []string
	for _, e := range Sorted(entries) {
		got = append(got, e.Input.Lines[0].Text)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)
	assert.Equal(t, "c", entries[0].Input.Lines[0].Text, "input must not be reordered")
}

func TestReplayer_Run(t *testing.T) {
	sink := &recordingSink{}
	presenter := &recordingPresenter{}
	r := &Replayer{Composer: composer(t), Sinks: []Sink{sink}, Presenter: presenter}

	out, err := r.Run(context.Background(), uuid.New(), []Entry{entry(2, 1, "second"), entry(1, 1, "first")})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, []string{"first", "second"}, sink.got)
	assert.Equal(t, []string{"first", "second"}, presenter.got)
}

func TestReplayer_SinkError(t *testing.T) {
	sink := &recordingSink{err: errors.New("down")}
	presenter := &recordingPresenter{}
	r := &Replayer{Composer: composer(t), Sinks: []Sink{sink}, Presenter: presenter}

	out, err := r.Run(context.Background(), uuid.New(), []Entry{entry(1, 1, "first")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "down")
	assert.Len(t, out, 1)
	assert.Empty(t, presenter.got, "nothing is presented after a failed append")
}

func TestReplayer_CancelBetweenEntries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	presenter := &recordingPresenter{cancel: cancel}
	r := &Replayer{Composer: composer(t), Presenter: presenter}

	out, err := r.Run(ctx, uuid.New(), []Entry{entry(1, 1, "first"), entry(1, 2, "second")})
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, out, 1)
	assert.Equal(t, []string{"first"}, presenter.got)
}

func TestTextPresenter(t *testing.T) {
	var out bytes.Buffer
	p := &TextPresenter{Out: &out, In: bufio.NewReader(strings.NewReader("\n"))}
	res := resolution.Resolution{
		Lines:                  []string{"🚜 Plow", "  • 🪙 Gold +2 (10→12)"},
		ActorLabel:             "Player A",
		RequireAcknowledgement: true,
	}

	require.NoError(t, p.Present(context.Background(), res))
	assert.Equal(t, "[Player A]\n🚜 Plow\n  • 🪙 Gold +2 (10→12)\n\nPress Enter to continue...", out.String())
}

const sessionYAML = `
game_id: 6f1c3c52-7d1e-4d7c-9a57-1f2b8f0d6c11
player:
  id: A
  name: Player A
entries:
  - turn: 1
    sequence: 2
    action: harvest
    lines:
      - "🌾 Harvest"
      - "Gather the fields"
    before:
      id: A
      resources: {gold: 10}
    after:
      id: A
      resources: {gold: 12}
    require_acknowledgement: true
  - turn: 1
    sequence: 1
    source: phase
    lines:
      - {text: "🌱 Growth", depth: 0, kind: headline}
      - {text: "Crops grow", depth: 2, kind: group}
    before: {id: A}
    after: {id: A}
`

func TestParseSession(t *testing.T) {
	s, err := ParseSession([]byte(sessionYAML))
	require.NoError(t, err)

	id, err := s.ID()
	require.NoError(t, err)
	assert.Equal(t, "6f1c3c52-7d1e-4d7c-9a57-1f2b8f0d6c11", id.String())

	entries := s.ReplayEntries()
	require.Len(t, entries, 2)

	harvest := entries[0].Input
	assert.Equal(t, "harvest", harvest.ActionID)
	assert.Equal(t, resolution.SourceAction, harvest.Source.Kind)
	assert.Equal(t, "Player A", harvest.Player.Name)
	assert.Equal(t, "Gather the fields", harvest.Lines[1].Text)
	assert.Equal(t, 12.0, harvest.After.Resources["gold"])
	assert.True(t, harvest.RequireAcknowledgement)

	growth := entries[1].Input
	assert.Equal(t, resolution.SourcePhase, growth.Source.Kind)
	assert.Equal(t, 2, growth.Lines[1].Depth)
	assert.Equal(t, timeline.KindGroup, growth.Lines[1].Kind)

	out, err := (&Replayer{Composer: composer(t)}).Run(context.Background(), id, entries)
	require.NoError(t, err)
	assert.Equal(t, "🌱 Growth", out[0].Headline())
	assert.Equal(t, []string{"🌾 Harvest", "  • Gather the fields", "  • 🪙 Gold +2 (10→12)"}, out[1].Lines)
}

func TestSessionID(t *testing.T) {
	s := &Session{}
	id, err := s.ID()
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	s.GameID = "not-a-uuid"
	_, err = s.ID()
	assert.Error(t, err)
}
