package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/resolution-engine/internal/config"
	"github.com/jwebster45206/resolution-engine/pkg/resolution"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleResolution(headline string) resolution.Resolution {
	return resolution.Resolution{
		Lines:      []string{headline, "  • 🪙 Gold +2 (10→12)"},
		Player:     &resolution.Player{ID: "A"},
		Action:     &resolution.Action{ID: "harvest", Name: "Harvest", Icon: "🌾"},
		Source:     resolution.Source{Kind: resolution.SourceAction},
		IsComplete: true,
	}
}

func newTestStore(t *testing.T, ttl time.Duration, max int64) (*RedisLogStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisLogStore(mr.Addr(), ttl, max, testLogger())
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisLogStore_AppendAndList(t *testing.T) {
	store, mr := newTestStore(t, time.Hour, 0)
	ctx := context.Background()
	gameID := uuid.New()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Append(ctx, gameID, sampleResolution("🌾 Harvest")))
	require.NoError(t, store.Append(ctx, gameID, sampleResolution("🚜 Plow")))

	got, err := store.List(ctx, gameID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "🌾 Harvest", got[0].Lines[0])
	assert.Equal(t, "🚜 Plow", got[1].Lines[0])
	assert.Equal(t, "Harvest", got[0].Action.Name)
	assert.Equal(t, resolution.SourceAction, got[0].Source.Kind)

	assert.Equal(t, time.Hour, mr.TTL(logKey(gameID)))

	other, err := store.List(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRedisLogStore_TrimsToMaxEntries(t *testing.T) {
	store, _ := newTestStore(t, 0, 2)
	ctx := context.Background()
	gameID := uuid.New()

	for _, h := range []string{"one", "two", "three"} {
		require.NoError(t, store.Append(ctx, gameID, sampleResolution(h)))
	}

	got, err := store.List(ctx, gameID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "two", got[0].Lines[0])
	assert.Equal(t, "three", got[1].Lines[0])
}

func TestRedisLogStore_LinesAndClear(t *testing.T) {
	store, mr := newTestStore(t, 0, 0)
	ctx := context.Background()
	gameID := uuid.New()

	require.NoError(t, store.AppendLines(ctx, gameID, []string{"🌾 Harvest", "  • 🪙 Gold +2 (10→12)"}))
	lines, err := store.ListLines(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"🌾 Harvest", "  • 🪙 Gold +2 (10→12)"}}, lines)
	assert.Equal(t, time.Duration(0), mr.TTL(linesKey(gameID)))

	require.NoError(t, store.Append(ctx, gameID, sampleResolution("x")))
	require.NoError(t, store.Clear(ctx, gameID))
	assert.False(t, mr.Exists(logKey(gameID)))
	assert.False(t, mr.Exists(linesKey(gameID)))
}

func TestRedisLogStore_PingFailure(t *testing.T) {
	store := NewRedisLogStore("127.0.0.1:1", 0, 0, testLogger())
	t.Cleanup(func() { _ = store.Close() })

	err := store.Ping(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = store.WaitForConnection(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	sinks, err := Open(ctx, &config.Config{}, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &MemoryLogStore{}, sinks.Log)
	assert.Nil(t, sinks.Archive)
	assert.Nil(t, sinks.Events)
	require.NoError(t, sinks.Finish(ctx, uuid.New(), 0))
	require.NoError(t, sinks.Close())

	mr := miniredis.RunT(t)
	cfg := &config.Config{RedisURL: mr.Addr(), PublishEvents: true, ArchiveDir: t.TempDir()}
	sinks, err = Open(ctx, cfg, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &RedisLogStore{}, sinks.Log)
	require.NotNil(t, sinks.Archive)
	require.NotNil(t, sinks.Events)

	gameID := uuid.New()
	require.NoError(t, sinks.Append(ctx, gameID, sampleResolution("🌾 Harvest")))
	require.NoError(t, sinks.Finish(ctx, gameID, 1))

	got, err := sinks.Log.List(ctx, gameID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	require.NoError(t, sinks.Close())
}
