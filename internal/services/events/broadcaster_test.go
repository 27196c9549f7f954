package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/resolution-engine/pkg/resolution"
)

func TestBroadcaster_PublishesToGameChannel(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	gameID := uuid.New()
	sub := client.Subscribe(ctx, Channel(gameID))
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	msgs := sub.Channel()

	b := NewBroadcaster(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	res := resolution.Resolution{Lines: []string{"🌾 Harvest"}, Source: resolution.Source{Kind: resolution.SourceAction}}
	require.NoError(t, b.Append(ctx, gameID, res))
	require.NoError(t, b.PublishReplayFinished(ctx, gameID, 1))

	var got []Event
	for len(got) < 2 {
		select {
		case m := <-msgs:
			var e Event
			require.NoError(t, json.Unmarshal([]byte(m.Payload), &e))
			got = append(got, e)
		case <-ctx.Done():
			t.Fatal("timed out waiting for events")
		}
	}

	assert.Equal(t, EventTypeResolutionComposed, got[0].Type)
	assert.Equal(t, gameID.String(), got[0].GameID)
	require.NotNil(t, got[0].Resolution)
	assert.Equal(t, []string{"🌾 Harvest"}, got[0].Resolution.Lines)

	assert.Equal(t, EventTypeReplayFinished, got[1].Type)
	assert.Equal(t, 1, got[1].Count)
}
