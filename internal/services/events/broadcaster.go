package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/resolution-engine/pkg/resolution"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeResolutionComposed EventType = "resolution.composed"
	EventTypeReplayFinished     EventType = "replay.finished"
)

// Event is the envelope published on a game's channel.
type Event struct {
	Type       EventType              `json:"type"`
	GameID     string                 `json:"game_id"`
	Resolution *resolution.Resolution `json:"resolution,omitempty"`
	Count      int                    `json:"count,omitempty"`
}

// Broadcaster publishes resolution events to Redis Pub/Sub so live clients
// can render them as they are composed.
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Channel is the Pub/Sub channel for a game.
func Channel(gameID uuid.UUID) string {
	return fmt.Sprintf("game-events:%s", gameID.String())
}

// Append publishes a resolution.composed event. It lets the broadcaster sit
// alongside the log stores as a replay sink.
func (b *Broadcaster) Append(ctx context.Context, gameID uuid.UUID, res resolution.Resolution) error {
	return b.publishToGame(ctx, gameID, Event{
		Type:       EventTypeResolutionComposed,
		GameID:     gameID.String(),
		Resolution: &res,
	})
}

// PublishReplayFinished publishes a replay.finished event
func (b *Broadcaster) PublishReplayFinished(ctx context.Context, gameID uuid.UUID, count int) error {
	return b.publishToGame(ctx, gameID, Event{
		Type:   EventTypeReplayFinished,
		GameID: gameID.String(),
		Count:  count,
	})
}

// publishToGame publishes an event to the game-specific channel
func (b *Broadcaster) publishToGame(ctx context.Context, gameID uuid.UUID, event Event) error {
	channel := Channel(gameID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
	)

	return nil
}
