package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"playcheck/internal/models"
)

const channelPrefix = "playcheck:session:"

// TurnEvent is the payload published for every appended turn.
type TurnEvent struct {
	SessionID uuid.UUID   `json:"session_id"`
	Index     int         `json:"index"`
	Turn      models.Turn `json:"turn"`
}

// Channel returns the pub/sub channel for a session.
func Channel(sessionID uuid.UUID) string {
	return fmt.Sprintf("%s%s", channelPrefix, sessionID.String())
}

// RedisPublisher fans turns out over Redis pub/sub. Nothing is stored.
type RedisPublisher struct {
	redis  *redis.Client
	logger *slog.Logger
}

func NewRedisPublisher(client *redis.Client, logger *slog.Logger) *RedisPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisPublisher{redis: client, logger: logger}
}

// TurnAppended publishes the turn. Failures are logged and otherwise ignored.
func (p *RedisPublisher) TurnAppended(ctx context.Context, sessionID uuid.UUID, index int, turn models.Turn) {
	data, err := json.Marshal(TurnEvent{SessionID: sessionID, Index: index, Turn: turn})
	if err != nil {
		p.logger.Warn("failed to encode turn event", "session_id", sessionID, "error", err)
		return
	}
	if err := p.redis.Publish(ctx, Channel(sessionID), string(data)).Err(); err != nil {
		p.logger.Warn("failed to publish turn event", "session_id", sessionID, "error", err)
	}
}
