// internal/events/redis.go
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultQueueName is the Redis list that receives game notification records.
var DefaultQueueName = "nuo_events"

// EventRecord is what an external historian/telemetry consumer pops off the
// Redis queue.
type EventRecord struct {
	GameID    uuid.UUID `json:"game_id"`
	Message   string    `json:"message"`
	Timestamp int64     `json:"timestamp"`
}

// RedisSink pushes notification records onto a Redis list. It is advisory:
// push failures are logged and dropped, never surfaced to game logic.
type RedisSink struct {
	rdb   *redis.Client
	queue string
	log   *logrus.Logger
}

// NewRedisSink connects a Redis client from environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
//   - EVENTS_QUEUE_NAME (optional, default DefaultQueueName)
func NewRedisSink(logger *logrus.Logger) (*RedisSink, error) {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	return &RedisSink{
		rdb:   rdb,
		queue: getEnv("EVENTS_QUEUE_NAME", DefaultQueueName),
		log:   logger,
	}, nil
}

// Event implements Sink. The push happens on the calling goroutine but with a
// short deadline; a dead Redis slows nothing beyond that.
func (s *RedisSink) Event(gameID uuid.UUID, message string) {
	record := EventRecord{
		GameID:    gameID,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		s.log.WithError(err).Warn("failed to marshal event record")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.rdb.RPush(ctx, s.queue, data).Err(); err != nil {
		s.log.WithError(err).Warnf("failed to RPush to Redis list %q", s.queue)
	}
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
