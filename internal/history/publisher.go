// internal/history/publisher.go
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"floatbridge/internal/game"
)

// DefaultQueueName is the redis list the historian drains.
var DefaultQueueName = "bridge_rounds"

// RoundArchiveRecord is the wire form of one completed round pushed onto the
// queue. It is write-only history: the engine never reads it back.
type RoundArchiveRecord struct {
	RoomCode       string `json:"room_code"`
	Declarer       int    `json:"declarer"`
	Partner        *int   `json:"partner,omitempty"`
	Bid            string `json:"bid"`
	DeclarerTricks int    `json:"declarer_tricks"`
	DefenderTricks int    `json:"defender_tricks"`
	ContractMade   bool   `json:"contract_made"`
	Timestamp      int64  `json:"timestamp"`
}

// Publisher pushes round records onto a redis queue, fire-and-forget. A nil
// Publisher (redis unavailable or unconfigured) drops records silently.
type Publisher struct {
	rdb    *redis.Client
	queue  string
	logger *logrus.Logger
}

// NewPublisher connects to redis using REDIS_ADDR / REDIS_DB. Returns an
// error when the server is unreachable; the caller decides whether archiving
// is mandatory.
func NewPublisher(logger *logrus.Logger) (*Publisher, error) {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &Publisher{
		rdb:    rdb,
		queue:  getEnv("HISTORIAN_QUEUE_NAME", DefaultQueueName),
		logger: logger,
	}, nil
}

// PublishRound serializes a completed round and pushes it onto the queue.
// Safe to call from inside a room's critical section: the push happens on a
// short-lived goroutine.
func (p *Publisher) PublishRound(code string, rec game.RoundRecord) {
	if p == nil {
		return
	}
	record := RoundArchiveRecord{
		RoomCode:       code,
		Declarer:       rec.Declarer,
		Partner:        rec.Partner,
		Bid:            rec.Bid.String(),
		DeclarerTricks: rec.DeclarerTricks,
		DefenderTricks: rec.DefenderTricks,
		ContractMade:   rec.ContractMade,
		Timestamp:      time.Now().UnixMilli(),
	}
	go func() {
		data, err := json.Marshal(record)
		if err != nil {
			p.logger.Warnf("failed to marshal round record for room %s: %v", code, err)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := p.rdb.RPush(ctx, p.queue, data).Err(); err != nil {
			p.logger.Warnf("failed to push round record for room %s: %v", code, err)
		}
	}()
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt parses an environment variable as an integer, else a default.
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
