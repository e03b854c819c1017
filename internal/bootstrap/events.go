package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/project-records/config"
	"github.com/GoSim-25-26J-441/project-records/internal/projects/events"
)

// OpenPublisher returns a Redis publisher when REDIS_ADDR is set and a no-op
// otherwise. The returned close func is never nil.
func OpenPublisher(ctx context.Context, cfg *config.EventsConfig) (events.Publisher, func() error, error) {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, project events disabled")
		return events.Nop{}, func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	return events.NewRedisPublisher(client, cfg.Channel), client.Close, nil
}
