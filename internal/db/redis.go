package db

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func InitRedis(ctx context.Context, addr string, logger zerolog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis is not responding: %w", err)
	}

	logger.Info().Str("addr", addr).Msg("Connected to Redis")
	return client, nil
}
