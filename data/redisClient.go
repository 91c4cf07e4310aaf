package data

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/invest_dashboard/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient подключается к redis для публикации снапшота.
// Если redis недоступен, клиент закрывается и возвращается ошибка.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:       fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		MaxRetries: 1,
	})

	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", rdb.Options().Addr, err)
	}
	slog.Info("Redis connected", slog.String("addr", rdb.Options().Addr), slog.String("pong", pong))

	return rdb, nil
}
