package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/KotFed0t/invest_dashboard/internal/model"
	"github.com/KotFed0t/invest_dashboard/utils"
	"github.com/redis/go-redis/v9"
)

const snapshotKey = "portfolio:snapshot"

var ErrNotFound = errors.New("error not found")

type RedisCache struct {
	redis      redis.Cmdable
	expiration time.Duration
}

func NewRedisCache(redisClient redis.Cmdable, expiration time.Duration) *RedisCache {
	return &RedisCache{redis: redisClient, expiration: expiration}
}

func (r *RedisCache) SetSnapshot(ctx context.Context, snapshot model.Snapshot) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("start SetSnapshot", slog.String("rqID", rqID))

	snapshotJson, err := json.Marshal(snapshot)
	if err != nil {
		slog.Error("can't marshall snapshot in SetSnapshot", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return errors.New("can't marshall snapshot")
	}

	err = r.redis.Set(ctx, snapshotKey, snapshotJson, r.expiration).Err()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("key", snapshotKey))
		return err
	}

	slog.Debug("SetSnapshot completed", slog.String("rqID", rqID))

	return nil
}

func (r *RedisCache) GetSnapshot(ctx context.Context) (model.Snapshot, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("GetSnapshot start", slog.String("rqID", rqID))

	res, err := r.redis.Get(ctx, snapshotKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Snapshot{}, ErrNotFound
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("key", snapshotKey))
		return model.Snapshot{}, err
	}

	snapshot := model.Snapshot{}
	err = json.Unmarshal([]byte(res), &snapshot)
	if err != nil {
		slog.Error("can't unmarshall snapshot in GetSnapshot", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return model.Snapshot{}, errors.New("can't unmarshall snapshot")
	}

	slog.Debug("GetSnapshot finished", slog.String("rqID", rqID))

	return snapshot, nil
}
