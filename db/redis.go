// api/db/redis.go
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	logger "github.com/openspectrum/sas-registry/logging"
	"github.com/openspectrum/sas-registry/model"
)

var RedisClient *redis.Client

func InitRedis() error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         viper.GetString("redis.addr"),
		Password:     viper.GetString("redis.password"),
		DB:           viper.GetInt("redis.db"),
		DialTimeout:  viper.GetDuration("redis.dialTimeout"),
		ReadTimeout:  viper.GetDuration("redis.readTimeout"),
		WriteTimeout: viper.GetDuration("redis.writeTimeout"),
		PoolSize:     viper.GetInt("redis.poolSize"),
		PoolTimeout:  viper.GetDuration("redis.poolTimeout"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		RedisClient = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

func CloseRedis() {
	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
}

func cbsdKey(fccID, serialNumber string) string {
	return fmt.Sprintf("cbsd:%s:%s", fccID, serialNumber)
}

// CacheCbsd stores a registered device record for read-through lookups.
// Cache writes are best effort; callers log and continue on failure.
func CacheCbsd(ctx context.Context, cbsd *model.Cbsd) error {
	if RedisClient == nil {
		return nil
	}

	cbsdJSON, err := json.Marshal(cbsd)
	if err != nil {
		return fmt.Errorf("failed to marshal cbsd: %w", err)
	}

	key := cbsdKey(cbsd.FccID, cbsd.CbsdSerialNumber)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	if err := RedisClient.Set(ctx, key, cbsdJSON, defaultTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache cbsd: %w", err)
	}

	logger.Debug("Cbsd cached successfully",
		zap.String("fccId", cbsd.FccID),
		zap.String("serialNumber", cbsd.CbsdSerialNumber))
	return nil
}

func GetCachedCbsd(ctx context.Context, fccID, serialNumber string) (*model.Cbsd, error) {
	if RedisClient == nil {
		return nil, nil
	}

	key := cbsdKey(fccID, serialNumber)
	cbsdJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Cbsd not found in cache", zap.String("key", key))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get cbsd from cache: %w", err)
	}

	var cbsd model.Cbsd
	if err := json.Unmarshal([]byte(cbsdJSON), &cbsd); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cbsd: %w", err)
	}

	logger.Debug("Cbsd retrieved from cache", zap.String("key", key))
	return &cbsd, nil
}

func DeleteCachedCbsd(ctx context.Context, fccID, serialNumber string) error {
	if RedisClient == nil {
		return nil
	}

	key := cbsdKey(fccID, serialNumber)
	if err := RedisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cbsd from cache: %w", err)
	}
	logger.Debug("Cbsd deleted from cache", zap.String("key", key))
	return nil
}

// RateLimit implements a sliding-window counter per key.
func RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
	if RedisClient == nil {
		return true, nil
	}

	pipe := RedisClient.Pipeline()
	now := time.Now().UnixNano()
	key = fmt.Sprintf("ratelimit:%s", key)

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now-(per.Nanoseconds())))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, per)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit commands: %w", err)
	}

	count := cmds[2].(*redis.IntCmd).Val()
	allowed := count <= int64(limit)
	logger.Debug("Rate limit check",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int("limit", limit),
		zap.Bool("allowed", allowed))
	return allowed, nil
}
