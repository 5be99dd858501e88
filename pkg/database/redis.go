package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yourusername/studyplan-api/internal/config"
	"github.com/yourusername/studyplan-api/internal/pkg/logger"
)

const redisPingTimeout = 5 * time.Second

// redisOptions переводит конфигурацию в опции универсального клиента.
// Режим определяется go-redis сам: MasterName: sentinel, несколько адресов, cluster.
func redisOptions(cfg config.RedisConfig) (*redis.UniversalOptions, string, error) {
	addrs := cfg.Addrs
	if len(addrs) == 0 && cfg.Addr != "" {
		addrs = []string{cfg.Addr}
	}
	if len(addrs) == 0 {
		return nil, "", fmt.Errorf("redis configuration error: addrs or addr must be provided")
	}

	mode := cfg.Mode
	if mode == "" {
		mode = "single"
	}

	opts := &redis.UniversalOptions{
		Addrs:    addrs,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.MaxRetries != 0 {
		opts.MaxRetries = cfg.MaxRetries
	}
	if cfg.MinRetryBackoff != 0 {
		opts.MinRetryBackoff = time.Duration(cfg.MinRetryBackoff) * time.Millisecond
	}
	if cfg.MaxRetryBackoff != 0 {
		opts.MaxRetryBackoff = time.Duration(cfg.MaxRetryBackoff) * time.Millisecond
	}

	switch mode {
	case "single":
		// Один адрес: иначе go-redis поднимет cluster-клиент
		opts.Addrs = addrs[:1]
	case "sentinel":
		if cfg.MasterName == "" {
			return nil, "", fmt.Errorf("redis sentinel mode requires master_name")
		}
		opts.MasterName = cfg.MasterName
	case "cluster":
		if len(addrs) < 2 {
			return nil, "", fmt.Errorf("redis cluster mode requires at least 2 addrs, got %d", len(addrs))
		}
	default:
		return nil, "", fmt.Errorf("unsupported redis mode: %s", mode)
	}
	return opts, mode, nil
}

// NewUniversalRedisClient создает клиент Redis (single, sentinel, cluster) и проверяет подключение
func NewUniversalRedisClient(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (redis.UniversalClient, error) {
	opts, mode, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewUniversalClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (mode: %s, addrs: %v): %w", mode, opts.Addrs, err)
	}

	log.Component("Redis").Info("connected to redis", "mode", mode, "addrs", opts.Addrs, "db", cfg.DB)
	return client, nil
}
