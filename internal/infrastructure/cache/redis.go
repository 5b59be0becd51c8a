package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nutrilens/v1/internal/domain/assessment"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// keyPrefix namespaces evidence entries in a shared Redis instance.
const keyPrefix = "nutrilens:evidence:"

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(cfg RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.Database,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info("connected to redis",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.Int("database", cfg.Database))
	return client, nil
}

// RedisEvidenceCache stores evidence records as JSON values with a
// per-key TTL. Redis handles expiry; a Get on an expired key is a miss.
type RedisEvidenceCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisEvidenceCache wraps an established Redis client.
func NewRedisEvidenceCache(client *redis.Client, logger *zap.Logger) *RedisEvidenceCache {
	return &RedisEvidenceCache{client: client, logger: logger.Named("evidence-cache")}
}

// Get implements outbound.EvidenceCache.
func (c *RedisEvidenceCache) Get(ctx context.Context, name string) (assessment.AdditiveEvidence, bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+name).Bytes()
	if err == redis.Nil {
		return assessment.AdditiveEvidence{}, false, nil
	}
	if err != nil {
		return assessment.AdditiveEvidence{}, false, fmt.Errorf("redis get %q: %w", name, err)
	}

	var ev assessment.AdditiveEvidence
	if err := json.Unmarshal(data, &ev); err != nil {
		// A corrupt entry is treated as a miss so it gets rewritten.
		c.logger.Warn("discarding corrupt cache entry", zap.String("additive", name), zap.Error(err))
		return assessment.AdditiveEvidence{}, false, nil
	}
	return ev, true, nil
}

// Put implements outbound.EvidenceCache.
func (c *RedisEvidenceCache) Put(ctx context.Context, name string, ev assessment.AdditiveEvidence, ttl time.Duration) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode evidence %q: %w", name, err)
	}
	if err := c.client.Set(ctx, keyPrefix+name, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", name, err)
	}
	return nil
}
