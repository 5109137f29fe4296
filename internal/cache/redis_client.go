package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Проверяем, что RedisClient реализует все интерфейсы
var (
	_ Cache       = (*RedisClient)(nil)
	_ RateLimiter = (*RedisClient)(nil)
)

const defaultOpTimeout = time.Second

// RedisClient - реализация кэша на основе Redis
type RedisClient struct {
	client     *redis.Client
	ttl        time.Duration
	opTimeout  time.Duration
	keyBuilder *KeyBuilder
}

// RedisConfig - конфигурация для Redis
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	CacheTTL     int           // в секундах
	OpTimeout    time.Duration // таймаут одной операции
	Namespace    string        // опциональный namespace для ключей
}

// NewRedisClient создает новый Redis клиент
func NewRedisClient(cfg RedisConfig) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Проверяем подключение
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, NewCacheError("connect", "", fmt.Errorf("failed to connect to Redis: %w", err))
	}

	opTimeout := cfg.OpTimeout
	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}

	return &RedisClient{
		client:     client,
		ttl:        time.Duration(cfg.CacheTTL) * time.Second,
		opTimeout:  opTimeout,
		keyBuilder: NewKeyBuilder(cfg.Namespace),
	}, nil
}

func (r *RedisClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.opTimeout)
}

// Set сохраняет значение в кэш с дефолтным TTL
func (r *RedisClient) Set(ctx context.Context, key string, value interface{}) error {
	return r.SetWithTTL(ctx, key, value, r.ttl)
}

// SetWithTTL сохраняет значение с кастомным TTL
func (r *RedisClient) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if key == "" {
		return NewCacheError("set", key, ErrInvalidCacheKey)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return NewCacheError("set", key, fmt.Errorf("failed to marshal value: %w", err))
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return NewCacheError("set", key, err)
	}

	return nil
}

// Get получает значение из кэша
func (r *RedisClient) Get(ctx context.Context, key string, dest interface{}) error {
	if key == "" {
		return NewCacheError("get", key, ErrInvalidCacheKey)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return NewCacheError("get", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return NewCacheError("get", key, fmt.Errorf("failed to unmarshal value: %w", err))
	}

	return nil
}

// Delete удаляет значения из кэша
func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	// Фильтруем пустые ключи
	validKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		if key != "" {
			validKeys = append(validKeys, key)
		}
	}

	if len(validKeys) == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.client.Del(ctx, validKeys...).Err(); err != nil {
		return NewCacheError("delete", validKeys[0], err)
	}

	return nil
}

// HealthCheck проверяет соединение с Redis
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return NewCacheError("ping", "", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func (r *RedisClient) Close() error {
	if err := r.client.Close(); err != nil {
		return NewCacheError("close", "", err)
	}
	return nil
}

// IncrementRateLimit увеличивает счетчик для rate limiting.
// The window starts with the first request of the client. EXPIRE NX runs in
// the same transaction, so a counter left without a TTL gets one back.
func (r *RedisClient) IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, NewCacheError("increment", key, err)
	}

	return incr.Val(), nil
}

// KeyBuilder возвращает построитель ключей
func (r *RedisClient) KeyBuilder() *KeyBuilder {
	return r.keyBuilder
}
