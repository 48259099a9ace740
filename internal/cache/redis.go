// Package cache provides an optional, best-effort Redis-backed cache of
// models.Result values, keyed by (origin, destination, optimization,
// algorithm). The routing engine is pure and read-only (spec §5), so a cached
// result is always safe to serve verbatim; a cache miss, a connection
// failure, or a disabled client all fall through to direct computation.
package cache

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/caminoseguro/walkroute_core/internal/models"
)

var (
	client     *redis.Client
	clientOnce sync.Once
	clientErr  error
)

// Config holds Redis configuration.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
	MutexTTL time.Duration
}

// LoadConfigFromEnv loads Redis configuration from environment variables.
func LoadConfigFromEnv() *Config {
	port, _ := strconv.Atoi(getEnv("REDIS_PORT", "6379"))
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	ttl, _ := time.ParseDuration(getEnv("CACHE_TTL", "10m"))
	mutexTTL, _ := time.ParseDuration(getEnv("CACHE_MUTEX_TTL", "5s"))

	return &Config{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     port,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
		TTL:      ttl,
		MutexTTL: mutexTTL,
	}
}

// GetClient returns the global Redis client (singleton pattern). A caller
// that wants to run with caching disabled simply never calls it; internal/api
// branches on Handler.CacheEnabled for this (route() never depends on the
// cache for correctness).
func GetClient() (*redis.Client, error) {
	clientOnce.Do(func() {
		config := LoadConfigFromEnv()

		opts := &redis.Options{
			Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
			Password:     config.Password,
			DB:           config.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MinIdleConns: 2,
		}

		if getEnv("REDIS_TLS_ENABLED", "false") == "true" {
			opts.TLSConfig = &tls.Config{
				MinVersion: tls.VersionTLS12,
			}
		}

		client = redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			clientErr = fmt.Errorf("failed to connect to Redis: %w", err)
			return
		}
	})

	return client, clientErr
}

// Close closes the Redis client.
func Close() {
	if client != nil {
		client.Close()
	}
}

// RouteKey generates a deterministic cache key for a route query.
func RouteKey(originLon, originLat, destLon, destLat float64, optimization, algorithm string) string {
	data := fmt.Sprintf("%.6f,%.6f,%.6f,%.6f,%s,%s", originLon, originLat, destLon, destLat, optimization, algorithm)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("route:%x", hash[:8])
}

// LockKey generates a mutex lock key for a route key.
func LockKey(routeKey string) string {
	return fmt.Sprintf("lock:%s", routeKey)
}

// GetResult retrieves a cached route result. A nil result with a nil error
// means a cache miss.
func GetResult(ctx context.Context, key string) (*models.Result, error) {
	c, err := GetClient()
	if err != nil {
		return nil, err
	}

	data, err := c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var result models.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}
	return &result, nil
}

// SetResult caches a route result.
func SetResult(ctx context.Context, key string, result models.Result, ttl time.Duration) error {
	c, err := GetClient()
	if err != nil {
		return err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	return c.Set(ctx, key, data, ttl).Err()
}

// AcquireLock attempts to acquire a distributed compute lock, avoiding a
// thundering herd of identical in-flight queries. Returns true if the lock
// was acquired.
func AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	c, err := GetClient()
	if err != nil {
		return false, err
	}

	ok, err := c.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// ReleaseLock releases a distributed lock.
func ReleaseLock(ctx context.Context, key string) error {
	c, err := GetClient()
	if err != nil {
		return err
	}
	return c.Del(ctx, key).Err()
}

// WaitForLock waits for an in-flight computation's lock to clear, then
// retrieves whatever result it cached. Implements the "wait for result"
// pattern to avoid a cache thundering herd.
func WaitForLock(ctx context.Context, routeKey string, maxWait time.Duration) (*models.Result, error) {
	c, err := GetClient()
	if err != nil {
		return nil, err
	}

	lockKey := LockKey(routeKey)
	deadline := time.Now().Add(maxWait)

	for time.Now().Before(deadline) {
		exists, err := c.Exists(ctx, lockKey).Result()
		if err != nil {
			return nil, err
		}

		if exists == 0 {
			return GetResult(ctx, routeKey)
		}

		time.Sleep(100 * time.Millisecond)
	}

	return nil, fmt.Errorf("timeout waiting for lock")
}

// HealthCheck performs a health check on the Redis connection.
func HealthCheck(ctx context.Context) error {
	c, err := GetClient()
	if err != nil {
		return fmt.Errorf("redis client not initialized: %w", err)
	}
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
