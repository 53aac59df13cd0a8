package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStorage keeps every key as a plain Redis string, optionally namespaced by Prefix.
type RedisStorage struct {
	Client *redis.Client
	Ctx    context.Context // Base context
	Prefix string
	log    *zap.Logger
}

// NewRedisStorage creates a new RedisStorage instance
func NewRedisStorage(client *redis.Client, prefix string, log *zap.Logger) *RedisStorage {
	return &RedisStorage{
		Client: client,
		Ctx:    context.Background(),
		Prefix: prefix,
		log:    log,
	}
}

func (s *RedisStorage) key(k string) string {
	return s.Prefix + k
}

// Get returns the value stored at key.
func (s *RedisStorage) Get(key string) (string, bool, error) {
	val, err := s.Client.Get(s.Ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		s.log.Error("redis get failed", zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("failed to get %s from Redis: %w", key, err)
	}
	return val, true, nil
}

// Set stores value at key without expiry.
func (s *RedisStorage) Set(key, value string) error {
	if err := s.Client.Set(s.Ctx, s.key(key), value, 0).Err(); err != nil {
		s.log.Error("redis set failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to set %s in Redis: %w", key, err)
	}
	return nil
}

// Del removes keys in a single pipeline.
func (s *RedisStorage) Del(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	pipe := s.Client.Pipeline()
	for _, k := range keys {
		pipe.Del(s.Ctx, s.key(k))
	}
	if _, err := pipe.Exec(s.Ctx); err != nil {
		s.log.Error("redis del failed", zap.Strings("keys", keys), zap.Error(err))
		return fmt.Errorf("failed to delete keys from Redis: %w", err)
	}
	return nil
}

func (s *RedisStorage) Close() error {
	return s.Client.Close()
}

// RedisOptions mirrors the redis section of the service configuration.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// InitializeRedisClient creates a Redis client and pings it.
func InitializeRedisClient(opts RedisOptions, log *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", opts.Addr, err)
	}

	log.Info("connected to Redis", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	return rdb, nil
}
