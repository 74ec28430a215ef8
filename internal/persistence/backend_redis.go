/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyImagePrefix namespaces image keys in Redis.
const KeyImagePrefix = "grimnir:timer:image:" // + image name

// RedisConfig contains Redis connection settings for the image backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Name     string
}

// RedisBackend keeps the image under a single Redis key.
type RedisBackend struct {
	client *redis.Client
	key    string
}

// NewRedisBackend connects and verifies the server is reachable.
func NewRedisBackend(ctx context.Context, cfg RedisConfig) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}

	return &RedisBackend{client: client, key: KeyImagePrefix + cfg.Name}, nil
}

func (b *RedisBackend) Name() string { return "redis" }

func (b *RedisBackend) Read(ctx context.Context) ([]byte, error) {
	data, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return data, err
}

func (b *RedisBackend) Write(ctx context.Context, data []byte) error {
	return b.client.Set(ctx, b.key, data, 0).Err()
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}
