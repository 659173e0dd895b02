// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the redis-backed store, used when several kiosks
// share one cart.
type RedisConfig struct {
	URL          string
	Prefix       string // default "easyq:"
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DialTimeout  time.Duration
}

// Redis stores each key as a plain redis string under a prefix.
type Redis struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects and pings the server.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("storage: invalid redis url: %w", err)
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("storage: redis ping: %w", err)
	}
	return NewRedis(client, cfg.Prefix), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "easyq:"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", r.wrap("get", err)
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.wrap("set", r.client.Set(ctx, r.prefix+key, value, 0).Err())
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.wrap("delete", r.client.Del(ctx, r.prefix+key).Err())
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.ErrClosed) {
		return ErrClosed
	}
	return fmt.Errorf("storage: redis %s: %w", op, err)
}
