// Package cache holds the JSON view cache and the invalidation signal that
// mutations emit after a successful write.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "citycut:view:"

// Invalidator receives "invalidate path X" notifications. It is one-way: errors
// are logged by the implementation and never returned.
type Invalidator interface {
	Invalidate(ctx context.Context, paths ...string)
}

// Views caches rendered view data by path and scope (a user id, a filter key).
type Views interface {
	Invalidator
	Get(ctx context.Context, path, scope string, dest any) bool
	Set(ctx context.Context, path, scope string, v any)
}

// Key is the redis key of a cached view.
func Key(path, scope string) string {
	return keyPrefix + path + "|" + scope
}

// RedisViews stores views as JSON strings with a TTL.
type RedisViews struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisViews(rdb *redis.Client, ttl time.Duration) *RedisViews {
	return &RedisViews{rdb: rdb, ttl: ttl}
}

func (v *RedisViews) Get(ctx context.Context, path, scope string, dest any) bool {
	b, err := v.rdb.Get(ctx, Key(path, scope)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("path", path).Msg("view cache: get failed")
		}
		return false
	}
	return json.Unmarshal(b, dest) == nil
}

func (v *RedisViews) Set(ctx context.Context, path, scope string, val any) {
	b, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := v.rdb.Set(ctx, Key(path, scope), b, v.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("view cache: set failed")
	}
}

// Invalidate drops every cached scope of each path.
func (v *RedisViews) Invalidate(ctx context.Context, paths ...string) {
	for _, p := range paths {
		iter := v.rdb.Scan(ctx, 0, keyPrefix+p+"|*", 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			log.Warn().Err(err).Str("path", p).Msg("view cache: scan failed")
			continue
		}
		if len(keys) == 0 {
			continue
		}
		if err := v.rdb.Del(ctx, keys...).Err(); err != nil {
			log.Warn().Err(err).Str("path", p).Msg("view cache: invalidate failed")
			continue
		}
		log.Debug().Str("path", p).Int("keys", len(keys)).Msg("view cache: invalidated")
	}
}

// Nop caches nothing. Used in tests and when redis is not configured.
type Nop struct{}

func (Nop) Get(context.Context, string, string, any) bool { return false }
func (Nop) Set(context.Context, string, string, any)      {}
func (Nop) Invalidate(context.Context, ...string)         {}

// Fetch returns the cached view or builds it with load and caches the result.
func Fetch[T any](ctx context.Context, v Views, path, scope string, load func() (T, error)) (T, error) {
	var cached T
	if v.Get(ctx, path, scope, &cached) {
		return cached, nil
	}
	fresh, err := load()
	if err != nil {
		return fresh, err
	}
	v.Set(ctx, path, scope, fresh)
	return fresh, nil
}
