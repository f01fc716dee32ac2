package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore 每个会话一个 hash，键为 pitchforge:{ns}
type RedisStore struct {
	rdb *redis.Client
}

// OpenRedis 连接redis并检查连通性
func OpenRedis(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	if addr == "" {
		addr = "127.0.0.1:6379"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return NewRedisStore(rdb), nil
}

// NewRedisStore 使用已有的客户端
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func hashKey(ns string) string {
	return "pitchforge:" + ns
}

func (r *RedisStore) Set(ctx context.Context, ns, key, value string) error {
	return r.rdb.HSet(ctx, hashKey(ns), key, value).Err()
}

func (r *RedisStore) Get(ctx context.Context, ns, key string) (string, error) {
	v, err := r.rdb.HGet(ctx, hashKey(ns), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (r *RedisStore) Delete(ctx context.Context, ns string) error {
	return r.rdb.Del(ctx, hashKey(ns)).Err()
}

// Replace 用 MULTI/EXEC 删除旧 hash 并写入新值
func (r *RedisStore) Replace(ctx context.Context, ns string, values map[string]string) error {
	key := hashKey(ns)
	pairs := make([]string, 0, 2*len(values))
	for k, v := range values {
		pairs = append(pairs, k, v)
	}
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(pairs) > 0 {
			pipe.HSet(ctx, key, pairs)
		}
		return nil
	})
	return err
}

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
