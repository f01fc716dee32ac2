package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound 键不存在
var ErrNotFound = errors.New("key not found")

// Store 按会话隔离的键值存储
type Store interface {
	Set(ctx context.Context, ns, key, value string) error
	Get(ctx context.Context, ns, key string) (string, error)
	// Delete 清空整个会话
	Delete(ctx context.Context, ns string) error
	Close() error
}

// Replacer 原子地清空会话并写入一组键值
type Replacer interface {
	Replace(ctx context.Context, ns string, values map[string]string) error
}

// Options 存储后端配置
type Options struct {
	Driver        string // memory | sqlite | redis
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open 按驱动名称打开存储
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return OpenSQLite(ctx, opts.SQLitePath)
	case "redis":
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	}
	return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
}

// MemoryStore 进程内存储
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

func (m *MemoryStore) Set(ctx context.Context, ns, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.data[ns]
	if !ok {
		bucket = make(map[string]string)
		m.data[ns] = bucket
	}
	bucket[key] = value
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, ns, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[ns][key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Delete(ctx context.Context, ns string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, ns)
	return nil
}

func (m *MemoryStore) Replace(ctx context.Context, ns string, values map[string]string) error {
	bucket := make(map[string]string, len(values))
	for k, v := range values {
		bucket[k] = v
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[ns] = bucket
	return nil
}

func (m *MemoryStore) Close() error { return nil }
