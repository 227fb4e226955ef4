package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryStore 进程内存储，未配置 Redis 时使用；过期项由 ttlcache 的后台协程清理
type MemoryStore struct {
	items *ttlcache.Cache[string, []byte]
}

// NewMemoryStore 启动后台清理协程，不再使用时调用 Close
func NewMemoryStore() *MemoryStore {
	items := ttlcache.New[string, []byte](
		// 读取不延长有效期，内容最多缓存一个 TTL
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)
	go items.Start()
	return &MemoryStore{items: items}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	it := m.items.Get(key)
	if it == nil {
		return nil, false, nil
	}
	return it.Value(), true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}
	m.items.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

// Len 当前条目数
func (m *MemoryStore) Len() int {
	return m.items.Len()
}

// Close 停止后台清理
func (m *MemoryStore) Close() {
	m.items.Stop()
}
