// Package cache 提供按 key 读取或回填的缓存门面，供详情页抓取复用。
package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL 详情页内容缓存时长
const DefaultTTL = time.Hour

// Store 底层 KV 存储。Get 未命中时返回 ok=false 且 err=nil。
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Gate 在 Store 之上实现 get-or-populate：
// 同一 key 的并发回填只会执行一次，回填失败不写缓存。
type Gate struct {
	store  Store
	ttl    time.Duration
	prefix string
	group  singleflight.Group
	log    *zap.Logger
}

type Option func(*Gate)

// WithTTL 覆盖默认缓存时长
func WithTTL(ttl time.Duration) Option {
	return func(g *Gate) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

// WithPrefix 给所有 key 加前缀，便于与其它数据共用一个 Redis
func WithPrefix(prefix string) Option {
	return func(g *Gate) { g.prefix = prefix }
}

func WithLogger(log *zap.Logger) Option {
	return func(g *Gate) {
		if log != nil {
			g.log = log
		}
	}
}

func NewGate(store Store, opts ...Option) *Gate {
	g := &Gate{
		store:  store,
		ttl:    DefaultTTL,
		prefix: "campusfeed:content:",
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TryGet 命中缓存直接返回；否则调用 populate 并在成功后写回。
// 回填在脱离调用方取消信号的 ctx 上执行，某个调用方断开不会让同 key 的其它调用方一起失败；
// 调用方自身的 ctx 结束时立即返回 ctx.Err()。
// 存储层读写失败只记日志，不影响回填结果。
func (g *Gate) TryGet(ctx context.Context, key string, populate func(context.Context) ([]byte, error)) ([]byte, error) {
	k := g.prefix + key
	if v, ok := g.lookup(ctx, k); ok {
		return v, nil
	}

	// 超时由 populate 自己控制（PageFetcher 有请求超时）
	detached := context.WithoutCancel(ctx)
	ch := g.group.DoChan(k, func() (any, error) {
		// 排队期间可能已被其它调用写入
		if v, ok := g.lookup(detached, k); ok {
			return v, nil
		}
		v, err := populate(detached)
		if err != nil {
			return nil, err
		}
		if err := g.store.Set(detached, k, v, g.ttl); err != nil {
			g.log.Warn("cache set failed", zap.String("key", k), zap.Error(err))
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (g *Gate) lookup(ctx context.Context, k string) ([]byte, bool) {
	v, ok, err := g.store.Get(ctx, k)
	if err != nil {
		g.log.Warn("cache get failed", zap.String("key", k), zap.Error(err))
		return nil, false
	}
	return v, ok
}
