// Package cache 实现推荐结果缓存：按 key 记忆混合打分的输出。
//
// 并发契约：
//   - 每个 key 至多一个并发计算（single-flight）；后到的调用方等待
//     在途计算的结果，而不是重复计算。所有等待者拿到同一份结果或
//     同一个错误。
//   - 计算失败不缓存，key 回到 absent，下一次请求重新计算。
//   - TTL 在访问时惰性检查，没有后台清扫协程。
//   - Invalidate/InvalidateAll 允许在途计算跑完，只是丢弃其结果
//     （通过代数检查），不会中途打断——等待者仍然拿到结果。
//   - 调用方放弃请求不会取消共享计算（context.WithoutCancel），
//     计算结果留给其他等待者。
//
// 锁粒度：key 空间分片，每个分片一把锁只保护 key→entry 映射本身，
// 计算在锁外进行。
package cache

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/shopstream/prodrec/core"
)

const shardCount = 16

// ComputeFunc 是缓存未命中时的回源计算。由调用方（engine）提供，
// 缓存不关心计算的内容，Hybrid 打分对缓存而言是纯函数。
type ComputeFunc func(ctx context.Context) ([]*core.Item, error)

// DefaultTTL 是缓存条目的默认存活时间。
const DefaultTTL = time.Hour

type entry struct {
	items     []*core.Item
	createdAt time.Time
}

type shard struct {
	mu      sync.Mutex
	entries map[string]*entry
	gens    map[string]uint64 // key 的失效代数，in-flight 结果按代数决定是否落库
	epoch   uint64            // InvalidateAll 的全局代数
	flight  singleflight.Group
}

// Cache 是分片的 single-flight TTL 缓存。
type Cache struct {
	shards [shardCount]*shard
	ttl    time.Duration
	logger *zap.Logger
}

// Option 配置 Cache。
type Option func(*Cache)

// WithTTL 设置条目存活时间；<= 0 表示永不过期。
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithLogger 注入日志器；默认 zap.NewNop()。
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// New 创建缓存。
func New(opts ...Option) *Cache {
	c := &Cache{
		ttl:    DefaultTTL,
		logger: zap.NewNop(),
	}
	for i := range c.shards {
		c.shards[i] = &shard{
			entries: make(map[string]*entry),
			gens:    make(map[string]uint64),
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) shard(key string) *shard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return c.shards[h.Sum32()%shardCount]
}

func (c *Cache) fresh(e *entry) bool {
	if e == nil {
		return false
	}
	return c.ttl <= 0 || time.Since(e.createdAt) < c.ttl
}

// GetOrCompute 返回 key 对应的推荐列表；缺失或过期时调用 fn 回源。
// 同一 key 的并发调用只触发一次 fn 执行。
func (c *Cache) GetOrCompute(ctx context.Context, key string, fn ComputeFunc) ([]*core.Item, error) {
	s := c.shard(key)

	s.mu.Lock()
	if e := s.entries[key]; c.fresh(e) {
		s.mu.Unlock()
		c.logger.Debug("cache hit", zap.String("key", key))
		return e.items, nil
	}
	s.mu.Unlock()

	v, err, shared := s.flight.Do(key, func() (any, error) {
		s.mu.Lock()
		// double-check：排队等锁期间可能已有同 key 的计算落库
		if e := s.entries[key]; c.fresh(e) {
			s.mu.Unlock()
			return e.items, nil
		}
		delete(s.entries, key) // 丢弃过期条目
		gen := s.gens[key]
		epoch := s.epoch
		s.mu.Unlock()

		// 等待者可能各自带着会被取消的 ctx；共享计算必须跑完，
		// 结果留给其他等待者
		items, err := fn(context.WithoutCancel(ctx))
		if err != nil {
			// 失败不缓存：key 保持 absent，错误透传给本次所有等待者
			return nil, err
		}

		s.mu.Lock()
		// 计算期间发生过失效则丢弃结果（等待者仍然拿到它）
		if s.gens[key] == gen && s.epoch == epoch {
			s.entries[key] = &entry{items: items, createdAt: time.Now()}
		}
		s.mu.Unlock()
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("cache computed", zap.String("key", key), zap.Bool("shared", shared))
	return v.([]*core.Item), nil
}

// Get 只读探测，不触发计算。过期条目视为不存在。
func (c *Cache) Get(key string) ([]*core.Item, bool) {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.entries[key]; c.fresh(e) {
		return e.items, true
	}
	return nil, false
}

// Invalidate 使单个 key 失效。在途计算照常完成，但结果不会落库。
func (c *Cache) Invalidate(key string) {
	s := c.shard(key)
	s.mu.Lock()
	delete(s.entries, key)
	s.gens[key]++
	s.mu.Unlock()

	// 让失效后的下一次请求立即开新的计算，而不是搭上旧的在途计算
	s.flight.Forget(key)
	c.logger.Debug("cache invalidated", zap.String("key", key))
}

// InvalidateAll 原子清空所有条目。各分片依次清理；对单个分片而言
// 清空是原子的，在途计算的结果会因 epoch 变化被丢弃。
func (c *Cache) InvalidateAll() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.entries = make(map[string]*entry)
		s.epoch++
		s.mu.Unlock()
	}
	c.logger.Info("cache cleared")
}

// Len 返回未过期条目数（用于观测/测试）。
func (c *Cache) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.Lock()
		for _, e := range s.entries {
			if c.fresh(e) {
				n++
			}
		}
		s.mu.Unlock()
	}
	return n
}
