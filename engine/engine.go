// Package engine 是推荐引擎的组装层：把相似度索引、交互聚合、
// 混合打分 Pipeline 和结果缓存接成对外的推荐接口。
//
// 引擎自身不做阻塞 I/O；目录与交互数据在进入引擎前已物化到内存或
// Store。对外暴露的运维边界：单 key 失效、全量失效、目录重建。
package engine

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/shopstream/prodrec/cache"
	"github.com/shopstream/prodrec/core"
	"github.com/shopstream/prodrec/filter"
	"github.com/shopstream/prodrec/history"
	"github.com/shopstream/prodrec/index"
	"github.com/shopstream/prodrec/pipeline"
	"github.com/shopstream/prodrec/rank"
	"github.com/shopstream/prodrec/recall"
	"github.com/shopstream/prodrec/rerank"
)

// Config 是引擎配置。零值字段取默认。
type Config struct {
	// Alpha 内容相似度与共现信号的混合权重，[0, 1]，默认 0.7
	Alpha float64

	// PoolMultiplier 候选池相对最终条数的放大系数，默认 3
	PoolMultiplier int

	// CacheTTL 推荐结果缓存的存活时间，默认 1h
	CacheTTL time.Duration

	// DefaultN / MaxN 默认与最大返回条数，默认 3 / 10
	DefaultN int
	MaxN     int

	// FilterInteracted 是否过滤用户已交互过的商品（默认只排除种子）
	FilterInteracted bool

	// FilterRules 运营侧剔除规则（CEL 表达式）
	FilterRules []string
}

func (c Config) withDefaults() Config {
	if c.Alpha <= 0 {
		c.Alpha = rank.DefaultAlpha
	}
	if c.PoolMultiplier <= 0 {
		c.PoolMultiplier = 3
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = cache.DefaultTTL
	}
	if c.DefaultN <= 0 {
		c.DefaultN = 3
	}
	if c.MaxN <= 0 {
		c.MaxN = 10
	}
	return c
}

// Engine 对外提供推荐服务。
type Engine struct {
	cfg     Config
	index   *index.Index
	history *history.Aggregator
	cache   *cache.Cache
	logger  *zap.Logger
}

// Option 配置 Engine。
type Option func(*Engine)

// WithLogger 注入日志器；默认 zap.NewNop()。
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New 创建引擎。idx 可以是空索引，查询前通过 Rebuild 灌入目录。
func New(cfg Config, idx *index.Index, hist *history.Aggregator, opts ...Option) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:     cfg,
		index:   idx,
		history: hist,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cache = cache.New(cache.WithTTL(cfg.CacheTTL), cache.WithLogger(e.logger))
	return e
}

// Rebuild 从目录快照整体重建相似度索引（原子换入），并清空缓存：
// 旧快照算出的推荐对新目录不再有效。
func (e *Engine) Rebuild(products []core.Product) {
	e.index.Rebuild(products)
	e.cache.InvalidateAll()
}

func userKey(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10)
}

func productKey(productID int64) string {
	return "product:" + strconv.FormatInt(productID, 10)
}

// clampN 约束返回条数到 [1, MaxN]，0 取默认。
func (e *Engine) clampN(n int) int {
	if n <= 0 {
		n = e.cfg.DefaultN
	}
	if n > e.cfg.MaxN {
		n = e.cfg.MaxN
	}
	return n
}

// Recommend 为用户生成至多 n 条推荐，结果按 user key 缓存。
//
// 缓存的是完整的 MaxN 条列表，按请求截取前 n 条：同一用户不同 n 的
// 请求共享一条缓存，也共享同一次计算。
//
//   - 用户无交互历史：ErrNoInteractionHistory（终态，不缓存）
//   - 种子商品不在索引：ErrUnknownProduct
//   - 目录为空：ErrNoCatalogData
//   - 候选不足 n 条：返回全部；候选池为空：返回空列表，不是错误
func (e *Engine) Recommend(ctx context.Context, userID int64, n int) ([]*core.Item, error) {
	n = e.clampN(n)
	key := userKey(userID)

	full, err := e.cache.GetOrCompute(ctx, key, func(ctx context.Context) ([]*core.Item, error) {
		seed, err := e.history.SeedProduct(ctx, userID)
		if err != nil {
			return nil, err
		}
		return e.run(ctx, &core.RecommendContext{
			UserID:        userID,
			SeedProductID: seed,
			N:             e.cfg.MaxN,
		}, e.cfg.Alpha)
	})
	if err != nil {
		return nil, err
	}
	return truncate(full, n), nil
}

// SimilarProducts 是商品级接口："看了这个商品的人还可能喜欢什么"。
// 纯内容相似度（alpha = 1），不依赖用户历史，结果按 product key 缓存。
func (e *Engine) SimilarProducts(ctx context.Context, productID int64, n int) ([]*core.Item, error) {
	n = e.clampN(n)
	key := productKey(productID)

	full, err := e.cache.GetOrCompute(ctx, key, func(ctx context.Context) ([]*core.Item, error) {
		return e.run(ctx, &core.RecommendContext{
			SeedProductID: productID,
			N:             e.cfg.MaxN,
		}, 1.0)
	})
	if err != nil {
		return nil, err
	}
	return truncate(full, n), nil
}

func truncate(items []*core.Item, n int) []*core.Item {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// run 组装并执行一次混合打分 Pipeline。
// Node 都是轻量结构体，按请求构建的开销可以忽略。
func (e *Engine) run(ctx context.Context, rctx *core.RecommendContext, alpha float64) ([]*core.Item, error) {
	nodes := []pipeline.Node{
		&recall.Similar{
			Index:          e.index,
			PoolMultiplier: e.cfg.PoolMultiplier,
		},
	}

	filters := e.filters(rctx)
	if len(filters) > 0 {
		nodes = append(nodes, &filter.Node{Filters: filters})
	}

	// alpha = 1 时共现信号权重为零，跳过共现查询
	hist := e.history
	if alpha >= 1 {
		hist = nil
	}
	nodes = append(nodes,
		rank.NewHybrid(hist, alpha),
		&rerank.TopN{N: rctx.N},
	)

	p := &pipeline.Pipeline{Nodes: nodes}
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		e.logger.Warn("recommendation pipeline failed",
			zap.Int64("user_id", rctx.UserID),
			zap.Int64("seed_product_id", rctx.SeedProductID),
			zap.Error(err),
		)
		return nil, err
	}

	e.logger.Debug("recommendation computed",
		zap.Int64("user_id", rctx.UserID),
		zap.Int64("seed_product_id", rctx.SeedProductID),
		zap.Int("results", len(items)),
	)
	return items, nil
}

func (e *Engine) filters(rctx *core.RecommendContext) []filter.Filter {
	var out []filter.Filter
	if len(e.cfg.FilterRules) > 0 {
		out = append(out, &filter.Rule{Expressions: e.cfg.FilterRules})
	}
	if e.cfg.FilterInteracted && rctx.UserID != 0 {
		out = append(out, &filter.Interacted{Store: e.history.Store()})
	}
	return out
}

// InvalidateUser 使某个用户的缓存失效（例如新交互实质改变了画像）。
func (e *Engine) InvalidateUser(userID int64) {
	e.cache.Invalidate(userKey(userID))
}

// InvalidateProduct 使某个商品级缓存失效。
func (e *Engine) InvalidateProduct(productID int64) {
	e.cache.Invalidate(productKey(productID))
}

// InvalidateAll 清空全部缓存。
func (e *Engine) InvalidateAll() {
	e.cache.InvalidateAll()
}
