package recall

import (
	"context"

	"github.com/shopstream/prodrec/core"
	"github.com/shopstream/prodrec/index"
	"github.com/shopstream/prodrec/pipeline"
)

// Similar 是基于内容相似度的召回源：以 rctx.SeedProductID 为查询，
// 从相似度索引取候选池。种子商品永远被排除——商品不会推荐它自己。
//
// PoolSize 应配置得比最终返回条数大（典型 3×N），给后面的混合
// 重排留出空间。
type Similar struct {
	Index *index.Index

	// PoolSize 候选池大小；<= 0 时取 3 * rctx.N
	PoolSize int

	// PoolMultiplier PoolSize 未显式配置时的放大系数，默认 3
	PoolMultiplier int
}

func (r *Similar) Name() string        { return "recall.similar" }
func (r *Similar) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Similar) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
// 与多源 Fanout 不同，相似召回是主路径：索引错误（空目录/未知商品）
// 直接向上传播，不吞掉。
func (r *Similar) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Index == nil || rctx == nil {
		return nil, nil
	}

	pool := r.PoolSize
	if pool <= 0 {
		mult := r.PoolMultiplier
		if mult <= 0 {
			mult = 3
		}
		pool = mult * rctx.N
	}

	seed := rctx.SeedProductID
	exclude := map[int64]struct{}{seed: {}}
	return r.Index.TopSimilar(seed, pool, exclude)
}
