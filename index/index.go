// Package index 持有商品向量空间，回答 "与商品 P 最相似的 TopK 商品" 查询。
//
// 并发模型：典型的多读单写。重建时先在旁路构建完整快照，再通过
// atomic.Pointer 整体换入；读者要么看到旧的完整索引，要么看到新的
// 完整索引，绝不会看到半成品。索引独占词向量的所有权。
package index

import (
	"sort"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/shopstream/prodrec/core"
	"github.com/shopstream/prodrec/pkg/utils"
	"github.com/shopstream/prodrec/vectorizer"
)

// snapshot 是一次目录快照对应的完整向量空间。构建完成后只读。
type snapshot struct {
	vectors map[int64]vectorizer.Vector
	ids     []int64 // 升序，保证遍历与平分时的确定性
	vocab   int     // 词表大小
}

// Index 是相似度索引。零值不可用，请使用 New。
type Index struct {
	snap   atomic.Pointer[snapshot]
	logger *zap.Logger
}

// Option 配置 Index。
type Option func(*Index)

// WithLogger 注入日志器；默认 zap.NewNop()。
func WithLogger(l *zap.Logger) Option {
	return func(ix *Index) {
		if l != nil {
			ix.logger = l
		}
	}
}

// New 创建一个空索引。查询前需要先 Rebuild 灌入目录。
func New(opts ...Option) *Index {
	ix := &Index{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Rebuild 从目录快照整体重建索引并原子换入。
// 正在进行的读不受影响；换入后的读看到新快照。
func (ix *Index) Rebuild(products []core.Product) {
	res := vectorizer.Vectorize(products)

	snap := &snapshot{
		vectors: res.Vectors,
		ids:     make([]int64, 0, len(res.Vectors)),
		vocab:   len(res.Vocabulary),
	}
	for id := range res.Vectors {
		snap.ids = append(snap.ids, id)
	}
	sort.Slice(snap.ids, func(i, j int) bool { return snap.ids[i] < snap.ids[j] })

	ix.snap.Store(snap)
	ix.logger.Info("similarity index rebuilt",
		zap.Int("products", len(snap.ids)),
		zap.Int("vocabulary", snap.vocab),
	)
}

// Size 返回当前快照的商品数。空索引返回 0。
func (ix *Index) Size() int {
	snap := ix.snap.Load()
	if snap == nil {
		return 0
	}
	return len(snap.ids)
}

// Contains 判断商品是否在当前快照中。
func (ix *Index) Contains(productID int64) bool {
	snap := ix.snap.Load()
	if snap == nil {
		return false
	}
	_, ok := snap.vectors[productID]
	return ok
}

// TopSimilar 返回与 productID 最相似的至多 k 个商品，按相似度降序、
// 商品 ID 升序排列。查询商品自身与 exclude 中的商品被剔除。
//
//   - 索引为空（词表为空）时返回 ErrNoCatalogData——空目录与
//     "没有相似商品"是两种不同结果，后者返回空切片
//   - productID 不在快照中时返回 ErrUnknownProduct
//   - k 超过候选数时返回全部候选，不补齐也不报错
func (ix *Index) TopSimilar(productID int64, k int, exclude map[int64]struct{}) ([]*core.Item, error) {
	snap := ix.snap.Load()
	if snap == nil || snap.vocab == 0 {
		return nil, core.ErrNoCatalogData
	}

	query, ok := snap.vectors[productID]
	if !ok {
		return nil, core.ErrUnknownProduct
	}

	out := make([]*core.Item, 0, min(k, len(snap.ids)))
	for _, id := range snap.ids {
		if id == productID {
			continue
		}
		if _, skip := exclude[id]; skip {
			continue
		}
		it := core.NewItem(id)
		it.Score = vectorizer.Dot(query, snap.vectors[id])
		it.PutLabel("recall_source", utils.Label{Value: "similar", Source: "recall"})
		out = append(out, it)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})

	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// Similarity 返回两个商品的余弦相似度，主要用于验证对称性。
func (ix *Index) Similarity(a, b int64) (float64, error) {
	snap := ix.snap.Load()
	if snap == nil || snap.vocab == 0 {
		return 0, core.ErrNoCatalogData
	}
	va, ok := snap.vectors[a]
	if !ok {
		return 0, core.ErrUnknownProduct
	}
	vb, ok := snap.vectors[b]
	if !ok {
		return 0, core.ErrUnknownProduct
	}
	return vectorizer.Dot(va, vb), nil
}
