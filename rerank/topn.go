package rerank

import (
	"context"

	"github.com/shopstream/prodrec/core"
	"github.com/shopstream/prodrec/pipeline"
)

// TopN 是一个截断节点，用于在排序后截取前 N 个商品。
// 排序由 rank 阶段保证；这里只做截断。
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &recall.Similar{...},
//	        &rank.Hybrid{...},
//	        &rerank.TopN{N: 10},
//	    },
//	}
type TopN struct {
	// N 要保留的商品数量（Top N）
	// 如果 N <= 0，回退到 rctx.N；仍 <= 0 则不截断
	N int
}

func (n *TopN) Name() string        { return "rerank.topn" }
func (n *TopN) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopN) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.N
	}
	if limit <= 0 {
		return items, nil
	}
	if len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
