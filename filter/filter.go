package filter

import (
	"context"

	"github.com/shopstream/prodrec/core"
	"github.com/shopstream/prodrec/pipeline"
)

// Filter 是过滤器的抽象接口，用于判断一个 Item 是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 item 是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}

// Node 把一组 Filter 串成 Pipeline 中的过滤阶段。
// 单个过滤器出错时保守放行该 item，不中断整条链路。
type Node struct {
	Filters []Filter
}

func (n *Node) Name() string        { return "filter" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		drop := false
		for _, f := range n.Filters {
			hit, err := f.ShouldFilter(ctx, rctx, it)
			if err != nil {
				continue
			}
			if hit {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, it)
		}
	}
	return out, nil
}
