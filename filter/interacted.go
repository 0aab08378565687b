package filter

import (
	"context"

	"github.com/shopstream/prodrec/core"
	"github.com/shopstream/prodrec/history"
)

// Interacted 过滤掉用户已经交互过的商品。
//
// 默认的混合打分只排除种子商品本身；把本过滤器挂进 Pipeline 可以
// 进一步避免"推荐用户刚买过的东西"。按请求把用户历史取一次并缓存在
// 过滤器实例内不可行（Filter 无状态、跨请求复用），所以在首次调用时
// 以 rctx 为键惰性取数。
type Interacted struct {
	Store history.InteractionStore
}

func (f *Interacted) Name() string { return "filter.interacted" }

func (f *Interacted) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Store == nil || rctx == nil || item == nil {
		return false, nil
	}

	seen, err := f.interactedSet(ctx, rctx)
	if err != nil {
		return false, err
	}
	_, hit := seen[item.ID]
	return hit, nil
}

// interactedSet 取用户交互过的商品集合，结果挂在 rctx.Params 上，
// 同一次请求内只取一次。
func (f *Interacted) interactedSet(ctx context.Context, rctx *core.RecommendContext) (map[int64]struct{}, error) {
	const paramKey = "_interacted_set"

	if rctx.Params != nil {
		if cached, ok := rctx.Params[paramKey].(map[int64]struct{}); ok {
			return cached, nil
		}
	}

	events, err := f.Store.UserInteractions(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{}, len(events))
	for _, ev := range events {
		seen[ev.ProductID] = struct{}{}
	}

	if rctx.Params == nil {
		rctx.Params = make(map[string]any)
	}
	rctx.Params[paramKey] = seen
	return seen, nil
}
