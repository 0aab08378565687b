package core

import "github.com/shopstream/prodrec/pkg/utils"

// RecommendContext 承载一次推荐请求的用户/种子信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID int64

	// SeedProductID 是本次推荐的种子商品（用户最近交互的商品，
	// 或 product 级接口直接给定的商品）。由 engine 在进入 Pipeline 前解析。
	SeedProductID int64

	// N 是调用方期望的结果条数；候选池大小由各 Node 自行放大。
	N int

	// Labels 是请求级标签，可驱动 Filter 行为。
	Labels map[string]utils.Label

	// Params 请求级上下文参数（场景、AB 分组等），对核心算法透明。
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
