package core

import "github.com/shopstream/prodrec/pkg/utils"

// Item 是推荐链路中的统一承载结构：分数、元信息、标签。
// Score 是混合打分结果，用于排序决策；Labels 用于解释与观测
// （例如外部解释服务需要的 (seed, recommended) 配对信息）。
type Item struct {
	ID     int64
	Score  float64
	Meta   map[string]any
	Labels map[string]utils.Label
}

func NewItem(id int64) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// GetLabel 读取 Label。
func (it *Item) GetLabel(key string) (utils.Label, bool) {
	if it.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := it.Labels[key]
	return lbl, ok
}
