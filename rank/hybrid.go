// Package rank 对召回的候选集打分并排序。
package rank

import (
	"context"
	"sort"
	"strconv"

	"github.com/shopstream/prodrec/core"
	"github.com/shopstream/prodrec/history"
	"github.com/shopstream/prodrec/pipeline"
	"github.com/shopstream/prodrec/pkg/utils"
)

// DefaultAlpha 是内容相似度的默认权重。偏向内容信号：新目录上
// 共现数据稀疏，行为信号不可靠。
const DefaultAlpha = 0.7

// Hybrid 是混合打分节点：把候选的内容相似度（召回阶段写入 Score）
// 与种子商品的共现信号融合成单一分数。
//
//	blended = alpha * contentSim + (1 - alpha) * normalizedCoOccur
//
// normalizedCoOccur 是共现计数除以候选池内的最大计数；候选没有共现
// 记录、或池内最大计数为 0 时取 0（避免除零）。
//
// 输出按分数降序排列，同分按商品 ID 升序——保证同样输入得到同样输出。
type Hybrid struct {
	History *history.Aggregator

	// Alpha 内容相似度权重，[0, 1]，默认 DefaultAlpha
	Alpha float64

	// alphaSet 区分 "未配置" 与 "显式配置为 0"
	alphaSet bool
}

// NewHybrid 创建混合打分节点。
func NewHybrid(agg *history.Aggregator, alpha float64) *Hybrid {
	return &Hybrid{History: agg, Alpha: alpha, alphaSet: true}
}

func (n *Hybrid) Name() string        { return "rank.hybrid" }
func (n *Hybrid) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *Hybrid) alpha() float64 {
	if !n.alphaSet && n.Alpha == 0 {
		return DefaultAlpha
	}
	if n.Alpha < 0 {
		return 0
	}
	if n.Alpha > 1 {
		return 1
	}
	return n.Alpha
}

func (n *Hybrid) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	seed := int64(0)
	var cooc map[int64]int
	if rctx != nil {
		seed = rctx.SeedProductID
	}
	if n.History != nil && seed != 0 {
		var err error
		cooc, err = n.History.CoOccurring(ctx, seed)
		if err != nil {
			return nil, err
		}
	}

	// 池内最大共现计数，用于归一化
	maxCount := 0
	for _, it := range items {
		if c := cooc[it.ID]; c > maxCount {
			maxCount = c
		}
	}

	alpha := n.alpha()
	seedLabel := strconv.FormatInt(seed, 10)
	for _, it := range items {
		contentSim := it.Score

		normCoOccur := 0.0
		if maxCount > 0 {
			normCoOccur = float64(cooc[it.ID]) / float64(maxCount)
		}

		it.Score = alpha*contentSim + (1-alpha)*normCoOccur

		// 解释服务消费的配对与分解信号
		it.PutLabel("seed_product", utils.Label{Value: seedLabel, Source: "rank"})
		it.PutLabel("content_sim", utils.Label{Value: strconv.FormatFloat(contentSim, 'f', 6, 64), Source: "rank"})
		it.PutLabel("co_occurrence", utils.Label{Value: strconv.Itoa(cooc[it.ID]), Source: "rank"})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})

	return items, nil
}
