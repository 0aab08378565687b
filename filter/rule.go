package filter

import (
	"context"

	"github.com/shopstream/prodrec/core"
	"github.com/shopstream/prodrec/pkg/dsl"
)

// Rule 是规则过滤器：用 CEL 表达式描述剔除条件，命中即过滤。
// 规则来自配置，典型用法是运营侧黑名单类策略：
//
//	item.id == 42
//	label.category == "discontinued"
//	item.score < 0.05
type Rule struct {
	// Expressions 是剔除规则列表，任一命中即过滤
	Expressions []string
}

func (f *Rule) Name() string { return "filter.rule" }

func (f *Rule) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || len(f.Expressions) == 0 {
		return false, nil
	}

	ev := dsl.NewEval(item, rctx)
	for _, expr := range f.Expressions {
		hit, err := ev.Evaluate(expr)
		if err != nil {
			// 规则写错不应该放大成请求失败：跳过该条规则
			continue
		}
		if hit {
			return true, nil
		}
	}
	return false, nil
}
