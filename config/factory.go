package config

import (
	"time"

	"github.com/shopstream/prodrec/core"
	"github.com/shopstream/prodrec/filter"
	"github.com/shopstream/prodrec/history"
	"github.com/shopstream/prodrec/index"
	"github.com/shopstream/prodrec/pipeline"
	"github.com/shopstream/prodrec/pkg/conv"
	"github.com/shopstream/prodrec/rank"
	"github.com/shopstream/prodrec/recall"
	"github.com/shopstream/prodrec/rerank"
)

// Deps 是 Node 构建所需的运行时依赖。
// 配置文件只描述链路结构；索引、聚合器、存储由组装方注入。
type Deps struct {
	Index   *index.Index
	History *history.Aggregator
	Store   core.Store
}

// NewFactory 返回一个包含所有内置 Node 的工厂。
//
// 支持的 Node 类型：
//   - recall.similar: {pool_size, pool_multiplier}
//   - recall.hot:     {key, top_k, ids}
//   - recall.fanout:  {sources: [...], dedup, timeout, max_concurrent}
//   - filter.rule:    {expressions: [...]}
//   - rank.hybrid:    {alpha}
//   - rerank.topn:    {n}
func NewFactory(deps Deps) *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()

	factory.Register("recall.similar", func(cfg map[string]any) (pipeline.Node, error) {
		return &recall.Similar{
			Index:          deps.Index,
			PoolSize:       conv.ConfigGetInt(cfg, "pool_size", 0),
			PoolMultiplier: conv.ConfigGetInt(cfg, "pool_multiplier", 0),
		}, nil
	})

	factory.Register("recall.hot", func(cfg map[string]any) (pipeline.Node, error) {
		return buildHot(deps, cfg), nil
	})

	factory.Register("recall.fanout", func(cfg map[string]any) (pipeline.Node, error) {
		return buildFanout(deps, cfg)
	})

	factory.Register("filter.rule", func(cfg map[string]any) (pipeline.Node, error) {
		exprs := conv.SliceAnyToString(cfg["expressions"])
		return &filter.Node{
			Filters: []filter.Filter{&filter.Rule{Expressions: exprs}},
		}, nil
	})

	factory.Register("rank.hybrid", func(cfg map[string]any) (pipeline.Node, error) {
		alpha := conv.ConfigGetFloat64(cfg, "alpha", rank.DefaultAlpha)
		return rank.NewHybrid(deps.History, alpha), nil
	})

	factory.Register("rerank.topn", func(cfg map[string]any) (pipeline.Node, error) {
		return &rerank.TopN{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
	})

	return factory
}

func buildHot(deps Deps, cfg map[string]any) *recall.Hot {
	return &recall.Hot{
		Store: deps.Store,
		Key:   conv.ConfigGet[string](cfg, "key", ""),
		TopK:  conv.ConfigGetInt(cfg, "top_k", 0),
		IDs:   conv.SliceAnyToInt64(cfg["ids"]),
	}
}

func buildFanout(deps Deps, cfg map[string]any) (pipeline.Node, error) {
	sourcesCfg, _ := cfg["sources"].([]any)

	sources := make([]recall.Source, 0, len(sourcesCfg))
	for _, sc := range sourcesCfg {
		sm, ok := sc.(map[string]any)
		if !ok {
			continue
		}
		switch conv.ConfigGet[string](sm, "type", "") {
		case "similar":
			sources = append(sources, &recall.Similar{
				Index:          deps.Index,
				PoolSize:       conv.ConfigGetInt(sm, "pool_size", 0),
				PoolMultiplier: conv.ConfigGetInt(sm, "pool_multiplier", 0),
			})
		case "hot":
			sources = append(sources, buildHot(deps, sm))
		}
	}

	fanout := &recall.Fanout{
		Sources: sources,
		Dedup:   conv.ConfigGet[bool](cfg, "dedup", true),
	}
	if sec := conv.ConfigGetInt(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	fanout.MaxConcurrent = conv.ConfigGetInt(cfg, "max_concurrent", 0)

	return fanout, nil
}
