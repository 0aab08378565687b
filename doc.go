// Package prodrec 是一个商品推荐引擎：内容相似度（TF-IDF + 余弦）与
// 行为共现信号混合打分，结果按用户/商品维度做 single-flight 缓存。
//
// 设计要点：
// - Snapshot-first: 目录快照 → 向量空间整体重建、原子换入，读写不互扰
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
// - Labels-first: labels 全链路透传，外部解释服务按 (seed, recommended) 配对消费
package prodrec

import "github.com/shopstream/prodrec/pipeline"

// 轻量 facade：便于用户直接 import "prodrec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank
)
