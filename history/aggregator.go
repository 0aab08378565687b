// Package history 把用户交互日志汇总成推荐需要的两个信号：
// 种子商品（最近一次交互）与商品共现表。
package history

import (
	"context"

	"github.com/shopstream/prodrec/core"
)

// InteractionStore 是交互日志的读取接口。
// 日志本身 append-only，按时间戳解释先后；落地由外部存储负责。
type InteractionStore interface {
	// UserInteractions 获取某个用户的全部交互事件
	UserInteractions(ctx context.Context, userID int64) ([]core.Interaction, error)

	// ProductUsers 获取与某个商品交互过的用户 ID 列表（去重）
	ProductUsers(ctx context.Context, productID int64) ([]int64, error)
}

// Aggregator 基于 InteractionStore 做聚合。自身无状态，可并发使用。
type Aggregator struct {
	store InteractionStore
}

func NewAggregator(store InteractionStore) *Aggregator {
	return &Aggregator{store: store}
}

// Store 返回底层交互日志，供过滤器等组件直接取数。
func (a *Aggregator) Store() InteractionStore {
	return a.store
}

// SeedProduct 返回用户最近交互的商品 ID，作为推荐种子。
// 用户没有任何交互时返回 ErrNoInteractionHistory——这是终态，不重试。
func (a *Aggregator) SeedProduct(ctx context.Context, userID int64) (int64, error) {
	events, err := a.store.UserInteractions(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, core.ErrNoInteractionHistory
	}

	latest := events[0]
	for _, ev := range events[1:] {
		if ev.Timestamp.After(latest.Timestamp) {
			latest = ev
		}
	}
	return latest.ProductID, nil
}

// CoOccurring 返回与 productID 共现的商品计数表：对每个交互过
// productID 的用户，统计该用户交互过的其他商品。
//
// 同一个用户对同一商品的多次交互只贡献一个共现单位——先按用户去重
// 再累加，避免单个高活用户主导信号。计数按构造是对称的，但表只按
// 种子商品单向查询。
func (a *Aggregator) CoOccurring(ctx context.Context, productID int64) (map[int64]int, error) {
	users, err := a.store.ProductUsers(ctx, productID)
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int)
	for _, userID := range users {
		events, err := a.store.UserInteractions(ctx, userID)
		if err != nil {
			return nil, err
		}

		// 用户级去重：每个 (user, product) 对至多计一次
		seen := make(map[int64]struct{}, len(events))
		for _, ev := range events {
			if ev.ProductID == productID {
				continue
			}
			if _, dup := seen[ev.ProductID]; dup {
				continue
			}
			seen[ev.ProductID] = struct{}{}
			counts[ev.ProductID]++
		}
	}
	return counts, nil
}
