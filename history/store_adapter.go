package history

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/shopstream/prodrec/core"
)

// StoreAdapter 把 core.Store（Memory/Redis）适配成 InteractionStore。
//
// key 布局：
//   - {prefix}:user:{userID}    -> JSON []core.Interaction
//   - {prefix}:product:{productID} -> JSON []int64（交互过的用户，去重）
//
// 写入端（API 层或 Kafka 消费者）通过 Record 维护两个方向的视图。
type StoreAdapter struct {
	Store core.Store

	// KeyPrefix 默认 "interactions"
	KeyPrefix string
}

func NewStoreAdapter(store core.Store, keyPrefix string) *StoreAdapter {
	if keyPrefix == "" {
		keyPrefix = "interactions"
	}
	return &StoreAdapter{Store: store, KeyPrefix: keyPrefix}
}

func (s *StoreAdapter) userKey(userID int64) string {
	return s.KeyPrefix + ":user:" + strconv.FormatInt(userID, 10)
}

func (s *StoreAdapter) productKey(productID int64) string {
	return s.KeyPrefix + ":product:" + strconv.FormatInt(productID, 10)
}

func (s *StoreAdapter) UserInteractions(ctx context.Context, userID int64) ([]core.Interaction, error) {
	data, err := s.Store.Get(ctx, s.userKey(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var events []core.Interaction
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *StoreAdapter) ProductUsers(ctx context.Context, productID int64) ([]int64, error) {
	data, err := s.Store.Get(ctx, s.productKey(productID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var users []int64
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Record 追加一条交互事件，同时维护 user 与 product 两个方向的视图。
// 写路径不在推荐核心的热路径上，读-改-写即可；需要更高写吞吐时
// 换成 Redis 原生结构（list + set）实现 InteractionStore。
func (s *StoreAdapter) Record(ctx context.Context, ev core.Interaction) error {
	events, err := s.UserInteractions(ctx, ev.UserID)
	if err != nil {
		return err
	}
	events = append(events, ev)
	data, err := json.Marshal(events)
	if err != nil {
		return err
	}
	if err := s.Store.Set(ctx, s.userKey(ev.UserID), data); err != nil {
		return err
	}

	users, err := s.ProductUsers(ctx, ev.ProductID)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u == ev.UserID {
			return nil
		}
	}
	users = append(users, ev.UserID)
	data, err = json.Marshal(users)
	if err != nil {
		return err
	}
	return s.Store.Set(ctx, s.productKey(ev.ProductID), data)
}

var _ InteractionStore = (*StoreAdapter)(nil)
