package history

import (
	"context"
	"sync"

	"github.com/shopstream/prodrec/core"
)

// MemoryLog 是内存实现的交互日志，用于测试/开发/原型。
// 同时维护 user -> events 与 product -> users 两个方向的视图。
type MemoryLog struct {
	mu       sync.RWMutex
	byUser   map[int64][]core.Interaction
	byProd   map[int64]map[int64]struct{} // product -> set(user)
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{
		byUser: make(map[int64][]core.Interaction),
		byProd: make(map[int64]map[int64]struct{}),
	}
}

// Append 追加一条交互事件。
func (l *MemoryLog) Append(ev core.Interaction) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.byUser[ev.UserID] = append(l.byUser[ev.UserID], ev)
	if l.byProd[ev.ProductID] == nil {
		l.byProd[ev.ProductID] = make(map[int64]struct{})
	}
	l.byProd[ev.ProductID][ev.UserID] = struct{}{}
}

func (l *MemoryLog) UserInteractions(_ context.Context, userID int64) ([]core.Interaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	events := l.byUser[userID]
	out := make([]core.Interaction, len(events))
	copy(out, events)
	return out, nil
}

func (l *MemoryLog) ProductUsers(_ context.Context, productID int64) ([]int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	users := l.byProd[productID]
	out := make([]int64, 0, len(users))
	for u := range users {
		out = append(out, u)
	}
	return out, nil
}

var _ InteractionStore = (*MemoryLog)(nil)
