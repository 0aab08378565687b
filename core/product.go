package core

import (
	"strings"
	"time"
)

// Product 是商品目录中的一个条目。在一次目录快照内不可变：
// 目录变更不做增量更新，而是整体重建相似度索引。
type Product struct {
	ID          int64  `json:"product_id" yaml:"product_id"`
	Name        string `json:"name" yaml:"name"`
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description" yaml:"description"`
}

// Document 返回用于向量化的文本（name + category + description，统一小写）。
// 只作为 vectorizer 的输入，不参与任何展示逻辑。
func (p Product) Document() string {
	parts := []string{
		strings.ToLower(p.Name),
		strings.ToLower(p.Category),
		strings.ToLower(p.Description),
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// Interaction 是一条用户行为事件（append-only）。
// EventType 是不透明标签（view / purchase / like ...），聚合时不做差异化加权。
type Interaction struct {
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}
