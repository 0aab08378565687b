package filter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopstream/prodrec/core"
	"github.com/shopstream/prodrec/history"
	"github.com/shopstream/prodrec/pkg/utils"
)

func items(ids ...int64) []*core.Item {
	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.NewItem(id))
	}
	return out
}

func TestRuleFilter(t *testing.T) {
	tests := []struct {
		name  string
		exprs []string
		in    []int64
		want  []int64
	}{
		{
			name:  "filter by id",
			exprs: []string{"item.id == 2"},
			in:    []int64{1, 2, 3},
			want:  []int64{1, 3},
		},
		{
			name:  "any expression hit filters",
			exprs: []string{"item.id == 1", "item.id == 3"},
			in:    []int64{1, 2, 3},
			want:  []int64{2},
		},
		{
			name:  "no expressions keeps all",
			exprs: nil,
			in:    []int64{1, 2},
			want:  []int64{1, 2},
		},
		{
			name:  "broken rule is skipped",
			exprs: []string{"this is not cel ((", "item.id == 2"},
			in:    []int64{1, 2},
			want:  []int64{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Node{Filters: []Filter{&Rule{Expressions: tt.exprs}}}
			got, err := n.Process(context.Background(), &core.RecommendContext{}, items(tt.in...))
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(got), len(tt.want))
			}
			for i, it := range got {
				if it.ID != tt.want[i] {
					t.Errorf("item[%d] = %d, want %d", i, it.ID, tt.want[i])
				}
			}
		})
	}
}

func TestRuleFilterByLabel(t *testing.T) {
	in := items(1, 2)
	in[1].PutLabel("category", utils.Label{Value: "discontinued", Source: "recall"})

	n := &Node{Filters: []Filter{&Rule{Expressions: []string{`label.category == "discontinued"`}}}}
	got, err := n.Process(context.Background(), &core.RecommendContext{}, in)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("got %+v, want only item 1", got)
	}
}

func TestInteractedFilter(t *testing.T) {
	log := history.NewMemoryLog()
	log.Append(core.Interaction{UserID: 7, ProductID: 2, Timestamp: time.Now()})

	n := &Node{Filters: []Filter{&Interacted{Store: log}}}
	rctx := &core.RecommendContext{UserID: 7}

	got, err := n.Process(context.Background(), rctx, items(1, 2, 3))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("got %+v, want [1 3]", got)
	}

	// 交互集合挂在 rctx 上，同一请求内复用
	if _, ok := rctx.Params["_interacted_set"]; !ok {
		t.Error("interacted set not cached on request context")
	}
}

func TestFilterErrorKeepsItem(t *testing.T) {
	n := &Node{Filters: []Filter{failingFilter{}}}
	got, err := n.Process(context.Background(), &core.RecommendContext{}, items(1))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 1 {
		t.Error("item dropped by failing filter; should be kept")
	}
}

type failingFilter struct{}

func (failingFilter) Name() string { return "failing" }

func (failingFilter) ShouldFilter(context.Context, *core.RecommendContext, *core.Item) (bool, error) {
	return true, errors.New("backend down")
}
