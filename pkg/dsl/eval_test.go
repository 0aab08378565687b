package dsl

import (
	"testing"

	"github.com/shopstream/prodrec/core"
	"github.com/shopstream/prodrec/pkg/utils"
)

func testItem() *core.Item {
	it := core.NewItem(3)
	it.Score = 0.42
	it.PutLabel("category", utils.Label{Value: "kitchen", Source: "recall"})
	it.PutLabel("recall_source", utils.Label{Value: "similar", Source: "recall"})
	return it
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want bool
	}{
		{`label.category == "kitchen"`, true},
		{`label.category == "shoes"`, false},
		{`item.id == 3`, true},
		{`item.score > 0.5`, false},
		{`item.score > 0.4 && label.recall_source == "similar"`, true},
		{`label.recall_source.contains("sim")`, true},
		{`rctx.user_id == 7`, true},
		{`rctx.seed_product_id == 1`, true},
	}

	rctx := &core.RecommendContext{UserID: 7, SeedProductID: 1}
	ev := NewEval(testItem(), rctx)

	for _, tt := range tests {
		got, err := ev.Evaluate(tt.expr)
		if err != nil {
			t.Errorf("Evaluate(%q) error = %v", tt.expr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestEvaluateCompileError(t *testing.T) {
	ev := NewEval(testItem(), nil)
	if _, err := ev.Evaluate("this is not (( valid"); err == nil {
		t.Error("Evaluate() accepted invalid expression")
	}
}

func TestEvaluateNonBool(t *testing.T) {
	ev := NewEval(testItem(), nil)
	if _, err := ev.Evaluate("item.id + 1"); err == nil {
		t.Error("Evaluate() accepted non-bool expression")
	}
}

func TestEvaluateNilItem(t *testing.T) {
	ev := NewEval(nil, nil)
	got, err := ev.Evaluate(`!has(item.id)`)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !got {
		t.Error("nil item should have no fields")
	}
}
