package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/shopstream/prodrec/core"
)

type appendNode struct {
	id  int64
	err error
}

func (n *appendNode) Name() string { return "append" }
func (n *appendNode) Kind() Kind   { return KindRecall }

func (n *appendNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	if n.err != nil {
		return nil, n.err
	}
	return append(items, core.NewItem(n.id)), nil
}

func TestPipelineRunChains(t *testing.T) {
	p := &Pipeline{Nodes: []Node{
		&appendNode{id: 1},
		&appendNode{id: 2},
	}}

	got, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("got %+v, want chained [1 2]", got)
	}
}

func TestPipelineRunStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	p := &Pipeline{Nodes: []Node{
		&appendNode{id: 1},
		&appendNode{err: boom},
		&appendNode{id: 3},
	}}

	got, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
	if got != nil {
		t.Errorf("got %v, want nil on error", got)
	}
}

func TestPipelineEmpty(t *testing.T) {
	p := &Pipeline{}
	in := []*core.Item{core.NewItem(1)}
	got, err := p.Run(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("empty pipeline should pass items through")
	}
}
