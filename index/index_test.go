package index

import (
	"math"
	"sync"
	"testing"

	"github.com/shopstream/prodrec/core"
)

func testCatalog() []core.Product {
	return []core.Product{
		{ID: 1, Name: "red shoes", Category: "", Description: "running"},
		{ID: 2, Name: "running shoes", Category: "", Description: "blue"},
		{ID: 3, Name: "kitchen blender", Category: "", Description: ""},
	}
}

func builtIndex(t *testing.T) *Index {
	t.Helper()
	ix := New()
	ix.Rebuild(testCatalog())
	return ix
}

func TestTopSimilarRanking(t *testing.T) {
	ix := builtIndex(t)

	got, err := ix.TopSimilar(1, 2, map[int64]struct{}{1: {}})
	if err != nil {
		t.Fatalf("TopSimilar() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// P2 与 P1 共享 "running"/"shoes"，必须排在 P3 之前
	if got[0].ID != 2 || got[1].ID != 3 {
		t.Errorf("order = [%d, %d], want [2, 3]", got[0].ID, got[1].ID)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("scores not descending: %f <= %f", got[0].Score, got[1].Score)
	}
	// 查询商品自身绝不出现
	for _, it := range got {
		if it.ID == 1 {
			t.Error("query product recommended itself")
		}
	}
}

func TestTopSimilarSymmetry(t *testing.T) {
	ix := builtIndex(t)

	pairs := [][2]int64{{1, 2}, {1, 3}, {2, 3}}
	for _, p := range pairs {
		ab, err := ix.Similarity(p[0], p[1])
		if err != nil {
			t.Fatalf("Similarity(%d, %d) error = %v", p[0], p[1], err)
		}
		ba, err := ix.Similarity(p[1], p[0])
		if err != nil {
			t.Fatalf("Similarity(%d, %d) error = %v", p[1], p[0], err)
		}
		if math.Abs(ab-ba) > 1e-12 {
			t.Errorf("sim(%d,%d)=%f != sim(%d,%d)=%f", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestTopSimilarTieBreak(t *testing.T) {
	ix := New()
	// 三个完全相同的文档：分数打平，按 ID 升序
	ix.Rebuild([]core.Product{
		{ID: 30, Name: "alpha beta"},
		{ID: 10, Name: "alpha beta"},
		{ID: 20, Name: "alpha beta"},
	})

	got, err := ix.TopSimilar(30, 10, nil)
	if err != nil {
		t.Fatalf("TopSimilar() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != 10 || got[1].ID != 20 {
		t.Errorf("tie-break order wrong: %+v", got)
	}
}

func TestTopSimilarKLargerThanCandidates(t *testing.T) {
	ix := builtIndex(t)

	got, err := ix.TopSimilar(1, 100, nil)
	if err != nil {
		t.Fatalf("TopSimilar() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want all 2 eligible candidates", len(got))
	}
}

func TestTopSimilarExclude(t *testing.T) {
	ix := builtIndex(t)

	got, err := ix.TopSimilar(1, 10, map[int64]struct{}{2: {}})
	if err != nil {
		t.Fatalf("TopSimilar() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != 3 {
		t.Errorf("got %+v, want only product 3", got)
	}
}

func TestTopSimilarUnknownProduct(t *testing.T) {
	ix := builtIndex(t)

	_, err := ix.TopSimilar(999, 5, nil)
	if !core.IsUnknownProduct(err) {
		t.Errorf("error = %v, want unknown product", err)
	}
}

func TestEmptyCatalog(t *testing.T) {
	ix := New()

	// 从未 Rebuild
	if _, err := ix.TopSimilar(1, 5, nil); !core.IsNoCatalogData(err) {
		t.Errorf("unbuilt index error = %v, want no catalog data", err)
	}

	// 显式重建为空目录
	ix.Rebuild(nil)
	if _, err := ix.TopSimilar(1, 5, nil); !core.IsNoCatalogData(err) {
		t.Errorf("empty catalog error = %v, want no catalog data", err)
	}
}

func TestRebuildAtomicVisibility(t *testing.T) {
	ix := builtIndex(t)

	// 并发读 + 重建：读者要么看到旧快照要么看到新快照，
	// 每次查询的结果都必须是完整一致的
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				items, err := ix.TopSimilar(1, 10, nil)
				if err != nil {
					t.Errorf("TopSimilar during rebuild: %v", err)
					return
				}
				if len(items) != 2 && len(items) != 3 {
					t.Errorf("partial snapshot visible: %d items", len(items))
					return
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		catalog := testCatalog()
		if i%2 == 1 {
			catalog = append(catalog, core.Product{ID: 4, Name: "trail running shoes"})
		}
		ix.Rebuild(catalog)
	}
	close(stop)
	wg.Wait()
}

func TestSizeAndContains(t *testing.T) {
	ix := New()
	if ix.Size() != 0 || ix.Contains(1) {
		t.Error("empty index should have size 0 and contain nothing")
	}
	ix.Rebuild(testCatalog())
	if ix.Size() != 3 {
		t.Errorf("Size = %d, want 3", ix.Size())
	}
	if !ix.Contains(2) || ix.Contains(999) {
		t.Error("Contains gave wrong answer")
	}
}
