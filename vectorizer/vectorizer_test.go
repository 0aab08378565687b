package vectorizer

import (
	"math"
	"reflect"
	"testing"

	"github.com/shopstream/prodrec/core"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "lowercase and split on non-alphanumeric",
			doc:  "Red-Shoes, RUNNING!",
			want: []string{"red", "shoes", "running"},
		},
		{
			name: "drop terms shorter than 2 runes",
			doc:  "a b cd e fg",
			want: []string{"cd", "fg"},
		},
		{
			name: "digits are terms",
			doc:  "size 42 shoes",
			want: []string{"size", "42", "shoes"},
		},
		{
			name: "empty input",
			doc:  "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.doc)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.doc, got, tt.want)
			}
		})
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	doc := "Waterproof Trail-Running Shoes, size 42"
	first := Tokenize(doc)
	for i := 0; i < 10; i++ {
		if got := Tokenize(doc); !reflect.DeepEqual(got, first) {
			t.Fatalf("Tokenize is not deterministic: %v vs %v", got, first)
		}
	}
}

func testCatalog() []core.Product {
	return []core.Product{
		{ID: 1, Name: "red shoes", Category: "shoes", Description: "running"},
		{ID: 2, Name: "running shoes", Category: "shoes", Description: "blue"},
		{ID: 3, Name: "kitchen blender", Category: "kitchen", Description: ""},
	}
}

func TestVectorizeVocabulary(t *testing.T) {
	res := Vectorize(testCatalog())

	if res.N != 3 {
		t.Fatalf("N = %d, want 3", res.N)
	}

	wantDF := map[string]int{
		"red": 1, "shoes": 2, "running": 2, "blue": 1,
		"kitchen": 1, "blender": 1,
	}
	if !reflect.DeepEqual(res.Vocabulary, wantDF) {
		t.Errorf("Vocabulary = %v, want %v", res.Vocabulary, wantDF)
	}
}

func TestVectorizeIDF(t *testing.T) {
	// 单词单文档目录：tf=1，权重只剩 idf，归一化后为 1
	res := Vectorize([]core.Product{{ID: 1, Name: "widget"}})
	vec := res.Vectors[1]
	if len(vec) != 1 {
		t.Fatalf("vector terms = %d, want 1", len(vec))
	}
	if got := vec["widget"]; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("normalized weight = %f, want 1.0", got)
	}
}

func TestVectorizeL2Norm(t *testing.T) {
	res := Vectorize(testCatalog())
	for id, vec := range res.Vectors {
		var norm float64
		for _, w := range vec {
			norm += w * w
		}
		if math.Abs(norm-1.0) > 1e-9 {
			t.Errorf("product %d: |v|^2 = %f, want 1.0", id, norm)
		}
	}
}

func TestVectorizeEmptyCatalog(t *testing.T) {
	res := Vectorize(nil)
	if len(res.Vocabulary) != 0 {
		t.Errorf("empty catalog vocabulary = %v, want empty", res.Vocabulary)
	}
	if len(res.Vectors) != 0 {
		t.Errorf("empty catalog vectors = %v, want empty", res.Vectors)
	}
}

func TestDot(t *testing.T) {
	a := Vector{"shoes": 0.6, "running": 0.8}
	b := Vector{"shoes": 1.0}
	if got := Dot(a, b); math.Abs(got-0.6) > 1e-9 {
		t.Errorf("Dot = %f, want 0.6", got)
	}
	// 对称
	if Dot(a, b) != Dot(b, a) {
		t.Error("Dot is not symmetric")
	}
	// 无共享词项
	c := Vector{"kitchen": 1.0}
	if got := Dot(a, c); got != 0 {
		t.Errorf("Dot with disjoint terms = %f, want 0", got)
	}
}
