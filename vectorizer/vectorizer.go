// Package vectorizer 把商品目录快照转成 TF-IDF 加权的稀疏词向量。
//
// 纯函数：只依赖传入的目录快照，不依赖任何外部状态。
// 词表在一次快照内固定；目录变更时整体重建，不做增量更新。
package vectorizer

import (
	"math"
	"strings"
	"unicode"

	"github.com/shopstream/prodrec/core"
)

// Vector 是一个稀疏词向量：词 -> 权重。输出已做 L2 归一化，
// 因此两个向量的余弦相似度退化为点积。
type Vector map[string]float64

// Result 是一次向量化的产物：每个商品一个向量，外加全量词表。
// 词表 value 是 document frequency（含该词的商品数）。
type Result struct {
	Vectors    map[int64]Vector
	Vocabulary map[string]int
	N          int // 目录大小
}

// minTermLen 是保留词项的最小长度（rune 数）。
// 策略是确定性的：小写、按非字母数字切分、丢弃过短词。
const minTermLen = 2

// Tokenize 把一段文本切成词项：小写、非字母数字为边界、丢弃长度 < 2 的词。
func Tokenize(doc string) []string {
	fields := strings.FieldsFunc(strings.ToLower(doc), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < minTermLen {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

// Vectorize 对整个目录做 TF-IDF 向量化。
//
// 权重：tf(term, doc) * idf(term)，其中
//
//	idf = log((1 + N) / (1 + df)) + 1
//
// 平滑项保证 df == 0 或 df == N 时不会除零/归零。
// 空目录返回空词表；错误语义由上层索引负责（ErrNoCatalogData）。
func Vectorize(products []core.Product) *Result {
	n := len(products)
	res := &Result{
		Vectors:    make(map[int64]Vector, n),
		Vocabulary: make(map[string]int),
		N:          n,
	}

	// 第一遍：词频 + 文档频率
	termFreqs := make(map[int64]map[string]int, n)
	for _, p := range products {
		tf := make(map[string]int)
		for _, term := range Tokenize(p.Document()) {
			tf[term]++
		}
		termFreqs[p.ID] = tf
		for term := range tf {
			res.Vocabulary[term]++
		}
	}

	// 第二遍：tf * idf，然后 L2 归一化
	for _, p := range products {
		tf := termFreqs[p.ID]
		vec := make(Vector, len(tf))
		var norm float64
		for term, freq := range tf {
			df := res.Vocabulary[term]
			idf := math.Log(float64(1+n)/float64(1+df)) + 1
			w := float64(freq) * idf
			vec[term] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for term := range vec {
				vec[term] /= norm
			}
		}
		res.Vectors[p.ID] = vec
	}

	return res
}

// Dot 计算两个 L2 归一化向量的点积（即余弦相似度）。
// 只遍历较小的一侧，稀疏向量常见优化。
func Dot(a, b Vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	return dot
}
