package index

import (
	"sort"
	"strings"

	"wastebot/internal/domain"
	"wastebot/internal/embedding"
)

// Index is an immutable in-memory search index. Chunks and vectors are
// parallel slices; vectors are L2-normalized so cosine similarity is a
// dot product.
type Index struct {
	chunks   []domain.Chunk
	vectors  [][]float64
	embedder embedding.Embedder
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int { return len(ix.chunks) }

// Chunks returns the indexed chunks in position order.
func (ix *Index) Chunks() []domain.Chunk { return ix.chunks }

// Search returns up to k chunks nearest to the query by cosine
// similarity. Results are ordered by score descending, with index
// position breaking ties so rankings are deterministic. An empty query
// or empty index returns no results.
func (ix *Index) Search(query string, k int) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" || len(ix.chunks) == 0 || k <= 0 {
		return nil, nil
	}
	qv, err := ix.embedder.Embed(query)
	if err != nil {
		return nil, err
	}

	type scored struct {
		pos   int
		score float64
	}
	all := make([]scored, len(ix.vectors))
	for i, v := range ix.vectors {
		all[i] = scored{pos: i, score: dot(qv, v)}
	}
	sort.SliceStable(all, func(a, b int) bool {
		if all[a].score != all[b].score {
			return all[a].score > all[b].score
		}
		return all[a].pos < all[b].pos
	})

	if k > len(all) {
		k = len(all)
	}
	results := make([]domain.SearchResult, 0, k)
	for _, s := range all[:k] {
		results = append(results, domain.SearchResult{Chunk: ix.chunks[s.pos], Score: s.score})
	}
	return results, nil
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
