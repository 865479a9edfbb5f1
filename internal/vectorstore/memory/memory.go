package memory

import (
	"errors"
	"sort"

	"reportqa/internal/vectorstore"
)

// Index is a flat in-memory index using brute-force inner product.
// It is immutable after Build and safe for concurrent searches.
type Index struct {
	dimension int
	vectors   [][]float32
}

var _ vectorstore.Index = (*Index)(nil)

// Build normalizes the rows and indexes them. Row order is kept.
func Build(rows [][]float32) (*Index, error) {
	vectors, err := vectorstore.NormalizeRows(rows)
	if err != nil {
		return nil, err
	}
	return &Index{dimension: len(vectors[0]), vectors: vectors}, nil
}

// Dimension returns the vector dimension.
func (s *Index) Dimension() int { return s.dimension }

// Len returns the number of indexed rows.
func (s *Index) Len() int { return len(s.vectors) }

// Search returns the topK rows by descending inner product with vector.
// Equal scores are ordered by ascending row.
func (s *Index) Search(vector []float32, topK int) ([]vectorstore.Match, error) {
	if topK <= 0 {
		return nil, errors.New("topK must be positive")
	}
	if len(vector) != s.dimension {
		return nil, vectorstore.ErrDimensionMismatch
	}
	matches := make([]vectorstore.Match, len(s.vectors))
	for i := range s.vectors {
		matches[i] = vectorstore.Match{Row: i, Score: dot(s.vectors[i], vector)}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Row < matches[j].Row
	})
	if topK > len(matches) {
		topK = len(matches)
	}
	return matches[:topK], nil
}

func dot(a, b []float32) float64 {
	sum := 0.0
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
