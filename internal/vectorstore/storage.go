package vectorstore

import (
	"errors"
	"math"
)

var (
	// ErrDimensionMismatch is returned when a vector does not match the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrEmptyIndex is returned when building an index without vectors.
	ErrEmptyIndex = errors.New("no vectors to index")
)

// Match is a row of the index with its inner product against the query.
type Match struct {
	Row   int
	Score float64
}

// Index supports exact nearest-neighbour search by inner product.
// Rows are expected to be unit length, which makes scores cosine similarities.
type Index interface {
	Dimension() int
	Len() int
	Search(vector []float32, topK int) ([]Match, error)
}

// NormalizeL2 returns a new vector scaled to unit L2 norm.
// A zero vector is returned as a copy.
func NormalizeL2(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	n := math.Sqrt(sum)
	if n == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / n)
	}
	return out
}

// NormalizeRows normalizes every row and checks that all rows share one dimension.
func NormalizeRows(rows [][]float32) ([][]float32, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyIndex
	}
	dim := len(rows[0])
	out := make([][]float32, len(rows))
	for i, r := range rows {
		if len(r) != dim || dim == 0 {
			return nil, ErrDimensionMismatch
		}
		out[i] = NormalizeL2(r)
	}
	return out, nil
}
