package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportqa/internal/vectorstore"
)

func rows(ms []vectorstore.Match) []int {
	out := make([]int, len(ms))
	for i, m := range ms {
		out[i] = m.Row
	}
	return out
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(nil)
	assert.ErrorIs(t, err, vectorstore.ErrEmptyIndex)

	_, err = Build([][]float32{{1, 0}, {1, 0, 0}})
	assert.ErrorIs(t, err, vectorstore.ErrDimensionMismatch)
}

func TestSearch_RanksByCosine(t *testing.T) {
	idx, err := Build([][]float32{{0, 5}, {10, 0}, {1, 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Dimension())
	assert.Equal(t, 3, idx.Len())

	res, err := idx.Search(vectorstore.NormalizeL2([]float32{1, 0.1}), 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0}, rows(res))
	for i := 1; i < len(res); i++ {
		assert.GreaterOrEqual(t, res[i-1].Score, res[i].Score)
	}
	// magnitude of the stored row does not matter once normalized
	assert.InDelta(t, 0.995, res[0].Score, 1e-3)
}

func TestSearch_TopKClampAndTies(t *testing.T) {
	idx, err := Build([][]float32{{1, 0}, {0, 1}, {2, 0}, {0, 3}})
	require.NoError(t, err)

	res, err := idx.Search([]float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 1, 3}, rows(res))

	again, err := idx.Search([]float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Equal(t, res, again)
}

func TestSearch_InvalidInput(t *testing.T) {
	idx, err := Build([][]float32{{1, 0}})
	require.NoError(t, err)

	_, err = idx.Search([]float32{1, 0}, 0)
	assert.Error(t, err)
	_, err = idx.Search([]float32{1}, 1)
	assert.ErrorIs(t, err, vectorstore.ErrDimensionMismatch)
}

func TestBuild_DoesNotAliasInput(t *testing.T) {
	in := [][]float32{{3, 4}}
	_, err := Build(in)
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 4}, in[0])
}
