package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separable: la clase depende solo de la primera columna.
func separableRows(n int) ([][]float64, []bool) {
	X := make([][]float64, 0, n)
	y := make([]bool, 0, n)
	for i := 0; i < n; i++ {
		pos := i%2 == 0
		x0 := 0.0
		if pos {
			x0 = 1
		}
		X = append(X, []float64{x0, 0, 0, 0, 0})
		y = append(y, pos)
	}
	return X, y
}

func TestFitForest_LearnsSeparableSplit(t *testing.T) {
	X, y := separableRows(20)

	f, err := FitForest(X, y, DefaultForestConfig())
	require.NoError(t, err)
	require.NoError(t, f.Validate())

	pPos, err := f.PredictProba([]float64{1, 0, 0, 0, 0})
	require.NoError(t, err)
	pNeg, err := f.PredictProba([]float64{0, 0, 0, 0, 0})
	require.NoError(t, err)

	assert.Greater(t, pPos, 0.5)
	assert.Less(t, pNeg, 0.5)
}

func TestFitForest_DeterministicForSeed(t *testing.T) {
	X, y := separableRows(12)
	cfg := ForestConfig{Trees: 10, MaxDepth: 4, Seed: 7}

	a, err := FitForest(X, y, cfg)
	require.NoError(t, err)
	b, err := FitForest(X, y, cfg)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestFitForest_RejectsBadShapes(t *testing.T) {
	_, err := FitForest(nil, nil, DefaultForestConfig())
	assert.Error(t, err)

	_, err = FitForest([][]float64{{1, 2}, {1}}, []bool{true, false}, DefaultForestConfig())
	assert.Error(t, err)
}

func TestForest_ValidateAndPredictRejectCorruptArtifacts(t *testing.T) {
	bad := &Forest{NFeatures: 5, Trees: []Tree{{Nodes: []Node{
		{Feature: 0, Threshold: 0.5, Left: 0, Right: 0},
	}}}}
	assert.Error(t, bad.Validate())
	_, err := bad.PredictProba([]float64{1, 0, 0, 0, 0})
	assert.Error(t, err)

	ok := &Forest{NFeatures: 5, Trees: []Tree{{Nodes: []Node{{Leaf: true, Prob: 0.3}}}}}
	require.NoError(t, ok.Validate())
	_, err = ok.PredictProba([]float64{1, 2})
	assert.Error(t, err, "wrong dimension")

	var nilForest *Forest
	assert.Error(t, nilForest.Validate())
}
