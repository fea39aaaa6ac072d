package risk

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ForestConfig parametriza el clasificador. Seed fija = entrenamiento reproducible.
type ForestConfig struct {
	Trees    int
	MaxDepth int
	MinLeaf  int
	Seed     uint64
}

func DefaultForestConfig() ForestConfig {
	return ForestConfig{Trees: 60, MaxDepth: 6, MinLeaf: 1, Seed: 42}
}

// Forest es un random forest binario con pesos balanceados por clase
// (n / (2·n_clase)) en vez de re-muestreo.
type Forest struct {
	NFeatures int    `json:"n_features"`
	Trees     []Tree `json:"trees"`
}

type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node: hoja si Leaf; si no, x[Feature] <= Threshold va a Left.
type Node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
	Leaf      bool    `json:"leaf,omitempty"`
	Prob      float64 `json:"p"`
}

var errMalformedForest = errors.New("malformed forest")

func FitForest(X [][]float64, y []bool, cfg ForestConfig) (*Forest, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, fmt.Errorf("fit forest: %d rows, %d labels", len(X), len(y))
	}
	d := len(X[0])
	for _, row := range X {
		if len(row) != d {
			return nil, fmt.Errorf("fit forest: ragged feature matrix")
		}
	}
	if cfg.Trees <= 0 {
		cfg.Trees = DefaultForestConfig().Trees
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultForestConfig().MaxDepth
	}
	if cfg.MinLeaf <= 0 {
		cfg.MinLeaf = 1
	}

	classWeight := balancedWeights(y)
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	b := &treeBuilder{X: X, y: y, d: d, cfg: cfg, rng: rng}

	f := &Forest{NFeatures: d, Trees: make([]Tree, 0, cfg.Trees)}
	n := len(X)
	for t := 0; t < cfg.Trees; t++ {
		// bootstrap: el peso de cada fila = veces elegida * peso de su clase
		w := make([]float64, n)
		for i := 0; i < n; i++ {
			j := rng.IntN(n)
			w[j] += classWeight[boolIdx(y[j])]
		}
		idx := make([]int, 0, n)
		for i := range w {
			if w[i] > 0 {
				idx = append(idx, i)
			}
		}
		b.w = w
		b.nodes = nil
		b.grow(idx, 0)
		f.Trees = append(f.Trees, Tree{Nodes: b.nodes})
	}
	return f, nil
}

// balancedWeights: [peso negativo, peso positivo].
func balancedWeights(y []bool) [2]float64 {
	var counts [2]float64
	for _, v := range y {
		counts[boolIdx(v)]++
	}
	n := float64(len(y))
	var w [2]float64
	for c := range counts {
		if counts[c] > 0 {
			w[c] = n / (2 * counts[c])
		}
	}
	return w
}

func boolIdx(v bool) int {
	if v {
		return 1
	}
	return 0
}

type treeBuilder struct {
	X     [][]float64
	y     []bool
	w     []float64
	d     int
	cfg   ForestConfig
	rng   *rand.Rand
	nodes []Node
}

func (b *treeBuilder) grow(idx []int, depth int) int {
	pos, total := b.weights(idx)
	p := 0.0
	if total > 0 {
		p = pos / total
	}

	at := len(b.nodes)
	b.nodes = append(b.nodes, Node{Leaf: true, Prob: p})

	if depth >= b.cfg.MaxDepth || len(idx) < 2*b.cfg.MinLeaf || p == 0 || p == 1 {
		return at
	}

	feat, thr, ok := b.bestSplit(idx, pos, total)
	if !ok {
		return at
	}

	var left, right []int
	for _, i := range idx {
		if b.X[i][feat] <= thr {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[at] = Node{Feature: feat, Threshold: thr, Left: l, Right: r, Prob: p}
	return at
}

func (b *treeBuilder) weights(idx []int) (pos, total float64) {
	for _, i := range idx {
		total += b.w[i]
		if b.y[i] {
			pos += b.w[i]
		}
	}
	return pos, total
}

// bestSplit evalúa √d features al azar; si ninguna separa, sigue con el resto.
func (b *treeBuilder) bestSplit(idx []int, pos, total float64) (int, float64, bool) {
	mtry := int(math.Max(1, math.Floor(math.Sqrt(float64(b.d)))))
	parent := total * gini(pos, total)

	bestGain, bestFeat, bestThr := 1e-12, -1, 0.0
	sorted := make([]int, len(idx))

	for k, feat := range b.rng.Perm(b.d) {
		if k >= mtry && bestFeat >= 0 {
			break
		}

		copy(sorted, idx)
		sort.Slice(sorted, func(i, j int) bool { return b.X[sorted[i]][feat] < b.X[sorted[j]][feat] })

		var lPos, lTot float64
		for s := 0; s < len(sorted)-1; s++ {
			i := sorted[s]
			lTot += b.w[i]
			if b.y[i] {
				lPos += b.w[i]
			}
			cur, next := b.X[i][feat], b.X[sorted[s+1]][feat]
			if cur == next {
				continue
			}
			if s+1 < b.cfg.MinLeaf || len(sorted)-s-1 < b.cfg.MinLeaf {
				continue
			}
			rPos, rTot := pos-lPos, total-lTot
			gain := parent - lTot*gini(lPos, lTot) - rTot*gini(rPos, rTot)
			if gain > bestGain {
				bestGain, bestFeat, bestThr = gain, feat, (cur+next)/2
			}
		}
	}
	return bestFeat, bestThr, bestFeat >= 0
}

func gini(pos, total float64) float64 {
	if total <= 0 {
		return 0
	}
	p := pos / total
	return 2 * p * (1 - p)
}

// PredictProba promedia la probabilidad positiva de las hojas alcanzadas.
func (f *Forest) PredictProba(x []float64) (float64, error) {
	if f == nil || len(f.Trees) == 0 {
		return 0, errMalformedForest
	}
	if len(x) != f.NFeatures {
		return 0, fmt.Errorf("predict: expected %d features, got %d", f.NFeatures, len(x))
	}
	probs := make([]float64, 0, len(f.Trees))
	for _, t := range f.Trees {
		p, err := t.predict(x)
		if err != nil {
			return 0, err
		}
		probs = append(probs, p)
	}
	return stat.Mean(probs, nil), nil
}

func (t Tree) predict(x []float64) (float64, error) {
	at := 0
	for steps := 0; steps <= len(t.Nodes); steps++ {
		if at < 0 || at >= len(t.Nodes) {
			return 0, errMalformedForest
		}
		n := t.Nodes[at]
		if n.Leaf {
			return n.Prob, nil
		}
		if n.Feature < 0 || n.Feature >= len(x) {
			return 0, errMalformedForest
		}
		if x[n.Feature] <= n.Threshold {
			at = n.Left
		} else {
			at = n.Right
		}
	}
	return 0, errMalformedForest
}

// Validate chequea la integridad estructural de un artefacto cargado de disco.
func (f *Forest) Validate() error {
	if f == nil || len(f.Trees) == 0 || f.NFeatures <= 0 {
		return errMalformedForest
	}
	for ti, t := range f.Trees {
		if len(t.Nodes) == 0 {
			return fmt.Errorf("%w: tree %d empty", errMalformedForest, ti)
		}
		for ni, n := range t.Nodes {
			if n.Prob < 0 || n.Prob > 1 || math.IsNaN(n.Prob) {
				return fmt.Errorf("%w: tree %d node %d probability", errMalformedForest, ti, ni)
			}
			if n.Leaf {
				continue
			}
			// hijos siempre después del padre: descarta ciclos
			if n.Left <= ni || n.Right <= ni || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
				return fmt.Errorf("%w: tree %d node %d children", errMalformedForest, ti, ni)
			}
			if n.Feature < 0 || n.Feature >= f.NFeatures {
				return fmt.Errorf("%w: tree %d node %d feature", errMalformedForest, ti, ni)
			}
		}
	}
	return nil
}
