package risk

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrInsufficientData = errors.New("insufficient training data")
	ErrSingleClass      = errors.New("training labels have a single class")
	ErrBelowQuality     = errors.New("model below quality threshold")
)

const (
	DefaultMinRows      = 5
	DefaultAUCThreshold = 0.6
	maxFolds            = 3
)

type TrainerConfig struct {
	MinRows      int
	AUCThreshold float64
	Forest       ForestConfig
}

func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		MinRows:      DefaultMinRows,
		AUCThreshold: DefaultAUCThreshold,
		Forest:       DefaultForestConfig(),
	}
}

// Metadata acompaña al modelo persistido. CVAUC nil = no se pudo validar (cuenta como aprobado).
type Metadata struct {
	TrainedAt    time.Time `json:"trained_at"`
	NSamples     int       `json:"n_samples"`
	PositiveRate float64   `json:"positive_rate"`
	CVAUC        *float64  `json:"cv_auc"`
	PetID        string    `json:"pet_id,omitempty"`
}

// Bundle es la unidad que guarda el Store: clasificador + encoders + metadata.
type Bundle struct {
	Forest   *Forest  `json:"forest"`
	Encoders Encoders `json:"encoders"`
	Metadata Metadata `json:"metadata"`
}

func (b *Bundle) validate() error {
	if b == nil {
		return errMalformedForest
	}
	if err := b.Forest.Validate(); err != nil {
		return err
	}
	if b.Forest.NFeatures != NumFeatures {
		return fmt.Errorf("%w: expected %d features, got %d", errMalformedForest, NumFeatures, b.Forest.NFeatures)
	}
	if !b.Encoders.valid() {
		return fmt.Errorf("%w: empty encoders", errMalformedForest)
	}
	return nil
}

type Trainer struct {
	cfg   TrainerConfig
	store Store
	now   func() time.Time
}

func NewTrainer(cfg TrainerConfig, store Store) *Trainer {
	if cfg.MinRows <= 0 {
		cfg.MinRows = DefaultMinRows
	}
	return &Trainer{cfg: cfg, store: store, now: time.Now}
}

// Fit entrena sin persistir. Los rechazos se reportan con los errores sentinela.
func (t *Trainer) Fit(rows []Observation) (*Bundle, error) {
	if len(rows) < t.cfg.MinRows {
		return nil, fmt.Errorf("%w: %d rows, need %d", ErrInsufficientData, len(rows), t.cfg.MinRows)
	}

	enc := FitEncoders(rows)
	X := make([][]float64, 0, len(rows))
	y := make([]bool, 0, len(rows))
	positives := 0
	for _, o := range rows {
		vec, feat, ok := enc.Encode(o)
		if !ok {
			// no debería pasar: cada valor de entrenamiento está en su índice
			return nil, fmt.Errorf("encode training row: feature %s", feat)
		}
		X = append(X, vec)
		lbl := Label(o)
		y = append(y, lbl)
		if lbl {
			positives++
		}
	}

	negatives := len(rows) - positives
	if positives == 0 || negatives == 0 {
		return nil, ErrSingleClass
	}

	auc := t.crossValidate(X, y, positives, negatives)
	if auc != nil && *auc < t.cfg.AUCThreshold {
		return nil, fmt.Errorf("%w: auc %.3f < %.2f", ErrBelowQuality, *auc, t.cfg.AUCThreshold)
	}

	forest, err := FitForest(X, y, t.cfg.Forest)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		Forest:   forest,
		Encoders: enc,
		Metadata: Metadata{
			TrainedAt:    t.now().UTC(),
			NSamples:     len(rows),
			PositiveRate: float64(positives) / float64(len(rows)),
			CVAUC:        auc,
		},
	}, nil
}

// Train = Fit + Save. Si Fit rechaza, el store queda intacto.
func (t *Trainer) Train(petID string, rows []Observation) (*Bundle, error) {
	b, err := t.Fit(rows)
	if err != nil {
		return nil, err
	}
	b.Metadata.PetID = petID
	if t.store == nil {
		return nil, errors.New("trainer: nil store")
	}
	if err := t.store.Save(petID, b); err != nil {
		return nil, fmt.Errorf("save model: %w", err)
	}
	return b, nil
}

// crossValidate devuelve el AUC medio de k-fold estratificado, o nil si no es factible.
func (t *Trainer) crossValidate(X [][]float64, y []bool, positives, negatives int) *float64 {
	minority := min(positives, negatives)
	k := min(maxFolds, minority)
	if minority < 2 || len(y) < 2*k {
		return nil
	}

	folds := stratifiedFolds(y, k, t.cfg.Forest.Seed)
	var aucs []float64
	for f := 0; f < k; f++ {
		var trX [][]float64
		var trY []bool
		var teX [][]float64
		var teY []bool
		for i := range y {
			if folds[i] == f {
				teX, teY = append(teX, X[i]), append(teY, y[i])
			} else {
				trX, trY = append(trX, X[i]), append(trY, y[i])
			}
		}

		forest, err := FitForest(trX, trY, t.cfg.Forest)
		if err != nil {
			continue
		}
		scores := make([]float64, len(teX))
		for i, x := range teX {
			p, err := forest.PredictProba(x)
			if err != nil {
				p = 0
			}
			scores[i] = p
		}
		if auc, ok := rocAUC(scores, teY); ok {
			aucs = append(aucs, auc)
		}
	}
	if len(aucs) == 0 {
		return nil
	}
	mean := stat.Mean(aucs, nil)
	return &mean
}

// stratifiedFolds reparte cada clase, barajada con la seed, de forma round-robin en k folds.
func stratifiedFolds(y []bool, k int, seed uint64) []int {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	folds := make([]int, len(y))
	for _, class := range []bool{true, false} {
		var idx []int
		for i, v := range y {
			if v == class {
				idx = append(idx, i)
			}
		}
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		for n, i := range idx {
			folds[i] = n % k
		}
	}
	return folds
}

// rocAUC integra la curva ROC. Necesita ambas clases presentes.
func rocAUC(scores []float64, labels []bool) (float64, bool) {
	var pos, neg int
	for _, l := range labels {
		if l {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0, false
	}

	s := append([]float64(nil), scores...)
	c := append([]bool(nil), labels...)
	// stat.ROC exige scores en orden ascendente
	sort.Sort(byScore{s, c})

	tpr, fpr, _ := stat.ROC(nil, s, c, nil)
	if len(fpr) < 2 {
		return 0, false
	}
	auc := integrate.Trapezoidal(fpr, tpr)
	if math.IsNaN(auc) {
		return 0, false
	}
	return auc, true
}

type byScore struct {
	scores []float64
	labels []bool
}

func (b byScore) Len() int           { return len(b.scores) }
func (b byScore) Less(i, j int) bool { return b.scores[i] < b.scores[j] }
func (b byScore) Swap(i, j int) {
	b.scores[i], b.scores[j] = b.scores[j], b.scores[i]
	b.labels[i], b.labels[j] = b.labels[j], b.labels[i]
}
