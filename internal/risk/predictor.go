package risk

import (
	"errors"
	"fmt"
	"strings"

	"pet-behavior-analysis/internal/platform/logger"
)

type Mode string

const (
	ModeModel     Mode = "model"
	ModeRuleBased Mode = "rule_based"
)

const (
	highProbability   = 0.75
	mediumProbability = 0.40
)

type Prediction struct {
	Risk        Risk     `json:"risk"`
	Mode        Mode     `json:"mode"`
	Probability *float64 `json:"probability,omitempty"`
}

type Predictor struct {
	store Store
	log   logger.Logger
}

func NewPredictor(store Store, log logger.Logger) *Predictor {
	if log == nil {
		log = logger.Nop()
	}
	return &Predictor{store: store, log: log}
}

// Predict usa el modelo persistido si hay uno utilizable; cualquier falla
// (sin modelo, artefacto corrupto, encoding sin resolver) cae a reglas.
func (p *Predictor) Predict(petID string, o Observation) Prediction {
	if p.store == nil {
		return ruleBasedPrediction(o)
	}
	b, err := p.store.Load(petID)
	if err != nil {
		if !errors.Is(err, ErrNoModel) {
			p.log.Warn("model load failed, using rule-based prediction", map[string]any{"pet_id": petID, "err": err})
		}
		return ruleBasedPrediction(o)
	}
	return p.PredictWith(b, o)
}

// PredictWith evalúa un bundle ya cargado (también lo usa la autoevaluación).
func (p *Predictor) PredictWith(b *Bundle, o Observation) (pred Prediction) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("model invocation panicked, using rule-based prediction", map[string]any{"panic": fmt.Sprint(r)})
			pred = ruleBasedPrediction(o)
		}
	}()

	if b == nil || b.Forest == nil {
		return ruleBasedPrediction(o)
	}
	vec, feat, ok := b.Encoders.Encode(o)
	if !ok {
		p.log.Info("unresolved feature value, using rule-based prediction", map[string]any{
			"feature": string(feat),
		})
		return ruleBasedPrediction(o)
	}
	prob, err := b.Forest.PredictProba(vec)
	if err != nil {
		p.log.Warn("model invocation failed, using rule-based prediction", map[string]any{"err": err})
		return ruleBasedPrediction(o)
	}
	return Prediction{Risk: FromProbability(prob), Mode: ModeModel, Probability: &prob}
}

func FromProbability(p float64) Risk {
	switch {
	case p >= highProbability:
		return High
	case p >= mediumProbability:
		return Medium
	default:
		return Low
	}
}

func ruleBasedPrediction(o Observation) Prediction {
	return Prediction{Risk: RuleBased(o), Mode: ModeRuleBased}
}

var seriousBathroom = []string{"diarrhea", "constipation", "frequent urination", "straining", "blood", "soiling"}

// RuleBased es la red de seguridad binaria: nunca devuelve medium.
func RuleBased(o Observation) Risk {
	act, food, water, bathroom := Normalize(o.Activity), Normalize(o.Food), Normalize(o.Water), Normalize(o.Bathroom)
	lowActivity := strings.Contains(act, "low")

	serious := strings.Contains(food, "not eating") ||
		strings.Contains(water, "not drinking") ||
		containsAny(bathroom, seriousBathroom) ||
		o.SymptomCount >= 2 ||
		lowActivity
	minor := strings.Contains(food, "eating less") || strings.Contains(water, "drinking less")

	if serious || (minor && lowActivity) {
		return High
	}
	return Low
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
