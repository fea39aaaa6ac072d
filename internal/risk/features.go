package risk

import (
	"strings"

	"github.com/goccy/go-json"

	"pet-behavior-analysis/internal/domain/behaviorlogs"
)

// Feature identifica una de las cuatro columnas categóricas.
type Feature string

const (
	FeatureActivity Feature = "activity_level"
	FeatureFood     Feature = "food_intake"
	FeatureWater    Feature = "water_intake"
	FeatureBathroom Feature = "bathroom_habits"
)

// NumFeatures = 4 categóricas + cantidad de síntomas.
const NumFeatures = 5

var placeholderSymptoms = map[string]struct{}{
	"none of the above": {},
	"":                  {},
	"none":              {},
	"unknown":           {},
}

// Normalize: minúsculas y sin espacios en los bordes.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseSymptoms decodifica la lista JSON de síntomas. Vacío o inválido = lista vacía.
func ParseSymptoms(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

// FilterSymptoms normaliza y descarta placeholders ("none", "unknown", ...).
func FilterSymptoms(symptoms []string) []string {
	out := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		n := Normalize(s)
		if _, skip := placeholderSymptoms[n]; skip {
			continue
		}
		out = append(out, n)
	}
	return out
}

// SymptomCount cuenta síntomas reales en el JSON crudo.
func SymptomCount(raw string) int {
	return len(FilterSymptoms(ParseSymptoms(raw)))
}

// Observation es una fila ya normalizada lista para etiquetar/codificar.
type Observation struct {
	Activity     string
	Food         string
	Water        string
	Bathroom     string
	SymptomCount int
}

func ObservationFromLog(l behaviorlogs.BehaviorLog) Observation {
	return Observation{
		Activity:     Normalize(l.ActivityLevel),
		Food:         Normalize(l.FoodIntake),
		Water:        Normalize(l.WaterIntake),
		Bathroom:     Normalize(l.BathroomHabits),
		SymptomCount: SymptomCount(l.Symptoms),
	}
}

func (o Observation) value(f Feature) string {
	switch f {
	case FeatureActivity:
		return o.Activity
	case FeatureFood:
		return o.Food
	case FeatureWater:
		return o.Water
	default:
		return o.Bathroom
	}
}

// Label es la etiqueta de entrenamiento derivada de la propia fila. Se usa tanto
// al entrenar como en la autoevaluación, así que no puede divergir.
func Label(o Observation) bool {
	food, water, bathroom := Normalize(o.Food), Normalize(o.Water), Normalize(o.Bathroom)
	switch {
	case food == "not eating" || food == "eating less":
		return true
	case water == "not drinking" || water == "drinking less":
		return true
	case bathroom == "diarrhea" || bathroom == "constipation" || bathroom == "frequent urination":
		return true
	case o.SymptomCount >= 2:
		return true
	case Normalize(o.Activity) == "low":
		return true
	}
	return false
}

// LabelIndex es el mapa valor -> índice de una feature, construido al entrenar.
type LabelIndex struct {
	Classes    []string       `json:"classes"`
	Index      map[string]int `json:"index"`
	MostCommon string         `json:"most_common"`
}

// FitLabelIndex indexa los valores en orden de primera aparición y guarda el más frecuente
// (empate: el que apareció primero).
func FitLabelIndex(values []string) LabelIndex {
	li := LabelIndex{Index: map[string]int{}}
	counts := map[string]int{}
	for _, v := range values {
		v = Normalize(v)
		if _, ok := li.Index[v]; !ok {
			li.Index[v] = len(li.Classes)
			li.Classes = append(li.Classes, v)
		}
		counts[v]++
	}
	best := -1
	for _, c := range li.Classes {
		if counts[c] > best {
			best = counts[c]
			li.MostCommon = c
		}
	}
	return li
}

// resolveStep es un escalón de la cadena de resolución de valores no vistos.
type resolveStep func(li LabelIndex, f Feature, v string) (int, bool)

// resolveLadder en orden: match exacto, heurística por keywords, valor más común.
var resolveLadder = []resolveStep{
	func(li LabelIndex, _ Feature, v string) (int, bool) {
		idx, ok := li.Index[v]
		return idx, ok
	},
	func(li LabelIndex, f Feature, v string) (int, bool) {
		canon, ok := keywordCanonical(f, v)
		if !ok {
			return 0, false
		}
		idx, ok := li.Index[canon]
		return idx, ok
	},
	func(li LabelIndex, _ Feature, _ string) (int, bool) {
		if li.MostCommon == "" {
			return 0, false
		}
		idx, ok := li.Index[li.MostCommon]
		return idx, ok
	},
}

// Resolve codifica v. ok=false significa que ningún escalón resolvió y el
// caller debe caer al predictor por reglas.
func (li LabelIndex) Resolve(f Feature, v string) (int, bool) {
	v = Normalize(v)
	for _, step := range resolveLadder {
		if idx, ok := step(li, f, v); ok {
			return idx, true
		}
	}
	return 0, false
}

type keywordRule struct {
	keywords  []string
	canonical string
}

// Orden importa: "not eating" antes que "eating less", etc.
var keywordRules = map[Feature][]keywordRule{
	FeatureActivity: {
		{[]string{"low"}, "low"},
		{[]string{"high"}, "high"},
		{[]string{"medium", "normal", "moderate"}, "medium"},
	},
	FeatureFood: {
		{[]string{"not eating", "no appetite", "refusing food"}, "not eating"},
		{[]string{"eating less", "reduced appetite"}, "eating less"},
		{[]string{"weight loss"}, "weight loss"},
		{[]string{"eating more", "increased appetite"}, "eating more"},
		{[]string{"normal"}, "normal"},
	},
	FeatureWater: {
		{[]string{"not drinking", "no water", "refusing water"}, "not drinking"},
		{[]string{"drinking less", "reduced thirst", "reduced water"}, "drinking less"},
		{[]string{"drinking more", "excessive", "increased thirst"}, "drinking more"},
		{[]string{"normal"}, "normal"},
	},
	FeatureBathroom: {
		{[]string{"diarrhea", "loose stool"}, "diarrhea"},
		{[]string{"constipation", "constipated"}, "constipation"},
		{[]string{"frequent urination", "urinating often"}, "frequent urination"},
		{[]string{"straining"}, "straining"},
		{[]string{"blood"}, "blood in stool"},
		{[]string{"soiling", "accident"}, "house soiling"},
		{[]string{"normal"}, "normal"},
	},
}

func keywordCanonical(f Feature, v string) (string, bool) {
	for _, rule := range keywordRules[f] {
		for _, kw := range rule.keywords {
			if strings.Contains(v, kw) {
				return rule.canonical, true
			}
		}
	}
	return "", false
}

// Encoders agrupa los índices de las cuatro features categóricas.
type Encoders struct {
	Activity LabelIndex `json:"activity"`
	Food     LabelIndex `json:"food"`
	Water    LabelIndex `json:"water"`
	Bathroom LabelIndex `json:"bathroom"`
}

func FitEncoders(obs []Observation) Encoders {
	cols := map[Feature][]string{}
	for _, o := range obs {
		for _, f := range []Feature{FeatureActivity, FeatureFood, FeatureWater, FeatureBathroom} {
			cols[f] = append(cols[f], o.value(f))
		}
	}
	return Encoders{
		Activity: FitLabelIndex(cols[FeatureActivity]),
		Food:     FitLabelIndex(cols[FeatureFood]),
		Water:    FitLabelIndex(cols[FeatureWater]),
		Bathroom: FitLabelIndex(cols[FeatureBathroom]),
	}
}

func (e Encoders) index(f Feature) LabelIndex {
	switch f {
	case FeatureActivity:
		return e.Activity
	case FeatureFood:
		return e.Food
	case FeatureWater:
		return e.Water
	default:
		return e.Bathroom
	}
}

// Encode arma el vector [act, food, water, bathroom, symptom_count].
// Devuelve la feature que no se pudo resolver, si alguna.
func (e Encoders) Encode(o Observation) ([]float64, Feature, bool) {
	vec := make([]float64, 0, NumFeatures)
	for _, f := range []Feature{FeatureActivity, FeatureFood, FeatureWater, FeatureBathroom} {
		idx, ok := e.index(f).Resolve(f, o.value(f))
		if !ok {
			return nil, f, false
		}
		vec = append(vec, float64(idx))
	}
	return append(vec, float64(o.SymptomCount)), "", true
}

func (e Encoders) valid() bool {
	return len(e.Activity.Index) > 0 && len(e.Food.Index) > 0 &&
		len(e.Water.Index) > 0 && len(e.Bathroom.Index) > 0
}
