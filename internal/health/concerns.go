package health

import (
	"fmt"
	"strings"
	"time"

	"pet-behavior-analysis/internal/domain/behaviorlogs"
	"pet-behavior-analysis/internal/risk"
)

type Source string

const (
	SourceBehavior Source = "behavior"
	SourceSymptom  Source = "symptom"
	SourceRecent   Source = "7day"
)

const (
	FeatureSymptom = "symptom"
	recentDays     = 7
	recentMinDays  = 2
)

// Concern es una observación preocupante lista para cruzar con la base de conocimiento.
type Concern struct {
	Description string  `json:"description"`
	Feature     string  `json:"feature"`
	Value       string  `json:"value"`
	Reference   string  `json:"reference,omitempty"`
	Urgency     Urgency `json:"urgency"`
	Source      Source  `json:"source"`
}

type behaviorRule struct {
	feature   risk.Feature
	terms     []string
	desc      string
	reference string
}

var behaviorRules = []behaviorRule{
	{risk.FeatureActivity, []string{"low"}, "Low activity level", "lethargy"},
	{risk.FeatureFood, []string{"not eating"}, "Not eating", "loss_of_appetite"},
	{risk.FeatureFood, []string{"eating less"}, "Eating less than usual", "decreased_appetite"},
	{risk.FeatureFood, []string{"weight loss"}, "Weight loss", "weight_loss"},
	{risk.FeatureWater, []string{"not drinking"}, "Not drinking water", "dehydration"},
	{risk.FeatureWater, []string{"drinking less"}, "Drinking less than usual", "reduced_water_intake"},
	{risk.FeatureWater, []string{"drinking more", "excessive"}, "Drinking more than usual", "excessive_thirst"},
	{risk.FeatureBathroom, []string{"diarrhea"}, "Diarrhea", "diarrhea"},
	{risk.FeatureBathroom, []string{"constipation"}, "Constipation", "constipation"},
	{risk.FeatureBathroom, []string{"frequent urination"}, "Frequent urination", "frequent_urination"},
	{risk.FeatureBathroom, []string{"blood"}, "Blood in urine or stool", "blood_urine"},
	{risk.FeatureBathroom, []string{"straining"}, "Straining in the litter box or on walks", "straining"},
	{risk.FeatureBathroom, []string{"soiling", "accident"}, "House soiling", "house_soiling"},
}

func fieldValue(l behaviorlogs.BehaviorLog, f risk.Feature) string {
	switch f {
	case risk.FeatureActivity:
		return l.ActivityLevel
	case risk.FeatureFood:
		return l.FoodIntake
	case risk.FeatureWater:
		return l.WaterIntake
	default:
		return l.BathroomHabits
	}
}

func BehaviorConcerns(l behaviorlogs.BehaviorLog) []Concern {
	var out []Concern
	for _, rule := range behaviorRules {
		v := risk.Normalize(fieldValue(l, rule.feature))
		if !containsAnyTerm(v, rule.terms) {
			continue
		}
		out = append(out, Concern{
			Description: rule.desc,
			Feature:     string(rule.feature),
			Value:       v,
			Reference:   rule.reference,
			Urgency:     referenceUrgency(rule.reference, UrgencyMedium),
			Source:      SourceBehavior,
		})
	}
	return out
}

func SymptomConcerns(l behaviorlogs.BehaviorLog) []Concern {
	var out []Concern
	for _, s := range risk.FilterSymptoms(risk.ParseSymptoms(l.Symptoms)) {
		ref, _ := Knowledge.Resolve(s)
		out = append(out, Concern{
			Description: "Reported symptom: " + s,
			Feature:     FeatureSymptom,
			Value:       s,
			Reference:   ref,
			Urgency:     referenceUrgency(ref, UrgencyMedium),
			Source:      SourceSymptom,
		})
	}
	return out
}

// RecentConcerns marca problemas de comportamiento repetidos en al menos dos
// días distintos de la semana que termina en el último log.
func RecentConcerns(logs []behaviorlogs.BehaviorLog) []Concern {
	if len(logs) == 0 {
		return nil
	}
	sorted := append([]behaviorlogs.BehaviorLog(nil), logs...)
	behaviorlogs.SortByDate(sorted)
	latest := sorted[len(sorted)-1].LogDate.UTC().Truncate(24 * time.Hour)
	from := latest.AddDate(0, 0, -(recentDays - 1))

	type key struct{ feature, reference string }
	days := map[key]map[time.Time]struct{}{}
	first := map[key]Concern{}
	var order []key

	for _, l := range sorted {
		d := l.LogDate.UTC().Truncate(24 * time.Hour)
		if d.Before(from) {
			continue
		}
		for _, c := range BehaviorConcerns(l) {
			k := key{c.Feature, c.Reference}
			if _, ok := days[k]; !ok {
				days[k] = map[time.Time]struct{}{}
				first[k] = c
				order = append(order, k)
			}
			days[k][d] = struct{}{}
		}
	}

	var out []Concern
	for _, k := range order {
		n := len(days[k])
		if n < recentMinDays {
			continue
		}
		c := first[k]
		c.Description = fmt.Sprintf("%s on %d of the last %d days", c.Description, n, recentDays)
		c.Source = SourceRecent
		out = append(out, c)
	}
	return out
}

// BuildConcerns junta comportamiento + síntomas del último log y lo recurrente
// de la semana, deduplicado por (referencia, descripción, feature).
func BuildConcerns(logs []behaviorlogs.BehaviorLog) []Concern {
	if len(logs) == 0 {
		return nil
	}
	sorted := append([]behaviorlogs.BehaviorLog(nil), logs...)
	behaviorlogs.SortByDate(sorted)
	latest := sorted[len(sorted)-1]

	all := BehaviorConcerns(latest)
	all = append(all, SymptomConcerns(latest)...)
	all = append(all, RecentConcerns(sorted)...)
	return dedupConcerns(all)
}

func dedupConcerns(in []Concern) []Concern {
	type key struct{ ref, desc, feature string }
	seen := map[key]struct{}{}
	out := make([]Concern, 0, len(in))
	for _, c := range in {
		k := key{c.Reference, strings.ToLower(c.Description), c.Feature}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	return out
}

func referenceUrgency(ref string, def Urgency) Urgency {
	if r, ok := Knowledge.Lookup(ref); ok {
		return r.Urgency
	}
	return def
}

func containsAnyTerm(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
