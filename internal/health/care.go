package health

import (
	"slices"
	"strings"

	"pet-behavior-analysis/internal/domain/behaviorlogs"
	"pet-behavior-analysis/internal/risk"
)

const (
	maxCareActions      = 10
	maxCareExpectations = 8
	activityShare       = 0.5
)

type CarePlan struct {
	Actions      []string `json:"actions"`
	Expectations []string `json:"expectations"`
}

type careTemplate struct {
	actions      []string
	expectations []string
}

var riskTemplates = map[risk.Risk]careTemplate{
	risk.Low: {
		actions: []string{
			"Keep the current feeding and exercise routine.",
			"Continue daily behavior logs to build a reliable baseline.",
		},
		expectations: []string{
			"Your pet should keep normal energy, appetite and bathroom habits.",
		},
	},
	risk.Medium: {
		actions: []string{
			"Watch appetite, water intake and bathroom habits closely for the next 48 hours.",
			"Offer small, frequent meals and fresh water.",
			"Call your veterinarian if signs persist or new symptoms appear.",
		},
		expectations: []string{
			"Mild signs often settle within a few days with rest and monitoring.",
			"A vet visit may be needed if there is no improvement within 48 hours.",
		},
	},
	risk.High: {
		actions: []string{
			"Contact your veterinarian today to discuss the recent changes.",
			"Limit strenuous activity and keep your pet in a calm, comfortable space.",
			"Write down when each sign started to share with the vet.",
		},
		expectations: []string{
			"A veterinary exam and possibly diagnostic tests are likely.",
			"Early treatment usually shortens recovery time.",
		},
	},
}

var activityTemplates = map[string]careTemplate{
	"low": {
		actions: []string{
			"Encourage short, gentle walks or play sessions.",
			"Check for signs of pain such as limping or reluctance to jump.",
		},
		expectations: []string{
			"Energy should return gradually once any underlying issue is addressed.",
		},
	},
	"high": {
		actions: []string{
			"Provide enough exercise and mental stimulation to channel high energy.",
			"Make sure water is always available after exercise.",
		},
		expectations: []string{
			"Active pets need more calories and water; adjust portions accordingly.",
		},
	},
	"normal": {
		actions: []string{
			"Maintain regular daily exercise.",
		},
		expectations: []string{
			"A steady activity level is a good sign of overall health.",
		},
	},
}

var generalCare = careTemplate{
	actions: []string{
		"Keep fresh water available at all times.",
		"Provide daily enrichment with toys, puzzles or new walking routes.",
		"Keep logging daily behavior so changes are caught early.",
	},
	expectations: []string{
		"Consistent logging makes future risk estimates more accurate.",
	},
}

const escalationLine = "If your pet stops eating or drinking, has trouble breathing, or collapses, go to an emergency vet immediately."

// ActivityDistribution es la proporción de cada nivel de actividad normalizado.
func ActivityDistribution(logs []behaviorlogs.BehaviorLog) map[string]float64 {
	out := map[string]float64{}
	if len(logs) == 0 {
		return out
	}
	for _, l := range logs {
		out[risk.Normalize(l.ActivityLevel)]++
	}
	for k := range out {
		out[k] /= float64(len(logs))
	}
	return out
}

// DominantActivity: el nivel más frecuente; empate por orden alfabético.
func DominantActivity(dist map[string]float64) string {
	keys := make([]string, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	best, bestShare := "", -1.0
	for _, k := range keys {
		if dist[k] > bestShare {
			best, bestShare = k, dist[k]
		}
	}
	return best
}

// activityBucket agrupa el nivel dominante en low/high/normal.
func activityBucket(dist map[string]float64) string {
	var low, high float64
	for k, v := range dist {
		switch {
		case strings.Contains(k, "low"):
			low += v
		case strings.Contains(k, "high"):
			high += v
		}
	}
	switch {
	case low > activityShare:
		return "low"
	case high > activityShare:
		return "high"
	}
	dom := DominantActivity(dist)
	switch {
	case strings.Contains(dom, "low"):
		return "low"
	case strings.Contains(dom, "high"):
		return "high"
	case dom == "":
		return ""
	default:
		return "normal"
	}
}

// BuildCare es función pura del nivel de riesgo y la distribución de actividad.
func BuildCare(level risk.Risk, dist map[string]float64) CarePlan {
	if !level.Valid() {
		level = risk.Low
	}
	var actions, expectations []string
	add := func(t careTemplate) {
		actions = append(actions, t.actions...)
		expectations = append(expectations, t.expectations...)
	}

	add(riskTemplates[level])
	if t, ok := activityTemplates[activityBucket(dist)]; ok {
		add(t)
	}
	add(generalCare)
	if level == risk.High {
		actions = append(actions, escalationLine)
	}

	return CarePlan{
		Actions:      capList(dedupFold(actions), maxCareActions),
		Expectations: capList(dedupFold(expectations), maxCareExpectations),
	}
}
