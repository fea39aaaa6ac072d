package health

import (
	"fmt"
	"strings"
)

const maxRecommendations = 7

var tierDirective = map[Urgency]string{
	UrgencyCritical: "Seek emergency veterinary care immediately.",
	UrgencyHigh:     "Contact your veterinarian today for a same-day appointment.",
	UrgencyMedium:   "Schedule a veterinary visit within the next 24-48 hours if signs continue.",
	UrgencyLow:      "Keep monitoring and mention these observations at your next routine checkup.",
	UrgencyNone:     "Keep monitoring and mention these observations at your next routine checkup.",
}

type GuidanceEntry struct {
	Concern        string   `json:"concern"`
	Feature        string   `json:"feature"`
	Value          string   `json:"value"`
	Source         Source   `json:"source"`
	Reference      string   `json:"reference,omitempty"`
	Description    string   `json:"description"`
	PossibleCauses []string `json:"possible_causes"`
	Urgency        Urgency  `json:"urgency"`
	Action         string   `json:"action"`
}

type Guidance struct {
	Urgency         Urgency         `json:"urgency"`
	Persistent      bool            `json:"persistent"`
	Entries         []GuidanceEntry `json:"concerns"`
	Recommendations []string        `json:"recommendations"`
	PatternContext  []string        `json:"pattern_context"`
}

// GenerateGuidance devuelve nil si no hay preocupaciones.
func GenerateGuidance(concerns []Concern, pattern IllnessPattern) *Guidance {
	if len(concerns) == 0 {
		return nil
	}

	g := &Guidance{Urgency: UrgencyNone, Persistent: pattern.IsPersistent}
	for _, c := range dedupConcerns(concerns) {
		e := resolveEntry(c)
		g.Entries = append(g.Entries, e)
		g.Urgency = MaxUrgency(g.Urgency, e.Urgency)
	}

	var recs []string
	if pattern.IsPersistent {
		g.Urgency = MaxUrgency(g.Urgency, UrgencyHigh)
		recs = append(recs, fmt.Sprintf(
			"Signs of illness have persisted for %d days; book a veterinary exam even if they seem mild.",
			pattern.DurationDays))
	}
	recs = append(recs, tierDirective[g.Urgency])
	for _, e := range g.Entries {
		recs = append(recs, e.Action)
	}
	g.Recommendations = capList(dedupFold(recs), maxRecommendations)
	g.PatternContext = PatternContext(pattern)
	return g
}

func resolveEntry(c Concern) GuidanceEntry {
	e := GuidanceEntry{
		Concern: c.Description,
		Feature: c.Feature,
		Value:   c.Value,
		Source:  c.Source,
	}

	ref, ok := Knowledge.Lookup(c.Reference)
	if !ok {
		if key, found := Knowledge.Resolve(c.Value); found {
			ref, ok = Knowledge.Lookup(key)
		}
	}
	if ok {
		e.Reference = ref.Key
		e.Description = ref.Description
		e.PossibleCauses = ref.PossibleCauses
		e.Urgency = ref.Urgency
		e.Action = ref.Action
		return e
	}

	// sin referencia: entrada genérica con la urgencia propia
	e.Urgency = c.Urgency
	if e.Urgency == "" {
		e.Urgency = UrgencyMedium
	}
	e.Description = c.Description
	e.PossibleCauses = []string{}
	e.Action = fmt.Sprintf("Monitor %q closely and consult your veterinarian if it continues or worsens.", c.Value)
	return e
}

// PatternContext traduce el patrón de enfermedad a viñetas para el dueño.
func PatternContext(p IllnessPattern) []string {
	var out []string
	if p.PatternType != nil {
		switch *p.PatternType {
		case PatternAcute:
			out = append(out, "Recent signs look acute: a short episode rather than a long-term problem.")
		case PatternChronic:
			out = append(out, fmt.Sprintf("Signs look chronic: the longest unhealthy stretch lasted %d days.", p.LongestStreakDays))
		case PatternCyclical:
			out = append(out, fmt.Sprintf("Signs come and go: %d separate unhealthy periods were logged.", p.UnhealthyPeriods))
		case PatternImproving:
			out = append(out, "Recent logs look healthier than the main unhealthy period; your pet appears to be improving.")
		case PatternWorsening:
			out = append(out, "The number of symptoms increased day by day during the main unhealthy period.")
		}
	}
	if n := len(p.SuddenChanges); n > 0 {
		last := p.SuddenChanges[n-1]
		out = append(out, fmt.Sprintf("Most recent sudden change on %s (%s).", last.Date.Format("2006-01-02"),
			strings.TrimPrefix(last.Description, "Shift from healthy to unhealthy: ")))
	}
	if p.RecoveryHistory {
		out = append(out, "Your pet has recovered from earlier unhealthy periods; compare the current signs with those episodes.")
	}
	return out
}

// dedupFold quita duplicados sin distinguir mayúsculas, conservando el primero.
func dedupFold(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

func capList(in []string, n int) []string {
	if len(in) > n {
		return in[:n]
	}
	return in
}
