package health

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-behavior-analysis/internal/domain/behaviorlogs"
)

func TestKnowledge_Resolve(t *testing.T) {
	cases := map[string]string{
		"Blood in stool":       "blood_urine",
		"bloody urine":         "blood_urine",
		"Vomiting":             "vomiting",
		"diarrhea since today": "diarrhea",
		"loss of appetite":     "loss_of_appetite",
		"not eating":           "loss_of_appetite",
		"drinking less":        "reduced_water_intake",
		"had a seizure":        "seizures",
	}
	for text, want := range cases {
		got, ok := Knowledge.Resolve(text)
		require.True(t, ok, text)
		assert.Equal(t, want, got, text)
	}

	_, ok := Knowledge.Resolve("sleeps on the couch")
	assert.False(t, ok)
}

func TestKnowledge_LookupReturnsCopy(t *testing.T) {
	r, ok := Knowledge.Lookup("vomiting")
	require.True(t, ok)
	r.PossibleCauses[0] = "changed"

	again, _ := Knowledge.Lookup("vomiting")
	assert.NotEqual(t, "changed", again.PossibleCauses[0])
}

func TestUrgency_Order(t *testing.T) {
	assert.Equal(t, UrgencyCritical, MaxUrgency(UrgencyHigh, UrgencyCritical))
	assert.Equal(t, UrgencyMedium, MaxUrgency(UrgencyMedium, UrgencyLow))
	assert.Equal(t, UrgencyLow, MaxUrgency(UrgencyNone, UrgencyLow))
}

func TestGenerateGuidance_NoConcernsIsNil(t *testing.T) {
	assert.Nil(t, GenerateGuidance(nil, IllnessPattern{}))
}

func TestGenerateGuidance_AggregatesUrgencyAndDirective(t *testing.T) {
	concerns := []Concern{
		{Description: "Eating less than usual", Feature: "food_intake", Value: "eating less", Reference: "decreased_appetite", Source: SourceBehavior},
		{Description: "Reported symptom: seizure", Feature: FeatureSymptom, Value: "seizure", Reference: "seizures", Source: SourceSymptom},
	}

	g := GenerateGuidance(concerns, IllnessPattern{})
	require.NotNil(t, g)
	assert.Equal(t, UrgencyCritical, g.Urgency)
	require.NotEmpty(t, g.Recommendations)
	assert.Equal(t, tierDirective[UrgencyCritical], g.Recommendations[0])
	assert.Len(t, g.Entries, 2)
}

func TestGenerateGuidance_PersistenceUpgradesToHigh(t *testing.T) {
	concerns := []Concern{
		{Description: "Eating less than usual", Feature: "food_intake", Value: "eating less", Reference: "decreased_appetite"},
	}
	chronic := PatternChronic
	pattern := IllnessPattern{DurationDays: 9, IsPersistent: true, PatternType: &chronic, LongestStreakDays: 9}

	g := GenerateGuidance(concerns, pattern)
	require.NotNil(t, g)
	assert.Equal(t, UrgencyHigh, g.Urgency)
	assert.Contains(t, g.Recommendations[0], "9 days")
	assert.Equal(t, tierDirective[UrgencyHigh], g.Recommendations[1])
	require.NotEmpty(t, g.PatternContext)
	assert.Contains(t, g.PatternContext[0], "chronic")
}

func TestGenerateGuidance_UnknownConcernGetsGenericEntry(t *testing.T) {
	g := GenerateGuidance([]Concern{
		{Description: "Reported symptom: sleeps a lot", Feature: FeatureSymptom, Value: "sleeps a lot", Urgency: UrgencyLow},
	}, IllnessPattern{})

	require.NotNil(t, g)
	require.Len(t, g.Entries, 1)
	assert.Equal(t, UrgencyLow, g.Entries[0].Urgency)
	assert.Empty(t, g.Entries[0].Reference)
	assert.Contains(t, g.Entries[0].Action, "sleeps a lot")
}

func TestGenerateGuidance_RecommendationsCappedAndUnique(t *testing.T) {
	var concerns []Concern
	for _, ref := range []string{"vomiting", "diarrhea", "coughing", "sneezing", "itching", "limping", "weight_loss", "lethargy", "vomiting"} {
		concerns = append(concerns, Concern{Description: ref, Feature: FeatureSymptom, Value: ref, Reference: ref})
	}
	pattern := IllnessPattern{DurationDays: 8, IsPersistent: true}

	g := GenerateGuidance(concerns, pattern)
	require.NotNil(t, g)
	assert.LessOrEqual(t, len(g.Recommendations), maxRecommendations)

	seen := map[string]bool{}
	for _, r := range g.Recommendations {
		k := strings.ToLower(r)
		assert.False(t, seen[k], "duplicate %q", r)
		seen[k] = true
	}
}

func TestBuildConcerns_LatestAndRecurring(t *testing.T) {
	logs := []behaviorlogs.BehaviorLog{
		healthyLog(0),
		sickLog(1, ""),
		healthyLog(2),
		sickLog(3, `["Vomiting", "none"]`),
	}

	concerns := BuildConcerns(logs)

	var sources []Source
	refs := map[string]bool{}
	for _, c := range concerns {
		sources = append(sources, c.Source)
		refs[c.Reference] = true
	}
	assert.Contains(t, sources, SourceBehavior)
	assert.Contains(t, sources, SourceSymptom)
	assert.Contains(t, sources, SourceRecent)
	assert.True(t, refs["lethargy"])
	assert.True(t, refs["decreased_appetite"])
	assert.True(t, refs["vomiting"])

	// dos del último log + un síntoma + dos recurrentes
	assert.Len(t, concerns, 5)
}

func TestRecentConcerns_OutsideWeekIgnored(t *testing.T) {
	logs := []behaviorlogs.BehaviorLog{sickLog(0, ""), sickLog(1, ""), healthyLog(20)}
	assert.Empty(t, RecentConcerns(logs))
}
