package health

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"pet-behavior-analysis/internal/domain/behaviorlogs"
	"pet-behavior-analysis/internal/risk"
)

func assertNoFoldDuplicates(t *testing.T, items []string) {
	t.Helper()
	seen := map[string]bool{}
	for _, it := range items {
		k := strings.ToLower(it)
		assert.False(t, seen[k], "duplicate %q", it)
		seen[k] = true
	}
}

func TestBuildCare_CapsAndNoDuplicates(t *testing.T) {
	dists := []map[string]float64{
		nil,
		{"low": 0.8, "normal": 0.2},
		{"high": 0.6, "normal": 0.4},
		{"normal": 1},
	}
	for _, lvl := range []risk.Risk{risk.Low, risk.Medium, risk.High, risk.Risk("bogus")} {
		for _, d := range dists {
			plan := BuildCare(lvl, d)
			assert.NotEmpty(t, plan.Actions)
			assert.LessOrEqual(t, len(plan.Actions), maxCareActions)
			assert.LessOrEqual(t, len(plan.Expectations), maxCareExpectations)
			assertNoFoldDuplicates(t, plan.Actions)
			assertNoFoldDuplicates(t, plan.Expectations)
		}
	}
}

func TestBuildCare_HighRiskEscalates(t *testing.T) {
	plan := BuildCare(risk.High, map[string]float64{"low": 0.7, "normal": 0.3})
	assert.Contains(t, plan.Actions, escalationLine)
	assert.Contains(t, plan.Actions, activityTemplates["low"].actions[0])

	low := BuildCare(risk.Low, map[string]float64{"normal": 1})
	assert.NotContains(t, low.Actions, escalationLine)
}

func TestActivityDistribution(t *testing.T) {
	var logs []behaviorlogs.BehaviorLog
	for i, act := range []string{"Low", "low", "normal", "high"} {
		l := healthyLog(i)
		l.ActivityLevel = act
		logs = append(logs, l)
	}
	dist := ActivityDistribution(logs)

	assert.InDelta(t, 0.5, dist["low"], 1e-9)
	assert.InDelta(t, 0.25, dist["high"], 1e-9)
	assert.Equal(t, "low", DominantActivity(dist))
	assert.Equal(t, "low", activityBucket(dist))
}
