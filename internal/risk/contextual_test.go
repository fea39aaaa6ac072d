package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pet-behavior-analysis/internal/domain/behaviorlogs"
	"pet-behavior-analysis/internal/platform/logger"
)

var day0 = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

func logOn(i int, activity, food, water, bathroom string) behaviorlogs.BehaviorLog {
	return behaviorlogs.BehaviorLog{
		PetID:          "p1",
		LogDate:        day0.AddDate(0, 0, i),
		ActivityLevel:  activity,
		FoodIntake:     food,
		WaterIntake:    water,
		BathroomHabits: bathroom,
		Symptoms:       behaviorlogs.EmptySymptoms,
	}
}

func TestAnalyzeContext_NotEatingWithLowActivityIsHigh(t *testing.T) {
	var logs []behaviorlogs.BehaviorLog
	for i := 0; i < 14; i++ {
		logs = append(logs, logOn(i, "low", "not eating", "normal", "normal"))
	}

	res := AnalyzeContext(logs, logger.Nop())
	assert.Equal(t, High, res.Risk)
	assert.Equal(t, 14, res.Stats.Window)
	assert.InDelta(t, 1.0, res.Stats.NotEating, 1e-9)
}

func TestAnalyzeContext_MostlyLowActivityIsMedium(t *testing.T) {
	var logs []behaviorlogs.BehaviorLog
	for i := 0; i < 14; i++ {
		act := "normal"
		if i < 10 {
			act = "low"
		}
		logs = append(logs, logOn(i, act, "normal", "normal", "normal"))
	}

	res := AnalyzeContext(logs, logger.Nop())
	assert.Equal(t, Medium, res.Risk)
	assert.Equal(t, 10, res.Stats.LowActivityCount)
}

func TestAnalyzeContext_NormalWindowIsLow(t *testing.T) {
	var logs []behaviorlogs.BehaviorLog
	for i := 0; i < 14; i++ {
		act := "normal"
		if i%2 == 0 {
			act = "high"
		}
		logs = append(logs, logOn(i, act, "normal", "normal", "normal"))
	}

	assert.Equal(t, Low, AnalyzeContext(logs, logger.Nop()).Risk)
}

func TestAnalyzeContext_SuddenFoodChangeIsMedium(t *testing.T) {
	var logs []behaviorlogs.BehaviorLog
	for i := 0; i < 6; i++ {
		logs = append(logs, logOn(i, "normal", "normal", "normal", "normal"))
	}
	logs = append(logs, logOn(6, "normal", "eating less", "normal", "normal"))

	res := AnalyzeContext(logs, logger.Nop())
	assert.Equal(t, Medium, res.Risk)
	assert.True(t, res.Stats.SuddenFood)
	assert.False(t, res.Stats.SuddenWater)
}

func TestAnalyzeContext_AbnormalBaselineIsNotNormal(t *testing.T) {
	var logs []behaviorlogs.BehaviorLog
	for i := 0; i < 6; i++ {
		logs = append(logs, logOn(i, "normal", "Abnormal", "normal", "normal"))
	}
	logs = append(logs, logOn(6, "normal", "eating less", "normal", "normal"))

	res := AnalyzeContext(logs, logger.Nop())
	assert.False(t, res.Stats.SuddenFood)
}

func TestAnalyzeContext_OnlyRecentWindowCounts(t *testing.T) {
	var logs []behaviorlogs.BehaviorLog
	for i := 0; i < 14; i++ {
		logs = append(logs, logOn(20+i, "normal", "normal", "normal", "normal"))
	}
	// logs viejos, fuera de la ventana; llegan desordenados
	for i := 0; i < 10; i++ {
		logs = append(logs, logOn(i, "low", "not eating", "not drinking", "diarrhea"))
	}

	res := AnalyzeContext(logs, logger.Nop())
	assert.Equal(t, Low, res.Risk)
	assert.Equal(t, 14, res.Stats.Window)
}

func TestAnalyzeContext_EmptyIsLow(t *testing.T) {
	assert.Equal(t, Low, AnalyzeContext(nil, nil).Risk)
}
