package risk

import (
	"fmt"
	"strings"

	"pet-behavior-analysis/internal/domain/behaviorlogs"
	"pet-behavior-analysis/internal/platform/logger"
)

// ContextWindow es la cantidad de logs recientes que mira el análisis contextual.
const ContextWindow = 14

// ContextStats son las proporciones sobre la ventana (0..1, salvo BadBathroom que suma categorías).
type ContextStats struct {
	Window           int     `json:"window"`
	LowActivity      float64 `json:"low_activity"`
	LowActivityCount int     `json:"low_activity_count"`
	NotEating        float64 `json:"not_eating"`
	EatingLess       float64 `json:"eating_less"`
	NotDrinking      float64 `json:"not_drinking"`
	DrinkingLess     float64 `json:"drinking_less"`
	BadBathroom      float64 `json:"bad_bathroom"`
	SuddenFood       bool    `json:"sudden_food_change"`
	SuddenWater      bool    `json:"sudden_water_change"`
}

type ContextResult struct {
	Risk  Risk         `json:"risk"`
	Stats ContextStats `json:"stats"`
}

var badBathroomTerms = []string{"diarrhea", "constipation", "straining", "blood", "soiling", "frequent urination"}

// AnalyzeContext no propaga errores: ante cualquier falla devuelve low y loguea.
func AnalyzeContext(logs []behaviorlogs.BehaviorLog, log logger.Logger) (res ContextResult) {
	if log == nil {
		log = logger.Nop()
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("contextual analysis failed", map[string]any{"panic": fmt.Sprint(r)})
			res = ContextResult{Risk: Low}
		}
	}()

	window := recentWindow(logs, ContextWindow)
	if len(window) == 0 {
		return ContextResult{Risk: Low}
	}

	st := windowStats(window)
	return ContextResult{Risk: contextualVerdict(st), Stats: st}
}

func recentWindow(logs []behaviorlogs.BehaviorLog, n int) []behaviorlogs.BehaviorLog {
	sorted := append([]behaviorlogs.BehaviorLog(nil), logs...)
	behaviorlogs.SortByDate(sorted)
	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted
}

func windowStats(window []behaviorlogs.BehaviorLog) ContextStats {
	n := float64(len(window))
	var lowAct, notEat, eatLess, notDrink, drinkLess, badBath int
	for _, l := range window {
		act, food, water, bath := Normalize(l.ActivityLevel), Normalize(l.FoodIntake), Normalize(l.WaterIntake), Normalize(l.BathroomHabits)
		if strings.Contains(act, "low") {
			lowAct++
		}
		if strings.Contains(food, "not eating") || strings.Contains(food, "weight loss") {
			notEat++
		}
		if strings.Contains(food, "eating less") {
			eatLess++
		}
		if strings.Contains(water, "not drinking") {
			notDrink++
		}
		if strings.Contains(water, "drinking less") {
			drinkLess++
		}
		for _, term := range badBathroomTerms {
			if strings.Contains(bath, term) {
				badBath++
			}
		}
	}

	st := ContextStats{
		Window:           len(window),
		LowActivity:      float64(lowAct) / n,
		LowActivityCount: lowAct,
		NotEating:        float64(notEat) / n,
		EatingLess:       float64(eatLess) / n,
		NotDrinking:      float64(notDrink) / n,
		DrinkingLess:     float64(drinkLess) / n,
		BadBathroom:      float64(badBath) / n,
	}

	if len(window) >= 2 {
		baseline, latest := window[:len(window)-1], window[len(window)-1]
		st.SuddenFood = suddenChange(baseline, latest, func(l behaviorlogs.BehaviorLog) string { return l.FoodIntake },
			"eating less", "not eating")
		st.SuddenWater = suddenChange(baseline, latest, func(l behaviorlogs.BehaviorLog) string { return l.WaterIntake },
			"drinking less", "not drinking")
	}
	return st
}

// suddenChange: la línea base era mayormente normal (>50%) y el último log está degradado.
func suddenChange(baseline []behaviorlogs.BehaviorLog, latest behaviorlogs.BehaviorLog, field func(behaviorlogs.BehaviorLog) string, degraded ...string) bool {
	normal := 0
	for _, l := range baseline {
		if Normalize(field(l)) == "normal" {
			normal++
		}
	}
	if float64(normal)/float64(len(baseline)) <= 0.5 {
		return false
	}
	return containsAny(Normalize(field(latest)), degraded)
}

// contextualVerdict: primera regla que aplica gana.
func contextualVerdict(st ContextStats) Risk {
	switch {
	case (st.NotEating > 0.5 || st.NotDrinking > 0.5) && (st.LowActivityCount >= 2 || st.BadBathroom > 0.3):
		return High
	case st.LowActivity > 0.7 || st.NotEating > 0.3 || st.NotDrinking > 0.3 || st.BadBathroom > 0.5 ||
		st.SuddenFood || st.SuddenWater:
		return Medium
	default:
		return Low
	}
}
