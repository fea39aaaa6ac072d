package health

import (
	"fmt"
	"math"
	"time"

	"github.com/sajari/regression"

	"pet-behavior-analysis/internal/domain/behaviorlogs"
)

const (
	NoDataTrend    = "No data available."
	slopeThreshold = 0.05
	minTrendDays   = 3
)

type Direction string

const (
	DirectionImproving Direction = "improving"
	DirectionStable    Direction = "stable"
	DirectionDeclining Direction = "declining"
)

// wellness por log: 4 menos los campos no saludables.
func wellness(l behaviorlogs.BehaviorLog) float64 {
	return float64(4 - len(UnhealthySignals(l)))
}

// WellnessDirection ajusta una recta al puntaje diario promedio vs. número de día.
func WellnessDirection(logs []behaviorlogs.BehaviorLog) Direction {
	if len(logs) == 0 {
		return DirectionStable
	}
	sorted := append([]behaviorlogs.BehaviorLog(nil), logs...)
	behaviorlogs.SortByDate(sorted)
	first := sorted[0].LogDate.UTC().Truncate(24 * time.Hour)

	sum := map[int]float64{}
	count := map[int]float64{}
	var order []int
	for _, l := range sorted {
		d := int(l.LogDate.UTC().Truncate(24*time.Hour).Sub(first) / (24 * time.Hour))
		if _, ok := count[d]; !ok {
			order = append(order, d)
		}
		sum[d] += wellness(l)
		count[d]++
	}
	if len(order) < minTrendDays {
		return DirectionStable
	}

	var r regression.Regression
	r.SetObserved("wellness")
	r.SetVar(0, "day")
	for _, d := range order {
		r.Train(regression.DataPoint(sum[d]/count[d], []float64{float64(d)}))
	}
	if err := r.Run(); err != nil {
		return DirectionStable
	}

	coeffs := r.GetCoeffs()
	if len(coeffs) < 2 || math.IsNaN(coeffs[1]) {
		return DirectionStable
	}
	switch slope := coeffs[1]; {
	case slope > slopeThreshold:
		return DirectionImproving
	case slope < -slopeThreshold:
		return DirectionDeclining
	default:
		return DirectionStable
	}
}

// Trend resume actividad dominante y dirección del bienestar en una línea.
func Trend(logs []behaviorlogs.BehaviorLog) string {
	if len(logs) == 0 {
		return NoDataTrend
	}
	dom := DominantActivity(ActivityDistribution(logs))
	noun := "log"
	if len(logs) != 1 {
		noun = "logs"
	}
	return fmt.Sprintf("Mostly %s activity across %d %s; overall wellness is %s.",
		dom, len(logs), noun, WellnessDirection(logs))
}
