// Package health arma las salidas orientadas al dueño: patrón de enfermedad
// en el tiempo, guía de salud contra la base de conocimiento, plan de cuidados
// y tendencia general.
package health

import (
	"fmt"
	"strings"
	"time"

	"pet-behavior-analysis/internal/domain/behaviorlogs"
	"pet-behavior-analysis/internal/platform/logger"
	"pet-behavior-analysis/internal/risk"
)

type PatternType string

const (
	PatternAcute     PatternType = "acute"
	PatternChronic   PatternType = "chronic"
	PatternCyclical  PatternType = "cyclical"
	PatternImproving PatternType = "improving"
	PatternWorsening PatternType = "worsening"
)

const (
	PersistenceDays = 7
	acuteMaxDays    = 3
)

type SuddenChange struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

// IllnessPattern se calcula por request sobre todo el historial disponible.
type IllnessPattern struct {
	DurationDays       int            `json:"illness_duration_days"`
	IsPersistent       bool           `json:"is_persistent"`
	PatternType        *PatternType   `json:"pattern_type"`
	UnhealthyPeriods   int            `json:"unhealthy_periods"`
	SuddenChanges      []SuddenChange `json:"sudden_changes"`
	RecoveryHistory    bool           `json:"recovery_history"`
	LongestStreakDays  int            `json:"longest_unhealthy_streak_days"`
	LongestStreakStart *time.Time     `json:"longest_unhealthy_streak_start,omitempty"`
}

// UnhealthySignals lista qué campos del log están fuera de lo normal.
func UnhealthySignals(l behaviorlogs.BehaviorLog) []string {
	act, food, water, bath := risk.Normalize(l.ActivityLevel), risk.Normalize(l.FoodIntake),
		risk.Normalize(l.WaterIntake), risk.Normalize(l.BathroomHabits)

	var out []string
	if strings.Contains(act, "low") {
		out = append(out, "low activity")
	}
	if strings.Contains(food, "not eating") || strings.Contains(food, "eating less") {
		out = append(out, food)
	}
	if strings.Contains(water, "not drinking") || strings.Contains(water, "drinking less") {
		out = append(out, water)
	}
	for _, term := range []string{"diarrhea", "constipation", "blood", "straining"} {
		if strings.Contains(bath, term) {
			out = append(out, bath)
			break
		}
	}
	return out
}

func IsUnhealthy(l behaviorlogs.BehaviorLog) bool {
	return len(UnhealthySignals(l)) > 0
}

// AnalyzePattern nunca falla hacia afuera: ante un panic devuelve el valor cero.
func AnalyzePattern(logs []behaviorlogs.BehaviorLog, log logger.Logger) (p IllnessPattern) {
	if log == nil {
		log = logger.Nop()
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("illness pattern analysis failed", map[string]any{"panic": fmt.Sprint(r)})
			p = IllnessPattern{SuddenChanges: []SuddenChange{}}
		}
	}()

	p.SuddenChanges = []SuddenChange{}
	if len(logs) == 0 {
		return p
	}

	rows := append([]behaviorlogs.BehaviorLog(nil), logs...)
	behaviorlogs.SortByDate(rows)
	flags := make([]bool, len(rows))
	for i, l := range rows {
		flags[i] = IsUnhealthy(l)
	}

	days := dailySeries(rows, flags)
	p.DurationDays = days.currentStreak()
	p.IsPersistent = p.DurationDays > PersistenceDays
	longest, start := days.longestStreak()
	p.LongestStreakDays = longest
	if longest > 0 {
		p.LongestStreakStart = &start
	}

	segs := segments(flags)
	p.UnhealthyPeriods = len(segs)
	p.RecoveryHistory = len(segs) > 1

	for i := 1; i < len(rows); i++ {
		if !flags[i-1] && flags[i] {
			p.SuddenChanges = append(p.SuddenChanges, SuddenChange{
				Date:        rows[i].LogDate.UTC().Truncate(24 * time.Hour),
				Description: "Shift from healthy to unhealthy: " + strings.Join(UnhealthySignals(rows[i]), ", "),
			})
		}
	}

	p.PatternType = classify(rows, flags, segs, max(p.DurationDays, longest))
	return p
}

// classify aplica las reglas en orden; las posteriores pisan a las anteriores.
func classify(rows []behaviorlogs.BehaviorLog, flags []bool, segs []segment, streak int) *PatternType {
	if len(segs) == 0 {
		return nil
	}

	var pt PatternType
	switch {
	case streak > PersistenceDays:
		pt = PatternChronic
	case streak <= acuteMaxDays:
		pt = PatternAcute
	}

	if len(segs) >= 2 {
		pt = PatternCyclical
	}

	longestRun := longestSegment(segs)

	// un solo día malo aislado sigue siendo agudo, no "mejorando"
	if longestRun.len() >= 2 {
		after := flags[longestRun.end+1:]
		if len(after) >= 2 && !anyTrue(after) {
			pt = PatternImproving
		}
	}

	if longestRun.len() >= 2 && symptomsRise(rows[longestRun.start:longestRun.end+1]) {
		pt = PatternWorsening
	}

	if pt == "" {
		return nil
	}
	return &pt
}

type segment struct{ start, end int }

func (s segment) len() int { return s.end - s.start + 1 }

// segments: corridas maximales de filas no saludables, en orden de fila.
func segments(flags []bool) []segment {
	var out []segment
	for i := 0; i < len(flags); i++ {
		if !flags[i] {
			continue
		}
		j := i
		for j+1 < len(flags) && flags[j+1] {
			j++
		}
		out = append(out, segment{i, j})
		i = j
	}
	return out
}

func longestSegment(segs []segment) segment {
	best := segs[0]
	for _, s := range segs[1:] {
		if s.len() > best.len() {
			best = s
		}
	}
	return best
}

// symptomsRise compara solo los extremos de la corrida: la última fila
// tiene más síntomas que la primera.
func symptomsRise(rows []behaviorlogs.BehaviorLog) bool {
	first := risk.SymptomCount(rows[0].Symptoms)
	last := risk.SymptomCount(rows[len(rows)-1].Symptoms)
	return last > first
}

func anyTrue(flags []bool) bool {
	for _, f := range flags {
		if f {
			return true
		}
	}
	return false
}

// daySeries es un flag por día calendario, contiguo desde el primer log; los
// días sin log cuentan como sanos.
type daySeries struct {
	first time.Time
	flags []bool
}

func dailySeries(rows []behaviorlogs.BehaviorLog, flags []bool) daySeries {
	first := rows[0].LogDate.UTC().Truncate(24 * time.Hour)
	last := rows[len(rows)-1].LogDate.UTC().Truncate(24 * time.Hour)
	n := int(last.Sub(first)/(24*time.Hour)) + 1

	ds := daySeries{first: first, flags: make([]bool, n)}
	for i, l := range rows {
		d := int(l.LogDate.UTC().Truncate(24*time.Hour).Sub(first) / (24 * time.Hour))
		if flags[i] {
			ds.flags[d] = true
		}
	}
	return ds
}

func (ds daySeries) currentStreak() int {
	n := 0
	for i := len(ds.flags) - 1; i >= 0 && ds.flags[i]; i-- {
		n++
	}
	return n
}

func (ds daySeries) longestStreak() (int, time.Time) {
	best, bestStart, run := 0, 0, 0
	for i, f := range ds.flags {
		if !f {
			run = 0
			continue
		}
		run++
		if run > best {
			best, bestStart = run, i-run+1
		}
	}
	return best, ds.first.AddDate(0, 0, bestStart)
}
