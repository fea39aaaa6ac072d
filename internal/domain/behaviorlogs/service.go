package behaviorlogs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

const (
	DefaultLimit    = 100
	DefaultDaysBack = 30
	MaxLimit        = 1000
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	LogDate        time.Time
	ActivityLevel  string
	FoodIntake     string
	WaterIntake    string
	BathroomHabits string
	Symptoms       []string
}

func (s *Service) Create(ctx context.Context, petID string, in CreateInput) (BehaviorLog, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return BehaviorLog{}, ErrInvalidInput
	}

	now := s.now()
	date := in.LogDate
	if date.IsZero() {
		date = now
	}
	if date.After(now.Add(24 * time.Hour)) {
		return BehaviorLog{}, fmt.Errorf("%w: log_date in the future", ErrInvalidInput)
	}

	symptoms := make([]string, 0, len(in.Symptoms))
	for _, sym := range in.Symptoms {
		if sym = strings.TrimSpace(sym); sym != "" {
			symptoms = append(symptoms, sym)
		}
	}
	raw, err := json.Marshal(symptoms)
	if err != nil {
		return BehaviorLog{}, fmt.Errorf("encode symptoms: %w", err)
	}

	l := BehaviorLog{
		ID:             uuid.NewString(),
		PetID:          petID,
		LogDate:        time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		ActivityLevel:  orUnknown(in.ActivityLevel),
		FoodIntake:     orUnknown(in.FoodIntake),
		WaterIntake:    orUnknown(in.WaterIntake),
		BathroomHabits: orUnknown(in.BathroomHabits),
		Symptoms:       string(raw),
		CreatedAt:      now,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return BehaviorLog{}, err
	}
	return l, nil
}

// Fetch es el contrato fetch_logs del motor: como mucho limit logs de los
// últimos daysBack días, en orden ascendente por fecha.
func (s *Service) Fetch(ctx context.Context, petID string, limit, daysBack int) ([]BehaviorLog, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, ErrInvalidInput
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if daysBack <= 0 {
		daysBack = DefaultDaysBack
	}

	// log_date se guarda a medianoche UTC: la ventana arranca al inicio del día
	since := s.now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -daysBack)
	items, err := s.repo.ListByPet(ctx, petID, ListFilter{Since: &since, Limit: limit})
	if err != nil {
		return nil, err
	}

	out := make([]BehaviorLog, 0, len(items))
	for _, l := range items {
		out = append(out, Normalize(l))
	}
	SortByDate(out)
	return out, nil
}

func (s *Service) ListPetIDs(ctx context.Context) ([]string, error) {
	return s.repo.ListPetIDs(ctx)
}

// Normalize aplica los defaults de campos ausentes ("Unknown" / "[]").
func Normalize(l BehaviorLog) BehaviorLog {
	l.ActivityLevel = orUnknown(l.ActivityLevel)
	l.FoodIntake = orUnknown(l.FoodIntake)
	l.WaterIntake = orUnknown(l.WaterIntake)
	l.BathroomHabits = orUnknown(l.BathroomHabits)
	if strings.TrimSpace(l.Symptoms) == "" {
		l.Symptoms = EmptySymptoms
	}
	return l
}

// SortByDate ordena ascendente por fecha; dentro del mismo día por created_at,
// así el último elemento es el log cargado más recientemente.
func SortByDate(logs []BehaviorLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		if !logs[i].LogDate.Equal(logs[j].LogDate) {
			return logs[i].LogDate.Before(logs[j].LogDate)
		}
		return logs[i].CreatedAt.Before(logs[j].CreatedAt)
	})
}

func orUnknown(v string) string {
	if strings.TrimSpace(v) == "" {
		return UnknownValue
	}
	return strings.TrimSpace(v)
}
