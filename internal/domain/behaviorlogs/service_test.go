package behaviorlogs

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	items []BehaviorLog
}

func (r *testRepo) Create(ctx context.Context, l BehaviorLog) error {
	if l.ID == "" {
		return errors.New("repo: id required")
	}
	r.items = append(r.items, l)
	return nil
}

func (r *testRepo) ListByPet(ctx context.Context, petID string, filter ListFilter) ([]BehaviorLog, error) {
	out := make([]BehaviorLog, 0)
	for _, l := range r.items {
		if l.PetID != petID {
			continue
		}
		if filter.Since != nil && l.LogDate.Before(*filter.Since) {
			continue
		}
		out = append(out, l)
	}
	// más recientes primero, como los repos reales
	sort.Slice(out, func(i, j int) bool { return out[i].LogDate.After(out[j].LogDate) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *testRepo) ListPetIDs(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, l := range r.items {
		if _, ok := seen[l.PetID]; ok {
			continue
		}
		seen[l.PetID] = struct{}{}
		out = append(out, l.PetID)
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultsUnknownAndEmptySymptoms(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)

	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	l, err := svc.Create(context.Background(), "pet-1", CreateInput{
		ActivityLevel: "  Low ",
		Symptoms:      []string{" ", "vomiting"},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if l.FoodIntake != UnknownValue || l.WaterIntake != UnknownValue || l.BathroomHabits != UnknownValue {
		t.Fatalf("expected Unknown defaults, got %#v", l)
	}
	if l.ActivityLevel != "Low" {
		t.Fatalf("expected trimmed activity, got %q", l.ActivityLevel)
	}
	if l.Symptoms != `["vomiting"]` {
		t.Fatalf("expected blank symptoms dropped, got %s", l.Symptoms)
	}
	if !l.LogDate.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected log date truncated to day, got %s", l.LogDate)
	}
}

func TestService_Create_RejectsEmptyPet(t *testing.T) {
	svc := NewService(&testRepo{})
	if _, err := svc.Create(context.Background(), " ", CreateInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Fetch_WindowLimitAndAscendingOrder(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)

	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	// 40 días de logs: solo 30 entran en la ventana
	for i := 0; i < 40; i++ {
		repo.items = append(repo.items, BehaviorLog{
			ID:      "l" + strconv.Itoa(i),
			PetID:   "pet-1",
			LogDate: now.AddDate(0, 0, -i),
		})
	}

	got, err := svc.Fetch(context.Background(), "pet-1", 10, 30)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("expected 10 logs, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].LogDate.Before(got[i-1].LogDate) {
			t.Fatalf("expected ascending order at %d", i)
		}
	}
	if !got[len(got)-1].LogDate.Equal(now) {
		t.Fatalf("expected most recent log last, got %s", got[len(got)-1].LogDate)
	}
	if got[0].Symptoms != EmptySymptoms || got[0].ActivityLevel != UnknownValue {
		t.Fatalf("expected defaults applied on fetch, got %#v", got[0])
	}
}

func TestService_Fetch_SameDayOrderedByCreation(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)

	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	sick, err := svc.Create(context.Background(), "pet-1", CreateInput{ActivityLevel: "Low", FoodIntake: "Not eating"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	svc.now = func() time.Time { return now.Add(5 * time.Minute) }
	normal, err := svc.Create(context.Background(), "pet-1", CreateInput{ActivityLevel: "Normal", FoodIntake: "Normal"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// el repo devuelve más recientes primero; con empate de fecha el orden
	// que llega es arbitrario, así que lo invertimos a propósito
	repo.items = []BehaviorLog{normal, sick}

	got, err := svc.Fetch(context.Background(), "pet-1", 10, 30)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(got))
	}
	if got[0].ID != sick.ID || got[1].ID != normal.ID {
		t.Fatalf("expected same-day logs by creation time, got %s then %s", got[0].FoodIntake, got[1].FoodIntake)
	}
}

func TestService_Fetch_WindowStartsAtMidnight(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)

	now := time.Date(2026, 3, 31, 15, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	edge := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) // exactamente 30 días atrás
	outside := edge.AddDate(0, 0, -1)
	repo.items = []BehaviorLog{
		{ID: "edge", PetID: "pet-1", LogDate: edge},
		{ID: "outside", PetID: "pet-1", LogDate: outside},
	}

	got, err := svc.Fetch(context.Background(), "pet-1", 10, 30)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "edge" {
		t.Fatalf("expected only the log dated 30 days ago, got %#v", got)
	}
}

func TestSortByDate_TieBreaksOnCreatedAt(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	logs := []BehaviorLog{
		{ID: "late", LogDate: day, CreatedAt: day.Add(9 * time.Hour)},
		{ID: "next-day", LogDate: day.AddDate(0, 0, 1), CreatedAt: day.Add(25 * time.Hour)},
		{ID: "early", LogDate: day, CreatedAt: day.Add(8 * time.Hour)},
	}
	SortByDate(logs)

	want := []string{"early", "late", "next-day"}
	for i, id := range want {
		if logs[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, logs[i].ID)
		}
	}
}
