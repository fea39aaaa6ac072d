package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-behavior-analysis/internal/domain/behaviorlogs"
)

type behaviorLogRepo struct {
	mu    sync.RWMutex
	byPet map[string][]behaviorlogs.BehaviorLog
}

func NewBehaviorLogRepo() behaviorlogs.Repository {
	return &behaviorLogRepo{
		byPet: make(map[string][]behaviorlogs.BehaviorLog),
	}
}

func (r *behaviorLogRepo) Create(ctx context.Context, l behaviorlogs.BehaviorLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(l.ID) == "" {
		return errors.New("behavior log id required")
	}
	r.byPet[l.PetID] = append(r.byPet[l.PetID], l)
	return nil
}

func (r *behaviorLogRepo) ListByPet(ctx context.Context, petID string, filter behaviorlogs.ListFilter) ([]behaviorlogs.BehaviorLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]behaviorlogs.BehaviorLog, 0, len(r.byPet[petID]))
	for _, l := range r.byPet[petID] {
		if filter.Since != nil && l.LogDate.Before(*filter.Since) {
			continue
		}
		out = append(out, l)
	}

	// Orden por log_date desc (más reciente primero); empates por created_at
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LogDate.Equal(out[j].LogDate) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].LogDate.After(out[j].LogDate)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *behaviorLogRepo) ListPetIDs(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.byPet))
	for petID, items := range r.byPet {
		if len(items) > 0 {
			out = append(out, petID)
		}
	}
	sort.Strings(out)
	return out, nil
}
