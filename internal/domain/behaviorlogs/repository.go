package behaviorlogs

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l BehaviorLog) error
	ListByPet(ctx context.Context, petID string, filter ListFilter) ([]BehaviorLog, error)
	ListPetIDs(ctx context.Context) ([]string, error)
}

// ListFilter: Since acota por log_date; Limit devuelve los más recientes.
type ListFilter struct {
	Since *time.Time
	Limit int
}
