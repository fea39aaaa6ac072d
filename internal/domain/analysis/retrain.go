package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pet-behavior-analysis/internal/platform/logger"
	"pet-behavior-analysis/internal/platform/metrics"
)

const DefaultRetrainCooldown = 6 * time.Hour

// CooldownStore guarda cuándo se aceptó el último entrenamiento de cada mascota.
type CooldownStore interface {
	LastTrained(petID string) (time.Time, bool)
	MarkTrained(petID string, at time.Time)
	Reset()
}

type MemoryCooldowns struct {
	mu   sync.Mutex
	last map[string]time.Time
}

func NewMemoryCooldowns() *MemoryCooldowns {
	return &MemoryCooldowns{last: map[string]time.Time{}}
}

func (c *MemoryCooldowns) LastTrained(petID string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.last[petID]
	return t, ok
}

func (c *MemoryCooldowns) MarkTrained(petID string, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last[petID] = at
}

func (c *MemoryCooldowns) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = map[string]time.Time{}
}

type ScheduleResult string

const (
	ScheduleQueued    ScheduleResult = "queued"
	ScheduleCooldown  ScheduleResult = "cooldown"
	SchedulePending   ScheduleResult = "pending"
	ScheduleQueueFull ScheduleResult = "queue_full"
	ScheduleDisabled  ScheduleResult = "disabled"
)

// TrainFunc entrena una mascota y reporta si el modelo fue aceptado.
type TrainFunc func(ctx context.Context, petID string) (bool, error)

// Retrainer corre los reentrenamientos fuera del request. Es un servicio
// suture: Serve consume la cola hasta que se cancela el contexto.
type Retrainer struct {
	cooldown  time.Duration
	cooldowns CooldownStore
	jobs      chan string
	log       logger.Logger
	now       func() time.Time

	mu      sync.Mutex
	pending map[string]struct{}
	train   TrainFunc
}

func NewRetrainer(cooldown time.Duration, queueSize int, cooldowns CooldownStore, log logger.Logger) *Retrainer {
	if cooldown <= 0 {
		cooldown = DefaultRetrainCooldown
	}
	if queueSize <= 0 {
		queueSize = 16
	}
	if cooldowns == nil {
		cooldowns = NewMemoryCooldowns()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Retrainer{
		cooldown:  cooldown,
		cooldowns: cooldowns,
		jobs:      make(chan string, queueSize),
		log:       log.With(map[string]any{"component": "retrainer"}),
		now:       time.Now,
		pending:   map[string]struct{}{},
	}
}

func (r *Retrainer) bind(train TrainFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.train = train
}

// Schedule nunca bloquea: chequea cooldown y encola si hay lugar.
func (r *Retrainer) Schedule(petID string) ScheduleResult {
	res := r.schedule(petID)
	metrics.ObserveRetrainScheduled(string(res))
	return res
}

func (r *Retrainer) schedule(petID string) ScheduleResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.train == nil {
		return ScheduleDisabled
	}
	if last, ok := r.cooldowns.LastTrained(petID); ok && r.now().Sub(last) < r.cooldown {
		return ScheduleCooldown
	}
	if _, ok := r.pending[petID]; ok {
		return SchedulePending
	}

	select {
	case r.jobs <- petID:
		r.pending[petID] = struct{}{}
		return ScheduleQueued
	default:
		return ScheduleQueueFull
	}
}

// Serve implementa suture.Service.
func (r *Retrainer) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case petID := <-r.jobs:
			r.run(ctx, petID)
		}
	}
}

func (r *Retrainer) String() string { return "retrainer" }

func (r *Retrainer) run(ctx context.Context, petID string) {
	defer func() {
		r.mu.Lock()
		delete(r.pending, petID)
		r.mu.Unlock()
		if rec := recover(); rec != nil {
			r.log.Error("retrain panicked", map[string]any{"pet_id": petID, "panic": fmt.Sprint(rec)})
		}
	}()

	r.mu.Lock()
	train := r.train
	r.mu.Unlock()

	accepted, err := train(ctx, petID)
	switch {
	case err != nil:
		r.log.Error("retrain failed", map[string]any{"pet_id": petID, "err": err})
	case accepted:
		// solo un modelo aceptado reinicia el cooldown
		r.cooldowns.MarkTrained(petID, r.now())
		r.log.Info("retrain accepted", map[string]any{"pet_id": petID})
	default:
		r.log.Info("retrain rejected", map[string]any{"pet_id": petID})
	}
}

// Reset limpia cooldowns; usado en tests.
func (r *Retrainer) Reset() {
	r.cooldowns.Reset()
}
