package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pet-behavior-analysis/internal/domain/behaviorlogs"
)

type BehaviorLogsRepo struct {
	db *sql.DB
}

func NewBehaviorLogsRepo(db *sql.DB) *BehaviorLogsRepo {
	return &BehaviorLogsRepo{db: db}
}

func (r *BehaviorLogsRepo) Create(ctx context.Context, l behaviorlogs.BehaviorLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO behavior_logs (
			id, pet_id, log_date,
			activity_level, food_intake, water_intake, bathroom_habits,
			symptoms,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		l.ID,
		l.PetID,
		l.LogDate,
		l.ActivityLevel,
		l.FoodIntake,
		l.WaterIntake,
		l.BathroomHabits,
		l.Symptoms,
		l.CreatedAt,
	)
	return err
}

func (r *BehaviorLogsRepo) ListByPet(ctx context.Context, petID string, filter behaviorlogs.ListFilter) ([]behaviorlogs.BehaviorLog, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	// Columnas opcionales: COALESCE a los defaults del contrato ("Unknown" / "[]").
	sb.WriteString(`
		SELECT
			id, pet_id, log_date,
			COALESCE(activity_level, 'Unknown'),
			COALESCE(food_intake, 'Unknown'),
			COALESCE(water_intake, 'Unknown'),
			COALESCE(bathroom_habits, 'Unknown'),
			COALESCE(symptoms::text, '[]'),
			created_at
		FROM behavior_logs
		WHERE pet_id = $1
	`)

	args := []any{petID}
	argN := 2

	if filter.Since != nil {
		sb.WriteString(fmt.Sprintf(" AND log_date >= $%d", argN))
		args = append(args, *filter.Since)
		argN++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = behaviorlogs.DefaultLimit
	}
	if limit > behaviorlogs.MaxLimit {
		limit = behaviorlogs.MaxLimit
	}

	sb.WriteString(" ORDER BY log_date DESC, created_at DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]behaviorlogs.BehaviorLog, 0)
	for rows.Next() {
		var l behaviorlogs.BehaviorLog
		if err := rows.Scan(
			&l.ID,
			&l.PetID,
			&l.LogDate,
			&l.ActivityLevel,
			&l.FoodIntake,
			&l.WaterIntake,
			&l.BathroomHabits,
			&l.Symptoms,
			&l.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}

	return out, rows.Err()
}

func (r *BehaviorLogsRepo) ListPetIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT pet_id
		FROM behavior_logs
		ORDER BY pet_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
