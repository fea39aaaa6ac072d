package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const pingTimeout = 3 * time.Second

// Open abre el pool (pgx vía database/sql), verifica la conexión y asegura
// la tabla behavior_logs. La tabla pets la mantiene el backend principal.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// lecturas cortas por request + escrituras de logs; pool chico alcanza
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema es idempotente.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS behavior_logs (
			id              TEXT PRIMARY KEY,
			pet_id          TEXT NOT NULL,
			log_date        DATE NOT NULL,
			activity_level  TEXT,
			food_intake     TEXT,
			water_intake    TEXT,
			bathroom_habits TEXT,
			symptoms        JSONB,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS behavior_logs_pet_date_idx
			ON behavior_logs (pet_id, log_date DESC);
	`)
	if err != nil {
		return fmt.Errorf("ensure behavior_logs schema: %w", err)
	}
	return nil
}
