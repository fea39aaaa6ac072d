package router

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/thejerf/suture/v4"

	"pet-behavior-analysis/internal/adapters/logsource/backend"
	mem "pet-behavior-analysis/internal/adapters/storage/memory"
	pg "pet-behavior-analysis/internal/adapters/storage/postgres"
	_ "pet-behavior-analysis/internal/docs"
	"pet-behavior-analysis/internal/domain/analysis"
	"pet-behavior-analysis/internal/domain/behaviorlogs"
	"pet-behavior-analysis/internal/domain/pets"
	"pet-behavior-analysis/internal/middleware"
	"pet-behavior-analysis/internal/platform/config"
	"pet-behavior-analysis/internal/platform/logger"
	"pet-behavior-analysis/internal/platform/metrics"
	"pet-behavior-analysis/internal/risk"
)

type Options struct {
	Config *config.Config // nil = config.Defaults()
	Log    logger.Logger  // nil = Nop

	// Opcional: si viene, usa Postgres. Si no, intenta db.dsn y si no in-memory.
	DB *sql.DB

	// Opcional: si viene, el reentrenamiento en background corre supervisado.
	// Sin supervisor no se agenda nada y solo queda el entrenamiento explícito.
	Supervisor *suture.Supervisor
}

func NewRouter(opts Options) http.Handler {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Defaults()
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var (
		petRepo pets.Repository
		logRepo behaviorlogs.Repository
	)

	db := opts.DB
	if db == nil && cfg.DB.DSN != "" {
		opened, err := pg.Open(cfg.DB.DSN)
		if err != nil {
			log.Warn("postgres unavailable, using in-memory repositories", map[string]any{"err": err})
		} else {
			db = opened
		}
	}

	if db != nil {
		petRepo = pg.NewPetsRepo(db)
		logRepo = pg.NewBehaviorLogsRepo(db)
	} else {
		petRepo = mem.NewPetRepo()
		logRepo = mem.NewBehaviorLogRepo()

		if path := strings.TrimSpace(cfg.Pets.SeedFile); path != "" {
			n, err := mem.SeedPets(context.Background(), petRepo, path)
			if err != nil {
				log.Warn("pet seed failed", map[string]any{"path": path, "err": err})
			} else {
				log.Info("pet profiles seeded", map[string]any{"path": path, "count": n})
			}
		}
	}

	// Services por módulo
	petsSvc := pets.NewService(petRepo)
	logsSvc := behaviorlogs.NewService(logRepo)

	var source analysis.LogSource = logsSvc
	if cfg.LogSource.URL != "" {
		client, err := backend.New(cfg.LogSource.URL, cfg.LogSource.Timeout)
		if err != nil {
			log.Warn("invalid log source url, reading local logs", map[string]any{"err": err})
		} else {
			source = client
		}
	}

	store := risk.NewFileStore(cfg.Model.Path, cfg.Model.PartitionByPet)
	trainer := risk.NewTrainer(risk.TrainerConfig{
		MinRows:      cfg.Training.MinRows,
		AUCThreshold: cfg.Training.AUCThreshold,
		Forest: risk.ForestConfig{
			Trees:    cfg.Training.Trees,
			MaxDepth: cfg.Training.MaxDepth,
			MinLeaf:  1,
			Seed:     cfg.Training.Seed,
		},
	}, store)

	var retrainer *analysis.Retrainer
	if opts.Supervisor != nil {
		retrainer = analysis.NewRetrainer(cfg.Analysis.RetrainCooldown, cfg.Analysis.RetrainQueue,
			analysis.NewMemoryCooldowns(), log)
		opts.Supervisor.Add(retrainer)
	}

	analysisSvc := analysis.NewService(analysis.Options{
		Logs:       source,
		Profiles:   petsSvc,
		Store:      store,
		Trainer:    trainer,
		Retrainer:  retrainer,
		Log:        log.With(map[string]any{"component": "analysis"}),
		FetchLimit: cfg.Analysis.FetchLimit,
		DaysBack:   cfg.Analysis.DaysBack,
		MinLogs:    cfg.Analysis.MinLogs,
	})

	// Rutas por módulo
	behaviorlogs.RegisterRoutes(r, logsSvc)
	analysis.RegisterRoutes(r, analysisSvc)

	return r
}
