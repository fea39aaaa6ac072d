package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thejerf/suture/v4"

	"pet-behavior-analysis/internal/platform/config"
	"pet-behavior-analysis/internal/platform/logger"
	"pet-behavior-analysis/internal/platform/server"
	"pet-behavior-analysis/internal/router"
)

// @title Pet Behavior Analysis API
// @version 1.0
// @description Análisis de comportamiento y riesgo de enfermedad de mascotas a partir de logs diarios.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sup := suture.New("pet-behavior-analysis", suture.Spec{
		EventHook: func(e suture.Event) {
			log.Warn("supervisor event", map[string]any{"event": e.String()})
		},
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router.NewRouter(router.Options{Config: cfg, Log: log, Supervisor: sup}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	sup.Add(server.New(srv, 10*time.Second))

	log.Info("starting server", map[string]any{"addr": addr, "model_path": cfg.Model.Path})
	if err := sup.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server stopped", map[string]any{"err": err})
		os.Exit(1)
	}
	log.Info("server stopped", nil)
}
