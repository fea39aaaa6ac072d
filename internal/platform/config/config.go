// Package config carga la configuración del servicio en capas:
// defaults (struct) -> archivo YAML opcional -> variables de entorno.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar permite indicar un archivo YAML de configuración.
const PathEnvVar = "CONFIG_PATH"

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	DB        DBConfig        `koanf:"db"`
	LogSource LogSourceConfig `koanf:"logsource"`
	Model     ModelConfig     `koanf:"model"`
	Analysis  AnalysisConfig  `koanf:"analysis"`
	Training  TrainingConfig  `koanf:"training"`
	Pets      PetsConfig      `koanf:"pets"`
}

type ServerConfig struct {
	Port         int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `koanf:"format" validate:"omitempty,oneof=text json"`
	App    string `koanf:"app"`
}

type DBConfig struct {
	// Vacío = repos in-memory (modo dev).
	DSN string `koanf:"dsn"`
}

// LogSourceConfig apunta al backend REST cuando los logs no viven en esta base.
type LogSourceConfig struct {
	URL     string        `koanf:"url" validate:"omitempty,url"`
	Timeout time.Duration `koanf:"timeout"`
}

// PetsConfig: en modo in-memory los perfiles se cargan de un JSON opcional.
type PetsConfig struct {
	SeedFile string `koanf:"seed_file"`
}

type ModelConfig struct {
	Path           string `koanf:"path" validate:"required"`
	PartitionByPet bool   `koanf:"partition_by_pet"`
}

type AnalysisConfig struct {
	FetchLimit      int           `koanf:"fetch_limit" validate:"min=1,max=1000"`
	DaysBack        int           `koanf:"days_back" validate:"min=1"`
	MinLogs         int           `koanf:"min_logs" validate:"min=1"`
	RetrainCooldown time.Duration `koanf:"retrain_cooldown"`
	RetrainQueue    int           `koanf:"retrain_queue" validate:"min=1"`
}

type TrainingConfig struct {
	MinRows      int     `koanf:"min_rows" validate:"min=2"`
	AUCThreshold float64 `koanf:"auc_threshold" validate:"gte=0,lte=1"`
	Seed         uint64  `koanf:"seed"`
	Trees        int     `koanf:"trees" validate:"min=1"`
	MaxDepth     int     `koanf:"max_depth" validate:"min=1"`
}

// Defaults devuelve la configuración base antes de archivo/env.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			App:    "pet-behavior-analysis",
		},
		LogSource: LogSourceConfig{
			Timeout: 10 * time.Second,
		},
		Model: ModelConfig{
			Path: "data/illness_model.json",
		},
		Analysis: AnalysisConfig{
			FetchLimit:      100,
			DaysBack:        30,
			MinLogs:         5,
			RetrainCooldown: 6 * time.Hour,
			RetrainQueue:    16,
		},
		Training: TrainingConfig{
			MinRows:      5,
			AUCThreshold: 0.6,
			Seed:         42,
			Trees:        60,
			MaxDepth:     6,
		},
	}
}

// Load arma la config final. PORT y DB_DSN se siguen aceptando tal cual
// (compatibilidad con el despliegue anterior).
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := strings.TrimSpace(os.Getenv(PathEnvVar)); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// envKey traduce ANALYSIS_MIN_LOGS -> analysis.min_logs. Solo el primer "_"
// separa sección y campo.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "port":
		return "server.port"
	case "db_dsn":
		return "db.dsn"
	case "config_path":
		return ""
	}

	section, field, ok := strings.Cut(s, "_")
	if !ok {
		return ""
	}
	switch section {
	case "server", "log", "db", "logsource", "model", "analysis", "training", "pets":
		return section + "." + field
	default:
		return ""
	}
}
