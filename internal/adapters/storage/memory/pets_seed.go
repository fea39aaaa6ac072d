package memory

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"pet-behavior-analysis/internal/domain/pets"
)

type petSeed struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Species string `json:"species"`
	Breed   string `json:"breed"`
}

// SeedPets carga perfiles desde un archivo JSON (lista de {id,name,species,breed}).
// Devuelve cuántos se cargaron.
func SeedPets(ctx context.Context, repo pets.Repository, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read pet seed: %w", err)
	}

	var items []petSeed
	if err := json.Unmarshal(raw, &items); err != nil {
		return 0, fmt.Errorf("decode pet seed %s: %w", path, err)
	}

	now := time.Now().UTC()
	n := 0
	for _, it := range items {
		if strings.TrimSpace(it.ID) == "" {
			continue
		}
		p := pets.Pet{
			ID:        strings.TrimSpace(it.ID),
			Name:      strings.TrimSpace(it.Name),
			Species:   pets.Species(strings.ToLower(strings.TrimSpace(it.Species))),
			Breed:     strings.TrimSpace(it.Breed),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.Create(ctx, p); err != nil {
			return n, fmt.Errorf("seed pet %s: %w", p.ID, err)
		}
		n++
	}
	return n, nil
}
