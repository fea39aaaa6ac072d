package risk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

var ErrNoModel = errors.New("no trained model")

// Store persiste el bundle entrenado. petID vacío = slot global.
type Store interface {
	Save(petID string, b *Bundle) error
	Load(petID string) (*Bundle, error)
	Exists(petID string) bool
}

// FileStore guarda el bundle como JSON en disco. Por defecto hay un único
// archivo global; con partitionByPet cada mascota tiene su archivo y cae al
// global si todavía no entrenó.
type FileStore struct {
	path           string
	partitionByPet bool
}

func NewFileStore(path string, partitionByPet bool) *FileStore {
	return &FileStore{path: path, partitionByPet: partitionByPet}
}

var unsafePathChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func (s *FileStore) pathFor(petID string) string {
	petID = strings.TrimSpace(petID)
	if !s.partitionByPet || petID == "" {
		return s.path
	}
	ext := filepath.Ext(s.path)
	base := strings.TrimSuffix(s.path, ext)
	return base + "_" + unsafePathChars.ReplaceAllString(petID, "_") + ext
}

// Save escribe en un temporal del mismo directorio y lo renombra encima del
// destino: un lector nunca ve un archivo a medio escribir.
func (s *FileStore) Save(petID string, b *Bundle) error {
	if b == nil {
		return errors.New("save model: nil bundle")
	}
	dst := s.pathFor(petID)
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(dst)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp model file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op después del rename

	if err := json.NewEncoder(tmp).Encode(b); err != nil {
		tmp.Close()
		return fmt.Errorf("encode model: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close model: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return fmt.Errorf("replace model: %w", err)
	}
	return nil
}

func (s *FileStore) Load(petID string) (*Bundle, error) {
	b, err := s.loadFile(s.pathFor(petID))
	if errors.Is(err, ErrNoModel) && s.partitionByPet && strings.TrimSpace(petID) != "" {
		return s.loadFile(s.path)
	}
	return b, err
}

func (s *FileStore) loadFile(path string) (*Bundle, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoModel
	}
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("invalid model artifact: %w", err)
	}
	return &b, nil
}

// Exists indica si hay un modelo utilizable (no solo un archivo).
func (s *FileStore) Exists(petID string) bool {
	_, err := s.Load(petID)
	return err == nil
}
