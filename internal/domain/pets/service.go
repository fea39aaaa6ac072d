package pets

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Profile busca el perfil. Un perfil inexistente no es error:
// devuelve ok=false para que el caller lo trate como opcional.
func (s *Service) Profile(ctx context.Context, petID string) (Pet, bool, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return Pet{}, false, ErrInvalidInput
	}
	if s == nil || s.repo == nil {
		return Pet{}, false, nil
	}

	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Pet{}, false, nil
		}
		return Pet{}, false, err
	}
	return p, true, nil
}
