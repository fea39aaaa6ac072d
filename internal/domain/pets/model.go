package pets

import "time"

// Species define las especies soportadas.
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// Pet es el perfil que mantiene el backend principal; acá solo se lee
// para decorar el resultado del análisis.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species Species
	Breed   string

	BirthDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
