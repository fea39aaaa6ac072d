package behaviorlogs

import "time"

// Valores por defecto cuando el registro no trae el campo.
const (
	UnknownValue  = "Unknown"
	EmptySymptoms = "[]"
)

// BehaviorLog es la observación diaria de una mascota.
// Symptoms se guarda como texto JSON (lista de strings), tal cual llega del cliente.
type BehaviorLog struct {
	ID    string
	PetID string

	LogDate time.Time

	ActivityLevel  string
	FoodIntake     string
	WaterIntake    string
	BathroomHabits string
	Symptoms       string

	CreatedAt time.Time
}
