// Package risk contiene el motor de riesgo de enfermedad: codificación de
// features, entrenamiento del clasificador, predicción con fallback por reglas,
// análisis contextual de la ventana reciente y el blend de ambos veredictos.
package risk

// Risk es el veredicto de severidad; orden total low < medium < high.
type Risk string

const (
	Low    Risk = "low"
	Medium Risk = "medium"
	High   Risk = "high"
)

// Severity devuelve la posición en el orden. Valores desconocidos cuentan como low.
func (r Risk) Severity() int {
	switch r {
	case High:
		return 2
	case Medium:
		return 1
	default:
		return 0
	}
}

func (r Risk) Valid() bool {
	return r == Low || r == Medium || r == High
}

// Blend devuelve el veredicto de mayor severidad.
func Blend(a, b Risk) Risk {
	if !a.Valid() {
		a = Low
	}
	if !b.Valid() {
		b = Low
	}
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}
