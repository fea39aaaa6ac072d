package behaviorlogs

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets/{petID}/behavior-logs", func(lr chi.Router) {
		lr.Post("/", createLogHandler(svc))
		lr.Get("/", listLogsHandler(svc))
	})
}

// createLogRequest es el cuerpo para registrar la observación diaria.
type createLogRequest struct {
	LogDate        string   `json:"log_date"` // YYYY-MM-DD, opcional (default hoy)
	ActivityLevel  string   `json:"activity_level"`
	FoodIntake     string   `json:"food_intake"`
	WaterIntake    string   `json:"water_intake"`
	BathroomHabits string   `json:"bathroom_habits"`
	Symptoms       []string `json:"symptoms"`
}

type logResponse struct {
	ID             string    `json:"id"`
	PetID          string    `json:"pet_id"`
	LogDate        string    `json:"log_date"`
	ActivityLevel  string    `json:"activity_level"`
	FoodIntake     string    `json:"food_intake"`
	WaterIntake    string    `json:"water_intake"`
	BathroomHabits string    `json:"bathroom_habits"`
	Symptoms       []string  `json:"symptoms"`
	CreatedAt      time.Time `json:"created_at"`
}

// createLogHandler godoc
// @Summary Registrar log de comportamiento
// @Description Registra la observación diaria (actividad, comida, agua, baño, síntomas) de una mascota. Campos vacíos se guardan como "Unknown".
// @Tags behavior-logs
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body createLogRequest true "Observación; log_date en formato YYYY-MM-DD"
// @Success 201 {object} logResponse
// @Failure 400 {string} string "invalid json / log_date inválido"
// @Failure 500 {string} string "internal error"
// @Router /pets/{petID}/behavior-logs [post]
func createLogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")

		var req createLogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var date time.Time
		if strings.TrimSpace(req.LogDate) != "" {
			t, err := time.Parse("2006-01-02", strings.TrimSpace(req.LogDate))
			if err != nil {
				http.Error(w, "log_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			date = t
		}

		l, err := svc.Create(r.Context(), petID, CreateInput{
			LogDate:        date,
			ActivityLevel:  req.ActivityLevel,
			FoodIntake:     req.FoodIntake,
			WaterIntake:    req.WaterIntake,
			BathroomHabits: req.BathroomHabits,
			Symptoms:       req.Symptoms,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toLogResponse(l))
	}
}

// listLogsHandler godoc
// @Summary Listar logs de comportamiento
// @Description Devuelve los logs de los últimos days_back días (máximo limit), en orden ascendente por fecha.
// @Tags behavior-logs
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param limit query int false "Máximo de logs (1-1000). Por defecto 100"
// @Param days_back query int false "Ventana en días. Por defecto 30"
// @Success 200 {array} logResponse
// @Failure 400 {string} string "invalid input"
// @Failure 500 {string} string "internal error"
// @Router /pets/{petID}/behavior-logs [get]
func listLogsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")

		limit := queryInt(r, "limit", DefaultLimit)
		daysBack := queryInt(r, "days_back", DefaultDaysBack)

		items, err := svc.Fetch(r.Context(), petID, limit, daysBack)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]logResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toLogResponse(l))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func queryInt(r *http.Request, key string, def int) int {
	if v := strings.TrimSpace(r.URL.Query().Get(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func toLogResponse(l BehaviorLog) logResponse {
	var symptoms []string
	if err := json.Unmarshal([]byte(l.Symptoms), &symptoms); err != nil || symptoms == nil {
		symptoms = []string{}
	}
	return logResponse{
		ID:             l.ID,
		PetID:          l.PetID,
		LogDate:        l.LogDate.Format("2006-01-02"),
		ActivityLevel:  l.ActivityLevel,
		FoodIntake:     l.FoodIntake,
		WaterIntake:    l.WaterIntake,
		BathroomHabits: l.BathroomHabits,
		Symptoms:       symptoms,
		CreatedAt:      l.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
