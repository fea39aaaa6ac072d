package analysis

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var validate = validator.New()

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets/{petID}/analysis", func(ar chi.Router) {
		ar.Get("/", analyzeHandler(svc))
		ar.Post("/predict", predictHandler(svc))
		ar.Post("/train", trainHandler(svc))
		ar.Get("/evaluate", evaluateHandler(svc))
	})
	r.Post("/analysis/train", trainAllHandler(svc))
}

// predictRequest son los campos del log a evaluar.
type predictRequest struct {
	ActivityLevel  string `json:"activity_level" validate:"required,max=100"`
	FoodIntake     string `json:"food_intake" validate:"required,max=100"`
	WaterIntake    string `json:"water_intake" validate:"required,max=100"`
	BathroomHabits string `json:"bathroom_habits" validate:"required,max=100"`
	SymptomCount   int    `json:"symptom_count" validate:"min=0,max=100"`
}

// analyzeHandler godoc
// @Summary Analizar comportamiento
// @Description Corre el motor completo sobre los logs recientes: riesgo por modelo/reglas, riesgo contextual, blend, patrón de enfermedad, guía de salud y recomendaciones. Si hay suficientes logs agenda un reentrenamiento en background (cooldown de 6h por mascota).
// @Tags analysis
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} Result
// @Failure 400 {string} string "invalid input"
// @Failure 500 {string} string "internal error"
// @Router /pets/{petID}/analysis [get]
func analyzeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Analyze(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// predictHandler godoc
// @Summary Predecir riesgo de enfermedad
// @Description Evalúa un log puntual con el modelo entrenado, o con reglas si no hay modelo utilizable.
// @Tags analysis
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body predictRequest true "Campos del log"
// @Success 200 {object} PredictResult
// @Failure 400 {string} string "invalid json / validación"
// @Failure 500 {string} string "internal error"
// @Router /pets/{petID}/analysis/predict [post]
func predictHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req predictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		res, err := svc.Predict(r.Context(), chi.URLParam(r, "petID"), PredictInput{
			ActivityLevel:  req.ActivityLevel,
			FoodIntake:     req.FoodIntake,
			WaterIntake:    req.WaterIntake,
			BathroomHabits: req.BathroomHabits,
			SymptomCount:   req.SymptomCount,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// trainHandler godoc
// @Summary Entrenar modelo de una mascota
// @Description Entrena de forma sincrónica con los logs de la mascota. El modelo solo se guarda si pasa el umbral de calidad (AUC >= 0.6).
// @Tags analysis
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} TrainResult
// @Failure 500 {string} string "internal error"
// @Router /pets/{petID}/analysis/train [post]
func trainHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := strings.TrimSpace(chi.URLParam(r, "petID"))
		if petID == "" {
			http.Error(w, ErrInvalidInput.Error(), http.StatusBadRequest)
			return
		}
		res, err := svc.Train(r.Context(), petID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// trainAllHandler godoc
// @Summary Entrenar modelo global
// @Description Entrena con los logs de todas las mascotas y guarda en el slot global.
// @Tags analysis
// @Produce json
// @Success 200 {object} TrainResult
// @Failure 500 {string} string "internal error"
// @Router /analysis/train [post]
func trainAllHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Train(r.Context(), "")
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// evaluateHandler godoc
// @Summary Autoevaluación del modelo
// @Description Entrena (sin guardar) con los logs previos a los últimos test_days días y mide accuracy/precision/recall/F1 sobre esos días.
// @Tags analysis
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param test_days query int false "Días de test. Por defecto 7"
// @Success 200 {object} EvaluationResult
// @Failure 400 {string} string "invalid input"
// @Failure 422 {string} string "not enough logs"
// @Failure 500 {string} string "internal error"
// @Router /pets/{petID}/analysis/evaluate [get]
func evaluateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		testDays := DefaultTestDays
		if v := strings.TrimSpace(r.URL.Query().Get("test_days")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, "test_days must be a positive integer", http.StatusBadRequest)
				return
			}
			testDays = n
		}

		res, err := svc.Evaluate(r.Context(), chi.URLParam(r, "petID"), testDays)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInsufficientLogs):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
