package analysis

import (
	"time"

	"pet-behavior-analysis/internal/health"
	"pet-behavior-analysis/internal/risk"
)

type HealthStatus string

const (
	StatusHealthy        HealthStatus = "healthy"
	StatusMonitor        HealthStatus = "monitor"
	StatusNeedsAttention HealthStatus = "needs_attention"
	StatusUnknown        HealthStatus = "unknown"
)

func statusFor(r risk.Risk) HealthStatus {
	switch r {
	case risk.High:
		return StatusNeedsAttention
	case risk.Medium:
		return StatusMonitor
	default:
		return StatusHealthy
	}
}

const (
	DataSufficient   = "sufficient_data"
	DataInsufficient = "insufficient_data"
)

type DataNotice struct {
	Status      string `json:"status"`
	LogCount    int    `json:"log_count"`
	MinRequired int    `json:"min_required"`
	Message     string `json:"message"`
}

type ModelNotice struct {
	Mode      risk.Mode  `json:"mode"`
	Trained   bool       `json:"trained"`
	Message   string     `json:"message"`
	TrainedAt *time.Time `json:"trained_at,omitempty"`
	CVAUC     *float64   `json:"cv_auc,omitempty"`
}

type Recommendation struct {
	Summary      string   `json:"summary"`
	Actions      []string `json:"actions"`
	Expectations []string `json:"expectations"`
}

// FeatureInsights expone lo que miró el motor, para depurar o mostrar en la UI.
type FeatureInsights struct {
	ActivityDistribution map[string]float64 `json:"activity_distribution"`
	Window               risk.ContextStats  `json:"recent_window"`
	LatestSymptomCount   int                `json:"latest_symptom_count"`
	ModelProbability     *float64           `json:"model_probability,omitempty"`
	LatestLogDate        string             `json:"latest_log_date"`
}

type PetSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Species string `json:"species"`
	Breed   string `json:"breed,omitempty"`
}

// Result es la salida completa de Analyze.
type Result struct {
	PetID                 string                `json:"pet_id"`
	Trend                 string                `json:"trend"`
	Recommendation        Recommendation        `json:"recommendation"`
	IllnessRiskML         risk.Risk             `json:"illness_risk_ml"`
	IllnessRiskContextual risk.Risk             `json:"illness_risk_contextual"`
	IllnessRiskBlended    risk.Risk             `json:"illness_risk_blended"`
	IllnessModelTrained   bool                  `json:"illness_model_trained"`
	HealthStatus          HealthStatus          `json:"health_status"`
	HealthGuidance        *health.Guidance      `json:"health_guidance,omitempty"`
	FeatureInsights       *FeatureInsights      `json:"feature_insights,omitempty"`
	IllnessPattern        health.IllnessPattern `json:"illness_pattern"`
	DataNotice            DataNotice            `json:"data_notice"`
	ModelNotice           ModelNotice           `json:"model_notice"`
	RetrainQueued         bool                  `json:"retrain_queued"`
	Pet                   *PetSummary           `json:"pet,omitempty"`
}

type PredictInput struct {
	ActivityLevel  string
	FoodIntake     string
	WaterIntake    string
	BathroomHabits string
	SymptomCount   int
}

type PredictResult struct {
	PetID               string          `json:"pet_id"`
	IllnessRisk         risk.Risk       `json:"illness_risk"`
	Probability         *float64        `json:"probability,omitempty"`
	IllnessModelTrained bool            `json:"illness_model_trained"`
	HealthStatus        HealthStatus    `json:"health_status"`
	CareRecommendations health.CarePlan `json:"care_recommendations"`
	ModelNotice         ModelNotice     `json:"model_notice"`
}

const (
	OutcomeAccepted         = "accepted"
	OutcomeInsufficientData = "insufficient_data"
	OutcomeSingleClass      = "single_class"
	OutcomeBelowQuality     = "below_quality"
	OutcomeError            = "error"
)

type TrainResult struct {
	PetID     string     `json:"pet_id,omitempty"`
	Scope     string     `json:"scope"` // "pet" | "all"
	Accepted  bool       `json:"accepted"`
	Outcome   string     `json:"outcome"`
	Message   string     `json:"message"`
	Samples   int        `json:"samples"`
	CVAUC     *float64   `json:"cv_auc,omitempty"`
	TrainedAt *time.Time `json:"trained_at,omitempty"`
}

type ConfusionMatrix struct {
	TruePositive  int `json:"true_positive"`
	FalsePositive int `json:"false_positive"`
	TrueNegative  int `json:"true_negative"`
	FalseNegative int `json:"false_negative"`
}

type EvaluationResult struct {
	PetID        string          `json:"pet_id"`
	TestDays     int             `json:"test_days"`
	TrainSamples int             `json:"train_samples"`
	TestSamples  int             `json:"test_samples"`
	Mode         risk.Mode       `json:"mode"`
	Note         string          `json:"note,omitempty"`
	Accuracy     float64         `json:"accuracy"`
	Precision    float64         `json:"precision"`
	Recall       float64         `json:"recall"`
	F1           float64         `json:"f1"`
	Confusion    ConfusionMatrix `json:"confusion_matrix"`
}
