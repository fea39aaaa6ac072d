package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-behavior-analysis/internal/domain/behaviorlogs"
	"pet-behavior-analysis/internal/domain/pets"
	"pet-behavior-analysis/internal/health"
	"pet-behavior-analysis/internal/platform/logger"
	"pet-behavior-analysis/internal/platform/metrics"
	"pet-behavior-analysis/internal/risk"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInsufficientLogs = errors.New("not enough logs")
)

const (
	DefaultMinLogs  = 5
	DefaultTestDays = 7
)

// LogSource es el contrato fetch_logs; lo cumplen behaviorlogs.Service y el cliente del backend.
type LogSource interface {
	Fetch(ctx context.Context, petID string, limit, daysBack int) ([]behaviorlogs.BehaviorLog, error)
	ListPetIDs(ctx context.Context) ([]string, error)
}

type ProfileSource interface {
	Profile(ctx context.Context, petID string) (pets.Pet, bool, error)
}

type Options struct {
	Logs      LogSource
	Profiles  ProfileSource // opcional
	Store     risk.Store
	Trainer   *risk.Trainer
	Retrainer *Retrainer // opcional; sin él no hay reentrenamiento en background
	Log       logger.Logger

	FetchLimit int
	DaysBack   int
	MinLogs    int
}

type Service struct {
	logs      LogSource
	profiles  ProfileSource
	store     risk.Store
	trainer   *risk.Trainer
	predictor *risk.Predictor
	retrainer *Retrainer
	log       logger.Logger
	now       func() time.Time

	fetchLimit int
	daysBack   int
	minLogs    int
}

func NewService(opts Options) *Service {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{
		logs:       opts.Logs,
		profiles:   opts.Profiles,
		store:      opts.Store,
		trainer:    opts.Trainer,
		predictor:  risk.NewPredictor(opts.Store, log),
		retrainer:  opts.Retrainer,
		log:        log,
		now:        time.Now,
		fetchLimit: opts.FetchLimit,
		daysBack:   opts.DaysBack,
		minLogs:    opts.MinLogs,
	}
	if s.fetchLimit <= 0 {
		s.fetchLimit = behaviorlogs.DefaultLimit
	}
	if s.daysBack <= 0 {
		s.daysBack = behaviorlogs.DefaultDaysBack
	}
	if s.minLogs <= 0 {
		s.minLogs = DefaultMinLogs
	}
	if s.retrainer != nil {
		s.retrainer.bind(func(ctx context.Context, petID string) (bool, error) {
			res, err := s.Train(ctx, petID)
			return res.Accepted, err
		})
	}
	return s
}

// fetch nunca falla hacia afuera: sin logs el análisis sigue con "sin datos".
func (s *Service) fetch(ctx context.Context, petID string) []behaviorlogs.BehaviorLog {
	if s.logs == nil {
		return nil
	}
	logs, err := s.logs.Fetch(ctx, petID, s.fetchLimit, s.daysBack)
	if err != nil {
		s.log.Warn("fetch logs failed, analyzing without data", map[string]any{"pet_id": petID, "err": err})
		return nil
	}
	behaviorlogs.SortByDate(logs)
	return logs
}

func (s *Service) profile(ctx context.Context, petID string) *PetSummary {
	if s.profiles == nil {
		return nil
	}
	p, ok, err := s.profiles.Profile(ctx, petID)
	if err != nil {
		s.log.Warn("pet profile lookup failed", map[string]any{"pet_id": petID, "err": err})
		return nil
	}
	if !ok {
		return nil
	}
	return &PetSummary{ID: p.ID, Name: p.Name, Species: string(p.Species), Breed: p.Breed}
}

func (s *Service) Analyze(ctx context.Context, petID string) (Result, error) {
	defer metrics.Since("analyze", time.Now())

	petID = strings.TrimSpace(petID)
	if petID == "" {
		return Result{}, ErrInvalidInput
	}

	logs := s.fetch(ctx, petID)
	res := Result{
		PetID:          petID,
		Trend:          health.Trend(logs),
		IllnessPattern: health.AnalyzePattern(logs, s.log),
		DataNotice:     s.dataNotice(len(logs)),
		Pet:            s.profile(ctx, petID),
	}

	if len(logs) >= s.minLogs && s.retrainer != nil {
		res.RetrainQueued = s.retrainer.Schedule(petID) == ScheduleQueued
	}

	mlRisk := risk.Low
	var pred risk.Prediction
	if len(logs) > 0 {
		pred = s.predictor.Predict(petID, risk.ObservationFromLog(logs[len(logs)-1]))
		mlRisk = pred.Risk
		metrics.ObservePrediction(string(pred.Mode), string(pred.Risk))
	} else {
		pred.Mode = risk.ModeRuleBased
	}

	contextual := risk.AnalyzeContext(logs, s.log)
	blended := risk.Blend(mlRisk, contextual.Risk)

	res.IllnessRiskML = mlRisk
	res.IllnessRiskContextual = contextual.Risk
	res.IllnessRiskBlended = blended
	res.ModelNotice = s.modelNotice(petID, pred.Mode)
	res.IllnessModelTrained = res.ModelNotice.Trained

	dist := health.ActivityDistribution(logs)
	plan := health.BuildCare(blended, dist)
	res.Recommendation = Recommendation{
		Summary:      summaryFor(blended, len(logs)),
		Actions:      plan.Actions,
		Expectations: plan.Expectations,
	}

	if len(logs) == 0 {
		res.HealthStatus = StatusUnknown
		return res, nil
	}

	res.HealthStatus = statusFor(blended)
	res.HealthGuidance = health.GenerateGuidance(health.BuildConcerns(logs), res.IllnessPattern)

	latest := logs[len(logs)-1]
	res.FeatureInsights = &FeatureInsights{
		ActivityDistribution: dist,
		Window:               contextual.Stats,
		LatestSymptomCount:   risk.SymptomCount(latest.Symptoms),
		ModelProbability:     pred.Probability,
		LatestLogDate:        latest.LogDate.Format("2006-01-02"),
	}
	return res, nil
}

func (s *Service) Predict(ctx context.Context, petID string, in PredictInput) (PredictResult, error) {
	defer metrics.Since("predict", time.Now())

	petID = strings.TrimSpace(petID)
	if petID == "" || in.SymptomCount < 0 {
		return PredictResult{}, ErrInvalidInput
	}

	obs := risk.Observation{
		Activity:     risk.Normalize(in.ActivityLevel),
		Food:         risk.Normalize(in.FoodIntake),
		Water:        risk.Normalize(in.WaterIntake),
		Bathroom:     risk.Normalize(in.BathroomHabits),
		SymptomCount: in.SymptomCount,
	}
	pred := s.predictor.Predict(petID, obs)
	metrics.ObservePrediction(string(pred.Mode), string(pred.Risk))

	notice := s.modelNotice(petID, pred.Mode)
	return PredictResult{
		PetID:               petID,
		IllnessRisk:         pred.Risk,
		Probability:         pred.Probability,
		IllnessModelTrained: notice.Trained,
		HealthStatus:        statusFor(pred.Risk),
		CareRecommendations: health.BuildCare(pred.Risk, map[string]float64{obs.Activity: 1}),
		ModelNotice:         notice,
	}, nil
}

// Train entrena con los logs de una mascota o, con petID vacío, de todas.
// Un rechazo (pocos datos, una sola clase, AUC bajo) no es error: se reporta en el resultado.
func (s *Service) Train(ctx context.Context, petID string) (TrainResult, error) {
	defer metrics.Since("train", time.Now())

	if s.trainer == nil || s.logs == nil {
		return TrainResult{}, errors.New("analysis: trainer not configured")
	}

	petID = strings.TrimSpace(petID)
	res := TrainResult{PetID: petID, Scope: "pet"}

	var rows []risk.Observation
	if petID == "" {
		res.Scope = "all"
		ids, err := s.logs.ListPetIDs(ctx)
		if err != nil {
			metrics.ObserveTraining(OutcomeError)
			return TrainResult{}, fmt.Errorf("list pets: %w", err)
		}
		for _, id := range ids {
			rows = append(rows, observations(s.fetch(ctx, id))...)
		}
	} else {
		rows = observations(s.fetch(ctx, petID))
	}
	res.Samples = len(rows)

	b, err := s.trainer.Train(petID, rows)
	switch {
	case err == nil:
		res.Accepted = true
		res.Outcome = OutcomeAccepted
		res.Message = "Model trained and saved."
		res.CVAUC = b.Metadata.CVAUC
		at := b.Metadata.TrainedAt
		res.TrainedAt = &at
	case errors.Is(err, risk.ErrInsufficientData):
		res.Outcome = OutcomeInsufficientData
		res.Message = fmt.Sprintf("Not enough logs to train a model (found %d).", len(rows))
	case errors.Is(err, risk.ErrSingleClass):
		res.Outcome = OutcomeSingleClass
		res.Message = "All logs share the same label; the model cannot learn from them yet."
	case errors.Is(err, risk.ErrBelowQuality):
		res.Outcome = OutcomeBelowQuality
		res.Message = "The trained model did not meet the quality threshold and was discarded."
	default:
		metrics.ObserveTraining(OutcomeError)
		return TrainResult{}, err
	}

	metrics.ObserveTraining(res.Outcome)
	s.log.Info("training finished", map[string]any{
		"pet_id":  petID,
		"scope":   res.Scope,
		"outcome": res.Outcome,
		"samples": res.Samples,
	})
	return res, nil
}

// Evaluate separa los últimos testDays como test, entrena (sin guardar) con el
// resto y compara las predicciones contra la etiqueta derivada de cada fila.
func (s *Service) Evaluate(ctx context.Context, petID string, testDays int) (EvaluationResult, error) {
	defer metrics.Since("evaluate", time.Now())

	petID = strings.TrimSpace(petID)
	if petID == "" {
		return EvaluationResult{}, ErrInvalidInput
	}
	if testDays <= 0 {
		testDays = DefaultTestDays
	}

	logs := s.fetch(ctx, petID)
	if len(logs) == 0 {
		return EvaluationResult{}, ErrInsufficientLogs
	}

	cutoff := logs[len(logs)-1].LogDate.UTC().Truncate(24*time.Hour).AddDate(0, 0, -testDays)
	var train, test []risk.Observation
	for _, l := range logs {
		if l.LogDate.UTC().Truncate(24 * time.Hour).After(cutoff) {
			test = append(test, risk.ObservationFromLog(l))
		} else {
			train = append(train, risk.ObservationFromLog(l))
		}
	}

	out := EvaluationResult{
		PetID:        petID,
		TestDays:     testDays,
		TrainSamples: len(train),
		TestSamples:  len(test),
		Mode:         risk.ModeModel,
	}

	var bundle *risk.Bundle
	if s.trainer != nil {
		b, err := s.trainer.Fit(train)
		if err != nil {
			out.Note = "Model could not be trained on the earlier logs (" + err.Error() + "); rule-based predictions were evaluated."
		}
		bundle = b
	}
	if bundle == nil {
		out.Mode = risk.ModeRuleBased
	}

	var cm ConfusionMatrix
	for _, o := range test {
		predicted := s.predictor.PredictWith(bundle, o).Risk != risk.Low
		actual := risk.Label(o)
		switch {
		case predicted && actual:
			cm.TruePositive++
		case predicted && !actual:
			cm.FalsePositive++
		case !predicted && actual:
			cm.FalseNegative++
		default:
			cm.TrueNegative++
		}
	}
	out.Confusion = cm
	out.Accuracy, out.Precision, out.Recall, out.F1 = scores(cm)
	return out, nil
}

func scores(cm ConfusionMatrix) (accuracy, precision, recall, f1 float64) {
	total := cm.TruePositive + cm.FalsePositive + cm.TrueNegative + cm.FalseNegative
	if total > 0 {
		accuracy = float64(cm.TruePositive+cm.TrueNegative) / float64(total)
	}
	if d := cm.TruePositive + cm.FalsePositive; d > 0 {
		precision = float64(cm.TruePositive) / float64(d)
	}
	if d := cm.TruePositive + cm.FalseNegative; d > 0 {
		recall = float64(cm.TruePositive) / float64(d)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return accuracy, precision, recall, f1
}

func observations(logs []behaviorlogs.BehaviorLog) []risk.Observation {
	out := make([]risk.Observation, 0, len(logs))
	for _, l := range logs {
		out = append(out, risk.ObservationFromLog(l))
	}
	return out
}

func (s *Service) dataNotice(n int) DataNotice {
	d := DataNotice{Status: DataSufficient, LogCount: n, MinRequired: s.minLogs}
	switch {
	case n == 0:
		d.Status = DataInsufficient
		d.Message = "No behavior logs found yet. Start logging daily to get a risk assessment."
	case n < s.minLogs:
		d.Status = DataInsufficient
		d.Message = fmt.Sprintf("Only %d of the recommended %d logs are available; results may be less reliable.", n, s.minLogs)
	default:
		d.Message = fmt.Sprintf("Analysis based on %d logs.", n)
	}
	return d
}

func (s *Service) modelNotice(petID string, mode risk.Mode) ModelNotice {
	n := ModelNotice{Mode: mode}
	if s.store != nil {
		if b, err := s.store.Load(petID); err == nil {
			n.Trained = true
			at := b.Metadata.TrainedAt
			n.TrainedAt = &at
			n.CVAUC = b.Metadata.CVAUC
		}
	}
	switch {
	case mode == risk.ModeModel:
		n.Message = "Illness risk estimated by the trained model."
	case n.Trained:
		n.Message = "A trained model exists but could not score this log; a rule-based estimate was used."
	default:
		n.Message = "No trained model is available yet; a rule-based estimate was used."
	}
	return n
}

func summaryFor(r risk.Risk, logCount int) string {
	if logCount == 0 {
		return "No behavior data yet; general care tips are shown below."
	}
	switch r {
	case risk.High:
		return "Recent behavior shows signs that need veterinary attention."
	case risk.Medium:
		return "Some recent changes are worth watching closely."
	default:
		return "Recent behavior looks normal."
	}
}
