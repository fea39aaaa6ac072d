package analysis

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-behavior-analysis/internal/domain/behaviorlogs"
	"pet-behavior-analysis/internal/domain/pets"
	"pet-behavior-analysis/internal/platform/logger"
	"pet-behavior-analysis/internal/risk"
)

type testLogs struct {
	byPet map[string][]behaviorlogs.BehaviorLog
	err   error
}

func (t *testLogs) Fetch(ctx context.Context, petID string, limit, daysBack int) ([]behaviorlogs.BehaviorLog, error) {
	if t.err != nil {
		return nil, t.err
	}
	return append([]behaviorlogs.BehaviorLog(nil), t.byPet[petID]...), nil
}

func (t *testLogs) ListPetIDs(ctx context.Context) ([]string, error) {
	var ids []string
	for id := range t.byPet {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type testProfiles struct{ pets map[string]pets.Pet }

func (t *testProfiles) Profile(ctx context.Context, petID string) (pets.Pet, bool, error) {
	p, ok := t.pets[petID]
	return p, ok, nil
}

var day0 = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

func dayLog(petID string, i int, food string) behaviorlogs.BehaviorLog {
	return behaviorlogs.BehaviorLog{
		ID:             petID + "-" + day0.AddDate(0, 0, i).Format("0102"),
		PetID:          petID,
		LogDate:        day0.AddDate(0, 0, i),
		ActivityLevel:  "normal",
		FoodIntake:     food,
		WaterIntake:    "normal",
		BathroomHabits: "normal",
		Symptoms:       behaviorlogs.EmptySymptoms,
	}
}

func normalLogs(petID string, n int) []behaviorlogs.BehaviorLog {
	var out []behaviorlogs.BehaviorLog
	for i := 0; i < n; i++ {
		out = append(out, dayLog(petID, i, "normal"))
	}
	return out
}

// alternadas: los días pares la mascota no come.
func mixedLogs(petID string, n int) []behaviorlogs.BehaviorLog {
	var out []behaviorlogs.BehaviorLog
	for i := 0; i < n; i++ {
		food := "normal"
		if i%2 == 0 {
			food = "not eating"
		}
		out = append(out, dayLog(petID, i, food))
	}
	return out
}

type fixture struct {
	svc       *Service
	logs      *testLogs
	store     *risk.FileStore
	retrainer *Retrainer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logs := &testLogs{byPet: map[string][]behaviorlogs.BehaviorLog{}}
	store := risk.NewFileStore(filepath.Join(t.TempDir(), "model.json"), false)
	retrainer := NewRetrainer(time.Hour, 4, NewMemoryCooldowns(), logger.Nop())
	svc := NewService(Options{
		Logs:      logs,
		Profiles:  &testProfiles{pets: map[string]pets.Pet{"p1": {ID: "p1", Name: "Luna", Species: pets.SpeciesDog}}},
		Store:     store,
		Trainer:   risk.NewTrainer(risk.DefaultTrainerConfig(), store),
		Retrainer: retrainer,
		Log:       logger.Nop(),
	})
	return &fixture{svc: svc, logs: logs, store: store, retrainer: retrainer}
}

func TestAnalyze_NoLogs(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Analyze(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, "No data available.", res.Trend)
	assert.Equal(t, risk.Low, res.IllnessRiskBlended)
	assert.Nil(t, res.HealthGuidance)
	assert.Nil(t, res.FeatureInsights)
	assert.Equal(t, StatusUnknown, res.HealthStatus)
	assert.Equal(t, DataInsufficient, res.DataNotice.Status)
	assert.Equal(t, 0, res.DataNotice.LogCount)
	assert.Equal(t, risk.ModeRuleBased, res.ModelNotice.Mode)
	assert.False(t, res.IllnessModelTrained)
	assert.False(t, res.RetrainQueued)
	require.NotNil(t, res.Pet)
	assert.Equal(t, "Luna", res.Pet.Name)
	assert.NotEmpty(t, res.Recommendation.Actions)
}

func TestAnalyze_FiveNormalLogs(t *testing.T) {
	f := newFixture(t)
	f.logs.byPet["p1"] = normalLogs("p1", 5)

	res, err := f.svc.Analyze(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, risk.Low, res.IllnessRiskBlended)
	assert.Equal(t, risk.Low, res.IllnessRiskML)
	assert.Equal(t, risk.Low, res.IllnessRiskContextual)
	assert.Equal(t, StatusHealthy, res.HealthStatus)
	assert.Equal(t, DataSufficient, res.DataNotice.Status)
	assert.Equal(t, 5, res.DataNotice.LogCount)
	assert.Nil(t, res.HealthGuidance)
	require.NotNil(t, res.FeatureInsights)
	assert.InDelta(t, 1.0, res.FeatureInsights.ActivityDistribution["normal"], 1e-9)
	assert.True(t, res.RetrainQueued)
	assert.Nil(t, res.IllnessPattern.PatternType)
}

func TestAnalyze_UnknownPetProfileIsOptional(t *testing.T) {
	f := newFixture(t)
	f.logs.byPet["p2"] = normalLogs("p2", 2)

	res, err := f.svc.Analyze(context.Background(), "p2")
	require.NoError(t, err)
	assert.Nil(t, res.Pet)
	assert.Equal(t, DataInsufficient, res.DataNotice.Status)
	assert.False(t, res.RetrainQueued, "below min logs")
}

func TestAnalyze_FetchErrorDegradesToNoData(t *testing.T) {
	f := newFixture(t)
	f.logs.err = errors.New("backend down")

	res, err := f.svc.Analyze(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "No data available.", res.Trend)
	assert.Equal(t, StatusUnknown, res.HealthStatus)
}

func TestAnalyze_SickLatestLogProducesGuidance(t *testing.T) {
	f := newFixture(t)
	logs := normalLogs("p1", 6)
	sick := dayLog("p1", 6, "not eating")
	sick.ActivityLevel = "low"
	sick.Symptoms = `["vomiting"]`
	f.logs.byPet["p1"] = append(logs, sick)

	res, err := f.svc.Analyze(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, risk.High, res.IllnessRiskML, "rule-based: not eating")
	assert.Equal(t, risk.Medium, res.IllnessRiskContextual, "sudden food change")
	assert.Equal(t, risk.High, res.IllnessRiskBlended)
	assert.Equal(t, StatusNeedsAttention, res.HealthStatus)
	require.NotNil(t, res.HealthGuidance)
	assert.NotEmpty(t, res.HealthGuidance.Recommendations)
}

func TestAnalyze_RejectsEmptyPet(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Analyze(context.Background(), " ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestPredict_RuleBasedWithoutModel(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Predict(context.Background(), "p1", PredictInput{
		ActivityLevel: "Normal", FoodIntake: "Not eating", WaterIntake: "normal", BathroomHabits: "normal",
	})
	require.NoError(t, err)
	assert.Equal(t, risk.High, res.IllnessRisk)
	assert.Equal(t, StatusNeedsAttention, res.HealthStatus)
	assert.Equal(t, risk.ModeRuleBased, res.ModelNotice.Mode)
	assert.False(t, res.IllnessModelTrained)
	assert.NotEmpty(t, res.CareRecommendations.Actions)

	_, err = f.svc.Predict(context.Background(), "p1", PredictInput{SymptomCount: -1})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestTrain_AcceptedThenModelUsed(t *testing.T) {
	f := newFixture(t)
	f.logs.byPet["p1"] = mixedLogs("p1", 12)

	tr, err := f.svc.Train(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, tr.Accepted)
	assert.Equal(t, OutcomeAccepted, tr.Outcome)
	assert.Equal(t, 12, tr.Samples)
	assert.True(t, f.store.Exists("p1"))

	res, err := f.svc.Analyze(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, risk.ModeModel, res.ModelNotice.Mode)
	assert.True(t, res.IllnessModelTrained)
	require.NotNil(t, res.ModelNotice.TrainedAt)
}

func TestTrain_Rejections(t *testing.T) {
	f := newFixture(t)
	f.logs.byPet["few"] = mixedLogs("few", 3)
	f.logs.byPet["same"] = normalLogs("same", 8)

	res, err := f.svc.Train(context.Background(), "few")
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, OutcomeInsufficientData, res.Outcome)

	res, err = f.svc.Train(context.Background(), "same")
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, OutcomeSingleClass, res.Outcome)

	assert.False(t, f.store.Exists(""))
}

func TestTrain_AllPets(t *testing.T) {
	f := newFixture(t)
	f.logs.byPet["a"] = normalLogs("a", 4)
	f.logs.byPet["b"] = mixedLogs("b", 4)

	res, err := f.svc.Train(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "all", res.Scope)
	assert.Equal(t, 8, res.Samples)
	assert.True(t, res.Accepted)
	assert.True(t, f.store.Exists(""))
}

func TestEvaluate_ModelOnPrefix(t *testing.T) {
	f := newFixture(t)
	f.logs.byPet["p1"] = mixedLogs("p1", 20)

	res, err := f.svc.Evaluate(context.Background(), "p1", 7)
	require.NoError(t, err)

	assert.Equal(t, 7, res.TestSamples)
	assert.Equal(t, 13, res.TrainSamples)
	assert.Equal(t, risk.ModeModel, res.Mode)
	assert.InDelta(t, 1.0, res.Accuracy, 1e-9)
	assert.InDelta(t, 1.0, res.F1, 1e-9)
	assert.False(t, f.store.Exists("p1"), "evaluation never persists")
}

func TestEvaluate_FallsBackToRules(t *testing.T) {
	f := newFixture(t)
	f.logs.byPet["p1"] = mixedLogs("p1", 4)

	res, err := f.svc.Evaluate(context.Background(), "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, risk.ModeRuleBased, res.Mode)
	assert.NotEmpty(t, res.Note)
	assert.Equal(t, 2, res.TestSamples)
	assert.InDelta(t, 1.0, res.Accuracy, 1e-9)

	_, err = f.svc.Evaluate(context.Background(), "nobody", 7)
	require.ErrorIs(t, err, ErrInsufficientLogs)
}

func TestScores(t *testing.T) {
	acc, prec, rec, f1 := scores(ConfusionMatrix{TruePositive: 2, FalsePositive: 1, TrueNegative: 6, FalseNegative: 1})
	assert.InDelta(t, 0.8, acc, 1e-9)
	assert.InDelta(t, 2.0/3.0, prec, 1e-9)
	assert.InDelta(t, 2.0/3.0, rec, 1e-9)
	assert.InDelta(t, 2.0/3.0, f1, 1e-9)

	acc, prec, rec, f1 = scores(ConfusionMatrix{})
	assert.Zero(t, acc+prec+rec+f1)
}

func TestAnalyze_SameDayUsesLastCreatedLog(t *testing.T) {
	f := newFixture(t)

	logs := normalLogs("p1", 5)
	sick := dayLog("p1", 5, "not eating")
	sick.ID = "p1-sick"
	sick.ActivityLevel = "low"
	sick.CreatedAt = day0.AddDate(0, 0, 5).Add(8 * time.Hour)
	recovered := dayLog("p1", 5, "normal")
	recovered.ID = "p1-recovered"
	recovered.CreatedAt = sick.CreatedAt.Add(time.Hour)

	// la fuente entrega el día más reciente primero, como los repos
	f.logs.byPet["p1"] = append([]behaviorlogs.BehaviorLog{recovered, sick}, logs...)

	res, err := f.svc.Analyze(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, risk.Low, res.IllnessRiskML)
	assert.Equal(t, risk.Low, res.IllnessRiskBlended)
	require.NotNil(t, res.FeatureInsights)
	assert.False(t, res.FeatureInsights.Window.SuddenFood)
}
