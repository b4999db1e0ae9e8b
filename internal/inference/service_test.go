package inference

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/training"
)

func pipelinePayload() map[string]interface{} {
	return map[string]interface{}{
		"region":                 "NCR",
		"total_food_expenditure": 350.0,
		"education_expenditure":  22.0,
		"house_floor_area":       45.0,
		"number_of_appliances":   2.0,
	}
}

func TestPredictorPipelinePath(t *testing.T) {
	pipeline := fittedPipeline(t)
	predictor := NewPredictor(&ModelState{Pipeline: pipeline, FeatureNames: pipeline.FeatureNames()})

	resp, err := predictor.Predict(pipelinePayload())
	require.NoError(t, err)

	assert.False(t, math.IsNaN(resp.PredictedIncome))
	assert.False(t, math.IsInf(resp.PredictedIncome, 0))
	assert.NotEmpty(t, resp.ImportantFeatures)
	assert.LessOrEqual(t, len(resp.ImportantFeatures), 5)
	require.NotNil(t, resp.PredictionStd)
	assert.GreaterOrEqual(t, *resp.PredictionStd, 0.0)
}

func TestPredictorDeterministic(t *testing.T) {
	pipeline := fittedPipeline(t)
	predictor := NewPredictor(&ModelState{Pipeline: pipeline, FeatureNames: pipeline.FeatureNames()})

	first, err := predictor.Predict(pipelinePayload())
	require.NoError(t, err)
	second, err := predictor.Predict(pipelinePayload())
	require.NoError(t, err)

	assert.Equal(t, first.PredictedIncome, second.PredictedIncome)
	assert.Equal(t, first.ImportantFeatures, second.ImportantFeatures)
	assert.Equal(t, first.FeatureImportances, second.FeatureImportances)
}

func TestPredictorUnseenCategory(t *testing.T) {
	pipeline := fittedPipeline(t)
	predictor := NewPredictor(&ModelState{Pipeline: pipeline, FeatureNames: pipeline.FeatureNames()})

	payload := pipelinePayload()
	payload["region"] = "Mars"
	resp, err := predictor.Predict(payload)
	require.NoError(t, err)

	assert.False(t, math.IsNaN(resp.PredictedIncome))
	for _, f := range resp.ImportantFeatures {
		assert.NotContains(t, f, "Region:")
	}
}

func TestPredictorMissingColumns(t *testing.T) {
	pipeline := fittedPipeline(t)
	predictor := NewPredictor(&ModelState{Pipeline: pipeline, FeatureNames: pipeline.FeatureNames()})

	_, err := predictor.Predict(map[string]interface{}{"region": "NCR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "columns are missing")
}

func TestPredictorLegacyPath(t *testing.T) {
	forest := training.NewRandomForest(training.ForestConfig{NumTrees: 5, MaxDepth: 4, RandomState: 1})
	samples := make([][]float64, 20)
	targets := make([]float64, 20)
	for i := range samples {
		samples[i] = []float64{float64(i), float64(i % 3)}
		targets[i] = 3 * float64(i)
	}
	require.NoError(t, forest.Fit(samples, targets))

	names := []string{training.ColFoodExpenditure, training.ColEducationExpenditure}
	predictor := NewPredictor(&ModelState{Legacy: forest, FeatureNames: names})

	resp, err := predictor.Predict(map[string]interface{}{
		"region":                 "NCR",
		"total_food_expenditure": 7.0,
		"education_expenditure":  1.0,
		"house_floor_area":       45.0,
		"number_of_appliances":   2.0,
	})
	require.NoError(t, err)

	assert.False(t, math.IsNaN(resp.PredictedIncome))
	assert.Nil(t, resp.PredictionStd)
	assert.ElementsMatch(t, names, resp.ImportantFeatures)
}
