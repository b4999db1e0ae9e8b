package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/training"
)

func fittedPipeline(t *testing.T) *training.Pipeline {
	t.Helper()

	regions := []string{"NCR", "CAR", "ARMM"}
	var rows []training.Row
	var targets []float64
	for i := 0; i < 30; i++ {
		food := float64(100 + i*25)
		rows = append(rows, training.Row{
			training.ColRegion:               regions[i%3],
			training.ColFoodExpenditure:      food,
			training.ColEducationExpenditure: float64(10 + i),
			training.ColFloorArea:            float64(40 + i%7),
			training.ColAppliances:           float64(1 + i%4),
		})
		targets = append(targets, 20*food+float64(i%5)*100)
	}

	pipeline := training.NewPipeline(
		training.NewColumnTransformer(training.CategoricalColumns, training.NumericColumns),
		training.NewRandomForest(training.ForestConfig{NumTrees: 8, MaxDepth: 6, RandomState: 42}),
	)
	require.NoError(t, pipeline.Fit(rows, targets))
	return pipeline
}

func TestExplainPipelineMasksInactiveCategories(t *testing.T) {
	pipeline := fittedPipeline(t)

	encoded, err := pipeline.Preprocessor.TransformRow(training.Row{
		training.ColRegion:               "NCR",
		training.ColFoodExpenditure:      300.0,
		training.ColEducationExpenditure: 25.0,
		training.ColFloorArea:            44.0,
		training.ColAppliances:           2.0,
	})
	require.NoError(t, err)

	features, scores := explainPipeline(pipeline, encoded)
	require.NotEmpty(t, features)
	assert.LessOrEqual(t, len(features), topFeatures)
	assert.Len(t, scores, len(features))

	assert.NotContains(t, features, "Region: CAR")
	assert.NotContains(t, features, "Region: ARMM")
}

func TestExplainPipelineScoresNormalized(t *testing.T) {
	pipeline := fittedPipeline(t)

	encoded, err := pipeline.Preprocessor.TransformRow(training.Row{
		training.ColRegion:               "CAR",
		training.ColFoodExpenditure:      500.0,
		training.ColEducationExpenditure: 30.0,
		training.ColFloorArea:            42.0,
		training.ColAppliances:           3.0,
	})
	require.NoError(t, err)

	_, scores := explainPipeline(pipeline, encoded)
	require.NotEmpty(t, scores)

	assert.Equal(t, 1.0, scores[0])
	for i := 1; i < len(scores); i++ {
		assert.LessOrEqual(t, scores[i], scores[i-1])
		assert.Greater(t, scores[i], 0.0)
	}
}

func TestExplainPipelineFallsBackOnMismatch(t *testing.T) {
	pipeline := fittedPipeline(t)

	features, scores := explainPipeline(pipeline, []float64{1, 2})
	assert.Equal(t, defaultFeatures, features)
	assert.Nil(t, scores)
}

func TestExplainLegacy(t *testing.T) {
	names := []string{"a", "b", "c"}
	importances := []float64{0.2, 0.5, 0.3}

	features, scores := explainLegacy(names, importances)
	assert.Equal(t, []string{"b", "c", "a"}, features)
	assert.Equal(t, []float64{1.0, 0.6, 0.4}, scores)
}

func TestExplainLegacyZeroImportances(t *testing.T) {
	features, scores := explainLegacy([]string{"a", "b"}, []float64{0, 0})
	assert.Equal(t, []string{"a", "b"}, features)
	assert.Equal(t, []float64{0, 0}, scores)
}

func TestHumanizeFeature(t *testing.T) {
	categorical := []string{training.ColRegion}

	got, err := humanizeFeature("num__house_floor_area", categorical)
	require.NoError(t, err)
	assert.Equal(t, "House Floor Area", got)

	got, err = humanizeFeature("num__Total Food Expenditure", categorical)
	require.NoError(t, err)
	assert.Equal(t, "Total Food Expenditure", got)

	got, err = humanizeFeature("cat__Region_NCR", categorical)
	require.NoError(t, err)
	assert.Equal(t, "Region: NCR", got)

	_, err = humanizeFeature("cat__Province_Cebu", categorical)
	assert.Error(t, err)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Number Of Appliances", titleCase("number_of_appliances"))
	assert.Equal(t, "Region", titleCase("Region"))
}
