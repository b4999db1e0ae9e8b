package training

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"sort"
	"time"

	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/pkg/logger"
)

// Options configure one training run.
type Options struct {
	DatasetPath string
	ModelDir    string
	NumTrees    int
	MaxDepth    int
	RandomState int64
	TestSize    float64
}

// Summary is the training report persisted next to the model artifacts and
// served verbatim by the model-info endpoint.
type Summary struct {
	DatasetName           string                   `json:"dataset_name"`
	DatasetSource         string                   `json:"dataset_source"`
	Target                string                   `json:"target"`
	Rows                  int                      `json:"rows"`
	FeaturesUsed          []string                 `json:"features_used"`
	Model                 ModelSummary             `json:"model"`
	Metrics               MetricsSummary           `json:"metrics"`
	TrainingTimeUTC       string                   `json:"training_time_utc"`
	TopFeatureImportances []FeatureImportance      `json:"top_feature_importances"`
	PreviewColumns        []string                 `json:"preview_columns"`
	PreviewRows           []map[string]interface{} `json:"preview_rows"`
}

type ModelSummary struct {
	Type   string      `json:"type"`
	Params ModelParams `json:"params"`
}

type ModelParams struct {
	NEstimators int   `json:"n_estimators"`
	MaxDepth    int   `json:"max_depth"`
	RandomState int64 `json:"random_state"`
}

type MetricsSummary struct {
	R2       float64 `json:"r2"`
	RMSE     float64 `json:"rmse"`
	MAE      float64 `json:"mae"`
	TestSize float64 `json:"test_size"`
}

type FeatureImportance struct {
	Name       string  `json:"name"`
	Importance float64 `json:"importance"`
}

// Run executes a full training job: load and clean the dataset, fit the
// pipeline on a seeded train split, evaluate on the held-out split, and
// persist the pipeline, feature names, and summary into opts.ModelDir.
func Run(opts Options) (*Summary, error) {
	log := logger.WithComponent("trainer")

	dataset, err := LoadDataset(opts.DatasetPath)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("rows", len(dataset.Rows)).
		Strs("features", dataset.FeatureColumns()).
		Msg("Dataset loaded")

	trainRows, trainTargets, testRows, testTargets := TrainTestSplit(dataset.Rows, dataset.Targets, opts.TestSize, opts.RandomState)

	forest := NewRandomForest(ForestConfig{
		NumTrees:    opts.NumTrees,
		MaxDepth:    opts.MaxDepth,
		RandomState: opts.RandomState,
	})
	pipeline := NewPipeline(NewColumnTransformer(dataset.Categorical, dataset.Numeric), forest)

	if err := pipeline.Fit(trainRows, trainTargets); err != nil {
		return nil, fmt.Errorf("train pipeline: %w", err)
	}

	predicted, err := pipeline.PredictRows(testRows)
	if err != nil {
		return nil, fmt.Errorf("evaluate pipeline: %w", err)
	}

	metrics := MetricsSummary{
		R2:       RSquared(testTargets, predicted),
		RMSE:     RMSE(testTargets, predicted),
		MAE:      MAE(testTargets, predicted),
		TestSize: opts.TestSize,
	}
	log.Info().
		Float64("r2", metrics.R2).
		Float64("rmse", metrics.RMSE).
		Float64("mae", metrics.MAE).
		Msg("Held-out evaluation")

	if err := pipeline.Save(filepath.Join(opts.ModelDir, PipelineFile)); err != nil {
		return nil, err
	}
	featureNames := pipeline.FeatureNames()
	if err := SaveFeatureNames(filepath.Join(opts.ModelDir, FeatureNamesFile), featureNames); err != nil {
		return nil, err
	}

	summary := &Summary{
		DatasetName:   "Family Income and Expenditure Survey (FIES)",
		DatasetSource: "https://www.kaggle.com/datasets/grosvenpaul/family-income-and-expenditure",
		Target:        ColTarget,
		Rows:          len(dataset.Rows),
		FeaturesUsed:  dataset.FeatureColumns(),
		Model: ModelSummary{
			Type: "RandomForestRegressor",
			Params: ModelParams{
				NEstimators: forest.Config.NumTrees,
				MaxDepth:    forest.Config.MaxDepth,
				RandomState: forest.Config.RandomState,
			},
		},
		Metrics:               metrics,
		TrainingTimeUTC:       time.Now().UTC().Format(time.RFC3339),
		TopFeatureImportances: topImportances(featureNames, forest.FeatureImportances(), 5),
		PreviewColumns:        append(dataset.FeatureColumns(), ColTarget),
		PreviewRows:           dataset.Preview(5),
	}
	if err := writeJSON(filepath.Join(opts.ModelDir, SummaryFile), summary); err != nil {
		return nil, err
	}

	log.Info().Str("dir", opts.ModelDir).Msg("Artifacts written")
	return summary, nil
}

// TrainTestSplit shuffles the rows with the given seed and splits off the
// trailing testSize fraction as the held-out set.
func TrainTestSplit(rows []Row, targets []float64, testSize float64, seed int64) ([]Row, []float64, []Row, []float64) {
	n := len(rows)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })

	numTrain := n - int(float64(n)*testSize)
	trainRows := make([]Row, 0, numTrain)
	trainTargets := make([]float64, 0, numTrain)
	testRows := make([]Row, 0, n-numTrain)
	testTargets := make([]float64, 0, n-numTrain)

	for i, idx := range indices {
		if i < numTrain {
			trainRows = append(trainRows, rows[idx])
			trainTargets = append(trainTargets, targets[idx])
		} else {
			testRows = append(testRows, rows[idx])
			testTargets = append(testTargets, targets[idx])
		}
	}
	return trainRows, trainTargets, testRows, testTargets
}

// topImportances pairs feature names with importances and keeps the k
// highest-scoring entries in descending order.
func topImportances(names []string, importances []float64, k int) []FeatureImportance {
	paired := make([]FeatureImportance, 0, len(importances))
	for i, imp := range importances {
		name := fmt.Sprintf("f%d", i)
		if i < len(names) {
			name = names[i]
		}
		paired = append(paired, FeatureImportance{Name: name, Importance: imp})
	}
	sort.SliceStable(paired, func(i, j int) bool {
		return paired[i].Importance > paired[j].Importance
	})
	if len(paired) > k {
		paired = paired[:k]
	}
	return paired
}
