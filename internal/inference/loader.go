package inference

import (
	"fmt"
	"path/filepath"

	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/training"
	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/pkg/logger"
)

// ModelState holds the artifacts loaded at service startup. Exactly one of
// Pipeline or Legacy is set. The state is immutable for the process lifetime;
// picking up a new model requires a restart.
type ModelState struct {
	Pipeline     *training.Pipeline
	Legacy       *training.RandomForest
	FeatureNames []string
}

// LoadModelState loads the fitted pipeline plus feature names from dir. On
// any failure it falls back to the legacy raw-forest artifact. When both
// paths fail the returned error is fatal to service startup; there is no
// useful degraded mode without a model.
func LoadModelState(dir string) (*ModelState, error) {
	log := logger.WithComponent("loader")

	names, namesErr := training.LoadFeatureNames(filepath.Join(dir, training.FeatureNamesFile))

	pipeline, pipeErr := training.LoadPipeline(filepath.Join(dir, training.PipelineFile))
	if pipeErr == nil && namesErr == nil {
		log.Info().Int("features", len(names)).Msg("Loaded pipeline for inference")
		return &ModelState{Pipeline: pipeline, FeatureNames: names}, nil
	}
	log.Warn().AnErr("pipeline", pipeErr).AnErr("feature_names", namesErr).
		Msg("Pipeline not found, falling back to legacy artifacts")

	legacy, legacyErr := training.LoadForest(filepath.Join(dir, training.LegacyModelFile))
	if legacyErr == nil && namesErr == nil {
		log.Info().Int("features", len(names)).Msg("Loaded legacy model")
		return &ModelState{Legacy: legacy, FeatureNames: names}, nil
	}

	if namesErr != nil {
		return nil, fmt.Errorf("no valid model artifacts in %s (%v): run the training job first", dir, namesErr)
	}
	return nil, fmt.Errorf("no valid model artifacts in %s (pipeline: %v, legacy: %v): run the training job first", dir, pipeErr, legacyErr)
}
