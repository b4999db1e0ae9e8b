package cli

import (
	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/config"
	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/training"
	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/pkg/logger"
)

// RunTrain executes the offline training job and exits.
func RunTrain(configPath string) {
	log := logger.Get()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	summary, err := training.Run(training.Options{
		DatasetPath: cfg.Training.DatasetPath,
		ModelDir:    cfg.Model.Dir,
		NumTrees:    cfg.Training.NumTrees,
		MaxDepth:    cfg.Training.MaxDepth,
		RandomState: cfg.Training.RandomState,
		TestSize:    cfg.Training.TestSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Training failed")
	}

	log.Info().
		Int("rows", summary.Rows).
		Float64("r2", summary.Metrics.R2).
		Float64("rmse", summary.Metrics.RMSE).
		Float64("mae", summary.Metrics.MAE).
		Msg("Training complete")
}
