package inference

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/models"
	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/training"
	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/pkg/logger"
)

// Predictor runs predictions against the model state loaded at startup. It
// holds no mutable state, so concurrent requests need no coordination.
type Predictor struct {
	state *ModelState
}

func NewPredictor(state *ModelState) *Predictor {
	return &Predictor{state: state}
}

// Predict normalizes the client payload, runs the model, and assembles the
// prediction with its explanation and uncertainty estimate.
func (p *Predictor) Predict(payload map[string]interface{}) (*models.PredictResponse, error) {
	row, err := NormalizeRow(payload)
	if err != nil {
		return nil, err
	}
	log := logger.WithComponent("predictor")
	log.Debug().Interface("row", row).Msg("Received model input")

	if p.state.Pipeline != nil {
		return p.predictPipeline(row)
	}
	return p.predictLegacy(row)
}

func (p *Predictor) predictPipeline(row training.Row) (*models.PredictResponse, error) {
	pipeline := p.state.Pipeline

	encoded, err := pipeline.Preprocessor.TransformRow(row)
	if err != nil {
		return nil, err
	}
	perTree, err := pipeline.Model.PredictPerTree(encoded)
	if err != nil {
		return nil, err
	}
	predicted := stat.Mean(perTree, nil)
	std := stat.PopStdDev(perTree, nil)

	features, scores := explainPipeline(pipeline, encoded)

	return &models.PredictResponse{
		PredictedIncome:    predicted,
		ImportantFeatures:  features,
		FeatureImportances: scores,
		PredictionStd:      &std,
	}, nil
}

// predictLegacy orders the raw row values by the stored feature-name list and
// predicts with the bare forest. No masking, humanization, or uncertainty
// estimate on this path.
func (p *Predictor) predictLegacy(row training.Row) (*models.PredictResponse, error) {
	sample := make([]float64, len(p.state.FeatureNames))
	for i, name := range p.state.FeatureNames {
		v, err := training.FloatValue(row, name)
		if err != nil {
			return nil, fmt.Errorf("legacy feature %q: %w", name, err)
		}
		sample[i] = v
	}

	predicted, err := p.state.Legacy.Predict(sample)
	if err != nil {
		return nil, err
	}

	features, scores := explainLegacy(p.state.FeatureNames, p.state.Legacy.FeatureImportances())

	return &models.PredictResponse{
		PredictedIncome:    predicted,
		ImportantFeatures:  features,
		FeatureImportances: scores,
	}, nil
}
