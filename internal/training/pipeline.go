package training

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact filenames within the model directory.
const (
	PipelineFile     = "pipeline.json"
	FeatureNamesFile = "feature_names.json"
	LegacyModelFile  = "random_forest_model.json"
	SummaryFile      = "summary.json"
)

// Pipeline composes the fitted column transformer and the forest, fit and
// persisted as a single unit.
type Pipeline struct {
	Preprocessor *ColumnTransformer `json:"preprocessor"`
	Model        *RandomForest      `json:"model"`
}

func NewPipeline(preprocessor *ColumnTransformer, model *RandomForest) *Pipeline {
	return &Pipeline{Preprocessor: preprocessor, Model: model}
}

// Fit fits the preprocessor on the rows, encodes them, and trains the forest
// on the encoded matrix.
func (p *Pipeline) Fit(rows []Row, targets []float64) error {
	if err := p.Preprocessor.Fit(rows); err != nil {
		return fmt.Errorf("fit preprocessor: %w", err)
	}
	encoded, err := p.Preprocessor.Transform(rows)
	if err != nil {
		return fmt.Errorf("transform training rows: %w", err)
	}
	if err := p.Model.Fit(encoded, targets); err != nil {
		return fmt.Errorf("fit model: %w", err)
	}
	return nil
}

// Predict transforms one row and returns the forest prediction.
func (p *Pipeline) Predict(row Row) (float64, error) {
	encoded, err := p.Preprocessor.TransformRow(row)
	if err != nil {
		return 0, err
	}
	return p.Model.Predict(encoded)
}

// PredictRows predicts a batch of raw rows.
func (p *Pipeline) PredictRows(rows []Row) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		pred, err := p.Predict(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = pred
	}
	return out, nil
}

// FeatureNames returns the post-encoding feature names, aligned with the
// forest's importance vector.
func (p *Pipeline) FeatureNames() []string {
	return p.Preprocessor.FeatureNames()
}

// Save writes the fitted pipeline to path as JSON.
func (p *Pipeline) Save(path string) error {
	return writeJSON(path, p)
}

// LoadPipeline reads a fitted pipeline from path.
func LoadPipeline(path string) (*Pipeline, error) {
	var p Pipeline
	if err := readJSON(path, &p); err != nil {
		return nil, err
	}
	if p.Preprocessor == nil || p.Model == nil {
		return nil, fmt.Errorf("pipeline artifact %s is incomplete", path)
	}
	return &p, nil
}

// SaveForest persists a bare forest, the legacy artifact format.
func SaveForest(path string, rf *RandomForest) error {
	return writeJSON(path, rf)
}

// LoadForest reads a bare forest from path.
func LoadForest(path string) (*RandomForest, error) {
	var rf RandomForest
	if err := readJSON(path, &rf); err != nil {
		return nil, err
	}
	if len(rf.Trees) == 0 {
		return nil, fmt.Errorf("model artifact %s contains no trees", path)
	}
	return &rf, nil
}

// SaveFeatureNames persists the ordered post-encoding feature name list.
func SaveFeatureNames(path string, names []string) error {
	return writeJSON(path, names)
}

// LoadFeatureNames reads the ordered feature name list from path.
func LoadFeatureNames(path string) ([]string, error) {
	var names []string
	if err := readJSON(path, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
