package inference

import (
	"fmt"
	"sort"
	"strings"

	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/training"
	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/pkg/logger"
)

const topFeatures = 5

// defaultFeatures is the fixed explanation used when importance derivation
// fails; the point prediction is still returned.
var defaultFeatures = []string{
	training.ColRegion,
	training.ColFoodExpenditure,
	training.ColEducationExpenditure,
}

type rankedFeature struct {
	name       string
	importance float64
}

// explainPipeline derives a ranked, humanized explanation for one encoded
// row. Global importances of one-hot columns not active in this row are
// masked to zero, so categories the request did not select never appear.
// Returned scores are relative to the top selected importance. Any derivation
// failure degrades to defaultFeatures with no scores.
func explainPipeline(pipeline *training.Pipeline, encoded []float64) ([]string, []float64) {
	features, scores, err := rankPipelineFeatures(pipeline, encoded)
	if err != nil {
		log := logger.WithComponent("explain")
		log.Debug().Err(err).Msg("Falling back to default explanation")
		return defaultFeatures, nil
	}
	return features, scores
}

func rankPipelineFeatures(pipeline *training.Pipeline, encoded []float64) ([]string, []float64, error) {
	names := pipeline.FeatureNames()
	importances := pipeline.Model.FeatureImportances()
	if len(names) != len(importances) || len(encoded) != len(importances) {
		return nil, nil, fmt.Errorf("feature name/importance mismatch: %d names, %d importances, %d encoded", len(names), len(importances), len(encoded))
	}

	var ranked []rankedFeature
	for i, imp := range importances {
		if strings.HasPrefix(names[i], training.CategoricalPrefix) && encoded[i] == 0 {
			continue
		}
		if imp <= 0 {
			continue
		}
		ranked = append(ranked, rankedFeature{name: names[i], importance: imp})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].importance > ranked[j].importance
	})
	if len(ranked) > topFeatures {
		ranked = ranked[:topFeatures]
	}

	features := make([]string, len(ranked))
	for i, rf := range ranked {
		humanized, err := humanizeFeature(rf.name, pipeline.Preprocessor.Categorical)
		if err != nil {
			return nil, nil, err
		}
		features[i] = humanized
	}

	return features, normalizeScores(ranked), nil
}

// explainLegacy ranks the stored raw feature names by global importance with
// no masking or humanization.
func explainLegacy(featureNames []string, importances []float64) ([]string, []float64) {
	ranked := make([]rankedFeature, 0, len(importances))
	for i, imp := range importances {
		name := fmt.Sprintf("f%d", i)
		if i < len(featureNames) {
			name = featureNames[i]
		}
		ranked = append(ranked, rankedFeature{name: name, importance: imp})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].importance > ranked[j].importance
	})
	if len(ranked) > topFeatures {
		ranked = ranked[:topFeatures]
	}

	features := make([]string, len(ranked))
	for i, rf := range ranked {
		features[i] = rf.name
	}
	return features, normalizeScores(ranked)
}

// normalizeScores scales the selected importances by their maximum, yielding
// relative scores in (0,1]. A zero maximum yields all-zero scores.
func normalizeScores(ranked []rankedFeature) []float64 {
	if len(ranked) == 0 {
		return nil
	}
	max := ranked[0].importance
	for _, rf := range ranked[1:] {
		if rf.importance > max {
			max = rf.importance
		}
	}
	scores := make([]float64, len(ranked))
	for i, rf := range ranked {
		if max > 0 {
			scores[i] = rf.importance / max
		}
	}
	return scores
}

// humanizeFeature strips the transformer prefix and renders a readable name:
// numeric columns title-cased, categorical columns as "<Feature>: <Category>".
func humanizeFeature(name string, categorical []string) (string, error) {
	switch {
	case strings.HasPrefix(name, training.CategoricalPrefix):
		rest := strings.TrimPrefix(name, training.CategoricalPrefix)
		for _, col := range categorical {
			if strings.HasPrefix(rest, col+"_") {
				return titleCase(col) + ": " + rest[len(col)+1:], nil
			}
		}
		return "", fmt.Errorf("encoded column %q matches no categorical feature", name)
	case strings.HasPrefix(name, training.NumericPrefix):
		return titleCase(strings.TrimPrefix(name, training.NumericPrefix)), nil
	default:
		return titleCase(name), nil
	}
}

func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
