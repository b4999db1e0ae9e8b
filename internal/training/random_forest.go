package training

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ForestConfig holds the hyperparameters of the regression forest.
type ForestConfig struct {
	NumTrees        int   `json:"num_trees"`
	MaxDepth        int   `json:"max_depth"`
	MinSamplesSplit int   `json:"min_samples_split"`
	MaxFeatures     int   `json:"max_features"`
	RandomState     int64 `json:"random_state"`
}

// RandomForest is a bagged ensemble of regression trees with
// variance-reduction splits and random feature subsets.
type RandomForest struct {
	Config      ForestConfig      `json:"config"`
	Trees       []*RegressionTree `json:"trees"`
	Importances []float64         `json:"importances"`
	NumFeatures int               `json:"num_features"`
}

type RegressionTree struct {
	Root *TreeNode `json:"root"`
}

type TreeNode struct {
	FeatureIndex int       `json:"feature_index"`
	Threshold    float64   `json:"threshold"`
	Left         *TreeNode `json:"left,omitempty"`
	Right        *TreeNode `json:"right,omitempty"`
	Value        float64   `json:"value"`
	IsLeaf       bool      `json:"is_leaf"`
	Samples      int       `json:"samples"`
	Impurity     float64   `json:"impurity"`
}

type splitResult struct {
	featureIndex int
	threshold    float64
	impurity     float64
	leftIndices  []int
	rightIndices []int
}

// NewRandomForest applies defaults to the given config.
func NewRandomForest(config ForestConfig) *RandomForest {
	if config.NumTrees <= 0 {
		config.NumTrees = 40
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = 10
	}
	if config.MinSamplesSplit < 2 {
		config.MinSamplesSplit = 2
	}
	return &RandomForest{Config: config}
}

// Fit trains the forest on the given feature matrix and targets. Training is
// sequential and seeded, so repeated runs on the same data produce the same
// forest.
func (rf *RandomForest) Fit(features [][]float64, targets []float64) error {
	if len(features) == 0 || len(targets) == 0 {
		return fmt.Errorf("empty training data")
	}
	if len(features) != len(targets) {
		return fmt.Errorf("feature and target count mismatch: %d features, %d targets", len(features), len(targets))
	}

	numFeatures := len(features[0])
	for i, row := range features {
		if len(row) != numFeatures {
			return fmt.Errorf("inconsistent feature dimensions at sample %d: expected %d, got %d", i, numFeatures, len(row))
		}
	}
	for i, t := range targets {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("invalid target at sample %d: %v", i, t)
		}
	}

	rf.NumFeatures = numFeatures
	maxFeatures := rf.Config.MaxFeatures
	if maxFeatures <= 0 || maxFeatures > numFeatures {
		maxFeatures = numFeatures
	}

	rng := rand.New(rand.NewSource(rf.Config.RandomState))
	rf.Trees = make([]*RegressionTree, rf.Config.NumTrees)

	for i := 0; i < rf.Config.NumTrees; i++ {
		sampleIdx := rf.bootstrap(len(features), rng)
		tree := &RegressionTree{}
		tree.Root = rf.buildTree(features, targets, sampleIdx, 0, maxFeatures, rng)
		rf.Trees[i] = tree
	}

	rf.Importances = rf.computeImportances()
	return nil
}

func (rf *RandomForest) bootstrap(n int, rng *rand.Rand) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = rng.Intn(n)
	}
	return indices
}

func (rf *RandomForest) buildTree(features [][]float64, targets []float64, indices []int, depth, maxFeatures int, rng *rand.Rand) *TreeNode {
	impurity := varianceAt(targets, indices)

	if len(indices) < rf.Config.MinSamplesSplit || depth >= rf.Config.MaxDepth || impurity == 0 {
		return leafNode(targets, indices, impurity)
	}

	best := rf.findBestSplit(features, targets, indices, maxFeatures, rng)
	if best == nil {
		return leafNode(targets, indices, impurity)
	}

	node := &TreeNode{
		FeatureIndex: best.featureIndex,
		Threshold:    best.threshold,
		Samples:      len(indices),
		Impurity:     impurity,
	}
	node.Left = rf.buildTree(features, targets, best.leftIndices, depth+1, maxFeatures, rng)
	node.Right = rf.buildTree(features, targets, best.rightIndices, depth+1, maxFeatures, rng)
	return node
}

func (rf *RandomForest) findBestSplit(features [][]float64, targets []float64, indices []int, maxFeatures int, rng *rand.Rand) *splitResult {
	numFeatures := len(features[indices[0]])
	featureIndices := selectRandomFeatures(numFeatures, maxFeatures, rng)

	var best *splitResult
	bestImpurity := math.Inf(1)

	for _, featureIdx := range featureIndices {
		values := make([]float64, len(indices))
		for i, idx := range indices {
			values[i] = features[idx][featureIdx]
		}
		sort.Float64s(values)

		for i := 0; i < len(values)-1; i++ {
			if values[i] == values[i+1] {
				continue
			}
			threshold := (values[i] + values[i+1]) / 2

			var leftIndices, rightIndices []int
			for _, idx := range indices {
				if features[idx][featureIdx] <= threshold {
					leftIndices = append(leftIndices, idx)
				} else {
					rightIndices = append(rightIndices, idx)
				}
			}
			if len(leftIndices) == 0 || len(rightIndices) == 0 {
				continue
			}

			impurity := weightedVariance(targets, leftIndices, rightIndices)
			if impurity < bestImpurity {
				bestImpurity = impurity
				best = &splitResult{
					featureIndex: featureIdx,
					threshold:    threshold,
					impurity:     impurity,
					leftIndices:  leftIndices,
					rightIndices: rightIndices,
				}
			}
		}
	}

	return best
}

func selectRandomFeatures(numFeatures, maxFeatures int, rng *rand.Rand) []int {
	indices := make([]int, numFeatures)
	for i := range indices {
		indices[i] = i
	}
	if maxFeatures >= numFeatures {
		return indices
	}
	rng.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	return indices[:maxFeatures]
}

func leafNode(targets []float64, indices []int, impurity float64) *TreeNode {
	return &TreeNode{
		FeatureIndex: -1,
		Value:        meanAt(targets, indices),
		IsLeaf:       true,
		Samples:      len(indices),
		Impurity:     impurity,
	}
}

func meanAt(targets []float64, indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	vals := make([]float64, len(indices))
	for i, idx := range indices {
		vals[i] = targets[idx]
	}
	return stat.Mean(vals, nil)
}

func varianceAt(targets []float64, indices []int) float64 {
	if len(indices) <= 1 {
		return 0
	}
	vals := make([]float64, len(indices))
	for i, idx := range indices {
		vals[i] = targets[idx]
	}
	return stat.PopVariance(vals, nil)
}

func weightedVariance(targets []float64, leftIndices, rightIndices []int) float64 {
	total := len(leftIndices) + len(rightIndices)
	if total == 0 {
		return 0
	}
	leftWeight := float64(len(leftIndices)) / float64(total)
	rightWeight := float64(len(rightIndices)) / float64(total)
	return leftWeight*varianceAt(targets, leftIndices) + rightWeight*varianceAt(targets, rightIndices)
}

// Predict returns the forest's prediction for one sample, the mean of the
// individual tree predictions.
func (rf *RandomForest) Predict(sample []float64) (float64, error) {
	perTree, err := rf.PredictPerTree(sample)
	if err != nil {
		return 0, err
	}
	return stat.Mean(perTree, nil), nil
}

// PredictPerTree returns each tree's prediction for one sample. The spread of
// these values is the basis of the per-request uncertainty estimate.
func (rf *RandomForest) PredictPerTree(sample []float64) ([]float64, error) {
	if len(rf.Trees) == 0 {
		return nil, fmt.Errorf("forest has not been fitted")
	}
	if len(sample) != rf.NumFeatures {
		return nil, fmt.Errorf("expected %d features, got %d", rf.NumFeatures, len(sample))
	}
	out := make([]float64, len(rf.Trees))
	for i, tree := range rf.Trees {
		out[i] = predictTree(tree.Root, sample)
	}
	return out, nil
}

func predictTree(node *TreeNode, sample []float64) float64 {
	for !node.IsLeaf {
		if sample[node.FeatureIndex] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

// FeatureImportances returns per-feature impurity-decrease scores, averaged
// over trees and normalized to sum to one.
func (rf *RandomForest) FeatureImportances() []float64 {
	return rf.Importances
}

func (rf *RandomForest) computeImportances() []float64 {
	total := make([]float64, rf.NumFeatures)

	for _, tree := range rf.Trees {
		treeImportance := make([]float64, rf.NumFeatures)
		accumulateImportance(tree.Root, treeImportance)

		sum := 0.0
		for _, v := range treeImportance {
			sum += v
		}
		if sum <= 0 {
			continue
		}
		for f, v := range treeImportance {
			total[f] += v / sum
		}
	}

	sum := 0.0
	for _, v := range total {
		sum += v
	}
	if sum > 0 {
		for f := range total {
			total[f] /= sum
		}
	}
	return total
}

func accumulateImportance(node *TreeNode, importance []float64) {
	if node == nil || node.IsLeaf {
		return
	}
	samples := float64(node.Samples)
	leftSamples := float64(node.Left.Samples)
	rightSamples := float64(node.Right.Samples)

	decrease := node.Impurity - (leftSamples/samples)*node.Left.Impurity - (rightSamples/samples)*node.Right.Impurity
	importance[node.FeatureIndex] += samples * decrease

	accumulateImportance(node.Left, importance)
	accumulateImportance(node.Right, importance)
}
