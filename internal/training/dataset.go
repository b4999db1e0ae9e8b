package training

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Canonical column names of the income dataset.
const (
	ColRegion               = "Region"
	ColFoodExpenditure      = "Total Food Expenditure"
	ColEducationExpenditure = "Education Expenditure"
	ColFloorArea            = "house_floor_area"
	ColAppliances           = "number_of_appliances"
	ColTarget               = "Total Household Income"
)

// CategoricalColumns and NumericColumns list the model inputs in canonical
// order. Columns absent from the dataset are dropped from the feature set.
var (
	CategoricalColumns = []string{ColRegion}
	NumericColumns     = []string{ColFoodExpenditure, ColEducationExpenditure, ColFloorArea, ColAppliances}
)

// Dataset is the cleaned view of the raw CSV restricted to the columns the
// model uses.
type Dataset struct {
	Rows        []Row
	Targets     []float64
	Categorical []string
	Numeric     []string
}

// LoadDataset reads the CSV at path, derives the floor-area and appliance
// columns when absent, restricts to the model columns, and fills missing
// values (empty string for categoricals, column median for numerics,
// including the target).
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f)
	if df.Err != nil {
		return nil, fmt.Errorf("read dataset: %w", df.Err)
	}
	if df.Nrow() == 0 {
		return nil, fmt.Errorf("dataset %s is empty", path)
	}

	df, _ = deriveFloorArea(df)
	df, _ = deriveApplianceCount(df)

	names := df.Names()
	if !containsColumn(names, ColTarget) {
		return nil, fmt.Errorf("dataset is missing target column %q", ColTarget)
	}

	var categorical, numeric []string
	for _, c := range CategoricalColumns {
		if containsColumn(names, c) {
			categorical = append(categorical, c)
		}
	}
	for _, c := range NumericColumns {
		if containsColumn(names, c) {
			numeric = append(numeric, c)
		}
	}
	if len(categorical)+len(numeric) == 0 {
		return nil, fmt.Errorf("dataset has none of the model input columns")
	}

	n := df.Nrow()
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = make(Row, len(categorical)+len(numeric))
	}

	for _, col := range categorical {
		s := df.Col(col)
		records := s.Records()
		for i := 0; i < n; i++ {
			if s.Elem(i).IsNA() {
				rows[i][col] = ""
			} else {
				rows[i][col] = records[i]
			}
		}
	}

	for _, col := range numeric {
		values := fillMedian(df.Col(col).Float())
		for i := 0; i < n; i++ {
			rows[i][col] = values[i]
		}
	}

	targets := fillMedian(df.Col(ColTarget).Float())

	return &Dataset{
		Rows:        rows,
		Targets:     targets,
		Categorical: categorical,
		Numeric:     numeric,
	}, nil
}

// FeatureColumns returns the used input columns in canonical order,
// categoricals first.
func (d *Dataset) FeatureColumns() []string {
	out := make([]string, 0, len(d.Categorical)+len(d.Numeric))
	out = append(out, d.Categorical...)
	out = append(out, d.Numeric...)
	return out
}

// Preview returns up to limit rows of the used columns plus the target, in
// record form for the training summary.
func (d *Dataset) Preview(limit int) []map[string]interface{} {
	if limit > len(d.Rows) {
		limit = len(d.Rows)
	}
	out := make([]map[string]interface{}, limit)
	for i := 0; i < limit; i++ {
		record := make(map[string]interface{}, len(d.Rows[i])+1)
		for k, v := range d.Rows[i] {
			record[k] = v
		}
		record[ColTarget] = d.Targets[i]
		out[i] = record
	}
	return out
}

// deriveFloorArea renames the first column whose name contains both "floor"
// and "area" (case-insensitive) to the canonical floor-area column. Returns
// false when the canonical column is absent and no candidate matches; the
// column is then simply not part of the feature set.
func deriveFloorArea(df dataframe.DataFrame) (dataframe.DataFrame, bool) {
	names := df.Names()
	if containsColumn(names, ColFloorArea) {
		return df, true
	}
	for _, c := range names {
		lower := strings.ToLower(c)
		if strings.Contains(lower, "floor") && strings.Contains(lower, "area") {
			return df.Rename(ColFloorArea, c), true
		}
	}
	return df, false
}

// deriveApplianceCount sums every column whose name contains "appliance"
// (case-insensitive) into the canonical appliance-count column. Returns false
// when the canonical column is absent and no candidate matches.
func deriveApplianceCount(df dataframe.DataFrame) (dataframe.DataFrame, bool) {
	names := df.Names()
	if containsColumn(names, ColAppliances) {
		return df, true
	}
	var applianceCols []string
	for _, c := range names {
		if strings.Contains(strings.ToLower(c), "appliance") {
			applianceCols = append(applianceCols, c)
		}
	}
	if len(applianceCols) == 0 {
		return df, false
	}

	sums := make([]float64, df.Nrow())
	for _, c := range applianceCols {
		for i, v := range df.Col(c).Float() {
			if !math.IsNaN(v) {
				sums[i] += v
			}
		}
	}
	return df.Mutate(series.New(sums, series.Float, ColAppliances)), true
}

// fillMedian replaces NaN entries with the median of the non-NaN entries.
func fillMedian(values []float64) []float64 {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	med := median(clean)

	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = med
		} else {
			out[i] = v
		}
	}
	return out
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func containsColumn(names []string, col string) bool {
	for _, n := range names {
		if n == col {
			return true
		}
	}
	return false
}
