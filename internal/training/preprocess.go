package training

import (
	"fmt"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// Row is a single observation keyed by canonical column name.
type Row map[string]interface{}

// Post-encoding feature names carry the transformer prefix of the column
// group they came from.
const (
	CategoricalPrefix = "cat__"
	NumericPrefix     = "num__"
)

// OneHotEncoder maps one categorical column onto indicator columns, one per
// category seen during fitting. Unseen categories encode as all zeros.
type OneHotEncoder struct {
	Column     string   `json:"column"`
	Categories []string `json:"categories"`
}

func (e *OneHotEncoder) Fit(values []string) {
	seen := make(map[string]struct{})
	for _, v := range values {
		seen[v] = struct{}{}
	}
	e.Categories = make([]string, 0, len(seen))
	for v := range seen {
		e.Categories = append(e.Categories, v)
	}
	sort.Strings(e.Categories)
}

func (e *OneHotEncoder) Transform(value string) []float64 {
	out := make([]float64, len(e.Categories))
	for i, c := range e.Categories {
		if c == value {
			out[i] = 1
			break
		}
	}
	return out
}

func (e *OneHotEncoder) FeatureNames() []string {
	names := make([]string, len(e.Categories))
	for i, c := range e.Categories {
		names[i] = CategoricalPrefix + e.Column + "_" + c
	}
	return names
}

// StandardScaler standardizes one numeric column to zero mean and unit
// variance, with statistics fit on the training split only.
type StandardScaler struct {
	Column string  `json:"column"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
}

func (s *StandardScaler) Fit(values []float64) {
	s.Mean = stat.Mean(values, nil)
	s.Std = stat.PopStdDev(values, nil)
	if s.Std == 0 {
		// Constant column; pass values through centered.
		s.Std = 1
	}
}

func (s *StandardScaler) Transform(value float64) float64 {
	return (value - s.Mean) / s.Std
}

// ColumnTransformer applies one-hot encoding to the categorical columns and
// standardization to the numeric columns, dropping everything else. Output
// ordering is all encoded categorical columns first, then the numeric
// columns, matching FeatureNames.
type ColumnTransformer struct {
	Categorical []string          `json:"categorical"`
	Numeric     []string          `json:"numeric"`
	Encoders    []*OneHotEncoder  `json:"encoders"`
	Scalers     []*StandardScaler `json:"scalers"`
}

func NewColumnTransformer(categorical, numeric []string) *ColumnTransformer {
	return &ColumnTransformer{Categorical: categorical, Numeric: numeric}
}

func (ct *ColumnTransformer) Fit(rows []Row) error {
	if len(rows) == 0 {
		return fmt.Errorf("no rows to fit on")
	}

	ct.Encoders = make([]*OneHotEncoder, len(ct.Categorical))
	for i, col := range ct.Categorical {
		values := make([]string, len(rows))
		for j, row := range rows {
			v, err := stringValue(row, col)
			if err != nil {
				return err
			}
			values[j] = v
		}
		enc := &OneHotEncoder{Column: col}
		enc.Fit(values)
		ct.Encoders[i] = enc
	}

	ct.Scalers = make([]*StandardScaler, len(ct.Numeric))
	for i, col := range ct.Numeric {
		values := make([]float64, len(rows))
		for j, row := range rows {
			v, err := FloatValue(row, col)
			if err != nil {
				return err
			}
			values[j] = v
		}
		sc := &StandardScaler{Column: col}
		sc.Fit(values)
		ct.Scalers[i] = sc
	}

	return nil
}

// TransformRow encodes a single row into the post-encoding feature space.
func (ct *ColumnTransformer) TransformRow(row Row) ([]float64, error) {
	if len(ct.Encoders) != len(ct.Categorical) || len(ct.Scalers) != len(ct.Numeric) {
		return nil, fmt.Errorf("transformer has not been fitted")
	}

	var out []float64
	for _, enc := range ct.Encoders {
		v, err := stringValue(row, enc.Column)
		if err != nil {
			return nil, err
		}
		out = append(out, enc.Transform(v)...)
	}
	for _, sc := range ct.Scalers {
		v, err := FloatValue(row, sc.Column)
		if err != nil {
			return nil, err
		}
		out = append(out, sc.Transform(v))
	}
	return out, nil
}

func (ct *ColumnTransformer) Transform(rows []Row) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		encoded, err := ct.TransformRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = encoded
	}
	return out, nil
}

// FeatureNames returns the post-encoding feature names in output order.
func (ct *ColumnTransformer) FeatureNames() []string {
	var names []string
	for _, enc := range ct.Encoders {
		names = append(names, enc.FeatureNames()...)
	}
	for _, sc := range ct.Scalers {
		names = append(names, NumericPrefix+sc.Column)
	}
	return names
}

func stringValue(row Row, col string) (string, error) {
	v, ok := row[col]
	if !ok {
		return "", fmt.Errorf("column %q missing from row", col)
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case nil:
		return "", nil
	default:
		return fmt.Sprint(s), nil
	}
}

// FloatValue extracts a numeric value from the row, coercing the types a
// decoded JSON payload or a CSV record can carry.
func FloatValue(row Row, col string) (float64, error) {
	v, ok := row[col]
	if !ok {
		return 0, fmt.Errorf("column %q missing from row", col)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("column %q: cannot parse %q as number", col, n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("column %q: unsupported value type %T", col, v)
	}
}
