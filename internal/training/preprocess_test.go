package training

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneHotEncoder(t *testing.T) {
	enc := &OneHotEncoder{Column: "Region"}
	enc.Fit([]string{"NCR", "CAR", "NCR", "ARMM"})

	assert.Equal(t, []string{"ARMM", "CAR", "NCR"}, enc.Categories)
	assert.Equal(t, []float64{0, 0, 1}, enc.Transform("NCR"))
	assert.Equal(t, []float64{1, 0, 0}, enc.Transform("ARMM"))
	// Unseen categories encode as all zeros rather than erroring.
	assert.Equal(t, []float64{0, 0, 0}, enc.Transform("Visayas"))

	assert.Equal(t, []string{
		"cat__Region_ARMM",
		"cat__Region_CAR",
		"cat__Region_NCR",
	}, enc.FeatureNames())
}

func TestStandardScaler(t *testing.T) {
	sc := &StandardScaler{Column: "x"}
	sc.Fit([]float64{2, 4, 6, 8})

	assert.InDelta(t, 5.0, sc.Mean, 1e-9)
	assert.InDelta(t, 0.0, sc.Transform(5), 1e-9)
	assert.Greater(t, sc.Transform(8), 0.0)
	assert.Less(t, sc.Transform(2), 0.0)
}

func TestStandardScalerConstantColumn(t *testing.T) {
	sc := &StandardScaler{Column: "x"}
	sc.Fit([]float64{3, 3, 3})

	assert.Equal(t, 1.0, sc.Std)
	assert.Equal(t, 0.0, sc.Transform(3))
}

func TestColumnTransformer(t *testing.T) {
	rows := []Row{
		{"Region": "NCR", "income": 100.0, "area": 20.0},
		{"Region": "CAR", "income": 200.0, "area": 40.0},
		{"Region": "NCR", "income": 300.0, "area": 60.0},
	}

	ct := NewColumnTransformer([]string{"Region"}, []string{"income", "area"})
	require.NoError(t, ct.Fit(rows))

	names := ct.FeatureNames()
	assert.Equal(t, []string{
		"cat__Region_CAR",
		"cat__Region_NCR",
		"num__income",
		"num__area",
	}, names)

	encoded, err := ct.TransformRow(rows[0])
	require.NoError(t, err)
	require.Len(t, encoded, 4)
	assert.Equal(t, 0.0, encoded[0])
	assert.Equal(t, 1.0, encoded[1])
	assert.Less(t, encoded[2], 0.0) // below the mean income
}

func TestColumnTransformerMissingColumn(t *testing.T) {
	ct := NewColumnTransformer([]string{"Region"}, []string{"income"})
	require.NoError(t, ct.Fit([]Row{
		{"Region": "NCR", "income": 1.0},
		{"Region": "CAR", "income": 2.0},
	}))

	_, err := ct.TransformRow(Row{"Region": "NCR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "income")
}

func TestColumnTransformerUnfitted(t *testing.T) {
	ct := NewColumnTransformer([]string{"Region"}, nil)
	_, err := ct.TransformRow(Row{"Region": "NCR"})
	assert.Error(t, err)
}

func TestFloatValueCoercion(t *testing.T) {
	row := Row{"a": 1.5, "b": 2, "c": int64(3), "d": "4.5", "e": "oops"}

	v, err := FloatValue(row, "a")
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	v, err = FloatValue(row, "b")
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	v, err = FloatValue(row, "c")
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	v, err = FloatValue(row, "d")
	require.NoError(t, err)
	assert.Equal(t, 4.5, v)

	_, err = FloatValue(row, "e")
	assert.Error(t, err)

	_, err = FloatValue(row, "missing")
	assert.Error(t, err)
}
