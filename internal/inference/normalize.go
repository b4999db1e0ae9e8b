package inference

import (
	"fmt"
	"sort"
	"strings"

	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/training"
)

// keyMap renames the snake_case request fields onto the canonical pipeline
// column names. Canonical names map to themselves so direct and test callers
// can send them unchanged; unknown keys pass through as-is.
var keyMap = map[string]string{
	"region":                 training.ColRegion,
	"total_food_expenditure": training.ColFoodExpenditure,
	"education_expenditure":  training.ColEducationExpenditure,
	"house_floor_area":       training.ColFloorArea,
	"number_of_appliances":   training.ColAppliances,

	training.ColRegion:               training.ColRegion,
	training.ColFoodExpenditure:      training.ColFoodExpenditure,
	training.ColEducationExpenditure: training.ColEducationExpenditure,
}

// requiredColumns must all be present after renaming.
var requiredColumns = []string{
	training.ColRegion,
	training.ColFoodExpenditure,
	training.ColEducationExpenditure,
	training.ColFloorArea,
	training.ColAppliances,
}

// NormalizeRow maps a client payload onto a single canonical model-input row.
// The returned error names every missing canonical column.
func NormalizeRow(payload map[string]interface{}) (training.Row, error) {
	row := make(training.Row, len(payload))
	for k, v := range payload {
		mapped, ok := keyMap[k]
		if !ok {
			mapped = k
		}
		row[mapped] = v
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := row[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("columns are missing: [%s]", strings.Join(missing, ", "))
	}

	return row, nil
}
