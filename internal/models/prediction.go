package models

// PredictRequest is the documented request body of the predict endpoint. The
// handler also accepts the canonical column names directly; see the request
// normalizer.
type PredictRequest struct {
	Region               string  `json:"region"`
	TotalFoodExpenditure float64 `json:"total_food_expenditure"`
	EducationExpenditure float64 `json:"education_expenditure"`
	HouseFloorArea       float64 `json:"house_floor_area"`
	NumberOfAppliances   int     `json:"number_of_appliances"`
}

// PredictResponse carries the point prediction plus its explanation.
// FeatureImportances parallels ImportantFeatures with scores relative to the
// top selected importance. PredictionStd is the cross-tree standard deviation
// of the prediction, absent on the legacy model path.
type PredictResponse struct {
	PredictedIncome    float64   `json:"predicted_income"`
	ImportantFeatures  []string  `json:"important_features"`
	FeatureImportances []float64 `json:"feature_importances,omitempty"`
	PredictionStd      *float64  `json:"prediction_std,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
