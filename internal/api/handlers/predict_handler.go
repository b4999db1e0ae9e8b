package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/inference"
	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/models"
	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/telemetry"
	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/training"
	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/pkg/logger"
)

// PredictHandler serves the prediction endpoints against the model state
// loaded at startup.
type PredictHandler struct {
	predictor *inference.Predictor
	modelDir  string
	service   string
	version   string
}

func NewPredictHandler(predictor *inference.Predictor, modelDir, service, version string) *PredictHandler {
	return &PredictHandler{
		predictor: predictor,
		modelDir:  modelDir,
		service:   service,
		version:   version,
	}
}

func (h *PredictHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:  "ok",
		Service: h.service,
		Version: h.version,
	})
}

// ModelInfo returns the training summary exactly as the training job wrote
// it.
func (h *PredictHandler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(filepath.Join(h.modelDir, training.SummaryFile))
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{
			Error: "no training summary found; run the training job to generate model artifacts",
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log := logger.WithComponent("predict_handler")
		log.Debug().Err(err).Msg("Summary write failed")
	}
}

// Predict decodes the raw request body as a generic object so both the
// snake_case fields and the canonical column names are accepted. All
// prediction errors surface as 400 with the error text.
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	log := logger.WithComponent("predict_handler")
	start := time.Now()

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Debug().Err(err).Msg("Invalid request payload")
		telemetry.RecordPrediction("invalid", time.Since(start))
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	response, err := h.predictor.Predict(payload)
	if err != nil {
		log.Debug().Err(err).Msg("Prediction failed")
		telemetry.RecordPrediction("error", time.Since(start))
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	telemetry.RecordPrediction("ok", time.Since(start))
	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log := logger.WithComponent("predict_handler")
		log.Debug().Err(err).Msg("Response write failed")
	}
}
