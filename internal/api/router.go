package api

import (
	"github.com/gorilla/mux"

	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/api/handlers"
	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/api/middleware"
	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/telemetry"
)

// Router wraps mux.Router to add more functionality
type Router struct {
	*mux.Router
	middleware []mux.MiddlewareFunc
}

// NewRouter creates and configures a new router with all dependencies
func NewRouter(predictHandler *handlers.PredictHandler) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		middleware: []mux.MiddlewareFunc{
			middleware.Logging,
			telemetry.MetricsMiddleware,
		},
	}

	r.setup()
	r.registerRoutes(predictHandler)

	return r
}

// setup configures the base router with middleware and common settings
func (r *Router) setup() {
	for _, m := range r.middleware {
		r.Use(m)
	}
}

// registerRoutes registers all application routes
func (r *Router) registerRoutes(predictHandler *handlers.PredictHandler) {
	r.HandleFunc("/", predictHandler.Health).Methods("GET")
	r.HandleFunc("/model-info", predictHandler.ModelInfo).Methods("GET")
	r.HandleFunc("/predict", predictHandler.Predict).Methods("POST")
	r.Handle("/metrics", telemetry.MetricsHandler()).Methods("GET")
}
