package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ghandlers "github.com/gorilla/handlers"

	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/api"
	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/api/handlers"
	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/config"
	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/inference"
	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/internal/server"
	"github.com/drndl-code/Predicting-Household-Income-in-The-Philippines/pkg/logger"
)

const (
	serviceName    = "household-income-api"
	serviceVersion = "1.0.0"
)

// RunServer loads the model artifacts and serves the prediction API until
// interrupted. A missing model is fatal; there is no degraded mode.
func RunServer(configPath string) {
	log := logger.Get()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	state, err := inference.LoadModelState(cfg.Model.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load model artifacts")
	}

	predictor := inference.NewPredictor(state)
	handler := handlers.NewPredictHandler(predictor, cfg.Model.Dir, serviceName, serviceVersion)
	router := api.NewRouter(handler)

	// Development CORS policy: any origin, method, and header.
	cors := ghandlers.CORS(
		ghandlers.AllowedOrigins([]string{"*"}),
		ghandlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		ghandlers.AllowedHeaders([]string{"*"}),
	)

	srv := server.NewServer(cfg, cors(router))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}
}
