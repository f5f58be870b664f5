package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/de-tools/report-bridge/pkg/handlers/reports"
	"github.com/de-tools/report-bridge/pkg/models/api"
	"github.com/de-tools/report-bridge/pkg/services/acquire"

	reportbridgemiddleware "github.com/de-tools/report-bridge/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const serviceName = "report-bridge"

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
}

type Dependencies struct {
	Locator    reports.Locator
	Normalizer reports.Normalizer
	Acquirer   acquire.Acquirer
	Store      reports.Store
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	deps := config.Dependencies
	reportsHandler := reports.NewHandler(deps.Locator, deps.Normalizer, deps.Acquirer, deps.Store)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(reportbridgemiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/", serviceInfo)
	router.Get("/health", health)
	router.Route("/api/reports", func(r chi.Router) {
		r.Get("/{kind}", reportsHandler.GetReport)
		r.Post("/{kind}", reportsHandler.RefreshReport)
	})

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func serviceInfo(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(api.ServiceInfo{
		Service: serviceName,
		Version: "1.0.0",
		Endpoints: map[string]string{
			"GET /api/reports/{kind}":  "serve the latest downloaded export for kind (catalog, stock-detail, shrinkage-sales)",
			"POST /api/reports/{kind}": "trigger a fresh export run, then serve and persist the result",
			"GET /health":              "service health",
		},
	})
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(api.Health{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   serviceName,
	})
}
