// Package api bandkit REST API
//
// @title           bandkit REST API
// @version         1.0.0
// @description     Decode and encode raster pixel buffers and read and write bands of stored datasets.
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/bandkit/pkg/codec"
)

// NewRouter builds the HTTP handler for server, exposing gatherer on /metrics.
func NewRouter(server *Server, gatherer prometheus.Gatherer) http.Handler {
	metrics := server.metrics

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link", "X-Pixel-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(server.config.APIKey)))

		// Health check
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		// Codec
		r.Get("/types", metrics.InstrumentHandler("GET", "/api/v1/types", server.handleTypes))
		r.Post("/decode", metrics.InstrumentHandler("POST", "/api/v1/decode", server.handleDecode))
		r.Post("/encode", metrics.InstrumentHandler("POST", "/api/v1/encode", server.handleEncode))

		// Datasets
		r.Post("/datasets", metrics.InstrumentHandler("POST", "/api/v1/datasets", server.handleCreateDataset))
		r.Get("/datasets", metrics.InstrumentHandler("GET", "/api/v1/datasets", server.handleListDatasets))
		r.Get("/datasets/{id}", metrics.InstrumentHandler("GET", "/api/v1/datasets/{id}", server.handleGetDataset))
		r.Delete("/datasets/{id}", metrics.InstrumentHandler("DELETE", "/api/v1/datasets/{id}", server.handleDeleteDataset))

		// Bands
		r.Get("/datasets/{id}/bands/{band}",
			metrics.InstrumentHandler("GET", "/api/v1/datasets/{id}/bands/{band}", server.handleReadBand))
		r.Put("/datasets/{id}/bands/{band}",
			metrics.InstrumentHandler("PUT", "/api/v1/datasets/{id}/bands/{band}", server.handleWriteBand))
	})

	// Swagger documentation (unprotected)
	r.Get("/swagger/*", handleSwagger)

	return r
}

const swaggerUI = `<!DOCTYPE html>
<html>
<head>
	<title>bandkit API Documentation</title>
	<link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui.css" />
</head>
<body>
	<div id="swagger-ui"></div>
	<script src="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui-bundle.js"></script>
	<script>
	  window.onload = function() {
	    SwaggerUIBundle({
	      url: '/swagger/swagger.json',
	      dom_id: '#swagger-ui',
	      presets: [
	        SwaggerUIBundle.presets.apis,
	        SwaggerUIBundle.presets.standalone
	      ]
	    });
	  };
	</script>
</body>
</html>`

// handleSwagger serves the Swagger UI and the registered document as JSON or YAML
func handleSwagger(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/swagger/", "/swagger/index.html":
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerUI))

	case "/swagger/swagger.json", "/swagger/swagger.yaml":
		doc, err := swag.ReadDoc(swag.Name)
		if err != nil {
			log.Printf("Error reading swagger doc: %v", err)
			http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
			return
		}
		if strings.HasSuffix(r.URL.Path, ".json") {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(doc))
			return
		}

		// JSON is valid YAML, so a round trip re-renders it in block style
		var tree interface{}
		if err := yaml.Unmarshal([]byte(doc), &tree); err != nil {
			http.Error(w, "Failed to convert Swagger documentation", http.StatusInternalServerError)
			return
		}
		out, err := yaml.Marshal(tree)
		if err != nil {
			http.Error(w, "Failed to convert Swagger documentation", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(out)

	default:
		http.NotFound(w, r)
	}
}

// StartServer starts the HTTP server with all routes configured and blocks
// until it fails or the process receives SIGINT or SIGTERM.
func StartServer(store IBandStore, pc *codec.PixelCodec, config ServerConfig) error {
	metrics := NewMetrics(prometheus.DefaultRegisterer)
	server := NewServer(store, pc, config, metrics)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(server, prometheus.DefaultGatherer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start background metrics updater
	done := make(chan struct{})
	defer close(done)
	go server.startMetricsUpdater(done)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting bandkit REST API server on %s", addr)
		log.Printf("Metrics available at: http://%s/metrics", addr)
		if config.APIKey == "" {
			log.Printf("WARNING: API key authentication is disabled")
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Printf("Shutting down bandkit REST API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
