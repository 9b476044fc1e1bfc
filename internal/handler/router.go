package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/pairpad/backend/internal/config"
	executehandler "github.com/pairpad/backend/internal/handler/execute"
	roomhandler "github.com/pairpad/backend/internal/handler/room"
	"github.com/pairpad/backend/internal/handler/ws"
	middlewarePkg "github.com/pairpad/backend/internal/middleware"
	execservice "github.com/pairpad/backend/internal/service/exec"
	roomservice "github.com/pairpad/backend/internal/service/room"
	"github.com/pairpad/backend/pkg/metrics"
	"github.com/pairpad/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(cfg *config.Config, roomSvc *roomservice.Service, execSvc *execservice.Service) (http.Handler, error) {
	if err := validateOpenAPIDocument(); err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(cfg.CORS.AllowedOrigins))

	roomHandler := roomhandler.New(roomSvc)
	executeHandler := executehandler.New(execSvc)
	wsHandler := ws.New(roomSvc)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.Handle("/metrics", metrics.Handler())

	// API documentation, served from the embedded OpenAPI document.
	r.Get("/api-docs/openapi.yaml", serveOpenAPIDocument)
	r.Get("/api-docs/*", httpSwagger.Handler(
		httpSwagger.URL("/api-docs/openapi.yaml"),
	))
	r.Get("/api-docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api-docs/index.html", http.StatusMovedPermanently)
	})

	wsHandler.RegisterRoutes(r)

	r.Route("/api", func(api chi.Router) {
		roomHandler.RegisterRoutes(api)
		executeHandler.RegisterRoutes(api)
	})

	return r, nil
}
