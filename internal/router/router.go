package router

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/leca/arexplorer-images/internal/api"
	"github.com/leca/arexplorer-images/internal/config"
	"github.com/leca/arexplorer-images/internal/docs"
	"github.com/leca/arexplorer-images/internal/handler"
	"github.com/leca/arexplorer-images/internal/storage"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Server holds the application dependencies and HTTP router.
type Server struct {
	Store  storage.Repository
	Config *config.Config
	Router chi.Router
}

// New creates a new Server with a fully configured chi router.
func New(store storage.Repository, cfg *config.Config, logger *slog.Logger) *Server {
	s := &Server{Store: store, Config: cfg}

	h := handler.New(store, cfg, logger)

	r := chi.NewRouter()

	// CORS runs first so preflight OPTIONS requests are answered.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.Health)

	// API documentation.
	r.Get("/swagger-docs", s.OpenAPI)
	r.Get("/swagger-ui/*", httpSwagger.Handler(httpSwagger.URL("/swagger-docs")))

	r.Route("/images", func(r chi.Router) {
		r.With(api.MaxBodySize(int64(cfg.MaxRequestBytes))).Post("/", h.CreateImage)
		r.Get("/", h.ListImages)

		r.Route("/{userID}/{imageId}", func(r chi.Router) {
			r.Use(api.UserIDMiddleware)
			r.Get("/", h.GetImage)
			r.Delete("/", h.DeleteImage)
		})
	})

	s.Router = r
	return s
}

// Health returns a simple health-check response.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		slog.Warn("failed to encode health response", "error", err)
	}
}

// OpenAPI serves the API description as JSON.
func (s *Server) OpenAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := docs.JSON()
	if err != nil {
		api.InternalError(w, "failed to render API documentation")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(doc); err != nil {
		slog.Warn("failed to write API documentation", "error", err)
	}
}
