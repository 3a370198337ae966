package handler

import (
	"log/slog"

	"github.com/leca/arexplorer-images/internal/config"
	"github.com/leca/arexplorer-images/internal/storage"
	"github.com/microcosm-cc/bluemonday"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	Store  storage.Repository
	Config *config.Config
	Logger *slog.Logger

	sanitizer *bluemonday.Policy
}

// New creates a Handler. Free-text fields are stored verbatim; markup in
// them is only reported.
func New(store storage.Repository, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Store:     store,
		Config:    cfg,
		Logger:    logger,
		sanitizer: bluemonday.StrictPolicy(),
	}
}
