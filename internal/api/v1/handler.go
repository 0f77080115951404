package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"churnradar/internal/config"
	"churnradar/internal/insight"
	"churnradar/internal/service/store"
)

// Handler wires the API endpoints to the dataset cache and the insight
// engine.
type Handler struct {
	cfg       *config.AppConfig
	cache     *store.Cache
	engine    *insight.Engine
	downloads *exportDownloadStore
	log       zerolog.Logger
}

// NewHandler creates the API handler.
func NewHandler(cfg *config.AppConfig, cache *store.Cache, log zerolog.Logger) *Handler {
	return &Handler{
		cfg:       cfg,
		cache:     cache,
		engine:    insight.NewEngine(cfg.Insight),
		downloads: newExportDownloadStore(),
		log:       log,
	}
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// Dataset lifecycle
	router.GET("/status", h.GetStatus)
	router.POST("/load", h.Load)
	router.POST("/import", h.Import)

	// Metrics and filtering
	router.GET("/insights", h.GetInsights)
	router.GET("/filters", h.GetFilters)

	// At-risk export
	router.POST("/export", h.Export)
	router.GET("/export/download/:token", h.DownloadExport)
}
