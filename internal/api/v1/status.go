package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse describes the currently loaded dataset, if any.
type StatusResponse struct {
	Loaded   bool     `json:"loaded"`
	Source   string   `json:"source"`
	Total    int      `json:"total"`
	LoadedAt string   `json:"loadedAt"`
	Warnings []string `json:"warnings"`
}

// GetStatus reports whether a dataset is loaded and its load metadata.
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	ds, ok := h.cache.Current()
	if !ok {
		c.JSON(http.StatusOK, StatusResponse{Loaded: false})
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Loaded:   true,
		Source:   ds.SourceKey,
		Total:    len(ds.Records),
		LoadedAt: ds.LoadedAt.Format("2006-01-02 15:04:05"),
		Warnings: ds.Warnings,
	})
}
