package v1

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"churnradar/internal/exporter"
	"churnradar/internal/insight"
	"churnradar/internal/model"
)

const downloadTTL = 10 * time.Minute

// ExportResponse carries the token URL for a materialized export.
type ExportResponse struct {
	DownloadURL string `json:"downloadUrl"`
	Rows        int    `json:"rows"`
}

// Export materializes the at-risk table as a CSV file and returns a
// short-lived download URL.
// POST /api/export
func (h *Handler) Export(c *gin.Context) {
	ds, ok := h.cache.Current()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "nenhum dado carregado: use /api/load ou /api/import"})
		return
	}

	var filter model.FilterSpec
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&filter); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "filtro inválido: " + err.Error()})
			return
		}
	}

	result := h.engine.Compute(ds, filter)

	tempPath := filepath.Join(os.TempDir(),
		fmt.Sprintf("churnradar_export_%d_%d.csv", time.Now().UnixNano(), os.Getpid()))
	f, err := os.Create(tempPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao criar arquivo de exportação"})
		return
	}

	if err := exporter.WriteRiskCSV(f, insight.RiskColumns(ds), result.AtRisk); err != nil {
		f.Close()
		_ = os.Remove(tempPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao gravar exportação: " + err.Error()})
		return
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao gravar exportação: " + err.Error()})
		return
	}

	token := h.downloads.put(tempPath, len(result.AtRisk), downloadTTL)
	h.log.Info().Int("rows", len(result.AtRisk)).Msg("risk export materialized")

	c.JSON(http.StatusOK, ExportResponse{
		DownloadURL: "/api/export/download/" + token,
		Rows:        len(result.AtRisk),
	})
}

// DownloadExport streams a previously materialized CSV export.
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download expirado ou inexistente"})
		return
	}

	c.FileAttachment(item.filePath, exporter.RiskFilename)
}
