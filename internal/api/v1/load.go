package v1

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"churnradar/internal/config"
	"churnradar/internal/model"
	"churnradar/internal/normalizer"
	"churnradar/internal/service/excel"
)

// LoadResponse summarizes a completed load.
type LoadResponse struct {
	ID          string   `json:"id"`
	Source      string   `json:"source"`
	Total       int      `json:"total"`
	RowsDropped int      `json:"rowsDropped"`
	Cached      bool     `json:"cached"`
	Warnings    []string `json:"warnings"`
}

// Load reads and cleans the configured default spreadsheet. The cache is
// keyed by the file path; pass force=true to re-read the same path.
// POST /api/load
func (h *Handler) Load(c *gin.Context) {
	path := config.SourcePath(h.cfg)
	force := c.Query("force") == "true"

	if ds, ok := h.cache.Get(path); ok && !force {
		c.JSON(http.StatusOK, loadResponse(ds, 0, true))
		return
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": fmt.Sprintf("arquivo %q não encontrado: use o upload em /api/import", filepath.Base(path)),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	raw, err := excel.ReadFile(path)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": fmt.Sprintf("falha ao ler a planilha: %v", err),
		})
		return
	}

	ds, dropped := h.ingest(raw, path)
	c.JSON(http.StatusOK, loadResponse(ds, dropped, false))
}

// Import cleans an uploaded spreadsheet. The cache is keyed by the upload's
// content hash, so re-uploading identical bytes reuses the cached dataset.
// POST /api/import
func (h *Handler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nenhum arquivo enviado"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao abrir o arquivo enviado"})
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao ler o arquivo enviado"})
		return
	}

	sum := sha256.Sum256(content)
	sourceKey := "upload:" + hex.EncodeToString(sum[:8])

	if ds, ok := h.cache.Get(sourceKey); ok {
		c.JSON(http.StatusOK, loadResponse(ds, 0, true))
		return
	}

	raw, err := excel.ReadWorkbook(bytes.NewReader(content))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": fmt.Sprintf("falha ao ler a planilha: %v", err),
		})
		return
	}

	ds, dropped := h.ingest(raw, sourceKey)
	c.JSON(http.StatusOK, loadResponse(ds, dropped, false))
}

// ingest runs the cleaning pipeline, caches the dataset and writes the
// formatted artifact for reuse.
func (h *Handler) ingest(raw *model.RawTable, sourceKey string) (*model.Dataset, int) {
	ds := normalizer.Clean(raw)
	ds.SourceKey = sourceKey
	h.cache.Put(ds)

	dropped := len(raw.Rows) - len(ds.Records)

	artifact := config.GetDataPath(h.cfg, "exports", h.cfg.Data.FormattedFile)
	if err := excel.WriteFormatted(ds, artifact); err != nil {
		h.log.Warn().Err(err).Str("path", artifact).Msg("failed to write formatted artifact")
	}

	h.log.Info().
		Str("source", sourceKey).
		Int("records", len(ds.Records)).
		Int("dropped", dropped).
		Strs("warnings", ds.Warnings).
		Msg("dataset loaded")

	return ds, dropped
}

func loadResponse(ds *model.Dataset, dropped int, cached bool) LoadResponse {
	warnings := ds.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return LoadResponse{
		ID:          ds.ID,
		Source:      ds.SourceKey,
		Total:       len(ds.Records),
		RowsDropped: dropped,
		Cached:      cached,
		Warnings:    warnings,
	}
}
