package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"churnradar/internal/model"
)

// GetInsights computes the metric summary and the at-risk table for the
// current dataset under the requested filter.
// GET /api/insights?managers=&supervisors=&salespeople=&states=
func (h *Handler) GetInsights(c *gin.Context) {
	ds, ok := h.cache.Current()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "nenhum dado carregado: use /api/load ou /api/import"})
		return
	}

	result := h.engine.Compute(ds, parseFilterSpec(c))
	c.JSON(http.StatusOK, result)
}

// GetFilters returns the cascaded option lists for each filter level.
// GET /api/filters?managers=&supervisors=&salespeople=
func (h *Handler) GetFilters(c *gin.Context) {
	ds, ok := h.cache.Current()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "nenhum dado carregado: use /api/load ou /api/import"})
		return
	}

	c.JSON(http.StatusOK, h.engine.Options(ds, parseFilterSpec(c)))
}

// parseFilterSpec reads selection sets from the query string. Each parameter
// may repeat or hold comma-separated values.
func parseFilterSpec(c *gin.Context) model.FilterSpec {
	return model.FilterSpec{
		Managers:    queryValues(c, "managers"),
		Supervisors: queryValues(c, "supervisors"),
		Salespeople: queryValues(c, "salespeople"),
		States:      queryValues(c, "states"),
	}
}

func queryValues(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			v = strings.TrimSpace(v)
			if v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
