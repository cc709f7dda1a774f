package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/rss-estate/app/tasks"
)

func NewHandler(runner tasks.SyncRunner, stats StatsReader, version string) *Handler {
	return &Handler{
		runner:  runner,
		stats:   stats,
		version: version,
	}
}

// Sync runs the pipeline and answers with its summary.
func (h *Handler) Sync(c *gin.Context) {
	summary, err := h.runner.Run(c.Request.Context(), tasks.TriggerAPI)
	if errors.Is(err, tasks.ErrRunInProgress) {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err != nil {
		slog.Error("Sync trigger failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	status := http.StatusOK
	if !summary.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, summary)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":    "ok",
		"version":   h.version,
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	count, err := h.stats.CountArticles(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "count_articles", "error", err)
		health["status"] = "unavailable"
		health["error"] = "database unavailable"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	health["articles"] = count

	if last, ok := h.runner.LastSummary(); ok {
		health["last_sync"] = map[string]interface{}{
			"summary":     last,
			"finished_at": last.FinishedAt.Format(time.RFC3339),
			"duration":    last.Duration().String(),
		}
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	counts, err := h.stats.CountByCategory(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "count_by_category", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total := 0
	categories := make(map[string]int, len(counts))
	for category, count := range counts {
		categories[category.String()] = count
		total += count
	}

	c.JSON(http.StatusOK, gin.H{
		"total":      total,
		"categories": categories,
	})
}
