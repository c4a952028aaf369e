package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxHistoryLimit = 500

// ListHistory 获取搜索历史
// GET /api/history?limit=
func (h *Handler) ListHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.cfg.HistoryLimit)))
	if err != nil || limit < 1 {
		limit = h.cfg.HistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	history, err := h.history.ListSearchHistory(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list search history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list search history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": history,
		"count":   len(history),
	})
}
