package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/atlas/internal/api/places"
	"github.com/langchou/atlas/internal/models"
)

// SearchRequest 搜索请求
type SearchRequest struct {
	Query     string   `json:"query" validate:"required,min=1,max=200"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Radius    *int     `json:"radius" validate:"omitempty,radius"`
}

// Search 搜索附近商户
// POST /api/search
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if err := h.validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": h.validationMessage(err)})
		return
	}

	radius := h.cfg.DefaultRadius
	if req.Radius != nil {
		radius = *req.Radius
	}

	result, err := h.searchService.Search(c.Request.Context(), models.SearchQuery{
		Query:  req.Query,
		Origin: models.Location{Lat: *req.Latitude, Lng: *req.Longitude},
		Radius: radius,
	})
	if err != nil {
		h.respondSearchError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// respondSearchError 配置错误和服务商错误返回 503，其余返回 500
func (h *Handler) respondSearchError(c *gin.Context, err error) {
	if errors.Is(err, places.ErrNotConfigured) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Google Maps API key not configured. Set the GOOGLE_MAPS_API_KEY environment variable.",
		})
		return
	}

	var perr *places.ProviderError
	if errors.As(err, &perr) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":           "Places provider unavailable",
			"provider_status": perr.Status,
			"detail":          perr.Error(),
		})
		return
	}

	h.logger.Error("Failed to search establishments", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search establishments"})
}
