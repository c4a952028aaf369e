package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/atlas/internal/models"
)

// FavoriteRequest 添加收藏请求
// 同时支持 JSON 和查询参数
type FavoriteRequest struct {
	PlaceID string  `json:"place_id" form:"place_id" validate:"required,max=255"`
	Name    string  `json:"name" form:"name" validate:"required,max=255"`
	Address string  `json:"address" form:"address" validate:"required,max=500"`
	Phone   *string `json:"phone" form:"phone" validate:"omitempty,max=50"`
}

// ListFavorites 获取收藏列表
// GET /api/favorites
func (h *Handler) ListFavorites(c *gin.Context) {
	favorites, err := h.favoriteService.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list favorites", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
		"count":     len(favorites),
	})
}

// AddFavorite 添加收藏
// POST /api/favorites
func (h *Handler) AddFavorite(c *gin.Context) {
	var req FavoriteRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	req.PlaceID = strings.TrimSpace(req.PlaceID)
	if req.Phone != nil && strings.TrimSpace(*req.Phone) == "" {
		req.Phone = nil
	}
	if err := h.validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": h.validationMessage(err)})
		return
	}

	fav := &models.Favorite{
		PlaceID: req.PlaceID,
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	}
	added, err := h.favoriteService.Add(c.Request.Context(), fav)
	if err != nil {
		h.logger.Error("Failed to add favorite", zap.Error(err), zap.String("place_id", req.PlaceID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add favorite"})
		return
	}
	if !added {
		c.JSON(http.StatusConflict, gin.H{"error": "Establishment is already in favorites"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Establishment added to favorites",
		"data":    fav,
	})
}

// RemoveFavorite 删除收藏
// DELETE /api/favorites/:place_id
func (h *Handler) RemoveFavorite(c *gin.Context) {
	placeID := c.Param("place_id")

	removed, err := h.favoriteService.Remove(c.Request.Context(), placeID)
	if err != nil {
		h.logger.Error("Failed to remove favorite", zap.Error(err), zap.String("place_id", placeID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Establishment not found in favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Establishment removed from favorites",
		"place_id": placeID,
	})
}
