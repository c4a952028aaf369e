package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/langchou/atlas/internal/config"
	"github.com/langchou/atlas/internal/repository"
	"github.com/langchou/atlas/internal/service"
	"github.com/langchou/atlas/pkg/ws"
)

// ServiceName 健康检查返回的服务名
const ServiceName = "Atlas API"

// Handler HTTP 处理器
type Handler struct {
	cfg             *config.Config
	logger          *zap.Logger
	searchService   *service.SearchService
	favoriteService *service.FavoriteService
	history         repository.HistoryStore
	wsHub           *ws.Hub
	upgrader        websocket.Upgrader
	validate        *validator.Validate
}

// NewHandler 创建处理器
func NewHandler(
	cfg *config.Config,
	logger *zap.Logger,
	searchService *service.SearchService,
	favoriteService *service.FavoriteService,
	history repository.HistoryStore,
	wsHub *ws.Hub,
) *Handler {
	return &Handler{
		cfg:             cfg,
		logger:          logger,
		searchService:   searchService,
		favoriteService: favoriteService,
		history:         history,
		wsHub:           wsHub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 开发环境允许所有来源
			},
		},
		validate: newValidator(cfg),
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// API 路由
	api := r.Group("/api")
	{
		// 搜索
		api.POST("/search", h.Search)

		// 历史
		api.GET("/history", h.ListHistory)

		// 收藏
		api.GET("/favorites", h.ListFavorites)
		api.POST("/favorites", h.AddFavorite)
		api.DELETE("/favorites/:place_id", h.RemoveFavorite)
	}

	// WebSocket
	r.GET("/ws", h.HandleWebSocket)

	// 健康检查
	r.GET("/health", h.HealthCheck)
}

// HandleWebSocket WebSocket 处理
func (h *Handler) HandleWebSocket(c *gin.Context) {
	if h.wsHub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "WebSocket feed disabled"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	client.Register()

	// 启动读写协程
	go client.ReadPump()
	go client.WritePump()
}

// HealthCheck 健康检查
// API Key 未配置时仍返回 200，仅在 provider_configured 中体现
func (h *Handler) HealthCheck(c *gin.Context) {
	wsClients := 0
	if h.wsHub != nil {
		wsClients = h.wsHub.ClientCount()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":              "healthy",
		"service":             ServiceName,
		"timestamp":           time.Now(),
		"provider_configured": h.searchService.IsConfigured(),
		"provider_state":      h.searchService.ProviderStatus(),
		"ws_clients":          wsClients,
	})
}
