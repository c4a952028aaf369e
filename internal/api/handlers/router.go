package handlers

import (
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter 创建路由
func NewRouter(h *Handler) *gin.Engine {
	// 设置 Gin 模式
	if !h.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(h.logger))
	router.Use(corsMiddleware(h.cfg.CORSOrigins))

	h.RegisterRoutes(router)
	h.registerStatic(router)

	return router
}

// registerStatic 前端目录存在时提供静态文件
func (h *Handler) registerStatic(router *gin.Engine) {
	dir := h.cfg.StaticDir
	if dir == "" {
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		h.logger.Info("Static directory not found, frontend disabled", zap.String("dir", dir))
		return
	}

	router.Static("/static", dir)
	index := filepath.Join(dir, "index.html")
	router.GET("/", func(c *gin.Context) {
		c.File(index)
	})
}
