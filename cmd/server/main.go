package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/langchou/atlas/internal/api/handlers"
	"github.com/langchou/atlas/internal/api/places"
	"github.com/langchou/atlas/internal/config"
	"github.com/langchou/atlas/internal/repository"
	"github.com/langchou/atlas/internal/service"
	"github.com/langchou/atlas/pkg/ws"
)

// initHistorySize WebSocket 初始化时推送的最近搜索条数
const initHistorySize = 20

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	logger.Info("Starting Atlas", zap.String("port", cfg.ServerPort))

	// 创建 context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 打开存储
	store, err := repository.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer store.Close()

	// 执行数据库迁移
	if err := store.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database migrated successfully", zap.String("backend", store.Backend))

	// 创建 Places 客户端
	placesClient := places.NewClient(
		cfg.PlacesAPIKey,
		cfg.PlacesBaseURL,
		cfg.PlacesLanguage,
		cfg.PlacesTimeout,
		logger,
	)
	if !placesClient.IsConfigured() {
		logger.Warn("GOOGLE_MAPS_API_KEY not set, searches will be rejected")
	}

	// 创建 WebSocket Hub
	wsHub := ws.NewHub(logger)
	wsHub.SetInitDataProvider(func() *ws.InitData {
		initCtx, initCancel := context.WithTimeout(ctx, 5*time.Second)
		defer initCancel()

		history, err := store.History.ListSearchHistory(initCtx, initHistorySize)
		if err != nil {
			logger.Warn("Failed to load history for websocket init", zap.Error(err))
		}
		favorites, err := store.Favorites.ListFavorites(initCtx)
		if err != nil {
			logger.Warn("Failed to load favorites for websocket init", zap.Error(err))
		}
		return &ws.InitData{History: history, Favorites: favorites}
	})
	go wsHub.Run()

	// 创建服务
	searchService := service.NewSearchService(cfg, logger, placesClient, store.History, wsHub)
	favoriteService := service.NewFavoriteService(logger, store.Favorites, wsHub)

	// 创建 HTTP 处理器和路由
	handler := handlers.NewHandler(
		cfg,
		logger,
		searchService,
		favoriteService,
		store.History,
		wsHub,
	)
	router := handlers.NewRouter(handler)

	// 启动 HTTP 服务器
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", server.Addr))

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// 优雅关闭
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	wsHub.Stop()

	logger.Info("Server exited")
}

// initLogger 初始化日志
func initLogger(debug bool) *zap.Logger {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	logger, _ := config.Build()
	return logger
}
