package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/langchou/atlas/internal/models"
	"github.com/langchou/atlas/internal/repository"
	"github.com/langchou/atlas/pkg/ws"
)

// FavoriteService 收藏服务
type FavoriteService struct {
	logger *zap.Logger
	store  repository.FavoriteStore
	wsHub  *ws.Hub
}

// NewFavoriteService 创建收藏服务
func NewFavoriteService(logger *zap.Logger, store repository.FavoriteStore, wsHub *ws.Hub) *FavoriteService {
	return &FavoriteService{
		logger: logger,
		store:  store,
		wsHub:  wsHub,
	}
}

// Add 添加收藏，重复时返回 false
func (s *FavoriteService) Add(ctx context.Context, fav *models.Favorite) (bool, error) {
	added, err := s.store.AddFavorite(ctx, fav)
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	if !added {
		s.logger.Debug("Favorite already exists", zap.String("place_id", fav.PlaceID))
		return false, nil
	}

	s.logger.Info("Favorite added", zap.String("place_id", fav.PlaceID), zap.Int64("id", fav.ID))
	if s.wsHub != nil {
		s.wsHub.BroadcastMessage(ws.MsgTypeFavoriteAdded, fav)
	}
	return true, nil
}

// List 按添加时间倒序列出收藏
func (s *FavoriteService) List(ctx context.Context) ([]*models.Favorite, error) {
	favorites, err := s.store.ListFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}

// Remove 删除收藏，不存在时返回 false
func (s *FavoriteService) Remove(ctx context.Context, placeID string) (bool, error) {
	removed, err := s.store.RemoveFavorite(ctx, placeID)
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	if !removed {
		return false, nil
	}

	s.logger.Info("Favorite removed", zap.String("place_id", placeID))
	if s.wsHub != nil {
		s.wsHub.BroadcastMessage(ws.MsgTypeFavoriteRemoved, map[string]string{"place_id": placeID})
	}
	return true, nil
}
