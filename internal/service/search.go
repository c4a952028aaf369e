package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/langchou/atlas/internal/api/places"
	"github.com/langchou/atlas/internal/config"
	"github.com/langchou/atlas/internal/models"
	"github.com/langchou/atlas/internal/repository"
	"github.com/langchou/atlas/internal/state"
	"github.com/langchou/atlas/pkg/ws"
)

// PlacesProvider 地点搜索服务商
type PlacesProvider interface {
	IsConfigured() bool
	TextSearch(ctx context.Context, query string, origin models.Location, radius int) (*places.TextSearchResponse, error)
	Details(ctx context.Context, placeID string) (*places.Place, error)
}

// SearchService 附近商户搜索服务
type SearchService struct {
	cfg     *config.Config
	logger  *zap.Logger
	places  PlacesProvider
	history repository.HistoryStore
	monitor *state.ProviderMonitor
	wsHub   *ws.Hub
}

// NewSearchService 创建搜索服务
// wsHub 可以为 nil
func NewSearchService(
	cfg *config.Config,
	logger *zap.Logger,
	provider PlacesProvider,
	history repository.HistoryStore,
	wsHub *ws.Hub,
) *SearchService {
	svc := &SearchService{
		cfg:     cfg,
		logger:  logger,
		places:  provider,
		history: history,
		wsHub:   wsHub,
	}

	svc.monitor = state.NewProviderMonitor(provider.IsConfigured(), svc.onProviderStateChange)

	return svc
}

// IsConfigured 服务商是否已配置
func (s *SearchService) IsConfigured() bool {
	return s.places.IsConfigured()
}

// ProviderStatus 服务商可用性
func (s *SearchService) ProviderStatus() state.ProviderStatus {
	return s.monitor.Status()
}

// Search 执行搜索并记录历史
// 仅在搜索正常完成（包括零结果）时写入历史
func (s *SearchService) Search(ctx context.Context, q models.SearchQuery) (*models.SearchResult, error) {
	results, err := s.SearchNearby(ctx, q)
	if err != nil {
		return nil, err
	}

	id, err := s.history.RecordSearch(ctx, q.Query, q.Origin, q.Radius, len(results))
	if err != nil {
		return nil, fmt.Errorf("record search: %w", err)
	}

	s.logger.Info("Search completed",
		zap.Int64("search_id", id),
		zap.String("query", q.Query),
		zap.Int("radius", q.Radius),
		zap.Int("results", len(results)))

	if s.wsHub != nil {
		s.wsHub.BroadcastMessage(ws.MsgTypeSearchRecorded, &models.SearchHistory{
			ID:           id,
			Query:        q.Query,
			Latitude:     q.Origin.Lat,
			Longitude:    q.Origin.Lng,
			Radius:       q.Radius,
			ResultsCount: len(results),
			Timestamp:    time.Now(),
		})
	}

	return &models.SearchResult{
		Results:      results,
		Count:        len(results),
		Query:        q.Query,
		UserLocation: q.Origin,
	}, nil
}

// SearchNearby 调用文本搜索，截断到 MaxResults，逐条标准化
// 结果保持服务商返回的顺序
func (s *SearchService) SearchNearby(ctx context.Context, q models.SearchQuery) ([]models.Establishment, error) {
	if !s.places.IsConfigured() {
		return nil, places.ErrNotConfigured
	}

	resp, err := s.places.TextSearch(ctx, q.Query, q.Origin, q.Radius)
	if err != nil {
		if !errors.Is(err, places.ErrNotConfigured) {
			s.monitor.RecordFailure(err)
		}
		s.logger.Error("Places text search failed", zap.String("query", q.Query), zap.Error(err))
		return nil, err
	}

	switch resp.Status {
	case places.StatusOK:
	case places.StatusZeroResults:
		s.monitor.RecordSuccess()
		return []models.Establishment{}, nil
	default:
		perr := &places.ProviderError{Status: resp.Status, Message: resp.ErrorMessage}
		s.monitor.RecordFailure(perr)
		s.logger.Warn("Places text search returned error status",
			zap.String("status", resp.Status),
			zap.String("message", resp.ErrorMessage))
		return nil, perr
	}
	s.monitor.RecordSuccess()

	candidates := resp.Results
	if len(candidates) > s.cfg.MaxResults {
		candidates = candidates[:s.cfg.MaxResults]
	}

	return s.normalizeAll(ctx, candidates, q.Origin), nil
}

// normalizeAll 并发标准化候选记录，单条失败不影响其他记录
func (s *SearchService) normalizeAll(ctx context.Context, candidates []json.RawMessage, origin models.Location) []models.Establishment {
	type slot struct {
		est models.Establishment
		ok  bool
	}
	slots := make([]slot, len(candidates))

	var g errgroup.Group
	g.SetLimit(s.cfg.DetailConcurrency)
	for i, raw := range candidates {
		i, raw := i, raw
		g.Go(func() error {
			est, ok := s.normalizePlace(ctx, raw, origin)
			slots[i] = slot{est: est, ok: ok}
			return nil
		})
	}
	_ = g.Wait()

	results := make([]models.Establishment, 0, len(slots))
	for _, sl := range slots {
		if sl.ok {
			results = append(results, sl.est)
		}
	}

	if discarded := len(candidates) - len(results); discarded > 0 {
		s.logger.Debug("Discarded place records", zap.Int("discarded", discarded))
	}
	return results
}

// onProviderStateChange 服务商状态变化回调
func (s *SearchService) onProviderStateChange(from, to string) {
	s.logger.Info("Places provider state changed",
		zap.String("from", from),
		zap.String("to", to))
}
