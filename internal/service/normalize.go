package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/langchou/atlas/internal/api/places"
	"github.com/langchou/atlas/internal/geo"
	"github.com/langchou/atlas/internal/models"
)

// 缺失字段的默认值
const (
	DefaultName    = "name unavailable"
	DefaultAddress = "address unavailable"
)

// normalizePlace 将一条原始地点记录转换为 Establishment
// 返回 false 表示丢弃该记录：无法解析、缺少坐标或坐标越界
func (s *SearchService) normalizePlace(ctx context.Context, raw json.RawMessage, origin models.Location) (models.Establishment, bool) {
	var place places.Place
	if err := json.Unmarshal(raw, &place); err != nil {
		s.logger.Warn("Discarding malformed place record", zap.Error(err))
		return models.Establishment{}, false
	}

	// 坐标缺失才丢弃，0 是合法值
	lat, lng, ok := place.Coordinates()
	if !ok {
		s.logger.Debug("Discarding place without coordinates", zap.String("place_id", place.PlaceID))
		return models.Establishment{}, false
	}

	location := models.Location{Lat: lat, Lng: lng}
	if !location.Valid() {
		s.logger.Debug("Discarding place with out-of-range coordinates",
			zap.String("place_id", place.PlaceID),
			zap.Float64("lat", lat),
			zap.Float64("lng", lng))
		return models.Establishment{}, false
	}
	distance := geo.Round2(geo.DistanceBetween(origin, location))

	est := models.Establishment{
		Name:     place.Name,
		Address:  place.FormattedAddress,
		Distance: &distance,
		Location: location,
		Rating:   place.Rating,
	}
	if est.Name == "" {
		est.Name = DefaultName
	}
	if est.Address == "" {
		est.Address = DefaultAddress
	}
	if place.PlaceID != "" {
		placeID := place.PlaceID
		est.PlaceID = &placeID
	}

	// 文本搜索通常不返回电话，需要额外查询详情
	phone := place.FormattedPhoneNumber
	if phone == "" && place.PlaceID != "" {
		if p, ok := s.lookupPhone(ctx, place.PlaceID); ok {
			phone = p
		}
	}
	if phone != "" {
		est.Phone = &phone
	}

	return est, true
}

// lookupPhone 尽力查询电话号码，任何失败都视为“没有电话”
func (s *SearchService) lookupPhone(ctx context.Context, placeID string) (string, bool) {
	details, err := s.places.Details(ctx, placeID)
	if err != nil {
		s.logger.Debug("Place details lookup failed",
			zap.String("place_id", placeID),
			zap.Error(err))
		return "", false
	}
	if details.FormattedPhoneNumber == "" {
		return "", false
	}
	return details.FormattedPhoneNumber, true
}
