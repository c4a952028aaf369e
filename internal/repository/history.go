package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/langchou/atlas/internal/models"
)

// HistoryRepository 搜索历史仓库（PostgreSQL）
type HistoryRepository struct {
	db *DB
}

// NewHistoryRepository 创建搜索历史仓库
func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// RecordSearch 追加一条搜索记录
func (r *HistoryRepository) RecordSearch(ctx context.Context, query string, origin models.Location, radius, resultsCount int) (int64, error) {
	stmt := `
		INSERT INTO searches (query, latitude, longitude, radius, results_count, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := r.db.Pool.QueryRow(ctx, stmt,
		query,
		origin.Lat,
		origin.Lng,
		radius,
		resultsCount,
		time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert search: %w", err)
	}
	return id, nil
}

// ListSearchHistory 按时间倒序获取搜索历史
func (r *HistoryRepository) ListSearchHistory(ctx context.Context, limit int) ([]*models.SearchHistory, error) {
	stmt := `
		SELECT id, query, latitude, longitude, radius, results_count, timestamp
		FROM searches
		ORDER BY timestamp DESC, id DESC
		LIMIT $1
	`
	rows, err := r.db.Pool.Query(ctx, stmt, limit)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	defer rows.Close()

	history := make([]*models.SearchHistory, 0)
	for rows.Next() {
		h := &models.SearchHistory{}
		if err := rows.Scan(
			&h.ID,
			&h.Query,
			&h.Latitude,
			&h.Longitude,
			&h.Radius,
			&h.ResultsCount,
			&h.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan search: %w", err)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate searches: %w", err)
	}
	return history, nil
}
