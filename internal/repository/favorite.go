package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/langchou/atlas/internal/models"
)

// PostgreSQL 唯一约束冲突错误码
const pgUniqueViolation = "23505"

// FavoriteRepository 收藏仓库（PostgreSQL）
type FavoriteRepository struct {
	db *DB
}

// NewFavoriteRepository 创建收藏仓库
func NewFavoriteRepository(db *DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// AddFavorite 添加收藏，place_id 已存在时返回 false，不覆盖原记录
func (r *FavoriteRepository) AddFavorite(ctx context.Context, fav *models.Favorite) (bool, error) {
	query := `
		INSERT INTO favorites (place_id, name, address, phone, added_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	now := time.Now()
	err := r.db.Pool.QueryRow(ctx, query,
		fav.PlaceID,
		fav.Name,
		fav.Address,
		fav.Phone,
		now,
	).Scan(&fav.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return false, nil
		}
		return false, fmt.Errorf("insert favorite: %w", err)
	}

	fav.AddedAt = now
	return true, nil
}

// ListFavorites 按添加时间倒序获取收藏
func (r *FavoriteRepository) ListFavorites(ctx context.Context) ([]*models.Favorite, error) {
	query := `
		SELECT id, place_id, name, address, phone, added_at
		FROM favorites
		ORDER BY added_at DESC, id DESC
	`
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	favorites := make([]*models.Favorite, 0)
	for rows.Next() {
		f := &models.Favorite{}
		if err := rows.Scan(
			&f.ID,
			&f.PlaceID,
			&f.Name,
			&f.Address,
			&f.Phone,
			&f.AddedAt,
		); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return favorites, nil
}

// RemoveFavorite 删除收藏，不存在时返回 false
func (r *FavoriteRepository) RemoveFavorite(ctx context.Context, placeID string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM favorites WHERE place_id = $1`, placeID)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
