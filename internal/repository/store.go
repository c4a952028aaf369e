package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/langchou/atlas/internal/models"
)

// HistoryStore 搜索历史存储
type HistoryStore interface {
	RecordSearch(ctx context.Context, query string, origin models.Location, radius, resultsCount int) (int64, error)
	ListSearchHistory(ctx context.Context, limit int) ([]*models.SearchHistory, error)
}

// FavoriteStore 收藏存储
// 重复添加、删除不存在的记录都不是错误，通过 bool 返回
type FavoriteStore interface {
	AddFavorite(ctx context.Context, fav *models.Favorite) (bool, error)
	ListFavorites(ctx context.Context) ([]*models.Favorite, error)
	RemoveFavorite(ctx context.Context, placeID string) (bool, error)
}

// Store 进程级存储，启动时创建一次，退出时关闭
type Store struct {
	History   HistoryStore
	Favorites FavoriteStore
	Backend   string

	migrate func(ctx context.Context) error
	close   func()
}

// Open 根据 URL 选择存储后端：postgres:// 使用 PostgreSQL，其余视为 SQLite 文件
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		db, err := New(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return &Store{
			History:   NewHistoryRepository(db),
			Favorites: NewFavoriteRepository(db),
			Backend:   "postgres",
			migrate:   db.Migrate,
			close:     db.Close,
		}, nil
	}

	db, err := NewSQLite(ctx, sqliteDSN(databaseURL))
	if err != nil {
		return nil, err
	}
	return NewSQLiteStore(db), nil
}

// NewSQLiteStore 基于已打开的 SQLite 连接创建存储
func NewSQLiteStore(db *SQLiteDB) *Store {
	return &Store{
		History:   NewSQLiteHistoryRepository(db),
		Favorites: NewSQLiteFavoriteRepository(db),
		Backend:   "sqlite",
		migrate:   db.Migrate,
		close:     db.Close,
	}
}

// Migrate 初始化表结构
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.migrate(ctx); err != nil {
		return fmt.Errorf("migrate %s store: %w", s.Backend, err)
	}
	return nil
}

// Close 关闭存储
func (s *Store) Close() {
	s.close()
}
