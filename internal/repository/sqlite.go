package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/langchou/atlas/internal/models"
)

// SQLiteDB SQLite 连接封装（默认存储，单文件）
type SQLiteDB struct {
	DB *sql.DB
}

// NewSQLite 打开 SQLite 数据库
func NewSQLite(ctx context.Context, dsn string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite 只允许单写者
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteDB{DB: db}, nil
}

// sqliteDSN 将文件路径转换为带参数的 DSN
func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep + "_busy_timeout=5000&_journal_mode=WAL"
}

// Close 关闭连接
func (db *SQLiteDB) Close() {
	db.DB.Close()
}

// Migrate 执行数据库迁移，可重复执行
func (db *SQLiteDB) Migrate(ctx context.Context) error {
	migrations := []string{
		sqliteCreateSearches,
		sqliteCreateFavorites,
	}

	for _, m := range migrations {
		if _, err := db.DB.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

const sqliteCreateSearches = `
CREATE TABLE IF NOT EXISTS searches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    query TEXT NOT NULL,
    latitude REAL NOT NULL,
    longitude REAL NOT NULL,
    radius INTEGER NOT NULL,
    results_count INTEGER NOT NULL,
    timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_searches_timestamp ON searches(timestamp DESC);
`

const sqliteCreateFavorites = `
CREATE TABLE IF NOT EXISTS favorites (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    place_id TEXT UNIQUE NOT NULL,
    name TEXT NOT NULL,
    address TEXT NOT NULL,
    phone TEXT,
    added_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_favorites_added_at ON favorites(added_at DESC);
`

// SQLiteHistoryRepository 搜索历史仓库（SQLite）
type SQLiteHistoryRepository struct {
	db *SQLiteDB
}

// NewSQLiteHistoryRepository 创建搜索历史仓库
func NewSQLiteHistoryRepository(db *SQLiteDB) *SQLiteHistoryRepository {
	return &SQLiteHistoryRepository{db: db}
}

// RecordSearch 追加一条搜索记录
func (r *SQLiteHistoryRepository) RecordSearch(ctx context.Context, query string, origin models.Location, radius, resultsCount int) (int64, error) {
	res, err := r.db.DB.ExecContext(ctx, `
		INSERT INTO searches (query, latitude, longitude, radius, results_count, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, query, origin.Lat, origin.Lng, radius, resultsCount, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert search: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("search id: %w", err)
	}
	return id, nil
}

// ListSearchHistory 按时间倒序获取搜索历史
func (r *SQLiteHistoryRepository) ListSearchHistory(ctx context.Context, limit int) ([]*models.SearchHistory, error) {
	rows, err := r.db.DB.QueryContext(ctx, `
		SELECT id, query, latitude, longitude, radius, results_count, timestamp
		FROM searches
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	defer rows.Close()

	history := make([]*models.SearchHistory, 0)
	for rows.Next() {
		h := &models.SearchHistory{}
		if err := rows.Scan(&h.ID, &h.Query, &h.Latitude, &h.Longitude, &h.Radius, &h.ResultsCount, &h.Timestamp); err != nil {
			return nil, fmt.Errorf("scan search: %w", err)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate searches: %w", err)
	}
	return history, nil
}

// SQLiteFavoriteRepository 收藏仓库（SQLite）
type SQLiteFavoriteRepository struct {
	db *SQLiteDB
}

// NewSQLiteFavoriteRepository 创建收藏仓库
func NewSQLiteFavoriteRepository(db *SQLiteDB) *SQLiteFavoriteRepository {
	return &SQLiteFavoriteRepository{db: db}
}

// AddFavorite 添加收藏，place_id 已存在时返回 false
func (r *SQLiteFavoriteRepository) AddFavorite(ctx context.Context, fav *models.Favorite) (bool, error) {
	now := time.Now().UTC()
	res, err := r.db.DB.ExecContext(ctx, `
		INSERT INTO favorites (place_id, name, address, phone, added_at)
		VALUES (?, ?, ?, ?, ?)
	`, fav.PlaceID, fav.Name, fav.Address, fav.Phone, now)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return false, nil
		}
		return false, fmt.Errorf("insert favorite: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("favorite id: %w", err)
	}
	fav.ID = id
	fav.AddedAt = now
	return true, nil
}

// ListFavorites 按添加时间倒序获取收藏
func (r *SQLiteFavoriteRepository) ListFavorites(ctx context.Context) ([]*models.Favorite, error) {
	rows, err := r.db.DB.QueryContext(ctx, `
		SELECT id, place_id, name, address, phone, added_at
		FROM favorites
		ORDER BY added_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	favorites := make([]*models.Favorite, 0)
	for rows.Next() {
		f := &models.Favorite{}
		if err := rows.Scan(&f.ID, &f.PlaceID, &f.Name, &f.Address, &f.Phone, &f.AddedAt); err != nil {
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
func (r *SQLiteFavoriteRepository) RemoveFavorite(ctx context.Context, placeID string) (bool, error) {
	res, err := r.db.DB.ExecContext(ctx, `DELETE FROM favorites WHERE place_id = ?`, placeID)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("favorite rows affected: %w", err)
	}
	return n > 0, nil
}
