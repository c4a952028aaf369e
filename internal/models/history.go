package models

import "time"

// SearchHistory 搜索历史记录（只追加）
type SearchHistory struct {
	ID           int64     `json:"id" db:"id"`
	Query        string    `json:"query" db:"query"`
	Latitude     float64   `json:"latitude" db:"latitude"`
	Longitude    float64   `json:"longitude" db:"longitude"`
	Radius       int       `json:"radius" db:"radius"` // 米
	ResultsCount int       `json:"results_count" db:"results_count"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
}
