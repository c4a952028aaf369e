package models

import "time"

// Favorite 收藏的商户，PlaceID 为自然键
type Favorite struct {
	ID      int64     `json:"id" db:"id"`
	PlaceID string    `json:"place_id" db:"place_id"`
	Name    string    `json:"name" db:"name"`
	Address string    `json:"address" db:"address"`
	Phone   *string   `json:"phone,omitempty" db:"phone"`
	AddedAt time.Time `json:"added_at" db:"added_at"`
}
