package models

// Location 经纬度坐标（十进制度）
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid 检查坐标是否在合法范围内
func (l Location) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

// Establishment 标准化后的商户信息
// 可选字段使用指针表示，nil 即缺失
type Establishment struct {
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Phone    *string  `json:"phone,omitempty"`
	Distance *float64 `json:"distance,omitempty"` // 米，保留两位小数
	Location Location `json:"location"`
	Rating   *float64 `json:"rating,omitempty"` // 0-5
	PlaceID  *string  `json:"place_id,omitempty"`
}

// SearchQuery 一次附近搜索的参数
type SearchQuery struct {
	Query  string
	Origin Location
	Radius int // 米
}

// SearchResult 搜索接口返回结构
type SearchResult struct {
	Results      []Establishment `json:"results"`
	Count        int             `json:"count"`
	Query        string          `json:"query"`
	UserLocation Location        `json:"user_location"`
}
