package places

import "encoding/json"

// 响应状态码
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusRequestDenied  = "REQUEST_DENIED"
	StatusInvalidRequest = "INVALID_REQUEST"
	StatusRequestFailed  = "REQUEST_FAILED" // 本地定义：网络错误、超时、非 200
)

// DetailFields 详情查询固定请求的字段
const DetailFields = "name,formatted_address,formatted_phone_number,geometry,rating,opening_hours"

// TextSearchResponse Text Search 响应
// Results 保持原始 JSON，逐条解析，单条损坏不影响整批
type TextSearchResponse struct {
	Status       string            `json:"status"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Results      []json.RawMessage `json:"results"`
}

// DetailsResponse Place Details 响应
type DetailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Result       *Place `json:"result"`
}

// Place 服务商返回的地点记录
// 坐标使用指针区分“缺失”与“0”
type Place struct {
	PlaceID              string        `json:"place_id"`
	Name                 string        `json:"name"`
	FormattedAddress     string        `json:"formatted_address"`
	FormattedPhoneNumber string        `json:"formatted_phone_number"`
	Rating               *float64      `json:"rating"`
	Geometry             *Geometry     `json:"geometry"`
	OpeningHours         *OpeningHours `json:"opening_hours"`
	Types                []string      `json:"types"`
}

// Geometry 地点几何信息
type Geometry struct {
	Location *LatLng `json:"location"`
}

// LatLng 服务商坐标
type LatLng struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// OpeningHours 营业时间
type OpeningHours struct {
	OpenNow     *bool    `json:"open_now"`
	WeekdayText []string `json:"weekday_text"`
}

// Coordinates 返回地点坐标，任一分量缺失时 ok 为 false
func (p *Place) Coordinates() (lat, lng float64, ok bool) {
	if p.Geometry == nil || p.Geometry.Location == nil {
		return 0, 0, false
	}
	loc := p.Geometry.Location
	if loc.Lat == nil || loc.Lng == nil {
		return 0, 0, false
	}
	return *loc.Lat, *loc.Lng, true
}
