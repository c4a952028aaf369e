package geo

import (
	"math"

	"github.com/langchou/atlas/internal/models"
)

// EarthRadius 地球平均半径（米）
const EarthRadius = 6371000.0

// Distance 使用 Haversine 公式计算两点间的大圆距离（米）
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	deltaLat := toRadians(lat2 - lat1)
	deltaLng := toRadians(lng2 - lng1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	// 接近对跖点时浮点误差可能使 a 略大于 1
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadius * c
}

// DistanceBetween 计算两个坐标之间的距离（米）
func DistanceBetween(from, to models.Location) float64 {
	return Distance(from.Lat, from.Lng, to.Lat, to.Lng)
}

// Round2 保留两位小数
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
