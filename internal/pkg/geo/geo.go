package geo

import (
	"math"

	"github.com/tidwall/geodesic"
)

const earthRadiusKm = 6371.0

// MaxGeodesicMeters - расстояние между антиподами на WGS-84 (половина меридиана).
// Кратчайшая линия между любыми антиподами проходит через полюс.
const MaxGeodesicMeters = 20003931.4586

// Geodesic вычисляет расстояние по поверхности эллипсоида WGS-84 в метрах.
// Обратная задача решается методом Карни, который сходится и для почти антиподальных точек.
func Geodesic(lat1, lng1, lat2, lng2 float64) float64 {
	if lat1 == lat2 && lng1 == lng2 {
		return 0
	}

	var s12 float64
	geodesic.WGS84.Inverse(lat1, lng1, lat2, lng2, &s12, nil, nil)
	if math.IsNaN(s12) {
		return MaxGeodesicMeters
	}
	return s12
}

// PlanarDistance - евклидово расстояние в градусах.
// Используется только для отбора кандидатов в пространственном индексе.
func PlanarDistance(lat1, lng1, lat2, lng2 float64) float64 {
	return math.Sqrt(PlanarDistanceSq(lat1, lng1, lat2, lng2))
}

// PlanarDistanceSq - квадрат PlanarDistance
func PlanarDistanceSq(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := lat1 - lat2
	dLng := lng1 - lng2
	return dLat*dLat + dLng*dLng
}

// Haversine вычисляет расстояние между двумя точками на сфере в метрах
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c * 1000
}

// ValidCoordinates проверяет валидность координат (границы включительно)
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
