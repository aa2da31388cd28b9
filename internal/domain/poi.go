package domain

// POI представляет точку интереса из загруженного набора
type POI struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// NearestPOI - точка интереса с геодезическим расстоянием до точки запроса
type NearestPOI struct {
	POI
	DistanceMeters float64 `json:"distance_meters"`
}
