package dto

// NearestRequest - запрос на поиск ближайших POI
type NearestRequest struct {
	Lat     *float64 `query:"lat" validate:"required,latitude"`
	Lng     *float64 `query:"lng" validate:"required,longitude"`
	POIType string   `query:"poi_type" validate:"required,max=100"`
	K       *int     `query:"k" validate:"omitempty,gte=1"`
}

// UploadRequest - загруженный CSV файл
type UploadRequest struct {
	Filename string
	Content  []byte
}

// ListUploadsRequest - запрос истории загрузок
type ListUploadsRequest struct {
	Limit int `query:"limit" validate:"omitempty,gte=1,lte=100"`
}
