package dto

// MapRequest - параметры запроса GET /map. Координаты приходят строками:
// нормализатор принимает запятую как десятичный разделитель.
type MapRequest struct {
	Lat            string  `query:"lat"`
	Lng            string  `query:"lng"`
	RadiusKm       float64 `query:"radius_km" validate:"omitempty,gt=0,lte=50"`
	Types          string  `query:"types"`
	Fields         string  `query:"fields"`
	Limit          int     `query:"limit" validate:"omitempty,min=1,max=2000"`
	Providers      string  `query:"providers"`
	POITypes       string  `query:"poi_types"`
	Amenities      string  `query:"amenities"`
	ConnectorTypes string  `query:"connector_types"`
	Recommended    string  `query:"db_recommended"`
	Free           string  `query:"free"`
	Mode           string  `query:"mode"`
}

// MapDetailRequest - параметры запроса GET /map-detail/:kind/:id
type MapDetailRequest struct {
	// Center - опциональный центр "lat,lng" для расчёта расстояния
	Center string `query:"center"`
}
