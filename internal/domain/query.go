package domain

// Payload mode constants
const (
	FieldsMinimal = "minimal"
	FieldsFull    = "full"
)

// Query mode constants
const (
	ModeRadius  = "radius"
	ModeSpecial = "special"
)

// Query limits
const (
	MaxRadiusKm      = 50.0
	DefaultLimit     = 300
	MaxLimit         = 300
	SpecialLimit     = 2000
	CandidateCeiling = 5000
)

type Point struct {
	Lat float64 `json:"lat" db:"lat"`
	Lng float64 `json:"lng" db:"lng"`
}

type BoundingBox struct {
	MinLat float64 `json:"min_lat" db:"min_lat"`
	MaxLat float64 `json:"max_lat" db:"max_lat"`
	MinLng float64 `json:"min_lng" db:"min_lng"`
	MaxLng float64 `json:"max_lng" db:"max_lng"`
}

// FilterSet - типизированный набор фильтров запроса. Списки внутри оси
// объединяются по OR, оси между собой - по AND. Пустой набор пропускает всё.
type FilterSet struct {
	Providers       []string `json:"providers,omitempty"`
	POITypes        []string `json:"poi_types,omitempty"`
	Amenities       []string `json:"amenities,omitempty"`
	ConnectorTypes  []string `json:"connector_types,omitempty"`
	RecommendedOnly bool     `json:"recommended_only,omitempty"`
	FreeOnly        bool     `json:"free_only,omitempty"`
}

// IsEmpty проверяет, что фильтры не заданы
func (f FilterSet) IsEmpty() bool {
	return len(f.Providers) == 0 && len(f.POITypes) == 0 &&
		len(f.Amenities) == 0 && len(f.ConnectorTypes) == 0 &&
		!f.RecommendedOnly && !f.FreeOnly
}

// MapQuery - неизменяемый объект проверенного запроса карты.
// Радиусный и special режимы взаимоисключающие.
type MapQuery struct {
	Mode    string    `json:"mode"`
	Center  Point     `json:"center"`
	RadiusKm float64  `json:"radius_km"`
	Kinds   []string  `json:"kinds"`
	Fields  string    `json:"fields"`
	Limit   int       `json:"limit"`
	Filters FilterSet `json:"filters"`
}

// EntityFilter - скомпилированный предикат для Entity Store Adapter:
// inclusion-списки слагов по осям плюс equality-ограничения метаданных.
type EntityFilter struct {
	TagAxes map[string][]string `json:"tag_axes,omitempty"`
	Meta    map[string]string   `json:"meta,omitempty"`
}
