package domain

// GeoJSON type constants
const (
	GeoJSONFeature           = "Feature"
	GeoJSONFeatureCollection = "FeatureCollection"
	GeoJSONPoint             = "Point"
)

// Geometry - точечная геометрия GeoJSON, координаты [lng, lat]
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Feature - единица выдачи: точка плюс property bag, форма которого
// зависит от режима payload (minimal/full)
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// Meta - диагностический блок ответа
type Meta struct {
	Mode             string     `json:"mode"`
	Fields           string     `json:"fields"`
	Kinds            []string   `json:"kinds,omitempty"`
	Center           *Point     `json:"center,omitempty"`
	RadiusKm         float64    `json:"radius_km,omitempty"`
	Filters          *FilterSet `json:"filters,omitempty"`
	Limit            int        `json:"limit"`
	Total            int        `json:"total"`
	TotalBeforeLimit int        `json:"total_before_limit"`
	Truncated        bool       `json:"truncated"`
	Cache            string     `json:"cache,omitempty"`
	TimeMSec         float64    `json:"time_ms,omitempty"`
	Warnings         []string   `json:"warnings,omitempty"`
}

// FeatureCollection - конверт ответа в форме GeoJSON
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
	Meta     *Meta     `json:"meta,omitempty"`
}

// NewFeatureCollection создает пустую коллекцию
func NewFeatureCollection() *FeatureCollection {
	return &FeatureCollection{
		Type:     GeoJSONFeatureCollection,
		Features: make([]Feature, 0),
	}
}

// NewPointFeature создает Feature с точечной геометрией
func NewPointFeature(lat, lng float64, props map[string]interface{}) Feature {
	return Feature{
		Type: GeoJSONFeature,
		Geometry: Geometry{
			Type:        GeoJSONPoint,
			Coordinates: []float64{lng, lat},
		},
		Properties: props,
	}
}
