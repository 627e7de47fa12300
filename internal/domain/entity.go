package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity kind constants
const (
	KindCharger = "charger"
	KindPOI     = "point_of_interest"
	KindRVSpot  = "rv_spot"
)

// Taxonomy axis constants
const (
	AxisProvider      = "provider"
	AxisConnectorType = "connector_type"
	AxisPOIType       = "poi_type"
	AxisRVType        = "rv_type"
	AxisAmenity       = "amenity"
	AxisRating        = "rating"
)

// Metadata keys used by the payload builder and the filter compiler
const (
	MetaRecommended       = "recommended"
	MetaFree              = "free"
	MetaAddress           = "address"
	MetaPhone             = "phone"
	MetaWebsite           = "website"
	MetaDescription       = "description"
	MetaOpeningHours      = "opening_hours"
	MetaBusinessStatus    = "business_status"
	MetaPriceClass        = "price_class"
	MetaPhotos            = "photos"
	MetaConnectorsJSON    = "connectors_json"
	MetaEquipmentTotal    = "equipment_total"
	MetaEquipmentPowerKW  = "equipment_power_kw"
	MetaDetailsExpiresAt  = "place_details_expires_at"
	MetaPhotosExpiresAt   = "place_photos_expires_at"
)

// KindAliases maps inbound type aliases to canonical kind identifiers
var KindAliases = map[string]string{
	"charger":           KindCharger,
	"chargers":          KindCharger,
	"poi":               KindPOI,
	"pois":              KindPOI,
	"point_of_interest": KindPOI,
	"rv":                KindRVSpot,
	"rv_spot":           KindRVSpot,
	"rv_spots":          KindRVSpot,
}

// AllKinds возвращает все поддерживаемые типы сущностей
func AllKinds() []string {
	return []string{KindCharger, KindPOI, KindRVSpot}
}

// ValidKind проверяет, что kind - канонический идентификатор типа
func ValidKind(kind string) bool {
	switch kind {
	case KindCharger, KindPOI, KindRVSpot:
		return true
	}
	return false
}

// Tag представляет привязку термина таксономии к сущности
type Tag struct {
	Slug string `json:"slug" db:"slug"`
	Name string `json:"name" db:"name"`
}

// Entity представляет гео-сущность (зарядная станция, POI, RV-место).
// Координаты приходят "сырыми" (текст из импорта, возможна запятая как
// десятичный разделитель) и нормализуются ядром, не адаптером.
type Entity struct {
	ID        uuid.UUID         `json:"id" db:"id"`
	Kind      string            `json:"kind" db:"kind"`
	Title     string            `json:"title" db:"title"`
	RawLat    string            `json:"-" db:"raw_lat"`
	RawLng    string            `json:"-" db:"raw_lng"`
	Tags      map[string][]Tag  `json:"tags,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
}

// TagsFor возвращает привязки заданной оси таксономии
func (e *Entity) TagsFor(axis string) []Tag {
	if e.Tags == nil {
		return nil
	}
	return e.Tags[axis]
}

// FirstTag возвращает первую привязку оси или nil
func (e *Entity) FirstTag(axis string) *Tag {
	tags := e.TagsFor(axis)
	if len(tags) == 0 {
		return nil
	}
	return &tags[0]
}

// MetaValue возвращает значение метаданных или пустую строку
func (e *Entity) MetaValue(key string) string {
	if e.Meta == nil {
		return ""
	}
	return e.Meta[key]
}

// MetaFlag проверяет булев флаг метаданных ("1"/"true")
func (e *Entity) MetaFlag(key string) bool {
	v := e.MetaValue(key)
	return v == "1" || v == "true"
}

// FavoriteFolder - папка избранного пользователя
type FavoriteFolder struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Icon  string `json:"icon" db:"icon"`
	Type  string `json:"type" db:"type"`
	Limit int    `json:"limit" db:"item_limit"`
}

// IconStyle - разрешённые иконка и цвет маркера для сущности
type IconStyle struct {
	Slug  string `json:"slug"`
	Color string `json:"color"`
	SVG   string `json:"svg,omitempty"`
}
