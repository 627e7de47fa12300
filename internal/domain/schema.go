package domain

// KindSchema описывает различия хранения между типами сущностей:
// таблицу и имена координатных колонок. Вся остальная логика работает
// с единой моделью Entity и не ветвится по типам.
type KindSchema struct {
	Kind      string
	Table     string
	TagsTable string
	LatColumn string
	LngColumn string
}

// KindSchemas - таблица схем по каноническому идентификатору типа.
// Имена координатных колонок различаются исторически (разные импорт-пайплайны).
var KindSchemas = map[string]KindSchema{
	KindCharger: {
		Kind:      KindCharger,
		Table:     "chargers",
		TagsTable: "charger_tags",
		LatColumn: "latitude",
		LngColumn: "longitude",
	},
	KindPOI: {
		Kind:      KindPOI,
		Table:     "points_of_interest",
		TagsTable: "poi_tags",
		LatColumn: "geo_lat",
		LngColumn: "geo_lng",
	},
	KindRVSpot: {
		Kind:      KindRVSpot,
		Table:     "rv_spots",
		TagsTable: "rv_spot_tags",
		LatColumn: "gps_lat",
		LngColumn: "gps_lng",
	},
}

// AxesForKind возвращает оси таксономии, имеющие смысл для данного типа.
// Фильтр по чужой оси молча отбрасывается, а не даёт пустой результат.
var AxesForKind = map[string][]string{
	KindCharger: {AxisProvider, AxisConnectorType, AxisAmenity, AxisRating},
	KindPOI:     {AxisPOIType, AxisAmenity, AxisRating},
	KindRVSpot:  {AxisRVType, AxisAmenity, AxisRating},
}

// KindHasAxis проверяет применимость оси таксономии к типу
func KindHasAxis(kind, axis string) bool {
	for _, a := range AxesForKind[kind] {
		if a == axis {
			return true
		}
	}
	return false
}
