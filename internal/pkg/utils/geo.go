package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/evmap-service/internal/domain"
)

const (
	earthRadiusKm = 6371.0

	// kmPerDegree - километров в одном градусе широты
	kmPerDegree = 111.0

	// bboxInflation - запас рамки над наивной градусной конверсией;
	// рамка только пред-фильтр, финальная проверка всегда haversine
	bboxInflation = 1.2

	// minCosLat не даёт косинусному члену обнулиться у полюсов
	minCosLat = 0.01
)

// HaversineDistance вычисляет расстояние между двумя точками в километрах.
// Это авторитетная метрика включения результата в радиус.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// BoundingBox строит прямоугольную рамку пред-фильтра вокруг центра
func BoundingBox(center domain.Point, radiusKm float64) domain.BoundingBox {
	latDelta := radiusKm / kmPerDegree * bboxInflation

	cosLat := math.Cos(center.Lat * math.Pi / 180.0)
	if cosLat < minCosLat {
		cosLat = minCosLat
	}
	lngDelta := radiusKm / (kmPerDegree * cosLat) * bboxInflation

	return domain.BoundingBox{
		MinLat: center.Lat - latDelta,
		MaxLat: center.Lat + latDelta,
		MinLng: center.Lng - lngDelta,
		MaxLng: center.Lng + lngDelta,
	}
}

// ParseNumber нормализует сырое числовое значение: обрезает пробелы,
// принимает запятую как десятичный разделитель
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseCoordinate нормализует сырое значение координаты
func ParseCoordinate(raw string) (float64, bool) {
	return ParseNumber(raw)
}

// IsNullIsland проверяет координату точно (0,0) - признак отсутствующих
// данных, такие сущности всегда исключаются из выдачи
func IsNullIsland(lat, lng float64) bool {
	return lat == 0 && lng == 0
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// ValidateRadius проверяет валидность радиуса (0 - 50 км, не включая 0)
func ValidateRadius(radiusKm float64) bool {
	return radiusKm > 0 && radiusKm <= domain.MaxRadiusKm
}

// RoundDistance округляет расстояние до 2 знаков для выдачи
func RoundDistance(km float64) float64 {
	return math.Round(km*100) / 100
}
