package usecase

import (
	"encoding/json"

	"github.com/evmap-service/internal/domain"
	"github.com/evmap-service/internal/domain/repository"
	"github.com/evmap-service/internal/pkg/utils"
	"go.uber.org/zap"
)

// PayloadBuilder проецирует сущность в property bag нужной формы.
// Отсутствующие атрибуты молча опускаются; битая вложенная структура
// выкидывает только своё поле, не всю сущность.
type PayloadBuilder struct {
	icons  repository.IconRepository
	logger *zap.Logger
}

// NewPayloadBuilder - создание нового PayloadBuilder
func NewPayloadBuilder(icons repository.IconRepository, logger *zap.Logger) *PayloadBuilder {
	return &PayloadBuilder{
		icons:  icons,
		logger: logger,
	}
}

// Build собирает Feature для сущности в заданном режиме payload
func (b *PayloadBuilder) Build(
	e *domain.Entity,
	lat, lng float64,
	fields string,
	distanceKm *float64,
) domain.Feature {
	props := map[string]interface{}{
		"id":          e.ID.String(),
		"kind":        e.Kind,
		"title":       e.Title,
		"recommended": e.MetaFlag(domain.MetaRecommended),
	}

	icon := b.icons.Resolve(e)
	props["icon"] = icon.Slug
	props["icon_color"] = icon.Color

	if distanceKm != nil {
		props["distance_km"] = utils.RoundDistance(*distanceKm)
	}

	// Маркеру зарядки нужны провайдер и тип коннектора уже в minimal
	if e.Kind == domain.KindCharger {
		if t := e.FirstTag(domain.AxisProvider); t != nil {
			props["provider"] = tagProps(t)
		}
		if t := e.FirstTag(domain.AxisConnectorType); t != nil {
			props["connector_type"] = tagProps(t)
		}
	}

	if fields == domain.FieldsFull {
		b.addFullProps(e, props)
	}

	return domain.NewPointFeature(lat, lng, props)
}

// addFullProps добавляет поля детальной панели
func (b *PayloadBuilder) addFullProps(e *domain.Entity, props map[string]interface{}) {
	addMetaString(props, "address", e, domain.MetaAddress)
	addMetaString(props, "phone", e, domain.MetaPhone)
	addMetaString(props, "website", e, domain.MetaWebsite)
	addMetaString(props, "description", e, domain.MetaDescription)
	addMetaString(props, "opening_hours", e, domain.MetaOpeningHours)
	addMetaString(props, "business_status", e, domain.MetaBusinessStatus)
	addMetaString(props, "price_class", e, domain.MetaPriceClass)

	props["free"] = e.MetaFlag(domain.MetaFree)

	if t := e.FirstTag(domain.AxisRating); t != nil {
		props["rating"] = t.Slug
	}

	if photos := b.photoRefs(e); len(photos) > 0 {
		props["photos"] = photos
	}

	if amenities := amenityList(e); len(amenities) > 0 {
		props["amenities"] = amenities
	}

	// Метки устаревания внешних enrichment-данных, заполняет прокси
	addMetaString(props, "place_details_expires_at", e, domain.MetaDetailsExpiresAt)
	addMetaString(props, "place_photos_expires_at", e, domain.MetaPhotosExpiresAt)

	if e.Kind == domain.KindCharger {
		if connectors := b.connectorBreakdown(e); len(connectors) > 0 {
			props["connectors"] = connectors
		}
	}

	props["created_at"] = e.CreatedAt
	props["updated_at"] = e.UpdatedAt
}

// connectorRow - элемент разбивки по коннекторам в connectors_json
type connectorRow struct {
	Type    string  `json:"type"`
	Count   int     `json:"count"`
	PowerKW float64 `json:"power_kw"`
}

// connectorBreakdown собирает разбивку по коннекторам зарядки: термы
// оси connector_type, обогащённые количеством и мощностью. Источники
// метаданных в фиксированном порядке приоритета:
//  1. connectors_json - структурированная разбивка целиком;
//  2. connector_count_<slug> / connector_power_<slug> - поэлементные ключи;
//  3. equipment_total / equipment_power_kw - агрегат без разбивки.
// Пустой или битый источник пропускается в пользу следующего.
func (b *PayloadBuilder) connectorBreakdown(e *domain.Entity) []map[string]interface{} {
	tags := e.TagsFor(domain.AxisConnectorType)
	if len(tags) == 0 {
		return nil
	}

	if rows := b.connectorsFromJSON(e); len(rows) > 0 {
		result := make([]map[string]interface{}, 0, len(tags))
		for _, t := range tags {
			entry := map[string]interface{}{"type": t.Slug, "name": t.Name}
			if row, ok := rows[t.Slug]; ok {
				entry["count"] = row.Count
				entry["power_kw"] = row.PowerKW
			}
			result = append(result, entry)
		}
		return result
	}

	if result := connectorsFromPerSlugMeta(e, tags); len(result) > 0 {
		return result
	}

	return connectorsFromAggregate(e, tags)
}

// connectorsFromJSON разбирает первичный источник connectors_json
func (b *PayloadBuilder) connectorsFromJSON(e *domain.Entity) map[string]connectorRow {
	raw := e.MetaValue(domain.MetaConnectorsJSON)
	if raw == "" {
		return nil
	}

	var rows []connectorRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		// Битая структура - атрибут опускается, сущность остаётся
		b.logger.Debug("Malformed connectors_json, falling back",
			zap.String("id", e.ID.String()),
			zap.Error(err))
		return nil
	}

	byType := make(map[string]connectorRow, len(rows))
	for _, row := range rows {
		if row.Type == "" {
			continue
		}
		byType[row.Type] = row
	}
	if len(byType) == 0 {
		return nil
	}
	return byType
}

func connectorsFromPerSlugMeta(e *domain.Entity, tags []domain.Tag) []map[string]interface{} {
	result := make([]map[string]interface{}, 0, len(tags))
	found := false
	for _, t := range tags {
		entry := map[string]interface{}{"type": t.Slug, "name": t.Name}
		if count, ok := utils.ParseNumber(e.MetaValue("connector_count_" + t.Slug)); ok {
			entry["count"] = int(count)
			found = true
		}
		if power, ok := utils.ParseNumber(e.MetaValue("connector_power_" + t.Slug)); ok {
			entry["power_kw"] = power
			found = true
		}
		result = append(result, entry)
	}

	if !found {
		return nil
	}
	return result
}

// connectorsFromAggregate - последний источник: общий счётчик
// оборудования приписывается первому терму коннектора
func connectorsFromAggregate(e *domain.Entity, tags []domain.Tag) []map[string]interface{} {
	result := make([]map[string]interface{}, 0, len(tags))
	for i, t := range tags {
		entry := map[string]interface{}{"type": t.Slug, "name": t.Name}
		if i == 0 {
			if total, ok := utils.ParseNumber(e.MetaValue(domain.MetaEquipmentTotal)); ok {
				entry["count"] = int(total)
			}
			if power, ok := utils.ParseNumber(e.MetaValue(domain.MetaEquipmentPowerKW)); ok {
				entry["power_kw"] = power
			}
		}
		result = append(result, entry)
	}
	return result
}

// photoRefs разбирает ссылки на фото из метаданных (JSON-массив строк)
func (b *PayloadBuilder) photoRefs(e *domain.Entity) []string {
	raw := e.MetaValue(domain.MetaPhotos)
	if raw == "" {
		return nil
	}

	var photos []string
	if err := json.Unmarshal([]byte(raw), &photos); err != nil {
		b.logger.Debug("Malformed photos meta, skipping",
			zap.String("id", e.ID.String()),
			zap.Error(err))
		return nil
	}
	return photos
}

func amenityList(e *domain.Entity) []map[string]interface{} {
	tags := e.TagsFor(domain.AxisAmenity)
	if len(tags) == 0 {
		return nil
	}

	result := make([]map[string]interface{}, 0, len(tags))
	for _, t := range tags {
		result = append(result, map[string]interface{}{
			"slug": t.Slug,
			"name": t.Name,
			"icon": "amenity-" + t.Slug,
		})
	}
	return result
}

func tagProps(t *domain.Tag) map[string]interface{} {
	return map[string]interface{}{
		"slug": t.Slug,
		"name": t.Name,
	}
}

func addMetaString(props map[string]interface{}, key string, e *domain.Entity, metaKey string) {
	if v := e.MetaValue(metaKey); v != "" {
		props[key] = v
	}
}
