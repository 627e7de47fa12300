package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/evmap-service/internal/domain"
	"github.com/evmap-service/internal/domain/repository"
	"github.com/evmap-service/internal/pkg/errors"
	"github.com/evmap-service/internal/pkg/utils"
	"github.com/evmap-service/internal/usecase/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cache diagnostic values in meta
const (
	cacheHit    = "hit"
	cacheMiss   = "miss"
	cacheBypass = "bypass"
)

// MapUseCase - оркестратор запросов карты: валидация, кеш, сборка
// результата, наложение избранного поверх кешированного ответа
type MapUseCase struct {
	entityRepo repository.EntityRepository
	cacheRepo  repository.CacheRepository
	favRepo    repository.FavoritesRepository
	payload    *PayloadBuilder
	logger     *zap.Logger
	radiusTTL  time.Duration
	specialTTL time.Duration
}

// NewMapUseCase - создание нового MapUseCase
func NewMapUseCase(
	entityRepo repository.EntityRepository,
	cacheRepo repository.CacheRepository,
	favRepo repository.FavoritesRepository,
	iconRepo repository.IconRepository,
	logger *zap.Logger,
	radiusTTL time.Duration,
	specialTTL time.Duration,
) *MapUseCase {
	return &MapUseCase{
		entityRepo: entityRepo,
		cacheRepo:  cacheRepo,
		favRepo:    favRepo,
		payload:    NewPayloadBuilder(iconRepo, logger),
		logger:     logger,
		radiusTTL:  radiusTTL,
		specialTTL: specialTTL,
	}
}

// Query обрабатывает GET /map в обоих режимах (radius/special)
func (uc *MapUseCase) Query(ctx context.Context, req dto.MapRequest, userID *int64) (*domain.FeatureCollection, error) {
	started := time.Now()

	q, err := uc.parseQuery(req)
	if err != nil {
		return nil, err
	}

	key := CacheKey(q)
	ttl := uc.radiusTTL
	if q.Mode == domain.ModeSpecial {
		ttl = uc.specialTTL
	}

	var fc *domain.FeatureCollection
	cacheFlag := cacheMiss

	cached, err := uc.cacheRepo.Get(ctx, key)
	if err != nil {
		// Недоступный кеш - безусловный промах, запрос идёт без кеша
		uc.logger.Warn("Cache unavailable, bypassing", zap.Error(err))
		cacheFlag = cacheBypass
	} else if cached != nil {
		var stored domain.FeatureCollection
		if err := json.Unmarshal(cached, &stored); err != nil {
			uc.logger.Warn("Failed to unmarshal cached response", zap.String("key", key), zap.Error(err))
		} else {
			if stored.Meta == nil {
				stored.Meta = &domain.Meta{}
			}
			fc = &stored
			cacheFlag = cacheHit
		}
	}

	if fc == nil {
		if q.Mode == domain.ModeSpecial {
			fc, err = uc.assembleSpecial(ctx, q)
		} else {
			fc, err = uc.assembleRadius(ctx, q)
		}
		if err != nil {
			return nil, err
		}

		if cacheFlag != cacheBypass {
			if data, err := json.Marshal(fc); err == nil {
				if err := uc.cacheRepo.Set(ctx, key, data, ttl); err != nil {
					uc.logger.Warn("Failed to cache response", zap.String("key", key), zap.Error(err))
				}
			}
		}
	}

	// Избранное пользователя накладывается строго после кеша:
	// кешированное значение никогда не содержит персональных полей
	if userID != nil {
		uc.applyFavorites(ctx, fc, *userID)
	}

	fc.Meta.Cache = cacheFlag
	fc.Meta.TimeMSec = float64(time.Since(started).Microseconds()) / 1000.0

	return fc, nil
}

// GetDetail обрабатывает GET /map-detail/:kind/:id - одна сущность
// в полном режиме payload, без кеширования
func (uc *MapUseCase) GetDetail(
	ctx context.Context,
	rawKind, rawID, rawCenter string,
	userID *int64,
) (*domain.FeatureCollection, error) {
	started := time.Now()

	kind, ok := domain.KindAliases[strings.ToLower(strings.TrimSpace(rawKind))]
	if !ok {
		return nil, errors.ErrInvalidKind.WithDetails(map[string]interface{}{"kind": rawKind})
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"id": rawID})
	}

	entity, err := uc.entityRepo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	lat, lng, ok := normalizeEntityCoords(entity)
	if !ok {
		return nil, errors.ErrEntityNoCoordinates
	}

	var distance *float64
	meta := &domain.Meta{
		Mode:   "detail",
		Fields: domain.FieldsFull,
		Kinds:  []string{kind},
		Limit:  1,
	}

	if center, ok := parseCenterPair(rawCenter); ok {
		d := utils.HaversineDistance(center.Lat, center.Lng, lat, lng)
		distance = &d
		meta.Center = &center
	}

	fc := domain.NewFeatureCollection()
	fc.Features = append(fc.Features, uc.payload.Build(entity, lat, lng, domain.FieldsFull, distance))
	meta.Total = 1
	meta.TotalBeforeLimit = 1
	fc.Meta = meta

	if userID != nil {
		uc.applyFavorites(ctx, fc, *userID)
	}

	fc.Meta.TimeMSec = float64(time.Since(started).Microseconds()) / 1000.0
	return fc, nil
}

// parseQuery валидирует запрос и строит неизменяемый MapQuery
func (uc *MapUseCase) parseQuery(req dto.MapRequest) (domain.MapQuery, error) {
	q := domain.MapQuery{
		Fields:  normalizeFields(req.Fields),
		Filters: ParseFilterSet(req),
	}

	if strings.EqualFold(strings.TrimSpace(req.Mode), domain.ModeSpecial) {
		// Special-режим: без центра и радиуса, только зарядки
		q.Mode = domain.ModeSpecial
		q.Kinds = []string{domain.KindCharger}
		q.Limit = req.Limit
		if q.Limit <= 0 || q.Limit > domain.SpecialLimit {
			q.Limit = domain.SpecialLimit
		}
		return q, nil
	}

	q.Mode = domain.ModeRadius

	kinds, err := normalizeKinds(req.Types)
	if err != nil {
		return q, err
	}
	q.Kinds = kinds

	lat, okLat := utils.ParseCoordinate(req.Lat)
	lng, okLng := utils.ParseCoordinate(req.Lng)
	if !okLat || !okLng || !utils.ValidateCoordinates(lat, lng) {
		return q, errors.ErrInvalidCoordinates
	}
	q.Center = domain.Point{Lat: lat, Lng: lng}

	if req.RadiusKm == 0 {
		return q, errors.ErrRadiusRequired
	}
	if !utils.ValidateRadius(req.RadiusKm) {
		return q, errors.ErrInvalidRadius.WithDetails(map[string]interface{}{"radius_km": req.RadiusKm})
	}
	q.RadiusKm = req.RadiusKm

	q.Limit = req.Limit
	if q.Limit == 0 {
		q.Limit = domain.DefaultLimit
	}
	if q.Limit < 1 || q.Limit > domain.MaxLimit {
		return q, errors.ErrInvalidLimit.WithDetails(map[string]interface{}{"limit": req.Limit})
	}

	return q, nil
}

type scoredFeature struct {
	feature  domain.Feature
	distance float64
}

// assembleRadius собирает радиусную выдачу: по каждому типу кандидаты
// через рамку пред-фильтра, точная проверка haversine, стабильная
// сортировка по расстоянию, усечение до лимита
func (uc *MapUseCase) assembleRadius(ctx context.Context, q domain.MapQuery) (*domain.FeatureCollection, error) {
	bbox := utils.BoundingBox(q.Center, q.RadiusKm)
	results := make([]scoredFeature, 0, 64)
	var warnings []string

	for _, kind := range q.Kinds {
		filter := CompileFilter(q.Filters, kind)

		entities, err := uc.entityRepo.Find(ctx, kind, filter, &bbox, domain.CandidateCeiling)
		if err != nil {
			// Отказ адаптера деградирует один тип, не весь запрос
			uc.logger.Error("Entity fetch failed for kind",
				zap.String("kind", kind),
				zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("%s: fetch failed", kind))
			continue
		}

		for _, e := range entities {
			lat, lng, ok := normalizeEntityCoords(e)
			if !ok {
				continue
			}

			distance := utils.HaversineDistance(q.Center.Lat, q.Center.Lng, lat, lng)
			if distance > q.RadiusKm {
				continue
			}

			d := distance
			results = append(results, scoredFeature{
				feature:  uc.payload.Build(e, lat, lng, q.Fields, &d),
				distance: distance,
			})
		}
	}

	// Равные расстояния сохраняют порядок обнаружения
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].distance < results[j].distance
	})

	totalBeforeLimit := len(results)
	if len(results) > q.Limit {
		results = results[:q.Limit]
	}

	fc := domain.NewFeatureCollection()
	for _, r := range results {
		fc.Features = append(fc.Features, r.feature)
	}
	fc.Meta = uc.buildMeta(q, len(fc.Features), totalBeforeLimit, warnings)

	return fc, nil
}

// assembleSpecial собирает special-выдачу: курируемое подмножество
// зарядок без привязки к центру, в порядке убывания свежести
func (uc *MapUseCase) assembleSpecial(ctx context.Context, q domain.MapQuery) (*domain.FeatureCollection, error) {
	filter := CompileFilter(q.Filters, domain.KindCharger)

	entities, err := uc.entityRepo.FindRecent(ctx, domain.KindCharger, filter, q.Limit)
	if err != nil {
		uc.logger.Error("Special fetch failed", zap.Error(err))
		return nil, err
	}

	fc := domain.NewFeatureCollection()
	seen := 0
	for _, e := range entities {
		seen++
		lat, lng, ok := normalizeEntityCoords(e)
		if !ok {
			continue
		}
		fc.Features = append(fc.Features, uc.payload.Build(e, lat, lng, q.Fields, nil))
	}
	fc.Meta = uc.buildMeta(q, len(fc.Features), seen, nil)

	return fc, nil
}

func (uc *MapUseCase) buildMeta(q domain.MapQuery, total, totalBeforeLimit int, warnings []string) *domain.Meta {
	meta := &domain.Meta{
		Mode:             q.Mode,
		Fields:           q.Fields,
		Kinds:            q.Kinds,
		Limit:            q.Limit,
		Total:            total,
		TotalBeforeLimit: totalBeforeLimit,
		Truncated:        totalBeforeLimit > total,
		Warnings:         warnings,
	}
	if q.Mode == domain.ModeRadius {
		center := q.Center
		meta.Center = &center
		meta.RadiusKm = q.RadiusKm
	}
	if !q.Filters.IsEmpty() {
		filters := q.Filters
		meta.Filters = &filters
	}
	return meta
}

// applyFavorites накладывает аннотации избранного на готовую коллекцию.
// Ошибки чтения избранного не роняют ответ - аннотации best-effort.
func (uc *MapUseCase) applyFavorites(ctx context.Context, fc *domain.FeatureCollection, userID int64) {
	assignments, err := uc.favRepo.AssignmentsFor(ctx, userID)
	if err != nil {
		uc.logger.Warn("Failed to load favorite assignments",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return
	}
	if len(assignments) == 0 {
		return
	}

	folders, err := uc.favRepo.FoldersFor(ctx, userID)
	if err != nil {
		uc.logger.Warn("Failed to load favorite folders",
			zap.Int64("user_id", userID),
			zap.Error(err))
		folders = nil
	}
	foldersByID := make(map[int64]*domain.FavoriteFolder, len(folders))
	for _, f := range folders {
		foldersByID[f.ID] = f
	}

	for i := range fc.Features {
		rawID, _ := fc.Features[i].Properties["id"].(string)
		id, err := uuid.Parse(rawID)
		if err != nil {
			continue
		}

		folderID, ok := assignments[id]
		if !ok {
			continue
		}

		annotation := map[string]interface{}{"folder_id": folderID}
		if folder, ok := foldersByID[folderID]; ok {
			annotation["folder_name"] = folder.Name
			annotation["icon"] = folder.Icon
			annotation["type"] = folder.Type
			annotation["limit"] = folder.Limit
		}
		fc.Features[i].Properties["favorite"] = annotation
	}
}

// normalizeEntityCoords парсит сырые координаты сущности; точный (0,0)
// и невалидные значения считаются отсутствующими данными
func normalizeEntityCoords(e *domain.Entity) (float64, float64, bool) {
	lat, okLat := utils.ParseCoordinate(e.RawLat)
	lng, okLng := utils.ParseCoordinate(e.RawLng)
	if !okLat || !okLng {
		return 0, 0, false
	}
	if utils.IsNullIsland(lat, lng) {
		return 0, 0, false
	}
	if !utils.ValidateCoordinates(lat, lng) {
		return 0, 0, false
	}
	return lat, lng, true
}

// normalizeFields сводит режим payload к одному из двух допустимых,
// всё прочее получает значение по умолчанию
func normalizeFields(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), domain.FieldsFull) {
		return domain.FieldsFull
	}
	return domain.FieldsMinimal
}

// normalizeKinds сводит алиасы типов к каноническим идентификаторам;
// пустой список означает все типы
func normalizeKinds(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.AllKinds(), nil
	}

	parts := strings.Split(raw, ",")
	seen := make(map[string]struct{}, len(parts))
	kinds := make([]string, 0, len(parts))
	for _, p := range parts {
		alias := strings.ToLower(strings.TrimSpace(p))
		if alias == "" {
			continue
		}
		kind, ok := domain.KindAliases[alias]
		if !ok {
			return nil, errors.ErrInvalidKind.WithDetails(map[string]interface{}{"type": p})
		}
		if _, dup := seen[kind]; dup {
			continue
		}
		seen[kind] = struct{}{}
		kinds = append(kinds, kind)
	}

	if len(kinds) == 0 {
		return domain.AllKinds(), nil
	}
	return kinds, nil
}

// parseCenterPair разбирает параметр center вида "lat,lng"
func parseCenterPair(raw string) (domain.Point, bool) {
	if strings.TrimSpace(raw) == "" {
		return domain.Point{}, false
	}

	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return domain.Point{}, false
	}

	lat, okLat := utils.ParseCoordinate(parts[0])
	lng, okLng := utils.ParseCoordinate(parts[1])
	if !okLat || !okLng || !utils.ValidateCoordinates(lat, lng) {
		return domain.Point{}, false
	}

	return domain.Point{Lat: lat, Lng: lng}, true
}
