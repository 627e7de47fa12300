package handler

import (
	"strconv"

	"github.com/evmap-service/internal/pkg/errors"
	"github.com/evmap-service/internal/pkg/utils"
	"github.com/evmap-service/internal/pkg/validator"
	"github.com/evmap-service/internal/usecase"
	"github.com/evmap-service/internal/usecase/dto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MapHandler - обработчик запросов карты
type MapHandler struct {
	mapUC  *usecase.MapUseCase
	logger *zap.Logger
}

// NewMapHandler - создание нового MapHandler
func NewMapHandler(mapUC *usecase.MapUseCase, logger *zap.Logger) *MapHandler {
	return &MapHandler{
		mapUC:  mapUC,
		logger: logger,
	}
}

// GetMap - выдача сущностей в радиусе или special-подмножества
// @Summary Map features by radius or curated subset
// @Tags map
// @Produce json
// @Param lat query string false "Center latitude (radius mode)"
// @Param lng query string false "Center longitude (radius mode)"
// @Param radius_km query number false "Radius in km, 0 < r <= 50"
// @Param types query string false "Comma-separated entity kinds"
// @Param fields query string false "Payload mode: minimal or full"
// @Param limit query int false "Result limit"
// @Param mode query string false "special for the curated subset"
// @Success 200 {object} domain.FeatureCollection
// @Router /api/v1/map [get]
func (h *MapHandler) GetMap(c *fiber.Ctx) error {
	var req dto.MapRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		}))
	}

	result, err := h.mapUC.Query(c.Context(), req, requestUserID(c))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendFeatureCollection(c, result)
}

// GetMapDetail - одна сущность в полном режиме payload
// @Summary Single feature in full detail
// @Tags map
// @Produce json
// @Param kind path string true "Entity kind"
// @Param id path string true "Entity ID"
// @Param center query string false "Optional center lat,lng for distance"
// @Success 200 {object} domain.FeatureCollection
// @Router /api/v1/map-detail/{kind}/{id} [get]
func (h *MapHandler) GetMapDetail(c *fiber.Ctx) error {
	kind := c.Params("kind")
	id := c.Params("id")
	center := c.Query("center")

	result, err := h.mapUC.GetDetail(c.Context(), kind, id, center, requestUserID(c))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendFeatureCollection(c, result)
}

// requestUserID извлекает идентификатор пользователя, проставленный
// внешним слоем аутентификации; nil - анонимный запрос
func requestUserID(c *fiber.Ctx) *int64 {
	raw := c.Get("X-User-ID")
	if raw == "" {
		return nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}
