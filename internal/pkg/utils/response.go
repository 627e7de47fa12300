package utils

import (
	"github.com/evmap-service/internal/domain"
	"github.com/evmap-service/internal/pkg/errors"
	"github.com/gofiber/fiber/v2"
)

type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

// SendFeatureCollection отправляет GeoJSON-конверт ответа
func SendFeatureCollection(c *fiber.Ctx, fc *domain.FeatureCollection) error {
	return c.JSON(fc)
}

func SendError(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*errors.AppError); ok {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error: appErr,
		})
	}

	// Unknown error - return 500
	return c.Status(500).JSON(ErrorResponse{
		Error: errors.ErrInternalServer,
	})
}
