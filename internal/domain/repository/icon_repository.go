package repository

import (
	"github.com/evmap-service/internal/domain"
)

// IconRepository разрешает иконку и цвет маркера для сущности
type IconRepository interface {
	// Resolve возвращает слаг иконки и цвет; всегда даёт рабочий fallback
	Resolve(entity *domain.Entity) domain.IconStyle
}
