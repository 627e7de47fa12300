package repository

import (
	"context"

	"github.com/evmap-service/internal/domain"
	"github.com/google/uuid"
)

// EntityRepository определяет методы чтения сущностей (Entity Store Adapter).
// Ядро только читает; мутации принадлежат слою хранения.
type EntityRepository interface {
	// Find возвращает кандидатов типа kind, удовлетворяющих фильтру.
	// bbox - необязательное дешёвое пред-сужение; адаптер вправе его
	// игнорировать, точная проверка расстояния выполняется ядром.
	Find(ctx context.Context, kind string, filter domain.EntityFilter, bbox *domain.BoundingBox, limit int) ([]*domain.Entity, error)

	// FindRecent возвращает сущности типа kind в порядке убывания
	// времени изменения (для special-выборки)
	FindRecent(ctx context.Context, kind string, filter domain.EntityFilter, limit int) ([]*domain.Entity, error)

	// GetByID возвращает сущность по типу и идентификатору
	GetByID(ctx context.Context, kind string, id uuid.UUID) (*domain.Entity, error)
}
