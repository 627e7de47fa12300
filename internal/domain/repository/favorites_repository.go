package repository

import (
	"context"

	"github.com/evmap-service/internal/domain"
	"github.com/google/uuid"
)

// FavoritesRepository определяет чтение избранного пользователя.
// Аннотации избранного накладываются на ответ после кеша: они
// различаются между пользователями и не попадают в кешируемое значение.
type FavoritesRepository interface {
	// AssignmentsFor возвращает назначения сущность -> папка для пользователя
	AssignmentsFor(ctx context.Context, userID int64) (map[uuid.UUID]int64, error)

	// FoldersFor возвращает папки избранного пользователя
	FoldersFor(ctx context.Context, userID int64) ([]*domain.FavoriteFolder, error)
}
