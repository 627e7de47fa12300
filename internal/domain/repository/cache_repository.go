package repository

import (
	"context"
	"time"
)

// CacheRepository определяет методы для работы с кешем ответов
type CacheRepository interface {
	// Get получает значение из кеша по ключу (nil, nil - промах)
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix удаляет все ключи с заданным префиксом,
	// возвращает количество удалённых
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)

	// Exists проверяет существование ключа
	Exists(ctx context.Context, key string) (bool, error)
}
