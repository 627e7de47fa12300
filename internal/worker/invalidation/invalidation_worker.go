package invalidation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/evmap-service/internal/domain"
	"github.com/evmap-service/internal/domain/repository"
	"github.com/evmap-service/internal/usecase"
	"github.com/evmap-service/internal/worker"
	"go.uber.org/zap"
)

const (
	maxBatchSize    = 20                     // максимум сообщений за раз
	emptyQueueSleep = 100 * time.Millisecond // пауза если очередь пуста
	purgeRetrySleep = 100 * time.Millisecond // пауза между попытками purge
)

// SpecialCacheInvalidationWorker слушает события мутаций сущностей и
// зачищает special-кеш по префиксу ключа. Радиусные записи событийно
// не инвалидируются - их устаревание ограничивает короткий TTL.
type SpecialCacheInvalidationWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	cacheRepo    repository.CacheRepository
	consumerName string
	maxRetries   int
}

// NewSpecialCacheInvalidationWorker создает новый воркер инвалидации
func NewSpecialCacheInvalidationWorker(
	streamRepo repository.StreamRepository,
	cacheRepo repository.CacheRepository,
	consumerGroup string,
	maxRetries int,
	logger *zap.Logger,
) *SpecialCacheInvalidationWorker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	if maxRetries < 1 {
		maxRetries = 1
	}

	return &SpecialCacheInvalidationWorker{
		BaseWorker:   worker.NewBaseWorker("special-cache-invalidation", consumerGroup, logger),
		streamRepo:   streamRepo,
		cacheRepo:    cacheRepo,
		consumerName: consumerName,
		maxRetries:   maxRetries,
	}
}

// Start запускает воркер
func (w *SpecialCacheInvalidationWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting SpecialCacheInvalidationWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName))

	// Создаем consumer group
	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamEntityChanged, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	// Основной цикл обработки
	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, err := w.processBatch(ctx)
			if err != nil {
				logger.Error("Failed to process batch", zap.Error(err))
				time.Sleep(time.Second) // пауза при ошибке
				continue
			}

			if processed == 0 {
				time.Sleep(emptyQueueSleep)
			}
		}
	}
}

// processBatch читает и обрабатывает batch событий.
// Возвращает количество обработанных сообщений.
func (w *SpecialCacheInvalidationWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamEntityChanged,
		w.ConsumerGroup(),
		w.consumerName,
		maxBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	// Инвалидация идемпотентна: один purge на batch достаточен,
	// если хоть одно событие затрагивает special-выборку
	purge := false
	messageIDs := make([]string, 0, len(messages))
	for _, msg := range messages {
		var event domain.EntityChangedEvent
		if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
			logger.Warn("Failed to unmarshal entity change event",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			// ACK битое сообщение чтобы не застревало
			w.ack(ctx, msg.ID)
			continue
		}

		if event.AffectsSpecialCache() {
			purge = true
			logger.Debug("Entity change affects special cache",
				zap.String("entity_id", event.EntityID.String()),
				zap.String("kind", event.Kind),
				zap.String("action", event.Action))
		}

		messageIDs = append(messageIDs, msg.ID)
	}

	if purge {
		if err := w.purgeSpecial(ctx); err != nil {
			// Без ACK: pending-копии останутся в consumer group
			// и будут переобработаны
			return 0, err
		}
	}

	// ACK только после успешного purge
	for _, id := range messageIDs {
		w.ack(ctx, id)
	}

	return len(messages), nil
}

// purgeSpecial зачищает special-кеш с ограниченным числом повторов
func (w *SpecialCacheInvalidationWorker) purgeSpecial(ctx context.Context) error {
	logger := w.Logger()

	var lastErr error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		deleted, err := w.cacheRepo.DeleteByPrefix(ctx, usecase.CacheKeyPrefixSpecial)
		if err == nil {
			logger.Info("Special cache purged",
				zap.Int("deleted", deleted),
				zap.Int("attempt", attempt))
			return nil
		}

		lastErr = err
		logger.Warn("Failed to purge special cache",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", w.maxRetries),
			zap.Error(err))

		if attempt < w.maxRetries {
			time.Sleep(purgeRetrySleep)
		}
	}

	return fmt.Errorf("failed to purge special cache after %d attempts: %w", w.maxRetries, lastErr)
}

func (w *SpecialCacheInvalidationWorker) ack(ctx context.Context, messageID string) {
	if err := w.streamRepo.AckMessage(ctx, domain.StreamEntityChanged, w.ConsumerGroup(), messageID); err != nil {
		w.Logger().Warn("Failed to ack message", zap.String("message_id", messageID), zap.Error(err))
	}
}
