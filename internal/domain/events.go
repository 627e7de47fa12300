package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names (должны совпадать со стороной хранилища)
const (
	StreamEntityChanged = "stream:entity:changed"
)

// Entity change actions
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// EntityChangedEvent - событие мутации сущности из слоя хранения.
// Ревизии и автосохранения помечаются Revision и не инвалидируют кеш.
type EntityChangedEvent struct {
	EntityID   uuid.UUID `json:"entity_id"`
	Kind       string    `json:"kind"`
	Action     string    `json:"action"`
	Revision   bool      `json:"revision,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AffectsSpecialCache проверяет, требует ли событие инвалидации
// special-кеша. Special-выборка состоит только из зарядных станций.
func (e *EntityChangedEvent) AffectsSpecialCache() bool {
	if e.Revision {
		return false
	}
	if e.Kind != KindCharger {
		return false
	}
	return e.Action == ActionCreated || e.Action == ActionUpdated || e.Action == ActionDeleted
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
