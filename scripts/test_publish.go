//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type EntityChangedEvent struct {
	EntityID   uuid.UUID `json:"entity_id"`
	Kind       string    `json:"kind"`
	Action     string    `json:"action"`
	Revision   bool      `json:"revision,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	kind := flag.String("kind", "charger", "Entity kind")
	action := flag.String("action", "updated", "Change action")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Тестовое событие мутации сущности
	event := EntityChangedEvent{
		EntityID:   uuid.New(),
		Kind:       *kind,
		Action:     *action,
		OccurredAt: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:entity:changed",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Published %s/%s event %s as message %s\n", *kind, *action, event.EntityID, id)
}
