package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Product event types, used as the message routing key.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// EventPublisher delivers serialized product events. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// ProductEvent is the message published after a successful write.
type ProductEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	ProductID  int       `json:"product_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newProductEvent(eventType string, productID int) ProductEvent {
	return ProductEvent{
		EventID:    uuid.New().String(),
		Type:       eventType,
		ProductID:  productID,
		OccurredAt: time.Now().UTC(),
	}
}

// DecodeProductEvent parses a message body produced by ProductService.
func DecodeProductEvent(body []byte) (ProductEvent, error) {
	var event ProductEvent
	err := json.Unmarshal(body, &event)
	return event, err
}
