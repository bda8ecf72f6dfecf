package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/freelancermujtabaa/PicassoPet/internal/app/fulfillment"
	domain "github.com/freelancermujtabaa/PicassoPet/internal/domain/order"
)

const EventItemRequested = "fulfillment.item.requested"

type Envelope[T any] struct {
	EventType  string    `json:"event_type"`  // "fulfillment.item.requested"
	Version    int       `json:"version"`     // 1
	OccurredAt time.Time `json:"occurred_at"` // UTC
	EntityID   string    `json:"entity_id"`   // "<order_id>-<line_item_id>", doubles as the message key
	Payload    T         `json:"payload"`
	Meta       Meta      `json:"meta"`
}

type Meta struct {
	Producer string `json:"producer"` // "fulfillment-service"
	Source   string `json:"source"`  // "webhook" | "replay"
}

// ItemRequested carries everything the submitter worker needs; the worker
// never re-reads order state from anywhere else.
type ItemRequested struct {
	Order domain.OrderEvent          `json:"order"`
	Item  fulfillment.ActionableItem `json:"item"`
}

// ItemQueue publishes one message per actionable line item. Keyed by the
// (order id, line item id) pair so redeliveries of one item stay in order.
type ItemQueue struct {
	producer Producer
	topic    string
}

func NewItemQueue(producer Producer, topic string) *ItemQueue {
	return &ItemQueue{producer: producer, topic: topic}
}

func (q *ItemQueue) EnqueueItem(ctx context.Context, ev domain.OrderEvent, item fulfillment.ActionableItem) error {
	entityID := fmt.Sprintf("%d-%d", ev.ID, item.Item.ID)
	env := Envelope[ItemRequested]{
		EventType:  EventItemRequested,
		Version:    1,
		OccurredAt: time.Now().UTC(),
		EntityID:   entityID,
		Payload:    ItemRequested{Order: ev, Item: item},
		Meta:       Meta{Producer: "fulfillment-service", Source: "webhook"},
	}
	return q.producer.PublishJSON(ctx, q.topic, []byte(entityID), env, map[string]string{
		"event_type": EventItemRequested,
	})
}
