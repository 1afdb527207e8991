// Package events publishes order lifecycle notifications for downstream consumers.
package events

import (
	"context"
	"time"

	"phoneshop/internal/models"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the JSON body published for every order event.
type OrderEvent struct {
	Type       string             `json:"type"`
	OrderID    string             `json:"orderId"`
	UserID     string             `json:"userId,omitempty"`
	Status     models.OrderStatus `json:"status"`
	TotalPrice float64            `json:"totalPrice"`
	ItemCount  int                `json:"itemCount"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// NewOrderEvent describes order for an event of the given type.
func NewOrderEvent(eventType string, order models.Order) OrderEvent {
	event := OrderEvent{
		Type:       eventType,
		OrderID:    order.ID.Hex(),
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
		CreatedAt:  order.CreatedAt,
	}
	if order.UserID != nil {
		event.UserID = order.UserID.Hex()
	}
	for _, item := range order.Items {
		event.ItemCount += item.Quantity
	}
	return event
}

type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, OrderEvent) error { return nil }

func (Nop) Close() error { return nil }
