package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"phoneshop/internal/models"
)

func TestNewOrderEvent(t *testing.T) {
	userID := primitive.NewObjectID()
	order := models.Order{
		ID:         primitive.NewObjectID(),
		Status:     models.StatusPending,
		TotalPrice: 250,
		UserID:     &userID,
		CreatedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{Name: "Case", Price: 50, Quantity: 3},
			{Name: "Cable", Price: 100, Quantity: 1},
		},
	}

	event := NewOrderEvent(TypeOrderCreated, order)

	assert.Equal(t, TypeOrderCreated, event.Type)
	assert.Equal(t, order.ID.Hex(), event.OrderID)
	assert.Equal(t, userID.Hex(), event.UserID)
	assert.Equal(t, 4, event.ItemCount)

	body, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"totalPrice":250`)
}

func TestGuestOrderEventOmitsUser(t *testing.T) {
	event := NewOrderEvent(TypeOrderCreated, models.Order{ID: primitive.NewObjectID()})

	body, err := json.Marshal(event)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "userId")
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), OrderEvent{}))
	assert.NoError(t, p.Close())
}
