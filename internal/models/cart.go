package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartItem struct {
	ProductID primitive.ObjectID `bson:"product" json:"product"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Cart is keyed by user; there is at most one cart per user.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt,omitempty"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt,omitempty"`
}

// CartItemView joins a cart line with the current state of its product.
type CartItemView struct {
	ProductID primitive.ObjectID `json:"productId"`
	Product   *Product           `json:"product"`
	Quantity  int                `json:"quantity"`
}

type CartView struct {
	UserID primitive.ObjectID `json:"userId"`
	Items  []CartItemView     `json:"items"`
}
