package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled}

// RevenueStatuses are the statuses counted as earned revenue in reports.
var RevenueStatuses = []OrderStatus{StatusCompleted, StatusShipped}

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusCompleted, StatusCancelled},
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition leaves s.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether the lifecycle graph allows moving from s to next.
// Staying in the same status is always allowed.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

const PaymentMethodCOD = "COD"

// OrderItem is a snapshot of a product taken when the order was placed.
// It is never re-synced with later catalog changes.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product" json:"product"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Image     string             `bson:"image" json:"image"`
}

// Order defines the persisted order document.
type Order struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Items           []OrderItem         `bson:"items" json:"items"`
	TotalPrice      float64             `bson:"totalPrice" json:"totalPrice"`
	CustomerName    string              `bson:"customerName" json:"customerName"`
	CustomerPhone   string              `bson:"customerPhone" json:"customerPhone"`
	CustomerAddress string              `bson:"customerAddress" json:"customerAddress"`
	PaymentMethod   string              `bson:"paymentMethod" json:"paymentMethod"`
	Status          OrderStatus         `bson:"status" json:"status"`
	UserID          *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// OrderItemView is an order line with the referenced product resolved against
// the current catalog. Product is nil once the product has been deleted.
type OrderItemView struct {
	OrderItem
	ProductDetails *ProductSummary `json:"productDetails"`
}

// OrderView is an order enriched for display: owning user and resolved products.
type OrderView struct {
	Order
	User  *UserSummary    `json:"user,omitempty"`
	Items []OrderItemView `json:"items"`
}
