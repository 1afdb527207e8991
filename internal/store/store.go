// Package store describes the persistence the services depend on. Implementations
// live in internal/database (MongoDB) and internal/store/memory.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"phoneshop/internal/models"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Page selects a window of a sorted result. Limit 0 means no limit.
type Page struct {
	Skip   int64
	Limit  int64
	SortBy string
	Desc   bool
	// Fields limits the returned document to these fields plus the id. Stores
	// may return more; empty means every field.
	Fields []string
}

// NewestFirst sorts by creation time, most recent first.
func NewestFirst(limit int64) Page {
	return Page{Limit: limit, SortBy: "createdAt", Desc: true}
}

type ProductFilter struct {
	// Text is a full text search over name and description.
	Text string
	// Name is a case-insensitive substring match on the name only.
	Name     string
	Category models.Category
	MinPrice *float64
	MaxPrice *float64
}

type OrderFilter struct {
	Status   models.OrderStatus
	Statuses []models.OrderStatus
	// Search matches customer name or phone, case-insensitive.
	Search      string
	UserID      *primitive.ObjectID
	CreatedFrom *time.Time
}

type UserFilter struct {
	Role models.Role
	// Search matches name, email or phone, case-insensitive.
	Search string
}

// ProductPatch carries the fields of a product update; nil fields are left unchanged.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *models.Category
	Images      *models.StringList
	Stock       *int
	UpdatedAt   time.Time
}

type CatalogStore interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	List(ctx context.Context, filter ProductFilter, page Page) ([]models.Product, error)
	Count(ctx context.Context, filter ProductFilter) (int64, error)
	Insert(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, patch ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter, page Page) ([]models.Order, error)
	Count(ctx context.Context, filter OrderFilter) (int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, at time.Time) (*models.Order, error)
}

type CartStore interface {
	// Get returns ErrNotFound when the user has no cart yet.
	Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	// Save inserts or replaces the cart of cart.UserID.
	Save(ctx context.Context, cart *models.Cart) error
	// Clear empties the user's cart. It is not an error if no cart exists.
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

type UserStore interface {
	// Insert returns ErrDuplicate when the email is already registered.
	Insert(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter UserFilter, page Page) ([]models.User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
}

// Stores bundles the handles a running server owns.
type Stores struct {
	Products CatalogStore
	Orders   OrderStore
	Carts    CartStore
	Users    UserStore
}

// UniqueIDs returns ids without duplicates, preserving first-seen order.
func UniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
