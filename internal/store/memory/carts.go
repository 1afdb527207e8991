package memory

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"phoneshop/internal/models"
	"phoneshop/internal/store"
)

type CartStore struct {
	db *DB
}

func cloneCart(c models.Cart) models.Cart {
	c.Items = append([]models.CartItem{}, c.Items...)
	return c
}

func (s *CartStore) Get(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	cart, ok := s.db.carts[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	found := cloneCart(cart)
	return &found, nil
}

func (s *CartStore) Save(_ context.Context, cart *models.Cart) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := s.db.now()
	if existing, ok := s.db.carts[cart.UserID]; ok {
		cart.ID = existing.ID
		cart.CreatedAt = existing.CreatedAt
	}
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
	s.db.carts[cart.UserID] = cloneCart(*cart)
	return nil
}

func (s *CartStore) Clear(_ context.Context, userID primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	cart, ok := s.db.carts[userID]
	if !ok {
		return nil
	}
	cart.Items = []models.CartItem{}
	cart.UpdatedAt = s.db.now()
	s.db.carts[userID] = cart
	return nil
}
