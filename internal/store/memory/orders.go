package memory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"phoneshop/internal/models"
	"phoneshop/internal/store"
)

type OrderStore struct {
	db *DB
}

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	if o.UserID != nil {
		userID := *o.UserID
		o.UserID = &userID
	}
	return o
}

func matchOrder(o models.Order, f store.OrderFilter) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if len(f.Statuses) > 0 {
		matched := false
		for _, s := range f.Statuses {
			if o.Status == s {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if f.UserID != nil && (o.UserID == nil || *o.UserID != *f.UserID) {
		return false
	}
	if f.CreatedFrom != nil && o.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.Search != "" && !containsFold(o.CustomerName, f.Search) && !containsFold(o.CustomerPhone, f.Search) {
		return false
	}
	return true
}

func orderLess(field string) func(a, b models.Order) bool {
	switch field {
	case "totalPrice":
		return func(a, b models.Order) bool { return a.TotalPrice < b.TotalPrice }
	case "status":
		return func(a, b models.Order) bool { return a.Status < b.Status }
	case "customerName":
		return func(a, b models.Order) bool { return a.CustomerName < b.CustomerName }
	case "updatedAt":
		return func(a, b models.Order) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	default:
		return func(a, b models.Order) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}

func (s *OrderStore) Insert(_ context.Context, order *models.Order) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.db.now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}
	s.db.orders = append(s.db.orders, cloneOrder(*order))
	return nil
}

func (s *OrderStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, o := range s.db.orders {
		if o.ID == id {
			found := cloneOrder(o)
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *OrderStore) List(_ context.Context, filter store.OrderFilter, page store.Page) ([]models.Order, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	matched := make([]models.Order, 0)
	for _, o := range s.db.orders {
		if matchOrder(o, filter) {
			matched = append(matched, cloneOrder(o))
		}
	}
	sortDocs(matched, page.Desc, orderLess(page.SortBy))
	start, end := window(len(matched), page)
	return matched[start:end], nil
}

func (s *OrderStore) Count(_ context.Context, filter store.OrderFilter) (int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var n int64
	for _, o := range s.db.orders {
		if matchOrder(o, filter) {
			n++
		}
	}
	return n, nil
}

func (s *OrderStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus, at time.Time) (*models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for i := range s.db.orders {
		if s.db.orders[i].ID != id {
			continue
		}
		s.db.orders[i].Status = status
		s.db.orders[i].UpdatedAt = at
		updated := cloneOrder(s.db.orders[i])
		return &updated, nil
	}
	return nil, store.ErrNotFound
}
