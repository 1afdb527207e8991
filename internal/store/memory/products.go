package memory

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"phoneshop/internal/models"
	"phoneshop/internal/store"
)

type ProductStore struct {
	db *DB
}

func cloneProduct(p models.Product) models.Product {
	if p.Images != nil {
		p.Images = append(models.StringList{}, p.Images...)
	}
	return p
}

func matchProduct(p models.Product, f store.ProductFilter) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.Name != "" && !containsFold(p.Name, f.Name) {
		return false
	}
	if f.Text != "" {
		matched := false
		for _, term := range strings.Fields(f.Text) {
			if containsFold(p.Name, term) || containsFold(p.Description, term) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func productLess(field string) func(a, b models.Product) bool {
	switch field {
	case "name":
		return func(a, b models.Product) bool { return a.Name < b.Name }
	case "price":
		return func(a, b models.Product) bool { return a.Price < b.Price }
	case "stock":
		return func(a, b models.Product) bool { return a.Stock < b.Stock }
	case "updatedAt":
		return func(a, b models.Product) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	default:
		return func(a, b models.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}

func (s *ProductStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	wanted := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make([]models.Product, 0, len(ids))
	for _, p := range s.db.products {
		if _, ok := wanted[p.ID]; ok {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

func (s *ProductStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, p := range s.db.products {
		if p.ID == id {
			found := cloneProduct(p)
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *ProductStore) List(_ context.Context, filter store.ProductFilter, page store.Page) ([]models.Product, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	matched := make([]models.Product, 0)
	for _, p := range s.db.products {
		if matchProduct(p, filter) {
			matched = append(matched, cloneProduct(p))
		}
	}
	sortDocs(matched, page.Desc, productLess(page.SortBy))
	start, end := window(len(matched), page)
	return matched[start:end], nil
}

func (s *ProductStore) Count(_ context.Context, filter store.ProductFilter) (int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var n int64
	for _, p := range s.db.products {
		if matchProduct(p, filter) {
			n++
		}
	}
	return n, nil
}

func (s *ProductStore) Insert(_ context.Context, product *models.Product) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = s.db.now()
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = product.CreatedAt
	}
	s.db.products = append(s.db.products, cloneProduct(*product))
	return nil
}

func (s *ProductStore) Update(_ context.Context, id primitive.ObjectID, patch store.ProductPatch) (*models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for i := range s.db.products {
		p := &s.db.products[i]
		if p.ID != id {
			continue
		}
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.Category != nil {
			p.Category = *patch.Category
		}
		if patch.Images != nil {
			p.Images = append(models.StringList{}, (*patch.Images)...)
		}
		if patch.Stock != nil {
			p.Stock = *patch.Stock
		}
		if !patch.UpdatedAt.IsZero() {
			p.UpdatedAt = patch.UpdatedAt
		}
		updated := cloneProduct(*p)
		return &updated, nil
	}
	return nil, store.ErrNotFound
}

func (s *ProductStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for i, p := range s.db.products {
		if p.ID == id {
			s.db.products = append(s.db.products[:i], s.db.products[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}
