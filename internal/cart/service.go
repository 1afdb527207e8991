// Package cart manages the single shopping cart each user owns.
package cart

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"phoneshop/internal/apperr"
	"phoneshop/internal/models"
	"phoneshop/internal/store"
)

type Service struct {
	carts    store.CartStore
	products store.CatalogStore
	logger   *zap.Logger
}

func NewService(stores store.Stores, logger *zap.Logger) *Service {
	return &Service{carts: stores.Carts, products: stores.Products, logger: logger}
}

func (s *Service) load(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store("load cart", err)
	}
	return cart, nil
}

// Get returns the cart with each line joined to the current product. Lines
// whose product was deleted carry a nil product.
func (s *Service) Get(ctx context.Context, userID primitive.ObjectID) (*models.CartView, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return emptyView(userID), nil
	}
	return s.resolve(ctx, cart)
}

// Upsert sets the quantity of productID, appending a new line when the product
// is not in the cart yet. The cart is created on first use.
func (s *Service) Upsert(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.CartView, error) {
	if quantity < 1 {
		return nil, apperr.Validation("validation failed", "quantity must be at least 1")
	}

	if _, err := s.products.FindByID(ctx, productID); errors.Is(err, store.ErrNotFound) {
		return nil, apperr.InvalidReference("Product not found", productID.Hex())
	} else if err != nil {
		return nil, apperr.Store("find product", err)
	}

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	}

	replaced := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			replaced = true
			break
		}
	}
	if !replaced {
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: quantity})
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, apperr.Store("save cart", err)
	}
	return s.resolve(ctx, cart)
}

// Remove drops productID from the cart. Removing a product that is not in the
// cart, or removing from a cart that does not exist, is not an error.
func (s *Service) Remove(ctx context.Context, userID, productID primitive.ObjectID) (*models.CartView, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return emptyView(userID), nil
	}

	kept := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	if len(kept) != len(cart.Items) {
		cart.Items = kept
		if err := s.carts.Save(ctx, cart); err != nil {
			return nil, apperr.Store("save cart", err)
		}
	}
	return s.resolve(ctx, cart)
}

func (s *Service) Clear(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.carts.Clear(ctx, userID); err != nil {
		return apperr.Store("clear cart", err)
	}
	return nil
}

func emptyView(userID primitive.ObjectID) *models.CartView {
	return &models.CartView{UserID: userID, Items: []models.CartItemView{}}
}

func (s *Service) resolve(ctx context.Context, cart *models.Cart) (*models.CartView, error) {
	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}

	byID := make(map[primitive.ObjectID]models.Product, len(ids))
	if len(ids) > 0 {
		found, err := s.products.FindByIDs(ctx, store.UniqueIDs(ids))
		if err != nil {
			return nil, apperr.Store("resolve cart products", err)
		}
		for _, p := range found {
			byID[p.ID] = p
		}
	}

	view := &models.CartView{UserID: cart.UserID, Items: make([]models.CartItemView, 0, len(cart.Items))}
	for _, item := range cart.Items {
		line := models.CartItemView{ProductID: item.ProductID, Quantity: item.Quantity}
		if p, ok := byID[item.ProductID]; ok {
			line.Product = &p
		}
		view.Items = append(view.Items, line)
	}
	return view, nil
}
