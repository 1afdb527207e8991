package orders

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"phoneshop/internal/apperr"
	"phoneshop/internal/models"
	"phoneshop/internal/store"
)

// ResolveViews joins orders with the current catalog and, when users is not
// nil, with their owning users. Lines whose product no longer exists keep a nil
// ProductDetails; the embedded snapshot stays authoritative.
func ResolveViews(ctx context.Context, products store.CatalogStore, users store.UserStore, list []models.Order) ([]models.OrderView, error) {
	var productIDs, userIDs []primitive.ObjectID
	for _, order := range list {
		for _, item := range order.Items {
			productIDs = append(productIDs, item.ProductID)
		}
		if order.UserID != nil {
			userIDs = append(userIDs, *order.UserID)
		}
	}

	productsByID := make(map[primitive.ObjectID]*models.ProductSummary)
	if len(productIDs) > 0 {
		found, err := products.FindByIDs(ctx, store.UniqueIDs(productIDs))
		if err != nil {
			return nil, apperr.Store("resolve order products", err)
		}
		for _, p := range found {
			productsByID[p.ID] = p.Summary()
		}
	}

	usersByID := make(map[primitive.ObjectID]*models.UserSummary)
	if users != nil && len(userIDs) > 0 {
		found, err := users.FindByIDs(ctx, store.UniqueIDs(userIDs))
		if err != nil {
			return nil, apperr.Store("resolve order users", err)
		}
		for _, u := range found {
			usersByID[u.ID] = u.Summary()
		}
	}

	views := make([]models.OrderView, 0, len(list))
	for _, order := range list {
		view := models.OrderView{Order: order, Items: make([]models.OrderItemView, 0, len(order.Items))}
		for _, item := range order.Items {
			view.Items = append(view.Items, models.OrderItemView{OrderItem: item, ProductDetails: productsByID[item.ProductID]})
		}
		if order.UserID != nil {
			view.User = usersByID[*order.UserID]
		}
		views = append(views, view)
	}
	return views, nil
}
