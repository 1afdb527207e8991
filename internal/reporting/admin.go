package reporting

import (
	"context"
	"fmt"
	"strings"

	"phoneshop/internal/apperr"
	"phoneshop/internal/models"
	"phoneshop/internal/orders"
	"phoneshop/internal/store"
)

type ProductQuery struct {
	PageQuery
	Search   string
	Category models.Category
}

type OrderQuery struct {
	PageQuery
	Status models.OrderStatus
	Search string
}

type ProductPage struct {
	Products []models.Product `json:"products"`
	pageInfo
}

type OrderPage struct {
	Orders []models.OrderView `json:"orders"`
	pageInfo
}

var (
	productSortFields = []string{"createdAt", "updatedAt", "name", "price", "stock"}
	orderSortFields   = []string{"createdAt", "updatedAt", "totalPrice", "status", "customerName"}
)

type resolvedPage struct {
	number int
	limit  int
	store  store.Page
}

func resolvePage(q PageQuery, sortFields []string) (resolvedPage, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = DefaultAdminLimit
	}
	if q.SortBy == "" {
		q.SortBy = "createdAt"
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}

	var details []string
	if q.Page < 1 {
		details = append(details, "page must be at least 1")
	}
	if q.Limit < 1 || q.Limit > MaxAdminLimit {
		details = append(details, fmt.Sprintf("limit must be between 1 and %d", MaxAdminLimit))
	}
	known := false
	for _, field := range sortFields {
		if field == q.SortBy {
			known = true
			break
		}
	}
	if !known {
		details = append(details, "sortBy must be one of "+strings.Join(sortFields, ", "))
	}
	if len(details) > 0 {
		return resolvedPage{}, apperr.Validation("validation failed", details...)
	}

	return resolvedPage{
		number: q.Page,
		limit:  q.Limit,
		store: store.Page{
			Skip:   int64((q.Page - 1) * q.Limit),
			Limit:  int64(q.Limit),
			SortBy: q.SortBy,
			Desc:   q.SortOrder == "desc",
		},
	}, nil
}

// Products is the admin catalog listing. Search matches the product name.
func (s *Service) Products(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	page, err := resolvePage(q.PageQuery, productSortFields)
	if err != nil {
		return nil, err
	}
	if q.Category != "" && !q.Category.Valid() {
		return nil, apperr.Validation("validation failed", "category must be one of case, earphone, charger, glass")
	}

	filter := store.ProductFilter{Name: strings.TrimSpace(q.Search), Category: q.Category}
	list, err := s.stores.Products.List(ctx, filter, page.store)
	if err != nil {
		return nil, apperr.Store("list products", err)
	}
	total, err := s.stores.Products.Count(ctx, filter)
	if err != nil {
		return nil, apperr.Store("count products", err)
	}
	return &ProductPage{Products: list, pageInfo: newPageInfo(total, page.number, page.limit)}, nil
}

// Orders is the admin order listing with the owning users joined in.
// Search matches customer name or phone.
func (s *Service) Orders(ctx context.Context, q OrderQuery) (*OrderPage, error) {
	page, err := resolvePage(q.PageQuery, orderSortFields)
	if err != nil {
		return nil, err
	}
	if q.Status != "" && !q.Status.Valid() {
		return nil, apperr.Validation("validation failed", "status must be one of pending, processing, shipped, completed, cancelled")
	}

	filter := store.OrderFilter{Status: q.Status, Search: strings.TrimSpace(q.Search)}
	list, err := s.stores.Orders.List(ctx, filter, page.store)
	if err != nil {
		return nil, apperr.Store("list orders", err)
	}
	total, err := s.stores.Orders.Count(ctx, filter)
	if err != nil {
		return nil, apperr.Store("count orders", err)
	}
	views, err := orders.ResolveViews(ctx, s.stores.Products, s.stores.Users, list)
	if err != nil {
		return nil, err
	}
	return &OrderPage{Orders: views, pageInfo: newPageInfo(total, page.number, page.limit)}, nil
}
