package reporting

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"phoneshop/internal/apperr"
	"phoneshop/internal/models"
	"phoneshop/internal/orders"
	"phoneshop/internal/store"
)

type CustomerQuery struct {
	PageQuery
	Search string
}

// CustomerSummary is a customer with order figures. TotalSpent counts only
// completed and shipped orders.
type CustomerSummary struct {
	models.User
	OrderCount int64   `json:"orderCount"`
	TotalSpent float64 `json:"totalSpent"`
}

type CustomerPage struct {
	Customers []CustomerSummary `json:"customers"`
	pageInfo
}

// CustomerStats covers every order of the customer whatever its status.
type CustomerStats struct {
	TotalOrders   int     `json:"totalOrders"`
	TotalSpent    float64 `json:"totalSpent"`
	AvgOrderValue float64 `json:"avgOrderValue"`
}

type CustomerDetail struct {
	Customer models.User        `json:"customer"`
	Orders   []models.OrderView `json:"orders"`
	Stats    CustomerStats      `json:"stats"`
}

var customerSortFields = []string{"createdAt", "name", "email"}

// Customers lists customers with their order count and spend. The per customer
// figures are computed concurrently with a bounded fan-out.
func (s *Service) Customers(ctx context.Context, q CustomerQuery) (*CustomerPage, error) {
	page, err := resolvePage(q.PageQuery, customerSortFields)
	if err != nil {
		return nil, err
	}
	filter := store.UserFilter{Role: models.RoleCustomer, Search: strings.TrimSpace(q.Search)}

	users, err := s.stores.Users.List(ctx, filter, page.store)
	if err != nil {
		return nil, apperr.Store("list customers", err)
	}
	total, err := s.stores.Users.Count(ctx, filter)
	if err != nil {
		return nil, apperr.Store("count customers", err)
	}

	summaries := make([]CustomerSummary, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(customerFanOut)
	for i, user := range users {
		g.Go(func() error {
			userID := user.ID
			count, err := s.stores.Orders.Count(gctx, store.OrderFilter{UserID: &userID})
			if err != nil {
				return apperr.Store("count customer orders", err)
			}
			earned, err := s.stores.Orders.List(gctx, store.OrderFilter{UserID: &userID, Statuses: models.RevenueStatuses}, store.Page{})
			if err != nil {
				return apperr.Store("list customer revenue orders", err)
			}
			summaries[i] = CustomerSummary{User: user, OrderCount: count, TotalSpent: sumTotals(earned)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &CustomerPage{Customers: summaries, pageInfo: newPageInfo(total, page.number, page.limit)}, nil
}

// Customer returns one user with every order, newest first, and spend figures
// over all statuses.
func (s *Service) Customer(ctx context.Context, id primitive.ObjectID) (*CustomerDetail, error) {
	user, err := s.stores.Users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Customer not found")
	}
	if err != nil {
		return nil, apperr.Store("find customer", err)
	}

	list, err := s.stores.Orders.List(ctx, store.OrderFilter{UserID: &id}, store.NewestFirst(0))
	if err != nil {
		return nil, apperr.Store("list customer orders", err)
	}
	views, err := orders.ResolveViews(ctx, s.stores.Products, nil, list)
	if err != nil {
		return nil, err
	}

	stats := CustomerStats{TotalOrders: len(list), TotalSpent: sumTotals(list)}
	if len(list) > 0 {
		avg := decimal.NewFromFloat(stats.TotalSpent).Div(decimal.NewFromInt(int64(len(list))))
		stats.AvgOrderValue = avg.InexactFloat64()
	}
	return &CustomerDetail{Customer: *user, Orders: views, Stats: stats}, nil
}

func sumTotals(list []models.Order) float64 {
	total := decimal.Zero
	for _, order := range list {
		total = total.Add(decimal.NewFromFloat(order.TotalPrice))
	}
	return total.InexactFloat64()
}
