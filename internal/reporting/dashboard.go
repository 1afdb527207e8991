package reporting

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"phoneshop/internal/apperr"
	"phoneshop/internal/models"
	"phoneshop/internal/orders"
	"phoneshop/internal/store"
)

type Stats struct {
	TotalProducts int64 `json:"totalProducts"`
	TotalOrders   int64 `json:"totalOrders"`
	TotalUsers    int64 `json:"totalUsers"`
	// TotalRevenue covers the recent orders only, not every order ever placed.
	TotalRevenue float64 `json:"totalRevenue"`
}

type MonthlyRevenue struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"`
}

type TopProduct struct {
	Product       models.Product `json:"product"`
	TotalQuantity int            `json:"totalQuantity"`
	TotalRevenue  float64        `json:"totalRevenue"`
}

type Dashboard struct {
	Stats          Stats              `json:"stats"`
	RecentOrders   []models.OrderView `json:"recentOrders"`
	MonthlyRevenue []MonthlyRevenue   `json:"monthlyRevenue"`
	TopProducts    []TopProduct       `json:"topProducts"`
}

// Dashboard runs the independent dashboard queries concurrently.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		dash   Dashboard
		recent []models.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.stores.Products.Count(gctx, store.ProductFilter{})
		if err != nil {
			return apperr.Store("count products", err)
		}
		dash.Stats.TotalProducts = n
		return nil
	})
	g.Go(func() error {
		n, err := s.stores.Orders.Count(gctx, store.OrderFilter{})
		if err != nil {
			return apperr.Store("count orders", err)
		}
		dash.Stats.TotalOrders = n
		return nil
	})
	g.Go(func() error {
		n, err := s.stores.Users.Count(gctx, store.UserFilter{Role: models.RoleCustomer})
		if err != nil {
			return apperr.Store("count customers", err)
		}
		dash.Stats.TotalUsers = n
		return nil
	})
	g.Go(func() error {
		list, err := s.stores.Orders.List(gctx, store.OrderFilter{}, store.NewestFirst(RecentOrderCount))
		if err != nil {
			return apperr.Store("list recent orders", err)
		}
		recent = list
		return nil
	})
	g.Go(func() error {
		monthly, err := s.MonthlyRevenue(gctx)
		dash.MonthlyRevenue = monthly
		return err
	})
	g.Go(func() error {
		top, err := s.TopProducts(gctx, TopProductCount)
		dash.TopProducts = top
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("dashboard query failed", zap.Error(err))
		return nil, err
	}

	revenue := decimal.Zero
	for _, order := range recent {
		revenue = revenue.Add(decimal.NewFromFloat(order.TotalPrice))
	}
	dash.Stats.TotalRevenue = revenue.InexactFloat64()

	views, err := orders.ResolveViews(ctx, s.stores.Products, s.stores.Users, recent)
	if err != nil {
		return nil, err
	}
	dash.RecentOrders = views
	return &dash, nil
}

// MonthlyRevenue groups completed and shipped orders of the trailing six months
// by UTC calendar month, oldest month first.
func (s *Service) MonthlyRevenue(ctx context.Context) ([]MonthlyRevenue, error) {
	from := s.now().AddDate(0, -RevenueWindow, 0)
	list, err := s.stores.Orders.List(ctx, store.OrderFilter{
		Statuses:    models.RevenueStatuses,
		CreatedFrom: &from,
	}, store.Page{})
	if err != nil {
		return nil, apperr.Store("list revenue orders", err)
	}

	type bucket struct {
		year, month int
		revenue     decimal.Decimal
		count       int
	}
	buckets := make(map[int]*bucket)
	for _, order := range list {
		at := order.CreatedAt.UTC()
		key := at.Year()*100 + int(at.Month())
		b, ok := buckets[key]
		if !ok {
			b = &bucket{year: at.Year(), month: int(at.Month()), revenue: decimal.Zero}
			buckets[key] = b
		}
		b.revenue = b.revenue.Add(decimal.NewFromFloat(order.TotalPrice))
		b.count++
	}

	keys := make([]int, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Ints(keys)

	out := make([]MonthlyRevenue, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		out = append(out, MonthlyRevenue{Year: b.year, Month: b.month, Revenue: b.revenue.InexactFloat64(), Count: b.count})
	}
	return out, nil
}

// TopProducts ranks products by the quantity sold over every order line.
// Products no longer in the catalog are left out. Only the order lines are
// loaded, but the scan still grows with the order history.
func (s *Service) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	list, err := s.stores.Orders.List(ctx, store.OrderFilter{}, store.Page{Fields: []string{"items"}})
	if err != nil {
		return nil, apperr.Store("list orders", err)
	}

	type tally struct {
		quantity int
		revenue  decimal.Decimal
	}
	tallies := make(map[primitive.ObjectID]*tally)
	ids := make([]primitive.ObjectID, 0)
	for _, order := range list {
		for _, item := range order.Items {
			t, ok := tallies[item.ProductID]
			if !ok {
				t = &tally{revenue: decimal.Zero}
				tallies[item.ProductID] = t
				ids = append(ids, item.ProductID)
			}
			t.quantity += item.Quantity
			t.revenue = t.revenue.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}
	if len(ids) == 0 {
		return []TopProduct{}, nil
	}

	products, err := s.stores.Products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Store("resolve top products", err)
	}

	out := make([]TopProduct, 0, len(products))
	for _, p := range products {
		t := tallies[p.ID]
		out = append(out, TopProduct{Product: p, TotalQuantity: t.quantity, TotalRevenue: t.revenue.InexactFloat64()})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalQuantity != out[j].TotalQuantity {
			return out[i].TotalQuantity > out[j].TotalQuantity
		}
		return out[i].Product.ID.Hex() < out[j].Product.ID.Hex()
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
