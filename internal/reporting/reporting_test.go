package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"phoneshop/internal/apperr"
	"phoneshop/internal/models"
	"phoneshop/internal/store"
	"phoneshop/internal/store/memory"
)

var now = time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	t      *testing.T
	stores store.Stores
	svc    *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stores := memory.New().Stores()
	return &fixture{
		t:      t,
		stores: stores,
		svc:    NewService(stores, zap.NewNop(), WithClock(func() time.Time { return now })),
	}
}

func (f *fixture) product(name string, price float64) models.Product {
	p := models.Product{Name: name, Price: price, Category: models.CategoryCase}
	require.NoError(f.t, f.stores.Products.Insert(context.Background(), &p))
	return p
}

func (f *fixture) customer(name, email string) models.User {
	u := models.User{Name: name, Email: email, Role: models.RoleCustomer}
	require.NoError(f.t, f.stores.Users.Insert(context.Background(), &u))
	return u
}

func (f *fixture) order(user *models.User, status models.OrderStatus, at time.Time, items ...models.OrderItem) models.Order {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	o := models.Order{
		Items:         items,
		TotalPrice:    total,
		CustomerName:  "Buyer",
		CustomerPhone: "0900",
		PaymentMethod: models.PaymentMethodCOD,
		Status:        status,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
	if user != nil {
		o.UserID = &user.ID
	}
	require.NoError(f.t, f.stores.Orders.Insert(context.Background(), &o))
	return o
}

func line(p models.Product, qty int) models.OrderItem {
	return models.OrderItem{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: qty}
}

func TestMonthlyRevenueWindowAndStatuses(t *testing.T) {
	f := newFixture(t)
	p := f.product("Case", 100)

	f.order(nil, models.StatusCompleted, now.AddDate(0, -7, 0), line(p, 1))
	f.order(nil, models.StatusCompleted, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), line(p, 1))
	f.order(nil, models.StatusShipped, time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC), line(p, 2))
	f.order(nil, models.StatusPending, time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC), line(p, 5))
	f.order(nil, models.StatusCancelled, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), line(p, 5))
	f.order(nil, models.StatusCompleted, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), line(p, 1))

	monthly, err := f.svc.MonthlyRevenue(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []MonthlyRevenue{
		{Year: 2026, Month: 3, Revenue: 300, Count: 2},
		{Year: 2026, Month: 7, Revenue: 100, Count: 1},
	}, monthly)
}

func TestTopProductsOrderedByQuantity(t *testing.T) {
	f := newFixture(t)
	p1 := f.product("P1", 10)
	p2 := f.product("P2", 20)
	p3 := f.product("P3", 5)
	gone := f.product("Gone", 1)

	f.order(nil, models.StatusPending, now, line(p1, 4), line(p2, 5))
	f.order(nil, models.StatusCompleted, now, line(p1, 6), line(p3, 20))
	f.order(nil, models.StatusCancelled, now, line(gone, 100))
	require.NoError(t, f.stores.Products.Delete(context.Background(), gone.ID))

	top, err := f.svc.TopProducts(context.Background(), TopProductCount)
	require.NoError(t, err)
	require.Len(t, top, 3)

	assert.Equal(t, p3.ID, top[0].Product.ID)
	assert.Equal(t, 20, top[0].TotalQuantity)
	assert.Equal(t, 100.0, top[0].TotalRevenue)
	assert.Equal(t, p1.ID, top[1].Product.ID)
	assert.Equal(t, 10, top[1].TotalQuantity)
	assert.Equal(t, p2.ID, top[2].Product.ID)
	assert.Equal(t, 100.0, top[2].TotalRevenue)
}

func TestTopProductsTruncates(t *testing.T) {
	f := newFixture(t)
	var items []models.OrderItem
	for i := 1; i <= 7; i++ {
		items = append(items, line(f.product("P", 1), i))
	}
	f.order(nil, models.StatusPending, now, items...)

	top, err := f.svc.TopProducts(context.Background(), TopProductCount)
	require.NoError(t, err)
	require.Len(t, top, 5)
	assert.Equal(t, 7, top[0].TotalQuantity)
	assert.Equal(t, 3, top[4].TotalQuantity)
}

// pageRecorder records the page of every List call and delegates to the wrapped store.
type pageRecorder struct {
	store.OrderStore
	pages []store.Page
}

func (r *pageRecorder) List(ctx context.Context, filter store.OrderFilter, page store.Page) ([]models.Order, error) {
	r.pages = append(r.pages, page)
	return r.OrderStore.List(ctx, filter, page)
}

func TestTopProductsLoadsOrderLinesOnly(t *testing.T) {
	f := newFixture(t)
	f.order(nil, models.StatusPending, now, line(f.product("P", 2), 3))

	recorder := &pageRecorder{OrderStore: f.stores.Orders}
	stores := f.stores
	stores.Orders = recorder
	svc := NewService(stores, zap.NewNop(), WithClock(func() time.Time { return now }))

	top, err := svc.TopProducts(context.Background(), TopProductCount)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 6.0, top[0].TotalRevenue)

	require.Len(t, recorder.pages, 1)
	assert.Equal(t, []string{"items"}, recorder.pages[0].Fields)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	p := f.product("Case", 10)
	f.product("Glass", 3)
	alice := f.customer("Alice", "alice@example.com")
	admin := models.User{Name: "Root", Email: "root@example.com", Role: models.RoleAdmin}
	require.NoError(t, f.stores.Users.Insert(context.Background(), &admin))

	f.order(&alice, models.StatusCompleted, now.Add(-100*time.Hour), line(p, 50))
	for i := 0; i < RecentOrderCount; i++ {
		f.order(nil, models.StatusPending, now.Add(-time.Duration(i)*time.Hour), line(p, 1))
	}
	newest := f.order(&alice, models.StatusShipped, now.Add(time.Minute), line(p, 2))

	dash, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), dash.Stats.TotalProducts)
	assert.Equal(t, int64(12), dash.Stats.TotalOrders)
	assert.Equal(t, int64(1), dash.Stats.TotalUsers)
	assert.Equal(t, 110.0, dash.Stats.TotalRevenue)

	require.Len(t, dash.RecentOrders, RecentOrderCount)
	assert.Equal(t, newest.ID, dash.RecentOrders[0].ID)
	require.NotNil(t, dash.RecentOrders[0].User)
	assert.Equal(t, "Alice", dash.RecentOrders[0].User.Name)
	assert.Nil(t, dash.RecentOrders[1].User)

	require.Len(t, dash.MonthlyRevenue, 1)
	assert.Equal(t, 520.0, dash.MonthlyRevenue[0].Revenue)
	require.Len(t, dash.TopProducts, 1)
	assert.Equal(t, 62, dash.TopProducts[0].TotalQuantity)
}

func TestCustomerListAndDetailSpendDiffer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product("Case", 40)
	bob := f.customer("Bob", "bob@example.com")
	idle := f.customer("Idle", "idle@example.com")

	f.order(&bob, models.StatusCompleted, now.Add(-2*time.Hour), line(p, 1))
	f.order(&bob, models.StatusShipped, now.Add(-time.Hour), line(p, 2))
	pending := f.order(&bob, models.StatusPending, now, line(p, 3))

	page, err := f.svc.Customers(ctx, CustomerQuery{PageQuery: PageQuery{SortBy: "name", SortOrder: "asc"}})
	require.NoError(t, err)
	require.Len(t, page.Customers, 2)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)

	assert.Equal(t, bob.ID, page.Customers[0].ID)
	assert.Equal(t, int64(3), page.Customers[0].OrderCount)
	assert.Equal(t, 120.0, page.Customers[0].TotalSpent)
	assert.Equal(t, idle.ID, page.Customers[1].ID)
	assert.Zero(t, page.Customers[1].OrderCount)
	assert.Zero(t, page.Customers[1].TotalSpent)

	detail, err := f.svc.Customer(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, detail.Stats.TotalOrders)
	assert.Equal(t, 240.0, detail.Stats.TotalSpent)
	assert.Equal(t, 80.0, detail.Stats.AvgOrderValue)
	assert.Equal(t, pending.ID, detail.Orders[0].ID)
	require.NotNil(t, detail.Orders[0].Items[0].ProductDetails)
	assert.Equal(t, "Case", detail.Orders[0].Items[0].ProductDetails.Name)

	empty, err := f.svc.Customer(ctx, idle.ID)
	require.NoError(t, err)
	assert.Equal(t, CustomerStats{}, empty.Stats)
	assert.Empty(t, empty.Orders)

	_, err = f.svc.Customer(ctx, primitive.NewObjectID())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCustomerSearchAndPaging(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"Anna", "Ben", "Cara", "Dan"} {
		f.customer(name, name+"@example.com")
	}

	page, err := f.svc.Customers(context.Background(), CustomerQuery{
		PageQuery: PageQuery{Page: 2, Limit: 3, SortBy: "name", SortOrder: "asc"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Customers, 1)
	assert.Equal(t, "Dan", page.Customers[0].Name)

	found, err := f.svc.Customers(context.Background(), CustomerQuery{Search: "CARA@"})
	require.NoError(t, err)
	require.Len(t, found.Customers, 1)
	assert.Equal(t, "Cara", found.Customers[0].Name)
}

func TestAdminListings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cheap := f.product("Clear Case", 5)
	f.product("Leather Case", 50)
	f.product("Charger", 25)
	carol := f.customer("Carol", "carol@example.com")
	f.order(&carol, models.StatusShipped, now, line(cheap, 1))
	f.order(nil, models.StatusPending, now.Add(-time.Hour), line(cheap, 2))

	products, err := f.svc.Products(ctx, ProductQuery{Search: "case", PageQuery: PageQuery{SortBy: "price"}})
	require.NoError(t, err)
	require.Len(t, products.Products, 2)
	assert.Equal(t, "Leather Case", products.Products[0].Name)
	assert.Equal(t, int64(2), products.Total)

	shipped, err := f.svc.Orders(ctx, OrderQuery{Status: models.StatusShipped})
	require.NoError(t, err)
	require.Len(t, shipped.Orders, 1)
	require.NotNil(t, shipped.Orders[0].User)
	assert.Equal(t, "carol@example.com", shipped.Orders[0].User.Email)

	_, err = f.svc.Orders(ctx, OrderQuery{Status: "lost"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = f.svc.Products(ctx, ProductQuery{PageQuery: PageQuery{SortBy: "$where"}})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = f.svc.Products(ctx, ProductQuery{PageQuery: PageQuery{Limit: 500}})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
