package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"phoneshop/internal/apperr"
	"phoneshop/internal/events"
	"phoneshop/internal/models"
	"phoneshop/internal/store"
	"phoneshop/internal/store/memory"
)

type mockCartStore struct {
	mock.Mock
}

func (m *mockCartStore) Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	args := m.Called(ctx, userID)
	if cart, ok := args.Get(0).(*models.Cart); ok {
		return cart, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCartStore) Save(ctx context.Context, cart *models.Cart) error {
	return m.Called(ctx, cart).Error(0)
}

func (m *mockCartStore) Clear(ctx context.Context, userID primitive.ObjectID) error {
	return m.Called(ctx, userID).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event events.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockPublisher) Close() error {
	return m.Called().Error(0)
}

var fixedNow = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) (store.Stores, *Service) {
	t.Helper()
	stores := memory.New().Stores()
	return stores, NewService(stores, nil, zap.NewNop(), WithClock(func() time.Time { return fixedNow }))
}

func seedProduct(t *testing.T, stores store.Stores, name string, price float64, images ...string) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: price, Category: models.CategoryCase, Images: images, Stock: models.DefaultStock}
	require.NoError(t, stores.Products.Insert(context.Background(), &p))
	return p
}

func guestRequest(items ...LineRequest) PlaceRequest {
	return PlaceRequest{
		Items:         items,
		Customer:      Customer{Name: "A", Phone: "1", Address: "X"},
		PaymentMethod: models.PaymentMethodCOD,
	}
}

func TestPlaceSnapshotsProductAndComputesTotal(t *testing.T) {
	stores, svc := newFixture(t)
	p1 := seedProduct(t, stores, "Case", 100, "/uploads/case.png", "/uploads/case-2.png")

	order, err := svc.Place(context.Background(), guestRequest(LineRequest{ProductID: p1.ID, Quantity: 2}))
	require.NoError(t, err)

	assert.False(t, order.ID.IsZero())
	assert.Equal(t, 200.0, order.TotalPrice)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, fixedNow, order.CreatedAt)
	assert.Nil(t, order.UserID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, models.OrderItem{ProductID: p1.ID, Name: "Case", Price: 100, Quantity: 2, Image: "/uploads/case.png"}, order.Items[0])
}

func TestPlaceTotalIsExactAcrossLines(t *testing.T) {
	stores, svc := newFixture(t)
	a := seedProduct(t, stores, "Glass", 0.1)
	b := seedProduct(t, stores, "Cable", 0.2)

	order, err := svc.Place(context.Background(), guestRequest(
		LineRequest{ProductID: a.ID, Quantity: 3},
		LineRequest{ProductID: b.ID, Quantity: 1},
		LineRequest{ProductID: a.ID, Quantity: 1},
	))
	require.NoError(t, err)

	assert.Equal(t, 0.6, order.TotalPrice)
	assert.Len(t, order.Items, 3)
	assert.Equal(t, "", order.Items[0].Image)
}

func TestPlaceTotalUnaffectedByLaterPriceChange(t *testing.T) {
	ctx := context.Background()
	stores, svc := newFixture(t)
	p := seedProduct(t, stores, "Charger", 40)

	order, err := svc.Place(ctx, guestRequest(LineRequest{ProductID: p.ID, Quantity: 3}))
	require.NoError(t, err)

	price := 999.0
	_, err = stores.Products.Update(ctx, p.ID, store.ProductPatch{Price: &price})
	require.NoError(t, err)

	stored, err := stores.Orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 120.0, stored.TotalPrice)
	assert.Equal(t, 40.0, stored.Items[0].Price)
}

func TestPlaceUnknownProductWritesNothing(t *testing.T) {
	ctx := context.Background()
	stores, svc := newFixture(t)
	p := seedProduct(t, stores, "Case", 10)
	missing := primitive.NewObjectID()

	_, err := svc.Place(ctx, guestRequest(
		LineRequest{ProductID: p.ID, Quantity: 1},
		LineRequest{ProductID: missing, Quantity: 1},
	))
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindInvalidReference, appErr.Kind)
	assert.Equal(t, []string{missing.Hex()}, appErr.Details)

	count, err := stores.Orders.Count(ctx, store.OrderFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPlaceValidation(t *testing.T) {
	stores, svc := newFixture(t)
	p := seedProduct(t, stores, "Case", 10)

	cases := map[string]PlaceRequest{
		"no items":       guestRequest(),
		"zero quantity":  guestRequest(LineRequest{ProductID: p.ID, Quantity: 0}),
		"blank customer": {Items: []LineRequest{{ProductID: p.ID, Quantity: 1}}, Customer: Customer{Name: " "}, PaymentMethod: "COD"},
		"card payment": func() PlaceRequest {
			req := guestRequest(LineRequest{ProductID: p.ID, Quantity: 1})
			req.PaymentMethod = "CARD"
			return req
		}(),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Place(context.Background(), req)
			assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
		})
	}
}

func TestPlaceAuthenticatedClearsCart(t *testing.T) {
	ctx := context.Background()
	stores, svc := newFixture(t)
	p := seedProduct(t, stores, "Earbuds", 25)
	userID := primitive.NewObjectID()
	require.NoError(t, stores.Carts.Save(ctx, &models.Cart{UserID: userID, Items: []models.CartItem{{ProductID: p.ID, Quantity: 2}}}))

	req := guestRequest(LineRequest{ProductID: p.ID, Quantity: 2})
	req.UserID = &userID
	order, err := svc.Place(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, order.UserID)
	assert.Equal(t, userID, *order.UserID)

	cart, err := stores.Carts.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestPlaceSucceedsWhenCartClearFails(t *testing.T) {
	ctx := context.Background()
	stores := memory.New().Stores()
	p := seedProduct(t, stores, "Case", 15)
	userID := primitive.NewObjectID()

	carts := new(mockCartStore)
	carts.On("Clear", mock.Anything, userID).Return(errors.New("connection reset")).Once()
	publisher := new(mockPublisher)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.OrderEvent) bool {
		return e.Type == events.TypeOrderCreated && e.UserID == userID.Hex() && e.ItemCount == 1
	})).Return(errors.New("broker down")).Once()

	stores.Carts = carts
	svc := NewService(stores, publisher, zap.NewNop())

	req := guestRequest(LineRequest{ProductID: p.ID, Quantity: 1})
	req.UserID = &userID
	order, err := svc.Place(ctx, req)
	require.NoError(t, err)

	stored, err := stores.Orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 15.0, stored.TotalPrice)
	carts.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestGetResolvesDeletedProductsAsNil(t *testing.T) {
	ctx := context.Background()
	stores, svc := newFixture(t)
	kept := seedProduct(t, stores, "Case", 10)
	gone := seedProduct(t, stores, "Glass", 5)

	order, err := svc.Place(ctx, guestRequest(
		LineRequest{ProductID: kept.ID, Quantity: 1},
		LineRequest{ProductID: gone.ID, Quantity: 2},
	))
	require.NoError(t, err)
	require.NoError(t, stores.Products.Delete(ctx, gone.ID))

	view, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	require.NotNil(t, view.Items[0].ProductDetails)
	assert.Equal(t, "Case", view.Items[0].ProductDetails.Name)
	assert.Nil(t, view.Items[1].ProductDetails)
	assert.Equal(t, "Glass", view.Items[1].Name)

	_, err = svc.Get(ctx, primitive.NewObjectID())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestListAndListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	stores := memory.New().Stores()
	p := seedProduct(t, stores, "Case", 10)
	userID := primitive.NewObjectID()

	clock := fixedNow
	svc := NewService(stores, nil, zap.NewNop(), WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))

	first, err := svc.Place(ctx, guestRequest(LineRequest{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)
	req := guestRequest(LineRequest{ProductID: p.ID, Quantity: 2})
	req.UserID = &userID
	second, err := svc.Place(ctx, req)
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)

	mine, err := svc.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, second.ID, mine[0].ID)
}

func TestUpdateStatusPermissiveByDefault(t *testing.T) {
	ctx := context.Background()
	stores, svc := newFixture(t)
	p := seedProduct(t, stores, "Case", 10)
	order, err := svc.Place(ctx, guestRequest(LineRequest{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, order.ID, models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	updated, err = svc.UpdateStatus(ctx, order.ID, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status)

	_, err = svc.UpdateStatus(ctx, order.ID, "lost")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.UpdateStatus(ctx, primitive.NewObjectID(), models.StatusShipped)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdateStatusEnforcedTransitions(t *testing.T) {
	ctx := context.Background()
	stores := memory.New().Stores()
	p := seedProduct(t, stores, "Case", 10)
	svc := NewService(stores, nil, zap.NewNop(), WithEnforcedTransitions(true))

	order, err := svc.Place(ctx, guestRequest(LineRequest{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, order.ID, models.StatusShipped)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	for _, next := range []models.OrderStatus{models.StatusProcessing, models.StatusProcessing, models.StatusShipped, models.StatusCompleted} {
		_, err = svc.UpdateStatus(ctx, order.ID, next)
		require.NoError(t, err, next)
	}

	_, err = svc.UpdateStatus(ctx, order.ID, models.StatusPending)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.UpdateStatus(ctx, primitive.NewObjectID(), models.StatusProcessing)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
