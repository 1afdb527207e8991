package catalog

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
	"phoneshop/internal/store/memory"
)

func ptr[T any](v T) *T { return &v }

func newService() *Service {
	return NewService(memory.New().Stores().Products, zap.NewNop())
}

func TestCreateDefaults(t *testing.T) {
	product, err := newService().Create(context.Background(), ProductInput{
		Name:     " Silicone Case ",
		Price:    ptr(9.5),
		Category: models.CategoryCase,
	})
	require.NoError(t, err)

	assert.Equal(t, "Silicone Case", product.Name)
	assert.Equal(t, models.DefaultStock, product.Stock)
	assert.NotNil(t, product.Images)
	assert.Empty(t, product.Images)
}

func TestCreateImagePrecedence(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	uploaded, err := svc.Create(ctx, ProductInput{
		Name: "A", Price: ptr(1.0), Category: models.CategoryGlass,
		ImageURL: "https://cdn.example.com/a.png",
		Uploaded: []string{"/uploads/1.png", "/uploads/2.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"/uploads/1.png", "/uploads/2.png"}, uploaded.Images)

	linked, err := svc.Create(ctx, ProductInput{
		Name: "B", Price: ptr(1.0), Category: models.CategoryGlass,
		ImageURL: "https://cdn.example.com/b.png",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"https://cdn.example.com/b.png"}, linked.Images)
}

func TestCreateValidation(t *testing.T) {
	_, err := newService().Create(context.Background(), ProductInput{Price: ptr(-1.0), Category: "phone", Stock: ptr(-2)})

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Len(t, appErr.Details, 4)
}

func TestUpdateKeepsImagesWithoutNewOnes(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	created, err := svc.Create(ctx, ProductInput{
		Name: "Cable", Price: ptr(5.0), Category: models.CategoryCharger,
		Uploaded: []string{"/uploads/cable.png"},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, ProductInput{Name: "Cable 2m", Price: ptr(7.0), Category: models.CategoryCharger})
	require.NoError(t, err)
	assert.Equal(t, "Cable 2m", updated.Name)
	assert.Equal(t, 7.0, updated.Price)
	assert.Equal(t, models.StringList{"/uploads/cable.png"}, updated.Images)
	assert.Equal(t, models.DefaultStock, updated.Stock)

	updated, err = svc.Update(ctx, created.ID, ProductInput{Name: "Cable 2m", Price: ptr(7.0), Category: models.CategoryCharger, ImageURL: "/img/x.webp"})
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"/img/x.webp"}, updated.Images)

	_, err = svc.Update(ctx, primitive.NewObjectID(), ProductInput{Name: "x", Price: ptr(1.0), Category: models.CategoryCase})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteAndGet(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	created, err := svc.Create(ctx, ProductInput{Name: "Buds", Price: ptr(20.0), Category: models.CategoryEarphone})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buds", got.Name)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.True(t, apperr.Is(svc.Delete(ctx, created.ID), apperr.KindNotFound))
}

func TestListFiltersAndPaging(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range []struct {
		name     string
		price    float64
		category models.Category
	}{
		{"Clear Case", 10, models.CategoryCase},
		{"Leather Case", 30, models.CategoryCase},
		{"Fast Charger", 25, models.CategoryCharger},
		{"Tempered Glass", 8, models.CategoryGlass},
	} {
		at := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		_, err := svc.Create(ctx, ProductInput{Name: p.name, Price: ptr(p.price), Category: p.category})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.Total)
	assert.Equal(t, 1, all.Page)
	assert.Equal(t, DefaultPageLimit, all.Limit)
	assert.Equal(t, "Tempered Glass", all.Items[0].Name)

	cases, err := svc.List(ctx, ListQuery{Category: models.CategoryCase, MaxPrice: ptr(20.0)})
	require.NoError(t, err)
	require.Len(t, cases.Items, 1)
	assert.Equal(t, "Clear Case", cases.Items[0].Name)

	search, err := svc.List(ctx, ListQuery{Q: "case"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), search.Total)

	second, err := svc.List(ctx, ListQuery{Page: 2, Limit: 3})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "Clear Case", second.Items[0].Name)
	assert.Equal(t, int64(4), second.Total)
}

func TestListRejectsBadQuery(t *testing.T) {
	svc := newService()
	for _, q := range []ListQuery{
		{Page: -1},
		{Limit: 101},
		{Category: "phone"},
		{MinPrice: ptr(-5.0)},
	} {
		_, err := svc.List(context.Background(), q)
		assert.True(t, apperr.Is(err, apperr.KindValidation), "%+v", q)
	}
}
