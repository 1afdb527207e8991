// Package catalog maintains the product catalog.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"phoneshop/internal/apperr"
	"phoneshop/internal/models"
	"phoneshop/internal/store"
)

const (
	DefaultPageLimit = 12
	MaxPageLimit     = 100
)

// ProductInput is the body of a create or update. Uploaded holds the public
// paths of files stored for this request; when present it replaces the image
// list, otherwise a non-empty ImageURL does.
type ProductInput struct {
	Name        string
	Description *string
	Price       *float64
	Category    models.Category
	Stock       *int
	ImageURL    string
	Uploaded    []string
}

type ListQuery struct {
	Q        string
	Category models.Category
	MinPrice *float64
	MaxPrice *float64
	Page     int
	Limit    int
}

type ListResult struct {
	Items []models.Product `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type Service struct {
	products store.CatalogStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(products store.CatalogStore, logger *zap.Logger) *Service {
	return &Service{products: products, logger: logger, now: time.Now}
}

// Validate checks a create or update body.
func Validate(in ProductInput) error {
	var details []string
	if strings.TrimSpace(in.Name) == "" {
		details = append(details, "name is required")
	}
	if in.Price == nil {
		details = append(details, "price is required")
	} else if *in.Price < 0 {
		details = append(details, "price must be at least 0")
	}
	if !in.Category.Valid() {
		details = append(details, "category must be one of case, earphone, charger, glass")
	}
	if in.Stock != nil && *in.Stock < 0 {
		details = append(details, "stock must be at least 0")
	}
	if len(details) > 0 {
		return apperr.Validation("validation failed", details...)
	}
	return nil
}

// images picks the image list of the input, or nil to leave it unchanged.
func (in ProductInput) images() *models.StringList {
	switch {
	case len(in.Uploaded) > 0:
		list := models.StringList(in.Uploaded)
		return &list
	case strings.TrimSpace(in.ImageURL) != "":
		list := models.StringList{strings.TrimSpace(in.ImageURL)}
		return &list
	default:
		return nil
	}
}

func (s *Service) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	now := s.now()
	product := models.Product{
		Name:      strings.TrimSpace(in.Name),
		Price:     *in.Price,
		Category:  in.Category,
		Images:    models.StringList{},
		Stock:     models.DefaultStock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if images := in.images(); images != nil {
		product.Images = *images
	}

	if err := s.products.Insert(ctx, &product); err != nil {
		return nil, apperr.Store("insert product", err)
	}
	s.logger.Info("product created", zap.String("productId", product.ID.Hex()), zap.String("name", product.Name))
	return &product, nil
}

func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in ProductInput) (*models.Product, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	patch := store.ProductPatch{
		Name:        &name,
		Description: in.Description,
		Price:       in.Price,
		Category:    &in.Category,
		Images:      in.images(),
		Stock:       in.Stock,
		UpdatedAt:   s.now(),
	}

	product, err := s.products.Update(ctx, id, patch)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, apperr.Store("update product", err)
	}
	s.logger.Info("product updated", zap.String("productId", id.Hex()))
	return product, nil
}

// Delete removes the product. Existing orders keep their snapshot and uploaded
// files stay on disk because those snapshots still reference them.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.products.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("product not found")
	}
	if err != nil {
		return apperr.Store("delete product", err)
	}
	s.logger.Info("product deleted", zap.String("productId", id.Hex()))
	return nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, apperr.Store("find product", err)
	}
	return product, nil
}

// List serves the public catalog. A search query orders by relevance,
// otherwise the newest products come first.
func (s *Service) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = DefaultPageLimit
	}

	var details []string
	if q.Page < 1 {
		details = append(details, "page must be at least 1")
	}
	if q.Limit < 1 || q.Limit > MaxPageLimit {
		details = append(details, "limit must be between 1 and 100")
	}
	if q.Category != "" && !q.Category.Valid() {
		details = append(details, "category must be one of case, earphone, charger, glass")
	}
	if q.MinPrice != nil && *q.MinPrice < 0 {
		details = append(details, "minPrice must be at least 0")
	}
	if q.MaxPrice != nil && *q.MaxPrice < 0 {
		details = append(details, "maxPrice must be at least 0")
	}
	if len(details) > 0 {
		return nil, apperr.Validation("validation failed", details...)
	}

	filter := store.ProductFilter{
		Text:     strings.TrimSpace(q.Q),
		Category: q.Category,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
	}
	page := store.Page{Skip: int64((q.Page - 1) * q.Limit), Limit: int64(q.Limit)}
	if filter.Text == "" {
		page.SortBy, page.Desc = "createdAt", true
	}

	items, err := s.products.List(ctx, filter, page)
	if err != nil {
		return nil, apperr.Store("list products", err)
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, apperr.Store("count products", err)
	}
	return &ListResult{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}
