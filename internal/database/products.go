package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"phoneshop/internal/models"
	"phoneshop/internal/store"
)

type ProductStore struct {
	coll *mongo.Collection
}

func productQuery(f store.ProductFilter) bson.M {
	filter := bson.M{}
	if f.Text != "" {
		filter["$text"] = bson.M{"$search": f.Text}
	}
	if f.Name != "" {
		filter["name"] = containsPattern(f.Name)
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}
	return filter
}

func (s *ProductStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Product](ctx, cursor)
}

func (s *ProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var product models.Product
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List sorts by text relevance when a text search is given without an explicit sort.
func (s *ProductStore) List(ctx context.Context, filter store.ProductFilter, page store.Page) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := findOptions(page)
	if filter.Text != "" && page.SortBy == "" {
		opts.SetSort(bson.M{"score": bson.M{"$meta": "textScore"}})
	}

	cursor, err := s.coll.Find(ctx, productQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Product](ctx, cursor)
}

func (s *ProductStore) Count(ctx context.Context, filter store.ProductFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.coll.CountDocuments(ctx, productQuery(filter))
}

func (s *ProductStore) Insert(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = product.CreatedAt
	}
	_, err := s.coll.InsertOne(ctx, product)
	return err
}

func (s *ProductStore) Update(ctx context.Context, id primitive.ObjectID, patch store.ProductPatch) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Images != nil {
		set["images"] = *patch.Images
	}
	if patch.Stock != nil {
		set["stock"] = *patch.Stock
	}
	if !patch.UpdatedAt.IsZero() {
		set["updatedAt"] = patch.UpdatedAt
	}
	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}

	var updated models.Product
	err := s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *ProductStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
