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

type OrderStore struct {
	coll *mongo.Collection
}

func orderQuery(f store.OrderFilter) bson.M {
	filter := bson.M{}

	status := bson.M{}
	if f.Status != "" {
		status["$eq"] = f.Status
	}
	if len(f.Statuses) > 0 {
		status["$in"] = f.Statuses
	}
	if len(status) > 0 {
		filter["status"] = status
	}

	if f.UserID != nil {
		filter["userId"] = *f.UserID
	}
	if f.CreatedFrom != nil {
		filter["createdAt"] = bson.M{"$gte": *f.CreatedFrom}
	}
	if f.Search != "" {
		filter["$or"] = []bson.M{
			{"customerName": containsPattern(f.Search)},
			{"customerPhone": containsPattern(f.Search)},
		}
	}
	return filter
}

func (s *OrderStore) Insert(ctx context.Context, order *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}
	_, err := s.coll.InsertOne(ctx, order)
	return err
}

func (s *OrderStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var order models.Order
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) List(ctx context.Context, filter store.OrderFilter, page store.Page) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := s.coll.Find(ctx, orderQuery(filter), findOptions(page))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Order](ctx, cursor)
}

func (s *OrderStore) Count(ctx context.Context, filter store.OrderFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.coll.CountDocuments(ctx, orderQuery(filter))
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, at time.Time) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var updated models.Order
	err := s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": at}},
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
