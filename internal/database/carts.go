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

type CartStore struct {
	coll *mongo.Collection
}

func (s *CartStore) Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var cart models.Cart
	err := s.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Save upserts the whole item list of the user's cart in one document write.
func (s *CartStore) Save(ctx context.Context, cart *models.Cart) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	items := cart.Items
	if items == nil {
		items = []models.CartItem{}
	}
	now := time.Now()

	var saved models.Cart
	err := s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"userId": cart.UserID},
		bson.M{
			"$set":         bson.M{"items": items, "updatedAt": now},
			"$setOnInsert": bson.M{"createdAt": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&saved)
	if err != nil {
		return err
	}

	*cart = saved
	return nil
}

func (s *CartStore) Clear(ctx context.Context, userID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.coll.UpdateOne(
		ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}, "updatedAt": time.Now()}},
	)
	return err
}
