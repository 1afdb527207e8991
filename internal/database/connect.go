package database

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"phoneshop/internal/store"
)

const queryTimeout = 5 * time.Second

const (
	productsCollection = "products"
	ordersCollection   = "orders"
	cartsCollection    = "carts"
	usersCollection    = "users"
)

// Connect dials MongoDB and verifies the primary is reachable. The caller owns
// the returned client and must Disconnect it.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// Stores returns the MongoDB backed store bundle for db.
func Stores(db *mongo.Database) store.Stores {
	return store.Stores{
		Products: &ProductStore{coll: db.Collection(productsCollection)},
		Orders:   &OrderStore{coll: db.Collection(ordersCollection)},
		Carts:    &CartStore{coll: db.Collection(cartsCollection)},
		Users:    &UserStore{coll: db.Collection(usersCollection)},
	}
}

func containsPattern(value string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(value), "$options": "i"}
}

func findOptions(page store.Page) *options.FindOptions {
	opts := options.Find()
	if page.Skip > 0 {
		opts.SetSkip(page.Skip)
	}
	if page.Limit > 0 {
		opts.SetLimit(page.Limit)
	}
	if page.SortBy != "" {
		direction := 1
		if page.Desc {
			direction = -1
		}
		opts.SetSort(bson.D{{Key: page.SortBy, Value: direction}, {Key: "_id", Value: direction}})
	}
	if len(page.Fields) > 0 {
		projection := make(bson.D, 0, len(page.Fields))
		for _, field := range page.Fields {
			projection = append(projection, bson.E{Key: field, Value: 1})
		}
		opts.SetProjection(projection)
	}
	return opts
}

func decodeAll[T any](ctx context.Context, cursor *mongo.Cursor) ([]T, error) {
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
