package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type indexSpec struct {
	collection string
	model      mongo.IndexModel
}

var indexSpecs = []indexSpec{
	{
		collection: productsCollection,
		model: mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().SetName("name_description_text"),
		},
	},
	{
		collection: productsCollection,
		model: mongo.IndexModel{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("category_index"),
		},
	},
	{
		collection: usersCollection,
		model: mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
	},
	{
		collection: ordersCollection,
		model: mongo.IndexModel{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("userId_index"),
		},
	},
	{
		collection: ordersCollection,
		model: mongo.IndexModel{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_index"),
		},
	},
	{
		collection: cartsCollection,
		model: mongo.IndexModel{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("userId_unique").SetUnique(true),
		},
	},
}

// EnsureIndexes creates every index the stores rely on. It keeps going after a
// failure and returns the first error so startup can decide whether to continue.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var firstErr error
	for _, spec := range indexSpecs {
		name := *spec.model.Options.Name
		if err := ensureIndex(ctx, db.Collection(spec.collection), spec.model); err != nil {
			logger.Warn("index creation failed",
				zap.String("collection", spec.collection),
				zap.String("index", name),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		logger.Info("index ensured", zap.String("collection", spec.collection), zap.String("index", name))
	}
	return firstErr
}

func ensureIndex(ctx context.Context, coll *mongo.Collection, model mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := coll.Indexes().CreateOne(ctx, model)
	return err
}
