package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	ShopsCollection = "shops"
	UsersCollection = "users"
)

func InitMongo(ctx context.Context, uri, database string, logger zerolog.Logger) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetAppName("browsecart"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("MongoDB is not responding: %w", err)
	}

	logger.Info().Str("database", database).Msg("Connected to MongoDB")
	return client, client.Database(database), nil
}

// EnsureIndexes creates the geo, text and lookup indexes the repositories
// query against. Creating an index that already exists is a no-op.
func EnsureIndexes(ctx context.Context, database *mongo.Database, logger zerolog.Logger) error {
	shopIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "location", Value: "2dsphere"}},
			Options: options.Index().SetName("location_2dsphere"),
		},
		{
			Keys: bson.D{
				{Key: "name", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "category", Value: "text"},
				{Key: "items.name", Value: "text"},
			},
			Options: options.Index().SetName("shop_text"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		},
		{
			Keys:    bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdBy_createdAt"),
		},
	}
	if _, err := database.Collection(ShopsCollection).Indexes().CreateMany(ctx, shopIndexes); err != nil {
		return fmt.Errorf("failed to create shop indexes: %w", err)
	}

	userIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_unique").SetUnique(true),
	}
	if _, err := database.Collection(UsersCollection).Indexes().CreateOne(ctx, userIndex); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	logger.Info().Msg("MongoDB indexes ensured")
	return nil
}
