package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tsadityaa/BrowseCart/internal/db"
	"github.com/tsadityaa/BrowseCart/internal/geo"
	"github.com/tsadityaa/BrowseCart/internal/models"
)

type MongoShopRepository struct {
	coll *mongo.Collection
}

func NewMongoShopRepository(database *mongo.Database) *MongoShopRepository {
	return &MongoShopRepository{coll: database.Collection(db.ShopsCollection)}
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
}

func (r *MongoShopRepository) find(ctx context.Context, filter interface{}) ([]models.Shop, error) {
	cursor, err := r.coll.Find(ctx, filter, newestFirst())
	if err != nil {
		return nil, fmt.Errorf("failed to query shops: %w", err)
	}
	defer cursor.Close(ctx)

	shops := make([]models.Shop, 0)
	if err := cursor.All(ctx, &shops); err != nil {
		return nil, fmt.Errorf("failed to decode shops: %w", err)
	}
	return shops, nil
}

func (r *MongoShopRepository) List(ctx context.Context) ([]models.Shop, error) {
	return r.find(ctx, bson.D{})
}

// Nearby keeps the newest-first sort; $near would order by distance.
func (r *MongoShopRepository) Nearby(ctx context.Context, q models.NearbyQuery) ([]models.Shop, error) {
	filter := bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{
					bson.A{q.Center.Longitude, q.Center.Latitude},
					geo.RadiusRadians(q.RadiusKm),
				},
			},
		},
	}
	return r.find(ctx, filter)
}

func (r *MongoShopRepository) Search(ctx context.Context, term string) ([]models.Shop, error) {
	rx := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	filter := bson.M{
		"$or": bson.A{
			bson.M{"name": rx},
			bson.M{"description": rx},
			bson.M{"category": rx},
			bson.M{"items.name": rx},
		},
	}
	return r.find(ctx, filter)
}

func (r *MongoShopRepository) ListByCreator(ctx context.Context, userID string) ([]models.Shop, error) {
	return r.find(ctx, bson.M{"createdBy": userID})
}

func (r *MongoShopRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Shop, error) {
	var shop models.Shop
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&shop)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shop: %w", err)
	}
	return &shop, nil
}

func (r *MongoShopRepository) Create(ctx context.Context, shop *models.Shop) error {
	if shop.ID.IsZero() {
		shop.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, shop); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert shop: %w", err)
	}
	return nil
}

func (r *MongoShopRepository) Update(ctx context.Context, shop *models.Shop) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": shop.ID}, shop)
	if err != nil {
		return fmt.Errorf("failed to update shop: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoShopRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete shop: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoShopRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(database *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: database.Collection(db.UsersCollection)}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}
