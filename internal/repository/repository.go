// Package repository persists shops and users. Every backend returns shops
// newest first and applies the same great-circle proximity semantics.
package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tsadityaa/BrowseCart/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type ShopRepository interface {
	List(ctx context.Context) ([]models.Shop, error)
	Nearby(ctx context.Context, q models.NearbyQuery) ([]models.Shop, error)
	// Search matches term as a case-insensitive substring of the name,
	// description, category or any item name.
	Search(ctx context.Context, term string) ([]models.Shop, error)
	// ListByCreator returns the shops whose createdBy equals userID.
	ListByCreator(ctx context.Context, userID string) ([]models.Shop, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Shop, error)
	// Create assigns shop.ID when it is zero.
	Create(ctx context.Context, shop *models.Shop) error
	Update(ctx context.Context, shop *models.Shop) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Ping(ctx context.Context) error
}

type UserRepository interface {
	// Create assigns user.ID when it is zero and returns ErrDuplicate when
	// the email is taken.
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}
