package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tsadityaa/BrowseCart/internal/models"
)

// CachedShopRepository serves Get from Redis and drops the cached document
// whenever the shop is updated or deleted. Redis failures degrade to the
// wrapped repository.
type CachedShopRepository struct {
	ShopRepository
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCachedShopRepository(next ShopRepository, client *redis.Client, ttl time.Duration, logger zerolog.Logger) *CachedShopRepository {
	return &CachedShopRepository{
		ShopRepository: next,
		client:         client,
		ttl:            ttl,
		logger:         logger,
	}
}

func shopCacheKey(id primitive.ObjectID) string {
	return "shop:" + id.Hex()
}

func (r *CachedShopRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Shop, error) {
	key := shopCacheKey(id)

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var shop models.Shop
		if jsonErr := json.Unmarshal(raw, &shop); jsonErr == nil {
			return &shop, nil
		}
		r.logger.Warn().Str("key", key).Msg("Discarding undecodable cache entry")
	case !errors.Is(err, redis.Nil):
		r.logger.Warn().Err(err).Str("key", key).Msg("Shop cache read failed")
	}

	shop, err := r.ShopRepository.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(shop); err == nil {
		if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			r.logger.Warn().Err(err).Str("key", key).Msg("Shop cache write failed")
		}
	}
	return shop, nil
}

func (r *CachedShopRepository) Update(ctx context.Context, shop *models.Shop) error {
	err := r.ShopRepository.Update(ctx, shop)
	r.invalidate(ctx, shop.ID)
	return err
}

func (r *CachedShopRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := r.ShopRepository.Delete(ctx, id)
	r.invalidate(ctx, id)
	return err
}

func (r *CachedShopRepository) invalidate(ctx context.Context, id primitive.ObjectID) {
	if err := r.client.Del(ctx, shopCacheKey(id)).Err(); err != nil {
		r.logger.Warn().Err(err).Str("shop_id", id.Hex()).Msg("Shop cache invalidation failed")
	}
}
