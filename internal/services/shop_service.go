package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tsadityaa/BrowseCart/internal/apperrors"
	"github.com/tsadityaa/BrowseCart/internal/models"
	"github.com/tsadityaa/BrowseCart/internal/repository"
)

type ShopService struct {
	repo   repository.ShopRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewShopService(repo repository.ShopRepository, logger zerolog.Logger) *ShopService {
	return &ShopService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (s *ShopService) ListShops(ctx context.Context) ([]models.Shop, error) {
	shops, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing shops")
		return nil, apperrors.Internal(err)
	}
	return shops, nil
}

// ShopsByCreator lists the shops attributed to userID, newest first.
func (s *ShopService) ShopsByCreator(ctx context.Context, userID string) ([]models.Shop, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.InvalidArgument("createdBy must not be empty")
	}

	shops, err := s.repo.ListByCreator(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error listing shops by creator")
		return nil, apperrors.Internal(err)
	}
	return shops, nil
}

func (s *ShopService) NearbyShops(ctx context.Context, q models.NearbyQuery) ([]models.Shop, error) {
	shops, err := s.repo.Nearby(ctx, q)
	if err != nil {
		s.logger.Error().Err(err).
			Float64("lat", q.Center.Latitude).
			Float64("lng", q.Center.Longitude).
			Float64("radius_km", q.RadiusKm).
			Msg("Error finding nearby shops")
		return nil, apperrors.Internal(err)
	}

	s.logger.Debug().Int("count", len(shops)).Float64("radius_km", q.RadiusKm).Msg("Nearby shops found")
	return shops, nil
}

func (s *ShopService) SearchShops(ctx context.Context, term string) ([]models.Shop, error) {
	shops, err := s.repo.Search(ctx, term)
	if err != nil {
		s.logger.Error().Err(err).Str("term", term).Msg("Error searching shops")
		return nil, apperrors.Internal(err)
	}
	return shops, nil
}

func (s *ShopService) GetShop(ctx context.Context, id string) (*models.Shop, error) {
	oid, err := models.ParseObjectID(id, "shop")
	if err != nil {
		return nil, err
	}

	shop, err := s.repo.Get(ctx, oid)
	if err != nil {
		return nil, s.mapError(err, id, "Error fetching shop")
	}
	return shop, nil
}

// CreateShop validates and stores a new shop. When session is non-nil the
// shop is attributed to the signed-in user regardless of the body.
func (s *ShopService) CreateShop(ctx context.Context, req *models.CreateShopRequest, session *models.Session) (*models.Shop, error) {
	pos, err := req.Validate()
	if err != nil {
		return nil, err
	}

	shop := req.ToShop(pos, s.now())
	if session != nil {
		shop.CreatedBy = session.UserID
	}

	if err := s.repo.Create(ctx, &shop); err != nil {
		s.logger.Error().Err(err).Str("name", shop.Name).Msg("Error creating shop")
		return nil, apperrors.Internal(err)
	}

	s.logger.Info().Str("shop_id", shop.ID.Hex()).Str("name", shop.Name).Msg("Shop created successfully")
	return &shop, nil
}

func (s *ShopService) UpdateShop(ctx context.Context, id string, req *models.UpdateShopRequest) (*models.Shop, error) {
	oid, err := models.ParseObjectID(id, "shop")
	if err != nil {
		return nil, err
	}

	pos, err := req.Validate()
	if err != nil {
		return nil, err
	}

	shop, err := s.repo.Get(ctx, oid)
	if err != nil {
		return nil, s.mapError(err, id, "Error fetching shop")
	}

	req.ApplyTo(shop, pos, s.now())

	if err := s.repo.Update(ctx, shop); err != nil {
		return nil, s.mapError(err, id, "Error updating shop")
	}

	s.logger.Info().Str("shop_id", id).Msg("Shop updated successfully")
	return shop, nil
}

func (s *ShopService) DeleteShop(ctx context.Context, id string) error {
	oid, err := models.ParseObjectID(id, "shop")
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, oid); err != nil {
		return s.mapError(err, id, "Error deleting shop")
	}

	s.logger.Info().Str("shop_id", id).Msg("Shop deleted successfully")
	return nil
}

// Ping reports whether the backing store is reachable.
func (s *ShopService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *ShopService) mapError(err error, id, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("Shop not found")
	}
	s.logger.Error().Err(err).Str("shop_id", id).Msg(msg)
	return apperrors.Internal(err)
}
