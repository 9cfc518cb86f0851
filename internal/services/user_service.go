package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tsadityaa/BrowseCart/internal/apperrors"
	"github.com/tsadityaa/BrowseCart/internal/models"
	"github.com/tsadityaa/BrowseCart/internal/repository"
)

type UserService struct {
	repo    repository.UserRepository
	encoder PasswordEncoder
	logger  zerolog.Logger
}

func NewUserService(repo repository.UserRepository, encoder PasswordEncoder, logger zerolog.Logger) *UserService {
	if encoder.Scheme() == PasswordSchemeLegacyBase64 {
		logger.Warn().Msg("Passwords are stored with reversible base64 encoding; switch PASSWORD_SCHEME to bcrypt")
	}

	return &UserService{
		repo:    repo,
		encoder: encoder,
		logger:  logger,
	}
}

func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	encoded, err := s.encoder.Encode(req.Password)
	if apperrors.Is(err, apperrors.KindInvalidArgument) {
		return nil, err
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error encoding password")
		return nil, apperrors.Internal(err)
	}

	user := &models.User{
		Email:     req.Email,
		Password:  encoded,
		Name:      req.Name,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.InvalidArgument("User already exists with this email")
		}
		s.logger.Error().Err(err).Msg("Error creating user")
		return nil, apperrors.Internal(err)
	}

	s.logger.Info().Str("user_id", user.ID.Hex()).Str("email", user.Email).Msg("User registered successfully")
	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.InvalidArgument("Email and password are required")
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthenticated("Invalid email or password")
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error querying user")
		return nil, apperrors.Internal(err)
	}

	if !s.encoder.Verify(user.Password, req.Password) {
		s.logger.Warn().Str("email", req.Email).Msg("Failed authentication attempt")
		return nil, apperrors.Unauthenticated("Invalid email or password")
	}

	s.logger.Info().Str("user_id", user.ID.Hex()).Msg("User authenticated successfully")
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := models.ParseObjectID(id, "user")
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("Error fetching user")
		return nil, apperrors.Internal(err)
	}
	return user, nil
}
