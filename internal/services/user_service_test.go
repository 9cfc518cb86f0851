package services

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tsadityaa/BrowseCart/internal/apperrors"
	"github.com/tsadityaa/BrowseCart/internal/models"
	"github.com/tsadityaa/BrowseCart/internal/repository"
)

func newTestUserService(encoder PasswordEncoder) *UserService {
	return NewUserService(repository.NewMemoryUserRepository(), encoder, zerolog.Nop())
}

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService(BcryptEncoder{Cost: bcrypt.MinCost})

	user, err := svc.Register(ctx, &models.RegisterRequest{Email: " Ana@Example.com ", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.Password)
	assert.False(t, user.CreatedAt.IsZero())

	got, err := svc.Authenticate(ctx, &models.LoginRequest{Email: "ANA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	byID, err := svc.GetUserByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Ana", byID.Name)
}

func TestUserService_RegisterRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService(BcryptEncoder{Cost: bcrypt.MinCost})

	_, err := svc.Register(ctx, &models.RegisterRequest{Email: "dup@example.com", Password: "secret1", Name: "A"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &models.RegisterRequest{Email: "DUP@example.com", Password: "secret2", Name: "B"})
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidArgument))
	assert.EqualError(t, err, "User already exists with this email")
}

func TestUserService_RegisterValidation(t *testing.T) {
	svc := newTestUserService(BcryptEncoder{Cost: bcrypt.MinCost})

	_, err := svc.Register(context.Background(), &models.RegisterRequest{Email: "a@b.co", Password: "123", Name: "A"})
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidArgument))

	_, err = svc.Register(context.Background(), &models.RegisterRequest{Email: "a@b.co", Password: "123456"})
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidArgument))
}

func TestUserService_RegisterRejectsOverlongPassword(t *testing.T) {
	svc := newTestUserService(BcryptEncoder{Cost: bcrypt.MinCost})

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:    "long@example.com",
		Password: strings.Repeat("x", 73),
		Name:     "Long",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidArgument), "got %v", err)

	user, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:    "edge@example.com",
		Password: strings.Repeat("x", 72),
		Name:     "Edge",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.Password)
}

func TestUserService_AuthenticateFailures(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService(BcryptEncoder{Cost: bcrypt.MinCost})

	_, err := svc.Register(ctx, &models.RegisterRequest{Email: "bo@example.com", Password: "secret1", Name: "Bo"})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, &models.LoginRequest{Email: "bo@example.com", Password: "wrong-password"})
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthenticated))
	assert.EqualError(t, err, "Invalid email or password")

	_, err = svc.Authenticate(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthenticated))

	_, err = svc.Authenticate(ctx, &models.LoginRequest{Email: "bo@example.com"})
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidArgument))
}

func TestUserService_GetUserByID(t *testing.T) {
	svc := newTestUserService(BcryptEncoder{Cost: bcrypt.MinCost})

	_, err := svc.GetUserByID(context.Background(), "bad")
	assert.True(t, apperrors.Is(err, apperrors.KindMalformedIdentifier))

	_, err = svc.GetUserByID(context.Background(), "64b7f0c2a1b2c3d4e5f60718")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestPasswordEncoders(t *testing.T) {
	enc, err := NewPasswordEncoder("")
	require.NoError(t, err)
	assert.Equal(t, PasswordSchemeBcrypt, enc.Scheme())

	legacy, err := NewPasswordEncoder(PasswordSchemeLegacyBase64)
	require.NoError(t, err)
	encoded, err := legacy.Encode("hunter22")
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("hunter22")), encoded)
	assert.True(t, legacy.Verify(encoded, "hunter22"))
	assert.False(t, legacy.Verify(encoded, "hunter23"))

	_, err = NewPasswordEncoder("md5")
	assert.Error(t, err)
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	auth := NewAuthService("test-secret", time.Hour, zerolog.Nop())
	id, err := models.ParseObjectID("64b7f0c2a1b2c3d4e5f60718", "user")
	require.NoError(t, err)
	user := &models.User{ID: id, Email: "ana@example.com"}

	token, err := auth.GenerateToken(user)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)

	other := NewAuthService("other-secret", time.Hour, zerolog.Nop())
	_, err = other.ValidateToken(token)
	assert.Error(t, err)

	expired := NewAuthService("test-secret", -time.Minute, zerolog.Nop())
	stale, err := expired.GenerateToken(user)
	require.NoError(t, err)
	_, err = auth.ValidateToken(stale)
	assert.Error(t, err)
}
