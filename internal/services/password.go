package services

import (
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/tsadityaa/BrowseCart/internal/apperrors"
)

const (
	PasswordSchemeBcrypt       = "bcrypt"
	PasswordSchemeLegacyBase64 = "legacy-base64"
)

type PasswordEncoder interface {
	Scheme() string
	Encode(password string) (string, error)
	Verify(encoded, password string) bool
}

func NewPasswordEncoder(scheme string) (PasswordEncoder, error) {
	switch scheme {
	case PasswordSchemeBcrypt, "":
		return BcryptEncoder{Cost: bcrypt.DefaultCost}, nil
	case PasswordSchemeLegacyBase64:
		return LegacyBase64Encoder{}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}

type BcryptEncoder struct {
	Cost int
}

func (BcryptEncoder) Scheme() string { return PasswordSchemeBcrypt }

func (e BcryptEncoder) Encode(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), e.Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperrors.InvalidArgument("password must be at most 72 bytes")
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (BcryptEncoder) Verify(encoded, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
}

// LegacyBase64Encoder stores passwords as plain base64, which is reversible.
// It is only for accounts already stored that way and must be enabled
// explicitly with PASSWORD_SCHEME.
type LegacyBase64Encoder struct{}

func (LegacyBase64Encoder) Scheme() string { return PasswordSchemeLegacyBase64 }

func (LegacyBase64Encoder) Encode(password string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(password)), nil
}

func (e LegacyBase64Encoder) Verify(encoded, password string) bool {
	want, _ := e.Encode(password)
	return want == encoded
}
