package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid argument", InvalidArgument("Search query is required"), http.StatusBadRequest, "invalid_argument"},
		{"malformed id", MalformedIdentifier("Invalid shop ID format"), http.StatusBadRequest, "malformed_identifier"},
		{"not found", NotFound("Shop not found"), http.StatusNotFound, "not_found"},
		{"unauthenticated", Unauthenticated("Invalid email or password"), http.StatusUnauthorized, "unauthenticated"},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError, "internal_error"},
		{"internal", Internal(errors.New("disk full")), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
			assert.Equal(t, tt.code, Code(tt.err))
		})
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading shop: %w", NotFound("Shop not found"))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(nil, KindNotFound))
}

func TestError_MessagePassthrough(t *testing.T) {
	cause := errors.New("server selection timeout")
	err := Internal(cause)

	assert.Equal(t, "server selection timeout", err.Error())
	assert.ErrorIs(t, err, cause)
}
