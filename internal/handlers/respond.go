package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tsadityaa/BrowseCart/internal/apperrors"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// respondWithError writes err using its apperrors kind. Internal failures
// are logged here since services only log what they wrap.
func respondWithError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg("Request failed")
	}
	respondWithJSON(w, status, ErrorResponse{
		Error:   apperrors.Code(err),
		Message: err.Error(),
	})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.InvalidArgument("Request body too large")
		}
		return apperrors.InvalidArgument("Invalid request body")
	}
	return nil
}

// NotFound answers routes that match nothing.
func NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Route not found",
			Path:    r.URL.RequestURI(),
		})
	})
}

func MethodNotAllowed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
			Error:   "method_not_allowed",
			Message: "Method " + r.Method + " not allowed",
			Path:    r.URL.RequestURI(),
		})
	})
}
