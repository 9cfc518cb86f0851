package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tsadityaa/BrowseCart/internal/apperrors"
	"github.com/tsadityaa/BrowseCart/internal/middleware"
	"github.com/tsadityaa/BrowseCart/internal/models"
	"github.com/tsadityaa/BrowseCart/internal/services"
)

type AuthHandler struct {
	userService *services.UserService
	authService *services.AuthService
	logger      zerolog.Logger
}

func NewAuthHandler(userService *services.UserService, authService *services.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Registration failed")
		respondWithError(w, h.logger, err)
		return
	}

	h.respondWithSession(w, http.StatusCreated, "User registered successfully", user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	user, err := h.userService.Authenticate(r.Context(), &req)
	if err != nil {
		h.logger.Warn().Str("email", req.Email).Msg("Login failed")
		respondWithError(w, h.logger, err)
		return
	}

	h.respondWithSession(w, http.StatusOK, "Login successful", user)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r)
	if !ok {
		respondWithError(w, h.logger, apperrors.Unauthenticated("User not authenticated"))
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), session.UserID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, models.AuthResponse{User: user})
}

func (h *AuthHandler) respondWithSession(w http.ResponseWriter, code int, message string, user *models.User) {
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		respondWithError(w, h.logger, apperrors.Internal(err))
		return
	}

	respondWithJSON(w, code, models.AuthResponse{
		Message: message,
		User:    user,
		Token:   token,
	})
}
