package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/tsadityaa/BrowseCart/internal/apperrors"
	"github.com/tsadityaa/BrowseCart/internal/middleware"
	"github.com/tsadityaa/BrowseCart/internal/models"
	"github.com/tsadityaa/BrowseCart/internal/services"
)

type ShopHandler struct {
	shopService *services.ShopService
	logger      zerolog.Logger
}

func NewShopHandler(shopService *services.ShopService, logger zerolog.Logger) *ShopHandler {
	return &ShopHandler{
		shopService: shopService,
		logger:      logger,
	}
}

func (h *ShopHandler) ListShops(w http.ResponseWriter, r *http.Request) {
	var (
		shops []models.Shop
		err   error
	)
	if query := r.URL.Query(); query.Has("createdBy") {
		shops, err = h.shopService.ShopsByCreator(r.Context(), query.Get("createdBy"))
	} else {
		shops, err = h.shopService.ListShops(r.Context())
	}
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, shops)
}

// MyShops lists the shops created by the signed-in user.
func (h *ShopHandler) MyShops(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r)
	if !ok {
		respondWithError(w, h.logger, apperrors.Unauthenticated("User not authenticated"))
		return
	}

	shops, err := h.shopService.ShopsByCreator(r.Context(), session.UserID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, shops)
}

func (h *ShopHandler) NearbyShops(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q, err := models.ParseNearbyQuery(query.Get("lat"), query.Get("lng"), query.Get("radius"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	shops, err := h.shopService.NearbyShops(r.Context(), q)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, shops)
}

func (h *ShopHandler) SearchShops(w http.ResponseWriter, r *http.Request) {
	term, err := models.ParseSearchQuery(r.URL.Query().Get("q"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	shops, err := h.shopService.SearchShops(r.Context(), term)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, shops)
}

func (h *ShopHandler) GetShop(w http.ResponseWriter, r *http.Request) {
	shop, err := h.shopService.GetShop(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, shop)
}

func (h *ShopHandler) CreateShop(w http.ResponseWriter, r *http.Request) {
	var req models.CreateShopRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	session, _ := middleware.GetSession(r)
	shop, err := h.shopService.CreateShop(r.Context(), &req, session)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, shop)
}

func (h *ShopHandler) UpdateShop(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateShopRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	shop, err := h.shopService.UpdateShop(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, shop)
}

func (h *ShopHandler) DeleteShop(w http.ResponseWriter, r *http.Request) {
	if err := h.shopService.DeleteShop(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Shop deleted successfully"})
}
