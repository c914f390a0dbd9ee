package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopnest/shopnest-be/internal/api/respond"
	"github.com/shopnest/shopnest-be/internal/apierr"
	"github.com/shopnest/shopnest-be/internal/auth"
	"github.com/shopnest/shopnest-be/internal/services"
	"github.com/shopnest/shopnest-be/internal/storage"
)

// ShopHandler handles HTTP requests for shop management.
type ShopHandler struct {
	service  services.ShopServiceProvider
	uploader storage.Uploader
}

// NewShopHandler creates a new ShopHandler.
func NewShopHandler(service services.ShopServiceProvider, uploader storage.Uploader) *ShopHandler {
	return &ShopHandler{service: service, uploader: uploader}
}

// Create opens a new shop owned by the authenticated user. The multipart
// form carries name, description and a required image file.
func (h *ShopHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, apierr.Unauthorized("Missing auth token"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.Error(w, apierr.BadRequest("Invalid multipart form"))
		return
	}

	name := r.FormValue("name")
	description := r.FormValue("description")
	if name == "" || description == "" {
		respond.Error(w, apierr.BadRequest("Name and description are required"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respond.Error(w, apierr.BadRequest("Image is required"))
		return
	}
	defer file.Close()

	imageURL, err := h.uploader.Upload(r.Context(), "shops", header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upload shop image")
		respond.Error(w, apierr.Internal("Error while uploading image"))
		return
	}

	shop, err := h.service.Create(r.Context(), name, description, claims.UserID, imageURL)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to create shop")
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, shop, "Shop created successfully")
}

// GetAll retrieves every shop.
func (h *ShopHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	shops, err := h.service.GetAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list shops")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, shops, "All shops retrieved successfully")
}

// GetUserShops retrieves the authenticated user's shops.
func (h *ShopHandler) GetUserShops(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, apierr.Unauthorized("Missing auth token"))
		return
	}

	shops, err := h.service.GetByOwner(r.Context(), claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to list user shops")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, shops, "User's shops retrieved successfully")
}

// Get retrieves a shop by ID.
func (h *ShopHandler) Get(w http.ResponseWriter, r *http.Request) {
	shop, err := h.service.GetByID(r.Context(), chi.URLParam(r, "shopId"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, shop, "Shop retrieved successfully")
}

// Update updates a shop's fields; a new image file replaces the old object.
func (h *ShopHandler) Update(w http.ResponseWriter, r *http.Request) {
	shopID := chi.URLParam(r, "shopId")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.Error(w, apierr.BadRequest("Invalid multipart form"))
		return
	}

	var imageURL string
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()

		current, err := h.service.GetByID(r.Context(), shopID)
		if err != nil {
			respond.Error(w, err)
			return
		}

		imageURL, err = h.uploader.Replace(r.Context(), current.Image, "shops", header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			log.Error().Err(err).Str("shop_id", shopID).Msg("Failed to upload shop image")
			respond.Error(w, apierr.Internal("Error while uploading image"))
			return
		}
	}

	shop, err := h.service.Update(r.Context(), shopID, r.FormValue("name"), r.FormValue("description"), imageURL)
	if err != nil {
		log.Error().Err(err).Str("shop_id", shopID).Msg("Failed to update shop")
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, shop, "Shop updated successfully")
}

// Delete removes a shop.
func (h *ShopHandler) Delete(w http.ResponseWriter, r *http.Request) {
	shopID := chi.URLParam(r, "shopId")
	if err := h.service.Delete(r.Context(), shopID); err != nil {
		log.Warn().Err(err).Str("shop_id", shopID).Msg("Failed to delete shop")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{}, "Shop deleted successfully")
}
