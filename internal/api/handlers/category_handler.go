package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopnest/shopnest-be/internal/api/respond"
	"github.com/shopnest/shopnest-be/internal/apierr"
	"github.com/shopnest/shopnest-be/internal/services"
)

// CategoryHandler handles HTTP requests for category management.
type CategoryHandler struct {
	service services.CategoryServiceProvider
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service services.CategoryServiceProvider) *CategoryHandler {
	return &CategoryHandler{service: service}
}

type categoryPayload struct {
	Name string `json:"name"`
}

// Create adds a new category.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respond.Error(w, apierr.BadRequest("Invalid request body"))
		return
	}
	if payload.Name == "" {
		respond.Error(w, apierr.BadRequest("Name is required for the category"))
		return
	}

	category, err := h.service.Create(r.Context(), payload.Name)
	if err != nil {
		log.Warn().Err(err).Str("name", payload.Name).Msg("Failed to create category")
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, category, "Category created successfully")
}

// GetAll retrieves every category.
func (h *CategoryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list categories")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, categories, "All categories fetched successfully")
}

// Get retrieves a category by ID.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.service.GetByID(r.Context(), chi.URLParam(r, "categoryId"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, category, "Category fetched successfully")
}

// Update renames a category.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respond.Error(w, apierr.BadRequest("Invalid request body"))
		return
	}
	if payload.Name == "" {
		respond.Error(w, apierr.BadRequest("Name is required for updating the category"))
		return
	}

	category, err := h.service.Update(r.Context(), chi.URLParam(r, "categoryId"), payload.Name)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, category, "Category updated successfully")
}
