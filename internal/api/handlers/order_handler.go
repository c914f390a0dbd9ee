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

// OrderHandler handles HTTP requests for order management.
type OrderHandler struct {
	service services.OrderServiceProvider
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service services.OrderServiceProvider) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create places a new order.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.OrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, apierr.BadRequest("Invalid request body"))
		return
	}
	if input.Customer == "" || input.OrderPrice <= 0 || len(input.Products) == 0 || input.ContactNo == "" ||
		input.Address.Street == "" || input.Address.City == "" || input.Address.State == "" ||
		input.Address.Zipcode == "" || input.Address.Country == "" {
		respond.Error(w, apierr.BadRequest("All fields are required"))
		return
	}

	order, err := h.service.Create(r.Context(), input)
	if err != nil {
		log.Error().Err(err).Str("customer", input.Customer).Msg("Failed to create order")
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, order, "Order created successfully")
}

// GetAll retrieves every order.
func (h *OrderHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.GetAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, orders, "All orders retrieved successfully")
}

// Get retrieves an order by ID.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetByID(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, order, "Order retrieved successfully")
}

// Update applies a partial update to an order.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var update services.OrderUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respond.Error(w, apierr.BadRequest("Invalid request body"))
		return
	}

	order, err := h.service.Update(r.Context(), chi.URLParam(r, "orderId"), update)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, order, "Order updated successfully")
}

// Delete removes an order.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	if err := h.service.Delete(r.Context(), orderID); err != nil {
		log.Warn().Err(err).Str("order_id", orderID).Msg("Failed to delete order")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{}, "Order deleted successfully")
}
