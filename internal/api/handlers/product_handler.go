package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopnest/shopnest-be/internal/api/respond"
	"github.com/shopnest/shopnest-be/internal/apierr"
	"github.com/shopnest/shopnest-be/internal/services"
	"github.com/shopnest/shopnest-be/internal/storage"
)

// ProductHandler handles HTTP requests for product management.
type ProductHandler struct {
	service  services.ProductServiceProvider
	uploader storage.Uploader
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service services.ProductServiceProvider, uploader storage.Uploader) *ProductHandler {
	return &ProductHandler{service: service, uploader: uploader}
}

// Create lists a new product. The multipart form carries the product fields
// and a required image file.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.Error(w, apierr.BadRequest("Invalid multipart form"))
		return
	}

	name := r.FormValue("name")
	description := r.FormValue("description")
	priceStr := r.FormValue("price")
	stockStr := r.FormValue("stock")
	shop := r.FormValue("shop")
	category := r.FormValue("category")
	if name == "" || description == "" || priceStr == "" || stockStr == "" || shop == "" || category == "" {
		respond.Error(w, apierr.BadRequest("All fields are required"))
		return
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		respond.Error(w, apierr.BadRequest("Price must be a number"))
		return
	}
	stock, err := strconv.Atoi(stockStr)
	if err != nil {
		respond.Error(w, apierr.BadRequest("Stock must be a number"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respond.Error(w, apierr.BadRequest("Image is required"))
		return
	}
	defer file.Close()

	imageURL, err := h.uploader.Upload(r.Context(), "products", header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upload product image")
		respond.Error(w, apierr.Internal("Error while uploading image"))
		return
	}

	product, err := h.service.Create(r.Context(), services.ProductInput{
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		Shop:        shop,
		Category:    category,
		ImageURL:    imageURL,
	})
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("Failed to create product")
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, product, "Product created successfully")
}

// GetAll retrieves every product.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list products")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, products, "Products retrieved successfully")
}

// Get retrieves a product by ID.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByID(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, product, "Product retrieved successfully")
}

// GetByShop retrieves the products listed by a shop.
func (h *ProductHandler) GetByShop(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetByShop(r.Context(), chi.URLParam(r, "shopId"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, products, "Products retrieved successfully")
}

// Update applies a partial update; a new image file replaces the old object.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.Error(w, apierr.BadRequest("Invalid multipart form"))
		return
	}

	update := services.ProductUpdate{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
	}
	if priceStr := r.FormValue("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			respond.Error(w, apierr.BadRequest("Price must be a number"))
			return
		}
		update.Price = &price
	}
	if stockStr := r.FormValue("stock"); stockStr != "" {
		stock, err := strconv.Atoi(stockStr)
		if err != nil {
			respond.Error(w, apierr.BadRequest("Stock must be a number"))
			return
		}
		update.Stock = &stock
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()

		current, err := h.service.GetByID(r.Context(), productID)
		if err != nil {
			respond.Error(w, err)
			return
		}

		update.ImageURL, err = h.uploader.Replace(r.Context(), current.Image, "products", header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			log.Error().Err(err).Str("product_id", productID).Msg("Failed to upload product image")
			respond.Error(w, apierr.Internal("Error while uploading image"))
			return
		}
	}

	product, err := h.service.Update(r.Context(), productID, update)
	if err != nil {
		log.Error().Err(err).Str("product_id", productID).Msg("Failed to update product")
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, product, "Product updated successfully")
}

// Delete removes a product.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if err := h.service.Delete(r.Context(), productID); err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("Failed to delete product")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{}, "Product deleted successfully")
}
