package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/storefront/internal/lib/format"
	"github.com/linemk/storefront/internal/service"
)

// ProductView is a product plus its display-formatted price.
type ProductView struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Price        int    `json:"price"`
	PriceDisplay string `json:"price_display"`
	Image        string `json:"image"`
}

// ListProductsHandler handles GET /api/products, with an optional
// ?category= filter.
func ListProductsHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductsHandler"
		logger := log.With(slog.String("op", op))

		category := r.URL.Query().Get("category")
		products, err := catalogService.ListProducts(r.Context(), category)
		if err != nil {
			logger.Error("failed to list products", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		views := make([]ProductView, 0, len(products))
		for _, p := range products {
			views = append(views, ProductView{
				ID:           p.ID,
				Name:         p.Name,
				Category:     p.Category,
				Price:        p.Price,
				PriceDisplay: format.Amount(p.Price),
				Image:        p.Image,
			})
		}
		writeJSON(w, logger, views)
	}
}

// AddProductRequest is the admin product-append body.
type AddProductRequest struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category" validate:"required"`
	Price    int    `json:"price" validate:"required,gt=0"`
	Image    string `json:"image" validate:"required,uri"`
}

// AddProductResponse returns the id the store assigned.
type AddProductResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// AddProductHandler handles POST /api/admin/products.
func AddProductHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddProductHandler"
		logger := log.With(slog.String("op", op))

		var req AddProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		id, err := catalogService.AddProduct(r.Context(), req.Name, req.Category, req.Price, req.Image)
		if err != nil {
			if errors.Is(err, service.ErrInvalidPrice) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			logger.Error("failed to add product", slog.Any("error", err))
			http.Error(w, "failed to add product", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, logger, AddProductResponse{ID: id, Message: "product added"})
	}
}
