package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/lib/format"
	"github.com/linemk/storefront/internal/security/jwtmiddleware"
	"github.com/linemk/storefront/internal/service"
	"github.com/linemk/storefront/internal/storage"
)

// OrderView is one order row in list responses.
type OrderView struct {
	ID              int64  `json:"id"`
	OrderDate       string `json:"order_date"`
	Username        string `json:"username"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerAddress string `json:"customer_address"`
	TotalAmount     int    `json:"total_amount"`
	TotalDisplay    string `json:"total_amount_display"`
	ItemsSummary    string `json:"items_summary"`
	Status          string `json:"status"`
}

func orderViews(orders []*models.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, OrderView{
			ID:              o.ID,
			OrderDate:       o.OrderDate.Format(time.DateTime),
			Username:        o.Username,
			CustomerName:    o.CustomerName,
			CustomerEmail:   o.CustomerEmail,
			CustomerAddress: o.CustomerAddress,
			TotalAmount:     o.TotalAmount,
			TotalDisplay:    format.Amount(o.TotalAmount),
			ItemsSummary:    o.ItemsSummary,
			Status:          string(o.Status),
		})
	}
	return views
}

// MyOrdersHandler handles GET /api/orders: the authenticated buyer's history.
func MyOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MyOrdersHandler"
		logger := log.With(slog.String("op", op))

		username, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("username not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orders, err := orderService.ListUserOrders(r.Context(), username)
		if err != nil {
			logger.Error("failed to list orders", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, logger, orderViews(orders))
	}
}

// AdminOrdersHandler handles GET /api/admin/orders: every order, newest first.
func AdminOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminOrdersHandler"
		logger := log.With(slog.String("op", op))

		orders, err := orderService.ListAllOrders(r.Context())
		if err != nil {
			logger.Error("failed to list orders", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, logger, orderViews(orders))
	}
}

// SetStatusRequest carries the new status label.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SetStatusHandler handles POST /api/admin/orders/{id}/status.
func SetStatusHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SetStatusHandler"
		logger := log.With(slog.String("op", op))

		orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		var req SetStatusRequest
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

		err = orderService.SetStatus(r.Context(), orderID, models.OrderStatus(req.Status))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUnknownStatus):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, storage.ErrOrderNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			default:
				logger.Error("failed to set status", slog.Any("error", err))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, logger, MessageResponse{Message: "status updated"})
	}
}

// MetricsHandler handles GET /api/admin/metrics.
func MetricsHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MetricsHandler"
		logger := log.With(slog.String("op", op))

		metrics, err := orderService.Metrics(r.Context())
		if err != nil {
			logger.Error("failed to compute metrics", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, logger, metrics)
	}
}
