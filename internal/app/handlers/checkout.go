package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/storefront/internal/security/jwtmiddleware"
	"github.com/linemk/storefront/internal/service"
)

// CheckoutRequest carries the manually entered recipient fields. They are
// ignored when the account's saved profile already has a name and address.
type CheckoutRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

// CheckoutResponse reports the persisted order.
type CheckoutResponse struct {
	OrderID int64  `json:"order_id"`
	Message string `json:"message"`
}

// CheckoutHandler handles POST /api/checkout. The JWT middleware guarantees an
// authenticated account; the cart session middleware supplies the cart.
func CheckoutHandler(log *slog.Logger, checkoutService service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckoutHandler"
		logger := log.With(slog.String("op", op))

		username, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("username not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req CheckoutRequest
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

		c, ok := sessionCart(w, r, logger)
		if !ok {
			return
		}

		orderID, err := checkoutService.Checkout(r.Context(), username, c, req.Name, req.Email, req.Address)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrEmptyCart),
				errors.Is(err, service.ErrIncompleteRecipientInfo):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				logger.Error("checkout failed", slog.Any("error", err))
				http.Error(w, "checkout failed", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, logger, CheckoutResponse{OrderID: orderID, Message: "order placed"})
	}
}
