package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/storefront/internal/cart"
	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
)

var (
	ErrEmptyCart               = errors.New("cart is empty")
	ErrIncompleteRecipientInfo = errors.New("recipient name and address are required")
)

// CheckoutService converts a session cart into a persisted order.
type CheckoutService interface {
	// Checkout writes one order row for the cart and clears the cart. Either
	// the order is durably committed and the cart emptied, or neither happens.
	// The formName/formEmail/formAddress arguments are the manually entered
	// values; a complete saved profile takes precedence over them.
	Checkout(ctx context.Context, username string, c *cart.Cart, formName, formEmail, formAddress string) (int64, error)
}

type checkoutService struct {
	log       *slog.Logger
	db        *sql.DB
	userRepo  storage.UserStorage
	orderRepo storage.OrderStorage
}

func NewCheckoutService(log *slog.Logger, db *sql.DB, userRepo storage.UserStorage, orderRepo storage.OrderStorage) CheckoutService {
	return &checkoutService{
		log:       log,
		db:        db,
		userRepo:  userRepo,
		orderRepo: orderRepo,
	}
}

func (s *checkoutService) Checkout(ctx context.Context, username string, c *cart.Cart, formName, formEmail, formAddress string) (int64, error) {
	const op = "service.CheckoutService.Checkout"
	logger := s.log.With(slog.String("op", op), slog.String("username", username))

	if c.Len() == 0 {
		logger.Warn("checkout attempted with empty cart")
		return 0, fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}

	name, email, address, err := s.resolveRecipient(ctx, username, formName, formEmail, formAddress)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if name == "" || address == "" {
		logger.Warn("incomplete recipient info")
		return 0, fmt.Errorf("%s: %w", op, ErrIncompleteRecipientInfo)
	}

	// Total and summary are taken from the cart's current state before any
	// write; the cart itself stays untouched until the commit succeeds.
	total := c.Total()
	summary := c.Summarize()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	order := &models.Order{
		OrderDate:       time.Now(),
		Username:        username,
		CustomerName:    name,
		CustomerEmail:   email,
		CustomerAddress: address,
		TotalAmount:     total,
		ItemsSummary:    summary,
		Status:          models.StatusProcessing,
	}
	orderID, err := s.orderRepo.CreateOrder(ctx, tx, order)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to create order", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	// The order is durable; only now may the cart be emptied, and it must be
	// emptied before control returns to the caller.
	c.Clear()

	logger.Info("checkout completed", slog.Int64("orderID", orderID), slog.Int("total", total))
	return orderID, nil
}

// resolveRecipient prefers the saved profile when it has both a name and an
// address; otherwise the manually entered form values are used as given.
func (s *checkoutService) resolveRecipient(ctx context.Context, username, formName, formEmail, formAddress string) (name, email, address string, err error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// account vanished between login and checkout, fall back to the form
			return formName, formEmail, formAddress, nil
		}
		s.log.Error("failed to load user profile", slog.Any("error", err))
		return "", "", "", fmt.Errorf("failed to load user profile: %w", err)
	}
	if user.RealName != "" && user.Address != "" {
		return user.RealName, user.Email, user.Address, nil
	}
	return formName, formEmail, formAddress, nil
}
