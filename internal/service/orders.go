package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/lib/format"
	"github.com/linemk/storefront/internal/storage"
)

var ErrUnknownStatus = errors.New("unknown order status")

// OrderService is the admin-side order workflow plus the buyer's own history.
type OrderService interface {
	ListAllOrders(ctx context.Context) ([]*models.Order, error)
	ListUserOrders(ctx context.Context, username string) ([]*models.Order, error)
	// SetStatus updates the status label of one order. Any of the four labels
	// may be set from any prior state; the previous status is not consulted.
	SetStatus(ctx context.Context, orderID int64, status models.OrderStatus) error
	Metrics(ctx context.Context) (*OrderMetrics, error)
}

// OrderMetrics is the admin dashboard KPI pair. Revenue sums every order
// regardless of status; cancelled orders are deliberately not excluded.
type OrderMetrics struct {
	TotalRevenue   int    `json:"total_revenue"`
	RevenueDisplay string `json:"total_revenue_display"`
	OrderCount     int    `json:"order_count"`
}

type orderService struct {
	log       *slog.Logger
	orderRepo storage.OrderStorage
}

func NewOrderService(log *slog.Logger, orderRepo storage.OrderStorage) OrderService {
	return &orderService{
		log:       log,
		orderRepo: orderRepo,
	}
}

func (s *orderService) ListAllOrders(ctx context.Context) ([]*models.Order, error) {
	const op = "service.OrderService.ListAllOrders"
	orders, err := s.orderRepo.ListOrders(ctx)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *orderService) ListUserOrders(ctx context.Context, username string) ([]*models.Order, error) {
	const op = "service.OrderService.ListUserOrders"
	orders, err := s.orderRepo.ListOrdersByUsername(ctx, username)
	if err != nil {
		s.log.Error("failed to list user orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *orderService) SetStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	const op = "service.OrderService.SetStatus"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID), slog.String("status", string(status)))

	if !status.IsValid() {
		logger.Warn("rejected unknown status label")
		return fmt.Errorf("%s: %w", op, ErrUnknownStatus)
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			logger.Warn("order not found")
			return fmt.Errorf("%s: %w", op, err)
		}
		logger.Error("failed to update status", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("order status updated")
	return nil
}

func (s *orderService) Metrics(ctx context.Context) (*OrderMetrics, error) {
	const op = "service.OrderService.Metrics"
	orders, err := s.orderRepo.ListOrders(ctx)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	revenue := 0
	for _, order := range orders {
		revenue += order.TotalAmount
	}
	return &OrderMetrics{
		TotalRevenue:   revenue,
		RevenueDisplay: format.Amount(revenue),
		OrderCount:     len(orders),
	}, nil
}
