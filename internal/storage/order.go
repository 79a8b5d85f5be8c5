package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/storefront/internal/domain/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStorage describes the orders table. Rows are append-only except for the
// status column.
type OrderStorage interface {
	// CreateOrder inserts a new order row within the given transaction and
	// returns the assigned id.
	CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) (int64, error)
	// ListOrders returns every order, most recent first (id descending).
	ListOrders(ctx context.Context) ([]*models.Order, error)
	// ListOrdersByUsername returns one buyer's orders, id descending.
	ListOrdersByUsername(ctx context.Context, username string) ([]*models.Order, error)
	// UpdateStatus sets the status column for the given order id.
	// Returns ErrOrderNotFound when the id does not exist.
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error
}

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) (int64, error) {
	query := `INSERT INTO orders (order_date, username, customer_name, customer_email, customer_address, total_amount, items_summary, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	var id int64
	err := tx.QueryRowContext(ctx, query,
		order.OrderDate, order.Username, order.CustomerName, order.CustomerEmail,
		order.CustomerAddress, order.TotalAmount, order.ItemsSummary, string(order.Status),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}
	return id, nil
}

const orderColumns = "id, order_date, username, customer_name, customer_email, customer_address, total_amount, items_summary, status"

func (r *orderRepository) ListOrders(ctx context.Context) ([]*models.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders ORDER BY id DESC"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) ListOrdersByUsername(ctx context.Context, username string) ([]*models.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE username = $1 ORDER BY id DESC"
	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func scanOrders(rows *sql.Rows) ([]*models.Order, error) {
	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		var status string
		if err := rows.Scan(
			&order.ID, &order.OrderDate, &order.Username, &order.CustomerName,
			&order.CustomerEmail, &order.CustomerAddress, &order.TotalAmount,
			&order.ItemsSummary, &status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		order.Status = models.OrderStatus(status)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	res, err := r.db.ExecContext(ctx, "UPDATE orders SET status = $1 WHERE id = $2", string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
