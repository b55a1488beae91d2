package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/storefront-api/internal/model"
)

const defaultOrderLimit = 50

func (q queries) InsertOrder(ctx context.Context, o *model.Order) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO orders (id, order_number, user_id, status, financial_status, fulfillment_status,
		                    subtotal, tax, shipping, total, shipping_address, payment_method, notes,
		                    created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
	`, o.ID, o.OrderNumber, o.UserID, o.Status, o.FinancialStatus, o.FulfillmentStatus,
		o.Subtotal, o.Tax, o.Shipping, o.Total, o.ShippingAddress, o.PaymentMethod, o.Notes,
		o.CreatedAt)
	return err
}

func (q queries) InsertLineItems(ctx context.Context, items []model.OrderLineItem) error {
	for _, it := range items {
		_, err := q.db.ExecContext(ctx, `
			INSERT INTO order_line_items (id, order_id, product_id, variant_id, product_name,
			                              variant_size, sku, quantity, price_at_purchase, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, it.ID, it.OrderID, it.ProductID, it.VariantID, it.ProductName,
			it.VariantSize, it.SKU, it.Quantity, it.PriceAtPurchase, it.LineTotal)
		if err != nil {
			return err
		}
	}
	return nil
}

func (q queries) InsertTransaction(ctx context.Context, t *model.OrderTransaction) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO order_transactions (id, order_id, gateway_payment_id, status, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.ID, t.OrderID, t.GatewayPaymentID, t.Status, t.Amount, t.CreatedAt)
	return err
}

func (q queries) TransactionByGatewayID(ctx context.Context, gatewayPaymentID string) (*model.OrderTransaction, error) {
	var t model.OrderTransaction
	err := q.db.QueryRowContext(ctx, `
		SELECT id, order_id, gateway_payment_id, status, amount, created_at
		FROM order_transactions WHERE gateway_payment_id = $1
	`, gatewayPaymentID).Scan(&t.ID, &t.OrderID, &t.GatewayPaymentID, &t.Status, &t.Amount, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const orderColumns = `id, order_number, user_id, status, financial_status, fulfillment_status,
	subtotal, tax, shipping, total, shipping_address, payment_method, notes, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.FinancialStatus, &o.FulfillmentStatus,
		&o.Subtotal, &o.Tax, &o.Shipping, &o.Total, &o.ShippingAddress, &o.PaymentMethod, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// OrderByID returns an order with line items and transactions, or
// ErrNotFound.
func (q queries) OrderByID(ctx context.Context, id string) (*model.Order, error) {
	o, err := scanOrder(q.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := q.loadOrderRelations(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// OrdersByUser returns the user's orders, newest first, each with line
// items.
func (q queries) OrdersByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	return q.ListOrders(ctx, model.OrderFilter{UserID: userID})
}

// ListOrders returns orders matching the filter, newest first, with line
// items loaded.
func (q queries) ListOrders(ctx context.Context, f model.OrderFilter) ([]*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var conditions []string
	var args []any
	argNum := 1

	if f.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argNum))
		args = append(args, f.UserID)
		argNum++
	}
	if f.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argNum))
		args = append(args, f.Status)
		argNum++
	}
	if f.FinancialStatus != "" {
		conditions = append(conditions, fmt.Sprintf("financial_status = $%d", argNum))
		args = append(args, f.FinancialStatus)
		argNum++
	}
	if f.FulfillmentStatus != "" {
		conditions = append(conditions, fmt.Sprintf("fulfillment_status = $%d", argNum))
		args = append(args, f.FulfillmentStatus)
		argNum++
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultOrderLimit
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, limit, f.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		if err := q.loadOrderRelations(ctx, o); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (q queries) loadOrderRelations(ctx context.Context, o *model.Order) error {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, variant_id, product_name, variant_size, sku,
		       quantity, price_at_purchase, line_total
		FROM order_line_items WHERE order_id = $1
	`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var it model.OrderLineItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.VariantID, &it.ProductName,
			&it.VariantSize, &it.SKU, &it.Quantity, &it.PriceAtPurchase, &it.LineTotal); err != nil {
			return err
		}
		o.LineItems = append(o.LineItems, it)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	txRows, err := q.db.QueryContext(ctx, `
		SELECT id, order_id, gateway_payment_id, status, amount, created_at
		FROM order_transactions WHERE order_id = $1 ORDER BY created_at
	`, o.ID)
	if err != nil {
		return err
	}
	defer txRows.Close()
	for txRows.Next() {
		var t model.OrderTransaction
		if err := txRows.Scan(&t.ID, &t.OrderID, &t.GatewayPaymentID, &t.Status, &t.Amount, &t.CreatedAt); err != nil {
			return err
		}
		o.Transactions = append(o.Transactions, t)
	}
	return txRows.Err()
}

func (q queries) SetOrderStatus(ctx context.Context, id string, s model.OrderStatus) error {
	return q.setOrderField(ctx, id, "status", string(s))
}

func (q queries) SetFinancialStatus(ctx context.Context, id string, s model.FinancialStatus) error {
	return q.setOrderField(ctx, id, "financial_status", string(s))
}

func (q queries) SetFulfillmentStatus(ctx context.Context, id string, s model.FulfillmentStatus) error {
	return q.setOrderField(ctx, id, "fulfillment_status", string(s))
}

func (q queries) setOrderField(ctx context.Context, id, column, value string) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE orders SET `+column+` = $2, updated_at = NOW() WHERE id = $1`, id, value)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
