package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/storefront-api/internal/model"
)

// ActiveCart returns the user's ACTIVE cart with its items, or
// ErrNotFound.
func (q queries) ActiveCart(ctx context.Context, userID string) (*model.Cart, error) {
	return q.cartWhere(ctx, `user_id = $1 AND status = 'ACTIVE'`, userID)
}

// CartByID returns a cart with its items regardless of status.
func (q queries) CartByID(ctx context.Context, cartID string) (*model.Cart, error) {
	return q.cartWhere(ctx, `id = $1`, cartID)
}

func (q queries) cartWhere(ctx context.Context, where string, arg any) (*model.Cart, error) {
	var c model.Cart
	var orderID sql.NullString
	var completedAt sql.NullTime
	err := q.db.QueryRowContext(ctx, `
		SELECT id, user_id, status, total_price, order_id, created_at, updated_at, completed_at
		FROM carts WHERE `+where, arg,
	).Scan(&c.ID, &c.UserID, &c.Status, &c.TotalPrice, &orderID, &c.CreatedAt, &c.UpdatedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.OrderID = orderID.String
	if completedAt.Valid {
		c.CompletedAt = &completedAt.Time
	}

	items, err := q.cartItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Items = items
	return &c, nil
}

func (q queries) cartItems(ctx context.Context, cartID string) ([]model.CartItem, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.variant_id, ci.quantity, ci.item_price, ci.created_at,
		       p.name, v.size, v.sku
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		JOIN product_variants v ON v.id = ci.variant_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at
	`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.CartItem{}
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.VariantID, &it.Quantity, &it.ItemPrice,
			&it.CreatedAt, &it.ProductName, &it.VariantSize, &it.SKU); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CreateCart inserts a new cart row. A concurrent creator hits the
// one-active-per-user unique index; callers should retry-fetch on a
// uniqueness violation.
func (q queries) CreateCart(ctx context.Context, c *model.Cart) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO carts (id, user_id, status, total_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`, c.ID, c.UserID, c.Status, c.TotalPrice, c.CreatedAt)
	return err
}

// CartItem returns a single cart item, or ErrNotFound.
func (q queries) CartItem(ctx context.Context, itemID string) (*model.CartItem, error) {
	var it model.CartItem
	err := q.db.QueryRowContext(ctx, `
		SELECT id, cart_id, product_id, variant_id, quantity, item_price, created_at
		FROM cart_items WHERE id = $1
	`, itemID).Scan(&it.ID, &it.CartID, &it.ProductID, &it.VariantID, &it.Quantity, &it.ItemPrice, &it.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (q queries) InsertCartItem(ctx context.Context, it *model.CartItem) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO cart_items (id, cart_id, product_id, variant_id, quantity, item_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, it.ID, it.CartID, it.ProductID, it.VariantID, it.Quantity, it.ItemPrice, it.CreatedAt)
	return err
}

func (q queries) UpdateCartItem(ctx context.Context, itemID string, quantity int, price decimal.Decimal) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE cart_items SET quantity = $2, item_price = $3 WHERE id = $1
	`, itemID, quantity, price)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (q queries) IncrementCartItem(ctx context.Context, itemID string, delta int, price decimal.Decimal) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE cart_items SET quantity = quantity + $2, item_price = $3 WHERE id = $1
	`, itemID, delta, price)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (q queries) DeleteCartItem(ctx context.Context, itemID string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCartItems empties a cart; the cart row itself is retained as
// history.
func (q queries) DeleteCartItems(ctx context.Context, cartID string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	return err
}

func (q queries) UpdateCartTotal(ctx context.Context, cartID string, total decimal.Decimal) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE carts SET total_price = $2, updated_at = NOW() WHERE id = $1
	`, cartID, total)
	return err
}

// CompleteCart flips ACTIVE -> COMPLETED conditionally; only one
// transaction can win the flip for a given cart.
func (q queries) CompleteCart(ctx context.Context, cartID, orderID string, at time.Time) (bool, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE carts
		SET status = 'COMPLETED', order_id = $2, completed_at = $3, updated_at = $3
		WHERE id = $1 AND status = 'ACTIVE'
	`, cartID, orderID, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
