package store

import (
	"context"

	"github.com/example/storefront-api/internal/model"
)

func (q queries) WishlistByUser(ctx context.Context, userID string) ([]*model.WishlistEntry, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT w.id, w.user_id, w.variant_id, w.created_at, p.name, v.size, v.price
		FROM wishlist_entries w
		JOIN product_variants v ON v.id = w.variant_id
		JOIN products p ON p.id = v.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*model.WishlistEntry
	for rows.Next() {
		var e model.WishlistEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.VariantID, &e.CreatedAt,
			&e.ProductName, &e.VariantSize, &e.Price); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// InsertWishlistEntry adds a variant to the user's wishlist. A second
// insert for the same (user_id, variant_id) pair violates the unique
// constraint; callers translate that into a conflict.
func (q queries) InsertWishlistEntry(ctx context.Context, e *model.WishlistEntry) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO wishlist_entries (id, user_id, variant_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, e.ID, e.UserID, e.VariantID, e.CreatedAt)
	return err
}

func (q queries) DeleteWishlistEntry(ctx context.Context, userID, variantID string) (bool, error) {
	res, err := q.db.ExecContext(ctx, `
		DELETE FROM wishlist_entries WHERE user_id = $1 AND variant_id = $2
	`, userID, variantID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
