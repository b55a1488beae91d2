package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/storefront-api/internal/model"
)

const defaultProductLimit = 50

// ListProducts returns products matching the filter, newest first, with
// variants and images loaded.
func (q queries) ListProducts(ctx context.Context, f model.ProductFilter) ([]*model.Product, error) {
	query := `
		SELECT DISTINCT p.id, p.name, p.description, p.brand_id, p.category_id, p.created_at, p.updated_at
		FROM products p
	`
	var conditions []string
	var args []any
	argNum := 1

	if f.MinPrice.IsPositive() || f.MaxPrice.IsPositive() || f.Search != "" {
		query += ` JOIN product_variants v ON v.product_id = p.id`
	}
	if f.CategoryID != "" {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argNum))
		args = append(args, f.CategoryID)
		argNum++
	}
	if f.BrandID != "" {
		conditions = append(conditions, fmt.Sprintf("p.brand_id = $%d", argNum))
		args = append(args, f.BrandID)
		argNum++
	}
	if f.MinPrice.IsPositive() {
		conditions = append(conditions, fmt.Sprintf("v.price >= $%d", argNum))
		args = append(args, f.MinPrice)
		argNum++
	}
	if f.MaxPrice.IsPositive() {
		conditions = append(conditions, fmt.Sprintf("v.price <= $%d", argNum))
		args = append(args, f.MaxPrice)
		argNum++
	}
	if f.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", argNum, argNum))
		args = append(args, "%"+f.Search+"%")
		argNum++
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultProductLimit
	}
	query += fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, limit, f.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range products {
		if err := q.loadProductRelations(ctx, p); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func scanProduct(rows *sql.Rows) (*model.Product, error) {
	var p model.Product
	var brandID, categoryID sql.NullString
	if err := rows.Scan(&p.ID, &p.Name, &p.Description, &brandID, &categoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.BrandID = brandID.String
	p.CategoryID = categoryID.String
	return &p, nil
}

// ProductByID returns a product with variants and images, or ErrNotFound.
func (q queries) ProductByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	var brandID, categoryID sql.NullString
	err := q.db.QueryRowContext(ctx, `
		SELECT id, name, description, brand_id, category_id, created_at, updated_at
		FROM products WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Description, &brandID, &categoryID, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.BrandID = brandID.String
	p.CategoryID = categoryID.String

	if err := q.loadProductRelations(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (q queries) loadProductRelations(ctx context.Context, p *model.Product) error {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, product_id, size, sku, stock, price, created_at, updated_at
		FROM product_variants WHERE product_id = $1 ORDER BY size
	`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var v model.ProductVariant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Size, &v.SKU, &v.Stock, &v.Price, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return err
		}
		p.Variants = append(p.Variants, v)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	imgRows, err := q.db.QueryContext(ctx, `
		SELECT id, product_id, url, alt, position
		FROM product_images WHERE product_id = $1 ORDER BY position
	`, p.ID)
	if err != nil {
		return err
	}
	defer imgRows.Close()
	for imgRows.Next() {
		var img model.ProductImage
		if err := imgRows.Scan(&img.ID, &img.ProductID, &img.URL, &img.Alt, &img.Position); err != nil {
			return err
		}
		p.Images = append(p.Images, img)
	}
	return imgRows.Err()
}

func (q queries) InsertProduct(ctx context.Context, p *model.Product) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, brand_id, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, p.ID, p.Name, p.Description, nullString(p.BrandID), nullString(p.CategoryID), p.CreatedAt)
	return err
}

func (q queries) UpdateProduct(ctx context.Context, p *model.Product) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, brand_id = $4, category_id = $5, updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.Name, p.Description, nullString(p.BrandID), nullString(p.CategoryID))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (q queries) DeleteProduct(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (q queries) InsertVariant(ctx context.Context, v *model.ProductVariant) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO product_variants (id, product_id, size, sku, stock, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`, v.ID, v.ProductID, v.Size, v.SKU, v.Stock, v.Price, v.CreatedAt)
	return err
}

func (q queries) VariantByID(ctx context.Context, id string) (*model.ProductVariant, error) {
	return q.variantWhere(ctx, `id = $1`, id)
}

// VariantForProduct returns the variant only when it belongs to the
// stated product.
func (q queries) VariantForProduct(ctx context.Context, productID, variantID string) (*model.ProductVariant, error) {
	return q.variantWhere(ctx, `id = $1 AND product_id = $2`, variantID, productID)
}

func (q queries) variantWhere(ctx context.Context, where string, args ...any) (*model.ProductVariant, error) {
	var v model.ProductVariant
	err := q.db.QueryRowContext(ctx, `
		SELECT id, product_id, size, sku, stock, price, created_at, updated_at
		FROM product_variants WHERE `+where, args...,
	).Scan(&v.ID, &v.ProductID, &v.Size, &v.SKU, &v.Stock, &v.Price, &v.CreatedAt, &v.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (q queries) SetVariantStock(ctx context.Context, variantID string, stock int) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE product_variants SET stock = $2, updated_at = NOW() WHERE id = $1
	`, variantID, stock)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock is the single conditional statement the pipelines rely
// on: under concurrent settlements the database serializes the row update
// and the condition guarantees stock never goes negative.
func (q queries) DecrementStock(ctx context.Context, variantID string, qty int) (bool, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE product_variants
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
	`, variantID, qty)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (q queries) InsertImage(ctx context.Context, img *model.ProductImage) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO product_images (id, product_id, url, alt, position)
		VALUES ($1, $2, $3, $4, $5)
	`, img.ID, img.ProductID, img.URL, img.Alt, img.Position)
	return err
}

func (q queries) ListBrands(ctx context.Context) ([]*model.Brand, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, name, slug, created_at FROM brands ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []*model.Brand
	for rows.Next() {
		var b model.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Slug, &b.CreatedAt); err != nil {
			return nil, err
		}
		brands = append(brands, &b)
	}
	return brands, rows.Err()
}

func (q queries) InsertBrand(ctx context.Context, b *model.Brand) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO brands (id, name, slug, created_at) VALUES ($1, $2, $3, $4)
	`, b.ID, b.Name, b.Slug, b.CreatedAt)
	return err
}

func (q queries) DeleteBrand(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (q queries) ListCategories(ctx context.Context) ([]*model.Category, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, name, slug, description, created_at FROM categories ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (q queries) InsertCategory(ctx context.Context, c *model.Category) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, slug, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.Name, c.Slug, c.Description, c.CreatedAt)
	return err
}

func (q queries) DeleteCategory(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
