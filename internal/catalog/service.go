// Package catalog serves product browsing and the admin catalog
// mutations. Product detail reads go through the Redis cache; every
// mutation that can change what buyers see invalidates the entry.
package catalog

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/storefront-api/internal/apperr"
	"github.com/example/storefront-api/internal/cache"
	"github.com/example/storefront-api/internal/model"
	"github.com/example/storefront-api/internal/money"
	"github.com/example/storefront-api/internal/store"
)

type Service struct {
	gateway store.Gateway
	cache   *cache.ProductCache
}

func NewService(gateway store.Gateway, productCache *cache.ProductCache) *Service {
	return &Service{gateway: gateway, cache: productCache}
}

// ListProducts returns catalog entries matching the filter.
func (s *Service) ListProducts(ctx context.Context, f model.ProductFilter) ([]*model.Product, error) {
	if f.Limit < 0 || f.Offset < 0 {
		return nil, apperr.Invalid("invalid pagination",
			apperr.FieldError{Path: "limit", Message: "must not be negative"})
	}

	products, err := s.gateway.ListProducts(ctx, f)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list products", err)
	}
	return products, nil
}

// GetProduct returns one product with variants and images, served from
// cache when possible.
func (s *Service) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	if p, ok := s.cache.Get(ctx, id); ok {
		return p, nil
	}

	p, err := s.gateway.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "product not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to load product", err)
	}

	s.cache.Set(ctx, p)
	return p, nil
}

// ProductInput is the admin payload for creating or updating a product.
type ProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	BrandID     string `json:"brand_id,omitempty"`
	CategoryID  string `json:"category_id,omitempty"`
}

func (in ProductInput) validate() error {
	var details []apperr.FieldError
	if strings.TrimSpace(in.Name) == "" {
		details = append(details, apperr.FieldError{Path: "name", Message: "is required"})
	}
	if len(details) > 0 {
		return apperr.Invalid("invalid product", details...)
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &model.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		BrandID:     in.BrandID,
		CategoryID:  in.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.gateway.InsertProduct(ctx, p); err != nil {
		if store.IsForeignKeyViolation(err) {
			return nil, apperr.New(apperr.Validation, "unknown brand or category")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to create product", err)
	}

	log.Printf("[Catalog] product %s created (%s)", p.ID, p.Name)
	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p, err := s.gateway.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "product not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to load product", err)
	}

	p.Name = in.Name
	p.Description = in.Description
	p.BrandID = in.BrandID
	p.CategoryID = in.CategoryID
	p.UpdatedAt = time.Now().UTC()
	if err := s.gateway.UpdateProduct(ctx, p); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to update product", err)
	}

	s.cache.Invalidate(ctx, id)
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.gateway.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.New(apperr.NotFound, "product not found")
		}
		return apperr.Wrap(apperr.Internal, "failed to delete product", err)
	}

	s.cache.Invalidate(ctx, id)
	return nil
}

// VariantInput is the admin payload for adding a sellable variant.
type VariantInput struct {
	Size  string `json:"size"`
	SKU   string `json:"sku"`
	Stock int    `json:"stock"`
	Price string `json:"price"`
}

func (s *Service) AddVariant(ctx context.Context, productID string, in VariantInput) (*model.ProductVariant, error) {
	var details []apperr.FieldError
	if strings.TrimSpace(in.Size) == "" {
		details = append(details, apperr.FieldError{Path: "size", Message: "is required"})
	}
	if strings.TrimSpace(in.SKU) == "" {
		details = append(details, apperr.FieldError{Path: "sku", Message: "is required"})
	}
	if in.Stock < 0 {
		details = append(details, apperr.FieldError{Path: "stock", Message: "must not be negative"})
	}
	price, err := money.Parse(in.Price)
	if err != nil {
		details = append(details, apperr.FieldError{Path: "price", Message: "must be a non-negative decimal"})
	}
	if len(details) > 0 {
		return nil, apperr.Invalid("invalid variant", details...)
	}

	if _, err := s.gateway.ProductByID(ctx, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "product not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to load product", err)
	}

	now := time.Now().UTC()
	v := &model.ProductVariant{
		ID:        uuid.NewString(),
		ProductID: productID,
		Size:      in.Size,
		SKU:       in.SKU,
		Stock:     in.Stock,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.gateway.InsertVariant(ctx, v); err != nil {
		if store.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.Conflict, "variant size or SKU already exists")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to create variant", err)
	}

	s.cache.Invalidate(ctx, productID)
	return v, nil
}

// SetStock overwrites a variant's stock level. This is the admin
// restock path; checkout only ever decrements conditionally.
func (s *Service) SetStock(ctx context.Context, variantID string, stock int) error {
	if stock < 0 {
		return apperr.Invalid("invalid stock",
			apperr.FieldError{Path: "stock", Message: "must not be negative"})
	}

	v, err := s.gateway.VariantByID(ctx, variantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.New(apperr.NotFound, "variant not found")
		}
		return apperr.Wrap(apperr.Internal, "failed to load variant", err)
	}

	if err := s.gateway.SetVariantStock(ctx, variantID, stock); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to set stock", err)
	}

	s.cache.Invalidate(ctx, v.ProductID)
	log.Printf("[Catalog] variant %s restocked to %d", variantID, stock)
	return nil
}

// ImageInput is the admin payload for attaching a product image.
type ImageInput struct {
	URL      string `json:"url"`
	Alt      string `json:"alt,omitempty"`
	Position int    `json:"position"`
}

func (s *Service) AddImage(ctx context.Context, productID string, in ImageInput) (*model.ProductImage, error) {
	if strings.TrimSpace(in.URL) == "" {
		return nil, apperr.Invalid("invalid image",
			apperr.FieldError{Path: "url", Message: "is required"})
	}

	if _, err := s.gateway.ProductByID(ctx, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "product not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to load product", err)
	}

	img := &model.ProductImage{
		ID:        uuid.NewString(),
		ProductID: productID,
		URL:       in.URL,
		Alt:       in.Alt,
		Position:  in.Position,
	}
	if err := s.gateway.InsertImage(ctx, img); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to add image", err)
	}

	s.cache.Invalidate(ctx, productID)
	return img, nil
}

// Brands and categories

func (s *Service) ListBrands(ctx context.Context) ([]*model.Brand, error) {
	brands, err := s.gateway.ListBrands(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list brands", err)
	}
	return brands, nil
}

func (s *Service) CreateBrand(ctx context.Context, name string) (*model.Brand, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Invalid("invalid brand",
			apperr.FieldError{Path: "name", Message: "is required"})
	}

	b := &model.Brand{
		ID:        uuid.NewString(),
		Name:      name,
		Slug:      slugify(name),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.gateway.InsertBrand(ctx, b); err != nil {
		if store.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.Conflict, "brand already exists")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to create brand", err)
	}
	return b, nil
}

func (s *Service) DeleteBrand(ctx context.Context, id string) error {
	if err := s.gateway.DeleteBrand(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.New(apperr.NotFound, "brand not found")
		}
		if store.IsForeignKeyViolation(err) {
			return apperr.New(apperr.Conflict, "brand still has products")
		}
		return apperr.Wrap(apperr.Internal, "failed to delete brand", err)
	}
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]*model.Category, error) {
	categories, err := s.gateway.ListCategories(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list categories", err)
	}
	return categories, nil
}

func (s *Service) CreateCategory(ctx context.Context, name, description string) (*model.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Invalid("invalid category",
			apperr.FieldError{Path: "name", Message: "is required"})
	}

	c := &model.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slugify(name),
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.gateway.InsertCategory(ctx, c); err != nil {
		if store.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.Conflict, "category already exists")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to create category", err)
	}
	return c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.gateway.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.New(apperr.NotFound, "category not found")
		}
		if store.IsForeignKeyViolation(err) {
			return apperr.New(apperr.Conflict, "category still has products")
		}
		return apperr.Wrap(apperr.Internal, "failed to delete category", err)
	}
	return nil
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}
