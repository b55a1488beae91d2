// Package mocks provides an in-memory Gateway for service tests.
// InTx snapshots the full state before running the closure and restores
// it when the closure fails, mirroring database rollback, so atomicity
// properties are observable in tests. Failures are injected per method
// name through FailOn.
package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/example/storefront-api/internal/model"
	"github.com/example/storefront-api/internal/store"
)

// UniqueViolation builds the error the real driver returns on a
// uniqueness-constraint violation.
func UniqueViolation(constraint string) error {
	return &pq.Error{Code: "23505", Constraint: constraint}
}

type data struct {
	carts        map[string]*model.Cart
	products     map[string]*model.Product
	variants     map[string]*model.ProductVariant
	brands       map[string]*model.Brand
	categories   map[string]*model.Category
	images       map[string]*model.ProductImage
	orders       map[string]*model.Order
	transactions map[string]*model.OrderTransaction // by gateway payment id
	users        map[string]*model.User
	addresses    map[string]*model.Address
	wishlist     map[string]*model.WishlistEntry // by userID+"|"+variantID
}

func newData() *data {
	return &data{
		carts:        map[string]*model.Cart{},
		products:     map[string]*model.Product{},
		variants:     map[string]*model.ProductVariant{},
		brands:       map[string]*model.Brand{},
		categories:   map[string]*model.Category{},
		images:       map[string]*model.ProductImage{},
		orders:       map[string]*model.Order{},
		transactions: map[string]*model.OrderTransaction{},
		users:        map[string]*model.User{},
		addresses:    map[string]*model.Address{},
		wishlist:     map[string]*model.WishlistEntry{},
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.carts {
		cp := *v
		cp.Items = append([]model.CartItem(nil), v.Items...)
		c.carts[k] = &cp
	}
	for k, v := range d.products {
		cp := *v
		cp.Variants = append([]model.ProductVariant(nil), v.Variants...)
		cp.Images = append([]model.ProductImage(nil), v.Images...)
		c.products[k] = &cp
	}
	for k, v := range d.variants {
		cp := *v
		c.variants[k] = &cp
	}
	for k, v := range d.brands {
		cp := *v
		c.brands[k] = &cp
	}
	for k, v := range d.categories {
		cp := *v
		c.categories[k] = &cp
	}
	for k, v := range d.images {
		cp := *v
		c.images[k] = &cp
	}
	for k, v := range d.orders {
		cp := *v
		cp.LineItems = append([]model.OrderLineItem(nil), v.LineItems...)
		cp.Transactions = append([]model.OrderTransaction(nil), v.Transactions...)
		c.orders[k] = &cp
	}
	for k, v := range d.transactions {
		cp := *v
		c.transactions[k] = &cp
	}
	for k, v := range d.users {
		cp := *v
		c.users[k] = &cp
	}
	for k, v := range d.addresses {
		cp := *v
		c.addresses[k] = &cp
	}
	for k, v := range d.wishlist {
		cp := *v
		c.wishlist[k] = &cp
	}
	return c
}

// MockGateway is the in-memory store.Gateway.
type MockGateway struct {
	mu sync.Mutex
	d  *data

	// FailOn maps a method name to the error it should return.
	FailOn map[string]error
}

var _ store.Gateway = (*MockGateway)(nil)

// NewMockGateway creates an empty in-memory gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{d: newData(), FailOn: map[string]error{}}
}

// Seed helpers

func (m *MockGateway) SeedUser(u *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.d.users[u.ID] = u
}

func (m *MockGateway) SeedProduct(p *model.Product, variants ...*model.ProductVariant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.d.products[p.ID] = p
	for _, v := range variants {
		m.d.variants[v.ID] = v
	}
}

func (m *MockGateway) SeedCart(c *model.Cart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.d.carts[c.ID] = c
}

// VariantStock reads current stock directly, for assertions.
func (m *MockGateway) VariantStock(variantID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.d.variants[variantID]; ok {
		return v.Stock
	}
	return -1
}

// OrderCount returns the number of stored orders, for assertions.
func (m *MockGateway) OrderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.d.orders)
}

// TransactionCount returns the number of stored transactions.
func (m *MockGateway) TransactionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.d.transactions)
}

// InTx serializes transactions and restores the pre-transaction state
// when fn fails.
func (m *MockGateway) InTx(ctx context.Context, fn func(store.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("InTx"); err != nil {
		return err
	}

	snapshot := m.d.clone()
	if err := fn(&txView{d: m.d, failOn: m.FailOn}); err != nil {
		m.d = snapshot
		return err
	}
	return nil
}

func (m *MockGateway) Close() error { return nil }

func (m *MockGateway) fail(method string) error {
	if err, ok := m.FailOn[method]; ok {
		return err
	}
	return nil
}

func (m *MockGateway) view() *txView { return &txView{d: m.d, failOn: m.FailOn} }

// Gateway methods delegate to an unlocked view under the mutex.

func (m *MockGateway) ActiveCart(ctx context.Context, userID string) (*model.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().ActiveCart(ctx, userID)
}

func (m *MockGateway) CartByID(ctx context.Context, cartID string) (*model.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().CartByID(ctx, cartID)
}

func (m *MockGateway) CreateCart(ctx context.Context, c *model.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().CreateCart(ctx, c)
}

func (m *MockGateway) CartItem(ctx context.Context, itemID string) (*model.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().CartItem(ctx, itemID)
}

func (m *MockGateway) InsertCartItem(ctx context.Context, it *model.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().InsertCartItem(ctx, it)
}

func (m *MockGateway) UpdateCartItem(ctx context.Context, itemID string, quantity int, price decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().UpdateCartItem(ctx, itemID, quantity, price)
}

func (m *MockGateway) IncrementCartItem(ctx context.Context, itemID string, delta int, price decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().IncrementCartItem(ctx, itemID, delta, price)
}

func (m *MockGateway) DeleteCartItem(ctx context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().DeleteCartItem(ctx, itemID)
}

func (m *MockGateway) DeleteCartItems(ctx context.Context, cartID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().DeleteCartItems(ctx, cartID)
}

func (m *MockGateway) UpdateCartTotal(ctx context.Context, cartID string, total decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().UpdateCartTotal(ctx, cartID, total)
}

func (m *MockGateway) CompleteCart(ctx context.Context, cartID, orderID string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().CompleteCart(ctx, cartID, orderID, at)
}

func (m *MockGateway) ListProducts(ctx context.Context, f model.ProductFilter) ([]*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().ListProducts(ctx, f)
}

func (m *MockGateway) ProductByID(ctx context.Context, id string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().ProductByID(ctx, id)
}

func (m *MockGateway) InsertProduct(ctx context.Context, p *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().InsertProduct(ctx, p)
}

func (m *MockGateway) UpdateProduct(ctx context.Context, p *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().UpdateProduct(ctx, p)
}

func (m *MockGateway) DeleteProduct(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().DeleteProduct(ctx, id)
}

func (m *MockGateway) InsertVariant(ctx context.Context, v *model.ProductVariant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().InsertVariant(ctx, v)
}

func (m *MockGateway) VariantByID(ctx context.Context, id string) (*model.ProductVariant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().VariantByID(ctx, id)
}

func (m *MockGateway) VariantForProduct(ctx context.Context, productID, variantID string) (*model.ProductVariant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().VariantForProduct(ctx, productID, variantID)
}

func (m *MockGateway) SetVariantStock(ctx context.Context, variantID string, stock int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().SetVariantStock(ctx, variantID, stock)
}

func (m *MockGateway) DecrementStock(ctx context.Context, variantID string, qty int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().DecrementStock(ctx, variantID, qty)
}

func (m *MockGateway) InsertImage(ctx context.Context, img *model.ProductImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().InsertImage(ctx, img)
}

func (m *MockGateway) ListBrands(ctx context.Context) ([]*model.Brand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().ListBrands(ctx)
}

func (m *MockGateway) InsertBrand(ctx context.Context, b *model.Brand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().InsertBrand(ctx, b)
}

func (m *MockGateway) DeleteBrand(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().DeleteBrand(ctx, id)
}

func (m *MockGateway) ListCategories(ctx context.Context) ([]*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().ListCategories(ctx)
}

func (m *MockGateway) InsertCategory(ctx context.Context, c *model.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().InsertCategory(ctx, c)
}

func (m *MockGateway) DeleteCategory(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().DeleteCategory(ctx, id)
}

func (m *MockGateway) InsertOrder(ctx context.Context, o *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().InsertOrder(ctx, o)
}

func (m *MockGateway) InsertLineItems(ctx context.Context, items []model.OrderLineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().InsertLineItems(ctx, items)
}

func (m *MockGateway) InsertTransaction(ctx context.Context, t *model.OrderTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().InsertTransaction(ctx, t)
}

func (m *MockGateway) TransactionByGatewayID(ctx context.Context, id string) (*model.OrderTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().TransactionByGatewayID(ctx, id)
}

func (m *MockGateway) OrderByID(ctx context.Context, id string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().OrderByID(ctx, id)
}

func (m *MockGateway) OrdersByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().OrdersByUser(ctx, userID)
}

func (m *MockGateway) ListOrders(ctx context.Context, f model.OrderFilter) ([]*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().ListOrders(ctx, f)
}

func (m *MockGateway) SetOrderStatus(ctx context.Context, id string, s model.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().SetOrderStatus(ctx, id, s)
}

func (m *MockGateway) SetFinancialStatus(ctx context.Context, id string, s model.FinancialStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().SetFinancialStatus(ctx, id, s)
}

func (m *MockGateway) SetFulfillmentStatus(ctx context.Context, id string, s model.FulfillmentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().SetFulfillmentStatus(ctx, id, s)
}

func (m *MockGateway) InsertUser(ctx context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().InsertUser(ctx, u)
}

func (m *MockGateway) UserByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().UserByID(ctx, id)
}

func (m *MockGateway) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().UserByEmail(ctx, email)
}

func (m *MockGateway) UpdateUserPassword(ctx context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().UpdateUserPassword(ctx, id, hash)
}

func (m *MockGateway) UpdateUserProfile(ctx context.Context, id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().UpdateUserProfile(ctx, id, name)
}

func (m *MockGateway) AddressesByUser(ctx context.Context, userID string) ([]*model.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().AddressesByUser(ctx, userID)
}

func (m *MockGateway) AddressByID(ctx context.Context, id string) (*model.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().AddressByID(ctx, id)
}

func (m *MockGateway) InsertAddress(ctx context.Context, a *model.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().InsertAddress(ctx, a)
}

func (m *MockGateway) UpdateAddress(ctx context.Context, a *model.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().UpdateAddress(ctx, a)
}

func (m *MockGateway) DeleteAddress(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().DeleteAddress(ctx, id)
}

func (m *MockGateway) WishlistByUser(ctx context.Context, userID string) ([]*model.WishlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().WishlistByUser(ctx, userID)
}

func (m *MockGateway) InsertWishlistEntry(ctx context.Context, e *model.WishlistEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().InsertWishlistEntry(ctx, e)
}

func (m *MockGateway) DeleteWishlistEntry(ctx context.Context, userID, variantID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().DeleteWishlistEntry(ctx, userID, variantID)
}

// txView implements store.Tx without locking; it runs under the
// MockGateway mutex.
type txView struct {
	d      *data
	failOn map[string]error
}

var _ store.Tx = (*txView)(nil)

func (v *txView) fail(method string) error {
	if err, ok := v.failOn[method]; ok {
		return err
	}
	return nil
}

func (v *txView) denormalize(items []model.CartItem) []model.CartItem {
	out := append([]model.CartItem(nil), items...)
	for i := range out {
		if variant, ok := v.d.variants[out[i].VariantID]; ok {
			out[i].VariantSize = variant.Size
			out[i].SKU = variant.SKU
		}
		if p, ok := v.d.products[out[i].ProductID]; ok {
			out[i].ProductName = p.Name
		}
	}
	return out
}

func (v *txView) ActiveCart(ctx context.Context, userID string) (*model.Cart, error) {
	if err := v.fail("ActiveCart"); err != nil {
		return nil, err
	}
	for _, c := range v.d.carts {
		if c.UserID == userID && c.Status == model.CartActive {
			cp := *c
			cp.Items = v.denormalize(c.Items)
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (v *txView) CartByID(ctx context.Context, cartID string) (*model.Cart, error) {
	if err := v.fail("CartByID"); err != nil {
		return nil, err
	}
	c, ok := v.d.carts[cartID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	cp.Items = v.denormalize(c.Items)
	return &cp, nil
}

func (v *txView) CreateCart(ctx context.Context, c *model.Cart) error {
	if err := v.fail("CreateCart"); err != nil {
		return err
	}
	if c.Status == model.CartActive {
		for _, existing := range v.d.carts {
			if existing.UserID == c.UserID && existing.Status == model.CartActive {
				return UniqueViolation("carts_one_active_per_user")
			}
		}
	}
	cp := *c
	v.d.carts[c.ID] = &cp
	return nil
}

func (v *txView) CartItem(ctx context.Context, itemID string) (*model.CartItem, error) {
	if err := v.fail("CartItem"); err != nil {
		return nil, err
	}
	for _, c := range v.d.carts {
		for _, it := range c.Items {
			if it.ID == itemID {
				cp := it
				return &cp, nil
			}
		}
	}
	return nil, store.ErrNotFound
}

func (v *txView) InsertCartItem(ctx context.Context, it *model.CartItem) error {
	if err := v.fail("InsertCartItem"); err != nil {
		return err
	}
	c, ok := v.d.carts[it.CartID]
	if !ok {
		return store.ErrNotFound
	}
	for _, existing := range c.Items {
		if existing.VariantID == it.VariantID {
			return UniqueViolation("cart_items_cart_id_variant_id_key")
		}
	}
	c.Items = append(c.Items, *it)
	return nil
}

func (v *txView) UpdateCartItem(ctx context.Context, itemID string, quantity int, price decimal.Decimal) error {
	if err := v.fail("UpdateCartItem"); err != nil {
		return err
	}
	for _, c := range v.d.carts {
		for i := range c.Items {
			if c.Items[i].ID == itemID {
				c.Items[i].Quantity = quantity
				c.Items[i].ItemPrice = price
				return nil
			}
		}
	}
	return store.ErrNotFound
}

func (v *txView) IncrementCartItem(ctx context.Context, itemID string, delta int, price decimal.Decimal) error {
	if err := v.fail("IncrementCartItem"); err != nil {
		return err
	}
	for _, c := range v.d.carts {
		for i := range c.Items {
			if c.Items[i].ID == itemID {
				c.Items[i].Quantity += delta
				c.Items[i].ItemPrice = price
				return nil
			}
		}
	}
	return store.ErrNotFound
}

func (v *txView) DeleteCartItem(ctx context.Context, itemID string) error {
	if err := v.fail("DeleteCartItem"); err != nil {
		return err
	}
	for _, c := range v.d.carts {
		for i := range c.Items {
			if c.Items[i].ID == itemID {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
				return nil
			}
		}
	}
	return store.ErrNotFound
}

func (v *txView) DeleteCartItems(ctx context.Context, cartID string) error {
	if err := v.fail("DeleteCartItems"); err != nil {
		return err
	}
	if c, ok := v.d.carts[cartID]; ok {
		c.Items = nil
	}
	return nil
}

func (v *txView) UpdateCartTotal(ctx context.Context, cartID string, total decimal.Decimal) error {
	if err := v.fail("UpdateCartTotal"); err != nil {
		return err
	}
	c, ok := v.d.carts[cartID]
	if !ok {
		return store.ErrNotFound
	}
	c.TotalPrice = total
	return nil
}

func (v *txView) CompleteCart(ctx context.Context, cartID, orderID string, at time.Time) (bool, error) {
	if err := v.fail("CompleteCart"); err != nil {
		return false, err
	}
	c, ok := v.d.carts[cartID]
	if !ok || c.Status != model.CartActive {
		return false, nil
	}
	c.Status = model.CartCompleted
	c.OrderID = orderID
	c.CompletedAt = &at
	return true, nil
}

func (v *txView) ListProducts(ctx context.Context, f model.ProductFilter) ([]*model.Product, error) {
	if err := v.fail("ListProducts"); err != nil {
		return nil, err
	}
	var out []*model.Product
	for _, p := range v.d.products {
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.BrandID != "" && p.BrandID != f.BrandID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (v *txView) ProductByID(ctx context.Context, id string) (*model.Product, error) {
	if err := v.fail("ProductByID"); err != nil {
		return nil, err
	}
	p, ok := v.d.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	for _, variant := range v.d.variants {
		if variant.ProductID == id {
			cp.Variants = append(cp.Variants, *variant)
		}
	}
	return &cp, nil
}

func (v *txView) InsertProduct(ctx context.Context, p *model.Product) error {
	if err := v.fail("InsertProduct"); err != nil {
		return err
	}
	cp := *p
	v.d.products[p.ID] = &cp
	return nil
}

func (v *txView) UpdateProduct(ctx context.Context, p *model.Product) error {
	if err := v.fail("UpdateProduct"); err != nil {
		return err
	}
	if _, ok := v.d.products[p.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *p
	v.d.products[p.ID] = &cp
	return nil
}

func (v *txView) DeleteProduct(ctx context.Context, id string) error {
	if err := v.fail("DeleteProduct"); err != nil {
		return err
	}
	if _, ok := v.d.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(v.d.products, id)
	return nil
}

func (v *txView) InsertVariant(ctx context.Context, variant *model.ProductVariant) error {
	if err := v.fail("InsertVariant"); err != nil {
		return err
	}
	for _, existing := range v.d.variants {
		if existing.SKU == variant.SKU {
			return UniqueViolation("product_variants_sku_key")
		}
		if existing.ProductID == variant.ProductID && existing.Size == variant.Size {
			return UniqueViolation("product_variants_product_id_size_key")
		}
	}
	cp := *variant
	v.d.variants[variant.ID] = &cp
	return nil
}

func (v *txView) VariantByID(ctx context.Context, id string) (*model.ProductVariant, error) {
	if err := v.fail("VariantByID"); err != nil {
		return nil, err
	}
	variant, ok := v.d.variants[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *variant
	return &cp, nil
}

func (v *txView) VariantForProduct(ctx context.Context, productID, variantID string) (*model.ProductVariant, error) {
	if err := v.fail("VariantForProduct"); err != nil {
		return nil, err
	}
	variant, ok := v.d.variants[variantID]
	if !ok || variant.ProductID != productID {
		return nil, store.ErrNotFound
	}
	cp := *variant
	return &cp, nil
}

func (v *txView) SetVariantStock(ctx context.Context, variantID string, stock int) error {
	if err := v.fail("SetVariantStock"); err != nil {
		return err
	}
	variant, ok := v.d.variants[variantID]
	if !ok {
		return store.ErrNotFound
	}
	variant.Stock = stock
	return nil
}

func (v *txView) DecrementStock(ctx context.Context, variantID string, qty int) (bool, error) {
	if err := v.fail("DecrementStock"); err != nil {
		return false, err
	}
	variant, ok := v.d.variants[variantID]
	if !ok || variant.Stock < qty {
		return false, nil
	}
	variant.Stock -= qty
	return true, nil
}

func (v *txView) InsertImage(ctx context.Context, img *model.ProductImage) error {
	if err := v.fail("InsertImage"); err != nil {
		return err
	}
	cp := *img
	v.d.images[img.ID] = &cp
	return nil
}

func (v *txView) ListBrands(ctx context.Context) ([]*model.Brand, error) {
	if err := v.fail("ListBrands"); err != nil {
		return nil, err
	}
	var out []*model.Brand
	for _, b := range v.d.brands {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (v *txView) InsertBrand(ctx context.Context, b *model.Brand) error {
	if err := v.fail("InsertBrand"); err != nil {
		return err
	}
	for _, existing := range v.d.brands {
		if existing.Name == b.Name || existing.Slug == b.Slug {
			return UniqueViolation("brands_name_key")
		}
	}
	cp := *b
	v.d.brands[b.ID] = &cp
	return nil
}

func (v *txView) DeleteBrand(ctx context.Context, id string) error {
	if err := v.fail("DeleteBrand"); err != nil {
		return err
	}
	if _, ok := v.d.brands[id]; !ok {
		return store.ErrNotFound
	}
	delete(v.d.brands, id)
	return nil
}

func (v *txView) ListCategories(ctx context.Context) ([]*model.Category, error) {
	if err := v.fail("ListCategories"); err != nil {
		return nil, err
	}
	var out []*model.Category
	for _, c := range v.d.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (v *txView) InsertCategory(ctx context.Context, c *model.Category) error {
	if err := v.fail("InsertCategory"); err != nil {
		return err
	}
	for _, existing := range v.d.categories {
		if existing.Slug == c.Slug {
			return UniqueViolation("categories_slug_key")
		}
	}
	cp := *c
	v.d.categories[c.ID] = &cp
	return nil
}

func (v *txView) DeleteCategory(ctx context.Context, id string) error {
	if err := v.fail("DeleteCategory"); err != nil {
		return err
	}
	if _, ok := v.d.categories[id]; !ok {
		return store.ErrNotFound
	}
	delete(v.d.categories, id)
	return nil
}

func (v *txView) InsertOrder(ctx context.Context, o *model.Order) error {
	if err := v.fail("InsertOrder"); err != nil {
		return err
	}
	cp := *o
	cp.LineItems = nil
	cp.Transactions = nil
	v.d.orders[o.ID] = &cp
	return nil
}

func (v *txView) InsertLineItems(ctx context.Context, items []model.OrderLineItem) error {
	if err := v.fail("InsertLineItems"); err != nil {
		return err
	}
	for _, it := range items {
		o, ok := v.d.orders[it.OrderID]
		if !ok {
			return store.ErrNotFound
		}
		o.LineItems = append(o.LineItems, it)
	}
	return nil
}

func (v *txView) InsertTransaction(ctx context.Context, t *model.OrderTransaction) error {
	if err := v.fail("InsertTransaction"); err != nil {
		return err
	}
	if _, exists := v.d.transactions[t.GatewayPaymentID]; exists {
		return UniqueViolation("order_transactions_gateway_payment_id_key")
	}
	cp := *t
	v.d.transactions[t.GatewayPaymentID] = &cp
	if o, ok := v.d.orders[t.OrderID]; ok {
		o.Transactions = append(o.Transactions, *t)
	}
	return nil
}

func (v *txView) TransactionByGatewayID(ctx context.Context, id string) (*model.OrderTransaction, error) {
	if err := v.fail("TransactionByGatewayID"); err != nil {
		return nil, err
	}
	t, ok := v.d.transactions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (v *txView) OrderByID(ctx context.Context, id string) (*model.Order, error) {
	if err := v.fail("OrderByID"); err != nil {
		return nil, err
	}
	o, ok := v.d.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *o
	cp.LineItems = append([]model.OrderLineItem(nil), o.LineItems...)
	cp.Transactions = append([]model.OrderTransaction(nil), o.Transactions...)
	return &cp, nil
}

func (v *txView) OrdersByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	return v.ListOrders(ctx, model.OrderFilter{UserID: userID})
}

func (v *txView) ListOrders(ctx context.Context, f model.OrderFilter) ([]*model.Order, error) {
	if err := v.fail("ListOrders"); err != nil {
		return nil, err
	}
	var out []*model.Order
	for _, o := range v.d.orders {
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.FinancialStatus != "" && o.FinancialStatus != f.FinancialStatus {
			continue
		}
		if f.FulfillmentStatus != "" && o.FulfillmentStatus != f.FulfillmentStatus {
			continue
		}
		cp := *o
		cp.LineItems = append([]model.OrderLineItem(nil), o.LineItems...)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (v *txView) SetOrderStatus(ctx context.Context, id string, s model.OrderStatus) error {
	if err := v.fail("SetOrderStatus"); err != nil {
		return err
	}
	o, ok := v.d.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.Status = s
	return nil
}

func (v *txView) SetFinancialStatus(ctx context.Context, id string, s model.FinancialStatus) error {
	if err := v.fail("SetFinancialStatus"); err != nil {
		return err
	}
	o, ok := v.d.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.FinancialStatus = s
	return nil
}

func (v *txView) SetFulfillmentStatus(ctx context.Context, id string, s model.FulfillmentStatus) error {
	if err := v.fail("SetFulfillmentStatus"); err != nil {
		return err
	}
	o, ok := v.d.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.FulfillmentStatus = s
	return nil
}

func (v *txView) InsertUser(ctx context.Context, u *model.User) error {
	if err := v.fail("InsertUser"); err != nil {
		return err
	}
	for _, existing := range v.d.users {
		if existing.Email == u.Email {
			return UniqueViolation("users_email_key")
		}
	}
	cp := *u
	v.d.users[u.ID] = &cp
	return nil
}

func (v *txView) UserByID(ctx context.Context, id string) (*model.User, error) {
	if err := v.fail("UserByID"); err != nil {
		return nil, err
	}
	u, ok := v.d.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (v *txView) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := v.fail("UserByEmail"); err != nil {
		return nil, err
	}
	for _, u := range v.d.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (v *txView) UpdateUserPassword(ctx context.Context, id, hash string) error {
	if err := v.fail("UpdateUserPassword"); err != nil {
		return err
	}
	u, ok := v.d.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (v *txView) UpdateUserProfile(ctx context.Context, id, name string) error {
	if err := v.fail("UpdateUserProfile"); err != nil {
		return err
	}
	u, ok := v.d.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Name = name
	return nil
}

func (v *txView) AddressesByUser(ctx context.Context, userID string) ([]*model.Address, error) {
	if err := v.fail("AddressesByUser"); err != nil {
		return nil, err
	}
	var out []*model.Address
	for _, a := range v.d.addresses {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (v *txView) AddressByID(ctx context.Context, id string) (*model.Address, error) {
	if err := v.fail("AddressByID"); err != nil {
		return nil, err
	}
	a, ok := v.d.addresses[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (v *txView) InsertAddress(ctx context.Context, a *model.Address) error {
	if err := v.fail("InsertAddress"); err != nil {
		return err
	}
	cp := *a
	v.d.addresses[a.ID] = &cp
	return nil
}

func (v *txView) UpdateAddress(ctx context.Context, a *model.Address) error {
	if err := v.fail("UpdateAddress"); err != nil {
		return err
	}
	if _, ok := v.d.addresses[a.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *a
	v.d.addresses[a.ID] = &cp
	return nil
}

func (v *txView) DeleteAddress(ctx context.Context, id string) error {
	if err := v.fail("DeleteAddress"); err != nil {
		return err
	}
	if _, ok := v.d.addresses[id]; !ok {
		return store.ErrNotFound
	}
	delete(v.d.addresses, id)
	return nil
}

func (v *txView) WishlistByUser(ctx context.Context, userID string) ([]*model.WishlistEntry, error) {
	if err := v.fail("WishlistByUser"); err != nil {
		return nil, err
	}
	var out []*model.WishlistEntry
	for _, e := range v.d.wishlist {
		if e.UserID == userID {
			cp := *e
			if variant, ok := v.d.variants[e.VariantID]; ok {
				cp.VariantSize = variant.Size
				cp.Price = variant.Price
				if p, ok := v.d.products[variant.ProductID]; ok {
					cp.ProductName = p.Name
				}
			}
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (v *txView) InsertWishlistEntry(ctx context.Context, e *model.WishlistEntry) error {
	if err := v.fail("InsertWishlistEntry"); err != nil {
		return err
	}
	key := e.UserID + "|" + e.VariantID
	if _, exists := v.d.wishlist[key]; exists {
		return UniqueViolation("wishlist_entries_user_id_variant_id_key")
	}
	cp := *e
	v.d.wishlist[key] = &cp
	return nil
}

func (v *txView) DeleteWishlistEntry(ctx context.Context, userID, variantID string) (bool, error) {
	if err := v.fail("DeleteWishlistEntry"); err != nil {
		return false, err
	}
	key := userID + "|" + variantID
	if _, ok := v.d.wishlist[key]; !ok {
		return false, nil
	}
	delete(v.d.wishlist, key)
	return true, nil
}
