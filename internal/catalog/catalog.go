// Package catalog owns product identity, price and stock on hand.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/zincstore/zincstore/config"
	"github.com/zincstore/zincstore/internal/domain"
	"github.com/zincstore/zincstore/internal/repository"
	"go.uber.org/zap"
)

// Catalog manages products through a ProductRepository
type Catalog struct {
	products repository.ProductRepository
	bus      EventBus.BusPublisher
	now      func() time.Time
}

// NewCatalog creates a catalog. bus may be nil.
func NewCatalog(products repository.ProductRepository, bus EventBus.BusPublisher) *Catalog {
	return &Catalog{
		products: products,
		bus:      bus,
		now:      time.Now,
	}
}

// WithClock replaces the clock used to stamp new products
func (c *Catalog) WithClock(now func() time.Time) *Catalog {
	c.now = now
	return c
}

// Upsert adds a new product or restocks the product with the same name.
// Restocking adds quantity and replaces price and photo.
func (c *Catalog) Upsert(ctx context.Context, name string, price decimal.Decimal, quantity int, photoPath string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, domain.NewValidationError("name", "must not be empty")
	}
	if err := domain.ValidateMoney("price", price); err != nil {
		return 0, err
	}
	if quantity <= 0 {
		return 0, domain.NewValidationError("quantity", "must be greater than zero")
	}

	existing, err := c.products.GetByName(ctx, name)
	switch {
	case err == nil:
		if err := c.products.Restock(ctx, existing.ID, quantity, price, photoPath); err != nil {
			return 0, err
		}
		zap.L().Info("product restocked",
			zap.String("namespace", "catalog"),
			zap.Int64("id", existing.ID),
			zap.String("name", name),
			zap.Int("added", quantity),
			zap.String("price", price.StringFixed(2)))
		c.publish()
		return existing.ID, nil
	case !errors.Is(err, domain.ErrNotFound):
		return 0, err
	}

	product := &domain.Product{
		Name:      name,
		Price:     price,
		Quantity:  quantity,
		PhotoPath: photoPath,
		DateAdded: c.now().Format(config.DateLayout),
	}
	if err := c.products.Create(ctx, product); err != nil {
		return 0, err
	}
	zap.L().Info("product added",
		zap.String("namespace", "catalog"),
		zap.Int64("id", product.ID),
		zap.String("name", name),
		zap.Int("quantity", quantity),
		zap.String("price", price.StringFixed(2)))
	c.publish()
	return product.ID, nil
}

// DecrementStock removes amount units from the stock of a product
func (c *Catalog) DecrementStock(ctx context.Context, id int64, amount int) error {
	if _, err := Decrement(ctx, c.products, id, amount); err != nil {
		return err
	}
	c.publish()
	return nil
}

// Decrement applies a conditional stock decrement through products and
// returns the product as it was before the update. It fails with an
// *domain.InsufficientStockError (Line -1) when fewer than amount units are on hand.
func Decrement(ctx context.Context, products repository.ProductRepository, id int64, amount int) (*domain.Product, error) {
	if amount <= 0 {
		return nil, domain.NewValidationError("amount", "must be greater than zero")
	}
	product, err := products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	shortfall := &domain.InsufficientStockError{
		Line:      -1,
		ProductID: product.ID,
		Name:      product.Name,
		Requested: amount,
		Available: product.Quantity,
	}
	if product.Quantity < amount {
		return nil, shortfall
	}
	ok, err := products.DecrementStock(ctx, id, amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		// stock changed between the read and the update
		if current, err := products.GetByID(ctx, id); err == nil {
			shortfall.Available = current.Quantity
		}
		return nil, shortfall
	}
	return product, nil
}

// Find returns the product with id
func (c *Catalog) Find(ctx context.Context, id int64) (*domain.Product, error) {
	return c.products.GetByID(ctx, id)
}

// Search matches product names case-insensitively. An empty pattern lists every product.
func (c *Catalog) Search(ctx context.Context, pattern string) ([]*domain.Product, error) {
	return c.products.Search(ctx, strings.TrimSpace(pattern))
}

// List returns one page of the catalog and the total number of products
func (c *Catalog) List(ctx context.Context, page, pageSize int) ([]*domain.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return c.products.List(ctx, page, pageSize)
}

func (c *Catalog) publish() {
	if c.bus != nil {
		c.bus.Publish(domain.TopicLedgerChanged)
	}
}
