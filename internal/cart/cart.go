// Package cart stages line items before they are committed as sales.
package cart

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/zincstore/zincstore/internal/domain"
)

// Line is one staged sale. Name, UnitPrice and Available are captured from
// the product when the line is added.
type Line struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Available int             `json:"available"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns UnitPrice * Quantity
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered list of lines. It is not safe for concurrent use.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// AddLine stages quantity units of product. The catalog is not touched.
func (c *Cart) AddLine(product *domain.Product, quantity int) error {
	if product == nil {
		return errors.Wrap(domain.ErrNotFound, "product")
	}
	if quantity <= 0 || quantity > product.Quantity {
		return errors.Wrapf(domain.ErrInvalidQuantity,
			"requested %d of %q, available %d", quantity, product.Name, product.Quantity)
	}
	c.lines = append(c.lines, Line{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Available: product.Quantity,
		Quantity:  quantity,
	})
	return nil
}

// RemoveLine drops the line at index
func (c *Cart) RemoveLine(index int) error {
	if index < 0 || index >= len(c.lines) {
		return errors.Wrapf(domain.ErrNotFound, "cart line %d", index)
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return nil
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the staged lines in insertion order
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Total sums the subtotals of all lines
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
