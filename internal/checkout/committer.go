// Package checkout turns a cart into sales in one ledger transaction.
package checkout

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/zincstore/zincstore/config"
	"github.com/zincstore/zincstore/internal/cart"
	"github.com/zincstore/zincstore/internal/catalog"
	"github.com/zincstore/zincstore/internal/domain"
	"github.com/zincstore/zincstore/internal/repository"
	"github.com/zincstore/zincstore/pkg/common"
	"go.uber.org/zap"
)

// CommitResult describes a committed cart
type CommitResult struct {
	ID        int64           `json:"id,string"`
	Sales     []*domain.Sale  `json:"sales"`
	Total     decimal.Decimal `json:"total"`
	Timestamp string          `json:"timestamp"`
}

// Committer applies carts to the ledger
type Committer struct {
	ledger repository.Ledger
	bus    EventBus.BusPublisher
	now    func() time.Time
}

// NewCommitter creates a committer. bus may be nil.
func NewCommitter(ledger repository.Ledger, bus EventBus.BusPublisher) *Committer {
	return &Committer{ledger: ledger, bus: bus, now: time.Now}
}

// WithClock replaces the clock used to stamp sales
func (c *Committer) WithClock(now func() time.Time) *Committer {
	c.now = now
	return c
}

// Commit decrements stock and records one sale per cart line, in cart order,
// inside a single transaction. Either every line is applied or none is.
// The cart is cleared only on success.
func (c *Committer) Commit(ctx context.Context, crt *cart.Cart) (*CommitResult, error) {
	if crt == nil || crt.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	lines := crt.Lines()
	result := &CommitResult{
		ID:        common.UUIDint64(),
		Sales:     make([]*domain.Sale, 0, len(lines)),
		Total:     decimal.Zero,
		Timestamp: c.now().Format(config.TimestampLayout),
	}

	err := c.ledger.Transaction(ctx, func(tx repository.Ledger) error {
		result.Sales = result.Sales[:0]
		for i, line := range lines {
			if _, err := catalog.Decrement(ctx, tx.Products(), line.ProductID, line.Quantity); err != nil {
				var short *domain.InsufficientStockError
				if errors.As(err, &short) {
					short.Line = i
					return short
				}
				return errors.Wrapf(err, "cart line %d", i)
			}

			sale := &domain.Sale{
				ProductName: line.Name,
				Quantity:    line.Quantity,
				TotalPrice:  line.Subtotal(),
				SaleDate:    result.Timestamp,
			}
			if err := tx.Sales().Create(ctx, sale); err != nil {
				return errors.Wrapf(err, "cart line %d", i)
			}
			result.Sales = append(result.Sales, sale)
		}
		return nil
	})
	if err != nil {
		zap.L().Warn("commit rolled back",
			zap.String("namespace", "checkout"),
			zap.Int64("commit", result.ID),
			zap.Int("lines", len(lines)),
			zap.Error(err))
		return nil, err
	}

	for _, s := range result.Sales {
		result.Total = result.Total.Add(s.TotalPrice)
	}
	crt.Clear()

	zap.L().Info("cart committed",
		zap.String("namespace", "checkout"),
		zap.Int64("commit", result.ID),
		zap.Int("lines", len(result.Sales)),
		zap.String("total", result.Total.StringFixed(2)))
	if c.bus != nil {
		c.bus.Publish(domain.TopicLedgerChanged)
	}
	return result, nil
}
