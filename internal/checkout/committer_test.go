package checkout_test

import (
	"context"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zincstore/zincstore/internal/cart"
	"github.com/zincstore/zincstore/internal/catalog"
	"github.com/zincstore/zincstore/internal/checkout"
	"github.com/zincstore/zincstore/internal/domain"
	"github.com/zincstore/zincstore/internal/repository"
	"github.com/zincstore/zincstore/internal/testutil"
)

type fixture struct {
	ledger    *repository.GormLedger
	catalog   *catalog.Catalog
	committer *checkout.Committer
	bus       EventBus.Bus
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ledger := repository.NewGormLedger(testutil.OpenDB(t))
	bus := EventBus.New()
	clock := func() time.Time { return time.Date(2024, 5, 1, 14, 30, 5, 0, time.Local) }
	return &fixture{
		ledger:    ledger,
		catalog:   catalog.NewCatalog(ledger.Products(), bus).WithClock(clock),
		committer: checkout.NewCommitter(ledger, bus).WithClock(clock),
		bus:       bus,
	}
}

func (f *fixture) addProduct(t *testing.T, name, price string, qty int) *domain.Product {
	t.Helper()
	id, err := f.catalog.Upsert(context.Background(), name, decimal.RequireFromString(price), qty, "")
	require.NoError(t, err)
	p, err := f.catalog.Find(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (f *fixture) saleCount(t *testing.T) int64 {
	t.Helper()
	n, err := f.ledger.Sales().Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestCommit_Widget(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	w := f.addProduct(t, "Widget", "5.00", 10)

	crt := cart.New()
	require.NoError(t, crt.AddLine(w, 3))
	require.NoError(t, crt.AddLine(w, 4))

	res, err := f.committer.Commit(ctx, crt)
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.Equal(t, "2024-05-01 14:30:05", res.Timestamp)
	assert.Equal(t, "35.00", res.Total.StringFixed(2))

	got, err := f.catalog.Find(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)

	sales, err := f.ledger.Sales().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, "Widget", sales[0].ProductName)
	assert.Equal(t, 3, sales[0].Quantity)
	assert.Equal(t, "15.00", sales[0].TotalPrice.StringFixed(2))
	assert.Equal(t, 4, sales[1].Quantity)
	assert.Equal(t, "20.00", sales[1].TotalPrice.StringFixed(2))
	assert.Equal(t, "2024-05-01 14:30:05", sales[1].SaleDate)

	assert.True(t, crt.IsEmpty())
}

func TestCommit_EmptyCart(t *testing.T) {
	f := setup(t)
	_, err := f.committer.Commit(context.Background(), cart.New())
	assert.True(t, errors.Is(err, domain.ErrEmptyCart))
	assert.Zero(t, f.saleCount(t))
}

func TestCommit_CumulativeShortfallRollsBack(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	w := f.addProduct(t, "Widget", "5.00", 5)

	crt := cart.New()
	require.NoError(t, crt.AddLine(w, 3))
	require.NoError(t, crt.AddLine(w, 3))

	_, err := f.committer.Commit(ctx, crt)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var short *domain.InsufficientStockError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, 1, short.Line)
	assert.Equal(t, w.ID, short.ProductID)
	assert.Equal(t, 3, short.Requested)
	assert.Equal(t, 2, short.Available)

	got, err := f.catalog.Find(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
	assert.Zero(t, f.saleCount(t))
	assert.Equal(t, 2, crt.Len())
}

func TestCommit_StockSoldElsewhereRollsBack(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.addProduct(t, "Apple", "0.50", 10)
	b := f.addProduct(t, "Banana", "0.25", 4)

	crt := cart.New()
	require.NoError(t, crt.AddLine(a, 2))
	require.NoError(t, crt.AddLine(b, 4))

	// stock changes after the cart snapshot
	require.NoError(t, f.catalog.DecrementStock(ctx, b.ID, 1))

	_, err := f.committer.Commit(ctx, crt)
	var short *domain.InsufficientStockError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, 1, short.Line)
	assert.Equal(t, "Banana", short.Name)

	gotA, err := f.catalog.Find(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, gotA.Quantity)
	assert.Zero(t, f.saleCount(t))
}

func TestCommit_UnknownProduct(t *testing.T) {
	f := setup(t)
	ghost := &domain.Product{ID: 404, Name: "Ghost", Price: decimal.NewFromInt(1), Quantity: 5}

	crt := cart.New()
	require.NoError(t, crt.AddLine(ghost, 1))

	_, err := f.committer.Commit(context.Background(), crt)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, 1, crt.Len())
	assert.Zero(t, f.saleCount(t))
}

func TestCommit_UsesCapturedPrice(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	w := f.addProduct(t, "Widget", "5.00", 10)

	crt := cart.New()
	require.NoError(t, crt.AddLine(w, 2))

	// restock with a new price after the line was staged
	_, err := f.catalog.Upsert(ctx, "Widget", decimal.RequireFromString("9.00"), 1, "")
	require.NoError(t, err)

	res, err := f.committer.Commit(ctx, crt)
	require.NoError(t, err)
	require.Len(t, res.Sales, 1)
	assert.Equal(t, "10.00", res.Sales[0].TotalPrice.StringFixed(2))
}

func TestCommit_PublishesLedgerChanged(t *testing.T) {
	f := setup(t)
	w := f.addProduct(t, "Widget", "5.00", 10)
	calls := 0
	require.NoError(t, f.bus.Subscribe(domain.TopicLedgerChanged, func() { calls++ }))

	crt := cart.New()
	require.NoError(t, crt.AddLine(w, 1))
	_, err := f.committer.Commit(context.Background(), crt)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
