package repository_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zincstore/zincstore/internal/domain"
	"github.com/zincstore/zincstore/internal/repository"
	"github.com/zincstore/zincstore/internal/testutil"
)

func newLedger(t *testing.T) *repository.GormLedger {
	return repository.NewGormLedger(testutil.OpenDB(t))
}

func createProduct(t *testing.T, ledger repository.Ledger, name string, price string, qty int) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Quantity:  qty,
		DateAdded: "2024-05-01",
	}
	require.NoError(t, ledger.Products().Create(context.Background(), p))
	require.NotZero(t, p.ID)
	return p
}

func TestProductRepository_GetByIDAndName(t *testing.T) {
	ctx := context.Background()
	ledger := newLedger(t)
	p := createProduct(t, ledger, "Widget", "5.00", 10)

	got, err := ledger.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)
	assert.True(t, decimal.RequireFromString("5").Equal(got.Price))
	assert.Equal(t, 10, got.Quantity)

	got, err = ledger.Products().GetByName(ctx, "Widget")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = ledger.Products().GetByName(ctx, "widget")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = ledger.Products().GetByID(ctx, p.ID+100)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProductRepository_Restock(t *testing.T) {
	ctx := context.Background()
	ledger := newLedger(t)
	p := createProduct(t, ledger, "Widget", "5.00", 10)

	require.NoError(t, ledger.Products().Restock(ctx, p.ID, 5, decimal.RequireFromString("6.50"), "img/w.png"))

	got, err := ledger.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Quantity)
	assert.Equal(t, "6.50", got.Price.StringFixed(2))
	assert.Equal(t, "img/w.png", got.PhotoPath)

	err = ledger.Products().Restock(ctx, p.ID+100, 1, decimal.NewFromInt(1), "")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProductRepository_DecrementStock(t *testing.T) {
	ctx := context.Background()
	ledger := newLedger(t)
	p := createProduct(t, ledger, "Widget", "5.00", 4)

	ok, err := ledger.Products().DecrementStock(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	// only one unit left
	ok, err = ledger.Products().DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = ledger.Products().DecrementStock(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := ledger.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
}

func TestProductRepository_SearchAndList(t *testing.T) {
	ctx := context.Background()
	ledger := newLedger(t)
	createProduct(t, ledger, "Red Widget", "1.00", 1)
	createProduct(t, ledger, "Gadget", "2.00", 2)
	createProduct(t, ledger, "blue widget", "3.00", 3)

	found, err := ledger.Products().Search(ctx, "WIDGET")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Red Widget", found[0].Name)
	assert.Equal(t, "blue widget", found[1].Name)

	all, err := ledger.Products().Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, total, err := ledger.Products().List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "blue widget", page[0].Name)
}

func TestProductRepository_SearchMatchesWildcardsLiterally(t *testing.T) {
	ctx := context.Background()
	ledger := newLedger(t)
	createProduct(t, ledger, "50% off bundle", "1.00", 1)
	createProduct(t, ledger, "500 sheets paper", "2.00", 1)
	createProduct(t, ledger, "snap_on lid", "3.00", 1)
	createProduct(t, ledger, "snapXon lid", "3.00", 1)
	createProduct(t, ledger, `C:\drive label`, "4.00", 1)

	found, err := ledger.Products().Search(ctx, "50%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "50% off bundle", found[0].Name)

	found, err = ledger.Products().Search(ctx, "snap_on")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "snap_on lid", found[0].Name)

	found, err = ledger.Products().Search(ctx, `c:\`)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, `C:\drive label`, found[0].Name)
}

func TestProductRepository_SearchFoldsNonASCII(t *testing.T) {
	ctx := context.Background()
	ledger := newLedger(t)
	createProduct(t, ledger, "Äpfel", "1.00", 1)
	createProduct(t, ledger, "Café Crème", "2.00", 1)
	createProduct(t, ledger, "Apfelsaft", "3.00", 1)

	found, err := ledger.Products().Search(ctx, "äpf")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Äpfel", found[0].Name)

	found, err = ledger.Products().Search(ctx, "CRÈME")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Café Crème", found[0].Name)

	// ASCII patterns still match names with accents
	found, err = ledger.Products().Search(ctx, "caf")
	require.NoError(t, err)
	require.Len(t, found, 1)
}

func TestSaleRepository_ListByDayAndSearch(t *testing.T) {
	ctx := context.Background()
	ledger := newLedger(t)

	sales := []*domain.Sale{
		{ProductName: "Widget", Quantity: 1, TotalPrice: decimal.RequireFromString("5.00"), SaleDate: "2024-05-01 09:00:00"},
		{ProductName: "Gadget", Quantity: 2, TotalPrice: decimal.RequireFromString("4.00"), SaleDate: "2024-05-01 18:30:00"},
		{ProductName: "Widget", Quantity: 3, TotalPrice: decimal.RequireFromString("15.00"), SaleDate: "2024-05-02 08:00:00"},
	}
	for _, s := range sales {
		require.NoError(t, ledger.Sales().Create(ctx, s))
	}

	day, err := ledger.Sales().ListByDay(ctx, "2024-05-01")
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, "Widget", day[0].ProductName)
	assert.Equal(t, "Gadget", day[1].ProductName)

	found, err := ledger.Sales().Search(ctx, "widg")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	total, err := ledger.Sales().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	empty, err := ledger.Sales().ListByDay(ctx, "2024-06-01")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestExpenseRepository_ListByDayAndSearch(t *testing.T) {
	ctx := context.Background()
	ledger := newLedger(t)

	require.NoError(t, ledger.Expenses().Create(ctx, &domain.Expense{
		Description: "Rent", Amount: decimal.RequireFromString("300.00"), ExpenseDate: "2024-05-01 10:00:00",
	}))
	require.NoError(t, ledger.Expenses().Create(ctx, &domain.Expense{
		Description: "Electricity bill", Amount: decimal.RequireFromString("42.10"), ExpenseDate: "2024-05-02 10:00:00",
	}))

	day, err := ledger.Expenses().ListByDay(ctx, "2024-05-02")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "42.10", day[0].Amount.StringFixed(2))

	found, err := ledger.Expenses().Search(ctx, "RENT")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Rent", found[0].Description)

	require.NoError(t, ledger.Expenses().Create(ctx, &domain.Expense{
		Description: "Ölwechsel", Amount: decimal.RequireFromString("80.00"), ExpenseDate: "2024-05-02 11:00:00",
	}))
	found, err = ledger.Expenses().Search(ctx, "ölw")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Ölwechsel", found[0].Description)

	all, err := ledger.Expenses().ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLedger_TransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	ledger := newLedger(t)
	p := createProduct(t, ledger, "Widget", "5.00", 10)

	boom := errors.New("boom")
	err := ledger.Transaction(ctx, func(tx repository.Ledger) error {
		ok, err := tx.Products().DecrementStock(ctx, p.ID, 4)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, tx.Sales().Create(ctx, &domain.Sale{
			ProductName: "Widget", Quantity: 4, TotalPrice: decimal.RequireFromString("20.00"), SaleDate: "2024-05-01 09:00:00",
		}))
		return boom
	})
	assert.True(t, errors.Is(err, boom))

	got, err := ledger.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)

	total, err := ledger.Sales().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}
