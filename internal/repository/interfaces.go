package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/zincstore/zincstore/internal/domain"
)

// ProductRepository handles persistence of catalog products
type ProductRepository interface {
	// Create inserts a new product and fills in its generated ID
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product, domain.ErrNotFound if absent
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// GetByName retrieves a product by exact name, domain.ErrNotFound if absent
	GetByName(ctx context.Context, name string) (*domain.Product, error)

	// Restock adds quantity to the stock of a product and replaces its price and photo
	Restock(ctx context.Context, id int64, quantity int, price decimal.Decimal, photoPath string) error

	// DecrementStock subtracts amount from the stock of a product only if at least
	// amount units are on hand. It reports whether the row was updated.
	DecrementStock(ctx context.Context, id int64, amount int) (bool, error)

	// Search returns products whose name contains pattern (case-insensitive) in insertion order
	Search(ctx context.Context, pattern string) ([]*domain.Product, error)

	// List retrieves products with pagination in insertion order
	List(ctx context.Context, page, pageSize int) ([]*domain.Product, int64, error)
}

// SaleRepository handles persistence of sale records. Sales are never updated.
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error

	// ListByDay returns the sales whose timestamp falls on day (YYYY-MM-DD)
	ListByDay(ctx context.Context, day string) ([]*domain.Sale, error)

	// Search matches product names case-insensitively
	Search(ctx context.Context, pattern string) ([]*domain.Sale, error)

	// ListAll returns every sale in insertion order
	ListAll(ctx context.Context) ([]*domain.Sale, error)

	Count(ctx context.Context) (int64, error)
}

// ExpenseRepository handles persistence of expense records. Expenses are never updated.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error

	// ListByDay returns the expenses whose timestamp falls on day (YYYY-MM-DD)
	ListByDay(ctx context.Context, day string) ([]*domain.Expense, error)

	// Search matches descriptions case-insensitively
	Search(ctx context.Context, pattern string) ([]*domain.Expense, error)

	ListAll(ctx context.Context) ([]*domain.Expense, error)
}

// Ledger groups the three stores and the transactional boundary around them.
type Ledger interface {
	Products() ProductRepository
	Sales() SaleRepository
	Expenses() ExpenseRepository

	// Transaction runs fn against a Ledger bound to a single database transaction.
	// The transaction commits if fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Ledger) error) error
}
