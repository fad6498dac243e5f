package app

import (
	"context"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/shopspring/decimal"
	"github.com/zincstore/zincstore/internal/cart"
	"github.com/zincstore/zincstore/internal/catalog"
	"github.com/zincstore/zincstore/internal/checkout"
	"github.com/zincstore/zincstore/internal/domain"
	"github.com/zincstore/zincstore/internal/expense"
	"github.com/zincstore/zincstore/internal/report"
	"github.com/zincstore/zincstore/internal/repository"
)

// Session is the single active till. It owns the cart and serialises every
// operation so concurrent front ends behave as one user.
type Session struct {
	mu         sync.Mutex
	catalog    *catalog.Catalog
	cart       *cart.Cart
	expenses   *expense.Log
	committer  *checkout.Committer
	aggregator *report.Aggregator
}

// NewSession wires the ledger components around ledger. bus may be nil.
func NewSession(ledger repository.Ledger, bus EventBus.BusPublisher) *Session {
	return &Session{
		catalog:    catalog.NewCatalog(ledger.Products(), bus),
		cart:       cart.New(),
		expenses:   expense.NewLog(ledger.Expenses(), bus),
		committer:  checkout.NewCommitter(ledger, bus),
		aggregator: report.NewAggregator(ledger.Sales(), ledger.Expenses()),
	}
}

func (s *Session) Aggregator() *report.Aggregator {
	return s.aggregator
}

// UpsertProduct adds a product or restocks the one with the same name
func (s *Session) UpsertProduct(ctx context.Context, name string, price decimal.Decimal, quantity int, photoPath string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.catalog.Upsert(ctx, name, price, quantity, photoPath)
	if err != nil {
		return nil, err
	}
	return s.catalog.Find(ctx, id)
}

func (s *Session) FindProduct(ctx context.Context, id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Find(ctx, id)
}

func (s *Session) SearchProducts(ctx context.Context, pattern string) ([]*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Search(ctx, pattern)
}

func (s *Session) ListProducts(ctx context.Context, page, pageSize int) ([]*domain.Product, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.List(ctx, page, pageSize)
}

// AddToCart stages quantity units of a product, validated against its current stock
func (s *Session) AddToCart(ctx context.Context, productID int64, quantity int) ([]cart.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, err := s.catalog.Find(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.cart.AddLine(product, quantity); err != nil {
		return nil, err
	}
	return s.cart.Lines(), nil
}

func (s *Session) RemoveFromCart(index int) ([]cart.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cart.RemoveLine(index); err != nil {
		return nil, err
	}
	return s.cart.Lines(), nil
}

func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
}

// Cart returns the staged lines and their total
func (s *Session) Cart() ([]cart.Line, decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines(), s.cart.Total()
}

// Checkout commits the cart. The cart is kept when the commit fails.
func (s *Session) Checkout(ctx context.Context) (*checkout.CommitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committer.Commit(ctx, s.cart)
}

func (s *Session) RecordExpense(ctx context.Context, description string, amount decimal.Decimal) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expenses.Record(ctx, description, amount)
}

func (s *Session) ExpensesOn(ctx context.Context, day time.Time) ([]*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expenses.Today(ctx, day)
}

func (s *Session) SearchExpenses(ctx context.Context, pattern string) ([]*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expenses.Search(ctx, pattern)
}

func (s *Session) AllExpenses(ctx context.Context) ([]*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expenses.All(ctx)
}

func (s *Session) SalesOn(ctx context.Context, day time.Time) ([]*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aggregator.SalesOn(ctx, day)
}

func (s *Session) SearchSales(ctx context.Context, pattern string) ([]*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aggregator.SearchSales(ctx, pattern)
}

func (s *Session) AllSales(ctx context.Context) ([]*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aggregator.AllSales(ctx)
}

func (s *Session) Dashboard(ctx context.Context, asOf time.Time) (*report.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aggregator.Dashboard(ctx, asOf)
}

func (s *Session) SalesStatistics(ctx context.Context, asOf time.Time) (*report.SalesStatistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aggregator.SalesStatistics(ctx, asOf)
}

func (s *Session) DailyReport(ctx context.Context, asOf time.Time) (*report.DailyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aggregator.DailyReport(ctx, asOf)
}
