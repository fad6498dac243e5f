// Package expense records operating costs.
package expense

import (
	"context"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/shopspring/decimal"
	"github.com/zincstore/zincstore/config"
	"github.com/zincstore/zincstore/internal/domain"
	"github.com/zincstore/zincstore/internal/repository"
	"go.uber.org/zap"
)

// Log is the append-only expense journal
type Log struct {
	expenses repository.ExpenseRepository
	bus      EventBus.BusPublisher
	now      func() time.Time
}

// NewLog creates an expense log. bus may be nil.
func NewLog(expenses repository.ExpenseRepository, bus EventBus.BusPublisher) *Log {
	return &Log{expenses: expenses, bus: bus, now: time.Now}
}

// WithClock replaces the clock used to stamp expenses
func (l *Log) WithClock(now func() time.Time) *Log {
	l.now = now
	return l
}

// Record appends an expense stamped with the current time
func (l *Log) Record(ctx context.Context, description string, amount decimal.Decimal) (int64, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return 0, domain.NewValidationError("description", "must not be empty")
	}
	if err := domain.ValidateMoney("amount", amount); err != nil {
		return 0, err
	}

	e := &domain.Expense{
		Description: description,
		Amount:      amount,
		ExpenseDate: l.now().Format(config.TimestampLayout),
	}
	if err := l.expenses.Create(ctx, e); err != nil {
		return 0, err
	}

	zap.L().Info("expense recorded",
		zap.String("namespace", "expense"),
		zap.Int64("id", e.ID),
		zap.String("description", description),
		zap.String("amount", amount.StringFixed(2)))
	if l.bus != nil {
		l.bus.Publish(domain.TopicLedgerChanged)
	}
	return e.ID, nil
}

// Today lists the expenses recorded on the calendar day of asOf
func (l *Log) Today(ctx context.Context, asOf time.Time) ([]*domain.Expense, error) {
	return l.expenses.ListByDay(ctx, asOf.Format(config.DateLayout))
}

// Search matches descriptions case-insensitively
func (l *Log) Search(ctx context.Context, pattern string) ([]*domain.Expense, error) {
	return l.expenses.Search(ctx, strings.TrimSpace(pattern))
}

// All lists every expense in insertion order
func (l *Log) All(ctx context.Context) ([]*domain.Expense, error) {
	return l.expenses.ListAll(ctx)
}
