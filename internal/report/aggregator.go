// Package report derives financial figures from the sale and expense ledgers.
// Nothing here is cached: every call reads the store.
package report

import (
	"context"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"github.com/zincstore/zincstore/config"
	"github.com/zincstore/zincstore/internal/domain"
	"github.com/zincstore/zincstore/internal/repository"
)

// DailySummary holds the figures of one calendar day
type DailySummary struct {
	Date          string          `json:"date"`
	TodaySales    decimal.Decimal `json:"today_sales"`
	TodayExpenses decimal.Decimal `json:"today_expenses"`
	NetIncome     decimal.Decimal `json:"net_income"`
}

// Totals holds the all-time figures
type Totals struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
}

// Dashboard combines the daily and all-time figures
type Dashboard struct {
	DailySummary
	Totals
}

// SalesStatistics describes the distribution of one day's sale totals
type SalesStatistics struct {
	Date   string          `json:"date"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
	Mean   decimal.Decimal `json:"mean"`
	Median decimal.Decimal `json:"median"`
	Max    decimal.Decimal `json:"max"`
}

type Aggregator struct {
	sales    repository.SaleRepository
	expenses repository.ExpenseRepository
}

func NewAggregator(sales repository.SaleRepository, expenses repository.ExpenseRepository) *Aggregator {
	return &Aggregator{sales: sales, expenses: expenses}
}

// DailyFinancials sums the sales and expenses of the calendar day of asOf
func (a *Aggregator) DailyFinancials(ctx context.Context, asOf time.Time) (*DailySummary, error) {
	day := asOf.Format(config.DateLayout)
	sales, err := a.sales.ListByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	expenses, err := a.expenses.ListByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	s := &DailySummary{
		Date:          day,
		TodaySales:    sumSales(sales),
		TodayExpenses: sumExpenses(expenses),
	}
	s.NetIncome = s.TodaySales.Sub(s.TodayExpenses)
	return s, nil
}

// AllTimeFinancials sums every sale and expense ever recorded
func (a *Aggregator) AllTimeFinancials(ctx context.Context) (*Totals, error) {
	sales, err := a.sales.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := a.expenses.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return &Totals{
		TotalIncome:   sumSales(sales),
		TotalExpenses: sumExpenses(expenses),
	}, nil
}

func (a *Aggregator) Dashboard(ctx context.Context, asOf time.Time) (*Dashboard, error) {
	daily, err := a.DailyFinancials(ctx, asOf)
	if err != nil {
		return nil, err
	}
	totals, err := a.AllTimeFinancials(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{DailySummary: *daily, Totals: *totals}, nil
}

// SalesStatistics reports count, mean, median and max of the sale totals of a day.
// All figures are zero on a day without sales.
func (a *Aggregator) SalesStatistics(ctx context.Context, asOf time.Time) (*SalesStatistics, error) {
	day := asOf.Format(config.DateLayout)
	sales, err := a.sales.ListByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	st := &SalesStatistics{
		Date:   day,
		Count:  len(sales),
		Total:  sumSales(sales),
		Mean:   decimal.Zero,
		Median: decimal.Zero,
		Max:    decimal.Zero,
	}
	if len(sales) == 0 {
		return st, nil
	}

	data := make(stats.Float64Data, 0, len(sales))
	for _, s := range sales {
		data = append(data, s.TotalPrice.InexactFloat64())
	}
	mean, err := data.Mean()
	if err != nil {
		return nil, err
	}
	median, err := data.Median()
	if err != nil {
		return nil, err
	}
	max, err := data.Max()
	if err != nil {
		return nil, err
	}
	st.Mean = decimal.NewFromFloat(mean).Round(2)
	st.Median = decimal.NewFromFloat(median).Round(2)
	st.Max = decimal.NewFromFloat(max).Round(2)
	return st, nil
}

// SalesOn lists the sales of the calendar day of day
func (a *Aggregator) SalesOn(ctx context.Context, day time.Time) ([]*domain.Sale, error) {
	return a.sales.ListByDay(ctx, day.Format(config.DateLayout))
}

// SearchSales matches product names case-insensitively
func (a *Aggregator) SearchSales(ctx context.Context, pattern string) ([]*domain.Sale, error) {
	return a.sales.Search(ctx, strings.TrimSpace(pattern))
}

func (a *Aggregator) AllSales(ctx context.Context) ([]*domain.Sale, error) {
	return a.sales.ListAll(ctx)
}

func sumSales(sales []*domain.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.TotalPrice)
	}
	return total
}

func sumExpenses(expenses []*domain.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}
