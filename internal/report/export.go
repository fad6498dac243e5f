package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/zincstore/zincstore/internal/domain"
)

type saleRow struct {
	ID          int64  `csv:"id"`
	ProductName string `csv:"product_name"`
	Quantity    int    `csv:"quantity"`
	TotalPrice  string `csv:"total_price"`
	SaleDate    string `csv:"sale_date"`
}

type expenseRow struct {
	ID          int64  `csv:"id"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	ExpenseDate string `csv:"expense_date"`
}

// WriteSalesCSV writes sales as CSV with a header row
func WriteSalesCSV(w io.Writer, sales []*domain.Sale) error {
	rows := make([]*saleRow, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, &saleRow{
			ID:          s.ID,
			ProductName: s.ProductName,
			Quantity:    s.Quantity,
			TotalPrice:  s.TotalPrice.StringFixed(2),
			SaleDate:    s.SaleDate,
		})
	}
	return errors.Wrap(gocsv.Marshal(&rows, w), "write sales csv")
}

// WriteExpensesCSV writes expenses as CSV with a header row
func WriteExpensesCSV(w io.Writer, expenses []*domain.Expense) error {
	rows := make([]*expenseRow, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, &expenseRow{
			ID:          e.ID,
			Description: e.Description,
			Amount:      e.Amount.StringFixed(2),
			ExpenseDate: e.ExpenseDate,
		})
	}
	return errors.Wrap(gocsv.Marshal(&rows, w), "write expenses csv")
}

// DailyReport is the end of day workbook content
type DailyReport struct {
	Dashboard *Dashboard
	Sales     []*domain.Sale
	Expenses  []*domain.Expense
}

// DailyReport collects the dashboard, sales and expenses of the calendar day of asOf
func (a *Aggregator) DailyReport(ctx context.Context, asOf time.Time) (*DailyReport, error) {
	dash, err := a.Dashboard(ctx, asOf)
	if err != nil {
		return nil, err
	}
	sales, err := a.sales.ListByDay(ctx, dash.Date)
	if err != nil {
		return nil, err
	}
	expenses, err := a.expenses.ListByDay(ctx, dash.Date)
	if err != nil {
		return nil, err
	}
	return &DailyReport{Dashboard: dash, Sales: sales, Expenses: expenses}, nil
}

const (
	SummarySheet  = "Summary"
	SalesSheet    = "Sales"
	ExpensesSheet = "Expenses"
)

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// WriteXLSX renders the report as a workbook with Summary, Sales and Expenses sheets
func (r *DailyReport) WriteXLSX(w io.Writer) error {
	xlsx := excelize.NewFile()
	xlsx.SetSheetName("Sheet1", SummarySheet)

	d := r.Dashboard
	summary := [][2]interface{}{
		{"Date", d.Date},
		{"Today's sales", d.TodaySales.InexactFloat64()},
		{"Today's expenses", d.TodayExpenses.InexactFloat64()},
		{"Net income", d.NetIncome.InexactFloat64()},
		{"Total income", d.TotalIncome.InexactFloat64()},
		{"Total expenses", d.TotalExpenses.InexactFloat64()},
	}
	for i, kv := range summary {
		xlsx.SetCellValue(SummarySheet, cell("A", i+1), kv[0])
		xlsx.SetCellValue(SummarySheet, cell("B", i+1), kv[1])
	}

	xlsx.NewSheet(SalesSheet)
	for i, h := range []string{"ID", "Product", "Quantity", "Total", "Time"} {
		xlsx.SetCellValue(SalesSheet, cell(string(rune('A'+i)), 1), h)
	}
	for i, s := range r.Sales {
		row := i + 2
		xlsx.SetCellValue(SalesSheet, cell("A", row), s.ID)
		xlsx.SetCellValue(SalesSheet, cell("B", row), s.ProductName)
		xlsx.SetCellValue(SalesSheet, cell("C", row), s.Quantity)
		xlsx.SetCellValue(SalesSheet, cell("D", row), s.TotalPrice.InexactFloat64())
		xlsx.SetCellValue(SalesSheet, cell("E", row), s.SaleDate)
	}

	xlsx.NewSheet(ExpensesSheet)
	for i, h := range []string{"ID", "Description", "Amount", "Time"} {
		xlsx.SetCellValue(ExpensesSheet, cell(string(rune('A'+i)), 1), h)
	}
	for i, e := range r.Expenses {
		row := i + 2
		xlsx.SetCellValue(ExpensesSheet, cell("A", row), e.ID)
		xlsx.SetCellValue(ExpensesSheet, cell("B", row), e.Description)
		xlsx.SetCellValue(ExpensesSheet, cell("C", row), e.Amount.InexactFloat64())
		xlsx.SetCellValue(ExpensesSheet, cell("D", row), e.ExpenseDate)
	}

	return errors.Wrap(xlsx.Write(w), "write daily report")
}
