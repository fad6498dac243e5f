package domain

import "github.com/shopspring/decimal"

// Expense is an append-only operating cost entry.
type Expense struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Description string          `gorm:"size:500;not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	ExpenseDate string          `gorm:"size:19;index" json:"expense_date"` // YYYY-MM-DD HH:MM:SS
}

// TableName Specify table name
func (Expense) TableName() string {
	return "expenses"
}
