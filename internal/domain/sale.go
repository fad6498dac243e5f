package domain

import "github.com/shopspring/decimal"

// Sale is an immutable record of one committed cart line.
// ProductName is a copy, not a foreign key: renaming or removing a product
// never rewrites sales history.
type Sale struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductName string          `gorm:"size:200;index" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	SaleDate    string          `gorm:"size:19;index" json:"sale_date"` // YYYY-MM-DD HH:MM:SS
}

// TableName Specify table name
func (Sale) TableName() string {
	return "sales"
}
