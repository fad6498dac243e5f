package domain

import "github.com/shopspring/decimal"

// Product is a stocked catalog item. Name is the merge key for restocking and
// is matched exactly (case-sensitive).
type Product struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string          `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity  int             `gorm:"not null;default:0" json:"quantity"`
	PhotoPath string          `gorm:"size:1024" json:"photo_path"` // opaque reference, never dereferenced
	DateAdded string          `gorm:"size:10" json:"date_added"`   // YYYY-MM-DD
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}
