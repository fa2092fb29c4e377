package model

import "github.com/shopspring/decimal"

// Book is a catalog title. Quantity is never assigned directly outside the
// repository's increment/decrement primitives, so every stock change is
// attributable to the sale, stock-in, or refund that caused it.
type Book struct {
	BaseModel
	ISBN        string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"isbn" validate:"required"`
	Name        string          `gorm:"type:varchar(200);not null;index" json:"name" validate:"required"`
	Author      string          `gorm:"type:varchar(100);index" json:"author"`
	Publisher   string          `gorm:"type:varchar(100)" json:"publisher"`
	RetailPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"retail_price"`
	Quantity    int             `gorm:"not null;default:0" json:"quantity"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
}
