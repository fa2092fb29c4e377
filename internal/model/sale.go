package model

import "github.com/shopspring/decimal"

type SaleStatus string

const (
	SaleCompleted SaleStatus = "COMPLETED"
	SaleRefunded  SaleStatus = "REFUNDED"
	SaleCancelled SaleStatus = "CANCELLED"
)

// Sale is a point-of-sale record. It is created COMPLETED together with the
// stock decrement and income entry, and may leave that state exactly once,
// to REFUNDED or CANCELLED.
type Sale struct {
	BaseModel
	SaleNumber    string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sale_number"`
	Status        SaleStatus      `gorm:"type:varchar(20);not null;default:'COMPLETED'" json:"status"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	CustomerName  string          `gorm:"type:varchar(100)" json:"customer_name"`
	Contact       string          `gorm:"type:varchar(100)" json:"contact"`
	PaymentMethod string          `gorm:"type:varchar(20)" json:"payment_method"`
	Remarks       string          `gorm:"type:text" json:"remarks"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	User          *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items         []SaleItem      `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// SaleItem captures the unit price at the moment of sale, so receipts are
// immune to later catalog price changes.
type SaleItem struct {
	BaseModel
	SaleID    uint            `gorm:"not null;index" json:"sale_id"`
	BookID    uint            `gorm:"not null;index" json:"book_id"`
	Book      *Book           `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	SalePrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"sale_price"`
}

func (i *SaleItem) Subtotal() decimal.Decimal {
	return i.SalePrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CalculateTotal re-sums item subtotals into TotalAmount.
func (s *Sale) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range s.Items {
		total = total.Add(s.Items[i].Subtotal())
	}
	s.TotalAmount = total
	return total
}

func NewSaleNumber() string { return documentNumber("S") }
