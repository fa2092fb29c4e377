package model

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderUnpaid   OrderStatus = "UNPAID"
	OrderPaid     OrderStatus = "PAID"
	OrderReturned OrderStatus = "RETURNED"
	OrderStocked  OrderStatus = "STOCKED"
)

// PurchaseOrder is a procurement order. Status only ever moves forward:
// UNPAID -> PAID -> STOCKED, or UNPAID -> RETURNED. RETURNED and STOCKED are
// terminal. Items are immutable after creation and orders are never deleted.
type PurchaseOrder struct {
	BaseModel
	OrderNumber string              `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`
	Status      OrderStatus         `gorm:"type:varchar(20);not null;default:'UNPAID'" json:"status"`
	TotalAmount decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Supplier    string              `gorm:"type:varchar(100)" json:"supplier"`
	Remarks     string              `gorm:"type:text" json:"remarks"`
	UserID      uint                `gorm:"not null;index" json:"user_id"`
	User        *User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items       []PurchaseOrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// PurchaseOrderItem is one line of a purchase order. BookID is nil for a new
// title not yet in the catalog; the denormalized bibliographic fields then
// carry everything needed to create the Book at stock-in time.
type PurchaseOrderItem struct {
	BaseModel
	PurchaseOrderID      uint             `gorm:"not null;index" json:"purchase_order_id"`
	BookID               *uint            `gorm:"index" json:"book_id"`
	Book                 *Book            `gorm:"foreignKey:BookID" json:"book,omitempty"`
	ISBN                 string           `gorm:"type:varchar(20)" json:"isbn"`
	Title                string           `gorm:"type:varchar(200)" json:"title"`
	Author               string           `gorm:"type:varchar(100)" json:"author"`
	Publisher            string           `gorm:"type:varchar(100)" json:"publisher"`
	Quantity             int              `gorm:"not null" json:"quantity"`
	PurchasePrice        decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"purchase_price"`
	SuggestedRetailPrice *decimal.Decimal `gorm:"type:decimal(10,2)" json:"suggested_retail_price"`
}

// Subtotal is quantity x purchase price for this line.
func (i *PurchaseOrderItem) Subtotal() decimal.Decimal {
	return i.PurchasePrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CalculateTotal re-sums item subtotals into TotalAmount.
func (o *PurchaseOrder) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal())
	}
	o.TotalAmount = total
	return total
}

// documentNumber builds a human-readable unique number like PO-1A2B3C4D.
func documentNumber(prefix string) string {
	id := uuid.New()
	return prefix + "-" + strings.ToUpper(hex.EncodeToString(id[:4]))
}

func NewOrderNumber() string { return documentNumber("PO") }
