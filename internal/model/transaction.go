package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxIncome  TransactionType = "INCOME"
	TxExpense TransactionType = "EXPENSE"
)

// Reference types tie a ledger entry back to the document that produced it.
const (
	RefPurchaseOrder = "purchase_order"
	RefSale          = "sale"
	RefSaleRefund    = "sale_refund"
	RefSaleCancel    = "sale_cancel"
)

// Transaction is an append-only ledger entry. Amount is always positive; the
// type carries the sign. Entries are never updated or deleted — a reversal is
// a new entry.
type Transaction struct {
	BaseModel
	Type            TransactionType `gorm:"type:varchar(20);not null;index" json:"type"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Description     string          `gorm:"type:varchar(200)" json:"description"`
	ReferenceID     uint            `gorm:"index" json:"reference_id"`
	ReferenceType   string          `gorm:"type:varchar(50);index" json:"reference_type"`
	TransactionDate time.Time       `gorm:"not null;index" json:"transaction_date"`
	UserID          uint            `gorm:"not null" json:"user_id"`
	User            *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
