package service

import (
	"fmt"
	"time"

	"go-bookstore-api/internal/apperr"
	"go-bookstore-api/internal/model"
	"go-bookstore-api/internal/repository"
	"go-bookstore-api/pkg/validator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleItemRequest is one line of a new sale. SalePrice is the unit price
// charged at the counter, captured as-is onto the receipt.
type SaleItemRequest struct {
	BookID    uint            `json:"book_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

type CreateSaleRequest struct {
	CustomerName  string            `json:"customer_name"`
	Contact       string            `json:"contact"`
	PaymentMethod string            `json:"payment_method"`
	Remarks       string            `json:"remarks"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

type SalesService interface {
	CreateSale(actor model.Identity, req *CreateSaleRequest) (*model.Sale, error)
	GetSale(id uint) (*model.Sale, error)
	ListSales(filter repository.SaleFilter) ([]model.Sale, int64, error)
	Refund(actor model.Identity, id uint) (*model.Sale, error)
	Cancel(actor model.Identity, id uint) (*model.Sale, error)
}

type salesService struct {
	saleRepo   repository.SaleRepository
	bookRepo   repository.BookRepository
	ledgerRepo repository.LedgerRepository
	db         *gorm.DB
}

func NewSalesService(
	saleRepo repository.SaleRepository,
	bookRepo repository.BookRepository,
	ledgerRepo repository.LedgerRepository,
	db *gorm.DB,
) SalesService {
	return &salesService{
		saleRepo:   saleRepo,
		bookRepo:   bookRepo,
		ledgerRepo: ledgerRepo,
		db:         db,
	}
}

// CreateSale records a completed sale: every item's stock is decremented
// through a conditional UPDATE that re-checks availability at write time, the
// sale and its items are persisted with the request's unit prices, and one
// INCOME entry is appended. Any failure rolls the whole thing back, so a
// shortfall on the third item leaves the first two books untouched.
func (s *salesService) CreateSale(actor model.Identity, req *CreateSaleRequest) (*model.Sale, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("items", validator.FirstError(errs))
	}
	for i := range req.Items {
		if req.Items[i].SalePrice.IsNegative() {
			return nil, apperr.Validationf("items", "item %d: sale_price must not be negative", i)
		}
	}

	sale := &model.Sale{
		SaleNumber:    model.NewSaleNumber(),
		Status:        model.SaleCompleted,
		CustomerName:  req.CustomerName,
		Contact:       req.Contact,
		PaymentMethod: req.PaymentMethod,
		Remarks:       req.Remarks,
		UserID:        actor.UserID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range req.Items {
			book, err := s.bookRepo.FindByIDTx(tx, item.BookID)
			if err != nil {
				return apperr.Validationf("items", "book %d not found", item.BookID)
			}
			if !book.IsActive {
				return apperr.Validationf("items", "book %q (id %d) is no longer sold", book.Name, book.ID)
			}

			ok, err := s.bookRepo.DecrementStock(tx, book.ID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &apperr.InsufficientStockError{
					BookID:    book.ID,
					BookName:  book.Name,
					Available: book.Quantity,
					Requested: item.Quantity,
				}
			}

			sale.Items = append(sale.Items, model.SaleItem{
				BookID:    book.ID,
				Quantity:  item.Quantity,
				SalePrice: item.SalePrice,
			})
		}

		sale.CalculateTotal()
		if err := s.saleRepo.Create(tx, sale); err != nil {
			return err
		}

		return s.ledgerRepo.Append(tx, &model.Transaction{
			Type:            model.TxIncome,
			Amount:          sale.TotalAmount,
			Description:     fmt.Sprintf("Sale %s", sale.SaleNumber),
			ReferenceID:     sale.ID,
			ReferenceType:   model.RefSale,
			TransactionDate: time.Now().UTC(),
			UserID:          actor.UserID,
		})
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return sale, nil
}

func (s *salesService) GetSale(id uint) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByIDWithItems(id)
	if err != nil {
		return nil, notFoundOr(err, "sale", id)
	}
	return sale, nil
}

func (s *salesService) ListSales(filter repository.SaleFilter) ([]model.Sale, int64, error) {
	sales, total, err := s.saleRepo.List(filter)
	if err != nil {
		return nil, 0, storageErr(err)
	}
	return sales, total, nil
}

// Refund moves COMPLETED -> REFUNDED, restores every item's quantity, and
// appends a reversing EXPENSE entry of the sale's amount, netting the ledger
// back to zero for this sale.
func (s *salesService) Refund(actor model.Identity, id uint) (*model.Sale, error) {
	return s.reverse(actor, id, model.SaleRefunded, model.RefSaleRefund, "refund", "Refund for sale")
}

// Cancel is the alternate terminal exit from COMPLETED. It shares Refund's
// stock restoration and ledger reversal; the guarded transition keeps the two
// mutually exclusive.
func (s *salesService) Cancel(actor model.Identity, id uint) (*model.Sale, error) {
	return s.reverse(actor, id, model.SaleCancelled, model.RefSaleCancel, "cancel", "Cancelled sale")
}

func (s *salesService) reverse(actor model.Identity, id uint, to model.SaleStatus, refType, operation, descPrefix string) (*model.Sale, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		sale, err := s.saleRepo.FindByIDWithItemsTx(tx, id)
		if err != nil {
			return notFoundOr(err, "sale", id)
		}

		ok, err := s.saleRepo.TransitionStatus(tx, id, model.SaleCompleted, to)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.InvalidState("sale", id, string(sale.Status), operation)
		}

		for i := range sale.Items {
			item := &sale.Items[i]
			if err := s.bookRepo.IncrementStock(tx, item.BookID, item.Quantity); err != nil {
				return err
			}
		}

		return s.ledgerRepo.Append(tx, &model.Transaction{
			Type:            model.TxExpense,
			Amount:          sale.TotalAmount,
			Description:     fmt.Sprintf("%s %s", descPrefix, sale.SaleNumber),
			ReferenceID:     sale.ID,
			ReferenceType:   refType,
			TransactionDate: time.Now().UTC(),
			UserID:          actor.UserID,
		})
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return s.GetSale(id)
}
