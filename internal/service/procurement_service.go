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

// defaultMarkup prices a new title at 1.5x cost when no suggested retail
// price was given at order time.
var defaultMarkup = decimal.NewFromFloat(1.5)

// OrderItemRequest is one line of a new purchase order. Either BookID points
// at an existing title, or ISBN+Title (plus optional author/publisher)
// describe a new one to be created at stock-in.
type OrderItemRequest struct {
	BookID               *uint            `json:"book_id"`
	ISBN                 string           `json:"isbn"`
	Title                string           `json:"title"`
	Author               string           `json:"author"`
	Publisher            string           `json:"publisher"`
	Quantity             int              `json:"quantity" validate:"required,gt=0"`
	PurchasePrice        decimal.Decimal  `json:"purchase_price"`
	SuggestedRetailPrice *decimal.Decimal `json:"suggested_retail_price"`
}

type CreateOrderRequest struct {
	Supplier string             `json:"supplier"`
	Remarks  string             `json:"remarks"`
	Items    []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderMetadataPatch updates supplier/remarks on an UNPAID order. Nil fields
// are left alone; items are not touchable through any update path.
type OrderMetadataPatch struct {
	Supplier *string `json:"supplier"`
	Remarks  *string `json:"remarks"`
}

type ProcurementService interface {
	CreateOrder(actor model.Identity, req *CreateOrderRequest) (*model.PurchaseOrder, error)
	GetOrder(id uint) (*model.PurchaseOrder, error)
	ListOrders(filter repository.OrderFilter) ([]model.PurchaseOrder, int64, error)
	UpdateMetadata(actor model.Identity, id uint, patch *OrderMetadataPatch) (*model.PurchaseOrder, error)
	Pay(actor model.Identity, id uint) (*model.PurchaseOrder, error)
	Return(actor model.Identity, id uint) (*model.PurchaseOrder, error)
	StockIn(actor model.Identity, id uint) (*model.PurchaseOrder, error)
}

type procurementService struct {
	orderRepo  repository.PurchaseOrderRepository
	bookRepo   repository.BookRepository
	ledgerRepo repository.LedgerRepository
	db         *gorm.DB
}

func NewProcurementService(
	orderRepo repository.PurchaseOrderRepository,
	bookRepo repository.BookRepository,
	ledgerRepo repository.LedgerRepository,
	db *gorm.DB,
) ProcurementService {
	return &procurementService{
		orderRepo:  orderRepo,
		bookRepo:   bookRepo,
		ledgerRepo: ledgerRepo,
		db:         db,
	}
}

func (s *procurementService) CreateOrder(actor model.Identity, req *CreateOrderRequest) (*model.PurchaseOrder, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("items", validator.FirstError(errs))
	}

	for i := range req.Items {
		item := &req.Items[i]
		if item.PurchasePrice.IsNegative() {
			return nil, apperr.Validationf("items", "item %d: purchase_price must not be negative", i)
		}
		if item.BookID == nil {
			// New title: needs enough bibliographic data to create the Book later
			if item.ISBN == "" || item.Title == "" {
				return nil, apperr.Validationf("items", "item %d: new titles require isbn and title", i)
			}
		} else {
			if _, err := s.bookRepo.FindByID(*item.BookID); err != nil {
				return nil, notFoundOr(err, "book", *item.BookID)
			}
		}
	}

	order := &model.PurchaseOrder{
		OrderNumber: model.NewOrderNumber(),
		Status:      model.OrderUnpaid,
		Supplier:    req.Supplier,
		Remarks:     req.Remarks,
		UserID:      actor.UserID,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, model.PurchaseOrderItem{
			BookID:               item.BookID,
			ISBN:                 item.ISBN,
			Title:                item.Title,
			Author:               item.Author,
			Publisher:            item.Publisher,
			Quantity:             item.Quantity,
			PurchasePrice:        item.PurchasePrice,
			SuggestedRetailPrice: item.SuggestedRetailPrice,
		})
	}
	order.CalculateTotal()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.Create(tx, order)
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return order, nil
}

func (s *procurementService) GetOrder(id uint) (*model.PurchaseOrder, error) {
	order, err := s.orderRepo.FindByIDWithItems(id)
	if err != nil {
		return nil, notFoundOr(err, "purchase order", id)
	}
	return order, nil
}

func (s *procurementService) ListOrders(filter repository.OrderFilter) ([]model.PurchaseOrder, int64, error) {
	orders, total, err := s.orderRepo.List(filter)
	if err != nil {
		return nil, 0, storageErr(err)
	}
	return orders, total, nil
}

func (s *procurementService) UpdateMetadata(actor model.Identity, id uint, patch *OrderMetadataPatch) (*model.PurchaseOrder, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIDWithItemsTx(tx, id)
		if err != nil {
			return notFoundOr(err, "purchase order", id)
		}
		if order.Status != model.OrderUnpaid {
			return apperr.InvalidState("purchase order", id, string(order.Status), "update")
		}

		supplier := order.Supplier
		remarks := order.Remarks
		if patch.Supplier != nil {
			supplier = *patch.Supplier
		}
		if patch.Remarks != nil {
			remarks = *patch.Remarks
		}
		return s.orderRepo.UpdateMetadata(tx, id, supplier, remarks)
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return s.GetOrder(id)
}

// Pay moves UNPAID -> PAID and writes the order's single EXPENSE entry.
// Money moves exactly once per order: the guarded status update makes a
// concurrent double-pay fail with InvalidStateError.
func (s *procurementService) Pay(actor model.Identity, id uint) (*model.PurchaseOrder, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIDWithItemsTx(tx, id)
		if err != nil {
			return notFoundOr(err, "purchase order", id)
		}

		ok, err := s.orderRepo.TransitionStatus(tx, id, model.OrderUnpaid, model.OrderPaid)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.InvalidState("purchase order", id, string(order.Status), "pay")
		}

		return s.ledgerRepo.Append(tx, &model.Transaction{
			Type:            model.TxExpense,
			Amount:          order.TotalAmount,
			Description:     fmt.Sprintf("Payment for purchase order %s", order.OrderNumber),
			ReferenceID:     order.ID,
			ReferenceType:   model.RefPurchaseOrder,
			TransactionDate: time.Now().UTC(),
			UserID:          actor.UserID,
		})
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return s.GetOrder(id)
}

// Return moves UNPAID -> RETURNED. Nothing was paid or stocked, so there is
// no ledger or inventory effect.
func (s *procurementService) Return(actor model.Identity, id uint) (*model.PurchaseOrder, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIDWithItemsTx(tx, id)
		if err != nil {
			return notFoundOr(err, "purchase order", id)
		}

		ok, err := s.orderRepo.TransitionStatus(tx, id, model.OrderUnpaid, model.OrderReturned)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.InvalidState("purchase order", id, string(order.Status), "return")
		}
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return s.GetOrder(id)
}

// StockIn moves PAID -> STOCKED and applies every item's inventory effect in
// the same transaction: existing titles gain quantity (and optionally a new
// retail price), new titles are created and bound back onto their item.
// Either all item effects and the status change land together, or none do.
func (s *procurementService) StockIn(actor model.Identity, id uint) (*model.PurchaseOrder, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIDWithItemsTx(tx, id)
		if err != nil {
			return notFoundOr(err, "purchase order", id)
		}

		ok, err := s.orderRepo.TransitionStatus(tx, id, model.OrderPaid, model.OrderStocked)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.InvalidState("purchase order", id, string(order.Status), "stock-in")
		}

		for i := range order.Items {
			item := &order.Items[i]
			if item.BookID != nil {
				if err := s.bookRepo.IncrementStock(tx, *item.BookID, item.Quantity); err != nil {
					return err
				}
				if item.SuggestedRetailPrice != nil {
					if err := s.bookRepo.SetRetailPrice(tx, *item.BookID, *item.SuggestedRetailPrice); err != nil {
						return err
					}
				}
				continue
			}

			retail := item.PurchasePrice.Mul(defaultMarkup)
			if item.SuggestedRetailPrice != nil {
				retail = *item.SuggestedRetailPrice
			}
			book := &model.Book{
				ISBN:        item.ISBN,
				Name:        item.Title,
				Author:      item.Author,
				Publisher:   item.Publisher,
				RetailPrice: retail,
				Quantity:    item.Quantity,
				IsActive:    true,
			}
			if err := s.bookRepo.CreateTx(tx, book); err != nil {
				return err
			}
			if err := s.orderRepo.BindItemBook(tx, item.ID, book.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return s.GetOrder(id)
}
