package service

import (
	"errors"

	"go-bookstore-api/internal/apperr"
	"go-bookstore-api/internal/model"
	"go-bookstore-api/internal/repository"
	"go-bookstore-api/pkg/validator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateBookRequest struct {
	ISBN        string          `json:"isbn" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Author      string          `json:"author"`
	Publisher   string          `json:"publisher"`
	RetailPrice decimal.Decimal `json:"retail_price"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
}

// BookPatch updates catalog metadata. Nil fields are left alone. Quantity is
// deliberately absent: stock only moves through sales, stock-in and refunds.
type BookPatch struct {
	Name        *string          `json:"name"`
	Author      *string          `json:"author"`
	Publisher   *string          `json:"publisher"`
	RetailPrice *decimal.Decimal `json:"retail_price"`
	IsActive    *bool            `json:"is_active"`
}

type CatalogService interface {
	CreateBook(actor model.Identity, req *CreateBookRequest) (*model.Book, error)
	GetBook(id uint) (*model.Book, error)
	ListBooks(filter repository.BookFilter) ([]model.Book, int64, error)
	UpdateBook(actor model.Identity, id uint, patch *BookPatch) (*model.Book, error)
	DeactivateBook(actor model.Identity, id uint) error
}

type catalogService struct {
	bookRepo repository.BookRepository
}

func NewCatalogService(bookRepo repository.BookRepository) CatalogService {
	return &catalogService{bookRepo: bookRepo}
}

func (s *catalogService) CreateBook(actor model.Identity, req *CreateBookRequest) (*model.Book, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("book", validator.FirstError(errs))
	}
	if req.RetailPrice.IsNegative() {
		return nil, apperr.Validation("retail_price", "must not be negative")
	}

	if existing, err := s.bookRepo.FindByISBN(req.ISBN); err == nil && existing != nil {
		return nil, apperr.Validationf("isbn", "ISBN %s already exists", req.ISBN)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageErr(err)
	}

	book := &model.Book{
		ISBN:        req.ISBN,
		Name:        req.Name,
		Author:      req.Author,
		Publisher:   req.Publisher,
		RetailPrice: req.RetailPrice,
		Quantity:    req.Quantity,
		IsActive:    true,
	}
	if err := s.bookRepo.Create(book); err != nil {
		return nil, storageErr(err)
	}
	return book, nil
}

func (s *catalogService) GetBook(id uint) (*model.Book, error) {
	book, err := s.bookRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "book", id)
	}
	return book, nil
}

func (s *catalogService) ListBooks(filter repository.BookFilter) ([]model.Book, int64, error) {
	books, total, err := s.bookRepo.Search(filter)
	if err != nil {
		return nil, 0, storageErr(err)
	}
	return books, total, nil
}

func (s *catalogService) UpdateBook(actor model.Identity, id uint, patch *BookPatch) (*model.Book, error) {
	book, err := s.bookRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "book", id)
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, apperr.Validation("name", "must not be empty")
		}
		book.Name = *patch.Name
	}
	if patch.Author != nil {
		book.Author = *patch.Author
	}
	if patch.Publisher != nil {
		book.Publisher = *patch.Publisher
	}
	if patch.RetailPrice != nil {
		if patch.RetailPrice.IsNegative() {
			return nil, apperr.Validation("retail_price", "must not be negative")
		}
		book.RetailPrice = *patch.RetailPrice
	}
	if patch.IsActive != nil {
		book.IsActive = *patch.IsActive
	}

	if err := s.bookRepo.Update(book); err != nil {
		return nil, storageErr(err)
	}
	return book, nil
}

// DeactivateBook soft-deletes: the row stays so past orders and sales keep
// their references.
func (s *catalogService) DeactivateBook(actor model.Identity, id uint) error {
	if _, err := s.bookRepo.FindByID(id); err != nil {
		return notFoundOr(err, "book", id)
	}
	return storageErr(s.bookRepo.Deactivate(id))
}
