package repository

import (
	"go-bookstore-api/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookFilter narrows and pages a catalog search.
type BookFilter struct {
	Query      string // matches name, author or ISBN substring
	ActiveOnly bool
	Page       int
	PerPage    int
}

type BookRepository interface {
	Create(book *model.Book) error
	CreateTx(tx *gorm.DB, book *model.Book) error
	FindByID(id uint) (*model.Book, error)
	FindByIDTx(tx *gorm.DB, id uint) (*model.Book, error)
	FindByISBN(isbn string) (*model.Book, error)
	Search(filter BookFilter) ([]model.Book, int64, error)
	Update(book *model.Book) error
	Deactivate(id uint) error
	// IncrementStock adds qty to the book's quantity atomically.
	IncrementStock(tx *gorm.DB, id uint, qty int) error
	// DecrementStock subtracts qty only if enough stock remains, in a single
	// conditional UPDATE. Returns false when the guard rejected the decrement,
	// so concurrent sales of the last unit cannot both succeed.
	DecrementStock(tx *gorm.DB, id uint, qty int) (bool, error)
	SetRetailPrice(tx *gorm.DB, id uint, price decimal.Decimal) error
}

type bookRepo struct {
	db *gorm.DB
}

func NewBookRepo(db *gorm.DB) BookRepository {
	return &bookRepo{db}
}

func (r *bookRepo) Create(book *model.Book) error {
	return r.db.Create(book).Error
}

func (r *bookRepo) CreateTx(tx *gorm.DB, book *model.Book) error {
	return tx.Create(book).Error
}

func (r *bookRepo) FindByID(id uint) (*model.Book, error) {
	return r.FindByIDTx(r.db, id)
}

func (r *bookRepo) FindByIDTx(tx *gorm.DB, id uint) (*model.Book, error) {
	var book model.Book
	if err := tx.First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepo) FindByISBN(isbn string) (*model.Book, error) {
	var book model.Book
	if err := r.db.First(&book, "isbn = ?", isbn).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepo) Search(filter BookFilter) ([]model.Book, int64, error) {
	query := r.db.Model(&model.Book{})

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where("name LIKE ? OR author LIKE ? OR isbn LIKE ?", like, like, like)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, perPage := normalizePage(filter.Page, filter.PerPage)
	var books []model.Book
	err := query.Order("name ASC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&books).Error
	return books, total, err
}

func (r *bookRepo) Update(book *model.Book) error {
	return r.db.Save(book).Error
}

func (r *bookRepo) Deactivate(id uint) error {
	return r.db.Model(&model.Book{}).Where("id = ?", id).Update("is_active", false).Error
}

func (r *bookRepo) IncrementStock(tx *gorm.DB, id uint, qty int) error {
	return tx.Model(&model.Book{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", qty)).Error
}

func (r *bookRepo) DecrementStock(tx *gorm.DB, id uint, qty int) (bool, error) {
	res := tx.Model(&model.Book{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *bookRepo) SetRetailPrice(tx *gorm.DB, id uint, price decimal.Decimal) error {
	return tx.Model(&model.Book{}).
		Where("id = ?", id).
		Update("retail_price", price).Error
}

// normalizePage applies the default page size and clamps bad input.
func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}
