package repository

import (
	"time"

	"go-bookstore-api/internal/model"

	"gorm.io/gorm"
)

// OrderFilter narrows and pages the purchase-order listing.
type OrderFilter struct {
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PerPage   int
}

type PurchaseOrderRepository interface {
	Create(tx *gorm.DB, order *model.PurchaseOrder) error
	// FindByIDWithItems returns the fully populated aggregate; items are never
	// lazy-loaded.
	FindByIDWithItems(id uint) (*model.PurchaseOrder, error)
	FindByIDWithItemsTx(tx *gorm.DB, id uint) (*model.PurchaseOrder, error)
	List(filter OrderFilter) ([]model.PurchaseOrder, int64, error)
	// TransitionStatus flips status only when the current status still matches
	// from, in one guarded UPDATE. Returns false if another request got there
	// first or the order is in a different state.
	TransitionStatus(tx *gorm.DB, id uint, from, to model.OrderStatus) (bool, error)
	UpdateMetadata(tx *gorm.DB, id uint, supplier, remarks string) error
	BindItemBook(tx *gorm.DB, itemID, bookID uint) error
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) PurchaseOrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(tx *gorm.DB, order *model.PurchaseOrder) error {
	return tx.Create(order).Error
}

func (r *orderRepo) FindByIDWithItems(id uint) (*model.PurchaseOrder, error) {
	return r.FindByIDWithItemsTx(r.db, id)
}

func (r *orderRepo) FindByIDWithItemsTx(tx *gorm.DB, id uint) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	if err := tx.Preload("Items").Preload("Items.Book").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) List(filter OrderFilter) ([]model.PurchaseOrder, int64, error) {
	query := r.db.Model(&model.PurchaseOrder{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, perPage := normalizePage(filter.Page, filter.PerPage)
	var orders []model.PurchaseOrder
	err := query.Preload("Items").Order("created_at DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) TransitionStatus(tx *gorm.DB, id uint, from, to model.OrderStatus) (bool, error) {
	res := tx.Model(&model.PurchaseOrder{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *orderRepo) UpdateMetadata(tx *gorm.DB, id uint, supplier, remarks string) error {
	return tx.Model(&model.PurchaseOrder{}).
		Where("id = ?", id).
		Select("supplier", "remarks").
		Updates(&model.PurchaseOrder{Supplier: supplier, Remarks: remarks}).Error
}

func (r *orderRepo) BindItemBook(tx *gorm.DB, itemID, bookID uint) error {
	return tx.Model(&model.PurchaseOrderItem{}).
		Where("id = ?", itemID).
		Update("book_id", bookID).Error
}
