package repository

import (
	"time"

	"go-bookstore-api/internal/model"

	"gorm.io/gorm"
)

// SaleFilter narrows and pages the sale listing.
type SaleFilter struct {
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PerPage   int
}

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	FindByIDWithItems(id uint) (*model.Sale, error)
	FindByIDWithItemsTx(tx *gorm.DB, id uint) (*model.Sale, error)
	List(filter SaleFilter) ([]model.Sale, int64, error)
	// TransitionStatus flips status only from the expected current state, so
	// refund and cancel stay mutually exclusive terminal exits.
	TransitionStatus(tx *gorm.DB, id uint, from, to model.SaleStatus) (bool, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) FindByIDWithItems(id uint) (*model.Sale, error) {
	return r.FindByIDWithItemsTx(r.db, id)
}

func (r *saleRepo) FindByIDWithItemsTx(tx *gorm.DB, id uint) (*model.Sale, error) {
	var sale model.Sale
	if err := tx.Preload("Items").Preload("Items.Book").First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) List(filter SaleFilter) ([]model.Sale, int64, error) {
	query := r.db.Model(&model.Sale{})

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
	var sales []model.Sale
	err := query.Preload("Items").Order("created_at DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) TransitionStatus(tx *gorm.DB, id uint, from, to model.SaleStatus) (bool, error) {
	res := tx.Model(&model.Sale{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
