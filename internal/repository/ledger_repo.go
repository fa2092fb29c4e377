package repository

import (
	"time"

	"go-bookstore-api/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerFilter narrows and pages the transaction listing.
type LedgerFilter struct {
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PerPage   int
}

// DailyTrendPoint aggregates ledger movement for one calendar day.
type DailyTrendPoint struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// DashboardStats is the storefront overview.
type DashboardStats struct {
	ActiveTitles   int64           `json:"active_titles"`
	LowStockCount  int64           `json:"low_stock_count"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
}

// LedgerRepository is append-only: entries are written once inside an engine
// transaction and never updated or deleted afterwards.
type LedgerRepository interface {
	Append(tx *gorm.DB, entry *model.Transaction) error
	List(filter LedgerFilter) ([]model.Transaction, int64, error)
	FindByReference(refType string, refID uint) ([]model.Transaction, error)
	SumByType(txType model.TransactionType, start, end time.Time) (decimal.Decimal, error)
	DailyTrend(start, end time.Time) ([]DailyTrendPoint, error)
	GetDashboardStats() (*DashboardStats, error)
}

type ledgerRepo struct {
	db *gorm.DB
}

func NewLedgerRepo(db *gorm.DB) LedgerRepository {
	return &ledgerRepo{db}
}

func (r *ledgerRepo) Append(tx *gorm.DB, entry *model.Transaction) error {
	return tx.Create(entry).Error
}

func (r *ledgerRepo) List(filter LedgerFilter) ([]model.Transaction, int64, error) {
	query := r.db.Model(&model.Transaction{})

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.StartDate != nil {
		query = query.Where("transaction_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("transaction_date <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, perPage := normalizePage(filter.Page, filter.PerPage)
	var entries []model.Transaction
	err := query.Order("transaction_date DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&entries).Error
	return entries, total, err
}

func (r *ledgerRepo) FindByReference(refType string, refID uint) ([]model.Transaction, error) {
	var entries []model.Transaction
	err := r.db.Where("reference_type = ? AND reference_id = ?", refType, refID).
		Order("transaction_date ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) SumByType(txType model.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.Transaction{}).
		Where("type = ? AND transaction_date BETWEEN ? AND ?", txType, start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *ledgerRepo) DailyTrend(start, end time.Time) ([]DailyTrendPoint, error) {
	rows, err := r.db.Model(&model.Transaction{}).
		Select(`
			DATE(transaction_date) as date,
			COALESCE(SUM(CASE WHEN type = 'INCOME' THEN amount ELSE 0 END), 0) as income,
			COALESCE(SUM(CASE WHEN type = 'EXPENSE' THEN amount ELSE 0 END), 0) as expense
		`).
		Where("transaction_date BETWEEN ? AND ?", start, end).
		Group("DATE(transaction_date)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []DailyTrendPoint
	for rows.Next() {
		var point DailyTrendPoint
		if err := rows.Scan(&point.Date, &point.Income, &point.Expense); err != nil {
			return nil, err
		}
		results = append(results, point)
	}
	return results, rows.Err()
}

func (r *ledgerRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	if err := r.db.Model(&model.Book{}).Where("is_active = ?", true).
		Count(&stats.ActiveTitles).Error; err != nil {
		return nil, err
	}

	// Low stock threshold: fewer than 10 copies on hand
	if err := r.db.Model(&model.Book{}).Where("is_active = ? AND quantity < ?", true, 10).
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&model.Book{}).Where("is_active = ?", true).
		Select("COALESCE(SUM(quantity * retail_price), 0)").
		Scan(&stats.TotalValuation).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
