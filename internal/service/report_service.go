package service

import (
	"time"

	"go-bookstore-api/internal/model"
	"go-bookstore-api/internal/repository"

	"github.com/shopspring/decimal"
)

// FinancialSummary aggregates the ledger over a date range.
type FinancialSummary struct {
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Income    decimal.Decimal `json:"income"`
	Expense   decimal.Decimal `json:"expense"`
	Net       decimal.Decimal `json:"net"`
}

type ReportService interface {
	GetFinancialSummary(start, end time.Time) (*FinancialSummary, error)
	GetDailyTrend(days int) ([]repository.DailyTrendPoint, error)
	GetDashboardStats() (*repository.DashboardStats, error)
	ListTransactions(filter repository.LedgerFilter) ([]model.Transaction, int64, error)
}

type reportService struct {
	ledgerRepo repository.LedgerRepository
}

func NewReportService(ledgerRepo repository.LedgerRepository) ReportService {
	return &reportService{ledgerRepo: ledgerRepo}
}

func (s *reportService) GetFinancialSummary(start, end time.Time) (*FinancialSummary, error) {
	income, err := s.ledgerRepo.SumByType(model.TxIncome, start, end)
	if err != nil {
		return nil, storageErr(err)
	}
	expense, err := s.ledgerRepo.SumByType(model.TxExpense, start, end)
	if err != nil {
		return nil, storageErr(err)
	}

	return &FinancialSummary{
		StartDate: start,
		EndDate:   end,
		Income:    income,
		Expense:   expense,
		Net:       income.Sub(expense),
	}, nil
}

func (s *reportService) GetDailyTrend(days int) ([]repository.DailyTrendPoint, error) {
	if days < 1 {
		days = 7
	}
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	trend, err := s.ledgerRepo.DailyTrend(start, end)
	if err != nil {
		return nil, storageErr(err)
	}
	return trend, nil
}

func (s *reportService) GetDashboardStats() (*repository.DashboardStats, error) {
	stats, err := s.ledgerRepo.GetDashboardStats()
	if err != nil {
		return nil, storageErr(err)
	}
	return stats, nil
}

func (s *reportService) ListTransactions(filter repository.LedgerFilter) ([]model.Transaction, int64, error) {
	entries, total, err := s.ledgerRepo.List(filter)
	if err != nil {
		return nil, 0, storageErr(err)
	}
	return entries, total, nil
}
