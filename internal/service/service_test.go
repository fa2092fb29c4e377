package service_test

import (
	"testing"

	"go-bookstore-api/internal/model"
	"go-bookstore-api/internal/repository"
	"go-bookstore-api/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Book{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Transaction{},
		&model.User{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type testEnv struct {
	db          *gorm.DB
	bookRepo    repository.BookRepository
	orderRepo   repository.PurchaseOrderRepository
	saleRepo    repository.SaleRepository
	ledgerRepo  repository.LedgerRepository
	userRepo    repository.UserRepository
	procurement service.ProcurementService
	sales       service.SalesService
	catalog     service.CatalogService
	reports     service.ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	bookRepo := repository.NewBookRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	ledgerRepo := repository.NewLedgerRepo(db)
	userRepo := repository.NewUserRepo(db)

	return &testEnv{
		db:          db,
		bookRepo:    bookRepo,
		orderRepo:   orderRepo,
		saleRepo:    saleRepo,
		ledgerRepo:  ledgerRepo,
		userRepo:    userRepo,
		procurement: service.NewProcurementService(orderRepo, bookRepo, ledgerRepo, db),
		sales:       service.NewSalesService(saleRepo, bookRepo, ledgerRepo, db),
		catalog:     service.NewCatalogService(bookRepo),
		reports:     service.NewReportService(ledgerRepo),
	}
}

func (e *testEnv) seedUser(t *testing.T, email, role string) model.Identity {
	t.Helper()
	user := &model.User{
		Email:    email,
		FullName: "Test User",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, e.userRepo.Create(user))
	return model.Identity{UserID: user.ID, Email: user.Email, Name: user.FullName, Role: user.Role}
}

func (e *testEnv) seedAdmin(t *testing.T) model.Identity {
	return e.seedUser(t, "admin@test.local", model.RoleAdmin)
}

func (e *testEnv) seedBook(t *testing.T, isbn, name string, qty int, retail string) *model.Book {
	t.Helper()
	book := &model.Book{
		ISBN:        isbn,
		Name:        name,
		Author:      "Test Author",
		Publisher:   "Test Press",
		RetailPrice: dec(retail),
		Quantity:    qty,
		IsActive:    true,
	}
	require.NoError(t, e.bookRepo.Create(book))
	return book
}

func (e *testEnv) bookQuantity(t *testing.T, id uint) int {
	t.Helper()
	book, err := e.bookRepo.FindByID(id)
	require.NoError(t, err)
	return book.Quantity
}

func (e *testEnv) countRows(t *testing.T, value interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(value).Count(&count).Error)
	return count
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func uintPtr(v uint) *uint { return &v }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}
