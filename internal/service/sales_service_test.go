package service_test

import (
	"strings"
	"testing"

	"go-bookstore-api/internal/apperr"
	"go-bookstore-api/internal/model"
	"go-bookstore-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSale_DecrementsStockAndWritesIncome(t *testing.T) {
	env := newTestEnv(t)
	staff := env.seedUser(t, "clerk@test.local", model.RoleStaff)
	book := env.seedBook(t, "978-2-0001", "Bestseller", 20, "49.90")

	sale, err := env.sales.CreateSale(staff, &service.CreateSaleRequest{
		CustomerName:  "Walk-in",
		PaymentMethod: "CASH",
		Items: []service.SaleItemRequest{
			{BookID: book.ID, Quantity: 2, SalePrice: dec("49.90")},
		},
	})
	require.NoError(t, err)

	assert.True(t, sale.TotalAmount.Equal(dec("99.80")), "got total %s", sale.TotalAmount)
	assert.Equal(t, model.SaleCompleted, sale.Status)
	assert.True(t, strings.HasPrefix(sale.SaleNumber, "S-"))
	assert.Equal(t, 18, env.bookQuantity(t, book.ID))

	entries, err := env.ledgerRepo.FindByReference(model.RefSale, sale.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.TxIncome, entries[0].Type)
	assert.True(t, entries[0].Amount.Equal(dec("99.80")))
}

func TestCreateSale_InsufficientStock_NothingCommitted(t *testing.T) {
	env := newTestEnv(t)
	staff := env.seedUser(t, "clerk@test.local", model.RoleStaff)
	book := env.seedBook(t, "978-2-0002", "Scarce", 3, "10.00")

	_, err := env.sales.CreateSale(staff, &service.CreateSaleRequest{
		Items: []service.SaleItemRequest{
			{BookID: book.ID, Quantity: 5, SalePrice: dec("10.00")},
		},
	})
	require.Error(t, err)

	var stockErr *apperr.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, book.ID, stockErr.BookID)
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Shortfall())

	// No partial effects
	assert.Equal(t, 3, env.bookQuantity(t, book.ID))
	assert.Zero(t, env.countRows(t, &model.Sale{}))
	assert.Zero(t, env.countRows(t, &model.Transaction{}))
}

func TestCreateSale_PartialShortfall_RollsBackEarlierItems(t *testing.T) {
	env := newTestEnv(t)
	staff := env.seedUser(t, "clerk@test.local", model.RoleStaff)
	plenty := env.seedBook(t, "978-2-0003", "Plenty", 10, "12.00")
	scarce := env.seedBook(t, "978-2-0004", "Scarce", 1, "12.00")

	_, err := env.sales.CreateSale(staff, &service.CreateSaleRequest{
		Items: []service.SaleItemRequest{
			{BookID: plenty.ID, Quantity: 2, SalePrice: dec("12.00")},
			{BookID: scarce.ID, Quantity: 3, SalePrice: dec("12.00")},
		},
	})
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)

	// The first item's decrement must have been rolled back with the rest
	assert.Equal(t, 10, env.bookQuantity(t, plenty.ID))
	assert.Equal(t, 1, env.bookQuantity(t, scarce.ID))
	assert.Zero(t, env.countRows(t, &model.Sale{}))
	assert.Zero(t, env.countRows(t, &model.SaleItem{}))
	assert.Zero(t, env.countRows(t, &model.Transaction{}))
}

func TestCreateSale_InactiveBook_Rejected(t *testing.T) {
	env := newTestEnv(t)
	staff := env.seedUser(t, "clerk@test.local", model.RoleStaff)
	book := env.seedBook(t, "978-2-0005", "Retired", 5, "10.00")
	require.NoError(t, env.bookRepo.Deactivate(book.ID))

	_, err := env.sales.CreateSale(staff, &service.CreateSaleRequest{
		Items: []service.SaleItemRequest{
			{BookID: book.ID, Quantity: 1, SalePrice: dec("10.00")},
		},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, 5, env.bookQuantity(t, book.ID))
}

func TestCreateSale_EmptyItems_Rejected(t *testing.T) {
	env := newTestEnv(t)
	staff := env.seedUser(t, "clerk@test.local", model.RoleStaff)

	_, err := env.sales.CreateSale(staff, &service.CreateSaleRequest{CustomerName: "Nobody"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRefund_RestoresStockAndReversesLedger(t *testing.T) {
	env := newTestEnv(t)
	staff := env.seedUser(t, "clerk@test.local", model.RoleStaff)
	book := env.seedBook(t, "978-2-0006", "Refundable", 20, "49.90")

	sale, err := env.sales.CreateSale(staff, &service.CreateSaleRequest{
		Items: []service.SaleItemRequest{
			{BookID: book.ID, Quantity: 2, SalePrice: dec("49.90")},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 18, env.bookQuantity(t, book.ID))

	refunded, err := env.sales.Refund(staff, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SaleRefunded, refunded.Status)
	assert.Equal(t, 20, env.bookQuantity(t, book.ID))

	// The reversal is a new EXPENSE entry of the same magnitude; the original
	// INCOME row is untouched and the sale nets to zero.
	income, err := env.ledgerRepo.FindByReference(model.RefSale, sale.ID)
	require.NoError(t, err)
	require.Len(t, income, 1)
	assert.Equal(t, model.TxIncome, income[0].Type)

	reversal, err := env.ledgerRepo.FindByReference(model.RefSaleRefund, sale.ID)
	require.NoError(t, err)
	require.Len(t, reversal, 1)
	assert.Equal(t, model.TxExpense, reversal[0].Type)
	assert.True(t, reversal[0].Amount.Equal(income[0].Amount))
}

func TestRefund_Twice_InvalidState(t *testing.T) {
	env := newTestEnv(t)
	staff := env.seedUser(t, "clerk@test.local", model.RoleStaff)
	book := env.seedBook(t, "978-2-0007", "Once Only", 5, "10.00")

	sale, err := env.sales.CreateSale(staff, &service.CreateSaleRequest{
		Items: []service.SaleItemRequest{
			{BookID: book.ID, Quantity: 1, SalePrice: dec("10.00")},
		},
	})
	require.NoError(t, err)

	_, err = env.sales.Refund(staff, sale.ID)
	require.NoError(t, err)

	_, err = env.sales.Refund(staff, sale.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	// A second refund must not restore stock again
	assert.Equal(t, 5, env.bookQuantity(t, book.ID))
}

func TestCancel_And_Refund_AreMutuallyExclusive(t *testing.T) {
	env := newTestEnv(t)
	staff := env.seedUser(t, "clerk@test.local", model.RoleStaff)
	book := env.seedBook(t, "978-2-0008", "One Exit", 5, "10.00")

	sale, err := env.sales.CreateSale(staff, &service.CreateSaleRequest{
		Items: []service.SaleItemRequest{
			{BookID: book.ID, Quantity: 2, SalePrice: dec("10.00")},
		},
	})
	require.NoError(t, err)

	cancelled, err := env.sales.Cancel(staff, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SaleCancelled, cancelled.Status)
	assert.Equal(t, 5, env.bookQuantity(t, book.ID))

	_, err = env.sales.Refund(staff, sale.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	_, err = env.sales.Cancel(staff, sale.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestCreateSale_LastUnit_OnlyOneSucceeds(t *testing.T) {
	// Two requests against a single remaining copy: the conditional decrement
	// admits exactly one.
	env := newTestEnv(t)
	staff := env.seedUser(t, "clerk@test.local", model.RoleStaff)
	book := env.seedBook(t, "978-2-0009", "Last Copy", 1, "10.00")

	req := &service.CreateSaleRequest{
		Items: []service.SaleItemRequest{
			{BookID: book.ID, Quantity: 1, SalePrice: dec("10.00")},
		},
	}

	_, firstErr := env.sales.CreateSale(staff, req)
	_, secondErr := env.sales.CreateSale(staff, req)

	require.NoError(t, firstErr)
	require.ErrorIs(t, secondErr, apperr.ErrInsufficientStock)

	assert.Equal(t, 0, env.bookQuantity(t, book.ID))
	assert.Equal(t, int64(1), env.countRows(t, &model.Sale{}))
}

func TestDecrementStock_GuardRejectsOverdraw(t *testing.T) {
	env := newTestEnv(t)
	book := env.seedBook(t, "978-2-0010", "Guarded Stock", 1, "10.00")

	ok, err := env.bookRepo.DecrementStock(env.db, book.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	// Stock is now zero: the guard must reject, never go negative
	ok, err = env.bookRepo.DecrementStock(env.db, book.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, env.bookQuantity(t, book.ID))
}

func TestSalePrice_CapturedFromRequestNotCatalog(t *testing.T) {
	env := newTestEnv(t)
	staff := env.seedUser(t, "clerk@test.local", model.RoleStaff)
	book := env.seedBook(t, "978-2-0011", "Discounted", 10, "30.00")

	// Sold below retail; the receipt keeps the charged price
	sale, err := env.sales.CreateSale(staff, &service.CreateSaleRequest{
		Items: []service.SaleItemRequest{
			{BookID: book.ID, Quantity: 1, SalePrice: dec("25.00")},
		},
	})
	require.NoError(t, err)
	assert.True(t, sale.TotalAmount.Equal(dec("25.00")))

	// A later catalog price change must not rewrite history
	book.RetailPrice = dec("99.00")
	require.NoError(t, env.bookRepo.Update(book))

	reloaded, err := env.sales.GetSale(sale.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.True(t, reloaded.Items[0].SalePrice.Equal(dec("25.00")))
	assert.True(t, reloaded.TotalAmount.Equal(dec("25.00")))
}
