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

func TestCreateOrder_ComputesTotalFromItems(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)
	book := env.seedBook(t, "978-0-1111", "Existing Title", 10, "30.00")

	order, err := env.procurement.CreateOrder(admin, &service.CreateOrderRequest{
		Supplier: "Acme Books",
		Items: []service.OrderItemRequest{
			{BookID: uintPtr(book.ID), Quantity: 3, PurchasePrice: dec("10.50")},
			{ISBN: "978-0-2222", Title: "New Title", Quantity: 2, PurchasePrice: dec("7.25")},
		},
	})
	require.NoError(t, err)

	// 3 x 10.50 + 2 x 7.25 = 46.00
	assert.True(t, order.TotalAmount.Equal(dec("46.00")), "got total %s", order.TotalAmount)
	assert.Equal(t, model.OrderUnpaid, order.Status)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "PO-"))
	assert.Len(t, order.Items, 2)
	assert.Equal(t, admin.UserID, order.UserID)
}

func TestCreateOrder_EmptyItems_Rejected(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)

	_, err := env.procurement.CreateOrder(admin, &service.CreateOrderRequest{Supplier: "Acme"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateOrder_UnknownBook_NotFound(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)

	_, err := env.procurement.CreateOrder(admin, &service.CreateOrderRequest{
		Items: []service.OrderItemRequest{
			{BookID: uintPtr(9999), Quantity: 1, PurchasePrice: dec("5.00")},
		},
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateOrder_NewTitleWithoutBibliography_Rejected(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)

	// No book_id and no ISBN/title: nothing to create the Book from later
	_, err := env.procurement.CreateOrder(admin, &service.CreateOrderRequest{
		Items: []service.OrderItemRequest{
			{Quantity: 1, PurchasePrice: dec("5.00")},
		},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateOrder_NegativePrice_Rejected(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)

	_, err := env.procurement.CreateOrder(admin, &service.CreateOrderRequest{
		Items: []service.OrderItemRequest{
			{ISBN: "978-0-3333", Title: "Cheap", Quantity: 1, PurchasePrice: dec("-1.00")},
		},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateMetadata_OnlyWhileUnpaid(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)

	order, err := env.procurement.CreateOrder(admin, &service.CreateOrderRequest{
		Supplier: "Old Supplier",
		Items: []service.OrderItemRequest{
			{ISBN: "978-0-4444", Title: "Some Title", Quantity: 1, PurchasePrice: dec("5.00")},
		},
	})
	require.NoError(t, err)

	supplier := "New Supplier"
	updated, err := env.procurement.UpdateMetadata(admin, order.ID, &service.OrderMetadataPatch{Supplier: &supplier})
	require.NoError(t, err)
	assert.Equal(t, "New Supplier", updated.Supplier)
	assert.Equal(t, order.Remarks, updated.Remarks)

	_, err = env.procurement.Pay(admin, order.ID)
	require.NoError(t, err)

	_, err = env.procurement.UpdateMetadata(admin, order.ID, &service.OrderMetadataPatch{Supplier: &supplier})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestPay_WritesExactlyOneExpense(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)

	order, err := env.procurement.CreateOrder(admin, &service.CreateOrderRequest{
		Items: []service.OrderItemRequest{
			{ISBN: "978-0-5555", Title: "Ledger Test", Quantity: 4, PurchasePrice: dec("12.00")},
		},
	})
	require.NoError(t, err)

	paid, err := env.procurement.Pay(admin, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPaid, paid.Status)

	entries, err := env.ledgerRepo.FindByReference(model.RefPurchaseOrder, order.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.TxExpense, entries[0].Type)
	assert.True(t, entries[0].Amount.Equal(dec("48.00")), "got amount %s", entries[0].Amount)

	// Re-paying must fail and must not add another entry
	_, err = env.procurement.Pay(admin, order.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	entries, err = env.ledgerRepo.FindByReference(model.RefPurchaseOrder, order.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReturn_OnlyFromUnpaid(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)

	order, err := env.procurement.CreateOrder(admin, &service.CreateOrderRequest{
		Items: []service.OrderItemRequest{
			{ISBN: "978-0-6666", Title: "Returnable", Quantity: 1, PurchasePrice: dec("9.00")},
		},
	})
	require.NoError(t, err)

	returned, err := env.procurement.Return(admin, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderReturned, returned.Status)

	// RETURNED is terminal: no payment, no second return
	_, err = env.procurement.Pay(admin, order.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	_, err = env.procurement.Return(admin, order.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	// Nothing ever moved money
	entries, err := env.ledgerRepo.FindByReference(model.RefPurchaseOrder, order.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStockIn_IncrementsExistingAndCreatesNewTitles(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)
	book := env.seedBook(t, "978-0-7777", "Known Title", 10, "20.00")

	order, err := env.procurement.CreateOrder(admin, &service.CreateOrderRequest{
		Items: []service.OrderItemRequest{
			{BookID: uintPtr(book.ID), Quantity: 5, PurchasePrice: dec("8.00"), SuggestedRetailPrice: decPtr("22.50")},
			{ISBN: "978-0-8888", Title: "Brand New", Author: "A. Author", Publisher: "P. Press", Quantity: 3, PurchasePrice: dec("6.00"), SuggestedRetailPrice: decPtr("15.00")},
		},
	})
	require.NoError(t, err)

	_, err = env.procurement.Pay(admin, order.ID)
	require.NoError(t, err)

	stocked, err := env.procurement.StockIn(admin, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStocked, stocked.Status)

	// Existing title: stock up, retail price overwritten
	refreshed, err := env.bookRepo.FindByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, refreshed.Quantity)
	assert.True(t, refreshed.RetailPrice.Equal(dec("22.50")))

	// New title: created with ordered quantity and bound back onto the item
	created, err := env.bookRepo.FindByISBN("978-0-8888")
	require.NoError(t, err)
	assert.Equal(t, 3, created.Quantity)
	assert.True(t, created.RetailPrice.Equal(dec("15.00")))
	assert.True(t, created.IsActive)

	for _, item := range stocked.Items {
		require.NotNil(t, item.BookID)
	}
}

func TestStockIn_DefaultMarkupWhenNoSuggestedPrice(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)

	order, err := env.procurement.CreateOrder(admin, &service.CreateOrderRequest{
		Items: []service.OrderItemRequest{
			{ISBN: "978-0-9999", Title: "Unpriced", Quantity: 2, PurchasePrice: dec("10.00")},
		},
	})
	require.NoError(t, err)

	_, err = env.procurement.Pay(admin, order.ID)
	require.NoError(t, err)
	_, err = env.procurement.StockIn(admin, order.ID)
	require.NoError(t, err)

	created, err := env.bookRepo.FindByISBN("978-0-9999")
	require.NoError(t, err)
	// 10.00 x 1.5
	assert.True(t, created.RetailPrice.Equal(dec("15.00")), "got retail %s", created.RetailPrice)
}

func TestStockIn_OnlyFromPaid(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)
	book := env.seedBook(t, "978-1-0000", "Guarded", 10, "20.00")

	order, err := env.procurement.CreateOrder(admin, &service.CreateOrderRequest{
		Items: []service.OrderItemRequest{
			{BookID: uintPtr(book.ID), Quantity: 5, PurchasePrice: dec("8.00")},
		},
	})
	require.NoError(t, err)

	_, err = env.procurement.StockIn(admin, order.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	// Failed stock-in must not touch inventory
	assert.Equal(t, 10, env.bookQuantity(t, book.ID))
}

func TestProcurement_EndToEndScenario(t *testing.T) {
	// Create 1 item (qty=5, purchase_price=25.00) -> total 125.00; pay ->
	// PAID + one EXPENSE(125.00); stock-in of a new title -> Book with
	// quantity=5, STOCKED; return now fails.
	env := newTestEnv(t)
	admin := env.seedAdmin(t)

	order, err := env.procurement.CreateOrder(admin, &service.CreateOrderRequest{
		Supplier: "End To End Books",
		Items: []service.OrderItemRequest{
			{ISBN: "978-1-1111", Title: "Scenario", Quantity: 5, PurchasePrice: dec("25.00")},
		},
	})
	require.NoError(t, err)
	require.True(t, order.TotalAmount.Equal(dec("125.00")), "got total %s", order.TotalAmount)

	paid, err := env.procurement.Pay(admin, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPaid, paid.Status)

	entries, err := env.ledgerRepo.FindByReference(model.RefPurchaseOrder, order.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.TxExpense, entries[0].Type)
	assert.True(t, entries[0].Amount.Equal(dec("125.00")))

	stocked, err := env.procurement.StockIn(admin, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStocked, stocked.Status)

	created, err := env.bookRepo.FindByISBN("978-1-1111")
	require.NoError(t, err)
	assert.Equal(t, 5, created.Quantity)

	_, err = env.procurement.Return(admin, order.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}
