package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopbook/backend/internal/domain/catalog"
	"github.com/shopbook/backend/internal/domain/finance"
	"github.com/shopbook/backend/internal/domain/identity"
	"github.com/shopbook/backend/internal/domain/shared"
	"github.com/shopbook/backend/internal/domain/trade"
	"github.com/shopbook/backend/internal/infrastructure/blob"
	"github.com/shopbook/backend/internal/storage"
	"github.com/shopbook/backend/internal/storage/localstore"
)

func newBackend(t *testing.T) storage.Backend {
	t.Helper()
	backend, err := localstore.OpenInMemory("tenant-a")
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func newStore(t *testing.T, opts ...storage.Option) *storage.DataStore {
	t.Helper()
	return storage.NewDataStore(newBackend(t), blob.NewInlineStore(), opts...)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func mustProduct(t *testing.T, barcode, name string, quantity int, costs []catalog.CostItem, rates catalog.ExchangeRates) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(barcode, name, quantity, 2, decimal.NewFromInt(20), costs, rates)
	require.NoError(t, err)
	return p
}

func tomanCost(amount int64) []catalog.CostItem {
	return []catalog.CostItem{{Title: "purchase", Amount: decimal.NewFromInt(amount), Currency: catalog.CurrencyToman}}
}

func TestDataStore_Products(t *testing.T) {
	ctx := context.Background()

	t.Run("add and look up by barcode", func(t *testing.T) {
		store := newStore(t)
		p := mustProduct(t, "8901", "Green Tea", 10, tomanCost(500), nil)
		require.NoError(t, store.AddProduct(ctx, p))

		got, err := store.ProductByBarcode(ctx, "8901")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Green Tea", got.Name)
		assert.Equal(t, 10, got.Quantity)
		assert.True(t, got.SellingPrice.Equal(decimal.NewFromInt(600)))
	})

	t.Run("missing barcode returns nil without error", func(t *testing.T) {
		store := newStore(t)
		got, err := store.ProductByBarcode(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("duplicate barcode is rejected", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.AddProduct(ctx, mustProduct(t, "8901", "Green Tea", 10, tomanCost(500), nil)))

		err := store.AddProduct(ctx, mustProduct(t, "8901", "Other", 1, tomanCost(100), nil))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("update rekeys when the barcode changed", func(t *testing.T) {
		store := newStore(t)
		p := mustProduct(t, "old-code", "Green Tea", 10, tomanCost(500), nil)
		require.NoError(t, store.AddProduct(ctx, p))

		p.Barcode = "new-code"
		require.NoError(t, store.UpdateProduct(ctx, "old-code", p))

		gone, err := store.ProductByBarcode(ctx, "old-code")
		require.NoError(t, err)
		assert.Nil(t, gone)

		moved, err := store.ProductByBarcode(ctx, "new-code")
		require.NoError(t, err)
		require.NotNil(t, moved)
		assert.Equal(t, "Green Tea", moved.Name)
	})

	t.Run("rekey onto an occupied barcode is rejected", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.AddProduct(ctx, mustProduct(t, "a", "A", 1, tomanCost(100), nil)))
		require.NoError(t, store.AddProduct(ctx, mustProduct(t, "b", "B", 1, tomanCost(100), nil)))

		moved := mustProduct(t, "b", "A moved", 1, tomanCost(100), nil)
		err := store.UpdateProduct(ctx, "a", moved)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)

		// The original record survived the failed rekey.
		original, err := store.ProductByBarcode(ctx, "a")
		require.NoError(t, err)
		require.NotNil(t, original)
		assert.Equal(t, "A", original.Name)
	})
}

func TestDataStore_CompleteSale(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshots cost and decrements stock", func(t *testing.T) {
		store := newStore(t)
		rates := catalog.ExchangeRates{catalog.CurrencyDollar: decimal.NewFromInt(100)}
		require.NoError(t, store.SaveExchangeRates(ctx, rates))

		costs := []catalog.CostItem{
			{Title: "purchase", Amount: decimal.NewFromInt(50), Currency: catalog.CurrencyToman},
			{Title: "shipping", Amount: decimal.NewFromInt(2), Currency: catalog.CurrencyDollar},
		}
		require.NoError(t, store.AddProduct(ctx, mustProduct(t, "tea", "Green Tea", 10, costs, rates)))

		sale, err := store.CompleteSale(ctx, storage.SaleDraft{
			Items: []storage.DraftItem{{
				ProductBarcode: "tea",
				ProductName:    "stale cart name",
				Quantity:       3,
				UnitPrice:      decimal.NewFromInt(400),
			}},
			Total: decimal.NewFromInt(1200),
		})
		require.NoError(t, err)
		require.Len(t, sale.Items, 1)

		// unit cost 50 + 2*100 = 250, snapshot covers the whole line
		assert.True(t, sale.Items[0].CostSnapshot.Equal(decimal.NewFromInt(750)),
			"got %s", sale.Items[0].CostSnapshot)
		assert.Equal(t, "Green Tea", sale.Items[0].ProductName)
		assert.NotZero(t, sale.ID)

		product, err := store.ProductByBarcode(ctx, "tea")
		require.NoError(t, err)
		assert.Equal(t, 7, product.Quantity)
	})

	t.Run("stock may go negative", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.AddProduct(ctx, mustProduct(t, "tea", "Green Tea", 2, tomanCost(100), nil)))

		_, err := store.CompleteSale(ctx, storage.SaleDraft{
			Items: []storage.DraftItem{{ProductBarcode: "tea", Quantity: 5, UnitPrice: decimal.NewFromInt(120)}},
			Total: decimal.NewFromInt(600),
		})
		require.NoError(t, err)

		product, err := store.ProductByBarcode(ctx, "tea")
		require.NoError(t, err)
		assert.Equal(t, -3, product.Quantity)
	})

	t.Run("missing product keeps the line with a zero snapshot", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.AddProduct(ctx, mustProduct(t, "tea", "Green Tea", 10, tomanCost(100), nil)))

		sale, err := store.CompleteSale(ctx, storage.SaleDraft{
			Items: []storage.DraftItem{
				{ProductBarcode: "gone", ProductName: "Deleted Thing", Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
				{ProductBarcode: "tea", Quantity: 2, UnitPrice: decimal.NewFromInt(120)},
			},
			Total: decimal.NewFromInt(290),
		})
		require.NoError(t, err)
		require.Len(t, sale.Items, 2)
		assert.True(t, sale.Items[0].CostSnapshot.IsZero())
		assert.Equal(t, "Deleted Thing", sale.Items[0].ProductName)
		assert.True(t, sale.Items[1].CostSnapshot.Equal(decimal.NewFromInt(200)))

		product, err := store.ProductByBarcode(ctx, "tea")
		require.NoError(t, err)
		assert.Equal(t, 8, product.Quantity)
	})

	t.Run("creates the named customer in the same transaction", func(t *testing.T) {
		store := newStore(t)

		sale, err := store.CompleteSale(ctx, storage.SaleDraft{
			NewCustomerName: "Walk-in Ali",
			Total:           decimal.NewFromInt(100),
		})
		require.NoError(t, err)
		require.NotEmpty(t, sale.CustomerID)
		assert.Equal(t, "Walk-in Ali", sale.CustomerName)

		customer, err := store.CustomerByID(ctx, sale.CustomerID)
		require.NoError(t, err)
		require.NotNil(t, customer)
		assert.Equal(t, "Walk-in Ali", customer.Name)
	})

	t.Run("rolls back everything when the sale record fails", func(t *testing.T) {
		backend := newBackend(t)
		store := storage.NewDataStore(&saleFailingBackend{Backend: backend}, blob.NewInlineStore())
		require.NoError(t, store.AddProduct(ctx, mustProduct(t, "tea", "Green Tea", 10, tomanCost(100), nil)))

		_, err := store.CompleteSale(ctx, storage.SaleDraft{
			Items:           []storage.DraftItem{{ProductBarcode: "tea", Quantity: 3, UnitPrice: decimal.NewFromInt(120)}},
			NewCustomerName: "Walk-in Ali",
			Total:           decimal.NewFromInt(360),
		})
		require.Error(t, err)

		// Stock decrement and implicit customer were rolled back with the sale.
		product, err := backend.GetProduct(ctx, "tea")
		require.NoError(t, err)
		assert.Equal(t, 10, product.Quantity)

		customers, err := backend.ListCustomers(ctx)
		require.NoError(t, err)
		assert.Empty(t, customers)

		sales, err := backend.ListSales(ctx)
		require.NoError(t, err)
		assert.Empty(t, sales)
	})
}

// saleFailingBackend passes every write through to the real backend except the
// final sale insert, exercising transaction rollback end to end.
type saleFailingBackend struct {
	storage.Backend
}

func (b *saleFailingBackend) RunAtomic(ctx context.Context, fn func(tx storage.Writer) error) error {
	return b.Backend.RunAtomic(ctx, func(tx storage.Writer) error {
		return fn(&saleFailingWriter{Writer: tx})
	})
}

type saleFailingWriter struct {
	storage.Writer
}

func (w *saleFailingWriter) PutSale(context.Context, *trade.Sale) error {
	return errors.New("disk full")
}

func TestDataStore_Settings(t *testing.T) {
	ctx := context.Background()

	t.Run("app settings default to zero values", func(t *testing.T) {
		store := newStore(t)
		settings, err := store.AppSettings(ctx)
		require.NoError(t, err)
		require.NotNil(t, settings)
		assert.Empty(t, settings.ShopName)

		require.NoError(t, store.SaveAppSettings(ctx, catalog.AppSettings{ShopName: "Ali Market"}))
		settings, err = store.AppSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Ali Market", settings.ShopName)
	})

	t.Run("exchange rates are replaced as a whole", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.SaveExchangeRates(ctx, catalog.ExchangeRates{
			catalog.CurrencyDollar: decimal.NewFromInt(100),
		}))
		require.NoError(t, store.SaveExchangeRates(ctx, catalog.ExchangeRates{
			catalog.CurrencyEuro: decimal.NewFromInt(110),
		}))

		rates, err := store.ExchangeRates(ctx)
		require.NoError(t, err)
		require.Len(t, rates, 1)
		assert.True(t, rates[catalog.CurrencyEuro].Equal(decimal.NewFromInt(110)))
	})

	t.Run("saving rates reprices stored products", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.SaveExchangeRates(ctx, catalog.ExchangeRates{
			catalog.CurrencyDollar: decimal.NewFromInt(100),
		}))

		costs := []catalog.CostItem{
			{Title: "purchase", Amount: decimal.NewFromInt(10), Currency: catalog.CurrencyDollar},
		}
		p, err := catalog.NewProduct("7001", "Imported", 5, 2, decimal.Zero, costs,
			catalog.ExchangeRates{catalog.CurrencyDollar: decimal.NewFromInt(100)})
		require.NoError(t, err)
		require.NoError(t, store.AddProduct(ctx, p))
		require.True(t, p.SellingPrice.Equal(decimal.NewFromInt(1000)))

		require.NoError(t, store.SaveExchangeRates(ctx, catalog.ExchangeRates{
			catalog.CurrencyDollar: decimal.NewFromInt(200),
		}))

		got, err := store.ProductByBarcode(ctx, "7001")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.SellingPrice.Equal(decimal.NewFromInt(2000)),
			"selling price %s not rederived from the new rates", got.SellingPrice)
	})

	t.Run("blank cost title is rejected", func(t *testing.T) {
		store := newStore(t)
		_, err := store.AddCostTitle(ctx, "   ")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TITLE", domainErr.Code)
	})

	t.Run("cost titles round-trip", func(t *testing.T) {
		store := newStore(t)
		title, err := store.AddCostTitle(ctx, "shipping")
		require.NoError(t, err)
		require.NotEmpty(t, title.ID)

		titles, err := store.CostTitles(ctx)
		require.NoError(t, err)
		require.Len(t, titles, 1)
		assert.Equal(t, "shipping", titles[0].Title)

		require.NoError(t, store.DeleteCostTitle(ctx, title.ID))
		titles, err = store.CostTitles(ctx)
		require.NoError(t, err)
		assert.Empty(t, titles)
	})
}

func TestDataStore_Expenses(t *testing.T) {
	ctx := context.Background()

	t.Run("add stores attachments under the expense", func(t *testing.T) {
		store := newStore(t)
		expense, err := finance.NewExpense("Rent", decimal.NewFromInt(5000), day(2025, time.June, 1))
		require.NoError(t, err)

		attachments := []finance.Attachment{
			{Date: day(2025, time.June, 1), Description: "receipt", ReceiptNo: "R-1"},
			{Date: day(2025, time.June, 1), Description: "contract"},
		}
		require.NoError(t, store.AddExpense(ctx, expense, attachments))
		assert.Len(t, expense.AttachmentIDs, 2)

		stored, err := store.AttachmentsByOwner(ctx, expense.ID)
		require.NoError(t, err)
		require.Len(t, stored, 2)
		for _, a := range stored {
			assert.Equal(t, expense.ID, a.SourceID)
			assert.Equal(t, finance.OwnerExpense, a.OwnerKind)
			assert.NotEmpty(t, a.ID)
		}
	})

	t.Run("update applies the attachment delta", func(t *testing.T) {
		store := newStore(t)
		expense, err := finance.NewExpense("Rent", decimal.NewFromInt(5000), day(2025, time.June, 1))
		require.NoError(t, err)
		require.NoError(t, store.AddExpense(ctx, expense, []finance.Attachment{
			{Date: day(2025, time.June, 1), Description: "old receipt"},
		}))
		removed := expense.AttachmentIDs[0]

		expense.Amount = decimal.NewFromInt(5500)
		add := []finance.Attachment{{Date: day(2025, time.June, 2), Description: "corrected receipt"}}
		require.NoError(t, store.UpdateExpense(ctx, expense, add, []string{removed}))

		require.Len(t, expense.AttachmentIDs, 1)
		assert.NotEqual(t, removed, expense.AttachmentIDs[0])

		stored, err := store.AttachmentsByOwner(ctx, expense.ID)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, "corrected receipt", stored[0].Description)

		expenses, err := store.Expenses(ctx)
		require.NoError(t, err)
		require.Len(t, expenses, 1)
		assert.True(t, expenses[0].Amount.Equal(decimal.NewFromInt(5500)))
	})

	t.Run("delete cascades to attachments", func(t *testing.T) {
		store := newStore(t)
		expense, err := finance.NewExpense("Rent", decimal.NewFromInt(5000), day(2025, time.June, 1))
		require.NoError(t, err)
		require.NoError(t, store.AddExpense(ctx, expense, []finance.Attachment{
			{Date: day(2025, time.June, 1)},
		}))

		require.NoError(t, store.DeleteExpense(ctx, expense.ID))

		expenses, err := store.Expenses(ctx)
		require.NoError(t, err)
		assert.Empty(t, expenses)

		stored, err := store.AttachmentsByOwner(ctx, expense.ID)
		require.NoError(t, err)
		assert.Empty(t, stored)
	})
}

func TestDataStore_ApplyRecurringExpenses(t *testing.T) {
	ctx := context.Background()

	t.Run("generates one expense per elapsed period", func(t *testing.T) {
		store := newStore(t)
		recurring, err := finance.NewRecurringExpense("Rent", decimal.NewFromInt(5000), finance.FrequencyMonthly, day(2025, time.March, 20))
		require.NoError(t, err)
		require.NoError(t, store.AddRecurringExpense(ctx, recurring))

		created, err := store.ApplyRecurringExpenses(ctx, day(2025, time.June, 20))
		require.NoError(t, err)
		assert.Equal(t, 3, created)

		expenses, err := store.Expenses(ctx)
		require.NoError(t, err)
		require.Len(t, expenses, 3)
		for _, e := range expenses {
			assert.Equal(t, "Rent", e.Title)
			assert.True(t, e.Amount.Equal(decimal.NewFromInt(5000)))
		}
	})

	t.Run("a second run in the same period is a no-op", func(t *testing.T) {
		store := newStore(t)
		recurring, err := finance.NewRecurringExpense("Rent", decimal.NewFromInt(5000), finance.FrequencyMonthly, day(2025, time.March, 20))
		require.NoError(t, err)
		require.NoError(t, store.AddRecurringExpense(ctx, recurring))

		_, err = store.ApplyRecurringExpenses(ctx, day(2025, time.June, 20))
		require.NoError(t, err)

		created, err := store.ApplyRecurringExpenses(ctx, day(2025, time.June, 20))
		require.NoError(t, err)
		assert.Zero(t, created)

		expenses, err := store.Expenses(ctx)
		require.NoError(t, err)
		assert.Len(t, expenses, 3)
	})

	t.Run("nothing due before the first period boundary", func(t *testing.T) {
		store := newStore(t)
		recurring, err := finance.NewRecurringExpense("Insurance", decimal.NewFromInt(900), finance.FrequencyYearly, day(2025, time.January, 1))
		require.NoError(t, err)
		require.NoError(t, store.AddRecurringExpense(ctx, recurring))

		created, err := store.ApplyRecurringExpenses(ctx, day(2025, time.June, 20))
		require.NoError(t, err)
		assert.Zero(t, created)
	})

	t.Run("skips the run when the lock is held elsewhere", func(t *testing.T) {
		locker := &fakeLocker{held: true}
		store := newStore(t, storage.WithApplyLocker(locker))
		recurring, err := finance.NewRecurringExpense("Rent", decimal.NewFromInt(5000), finance.FrequencyMonthly, day(2025, time.March, 20))
		require.NoError(t, err)
		require.NoError(t, store.AddRecurringExpense(ctx, recurring))

		created, err := store.ApplyRecurringExpenses(ctx, day(2025, time.June, 20))
		require.NoError(t, err)
		assert.Zero(t, created)

		expenses, err := store.Expenses(ctx)
		require.NoError(t, err)
		assert.Empty(t, expenses)
	})

	t.Run("releases the lock after a successful run", func(t *testing.T) {
		locker := &fakeLocker{}
		store := newStore(t, storage.WithApplyLocker(locker))

		_, err := store.ApplyRecurringExpenses(ctx, day(2025, time.June, 20))
		require.NoError(t, err)
		assert.Equal(t, 1, locker.acquired)
		assert.Equal(t, 1, locker.released)
	})
}

type fakeLocker struct {
	held     bool
	acquired int
	released int
}

func (l *fakeLocker) TryAcquire(context.Context, time.Duration) (bool, error) {
	if l.held {
		return false, nil
	}
	l.acquired++
	return true, nil
}

func (l *fakeLocker) Release(context.Context) error {
	l.released++
	return nil
}

func TestDataStore_Employees(t *testing.T) {
	ctx := context.Background()

	t.Run("hiring creates the paired salary expense", func(t *testing.T) {
		store := newStore(t)
		employee, err := store.AddEmployee(ctx, "Sara", "Cashier", decimal.NewFromInt(30000))
		require.NoError(t, err)
		require.NotEmpty(t, employee.RecurringExpenseID)

		recurring, err := store.RecurringExpenses(ctx)
		require.NoError(t, err)
		require.Len(t, recurring, 1)
		assert.Equal(t, employee.RecurringExpenseID, recurring[0].ID)
		assert.Equal(t, "Salary: Sara", recurring[0].Title)
		assert.Equal(t, finance.FrequencyMonthly, recurring[0].Frequency)
		assert.True(t, recurring[0].Amount.Equal(decimal.NewFromInt(30000)))
	})

	t.Run("firing removes the paired salary expense", func(t *testing.T) {
		store := newStore(t)
		employee, err := store.AddEmployee(ctx, "Sara", "Cashier", decimal.NewFromInt(30000))
		require.NoError(t, err)

		require.NoError(t, store.DeleteEmployee(ctx, employee.ID))

		employees, err := store.Employees(ctx)
		require.NoError(t, err)
		assert.Empty(t, employees)

		recurring, err := store.RecurringExpenses(ctx)
		require.NoError(t, err)
		assert.Empty(t, recurring)
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		store := newStore(t)
		_, err := store.AddEmployee(ctx, "  ", "Cashier", decimal.NewFromInt(30000))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_NAME", domainErr.Code)
	})
}

func TestDataStore_Payments(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	payment, err := trade.NewPayment(decimal.NewFromInt(250), trade.PaymentCard, day(2025, time.June, 5))
	require.NoError(t, err)

	id, err := store.AddPayment(ctx, payment, []finance.Attachment{
		{Date: day(2025, time.June, 5), ReceiptNo: "POS-17"},
	})
	require.NoError(t, err)
	assert.Equal(t, payment.ID, id)

	attachments, err := store.AttachmentsByOwner(ctx, id)
	require.NoError(t, err)
	require.Len(t, attachments, 1)
	assert.Equal(t, finance.OwnerPayment, attachments[0].OwnerKind)

	// Missing ids are skipped, not errors.
	payments, err := store.PaymentsByIDs(ctx, []string{id, "does-not-exist"})
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, trade.PaymentCard, payments[0].Method)
}

func TestDataStore_UserProfiles(t *testing.T) {
	ctx := context.Background()

	t.Run("missing profile returns nil without error", func(t *testing.T) {
		store := newStore(t)
		profile, err := store.UserProfile(ctx, "tenant-a")
		require.NoError(t, err)
		assert.Nil(t, profile)
	})

	t.Run("non-privileged listing is empty", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.SaveUserProfile(ctx, identity.UserProfile{
			TenantID: "tenant-a", Name: "Ali", Role: identity.RoleNormal,
		}))

		infos, err := store.AllUserProfiles(ctx)
		require.NoError(t, err)
		assert.Empty(t, infos)
	})

	t.Run("privileged listing joins each tenant's shop name", func(t *testing.T) {
		store := newStore(t, storage.WithPrivileged(true))
		require.NoError(t, store.SaveAppSettings(ctx, catalog.AppSettings{ShopName: "Ali Market"}))
		require.NoError(t, store.SaveUserProfile(ctx, identity.UserProfile{
			TenantID: "tenant-a", Name: "Ali", Role: identity.RoleSuperadmin,
		}))
		require.NoError(t, store.SaveUserProfile(ctx, identity.UserProfile{
			TenantID: "tenant-b", Name: "Sara", Role: identity.RoleNormal,
		}))

		infos, err := store.AllUserProfiles(ctx)
		require.NoError(t, err)
		require.Len(t, infos, 2)
		assert.Equal(t, "tenant-a", infos[0].Profile.TenantID)
		assert.Equal(t, "Ali Market", infos[0].ShopName)
		assert.Equal(t, "tenant-b", infos[1].Profile.TenantID)
		assert.Empty(t, infos[1].ShopName, "tenant without settings contributes an empty shop name")
	})
}

func TestDataStore_UploadFile(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	ref, err := store.UploadFile(ctx, "receipt.png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Contains(t, ref, "data:")

	_, err = store.UploadFile(ctx, "empty.png", nil)
	require.Error(t, err)
}
