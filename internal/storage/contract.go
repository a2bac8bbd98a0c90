// Package storage is the persistence core: the data access contract every
// caller goes through, the backend-agnostic sale-commit and recurring-expense
// algorithms, and the factory selecting between the embedded local backend and
// the remote multi-tenant backend.
package storage

import (
	"context"
	"time"

	"github.com/shopbook/backend/internal/domain/catalog"
	"github.com/shopbook/backend/internal/domain/finance"
	"github.com/shopbook/backend/internal/domain/identity"
	"github.com/shopbook/backend/internal/domain/partner"
	"github.com/shopbook/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// DraftItem is one cart line of a sale that has not been committed yet. The
// cost snapshot is computed during commit, not by the caller.
type DraftItem struct {
	ProductBarcode string
	ProductName    string
	Quantity       int
	UnitPrice      decimal.Decimal
}

// SaleDraft is the input to CompleteSale. Either CustomerID references an
// existing customer, or NewCustomerName asks for one to be created inside the
// same atomic unit. PaymentIDs reference already-created payments.
type SaleDraft struct {
	Items           []DraftItem
	Total           decimal.Decimal
	Date            time.Time
	CustomerID      string
	CustomerName    string
	NewCustomerName string
	PaymentIDs      []string
}

// ProfileInfo is one row of the privileged cross-tenant listing: a tenant's
// profile joined with that tenant's shop display name.
type ProfileInfo struct {
	Profile  identity.UserProfile
	ShopName string
}

// Store is the data access contract. It is the only persistence surface the
// rest of the application calls; both the local and the cloud backend satisfy
// it through the shared DataStore implementation.
//
// Single-record lookups return (nil, nil) when the record does not exist.
// Conflicts and invalid input surface as *shared.DomainError values.
type Store interface {
	// Products
	AddProduct(ctx context.Context, p *catalog.Product) error
	Products(ctx context.Context) ([]catalog.Product, error)
	ProductByBarcode(ctx context.Context, barcode string) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, oldBarcode string, p *catalog.Product) error
	DeleteProduct(ctx context.Context, barcode string) error

	// Sales
	CompleteSale(ctx context.Context, draft SaleDraft) (*trade.Sale, error)
	Sales(ctx context.Context) ([]trade.Sale, error)

	// Settings
	ExchangeRates(ctx context.Context) (catalog.ExchangeRates, error)
	SaveExchangeRates(ctx context.Context, rates catalog.ExchangeRates) error
	AppSettings(ctx context.Context) (*catalog.AppSettings, error)
	SaveAppSettings(ctx context.Context, settings catalog.AppSettings) error
	CostTitles(ctx context.Context) ([]catalog.CostTitle, error)
	AddCostTitle(ctx context.Context, title string) (*catalog.CostTitle, error)
	DeleteCostTitle(ctx context.Context, id string) error

	// Customers
	AddCustomer(ctx context.Context, c *partner.Customer) error
	Customers(ctx context.Context) ([]partner.Customer, error)
	CustomerByID(ctx context.Context, id string) (*partner.Customer, error)
	UpdateCustomer(ctx context.Context, c *partner.Customer) error
	DeleteCustomer(ctx context.Context, id string) error

	// Expenses
	AddExpense(ctx context.Context, e *finance.Expense, attachments []finance.Attachment) error
	UpdateExpense(ctx context.Context, e *finance.Expense, add []finance.Attachment, removeIDs []string) error
	Expenses(ctx context.Context) ([]finance.Expense, error)
	DeleteExpense(ctx context.Context, id string) error

	// Recurring expenses
	AddRecurringExpense(ctx context.Context, r *finance.RecurringExpense) error
	RecurringExpenses(ctx context.Context) ([]finance.RecurringExpense, error)
	DeleteRecurringExpense(ctx context.Context, id string) error
	ApplyRecurringExpenses(ctx context.Context, today time.Time) (int, error)

	// Employees
	AddEmployee(ctx context.Context, name, position string, salary decimal.Decimal) (*finance.Employee, error)
	Employees(ctx context.Context) ([]finance.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error

	// Attachments
	AttachmentsByOwner(ctx context.Context, sourceID string) ([]finance.Attachment, error)
	UploadFile(ctx context.Context, filename string, data []byte) (string, error)

	// Payments
	AddPayment(ctx context.Context, p *trade.Payment, attachments []finance.Attachment) (string, error)
	PaymentsByIDs(ctx context.Context, ids []string) ([]trade.Payment, error)

	// User profiles
	UserProfile(ctx context.Context, tenantID string) (*identity.UserProfile, error)
	SaveUserProfile(ctx context.Context, profile identity.UserProfile) error
	AllUserProfiles(ctx context.Context) ([]ProfileInfo, error)

	Close() error
}
