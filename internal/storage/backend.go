package storage

import (
	"context"

	"github.com/shopbook/backend/internal/domain/catalog"
	"github.com/shopbook/backend/internal/domain/finance"
	"github.com/shopbook/backend/internal/domain/identity"
	"github.com/shopbook/backend/internal/domain/partner"
	"github.com/shopbook/backend/internal/domain/trade"
)

// Reader is the primitive read surface a backend supplies. Single-record
// getters return shared.ErrNotFound when the record is absent; the DataStore
// translates that to the contract's (nil, nil) convention where applicable.
type Reader interface {
	GetProduct(ctx context.Context, barcode string) (*catalog.Product, error)
	ListProducts(ctx context.Context) ([]catalog.Product, error)

	ListSales(ctx context.Context) ([]trade.Sale, error) // most recent first

	GetCustomer(ctx context.Context, id string) (*partner.Customer, error)
	ListCustomers(ctx context.Context) ([]partner.Customer, error)

	ListExpenses(ctx context.Context) ([]finance.Expense, error) // most recent first
	ListRecurring(ctx context.Context) ([]finance.RecurringExpense, error)

	GetEmployee(ctx context.Context, id string) (*finance.Employee, error)
	ListEmployees(ctx context.Context) ([]finance.Employee, error)

	ListAttachmentsBySource(ctx context.Context, sourceID string) ([]finance.Attachment, error)

	GetPayments(ctx context.Context, ids []string) ([]trade.Payment, error)

	GetExchangeRates(ctx context.Context) (catalog.ExchangeRates, error)
	GetAppSettings(ctx context.Context) (*catalog.AppSettings, error)
	ListCostTitles(ctx context.Context) ([]catalog.CostTitle, error)

	GetProfile(ctx context.Context, tenantID string) (*identity.UserProfile, error)
}

// Writer extends Reader with primitive writes. A Writer handed to a RunAtomic
// callback is scoped to that atomic unit: either every write in the callback
// becomes visible, or none does.
type Writer interface {
	Reader

	// CreateProduct inserts a new product, failing with
	// shared.ErrAlreadyExists when the barcode is taken. The uniqueness
	// guarantee comes from the engine, so two concurrent inserts of the same
	// barcode cannot both succeed.
	CreateProduct(ctx context.Context, p *catalog.Product) error
	PutProduct(ctx context.Context, p *catalog.Product) error
	// AdjustProductQuantity applies a relative stock delta in the engine.
	// Concurrent adjustments compose instead of overwriting each other.
	AdjustProductQuantity(ctx context.Context, barcode string, delta int) error
	DeleteProduct(ctx context.Context, barcode string) error

	PutSale(ctx context.Context, s *trade.Sale) error

	PutCustomer(ctx context.Context, c *partner.Customer) error
	DeleteCustomer(ctx context.Context, id string) error

	PutExpense(ctx context.Context, e *finance.Expense) error
	DeleteExpense(ctx context.Context, id string) error

	PutRecurring(ctx context.Context, r *finance.RecurringExpense) error
	DeleteRecurring(ctx context.Context, id string) error

	PutEmployee(ctx context.Context, e *finance.Employee) error
	DeleteEmployee(ctx context.Context, id string) error

	PutAttachment(ctx context.Context, a *finance.Attachment) error
	DeleteAttachment(ctx context.Context, id string) error

	PutPayment(ctx context.Context, p *trade.Payment) error

	PutExchangeRates(ctx context.Context, rates catalog.ExchangeRates) error
	PutAppSettings(ctx context.Context, settings catalog.AppSettings) error

	PutCostTitle(ctx context.Context, t *catalog.CostTitle) error
	DeleteCostTitle(ctx context.Context, id string) error

	PutProfile(ctx context.Context, p *identity.UserProfile) error
}

// Backend is what a storage engine must provide for the DataStore to implement
// the full contract: primitive reads, atomic multi-write execution, and the
// two cross-tenant reads backing the privileged profile listing.
type Backend interface {
	Reader

	// RunAtomic executes fn inside one atomic unit. If fn returns an error
	// the unit is discarded and no write inside it becomes visible.
	RunAtomic(ctx context.Context, fn func(tx Writer) error) error

	// ListAllProfiles enumerates every tenant's profile, not just the
	// backend's own tenant.
	ListAllProfiles(ctx context.Context) ([]identity.UserProfile, error)

	// GetAppSettingsForTenant reads another tenant's settings, used to join
	// shop names onto the cross-tenant listing.
	GetAppSettingsForTenant(ctx context.Context, tenantID string) (*catalog.AppSettings, error)

	Close() error
}
