package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopbook/backend/internal/domain/catalog"
	"github.com/shopbook/backend/internal/domain/finance"
	"github.com/shopbook/backend/internal/domain/identity"
	"github.com/shopbook/backend/internal/domain/partner"
	"github.com/shopbook/backend/internal/domain/shared"
	"github.com/shopbook/backend/internal/domain/trade"
	"github.com/shopbook/backend/internal/infrastructure/blob"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ApplyLocker serializes recurring-expense application runs across devices.
// Last-writer-wins is acceptable without it, so a nil locker is valid.
type ApplyLocker interface {
	// TryAcquire returns false when another holder owns the lock.
	TryAcquire(ctx context.Context, ttl time.Duration) (bool, error)
	Release(ctx context.Context) error
}

// DataStore implements the Store contract once, for every backend, by
// expressing the multi-entity algorithms in terms of Backend primitives.
type DataStore struct {
	backend    Backend
	files      blob.FileStore
	privileged bool
	locker     ApplyLocker
	log        *zap.Logger
}

// Option configures a DataStore.
type Option func(*DataStore)

// WithPrivileged marks the session as allowed to read across tenants.
func WithPrivileged(privileged bool) Option {
	return func(d *DataStore) { d.privileged = privileged }
}

// WithApplyLocker installs a cross-device lock for recurring-expense runs.
func WithApplyLocker(l ApplyLocker) Option {
	return func(d *DataStore) { d.locker = l }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(d *DataStore) { d.log = log }
}

// NewDataStore creates a DataStore over the given backend and file store.
func NewDataStore(backend Backend, files blob.FileStore, opts ...Option) *DataStore {
	d := &DataStore{
		backend: backend,
		files:   files,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ---- Products ----

// AddProduct stores a new product. Fails with shared.ErrAlreadyExists when the
// barcode is taken; the engine's key constraint enforces it, so two concurrent
// adds of the same barcode cannot both pass a read-side check.
func (d *DataStore) AddProduct(ctx context.Context, p *catalog.Product) error {
	return d.backend.RunAtomic(ctx, func(tx Writer) error {
		return tx.CreateProduct(ctx, p)
	})
}

func (d *DataStore) Products(ctx context.Context) ([]catalog.Product, error) {
	return d.backend.ListProducts(ctx)
}

// ProductByBarcode returns (nil, nil) when no product carries the barcode.
func (d *DataStore) ProductByBarcode(ctx context.Context, barcode string) (*catalog.Product, error) {
	p, err := d.backend.GetProduct(ctx, barcode)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

// UpdateProduct saves an edited product. When the barcode changed the update
// is a rekey: the old record is removed and the new one inserted in the same
// atomic unit, so exactly one record remains.
func (d *DataStore) UpdateProduct(ctx context.Context, oldBarcode string, p *catalog.Product) error {
	return d.backend.RunAtomic(ctx, func(tx Writer) error {
		if oldBarcode != p.Barcode {
			if err := tx.DeleteProduct(ctx, oldBarcode); err != nil {
				return err
			}
			// Insert-only, so an occupied new barcode aborts the unit and
			// the old record comes back with the rollback.
			return tx.CreateProduct(ctx, p)
		}
		return tx.PutProduct(ctx, p)
	})
}

func (d *DataStore) DeleteProduct(ctx context.Context, barcode string) error {
	return d.backend.RunAtomic(ctx, func(tx Writer) error {
		return tx.DeleteProduct(ctx, barcode)
	})
}

// ---- Sales ----

// CompleteSale commits a draft sale as one atomic unit: the optional implicit
// customer, the per-line cost snapshots, every stock decrement and the sale
// record itself all land together or not at all.
//
// A line whose product no longer exists does not fail the sale; it is recorded
// with a zero cost snapshot and no stock mutation. Stock may go negative.
func (d *DataStore) CompleteSale(ctx context.Context, draft SaleDraft) (*trade.Sale, error) {
	now := time.Now()
	date := draft.Date
	if date.IsZero() {
		date = now
	}

	sale := &trade.Sale{
		ID:           trade.NewSaleID(now),
		Total:        draft.Total,
		PaymentIDs:   draft.PaymentIDs,
		Date:         date,
		CustomerID:   draft.CustomerID,
		CustomerName: draft.CustomerName,
	}

	err := d.backend.RunAtomic(ctx, func(tx Writer) error {
		if draft.NewCustomerName != "" && draft.CustomerID == "" {
			customer, err := partner.NewCustomer(draft.NewCustomerName, "", "")
			if err != nil {
				return err
			}
			if err := tx.PutCustomer(ctx, customer); err != nil {
				return err
			}
			sale.CustomerID = customer.ID
			sale.CustomerName = customer.Name
		}

		rates, err := tx.GetExchangeRates(ctx)
		if err != nil {
			return err
		}

		sale.Items = make([]trade.SaleItem, 0, len(draft.Items))
		for _, line := range draft.Items {
			item := trade.SaleItem{
				ProductBarcode: line.ProductBarcode,
				ProductName:    line.ProductName,
				Quantity:       line.Quantity,
				UnitPrice:      line.UnitPrice,
				CostSnapshot:   decimal.Zero,
			}

			product, err := tx.GetProduct(ctx, line.ProductBarcode)
			switch {
			case errors.Is(err, shared.ErrNotFound):
				// Product deleted after being added to the cart: keep the
				// line with a zero snapshot and touch no stock.
				d.log.Warn("sale line references missing product",
					zap.String("barcode", line.ProductBarcode))
			case err != nil:
				return err
			default:
				unitCost := product.UnitCost(rates)
				item.CostSnapshot = unitCost.Mul(decimal.NewFromInt(int64(line.Quantity)))
				item.ProductName = product.Name
				// Relative decrement in the engine: concurrent sales of the
				// same product both land their stock update.
				if err := tx.AdjustProductQuantity(ctx, line.ProductBarcode, -line.Quantity); err != nil {
					return err
				}
			}

			sale.Items = append(sale.Items, item)
		}

		return tx.PutSale(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (d *DataStore) Sales(ctx context.Context) ([]trade.Sale, error) {
	return d.backend.ListSales(ctx)
}

// ---- Settings ----

func (d *DataStore) ExchangeRates(ctx context.Context) (catalog.ExchangeRates, error) {
	return d.backend.GetExchangeRates(ctx)
}

// SaveExchangeRates replaces the rate table and rederives every stored
// product's selling price from the new rates in the same atomic unit. The
// selling price is a function of cost, margin and rates; it must never lag a
// rate change.
func (d *DataStore) SaveExchangeRates(ctx context.Context, rates catalog.ExchangeRates) error {
	return d.backend.RunAtomic(ctx, func(tx Writer) error {
		if err := tx.PutExchangeRates(ctx, rates); err != nil {
			return err
		}
		products, err := tx.ListProducts(ctx)
		if err != nil {
			return err
		}
		for i := range products {
			product := products[i]
			product.RecalculatePrice(rates)
			if err := tx.PutProduct(ctx, &product); err != nil {
				return err
			}
		}
		return nil
	})
}

// AppSettings returns zero-value settings when none were saved yet.
func (d *DataStore) AppSettings(ctx context.Context) (*catalog.AppSettings, error) {
	settings, err := d.backend.GetAppSettings(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return &catalog.AppSettings{}, nil
	}
	return settings, err
}

func (d *DataStore) SaveAppSettings(ctx context.Context, settings catalog.AppSettings) error {
	return d.backend.RunAtomic(ctx, func(tx Writer) error {
		return tx.PutAppSettings(ctx, settings)
	})
}

func (d *DataStore) CostTitles(ctx context.Context) ([]catalog.CostTitle, error) {
	return d.backend.ListCostTitles(ctx)
}

func (d *DataStore) AddCostTitle(ctx context.Context, title string) (*catalog.CostTitle, error) {
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Cost title cannot be empty")
	}
	costTitle := &catalog.CostTitle{ID: uuid.NewString(), Title: title}
	err := d.backend.RunAtomic(ctx, func(tx Writer) error {
		return tx.PutCostTitle(ctx, costTitle)
	})
	if err != nil {
		return nil, err
	}
	return costTitle, nil
}

func (d *DataStore) DeleteCostTitle(ctx context.Context, id string) error {
	return d.backend.RunAtomic(ctx, func(tx Writer) error {
		return tx.DeleteCostTitle(ctx, id)
	})
}

// ---- Customers ----

func (d *DataStore) AddCustomer(ctx context.Context, c *partner.Customer) error {
	return d.backend.RunAtomic(ctx, func(tx Writer) error {
		return tx.PutCustomer(ctx, c)
	})
}

func (d *DataStore) Customers(ctx context.Context) ([]partner.Customer, error) {
	return d.backend.ListCustomers(ctx)
}

// CustomerByID returns (nil, nil) when the customer does not exist.
func (d *DataStore) CustomerByID(ctx context.Context, id string) (*partner.Customer, error) {
	c, err := d.backend.GetCustomer(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return c, err
}

func (d *DataStore) UpdateCustomer(ctx context.Context, c *partner.Customer) error {
	c.UpdatedAt = time.Now()
	return d.backend.RunAtomic(ctx, func(tx Writer) error {
		return tx.PutCustomer(ctx, c)
	})
}

func (d *DataStore) DeleteCustomer(ctx context.Context, id string) error {
	return d.backend.RunAtomic(ctx, func(tx Writer) error {
		return tx.DeleteCustomer(ctx, id)
	})
}

// ---- Expenses ----

// AddExpense stores an expense and its attachments in one atomic unit.
func (d *DataStore) AddExpense(ctx context.Context, e *finance.Expense, attachments []finance.Attachment) error {
	return d.backend.RunAtomic(ctx, func(tx Writer) error {
		for i := range attachments {
			attachments[i].SourceID = e.ID
			attachments[i].OwnerKind = finance.OwnerExpense
			if attachments[i].ID == "" {
				attachments[i].ID = uuid.NewString()
			}
			if err := tx.PutAttachment(ctx, &attachments[i]); err != nil {
				return err
			}
			e.AttachmentIDs = append(e.AttachmentIDs, attachments[i].ID)
		}
		return tx.PutExpense(ctx, e)
	})
}

// UpdateExpense applies an edit together with an attachment add/remove delta.
func (d *DataStore) UpdateExpense(ctx context.Context, e *finance.Expense, add []finance.Attachment, removeIDs []string) error {
	return d.backend.RunAtomic(ctx, func(tx Writer) error {
		for _, id := range removeIDs {
			if err := tx.DeleteAttachment(ctx, id); err != nil && !errors.Is(err, shared.ErrNotFound) {
				return err
			}
			e.AttachmentIDs = removeString(e.AttachmentIDs, id)
		}
		for i := range add {
			add[i].SourceID = e.ID
			add[i].OwnerKind = finance.OwnerExpense
			if add[i].ID == "" {
				add[i].ID = uuid.NewString()
			}
			if err := tx.PutAttachment(ctx, &add[i]); err != nil {
				return err
			}
			e.AttachmentIDs = append(e.AttachmentIDs, add[i].ID)
		}
		return tx.PutExpense(ctx, e)
	})
}

func (d *DataStore) Expenses(ctx context.Context) ([]finance.Expense, error) {
	return d.backend.ListExpenses(ctx)
}

// DeleteExpense removes the expense and cascades to its attachments inside
// the same atomic unit, so no orphaned index entries survive.
func (d *DataStore) DeleteExpense(ctx context.Context, id string) error {
	return d.backend.RunAtomic(ctx, func(tx Writer) error {
		attachments, err := tx.ListAttachmentsBySource(ctx, id)
		if err != nil {
			return err
		}
		for _, a := range attachments {
			if err := tx.DeleteAttachment(ctx, a.ID); err != nil {
				return err
			}
		}
		return tx.DeleteExpense(ctx, id)
	})
}

// ---- Recurring expenses ----

func (d *DataStore) AddRecurringExpense(ctx context.Context, r *finance.RecurringExpense) error {
	return d.backend.RunAtomic(ctx, func(tx Writer) error {
		return tx.PutRecurring(ctx, r)
	})
}

func (d *DataStore) RecurringExpenses(ctx context.Context) ([]finance.RecurringExpense, error) {
	return d.backend.ListRecurring(ctx)
}

func (d *DataStore) DeleteRecurringExpense(ctx context.Context, id string) error {
	return d.backend.RunAtomic(ctx, func(tx Writer) error {
		return tx.DeleteRecurring(ctx, id)
	})
}

// ApplyRecurringExpenses walks every recurring expense and generates one
// Expense per elapsed period past its watermark, advancing the watermark with
// each emission. The whole run is one atomic unit, and a second run in the
// same period generates nothing. Returns the number of expenses created.
func (d *DataStore) ApplyRecurringExpenses(ctx context.Context, today time.Time) (int, error) {
	if d.locker != nil {
		acquired, err := d.locker.TryAcquire(ctx, time.Minute)
		if err != nil {
			return 0, err
		}
		if !acquired {
			d.log.Info("recurring-expense application already running elsewhere, skipping")
			return 0, nil
		}
		defer func() {
			if err := d.locker.Release(context.WithoutCancel(ctx)); err != nil {
				d.log.Warn("failed to release apply lock", zap.Error(err))
			}
		}()
	}

	created := 0
	err := d.backend.RunAtomic(ctx, func(tx Writer) error {
		recurring, err := tx.ListRecurring(ctx)
		if err != nil {
			return err
		}
		for i := range recurring {
			r := recurring[i]
			due := r.DueDates(today)
			for _, dueDate := range due {
				expense, err := finance.NewExpense(r.Title, r.Amount, dueDate)
				if err != nil {
					return err
				}
				if err := tx.PutExpense(ctx, expense); err != nil {
					return err
				}
				r.Advance(dueDate)
			}
			if len(due) > 0 {
				if err := tx.PutRecurring(ctx, &r); err != nil {
					return err
				}
				created += len(due)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// ---- Employees ----

// AddEmployee creates the employee together with its linked monthly salary
// recurring expense; the pair lands in one atomic unit.
func (d *DataStore) AddEmployee(ctx context.Context, name, position string, salary decimal.Decimal) (*finance.Employee, error) {
	employee, salaryExpense, err := finance.NewEmployee(name, position, salary, time.Now())
	if err != nil {
		return nil, err
	}
	err = d.backend.RunAtomic(ctx, func(tx Writer) error {
		if err := tx.PutRecurring(ctx, salaryExpense); err != nil {
			return err
		}
		return tx.PutEmployee(ctx, employee)
	})
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func (d *DataStore) Employees(ctx context.Context) ([]finance.Employee, error) {
	return d.backend.ListEmployees(ctx)
}

// DeleteEmployee removes the employee and its linked salary recurring expense
// together. No orphan recurring expense remains.
func (d *DataStore) DeleteEmployee(ctx context.Context, id string) error {
	return d.backend.RunAtomic(ctx, func(tx Writer) error {
		employee, err := tx.GetEmployee(ctx, id)
		if err != nil {
			return err
		}
		if employee.RecurringExpenseID != "" {
			if err := tx.DeleteRecurring(ctx, employee.RecurringExpenseID); err != nil && !errors.Is(err, shared.ErrNotFound) {
				return err
			}
		}
		return tx.DeleteEmployee(ctx, id)
	})
}

// ---- Attachments ----

func (d *DataStore) AttachmentsByOwner(ctx context.Context, sourceID string) ([]finance.Attachment, error) {
	return d.backend.ListAttachmentsBySource(ctx, sourceID)
}

// UploadFile turns raw file bytes into an opaque string reference that can be
// stored verbatim on an attachment's image field.
func (d *DataStore) UploadFile(ctx context.Context, filename string, data []byte) (string, error) {
	return d.files.Upload(ctx, filename, data)
}

// ---- Payments ----

// AddPayment stores a payment and its attachments atomically, returning the
// generated payment id.
func (d *DataStore) AddPayment(ctx context.Context, p *trade.Payment, attachments []finance.Attachment) (string, error) {
	err := d.backend.RunAtomic(ctx, func(tx Writer) error {
		for i := range attachments {
			attachments[i].SourceID = p.ID
			attachments[i].OwnerKind = finance.OwnerPayment
			if attachments[i].ID == "" {
				attachments[i].ID = uuid.NewString()
			}
			if err := tx.PutAttachment(ctx, &attachments[i]); err != nil {
				return err
			}
			p.AttachmentIDs = append(p.AttachmentIDs, attachments[i].ID)
		}
		return tx.PutPayment(ctx, p)
	})
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

// PaymentsByIDs returns the payments that exist; missing ids are skipped.
func (d *DataStore) PaymentsByIDs(ctx context.Context, ids []string) ([]trade.Payment, error) {
	return d.backend.GetPayments(ctx, ids)
}

// ---- User profiles ----

// UserProfile returns (nil, nil) when no profile was saved for the tenant.
func (d *DataStore) UserProfile(ctx context.Context, tenantID string) (*identity.UserProfile, error) {
	profile, err := d.backend.GetProfile(ctx, tenantID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return profile, err
}

func (d *DataStore) SaveUserProfile(ctx context.Context, profile identity.UserProfile) error {
	return d.backend.RunAtomic(ctx, func(tx Writer) error {
		return tx.PutProfile(ctx, &profile)
	})
}

// AllUserProfiles lists every tenant's profile joined with its shop name.
// Non-privileged sessions get an empty list, never an error. The per-tenant
// settings join reads one record per profile; slow is acceptable here.
func (d *DataStore) AllUserProfiles(ctx context.Context) ([]ProfileInfo, error) {
	if !d.privileged {
		return []ProfileInfo{}, nil
	}

	profiles, err := d.backend.ListAllProfiles(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]ProfileInfo, 0, len(profiles))
	for _, profile := range profiles {
		info := ProfileInfo{Profile: profile}
		settings, err := d.backend.GetAppSettingsForTenant(ctx, profile.TenantID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			// Tenant never named their shop.
		case err != nil:
			return nil, err
		default:
			info.ShopName = settings.ShopName
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Close releases the underlying backend.
func (d *DataStore) Close() error {
	return d.backend.Close()
}

func removeString(list []string, target string) []string {
	out := list[:0]
	for _, s := range list {
		if s != target {
			out = append(out, s)
		}
	}
	return out
}

// Ensure DataStore implements Store
var _ Store = (*DataStore)(nil)
