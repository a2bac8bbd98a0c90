// Package gormdb implements the storage backend primitives on top of GORM.
// The local backend runs it against an embedded sqlite file, the cloud
// backend against a shared postgres cluster; tenancy and transactional
// behavior are identical because the engine is the same.
package gormdb

import (
	"context"
	"errors"
	"time"

	"github.com/shopbook/backend/internal/domain/catalog"
	"github.com/shopbook/backend/internal/domain/finance"
	"github.com/shopbook/backend/internal/domain/identity"
	"github.com/shopbook/backend/internal/domain/partner"
	"github.com/shopbook/backend/internal/domain/shared"
	"github.com/shopbook/backend/internal/domain/trade"
	"github.com/shopbook/backend/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is a tenant-scoped GORM implementation of the backend primitives.
type Store struct {
	db       *gorm.DB
	tenantID string
}

// New creates a Store bound to one tenant. Panics on an empty tenant id to
// prevent cross-tenant leakage.
func New(db *gorm.DB, tenantID string) *Store {
	if tenantID == "" {
		panic("gormdb.New called with empty tenant ID - this is a programming error")
	}
	return &Store{db: db, tenantID: tenantID}
}

// scoped returns a query filtered to this store's tenant.
func (s *Store) scoped(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Where("tenant_id = ?", s.tenantID)
}

// RunAtomic executes fn inside a database transaction spanning every table fn
// touches. Any error rolls the whole unit back.
func (s *Store) RunAtomic(ctx context.Context, fn func(tx storage.Writer) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, tenantID: s.tenantID})
	})
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ---- Products ----

func (s *Store) GetProduct(ctx context.Context, barcode string) (*catalog.Product, error) {
	var model ProductModel
	if err := s.scoped(ctx).Where("barcode = ?", barcode).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

func (s *Store) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var productModels []ProductModel
	if err := s.scoped(ctx).Order("name ASC").Find(&productModels).Error; err != nil {
		return nil, err
	}
	products := make([]catalog.Product, len(productModels))
	for i, model := range productModels {
		p, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		products[i] = *p
	}
	return products, nil
}

// CreateProduct is insert-only: the (tenant, barcode) primary key rejects a
// second insert of the same barcode, so concurrent adds cannot silently
// overwrite each other.
func (s *Store) CreateProduct(ctx context.Context, p *catalog.Product) error {
	model, err := ProductModelFromDomain(s.tenantID, p)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *Store) PutProduct(ctx context.Context, p *catalog.Product) error {
	model, err := ProductModelFromDomain(s.tenantID, p)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Save(model).Error
}

// AdjustProductQuantity moves the stock level by delta relative to the stored
// value. Two concurrent sales of the same product on the shared backend both
// land their decrement instead of the later write clobbering the earlier one.
func (s *Store) AdjustProductQuantity(ctx context.Context, barcode string, delta int) error {
	result := s.scoped(ctx).Model(&ProductModel{}).Where("barcode = ?", barcode).
		UpdateColumns(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, barcode string) error {
	result := s.scoped(ctx).Where("barcode = ?", barcode).Delete(&ProductModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ---- Sales ----

func (s *Store) ListSales(ctx context.Context) ([]trade.Sale, error) {
	var saleModels []SaleModel
	if err := s.scoped(ctx).Order("id DESC").Find(&saleModels).Error; err != nil {
		return nil, err
	}
	sales := make([]trade.Sale, len(saleModels))
	for i, model := range saleModels {
		sale, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		sales[i] = *sale
	}
	return sales, nil
}

func (s *Store) PutSale(ctx context.Context, sale *trade.Sale) error {
	model, err := SaleModelFromDomain(s.tenantID, sale)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Save(model).Error
}

// ---- Customers ----

func (s *Store) GetCustomer(ctx context.Context, id string) (*partner.Customer, error) {
	var model CustomerModel
	if err := s.scoped(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]partner.Customer, error) {
	var customerModels []CustomerModel
	if err := s.scoped(ctx).Order("name ASC").Find(&customerModels).Error; err != nil {
		return nil, err
	}
	customers := make([]partner.Customer, len(customerModels))
	for i, model := range customerModels {
		customers[i] = *model.ToDomain()
	}
	return customers, nil
}

func (s *Store) PutCustomer(ctx context.Context, c *partner.Customer) error {
	return s.db.WithContext(ctx).Save(CustomerModelFromDomain(s.tenantID, c)).Error
}

func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	result := s.scoped(ctx).Where("id = ?", id).Delete(&CustomerModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ---- Expenses ----

func (s *Store) ListExpenses(ctx context.Context) ([]finance.Expense, error) {
	var expenseModels []ExpenseModel
	if err := s.scoped(ctx).Order("date DESC").Find(&expenseModels).Error; err != nil {
		return nil, err
	}
	expenses := make([]finance.Expense, len(expenseModels))
	for i, model := range expenseModels {
		e, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		expenses[i] = *e
	}
	return expenses, nil
}

func (s *Store) PutExpense(ctx context.Context, e *finance.Expense) error {
	model, err := ExpenseModelFromDomain(s.tenantID, e)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Save(model).Error
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	result := s.scoped(ctx).Where("id = ?", id).Delete(&ExpenseModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ---- Recurring expenses ----

func (s *Store) ListRecurring(ctx context.Context) ([]finance.RecurringExpense, error) {
	var recurringModels []RecurringExpenseModel
	if err := s.scoped(ctx).Order("start_date ASC").Find(&recurringModels).Error; err != nil {
		return nil, err
	}
	recurring := make([]finance.RecurringExpense, len(recurringModels))
	for i, model := range recurringModels {
		recurring[i] = *model.ToDomain()
	}
	return recurring, nil
}

func (s *Store) PutRecurring(ctx context.Context, r *finance.RecurringExpense) error {
	return s.db.WithContext(ctx).Save(RecurringExpenseModelFromDomain(s.tenantID, r)).Error
}

func (s *Store) DeleteRecurring(ctx context.Context, id string) error {
	result := s.scoped(ctx).Where("id = ?", id).Delete(&RecurringExpenseModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ---- Employees ----

func (s *Store) GetEmployee(ctx context.Context, id string) (*finance.Employee, error) {
	var model EmployeeModel
	if err := s.scoped(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]finance.Employee, error) {
	var employeeModels []EmployeeModel
	if err := s.scoped(ctx).Order("name ASC").Find(&employeeModels).Error; err != nil {
		return nil, err
	}
	employees := make([]finance.Employee, len(employeeModels))
	for i, model := range employeeModels {
		employees[i] = *model.ToDomain()
	}
	return employees, nil
}

func (s *Store) PutEmployee(ctx context.Context, e *finance.Employee) error {
	return s.db.WithContext(ctx).Save(EmployeeModelFromDomain(s.tenantID, e)).Error
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	result := s.scoped(ctx).Where("id = ?", id).Delete(&EmployeeModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ---- Attachments ----

func (s *Store) ListAttachmentsBySource(ctx context.Context, sourceID string) ([]finance.Attachment, error) {
	var attachmentModels []AttachmentModel
	if err := s.scoped(ctx).Where("source_id = ?", sourceID).Find(&attachmentModels).Error; err != nil {
		return nil, err
	}
	attachments := make([]finance.Attachment, len(attachmentModels))
	for i, model := range attachmentModels {
		attachments[i] = *model.ToDomain()
	}
	return attachments, nil
}

func (s *Store) PutAttachment(ctx context.Context, a *finance.Attachment) error {
	return s.db.WithContext(ctx).Save(AttachmentModelFromDomain(s.tenantID, a)).Error
}

func (s *Store) DeleteAttachment(ctx context.Context, id string) error {
	result := s.scoped(ctx).Where("id = ?", id).Delete(&AttachmentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ---- Payments ----

func (s *Store) GetPayments(ctx context.Context, ids []string) ([]trade.Payment, error) {
	if len(ids) == 0 {
		return []trade.Payment{}, nil
	}
	var paymentModels []PaymentModel
	if err := s.scoped(ctx).Where("id IN ?", ids).Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	payments := make([]trade.Payment, len(paymentModels))
	for i, model := range paymentModels {
		p, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		payments[i] = *p
	}
	return payments, nil
}

func (s *Store) PutPayment(ctx context.Context, p *trade.Payment) error {
	model, err := PaymentModelFromDomain(s.tenantID, p)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Save(model).Error
}

// ---- Settings ----

func (s *Store) GetExchangeRates(ctx context.Context) (catalog.ExchangeRates, error) {
	var rateModels []ExchangeRateModel
	if err := s.scoped(ctx).Find(&rateModels).Error; err != nil {
		return nil, err
	}
	rates := make(catalog.ExchangeRates, len(rateModels))
	for _, model := range rateModels {
		rates[catalog.Currency(model.Currency)] = model.Rate
	}
	return rates, nil
}

// PutExchangeRates replaces the tenant's whole rate table, matching the
// read-as-a-whole, write-as-a-whole contract of the table.
func (s *Store) PutExchangeRates(ctx context.Context, rates catalog.ExchangeRates) error {
	if err := s.scoped(ctx).Delete(&ExchangeRateModel{}).Error; err != nil {
		return err
	}
	if len(rates) == 0 {
		return nil
	}
	rateModels := make([]ExchangeRateModel, 0, len(rates))
	for currency, rate := range rates {
		rateModels = append(rateModels, ExchangeRateModel{
			TenantID: s.tenantID,
			Currency: string(currency),
			Rate:     rate,
		})
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rateModels).Error
}

func (s *Store) GetAppSettings(ctx context.Context) (*catalog.AppSettings, error) {
	return s.GetAppSettingsForTenant(ctx, s.tenantID)
}

func (s *Store) PutAppSettings(ctx context.Context, settings catalog.AppSettings) error {
	model := &AppSettingsModel{TenantID: s.tenantID, ShopName: settings.ShopName}
	return s.db.WithContext(ctx).Save(model).Error
}

func (s *Store) ListCostTitles(ctx context.Context) ([]catalog.CostTitle, error) {
	var titleModels []CostTitleModel
	if err := s.scoped(ctx).Order("title ASC").Find(&titleModels).Error; err != nil {
		return nil, err
	}
	titles := make([]catalog.CostTitle, len(titleModels))
	for i, model := range titleModels {
		titles[i] = catalog.CostTitle{ID: model.ID, Title: model.Title}
	}
	return titles, nil
}

func (s *Store) PutCostTitle(ctx context.Context, t *catalog.CostTitle) error {
	model := &CostTitleModel{TenantID: s.tenantID, ID: t.ID, Title: t.Title}
	return s.db.WithContext(ctx).Save(model).Error
}

func (s *Store) DeleteCostTitle(ctx context.Context, id string) error {
	result := s.scoped(ctx).Where("id = ?", id).Delete(&CostTitleModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ---- User profiles ----

func (s *Store) GetProfile(ctx context.Context, tenantID string) (*identity.UserProfile, error) {
	var model UserProfileModel
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (s *Store) PutProfile(ctx context.Context, p *identity.UserProfile) error {
	return s.db.WithContext(ctx).Save(UserProfileModelFromDomain(p)).Error
}

// ListAllProfiles enumerates every tenant's profile. Privilege gating happens
// above this layer.
func (s *Store) ListAllProfiles(ctx context.Context) ([]identity.UserProfile, error) {
	var profileModels []UserProfileModel
	if err := s.db.WithContext(ctx).Order("tenant_id ASC").Find(&profileModels).Error; err != nil {
		return nil, err
	}
	profiles := make([]identity.UserProfile, len(profileModels))
	for i, model := range profileModels {
		profiles[i] = *model.ToDomain()
	}
	return profiles, nil
}

// GetAppSettingsForTenant reads a specific tenant's settings singleton.
func (s *Store) GetAppSettingsForTenant(ctx context.Context, tenantID string) (*catalog.AppSettings, error) {
	var model AppSettingsModel
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &catalog.AppSettings{ShopName: model.ShopName}, nil
}

// Ensure Store implements the backend primitives
var (
	_ storage.Backend = (*Store)(nil)
	_ storage.Writer  = (*Store)(nil)
)
