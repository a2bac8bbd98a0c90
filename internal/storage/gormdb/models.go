package gormdb

import (
	"encoding/json"
	"time"

	"github.com/shopbook/backend/internal/domain/catalog"
	"github.com/shopbook/backend/internal/domain/finance"
	"github.com/shopbook/backend/internal/domain/identity"
	"github.com/shopbook/backend/internal/domain/partner"
	"github.com/shopbook/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// Persistence models shared by the local (sqlite) and cloud (postgres)
// backends. Keeping one model set is what keeps the two backends' schemas in
// lockstep. Every row is tenant-scoped; the local backend simply holds a
// single tenant.

// ProductModel persists catalog.Product keyed by (tenant, barcode).
type ProductModel struct {
	TenantID          string          `gorm:"type:varchar(64);primaryKey"`
	Barcode           string          `gorm:"type:varchar(64);primaryKey"`
	Name              string          `gorm:"type:varchar(200);not null"`
	SellingPrice      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Quantity          int             `gorm:"not null;default:0"`
	LowStockThreshold int             `gorm:"not null;default:0"`
	ProfitMargin      decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0"`
	Costs             string          `gorm:"type:text"` // JSON cost line-items
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

func (ProductModel) TableName() string { return "products" }

type costItemJSON struct {
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// ToDomain converts the model to a domain product.
func (m *ProductModel) ToDomain() (*catalog.Product, error) {
	var rawCosts []costItemJSON
	if m.Costs != "" {
		if err := json.Unmarshal([]byte(m.Costs), &rawCosts); err != nil {
			return nil, err
		}
	}
	costs := make([]catalog.CostItem, len(rawCosts))
	for i, c := range rawCosts {
		costs[i] = catalog.CostItem{Title: c.Title, Amount: c.Amount, Currency: catalog.Currency(c.Currency)}
	}
	return &catalog.Product{
		Barcode:           m.Barcode,
		Name:              m.Name,
		SellingPrice:      m.SellingPrice,
		Quantity:          m.Quantity,
		LowStockThreshold: m.LowStockThreshold,
		ProfitMargin:      m.ProfitMargin,
		Costs:             costs,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}, nil
}

// ProductModelFromDomain converts a domain product to its model.
func ProductModelFromDomain(tenantID string, p *catalog.Product) (*ProductModel, error) {
	rawCosts := make([]costItemJSON, len(p.Costs))
	for i, c := range p.Costs {
		rawCosts[i] = costItemJSON{Title: c.Title, Amount: c.Amount, Currency: string(c.Currency)}
	}
	encoded, err := json.Marshal(rawCosts)
	if err != nil {
		return nil, err
	}
	return &ProductModel{
		TenantID:          tenantID,
		Barcode:           p.Barcode,
		Name:              p.Name,
		SellingPrice:      p.SellingPrice,
		Quantity:          p.Quantity,
		LowStockThreshold: p.LowStockThreshold,
		ProfitMargin:      p.ProfitMargin,
		Costs:             string(encoded),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}, nil
}

// SaleModel persists trade.Sale. The numeric id doubles as the
// most-recent-first sort key.
type SaleModel struct {
	TenantID     string          `gorm:"type:varchar(64);primaryKey"`
	ID           int64           `gorm:"primaryKey;autoIncrement:false"`
	Items        string          `gorm:"type:text"` // JSON sale line-items
	Total        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentIDs   string          `gorm:"type:text"` // JSON string array
	Date         time.Time       `gorm:"not null;index"`
	CustomerID   string          `gorm:"type:varchar(64)"`
	CustomerName string          `gorm:"type:varchar(200)"`
}

func (SaleModel) TableName() string { return "sales" }

type saleItemJSON struct {
	ProductBarcode string          `json:"productBarcode"`
	ProductName    string          `json:"productName"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	CostSnapshot   decimal.Decimal `json:"costSnapshot"`
}

// ToDomain converts the model to a domain sale.
func (m *SaleModel) ToDomain() (*trade.Sale, error) {
	var rawItems []saleItemJSON
	if m.Items != "" {
		if err := json.Unmarshal([]byte(m.Items), &rawItems); err != nil {
			return nil, err
		}
	}
	items := make([]trade.SaleItem, len(rawItems))
	for i, it := range rawItems {
		items[i] = trade.SaleItem(it)
	}
	paymentIDs, err := decodeStringList(m.PaymentIDs)
	if err != nil {
		return nil, err
	}
	return &trade.Sale{
		ID:           m.ID,
		Items:        items,
		Total:        m.Total,
		PaymentIDs:   paymentIDs,
		Date:         m.Date,
		CustomerID:   m.CustomerID,
		CustomerName: m.CustomerName,
	}, nil
}

// SaleModelFromDomain converts a domain sale to its model.
func SaleModelFromDomain(tenantID string, s *trade.Sale) (*SaleModel, error) {
	rawItems := make([]saleItemJSON, len(s.Items))
	for i, it := range s.Items {
		rawItems[i] = saleItemJSON(it)
	}
	encoded, err := json.Marshal(rawItems)
	if err != nil {
		return nil, err
	}
	paymentIDs, err := encodeStringList(s.PaymentIDs)
	if err != nil {
		return nil, err
	}
	return &SaleModel{
		TenantID:     tenantID,
		ID:           s.ID,
		Items:        string(encoded),
		Total:        s.Total,
		PaymentIDs:   paymentIDs,
		Date:         s.Date,
		CustomerID:   s.CustomerID,
		CustomerName: s.CustomerName,
	}, nil
}

// PaymentModel persists trade.Payment.
type PaymentModel struct {
	TenantID      string          `gorm:"type:varchar(64);primaryKey"`
	ID            string          `gorm:"type:varchar(64);primaryKey"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Method        string          `gorm:"type:varchar(20);not null"`
	Date          time.Time       `gorm:"not null"`
	AttachmentIDs string          `gorm:"type:text"`
}

func (PaymentModel) TableName() string { return "payments" }

// ToDomain converts the model to a domain payment.
func (m *PaymentModel) ToDomain() (*trade.Payment, error) {
	attachmentIDs, err := decodeStringList(m.AttachmentIDs)
	if err != nil {
		return nil, err
	}
	return &trade.Payment{
		ID:            m.ID,
		Amount:        m.Amount,
		Method:        trade.PaymentMethod(m.Method),
		Date:          m.Date,
		AttachmentIDs: attachmentIDs,
	}, nil
}

// PaymentModelFromDomain converts a domain payment to its model.
func PaymentModelFromDomain(tenantID string, p *trade.Payment) (*PaymentModel, error) {
	attachmentIDs, err := encodeStringList(p.AttachmentIDs)
	if err != nil {
		return nil, err
	}
	return &PaymentModel{
		TenantID:      tenantID,
		ID:            p.ID,
		Amount:        p.Amount,
		Method:        string(p.Method),
		Date:          p.Date,
		AttachmentIDs: attachmentIDs,
	}, nil
}

// CustomerModel persists partner.Customer.
type CustomerModel struct {
	TenantID  string    `gorm:"type:varchar(64);primaryKey"`
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Phone     string    `gorm:"type:varchar(50)"`
	Address   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (CustomerModel) TableName() string { return "customers" }

// ToDomain converts the model to a domain customer.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		ID:        m.ID,
		Name:      m.Name,
		Phone:     m.Phone,
		Address:   m.Address,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// CustomerModelFromDomain converts a domain customer to its model.
func CustomerModelFromDomain(tenantID string, c *partner.Customer) *CustomerModel {
	return &CustomerModel{
		TenantID:  tenantID,
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ExpenseModel persists finance.Expense.
type ExpenseModel struct {
	TenantID      string          `gorm:"type:varchar(64);primaryKey"`
	ID            string          `gorm:"type:varchar(64);primaryKey"`
	Title         string          `gorm:"type:varchar(200);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Date          time.Time       `gorm:"not null;index"`
	AttachmentIDs string          `gorm:"type:text"`
}

func (ExpenseModel) TableName() string { return "expenses" }

// ToDomain converts the model to a domain expense.
func (m *ExpenseModel) ToDomain() (*finance.Expense, error) {
	attachmentIDs, err := decodeStringList(m.AttachmentIDs)
	if err != nil {
		return nil, err
	}
	return &finance.Expense{
		ID:            m.ID,
		Title:         m.Title,
		Amount:        m.Amount,
		Date:          m.Date,
		AttachmentIDs: attachmentIDs,
	}, nil
}

// ExpenseModelFromDomain converts a domain expense to its model.
func ExpenseModelFromDomain(tenantID string, e *finance.Expense) (*ExpenseModel, error) {
	attachmentIDs, err := encodeStringList(e.AttachmentIDs)
	if err != nil {
		return nil, err
	}
	return &ExpenseModel{
		TenantID:      tenantID,
		ID:            e.ID,
		Title:         e.Title,
		Amount:        e.Amount,
		Date:          e.Date,
		AttachmentIDs: attachmentIDs,
	}, nil
}

// RecurringExpenseModel persists finance.RecurringExpense.
type RecurringExpenseModel struct {
	TenantID    string          `gorm:"type:varchar(64);primaryKey"`
	ID          string          `gorm:"type:varchar(64);primaryKey"`
	Title       string          `gorm:"type:varchar(200);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Frequency   string          `gorm:"type:varchar(10);not null"`
	StartDate   time.Time       `gorm:"not null"`
	LastApplied *time.Time
}

func (RecurringExpenseModel) TableName() string { return "recurring_expenses" }

// ToDomain converts the model to a domain recurring expense.
func (m *RecurringExpenseModel) ToDomain() *finance.RecurringExpense {
	return &finance.RecurringExpense{
		ID:          m.ID,
		Title:       m.Title,
		Amount:      m.Amount,
		Frequency:   finance.Frequency(m.Frequency),
		StartDate:   m.StartDate,
		LastApplied: m.LastApplied,
	}
}

// RecurringExpenseModelFromDomain converts a domain recurring expense to its model.
func RecurringExpenseModelFromDomain(tenantID string, r *finance.RecurringExpense) *RecurringExpenseModel {
	return &RecurringExpenseModel{
		TenantID:    tenantID,
		ID:          r.ID,
		Title:       r.Title,
		Amount:      r.Amount,
		Frequency:   string(r.Frequency),
		StartDate:   r.StartDate,
		LastApplied: r.LastApplied,
	}
}

// EmployeeModel persists finance.Employee.
type EmployeeModel struct {
	TenantID           string          `gorm:"type:varchar(64);primaryKey"`
	ID                 string          `gorm:"type:varchar(64);primaryKey"`
	Name               string          `gorm:"type:varchar(200);not null"`
	Position           string          `gorm:"type:varchar(100)"`
	MonthlySalary      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	RecurringExpenseID string          `gorm:"type:varchar(64)"`
	CreatedAt          time.Time       `gorm:"not null"`
}

func (EmployeeModel) TableName() string { return "employees" }

// ToDomain converts the model to a domain employee.
func (m *EmployeeModel) ToDomain() *finance.Employee {
	return &finance.Employee{
		ID:                 m.ID,
		Name:               m.Name,
		Position:           m.Position,
		MonthlySalary:      m.MonthlySalary,
		RecurringExpenseID: m.RecurringExpenseID,
		CreatedAt:          m.CreatedAt,
	}
}

// EmployeeModelFromDomain converts a domain employee to its model.
func EmployeeModelFromDomain(tenantID string, e *finance.Employee) *EmployeeModel {
	return &EmployeeModel{
		TenantID:           tenantID,
		ID:                 e.ID,
		Name:               e.Name,
		Position:           e.Position,
		MonthlySalary:      e.MonthlySalary,
		RecurringExpenseID: e.RecurringExpenseID,
		CreatedAt:          e.CreatedAt,
	}
}

// AttachmentModel persists finance.Attachment. The (tenant, source) index is
// the secondary lookup path for attachments by owning document.
type AttachmentModel struct {
	TenantID    string    `gorm:"type:varchar(64);primaryKey;index:idx_attachments_source,priority:1"`
	ID          string    `gorm:"type:varchar(64);primaryKey"`
	SourceID    string    `gorm:"type:varchar(64);not null;index:idx_attachments_source,priority:2"`
	OwnerKind   string    `gorm:"type:varchar(20);not null"`
	Date        time.Time `gorm:"not null"`
	Description string    `gorm:"type:text"`
	ReceiptNo   string    `gorm:"type:varchar(100)"`
	Image       string    `gorm:"type:text"`
}

func (AttachmentModel) TableName() string { return "attachments" }

// ToDomain converts the model to a domain attachment.
func (m *AttachmentModel) ToDomain() *finance.Attachment {
	return &finance.Attachment{
		ID:          m.ID,
		SourceID:    m.SourceID,
		OwnerKind:   finance.AttachmentOwner(m.OwnerKind),
		Date:        m.Date,
		Description: m.Description,
		ReceiptNo:   m.ReceiptNo,
		Image:       m.Image,
	}
}

// AttachmentModelFromDomain converts a domain attachment to its model.
func AttachmentModelFromDomain(tenantID string, a *finance.Attachment) *AttachmentModel {
	return &AttachmentModel{
		TenantID:    tenantID,
		ID:          a.ID,
		SourceID:    a.SourceID,
		OwnerKind:   string(a.OwnerKind),
		Date:        a.Date,
		Description: a.Description,
		ReceiptNo:   a.ReceiptNo,
		Image:       a.Image,
	}
}

// ExchangeRateModel persists one row of the per-tenant rate table.
type ExchangeRateModel struct {
	TenantID string          `gorm:"type:varchar(64);primaryKey"`
	Currency string          `gorm:"type:varchar(10);primaryKey"`
	Rate     decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
}

func (ExchangeRateModel) TableName() string { return "exchange_rates" }

// CostTitleModel persists catalog.CostTitle.
type CostTitleModel struct {
	TenantID string `gorm:"type:varchar(64);primaryKey"`
	ID       string `gorm:"type:varchar(64);primaryKey"`
	Title    string `gorm:"type:varchar(200);not null"`
}

func (CostTitleModel) TableName() string { return "cost_titles" }

// AppSettingsModel persists the per-tenant settings singleton.
type AppSettingsModel struct {
	TenantID string `gorm:"type:varchar(64);primaryKey"`
	ShopName string `gorm:"type:varchar(200)"`
}

func (AppSettingsModel) TableName() string { return "app_settings" }

// UserProfileModel persists identity.UserProfile, keyed by tenant id.
type UserProfileModel struct {
	TenantID string `gorm:"type:varchar(64);primaryKey"`
	Name     string `gorm:"type:varchar(200)"`
	Email    string `gorm:"type:varchar(200)"`
	PhotoURL string `gorm:"type:text"`
	Role     string `gorm:"type:varchar(20);not null;default:'normal'"`
}

func (UserProfileModel) TableName() string { return "user_profiles" }

// ToDomain converts the model to a domain profile.
func (m *UserProfileModel) ToDomain() *identity.UserProfile {
	return &identity.UserProfile{
		TenantID: m.TenantID,
		Name:     m.Name,
		Email:    m.Email,
		PhotoURL: m.PhotoURL,
		Role:     identity.Role(m.Role),
	}
}

// UserProfileModelFromDomain converts a domain profile to its model.
func UserProfileModelFromDomain(p *identity.UserProfile) *UserProfileModel {
	return &UserProfileModel{
		TenantID: p.TenantID,
		Name:     p.Name,
		Email:    p.Email,
		PhotoURL: p.PhotoURL,
		Role:     string(p.Role),
	}
}

func encodeStringList(list []string) (string, error) {
	if len(list) == 0 {
		return "[]", nil
	}
	encoded, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func decodeStringList(encoded string) ([]string, error) {
	if encoded == "" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(encoded), &list); err != nil {
		return nil, err
	}
	return list, nil
}
