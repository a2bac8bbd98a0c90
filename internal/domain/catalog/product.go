package catalog

import (
	"strings"
	"time"

	"github.com/shopbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a stocked item. Its identity is the caller-assigned barcode,
// unique within a tenant.
type Product struct {
	Barcode           string
	Name              string
	SellingPrice      decimal.Decimal
	Quantity          int
	LowStockThreshold int
	ProfitMargin      decimal.Decimal // percent
	Costs             []CostItem
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewProduct creates a product and derives its selling price from the given
// cost items, margin and exchange rates.
func NewProduct(barcode, name string, quantity, lowStockThreshold int, margin decimal.Decimal, costs []CostItem, rates ExchangeRates) (*Product, error) {
	if strings.TrimSpace(barcode) == "" {
		return nil, shared.NewDomainError("INVALID_BARCODE", "Barcode cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}

	now := time.Now()
	p := &Product{
		Barcode:           barcode,
		Name:              name,
		Quantity:          quantity,
		LowStockThreshold: lowStockThreshold,
		ProfitMargin:      margin,
		Costs:             costs,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	p.RecalculatePrice(rates)
	return p, nil
}

// UnitCost returns the product's total cost normalized to the base currency.
func (p *Product) UnitCost(rates ExchangeRates) decimal.Decimal {
	return NormalizeCost(p.Costs, rates)
}

// RecalculatePrice rederives the selling price from cost, margin and rates.
// The selling price is never edited independently.
func (p *Product) RecalculatePrice(rates ExchangeRates) {
	p.SellingPrice = SellingPrice(p.UnitCost(rates), p.ProfitMargin)
	p.UpdatedAt = time.Now()
}

// IsLowStock reports whether the on-hand quantity is at or below the threshold.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.LowStockThreshold
}

// CostTitle is one entry of the user-managed vocabulary for cost item titles.
type CostTitle struct {
	ID    string
	Title string
}

// AppSettings is the per-tenant singleton of display settings.
type AppSettings struct {
	ShopName string
}
