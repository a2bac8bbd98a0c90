package catalog

import "github.com/shopspring/decimal"

// Currency identifies the currency of a cost item. CurrencyToman is the base
// currency; all monetary figures are normalized to it for storage and reporting.
type Currency string

const (
	CurrencyToman  Currency = "TOMAN"
	CurrencyDollar Currency = "USD"
	CurrencyEuro   Currency = "EUR"
	CurrencyDirham Currency = "AED"
	CurrencyYuan   Currency = "CNY"
)

// BaseCurrency is the currency everything is normalized to.
const BaseCurrency = CurrencyToman

// CostItem is one landed-cost component of a product, tagged with a currency.
type CostItem struct {
	Title    string
	Amount   decimal.Decimal
	Currency Currency
}

// ExchangeRates maps a non-base currency to its multiplier to the base currency.
// The table is small and fixed-size: read as a whole, written as a whole.
type ExchangeRates map[Currency]decimal.Decimal

// NormalizeCost converts cost items into a single base-currency total.
// Base-currency items are added unmodified. A non-base item whose currency has
// no rate entry contributes zero; callers that care must validate the table
// up front.
func NormalizeCost(items []CostItem, rates ExchangeRates) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Currency == BaseCurrency {
			total = total.Add(item.Amount)
			continue
		}
		rate, ok := rates[item.Currency]
		if !ok {
			continue
		}
		total = total.Add(item.Amount.Mul(rate))
	}
	return total
}

// SellingPrice derives the selling price from a normalized cost and a profit
// margin percentage: cost * (1 + margin/100).
func SellingPrice(cost, marginPercent decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return cost.Add(cost.Mul(marginPercent).Div(hundred))
}
