package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeCost(t *testing.T) {
	rates := ExchangeRates{
		CurrencyDollar: decimal.NewFromInt(50000),
		CurrencyEuro:   decimal.NewFromInt(55000),
	}

	t.Run("base currency items pass through unmodified", func(t *testing.T) {
		items := []CostItem{
			{Title: "purchase", Amount: decimal.NewFromInt(120000), Currency: CurrencyToman},
			{Title: "shipping", Amount: decimal.NewFromInt(30000), Currency: CurrencyToman},
		}
		total := NormalizeCost(items, rates)
		assert.True(t, total.Equal(decimal.NewFromInt(150000)), "got %s", total)
	})

	t.Run("foreign items are multiplied by their rate", func(t *testing.T) {
		items := []CostItem{
			{Title: "purchase", Amount: decimal.NewFromInt(2), Currency: CurrencyDollar},
			{Title: "customs", Amount: decimal.NewFromInt(10000), Currency: CurrencyToman},
		}
		total := NormalizeCost(items, rates)
		assert.True(t, total.Equal(decimal.NewFromInt(110000)), "got %s", total)
	})

	t.Run("missing rate contributes zero", func(t *testing.T) {
		items := []CostItem{
			{Title: "purchase", Amount: decimal.NewFromInt(100), Currency: CurrencyYuan},
			{Title: "shipping", Amount: decimal.NewFromInt(5000), Currency: CurrencyToman},
		}
		total := NormalizeCost(items, rates)
		assert.True(t, total.Equal(decimal.NewFromInt(5000)), "got %s", total)
	})

	t.Run("empty items normalize to zero", func(t *testing.T) {
		assert.True(t, NormalizeCost(nil, rates).IsZero())
	})

	t.Run("empty rate table keeps only base items", func(t *testing.T) {
		items := []CostItem{
			{Title: "purchase", Amount: decimal.NewFromInt(3), Currency: CurrencyEuro},
			{Title: "labor", Amount: decimal.NewFromInt(7000), Currency: CurrencyToman},
		}
		total := NormalizeCost(items, ExchangeRates{})
		assert.True(t, total.Equal(decimal.NewFromInt(7000)), "got %s", total)
	})
}

func TestSellingPrice(t *testing.T) {
	t.Run("adds the margin percentage on top of cost", func(t *testing.T) {
		price := SellingPrice(decimal.NewFromInt(1000), decimal.NewFromInt(30))
		assert.True(t, price.Equal(decimal.NewFromInt(1300)), "got %s", price)
	})

	t.Run("zero margin sells at cost", func(t *testing.T) {
		price := SellingPrice(decimal.NewFromInt(1000), decimal.Zero)
		assert.True(t, price.Equal(decimal.NewFromInt(1000)), "got %s", price)
	})

	t.Run("fractional margins are exact", func(t *testing.T) {
		price := SellingPrice(decimal.NewFromInt(200), decimal.NewFromFloat(12.5))
		assert.True(t, price.Equal(decimal.NewFromInt(225)), "got %s", price)
	})
}
