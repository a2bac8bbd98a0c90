package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	rates := ExchangeRates{CurrencyDollar: decimal.NewFromInt(50000)}
	costs := []CostItem{
		{Title: "purchase", Amount: decimal.NewFromInt(1), Currency: CurrencyDollar},
		{Title: "shipping", Amount: decimal.NewFromInt(10000), Currency: CurrencyToman},
	}

	t.Run("creates product and derives selling price", func(t *testing.T) {
		product, err := NewProduct("8901234", "Green Tea", 20, 5, decimal.NewFromInt(25), costs, rates)
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, "8901234", product.Barcode)
		assert.Equal(t, "Green Tea", product.Name)
		assert.Equal(t, 20, product.Quantity)
		assert.Equal(t, 5, product.LowStockThreshold)
		// cost 60000, margin 25% -> 75000
		assert.True(t, product.SellingPrice.Equal(decimal.NewFromInt(75000)), "got %s", product.SellingPrice)
		assert.False(t, product.CreatedAt.IsZero())
	})

	t.Run("fails with empty barcode", func(t *testing.T) {
		_, err := NewProduct("  ", "Green Tea", 0, 0, decimal.Zero, nil, rates)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Barcode cannot be empty")
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct("8901234", "", 0, 0, decimal.Zero, nil, rates)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})
}

func TestProductRecalculatePrice(t *testing.T) {
	product, err := NewProduct("111", "Soap", 10, 2, decimal.NewFromInt(50),
		[]CostItem{{Title: "purchase", Amount: decimal.NewFromInt(2), Currency: CurrencyDollar}},
		ExchangeRates{CurrencyDollar: decimal.NewFromInt(50000)})
	require.NoError(t, err)
	assert.True(t, product.SellingPrice.Equal(decimal.NewFromInt(150000)), "got %s", product.SellingPrice)

	// A rate change reprices the product on the next recalculation.
	product.RecalculatePrice(ExchangeRates{CurrencyDollar: decimal.NewFromInt(60000)})
	assert.True(t, product.SellingPrice.Equal(decimal.NewFromInt(180000)), "got %s", product.SellingPrice)
}

func TestProductIsLowStock(t *testing.T) {
	product := &Product{Quantity: 5, LowStockThreshold: 5}
	assert.True(t, product.IsLowStock())

	product.Quantity = 6
	assert.False(t, product.IsLowStock())

	// Oversold stock is always low.
	product.Quantity = -3
	assert.True(t, product.IsLowStock())
}
