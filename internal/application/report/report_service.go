// Package report aggregates sales, expenses and stock into business
// summaries, spreadsheet exports and the snapshots the AI advisor consumes.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopbook/backend/internal/domain/catalog"
	"github.com/shopbook/backend/internal/storage"
)

// Summary is the profit-and-loss view for a period. Cost of goods comes from
// the per-line cost snapshots frozen at sale time, so historical figures stay
// stable when product costs change later.
type Summary struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	SaleCount    int             `json:"sale_count"`
	Revenue      decimal.Decimal `json:"revenue"`
	CostOfGoods  decimal.Decimal `json:"cost_of_goods"`
	GrossProfit  decimal.Decimal `json:"gross_profit"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
	NetProfit    decimal.Decimal `json:"net_profit"`
}

// ProductSales is the units-sold aggregate for one product name.
type ProductSales struct {
	Name  string `json:"name"`
	Units int    `json:"units"`
}

// Service computes reports over whatever backend the store currently uses.
type Service struct {
	store  storage.Store
	logger *zap.Logger
}

// NewService creates a report service. The logger may be nil.
func NewService(store storage.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Summary computes the profit-and-loss summary for [from, to]. A zero "to"
// means now.
func (s *Service) Summary(ctx context.Context, from, to time.Time) (*Summary, error) {
	if to.IsZero() {
		to = time.Now()
	}

	sales, err := s.store.Sales(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	expenses, err := s.store.Expenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	sum := &Summary{
		From:         from,
		To:           to,
		Revenue:      decimal.Zero,
		CostOfGoods:  decimal.Zero,
		ExpenseTotal: decimal.Zero,
	}

	for _, sale := range sales {
		if !inRange(sale.Date, from, to) {
			continue
		}
		sum.SaleCount++
		sum.Revenue = sum.Revenue.Add(sale.Total)
		for _, item := range sale.Items {
			sum.CostOfGoods = sum.CostOfGoods.Add(item.CostSnapshot)
		}
	}

	for _, e := range expenses {
		if !inRange(e.Date, from, to) {
			continue
		}
		sum.ExpenseTotal = sum.ExpenseTotal.Add(e.Amount)
	}

	sum.GrossProfit = sum.Revenue.Sub(sum.CostOfGoods)
	sum.NetProfit = sum.GrossProfit.Sub(sum.ExpenseTotal)
	return sum, nil
}

// UnitsSold aggregates units sold per product name over [from, to],
// most-sold first.
func (s *Service) UnitsSold(ctx context.Context, from, to time.Time) ([]ProductSales, error) {
	if to.IsZero() {
		to = time.Now()
	}

	sales, err := s.store.Sales(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	units := make(map[string]int)
	order := make([]string, 0)
	for _, sale := range sales {
		if !inRange(sale.Date, from, to) {
			continue
		}
		for _, item := range sale.Items {
			if _, seen := units[item.ProductName]; !seen {
				order = append(order, item.ProductName)
			}
			units[item.ProductName] += item.Quantity
		}
	}

	result := make([]ProductSales, 0, len(order))
	for _, name := range order {
		result = append(result, ProductSales{Name: name, Units: units[name]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Units > result[j].Units
	})
	return result, nil
}

// LowStock lists products at or below their low-stock threshold.
func (s *Service) LowStock(ctx context.Context) ([]catalog.Product, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	low := make([]catalog.Product, 0)
	for _, p := range products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return low, nil
}

// stockEntry is the advisor-facing view of one product's stock level.
type stockEntry struct {
	Name              string `json:"name"`
	Quantity          int    `json:"quantity"`
	LowStockThreshold int    `json:"lowStockThreshold"`
}

// AdvisorSnapshots builds the two JSON documents the AI advisor consumes: the
// per-product stock snapshot and the units-sold aggregate for the last three
// months.
func (s *Service) AdvisorSnapshots(ctx context.Context) (stockJSON, salesJSON string, err error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to load products: %w", err)
	}
	entries := make([]stockEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, stockEntry{
			Name:              p.Name,
			Quantity:          p.Quantity,
			LowStockThreshold: p.LowStockThreshold,
		})
	}

	sold, err := s.UnitsSold(ctx, time.Now().AddDate(0, -3, 0), time.Time{})
	if err != nil {
		return "", "", err
	}

	stockBytes, err := json.Marshal(entries)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode stock snapshot: %w", err)
	}
	salesBytes, err := json.Marshal(sold)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode sales aggregate: %w", err)
	}
	return string(stockBytes), string(salesBytes), nil
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	return !t.After(to)
}
