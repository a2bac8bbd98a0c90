package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary  = "Summary"
	sheetSales    = "Sales"
	sheetExpenses = "Expenses"
	sheetLowStock = "Low Stock"
)

// ExportExcel renders the period report as an xlsx workbook and returns its
// bytes. One sheet per concern: summary, sale lines, expenses, low stock.
func (s *Service) ExportExcel(ctx context.Context, from, to time.Time) ([]byte, error) {
	summary, err := s.Summary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	sales, err := s.store.Sales(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	expenses, err := s.store.Expenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	low, err := s.LowStock(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}

	summaryRows := [][]any{
		{"From", summary.From.Format("2006-01-02")},
		{"To", summary.To.Format("2006-01-02")},
		{"Sales", summary.SaleCount},
		{"Revenue", summary.Revenue.InexactFloat64()},
		{"Cost of goods", summary.CostOfGoods.InexactFloat64()},
		{"Gross profit", summary.GrossProfit.InexactFloat64()},
		{"Expenses", summary.ExpenseTotal.InexactFloat64()},
		{"Net profit", summary.NetProfit.InexactFloat64()},
	}
	for i, row := range summaryRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write summary: %w", err)
		}
	}

	if _, err := f.NewSheet(sheetSales); err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}
	salesHeader := []any{"Sale ID", "Date", "Customer", "Product", "Quantity", "Unit Price", "Line Total", "Line Cost"}
	if err := f.SetSheetRow(sheetSales, "A1", &salesHeader); err != nil {
		return nil, fmt.Errorf("failed to write sales header: %w", err)
	}
	rowNum := 2
	for _, sale := range sales {
		if !inRange(sale.Date, from, summary.To) {
			continue
		}
		for _, item := range sale.Items {
			lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			row := []any{
				sale.ID,
				sale.Date.Format("2006-01-02 15:04"),
				sale.CustomerName,
				item.ProductName,
				item.Quantity,
				item.UnitPrice.InexactFloat64(),
				lineTotal.InexactFloat64(),
				item.CostSnapshot.InexactFloat64(),
			}
			cell, _ := excelize.CoordinatesToCellName(1, rowNum)
			if err := f.SetSheetRow(sheetSales, cell, &row); err != nil {
				return nil, fmt.Errorf("failed to write sale row: %w", err)
			}
			rowNum++
		}
	}

	if _, err := f.NewSheet(sheetExpenses); err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}
	expenseHeader := []any{"Date", "Title", "Amount"}
	if err := f.SetSheetRow(sheetExpenses, "A1", &expenseHeader); err != nil {
		return nil, fmt.Errorf("failed to write expense header: %w", err)
	}
	rowNum = 2
	for _, e := range expenses {
		if !inRange(e.Date, from, summary.To) {
			continue
		}
		row := []any{e.Date.Format("2006-01-02"), e.Title, e.Amount.InexactFloat64()}
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(sheetExpenses, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write expense row: %w", err)
		}
		rowNum++
	}

	if _, err := f.NewSheet(sheetLowStock); err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}
	lowHeader := []any{"Barcode", "Name", "Quantity", "Threshold"}
	if err := f.SetSheetRow(sheetLowStock, "A1", &lowHeader); err != nil {
		return nil, fmt.Errorf("failed to write low stock header: %w", err)
	}
	for i, p := range low {
		row := []any{p.Barcode, p.Name, p.Quantity, p.LowStockThreshold}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetLowStock, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write low stock row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
