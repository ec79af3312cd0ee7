package reports

import (
	"context"
	"fmt"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/domain"
)

func (uc *UseCase) export(sheets ...ports.Sheet) ([]byte, error) {
	if uc.exporter == nil {
		return nil, fmt.Errorf("%w: exportación XLSX no configurada", domain.ErrInvalidInput)
	}
	return uc.exporter.Export(sheets...)
}

// ProfitAndLossXLSX estado de resultados como libro XLSX.
func (uc *UseCase) ProfitAndLossXLSX(ctx context.Context, companyID string, q dto.ReportQuery) ([]byte, error) {
	pl, err := uc.ProfitAndLoss(ctx, companyID, q)
	if err != nil {
		return nil, err
	}
	rows := [][]any{
		{"Ingresos", pl.Revenue},
		{"Costo de ventas", pl.COGS},
		{"Utilidad bruta", pl.GrossProfit},
		{"Margen bruto %", pl.GrossMargin},
	}
	for _, e := range pl.OperatingExpenses {
		rows = append(rows, []any{"Gasto: " + e.Category, e.Amount})
	}
	rows = append(rows,
		[]any{"Total gastos", pl.TotalExpenses},
		[]any{"Utilidad operativa", pl.OperatingProfit},
		[]any{"Otros ingresos", pl.OtherIncome},
		[]any{"Utilidad neta", pl.NetProfit},
		[]any{"Margen neto %", pl.NetMargin},
	)
	return uc.export(ports.Sheet{
		Name:    "Resultados",
		Headers: []string{"Concepto", "Valor"},
		Rows:    rows,
	})
}

// BalanceSheetXLSX balance general como libro XLSX.
func (uc *UseCase) BalanceSheetXLSX(ctx context.Context, companyID string, q dto.BalanceSheetQuery) ([]byte, error) {
	bs, err := uc.BalanceSheet(ctx, companyID, q)
	if err != nil {
		return nil, err
	}
	return uc.export(ports.Sheet{
		Name:    "Balance",
		Headers: []string{"Cuenta", "Valor"},
		Rows: [][]any{
			{"Caja", bs.Cash},
			{"Cuentas por cobrar", bs.Receivables},
			{"Inventario", bs.Inventory},
			{"Total activos", bs.TotalAssets},
			{"Cuentas por pagar", bs.Payables},
			{"Total pasivos", bs.TotalLiabilities},
			{"Patrimonio", bs.Equity},
		},
	})
}

// SalesByProductXLSX ventas por producto como libro XLSX.
func (uc *UseCase) SalesByProductXLSX(ctx context.Context, companyID string, q dto.ReportQuery) ([]byte, error) {
	r, err := uc.SalesByProduct(ctx, companyID, q)
	if err != nil {
		return nil, err
	}
	rows := make([][]any, 0, len(r.Items))
	for _, it := range r.Items {
		rows = append(rows, []any{it.SKU, it.Name, it.Quantity, it.Revenue, it.COGS, it.GrossProfit, it.Margin})
	}
	return uc.export(ports.Sheet{
		Name:    "Ventas por producto",
		Headers: []string{"SKU", "Producto", "Cantidad", "Ingresos", "Costo", "Utilidad", "Margen %"},
		Rows:    rows,
	})
}

// StockValuationXLSX valorización del inventario como libro XLSX.
func (uc *UseCase) StockValuationXLSX(ctx context.Context, companyID string) ([]byte, error) {
	r, err := uc.StockValuation(ctx, companyID)
	if err != nil {
		return nil, err
	}
	rows := make([][]any, 0, len(r.Items)+1)
	for _, it := range r.Items {
		rows = append(rows, []any{it.SKU, it.Name, it.Quantity, it.AverageCost, it.Value})
	}
	rows = append(rows, []any{"", "Total", "", "", r.TotalValue})
	return uc.export(ports.Sheet{
		Name:    "Inventario",
		Headers: []string{"SKU", "Producto", "Existencias", "Costo promedio", "Valor"},
		Rows:    rows,
	})
}
