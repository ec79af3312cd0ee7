// Package accounting arma los estados financieros (resultados y balance) a partir
// de totales ya agregados por los repositorios.
package accounting

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Margin porcentaje profit/revenue × 100 redondeado a 2 decimales; cero sin ingresos.
func Margin(profit, revenue decimal.Decimal) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return profit.Div(revenue).Mul(hundred).Round(2)
}

// CategoryAmount total por categoría de gasto.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// PLInput totales del período para el estado de resultados.
type PLInput struct {
	Revenue     decimal.Decimal // ventas netas de impuestos y descuentos
	COGS        decimal.Decimal
	Expenses    []CategoryAmount
	OtherIncome decimal.Decimal
}

// ProfitAndLoss estado de resultados.
type ProfitAndLoss struct {
	Revenue           decimal.Decimal  `json:"revenue"`
	COGS              decimal.Decimal  `json:"cogs"`
	GrossProfit       decimal.Decimal  `json:"gross_profit"`
	GrossMargin       decimal.Decimal  `json:"gross_margin"`
	OperatingExpenses []CategoryAmount `json:"operating_expenses"`
	TotalExpenses     decimal.Decimal  `json:"total_expenses"`
	OperatingProfit   decimal.Decimal  `json:"operating_profit"`
	OtherIncome       decimal.Decimal  `json:"other_income"`
	NetProfit         decimal.Decimal  `json:"net_profit"`
	NetMargin         decimal.Decimal  `json:"net_margin"`
}

// BuildProfitAndLoss calcula utilidad bruta, operativa y neta.
// Las categorías repetidas se agrupan y se ordenan por nombre.
func BuildProfitAndLoss(in PLInput) ProfitAndLoss {
	grouped := map[string]decimal.Decimal{}
	for _, e := range in.Expenses {
		grouped[e.Category] = grouped[e.Category].Add(e.Amount)
	}
	expenses := make([]CategoryAmount, 0, len(grouped))
	total := decimal.Zero
	for cat, amt := range grouped {
		expenses = append(expenses, CategoryAmount{Category: cat, Amount: amt})
		total = total.Add(amt)
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].Category < expenses[j].Category })

	gross := in.Revenue.Sub(in.COGS)
	operating := gross.Sub(total)
	net := operating.Add(in.OtherIncome)

	return ProfitAndLoss{
		Revenue:           in.Revenue,
		COGS:              in.COGS,
		GrossProfit:       gross,
		GrossMargin:       Margin(gross, in.Revenue),
		OperatingExpenses: expenses,
		TotalExpenses:     total,
		OperatingProfit:   operating,
		OtherIncome:       in.OtherIncome,
		NetProfit:         net,
		NetMargin:         Margin(net, in.Revenue),
	}
}

// BSInput saldos acumulados hasta la fecha de corte.
type BSInput struct {
	SalesCollected   decimal.Decimal // Σ pagado − vuelto de ventas no anuladas
	Income           decimal.Decimal
	Expenses         decimal.Decimal
	SupplierPayments decimal.Decimal
	Receivables      decimal.Decimal
	Inventory        decimal.Decimal // valorización FIFO al costo
	Payables         decimal.Decimal // órdenes recibidas − pagos
}

// BalanceSheet balance general simplificado (saldos iniciales en cero).
type BalanceSheet struct {
	Cash             decimal.Decimal `json:"cash"`
	Receivables      decimal.Decimal `json:"receivables"`
	Inventory        decimal.Decimal `json:"inventory"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	Payables         decimal.Decimal `json:"payables"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	Equity           decimal.Decimal `json:"equity"`
}

// BuildBalanceSheet activos = caja + cuentas por cobrar + inventario; patrimonio = activos − pasivos.
func BuildBalanceSheet(in BSInput) BalanceSheet {
	cash := in.SalesCollected.Add(in.Income).Sub(in.Expenses).Sub(in.SupplierPayments)
	assets := cash.Add(in.Receivables).Add(in.Inventory)
	return BalanceSheet{
		Cash:             cash,
		Receivables:      in.Receivables,
		Inventory:        in.Inventory,
		TotalAssets:      assets,
		Payables:         in.Payables,
		TotalLiabilities: in.Payables,
		Equity:           assets.Sub(in.Payables),
	}
}

// ProductSales ventas agregadas por producto.
type ProductSales struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
	COGS        decimal.Decimal `json:"cogs"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	Margin      decimal.Decimal `json:"margin"`
}

// Finalize completa utilidad y margen a partir de ingresos y costo.
func (p *ProductSales) Finalize() {
	p.GrossProfit = p.Revenue.Sub(p.COGS)
	p.Margin = Margin(p.GrossProfit, p.Revenue)
}

// TopProducts ordena por ingreso descendente (desempate por SKU) y corta en n. n <= 0 devuelve todo.
func TopProducts(rows []ProductSales, n int) []ProductSales {
	out := make([]ProductSales, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].SKU < out[j].SKU
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
