package accounting_test

import (
	"testing"

	"github.com/jhoicas/Comercio-api/internal/domain/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBuildProfitAndLoss(t *testing.T) {
	pl := accounting.BuildProfitAndLoss(accounting.PLInput{
		Revenue: d("1000"),
		COGS:    d("600"),
		Expenses: []accounting.CategoryAmount{
			{Category: "transport", Amount: d("50")},
			{Category: "payroll", Amount: d("200")},
			{Category: "transport", Amount: d("25")},
		},
		OtherIncome: d("30"),
	})

	assert.True(t, d("400").Equal(pl.GrossProfit))
	assert.True(t, d("40").Equal(pl.GrossMargin))
	assert.True(t, d("275").Equal(pl.TotalExpenses))
	assert.True(t, d("125").Equal(pl.OperatingProfit))
	assert.True(t, d("155").Equal(pl.NetProfit))
	assert.True(t, d("15.5").Equal(pl.NetMargin))

	require.Len(t, pl.OperatingExpenses, 2)
	assert.Equal(t, "payroll", pl.OperatingExpenses[0].Category)
	assert.Equal(t, "transport", pl.OperatingExpenses[1].Category)
	assert.True(t, d("75").Equal(pl.OperatingExpenses[1].Amount))
}

func TestBuildProfitAndLoss_SinIngresosMargenCero(t *testing.T) {
	pl := accounting.BuildProfitAndLoss(accounting.PLInput{
		Expenses: []accounting.CategoryAmount{{Category: "payroll", Amount: d("100")}},
	})

	assert.True(t, pl.GrossMargin.IsZero())
	assert.True(t, pl.NetMargin.IsZero())
	assert.True(t, d("-100").Equal(pl.NetProfit))
}

func TestBuildBalanceSheet(t *testing.T) {
	bs := accounting.BuildBalanceSheet(accounting.BSInput{
		SalesCollected:   d("900"),
		Income:           d("100"),
		Expenses:         d("300"),
		SupplierPayments: d("200"),
		Receivables:      d("150"),
		Inventory:        d("400"),
		Payables:         d("250"),
	})

	assert.True(t, d("500").Equal(bs.Cash))
	assert.True(t, d("1050").Equal(bs.TotalAssets))
	assert.True(t, d("250").Equal(bs.TotalLiabilities))
	assert.True(t, d("800").Equal(bs.Equity))
	assert.True(t, bs.TotalAssets.Equal(bs.TotalLiabilities.Add(bs.Equity)))
}

func TestMargin_Redondeo(t *testing.T) {
	assert.Equal(t, "33.33", accounting.Margin(d("1"), d("3")).StringFixed(2))
}

func TestTopProducts(t *testing.T) {
	rows := []accounting.ProductSales{
		{SKU: "B", Revenue: d("50")},
		{SKU: "A", Revenue: d("50")},
		{SKU: "C", Revenue: d("90")},
	}

	top := accounting.TopProducts(rows, 2)

	require.Len(t, top, 2)
	assert.Equal(t, "C", top[0].SKU)
	assert.Equal(t, "A", top[1].SKU)
	assert.Equal(t, "B", rows[0].SKU, "no debe reordenar el slice original")
	assert.Len(t, accounting.TopProducts(rows, 0), 3)
}

func TestProductSales_Finalize(t *testing.T) {
	p := accounting.ProductSales{Revenue: d("200"), COGS: d("150")}
	p.Finalize()
	assert.True(t, d("50").Equal(p.GrossProfit))
	assert.True(t, d("25").Equal(p.Margin))
}
