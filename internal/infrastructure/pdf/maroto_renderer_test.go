package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestReceipt_GeneraPDF(t *testing.T) {
	company := &entity.Company{Name: "Tienda Uno", TaxID: "900123456"}
	sale := &entity.Sale{
		ID: "s1", Number: "V-000001", SoldAt: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		Items: []entity.SaleItem{{
			ProductID: "p1", Quantity: d("2"), UnitPrice: d("1500"), Discount: d("0"),
			TaxRate: d("19"), Subtotal: d("3000"), Tax: d("570"),
		}},
		Subtotal: d("3000"), DiscountTotal: d("0"), TaxTotal: d("570"), Total: d("3570"),
		PaidAmount: d("4000"), Change: d("430"), PaymentMethod: entity.PaymentCash,
		Status: entity.SaleStatusCompleted,
	}

	out, err := NewMarotoRenderer().Receipt(company, sale, map[string]string{"p1": "Arroz"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPayslips_GeneraPDF(t *testing.T) {
	company := &entity.Company{Name: "Tienda Uno"}
	run := &entity.PayrollRun{
		Period: "2024-01", RunAt: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Lines: []entity.PayrollLine{
			{EmployeeName: "Ana", BaseSalary: d("1500000"), Allowances: d("100000"), Deductions: d("20000"), NetPay: d("1580000")},
			{EmployeeName: "Luis", BaseSalary: d("1300000"), Allowances: d("0"), Deductions: d("0"), NetPay: d("1300000")},
		},
	}
	out, err := NewMarotoRenderer().Payslips(company, run)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestMoney_SeparadorDeMiles(t *testing.T) {
	r := NewMarotoRenderer()
	assert.Equal(t, "$1.580.000", r.money(d("1580000")))
	assert.Equal(t, "$25", r.money(d("24.6")))
}

func TestReceipt_SinVenta(t *testing.T) {
	_, err := NewMarotoRenderer().Receipt(&entity.Company{}, nil, nil)
	assert.Error(t, err)
}
