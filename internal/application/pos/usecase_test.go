package pos_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/inventory"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/application/pos"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const company = "c1"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeRenderer struct{ names map[string]string }

func (f *fakeRenderer) Receipt(_ *entity.Company, _ *entity.Sale, names map[string]string) ([]byte, error) {
	f.names = names
	return []byte("%PDF-fake"), nil
}

func (f *fakeRenderer) Payslips(*entity.Company, *entity.PayrollRun) ([]byte, error) { return nil, nil }

type fixture struct {
	store    *memory.Store
	uc       *pos.UseCase
	inv      *inventory.UseCase
	renderer *fakeRenderer
}

// setup: p1 (IVA 19 %) con lotes 5 @ 1000 y 5 @ 1200; p2 sin impuesto con 3 @ 500.
func setup(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	ctx := context.Background()
	r := store.Repos()
	require.NoError(t, r.Companies.Create(ctx, &entity.Company{ID: company, Name: "Tienda", TaxID: "900"}))
	require.NoError(t, r.Products.Create(ctx, &entity.Product{ID: "p1", CompanyID: company, SKU: "A", Name: "Arroz", Price: d("2000"), TaxRate: d("19")}))
	require.NoError(t, r.Products.Create(ctx, &entity.Product{ID: "p2", CompanyID: company, SKU: "B", Name: "Bocadillo", Price: d("800")}))
	require.NoError(t, r.Customers.Create(ctx, &entity.Customer{ID: "cu1", CompanyID: company, Name: "Ana"}))

	inv := inventory.NewUseCase(store, r, ports.NopAudit{})
	base := time.Now().Add(-72 * time.Hour)
	for i, lot := range []struct{ product, qty, cost string }{{"p1", "5", "1000"}, {"p1", "5", "1200"}, {"p2", "3", "500"}} {
		at := base.Add(time.Duration(i) * time.Hour)
		_, err := inv.ReceiveBatch(ctx, company, "u1", dto.ReceiveBatchRequest{ProductID: lot.product, Quantity: d(lot.qty), UnitCost: d(lot.cost), ReceivedAt: &at})
		require.NoError(t, err)
	}
	renderer := &fakeRenderer{}
	return &fixture{store: store, uc: pos.NewUseCase(store, r, ports.NopAudit{}, renderer), inv: inv, renderer: renderer}
}

func (f *fixture) onHand(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	s, err := f.inv.GetStockSummary(context.Background(), company, productID)
	require.NoError(t, err)
	return s.Quantity
}

func TestCheckout_CalculaTotalesYCostoFIFO(t *testing.T) {
	f := setup(t)
	sale, err := f.uc.Checkout(context.Background(), company, "cajero", dto.CheckoutRequest{
		IdempotencyKey: "venta-0001",
		PaymentMethod:  entity.PaymentCash,
		PaidAmount:     d("20000"),
		Items: []dto.CheckoutItemRequest{
			{ProductID: "p2", Quantity: d("2")},
			{ProductID: "p1", Quantity: d("7"), Discount: d("1000")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "V-000001", sale.Number)
	assert.False(t, sale.Replayed)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, "p2", sale.Items[0].ProductID, "se conserva el orden del carrito")

	p1 := sale.Items[1]
	assert.True(t, d("13000").Equal(p1.Subtotal), "7 × 2000 − 1000")
	assert.True(t, d("2470").Equal(p1.Tax), "19 por ciento de 13000")
	assert.True(t, d("7400").Equal(p1.COGS), "5 × 1000 + 2 × 1200")
	require.Len(t, p1.Allocations, 2)

	assert.True(t, d("15600").Equal(sale.Subtotal))
	assert.True(t, d("1000").Equal(sale.DiscountTotal))
	assert.True(t, d("2470").Equal(sale.TaxTotal))
	assert.True(t, d("17070").Equal(sale.Total))
	assert.True(t, d("8400").Equal(sale.COGSTotal))
	assert.True(t, d("2930").Equal(sale.Change))
	assert.True(t, sale.Receivable.IsZero())

	assert.True(t, d("3").Equal(f.onHand(t, "p1")))
	assert.True(t, d("1").Equal(f.onHand(t, "p2")))
}

func TestCheckout_Idempotente(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	req := dto.CheckoutRequest{
		IdempotencyKey: "venta-0002",
		PaymentMethod:  entity.PaymentCard,
		Items:          []dto.CheckoutItemRequest{{ProductID: "p1", Quantity: d("2")}},
	}
	first, err := f.uc.Checkout(ctx, company, "cajero", req)
	require.NoError(t, err)
	again, err := f.uc.Checkout(ctx, company, "cajero", req)
	require.NoError(t, err)

	assert.True(t, again.Replayed)
	assert.Equal(t, first.ID, again.ID)
	assert.True(t, d("8").Equal(f.onHand(t, "p1")), "el reintento no descuenta de nuevo")
	assert.True(t, first.Total.Equal(first.PaidAmount), "tarjeta cobra el total")
}

func TestCheckout_StockInsuficienteNoMuta(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.uc.Checkout(ctx, company, "cajero", dto.CheckoutRequest{
		IdempotencyKey: "venta-0003",
		PaymentMethod:  entity.PaymentCard,
		Items: []dto.CheckoutItemRequest{
			{ProductID: "p1", Quantity: d("2")},
			{ProductID: "p2", Quantity: d("4")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, d("10").Equal(f.onHand(t, "p1")), "la primera línea se revierte")
	assert.True(t, d("3").Equal(f.onHand(t, "p2")))

	list, err := f.uc.ListSales(ctx, company, dto.SaleListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestCheckout_Validaciones(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	item := []dto.CheckoutItemRequest{{ProductID: "p2", Quantity: d("1")}}
	cases := []struct {
		name string
		req  dto.CheckoutRequest
	}{
		{"efectivo insuficiente", dto.CheckoutRequest{IdempotencyKey: "k-000001", PaymentMethod: entity.PaymentCash, PaidAmount: d("799"), Items: item}},
		{"medio de pago", dto.CheckoutRequest{IdempotencyKey: "k-000002", PaymentMethod: "bitcoin", Items: item}},
		{"cantidad cero", dto.CheckoutRequest{IdempotencyKey: "k-000003", PaymentMethod: entity.PaymentCard, Items: []dto.CheckoutItemRequest{{ProductID: "p2", Quantity: d("0")}}}},
		{"producto ajeno", dto.CheckoutRequest{IdempotencyKey: "k-000004", PaymentMethod: entity.PaymentCard, Items: []dto.CheckoutItemRequest{{ProductID: "px", Quantity: d("1")}}}},
		{"descuento mayor", dto.CheckoutRequest{IdempotencyKey: "k-000005", PaymentMethod: entity.PaymentCard, Items: []dto.CheckoutItemRequest{{ProductID: "p2", Quantity: d("1"), Discount: d("801")}}}},
		{"cliente inexistente", dto.CheckoutRequest{IdempotencyKey: "k-000006", CustomerID: "cu-x", PaymentMethod: entity.PaymentCard, Items: item}},
		{"tarjeta distinta del total", dto.CheckoutRequest{IdempotencyKey: "k-000007", PaymentMethod: entity.PaymentCard, PaidAmount: d("10"), Items: item}},
		{"sin ítems", dto.CheckoutRequest{IdempotencyKey: "k-000008", PaymentMethod: entity.PaymentCard}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Checkout(ctx, company, "cajero", tc.req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.True(t, d("3").Equal(f.onHand(t, "p2")))
}

func TestCheckout_RedondeaALaEscalaDeLasColumnas(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	price := d("1000.0001")
	req := dto.CheckoutRequest{
		IdempotencyKey: "venta-fraccion",
		PaymentMethod:  entity.PaymentCash,
		PaidAmount:     d("333.3"),
		Items:          []dto.CheckoutItemRequest{{ProductID: "p2", Quantity: d("0.3333"), UnitPrice: &price}},
	}
	sale, err := f.uc.Checkout(ctx, company, "cajero", req)
	require.NoError(t, err, "0.3333 × 1000.0001 se redondea a 333.3000 antes de validar el pago")
	assert.True(t, d("333.3").Equal(sale.Items[0].Subtotal))
	assert.True(t, d("333.3").Equal(sale.Total))
	assert.True(t, sale.Change.IsZero())

	replay, err := f.uc.Checkout(ctx, company, "cajero", req)
	require.NoError(t, err)
	assert.True(t, replay.Replayed)
	assert.True(t, sale.Total.Equal(replay.Total))
	assert.True(t, sale.Change.Equal(replay.Change))

	_, err = f.uc.Checkout(ctx, company, "cajero", dto.CheckoutRequest{
		IdempotencyKey: "venta-cinco-decimales",
		PaymentMethod:  entity.PaymentCard,
		Items:          []dto.CheckoutItemRequest{{ProductID: "p2", Quantity: d("0.33333")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCheckout_CreditoGeneraCuentaPorCobrar(t *testing.T) {
	f := setup(t)
	sale, err := f.uc.Checkout(context.Background(), company, "cajero", dto.CheckoutRequest{
		IdempotencyKey: "venta-0004",
		CustomerID:     "cu1",
		PaymentMethod:  entity.PaymentCredit,
		PaidAmount:     d("600"),
		Items:          []dto.CheckoutItemRequest{{ProductID: "p2", Quantity: d("2")}},
	})
	require.NoError(t, err)
	assert.True(t, d("1000").Equal(sale.Receivable))
}

func TestVoidSale_DevuelveALosLotesDeOrigen(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	sale, err := f.uc.Checkout(ctx, company, "cajero", dto.CheckoutRequest{
		IdempotencyKey: "venta-0005",
		PaymentMethod:  entity.PaymentTransfer,
		Items:          []dto.CheckoutItemRequest{{ProductID: "p1", Quantity: d("6")}},
	})
	require.NoError(t, err)

	_, err = f.uc.VoidSale(ctx, company, "admin", sale.ID, dto.VoidSaleRequest{Reason: "error de digitación", ModFlag: sale.ModFlag + 1})
	assert.ErrorIs(t, err, domain.ErrConflict, "mod_flag desactualizado")

	voided, err := f.uc.VoidSale(ctx, company, "admin", sale.ID, dto.VoidSaleRequest{Reason: "error de digitación", ModFlag: sale.ModFlag})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusVoided, voided.Status)
	require.NotNil(t, voided.VoidedAt)

	batches, err := f.store.Repos().Batches.ListByProduct(ctx, company, "p1", false)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	for _, b := range batches {
		assert.True(t, d("5").Equal(b.QuantityRemaining), "lote %s restaurado", b.BatchNumber)
	}

	_, err = f.uc.VoidSale(ctx, company, "admin", sale.ID, dto.VoidSaleRequest{Reason: "otra vez", ModFlag: voided.ModFlag})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.VoidSale(ctx, "otra", "admin", sale.ID, dto.VoidSaleRequest{Reason: "ajena", ModFlag: voided.ModFlag})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSales_FiltraPorDiaYEstado(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a, err := f.uc.Checkout(ctx, company, "cajero-1", dto.CheckoutRequest{
		IdempotencyKey: "venta-0006", PaymentMethod: entity.PaymentCard,
		Items: []dto.CheckoutItemRequest{{ProductID: "p2", Quantity: d("1")}},
	})
	require.NoError(t, err)
	_, err = f.uc.Checkout(ctx, company, "cajero-2", dto.CheckoutRequest{
		IdempotencyKey: "venta-0007", PaymentMethod: entity.PaymentCard,
		Items: []dto.CheckoutItemRequest{{ProductID: "p2", Quantity: d("1")}},
	})
	require.NoError(t, err)
	_, err = f.uc.VoidSale(ctx, company, "admin", a.ID, dto.VoidSaleRequest{Reason: "devolución", ModFlag: a.ModFlag})
	require.NoError(t, err)

	today := time.Now().Format("2006-01-02")
	list, err := f.uc.ListSales(ctx, company, dto.SaleListQuery{DateRange: dto.DateRange{From: today, To: today}})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2, "el día final es inclusivo")

	list, err = f.uc.ListSales(ctx, company, dto.SaleListQuery{Status: entity.SaleStatusCompleted})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "cajero-2", list.Items[0].CashierID)

	list, err = f.uc.ListSales(ctx, company, dto.SaleListQuery{CashierID: "cajero-1"})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	_, err = f.uc.ListSales(ctx, company, dto.SaleListQuery{DateRange: dto.DateRange{From: "2026-02-10", To: "2026-02-01"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReceipt(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	sale, err := f.uc.Checkout(ctx, company, "cajero", dto.CheckoutRequest{
		IdempotencyKey: "venta-0008", PaymentMethod: entity.PaymentCard,
		Items: []dto.CheckoutItemRequest{{ProductID: "p1", Quantity: d("1")}},
	})
	require.NoError(t, err)

	pdf, err := f.uc.Receipt(ctx, company, sale.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "Arroz", f.renderer.names["p1"])

	_, err = f.uc.Receipt(ctx, company, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
