package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/Comercio-api/internal/application/accounting"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/inventory"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/application/pos"
	"github.com/jhoicas/Comercio-api/internal/application/purchasing"
	"github.com/jhoicas/Comercio-api/internal/application/reports"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Comercio-api/pkg/config"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// database levanta postgres:16 efímero con el esquema migrado; sin Docker la prueba se salta.
func database(t *testing.T) (*postgres.TxRunner, ports.Repos) {
	t.Helper()
	if testing.Short() {
		t.Skip("integración: omitida con -short")
	}
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("comercio"),
		tcpostgres.WithUsername("comercio"),
		tcpostgres.WithPassword("comercio"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("docker no disponible: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	applied, err := postgres.Migrate(ctx, pool)
	require.NoError(t, err)
	assert.NotEmpty(t, applied)
	again, err := postgres.Migrate(ctx, pool)
	require.NoError(t, err)
	assert.Empty(t, again, "las migraciones aplicadas no se repiten")

	return postgres.NewTxRunner(pool), postgres.NewRepos(pool)
}

func TestPostgres_VentaYAnulacionFIFO(t *testing.T) {
	tx, repos := database(t)
	ctx := context.Background()
	companyID, productID := uuid.NewString(), uuid.NewString()
	now := time.Now().UTC()

	require.NoError(t, repos.Companies.Create(ctx, &entity.Company{
		ID: companyID, Name: "Tienda", TaxID: "900123", Currency: "COP", Status: "active", CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: productID, CompanyID: companyID, SKU: "ARZ-1", Name: "Arroz", Price: d("2000"), TaxRate: d("19"),
		CreatedAt: now, UpdatedAt: now,
	}))
	err := repos.Products.Create(ctx, &entity.Product{
		ID: uuid.NewString(), CompanyID: companyID, SKU: "ARZ-1", Name: "Otro", CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	inv := inventory.NewUseCase(tx, repos, ports.NopAudit{})
	for i, lot := range []struct{ qty, cost string }{{"5", "1000"}, {"5", "1200"}} {
		at := now.Add(time.Duration(i-48) * time.Hour)
		_, err := inv.ReceiveBatch(ctx, companyID, "u1", dto.ReceiveBatchRequest{
			ProductID: productID, Quantity: d(lot.qty), UnitCost: d(lot.cost), ReceivedAt: &at,
		})
		require.NoError(t, err)
	}

	uc := pos.NewUseCase(tx, repos, ports.NopAudit{}, pdf.NewMarotoRenderer())
	req := dto.CheckoutRequest{
		IdempotencyKey: "pg-venta-1",
		PaymentMethod:  entity.PaymentCash,
		PaidAmount:     d("20000"),
		Items:          []dto.CheckoutItemRequest{{ProductID: productID, Quantity: d("7")}},
	}
	sale, err := uc.Checkout(ctx, companyID, "cajero", req)
	require.NoError(t, err)
	assert.Equal(t, "V-000001", sale.Number)
	assert.True(t, d("7400").Equal(sale.COGSTotal), "5 × 1000 + 2 × 1200")
	require.Len(t, sale.Items, 1)
	assert.Len(t, sale.Items[0].Allocations, 2)

	replay, err := uc.Checkout(ctx, companyID, "cajero", req)
	require.NoError(t, err)
	assert.True(t, replay.Replayed)
	assert.Equal(t, sale.ID, replay.ID)

	stock, err := inv.GetStockSummary(ctx, companyID, productID)
	require.NoError(t, err)
	assert.True(t, d("3").Equal(stock.Quantity))
	assert.True(t, d("3600").Equal(stock.Value), "queda 3 × 1200")

	totals, err := repos.Reports.SalesTotals(ctx, companyID, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, totals.Count)
	assert.True(t, d("14000").Equal(totals.Revenue))

	_, err = uc.VoidSale(ctx, companyID, "admin", sale.ID, dto.VoidSaleRequest{Reason: "error de caja", ModFlag: sale.ModFlag + 1})
	assert.ErrorIs(t, err, domain.ErrConflict)

	voided, err := uc.VoidSale(ctx, companyID, "admin", sale.ID, dto.VoidSaleRequest{Reason: "error de caja", ModFlag: sale.ModFlag})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusVoided, voided.Status)

	stock, err = inv.GetStockSummary(ctx, companyID, productID)
	require.NoError(t, err)
	assert.True(t, d("10").Equal(stock.Quantity), "la anulación devuelve a los mismos lotes")

	totals, err = repos.Reports.SalesTotals(ctx, companyID, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, totals.Count, "las anuladas no cuentan")

	receipt, err := uc.Receipt(ctx, companyID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(receipt[:4]))
}

func TestPostgres_ConflictoDeVersion(t *testing.T) {
	_, repos := database(t)
	ctx := context.Background()
	companyID := uuid.NewString()
	now := time.Now().UTC()
	require.NoError(t, repos.Companies.Create(ctx, &entity.Company{ID: companyID, Name: "Tienda", TaxID: "900456", CreatedAt: now, UpdatedAt: now}))

	c := &entity.Customer{ID: uuid.NewString(), CompanyID: companyID, Name: "Ana", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Customers.Create(ctx, c))

	stale := *c
	c.Name = "Ana María"
	require.NoError(t, repos.Customers.Update(ctx, c))
	assert.Equal(t, 1, c.ModFlag)

	stale.Name = "Otra"
	assert.ErrorIs(t, repos.Customers.Update(ctx, &stale), domain.ErrConflict)
	assert.ErrorIs(t, repos.Customers.Delete(ctx, companyID, c.ID, 0), domain.ErrConflict)
	require.NoError(t, repos.Customers.Delete(ctx, companyID, c.ID, c.ModFlag))

	got, err := repos.Customers.GetByID(ctx, companyID, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, repos.Customers.Delete(ctx, companyID, c.ID, c.ModFlag+1), domain.ErrNotFound)

	n1, err := repos.Sequences.Next(ctx, companyID, "sale")
	require.NoError(t, err)
	n2, err := repos.Sequences.Next(ctx, companyID, "sale")
	require.NoError(t, err)
	assert.Equal(t, n1+1, n2)
}

// seedProduct crea empresa y producto y recibe los lotes indicados (cantidad, costo).
func seedProduct(t *testing.T, tx ports.TxRunner, repos ports.Repos, reorder string, lots ...[2]string) (companyID, productID string) {
	t.Helper()
	ctx := context.Background()
	companyID, productID = uuid.NewString(), uuid.NewString()
	now := time.Now().UTC()
	require.NoError(t, repos.Companies.Create(ctx, &entity.Company{
		ID: companyID, Name: "Tienda", TaxID: "NIT-" + companyID[:8], Currency: "COP", Status: "active", CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: productID, CompanyID: companyID, SKU: "ARZ-1", Name: "Arroz", Price: d("2500"), ReorderPoint: d(reorder),
		CreatedAt: now, UpdatedAt: now,
	}))
	inv := inventory.NewUseCase(tx, repos, ports.NopAudit{})
	for i, lot := range lots {
		at := now.Add(time.Duration(i-48) * time.Hour)
		_, err := inv.ReceiveBatch(ctx, companyID, "u1", dto.ReceiveBatchRequest{
			ProductID: productID, Quantity: d(lot[0]), UnitCost: d(lot[1]), ReceivedAt: &at,
		})
		require.NoError(t, err)
	}
	return companyID, productID
}

func TestPostgres_CheckoutConcurrenteNoSobrevende(t *testing.T) {
	tx, repos := database(t)
	ctx := context.Background()
	companyID, productID := seedProduct(t, tx, repos, "0", [2]string{"5", "1000"}, [2]string{"5", "1200"})
	uc := pos.NewUseCase(tx, repos, ports.NopAudit{}, nil)

	const cajas = 6
	var wg sync.WaitGroup
	sales := make([]*dto.SaleResponse, cajas)
	errs := make([]error, cajas)
	for i := 0; i < cajas; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sales[i], errs[i] = uc.Checkout(ctx, companyID, "cajero", dto.CheckoutRequest{
				IdempotencyKey: "caja-concurrente-" + uuid.NewString()[:8],
				PaymentMethod:  entity.PaymentCard,
				Items:          []dto.CheckoutItemRequest{{ProductID: productID, Quantity: d("3")}},
			})
		}(i)
	}
	wg.Wait()

	ok, cogs := 0, decimal.Zero
	for i, err := range errs {
		if err != nil {
			assert.True(t, errors.Is(err, domain.ErrInsufficientStock), "error inesperado: %v", err)
			continue
		}
		ok++
		cogs = cogs.Add(sales[i].COGSTotal)
	}
	assert.Equal(t, 3, ok, "10 unidades alcanzan para tres ventas de 3")
	assert.True(t, d("9800").Equal(cogs), "5 × 1000 + 4 × 1200 sin unidades repetidas")

	inv := inventory.NewUseCase(tx, repos, ports.NopAudit{})
	stock, err := inv.GetStockSummary(ctx, companyID, productID)
	require.NoError(t, err)
	assert.True(t, d("1").Equal(stock.Quantity))
	assert.True(t, d("1200").Equal(stock.Value))
}

func TestPostgres_CheckoutConcurrenteMismaLlave(t *testing.T) {
	tx, repos := database(t)
	ctx := context.Background()
	companyID, productID := seedProduct(t, tx, repos, "0", [2]string{"10", "1000"})
	uc := pos.NewUseCase(tx, repos, ports.NopAudit{}, nil)

	const intentos = 4
	var wg sync.WaitGroup
	sales := make([]*dto.SaleResponse, intentos)
	errs := make([]error, intentos)
	for i := 0; i < intentos; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sales[i], errs[i] = uc.Checkout(ctx, companyID, "cajero", dto.CheckoutRequest{
				IdempotencyKey: "reintento-red",
				PaymentMethod:  entity.PaymentCash,
				PaidAmount:     d("5000"),
				Items:          []dto.CheckoutItemRequest{{ProductID: productID, Quantity: d("2")}},
			})
		}(i)
	}
	wg.Wait()

	for i := range errs {
		require.NoError(t, errs[i])
		assert.Equal(t, sales[0].ID, sales[i].ID, "todos los reintentos devuelven la misma venta")
	}
	stock, err := inventory.NewUseCase(tx, repos, ports.NopAudit{}).GetStockSummary(ctx, companyID, productID)
	require.NoError(t, err)
	assert.True(t, d("8").Equal(stock.Quantity), "el stock se descuenta una sola vez")
}

func TestPostgres_ReportesContables(t *testing.T) {
	tx, repos := database(t)
	ctx := context.Background()
	companyID, productID := seedProduct(t, tx, repos, "5")
	now := time.Now().UTC()
	today := time.Now().Format("2006-01-02")

	// Compra: 10 @ 1000 recibidas, 4000 pagados.
	supplier := &entity.Supplier{ID: uuid.NewString(), CompanyID: companyID, Name: "Molinos", TaxID: "800", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Suppliers.Create(ctx, supplier))
	buy := purchasing.NewUseCase(tx, repos, ports.NopAudit{})
	po, err := buy.Create(ctx, companyID, "u1", dto.CreatePurchaseOrderRequest{
		SupplierID: supplier.ID,
		Items:      []dto.PurchaseOrderItemRequest{{ProductID: productID, Quantity: d("10"), UnitCost: d("1000")}},
	})
	require.NoError(t, err)
	po, err = buy.MarkOrdered(ctx, companyID, "u1", po.ID, po.ModFlag)
	require.NoError(t, err)
	po, err = buy.Receive(ctx, companyID, "u1", po.ID, po.ModFlag)
	require.NoError(t, err)
	_, err = buy.RegisterPayment(ctx, companyID, "u1", po.ID, dto.SupplierPaymentRequest{Amount: d("4000")})
	require.NoError(t, err)

	// Ventas: contado 4 × 2500, crédito 2 × 2500 con abono de 1000, y una anulada.
	sell := pos.NewUseCase(tx, repos, ports.NopAudit{}, nil)
	checkout := func(key, method, qty, paid string) *dto.SaleResponse {
		s, err := sell.Checkout(ctx, companyID, "cajero", dto.CheckoutRequest{
			IdempotencyKey: key, PaymentMethod: method, PaidAmount: d(paid),
			Items: []dto.CheckoutItemRequest{{ProductID: productID, Quantity: d(qty)}},
		})
		require.NoError(t, err)
		return s
	}
	checkout("rep-contado", entity.PaymentCash, "4", "10000")
	checkout("rep-credito", entity.PaymentCredit, "2", "1000")
	voided := checkout("rep-anulada", entity.PaymentCash, "1", "2500")
	_, err = sell.VoidSale(ctx, companyID, "admin", voided.ID, dto.VoidSaleRequest{Reason: "cliente desistió", ModFlag: voided.ModFlag})
	require.NoError(t, err)

	// Gastos 3000 + 500, uno eliminado que no cuenta, e ingreso de 700.
	ledger := accounting.NewLedgerUseCase(repos, ports.NopAudit{})
	for _, e := range []struct{ cat, amount string }{{"arriendo", "3000"}, {"servicios", "500"}} {
		_, err := ledger.CreateExpense(ctx, companyID, "u1", dto.ExpenseRequest{Category: e.cat, Amount: d(e.amount)})
		require.NoError(t, err)
	}
	gone, err := ledger.CreateExpense(ctx, companyID, "u1", dto.ExpenseRequest{Category: "varios", Amount: d("999")})
	require.NoError(t, err)
	require.NoError(t, ledger.DeleteExpense(ctx, companyID, "u1", gone.ID, gone.ModFlag))
	_, err = ledger.CreateIncome(ctx, companyID, "u1", dto.IncomeRequest{Source: "alquiler de vitrina", Amount: d("700")})
	require.NoError(t, err)

	uc := reports.NewUseCase(repos, nil, nil, nil, 0)
	rango := dto.ReportQuery{DateRange: dto.DateRange{From: today, To: today}}

	pl, err := uc.ProfitAndLoss(ctx, companyID, rango)
	require.NoError(t, err)
	assert.True(t, d("15000").Equal(pl.Revenue), "ingresos: %s", pl.Revenue)
	assert.True(t, d("6000").Equal(pl.COGS), "costo: %s", pl.COGS)
	assert.True(t, d("9000").Equal(pl.GrossProfit))
	require.Len(t, pl.OperatingExpenses, 2)
	assert.Equal(t, "arriendo", pl.OperatingExpenses[0].Category)
	assert.True(t, d("3500").Equal(pl.TotalExpenses))
	assert.True(t, d("700").Equal(pl.OtherIncome))
	assert.True(t, d("6200").Equal(pl.NetProfit))

	bs, err := uc.BalanceSheet(ctx, companyID, dto.BalanceSheetQuery{AsOf: today})
	require.NoError(t, err)
	assert.True(t, d("4200").Equal(bs.Cash), "11000 + 700 − 3500 − 4000, caja: %s", bs.Cash)
	assert.True(t, d("4000").Equal(bs.Receivables), "saldo de la venta a crédito")
	assert.True(t, d("4000").Equal(bs.Inventory), "4 unidades a 1000")
	assert.True(t, d("12200").Equal(bs.TotalAssets))
	assert.True(t, d("6000").Equal(bs.Payables), "10000 recibidos − 4000 pagados")
	assert.True(t, d("6200").Equal(bs.Equity), "sin saldos iniciales el patrimonio es la utilidad")

	before, err := uc.BalanceSheet(ctx, companyID, dto.BalanceSheetQuery{AsOf: "2020-01-01"})
	require.NoError(t, err)
	assert.True(t, before.TotalAssets.IsZero())
	assert.True(t, before.Payables.IsZero())

	byProduct, err := uc.SalesByProduct(ctx, companyID, rango)
	require.NoError(t, err)
	require.Len(t, byProduct.Items, 1)
	assert.Equal(t, "ARZ-1", byProduct.Items[0].SKU)
	assert.True(t, d("6").Equal(byProduct.Items[0].Quantity))
	assert.True(t, d("15000").Equal(byProduct.Items[0].Revenue))
	assert.True(t, d("9000").Equal(byProduct.Items[0].GrossProfit))

	sv, err := uc.StockValuation(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, sv.Items, 1)
	assert.True(t, d("4").Equal(sv.Items[0].Quantity))
	assert.True(t, d("4000").Equal(sv.TotalValue))

	dash, err := uc.Dashboard(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, 2, dash.Today.Count)
	assert.True(t, d("15000").Equal(dash.Today.Revenue))
	assert.Equal(t, 1, dash.LowStockCount, "4 unidades con punto de reorden 5")
}
