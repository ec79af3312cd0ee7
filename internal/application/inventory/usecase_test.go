package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/inventory"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const company = "c1"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func setup(t *testing.T) (*memory.Store, *inventory.UseCase, *entity.Product) {
	t.Helper()
	store := memory.New()
	p := &entity.Product{
		ID: "p1", CompanyID: company, SKU: "ARZ-1", Name: "Arroz",
		Price: d("3000"), ReorderPoint: d("5"), CreatedAt: time.Now(),
	}
	require.NoError(t, store.Repos().Products.Create(context.Background(), p))
	return store, inventory.NewUseCase(store, store.Repos(), ports.NopAudit{}), p
}

func receive(t *testing.T, uc *inventory.UseCase, qty, cost string, at time.Time) *dto.BatchResponse {
	t.Helper()
	b, err := uc.ReceiveBatch(context.Background(), company, "u1", dto.ReceiveBatchRequest{
		ProductID: "p1", Quantity: d(qty), UnitCost: d(cost), ReceivedAt: &at,
	})
	require.NoError(t, err)
	return b
}

func TestReceiveBatch(t *testing.T) {
	store, uc, p := setup(t)
	ctx := context.Background()

	b := receive(t, uc, "10", "2000", time.Now())
	assert.True(t, d("10").Equal(b.QuantityRemaining))
	assert.True(t, p.Price.Equal(b.SellingPrice), "sin precio de venta se usa el del producto")
	assert.NotEmpty(t, b.BatchNumber)

	movs, err := store.Repos().Movements.ListByProduct(ctx, company, p.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementIN, movs[0].Type)

	_, err = uc.ReceiveBatch(ctx, company, "u1", dto.ReceiveBatchRequest{ProductID: "p1", Quantity: d("0"), UnitCost: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ReceiveBatch(ctx, "otra", "u1", dto.ReceiveBatchRequest{ProductID: "p1", Quantity: d("1"), UnitCost: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	now := time.Now()
	_, err = uc.ReceiveBatch(ctx, company, "u1", dto.ReceiveBatchRequest{
		ProductID: "p1", Quantity: d("1"), UnitCost: d("1"), ReceivedAt: &now, ExpiresAt: ptr(now.AddDate(0, 0, -1)),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjustStock_NegativoConsumeFIFO(t *testing.T) {
	_, uc, _ := setup(t)
	ctx := context.Background()
	base := time.Now().Add(-48 * time.Hour)
	viejo := receive(t, uc, "5", "2", base)
	nuevo := receive(t, uc, "5", "3", base.Add(time.Hour))

	out, err := uc.AdjustStock(ctx, company, "u1", dto.AdjustStockRequest{ProductID: "p1", Quantity: d("-7"), Reason: "merma"})
	require.NoError(t, err)
	require.Len(t, out.Allocations, 2)
	assert.Equal(t, viejo.ID, out.Allocations[0].BatchID)
	assert.Equal(t, nuevo.ID, out.Allocations[1].BatchID)
	assert.True(t, d("16").Equal(out.Cost), "5×2 + 2×3")

	summary, err := uc.GetStockSummary(ctx, company, "p1")
	require.NoError(t, err)
	assert.True(t, d("3").Equal(summary.Quantity))
	assert.True(t, d("9").Equal(summary.Value))
	require.Len(t, summary.Batches, 1)
	assert.Equal(t, nuevo.ID, summary.Batches[0].ID)
}

func TestAdjustStock_InsuficienteNoModifica(t *testing.T) {
	store, uc, _ := setup(t)
	ctx := context.Background()
	receive(t, uc, "2", "1", time.Now())

	_, err := uc.AdjustStock(ctx, company, "u1", dto.AdjustStockRequest{ProductID: "p1", Quantity: d("-3"), Reason: "robo"})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	summary, err := uc.GetStockSummary(ctx, company, "p1")
	require.NoError(t, err)
	assert.True(t, d("2").Equal(summary.Quantity))

	movs, err := store.Repos().Movements.ListByProduct(ctx, company, "p1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "solo el movimiento de entrada")
}

func TestAdjustStock_Positivo(t *testing.T) {
	_, uc, _ := setup(t)
	ctx := context.Background()

	_, err := uc.AdjustStock(ctx, company, "u1", dto.AdjustStockRequest{ProductID: "p1", Quantity: d("4"), Reason: "conteo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "unit_cost obligatorio")

	out, err := uc.AdjustStock(ctx, company, "u1", dto.AdjustStockRequest{ProductID: "p1", Quantity: d("4"), UnitCost: ptr(d("2.5")), Reason: "conteo"})
	require.NoError(t, err)
	require.NotNil(t, out.Batch)
	assert.True(t, d("10").Equal(out.Cost))

	_, err = uc.AdjustStock(ctx, company, "u1", dto.AdjustStockRequest{ProductID: "p1", Quantity: d("0"), Reason: "nada"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetStockSummary_CostoPromedio(t *testing.T) {
	_, uc, _ := setup(t)
	receive(t, uc, "10", "2", time.Now().Add(-time.Hour))
	receive(t, uc, "5", "4", time.Now())

	s, err := uc.GetStockSummary(context.Background(), company, "p1")
	require.NoError(t, err)
	assert.True(t, d("15").Equal(s.Quantity))
	assert.True(t, d("40").Equal(s.Value))
	assert.Equal(t, "2.6667", s.AverageCost.StringFixed(4))
}

func TestLowStock(t *testing.T) {
	store, uc, _ := setup(t)
	ctx := context.Background()
	require.NoError(t, store.Repos().Products.Create(ctx, &entity.Product{ID: "p2", CompanyID: company, SKU: "SIN-RP", Name: "Sin reorden"}))

	items, err := uc.LowStock(ctx, company)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, "p2", items[1].ProductID, "punto de reorden cero y agotado: 0 ≤ 0")

	receive(t, uc, "6", "1", time.Now())
	items, err = uc.LowStock(ctx, company)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)

	_, err = uc.ReceiveBatch(ctx, company, "u1", dto.ReceiveBatchRequest{ProductID: "p2", Quantity: d("1"), UnitCost: d("10")})
	require.NoError(t, err)
	items, err = uc.LowStock(ctx, company)
	require.NoError(t, err)
	assert.Empty(t, items, "con existencias y punto cero deja de reportarse")
}

func TestExpiringBatches(t *testing.T) {
	_, uc, _ := setup(t)
	ctx := context.Background()
	now := time.Now()
	for _, days := range []int{2, 40} {
		_, err := uc.ReceiveBatch(ctx, company, "u1", dto.ReceiveBatchRequest{
			ProductID: "p1", Quantity: d("1"), UnitCost: d("1"), ReceivedAt: &now, ExpiresAt: ptr(now.AddDate(0, 0, days)),
		})
		require.NoError(t, err)
	}

	list, err := uc.ExpiringBatches(ctx, company, 7)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = uc.ExpiringBatches(ctx, company, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConsumeYRestoreInTx(t *testing.T) {
	store, uc, _ := setup(t)
	ctx := context.Background()
	receive(t, uc, "3", "10", time.Now().Add(-time.Hour))
	receive(t, uc, "3", "20", time.Now())

	var allocs []entity.BatchAllocation
	require.NoError(t, store.Run(ctx, func(r ports.Repos) error {
		var err error
		allocs, err = inventory.ConsumeInTx(ctx, r, inventory.ConsumeInput{
			CompanyID: company, UserID: "u1", ProductID: "p1", Quantity: d("4"),
			MovementType: entity.MovementSale, Reference: "venta-1",
		})
		return err
	}))
	require.Len(t, allocs, 2)

	require.NoError(t, store.Run(ctx, func(r ports.Repos) error {
		return inventory.RestoreInTx(ctx, r, inventory.RestoreInput{
			CompanyID: company, UserID: "u1", ProductID: "p1", Allocations: allocs, Reference: "venta-1",
		})
	}))

	batches, err := uc.ListBatches(ctx, company, "p1", false)
	require.NoError(t, err)
	for _, b := range batches {
		assert.True(t, d("3").Equal(b.QuantityRemaining))
	}

	movs, err := uc.ListMovements(ctx, company, "p1", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, movs, 6, "2 entradas + 2 salidas + 2 devoluciones")
	assert.Equal(t, entity.MovementVoid, movs[0].Type)
}
