package transport_test

import (
	"context"
	"testing"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/application/transport"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const company = "c1"

func setup(t *testing.T) (*memory.Store, *transport.UseCase) {
	t.Helper()
	store := memory.New()
	require.NoError(t, store.Repos().Sales.Create(context.Background(), &entity.Sale{
		ID: "s1", CompanyID: company, Status: entity.SaleStatusCompleted,
	}))
	return store, transport.NewUseCase(store, store.Repos(), ports.NopAudit{})
}

func createReq(cost string) dto.CreateShipmentRequest {
	return dto.CreateShipmentRequest{
		ReferenceType: entity.ShipmentRefSale, ReferenceID: "s1",
		Carrier: "Servientrega", TrackingNumber: "G-1", Destination: "Medellín",
		Cost: decimal.RequireFromString(cost),
	}
}

func expenses(t *testing.T, store *memory.Store) []*entity.Expense {
	t.Helper()
	list, err := store.Repos().Expenses.List(context.Background(), entity.LedgerFilter{CompanyID: company, Category: entity.ExpenseCategoryTransport, Limit: 10})
	require.NoError(t, err)
	return list
}

func TestCreate_GeneraGastoDeTransporte(t *testing.T) {
	store, uc := setup(t)
	sh, err := uc.Create(context.Background(), company, "u1", createReq("15000"))
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentPending, sh.Status)
	require.Len(t, sh.Events, 1)

	list := expenses(t, store)
	require.Len(t, list, 1)
	assert.Equal(t, sh.ID, list[0].Reference)
	assert.True(t, decimal.RequireFromString("15000").Equal(list[0].Amount))

	_, err = uc.Create(context.Background(), company, "u1", createReq("0"))
	require.NoError(t, err)
	assert.Len(t, expenses(t, store), 1, "sin costo no hay gasto")
}

func TestCreate_Validaciones(t *testing.T) {
	_, uc := setup(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, company, "u1", createReq("-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req := createReq("0")
	req.ReferenceID = "no-existe"
	_, err = uc.Create(ctx, company, "u1", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "otra", "u1", createReq("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la venta es de otra empresa")
}

func TestUpdateStatus_Transiciones(t *testing.T) {
	cases := []struct {
		name  string
		steps []string
		want  error
	}{
		{"entrega normal", []string{entity.ShipmentInTransit, entity.ShipmentDelivered}, nil},
		{"cancelar pendiente", []string{entity.ShipmentCancelled}, nil},
		{"cancelar en tránsito", []string{entity.ShipmentInTransit, entity.ShipmentCancelled}, nil},
		{"entregar sin despachar", []string{entity.ShipmentDelivered}, domain.ErrInvalidTransition},
		{"reabrir entregado", []string{entity.ShipmentInTransit, entity.ShipmentDelivered, entity.ShipmentInTransit}, domain.ErrInvalidTransition},
		{"cancelar entregado", []string{entity.ShipmentInTransit, entity.ShipmentDelivered, entity.ShipmentCancelled}, domain.ErrInvalidTransition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, uc := setup(t)
			ctx := context.Background()
			sh, err := uc.Create(ctx, company, "u1", createReq("0"))
			require.NoError(t, err)
			for i, st := range tc.steps {
				next, err := uc.UpdateStatus(ctx, company, "u1", sh.ID, dto.ShipmentStatusRequest{Status: st, ModFlag: sh.ModFlag})
				if i == len(tc.steps)-1 && tc.want != nil {
					assert.ErrorIs(t, err, tc.want)
					return
				}
				require.NoError(t, err)
				sh = next
			}
			assert.Equal(t, tc.steps[len(tc.steps)-1], sh.Status)
			assert.Len(t, sh.Events, len(tc.steps)+1)
		})
	}
}

func TestUpdateStatus_FechasYConflicto(t *testing.T) {
	_, uc := setup(t)
	ctx := context.Background()
	sh, err := uc.Create(ctx, company, "u1", createReq("0"))
	require.NoError(t, err)

	_, err = uc.UpdateStatus(ctx, company, "u1", sh.ID, dto.ShipmentStatusRequest{Status: entity.ShipmentInTransit, ModFlag: 7})
	assert.ErrorIs(t, err, domain.ErrConflict)

	sh, err = uc.UpdateStatus(ctx, company, "u1", sh.ID, dto.ShipmentStatusRequest{Status: entity.ShipmentInTransit, Note: "salió de bodega"})
	require.NoError(t, err)
	require.NotNil(t, sh.ShippedAt)
	assert.Equal(t, "salió de bodega", sh.Events[1].Note)

	sh, err = uc.UpdateStatus(ctx, company, "u1", sh.ID, dto.ShipmentStatusRequest{Status: entity.ShipmentDelivered, ModFlag: sh.ModFlag})
	require.NoError(t, err)
	require.NotNil(t, sh.DeliveredAt)

	_, err = uc.UpdateStatus(ctx, company, "u1", "no-existe", dto.ShipmentStatusRequest{Status: entity.ShipmentDelivered})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancel_AnulaGasto(t *testing.T) {
	store, uc := setup(t)
	ctx := context.Background()
	sh, err := uc.Create(ctx, company, "u1", createReq("9000"))
	require.NoError(t, err)
	require.Len(t, expenses(t, store), 1)

	_, err = uc.UpdateStatus(ctx, company, "u1", sh.ID, dto.ShipmentStatusRequest{Status: entity.ShipmentCancelled, ModFlag: sh.ModFlag})
	require.NoError(t, err)
	assert.Empty(t, expenses(t, store))
}

func TestList(t *testing.T) {
	_, uc := setup(t)
	ctx := context.Background()
	a, err := uc.Create(ctx, company, "u1", createReq("0"))
	require.NoError(t, err)
	_, err = uc.Create(ctx, company, "u1", createReq("0"))
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, company, "u1", a.ID, dto.ShipmentStatusRequest{Status: entity.ShipmentInTransit})
	require.NoError(t, err)

	pending, err := uc.List(ctx, company, entity.ShipmentPending, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	got, err := uc.Get(ctx, company, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.ShipmentInTransit, got.Status)
}
