package accounting_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Comercio-api/internal/application/accounting"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const company = "c1"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newLedger() *accounting.LedgerUseCase {
	return accounting.NewLedgerUseCase(memory.New().Repos(), ports.NopAudit{})
}

func TestExpenses_CRUD(t *testing.T) {
	uc := newLedger()
	ctx := context.Background()

	_, err := uc.CreateExpense(ctx, company, "u1", dto.ExpenseRequest{Category: "arriendo", Amount: d("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	jan := time.Date(2026, 1, 15, 10, 0, 0, 0, time.Local)
	feb := time.Date(2026, 2, 3, 10, 0, 0, 0, time.Local)
	rent, err := uc.CreateExpense(ctx, company, "u1", dto.ExpenseRequest{Category: "arriendo", Amount: d("1500000"), SpentAt: &jan})
	require.NoError(t, err)
	_, err = uc.CreateExpense(ctx, company, "u1", dto.ExpenseRequest{Category: "servicios", Amount: d("200000"), SpentAt: &feb})
	require.NoError(t, err)

	list, err := uc.ListExpenses(ctx, company, dto.LedgerListQuery{DateRange: dto.DateRange{From: "2026-01-01", To: "2026-01-31"}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rent.ID, list[0].ID)

	list, err = uc.ListExpenses(ctx, company, dto.LedgerListQuery{Category: "servicios"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	updated, err := uc.UpdateExpense(ctx, company, "u1", rent.ID, dto.ExpenseRequest{Category: "arriendo", Amount: d("1600000"), ModFlag: rent.ModFlag})
	require.NoError(t, err)
	assert.Equal(t, rent.ModFlag+1, updated.ModFlag)
	assert.True(t, jan.Equal(updated.SpentAt), "sin spent_at se conserva la fecha")

	_, err = uc.UpdateExpense(ctx, company, "u1", rent.ID, dto.ExpenseRequest{Category: "arriendo", Amount: d("1"), ModFlag: rent.ModFlag})
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.ErrorIs(t, uc.DeleteExpense(ctx, company, "u1", rent.ID, rent.ModFlag), domain.ErrConflict)
	require.NoError(t, uc.DeleteExpense(ctx, company, "u1", rent.ID, updated.ModFlag))
	assert.ErrorIs(t, uc.DeleteExpense(ctx, company, "u1", rent.ID, updated.ModFlag+1), domain.ErrNotFound)

	list, err = uc.ListExpenses(ctx, company, dto.LedgerListQuery{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestIncomes_CRUD(t *testing.T) {
	uc := newLedger()
	ctx := context.Background()

	_, err := uc.CreateIncome(ctx, company, "u1", dto.IncomeRequest{Source: "intereses", Amount: d("-5")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	inc, err := uc.CreateIncome(ctx, company, "u1", dto.IncomeRequest{Source: "intereses", Amount: d("35000")})
	require.NoError(t, err)

	_, err = uc.UpdateIncome(ctx, "otra", "u1", inc.ID, dto.IncomeRequest{Source: "intereses", Amount: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	up, err := uc.UpdateIncome(ctx, company, "u1", inc.ID, dto.IncomeRequest{Source: "alquiler", Amount: d("40000"), ModFlag: inc.ModFlag})
	require.NoError(t, err)
	assert.Equal(t, "alquiler", up.Source)

	list, err := uc.ListIncomes(ctx, company, dto.LedgerListQuery{Category: "alquiler"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, uc.DeleteIncome(ctx, company, "u1", inc.ID, up.ModFlag))
	list, err = uc.ListIncomes(ctx, company, dto.LedgerListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
}
