package repository

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// ExpenseRepository define el puerto de persistencia de gastos.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Expense, error)
	// GetByReference busca el gasto generado por otro documento (envío, nómina).
	GetByReference(ctx context.Context, companyID, reference string) (*entity.Expense, error)
	List(ctx context.Context, filter entity.LedgerFilter) ([]*entity.Expense, error)
	Update(ctx context.Context, expense *entity.Expense) error
	Delete(ctx context.Context, companyID, id string, modFlag int) error
}

// IncomeRepository define el puerto de persistencia de ingresos no operacionales.
type IncomeRepository interface {
	Create(ctx context.Context, income *entity.Income) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Income, error)
	List(ctx context.Context, filter entity.LedgerFilter) ([]*entity.Income, error)
	Update(ctx context.Context, income *entity.Income) error
	Delete(ctx context.Context, companyID, id string, modFlag int) error
}
