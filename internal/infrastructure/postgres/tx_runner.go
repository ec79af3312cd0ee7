package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Comercio-api/internal/application/ports"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// NewRepos construye todos los repositorios sobre q (pool o tx).
func NewRepos(q Querier) ports.Repos {
	return ports.Repos{
		Companies:      &CompanyRepo{q: q},
		Modules:        &ModuleRepo{q: q},
		Users:          &UserRepo{q: q},
		Roles:          &RoleRepo{q: q},
		Categories:     &CategoryRepo{q: q},
		Brands:         &BrandRepo{q: q},
		Units:          &UnitRepo{q: q},
		Products:       &ProductRepo{q: q},
		Batches:        &BatchRepo{q: q},
		Movements:      &MovementRepo{q: q},
		Customers:      &CustomerRepo{q: q},
		Suppliers:      &SupplierRepo{q: q},
		PurchaseOrders: &PurchaseOrderRepo{q: q},
		Sequences:      &SequenceRepo{q: q},
		Sales:          &SaleRepo{q: q},
		Shipments:      &ShipmentRepo{q: q},
		Employees:      &EmployeeRepo{q: q},
		Payroll:        &PayrollRepo{q: q},
		Expenses:       &ExpenseRepo{q: q},
		Incomes:        &IncomeRepo{q: q},
		Reports:        &ReportRepo{q: q},
	}
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ports.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
