package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var (
	_ repository.ExpenseRepository = (*ExpenseRepo)(nil)
	_ repository.IncomeRepository  = (*IncomeRepo)(nil)
)

// ExpenseRepo gastos operativos.
type ExpenseRepo struct {
	q Querier
}

const expenseColumns = `id, company_id, category, description, amount, spent_at, reference, created_by, mod_flag, del_flag, created_at, updated_at`

func scanExpense(row pgx.Row) (*entity.Expense, error) {
	var e entity.Expense
	err := row.Scan(&e.ID, &e.CompanyID, &e.Category, &e.Description, &e.Amount, &e.SpentAt, &e.Reference, &e.CreatedBy,
		&e.ModFlag, &e.DelFlag, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	_, err := r.q.Exec(ctx, `INSERT INTO expenses (`+expenseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		e.ID, e.CompanyID, e.Category, e.Description, e.Amount, e.SpentAt, e.Reference, e.CreatedBy, e.ModFlag, e.DelFlag, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepo) getOne(ctx context.Context, column, companyID, value string) (*entity.Expense, error) {
	e, err := scanExpense(r.q.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses
		WHERE company_id = $1 AND `+column+` = $2 AND NOT del_flag
		ORDER BY created_at LIMIT 1`, companyID, value))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (r *ExpenseRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Expense, error) {
	return r.getOne(ctx, "id", companyID, id)
}

func (r *ExpenseRepo) GetByReference(ctx context.Context, companyID, reference string) (*entity.Expense, error) {
	return r.getOne(ctx, "reference", companyID, reference)
}

func (r *ExpenseRepo) List(ctx context.Context, f entity.LedgerFilter) ([]*entity.Expense, error) {
	rows, err := r.q.Query(ctx, `SELECT `+expenseColumns+` FROM expenses
		WHERE company_id = $1 AND NOT del_flag
		  AND ($2 = '' OR category = $2)
		  AND ($3::timestamptz IS NULL OR spent_at >= $3)
		  AND ($4::timestamptz IS NULL OR spent_at < $4)
		ORDER BY spent_at DESC, id LIMIT $5 OFFSET $6`,
		f.CompanyID, f.Category, f.From, f.To, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return scanAll(rows, func(rows pgx.Rows) (*entity.Expense, error) { return scanExpense(rows) })
}

func (r *ExpenseRepo) Update(ctx context.Context, e *entity.Expense) error {
	tag, err := r.q.Exec(ctx, `UPDATE expenses
		SET category = $4, description = $5, amount = $6, spent_at = $7, reference = $8, mod_flag = mod_flag + 1, updated_at = $9
		WHERE id = $1 AND company_id = $2 AND mod_flag = $3 AND NOT del_flag`,
		e.ID, e.CompanyID, e.ModFlag, e.Category, e.Description, e.Amount, e.SpentAt, e.Reference, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if err := modResult(ctx, r.q, tag, "expenses", e.CompanyID, e.ID); err != nil {
		return err
	}
	e.ModFlag++
	return nil
}

func (r *ExpenseRepo) Delete(ctx context.Context, companyID, id string, modFlag int) error {
	return softDelete(ctx, r.q, "expenses", companyID, id, modFlag)
}

// IncomeRepo ingresos no operacionales.
type IncomeRepo struct {
	q Querier
}

const incomeColumns = `id, company_id, source, description, amount, received_at, created_by, mod_flag, del_flag, created_at, updated_at`

func scanIncome(row pgx.Row) (*entity.Income, error) {
	var in entity.Income
	err := row.Scan(&in.ID, &in.CompanyID, &in.Source, &in.Description, &in.Amount, &in.ReceivedAt, &in.CreatedBy,
		&in.ModFlag, &in.DelFlag, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

func (r *IncomeRepo) Create(ctx context.Context, in *entity.Income) error {
	_, err := r.q.Exec(ctx, `INSERT INTO incomes (`+incomeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		in.ID, in.CompanyID, in.Source, in.Description, in.Amount, in.ReceivedAt, in.CreatedBy, in.ModFlag, in.DelFlag, in.CreatedAt, in.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert income: %w", err)
	}
	return nil
}

func (r *IncomeRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Income, error) {
	in, err := scanIncome(r.q.QueryRow(ctx, `SELECT `+incomeColumns+` FROM incomes
		WHERE company_id = $1 AND id = $2 AND NOT del_flag`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get income: %w", err)
	}
	return in, nil
}

// List usa LedgerFilter.Category como fuente del ingreso.
func (r *IncomeRepo) List(ctx context.Context, f entity.LedgerFilter) ([]*entity.Income, error) {
	rows, err := r.q.Query(ctx, `SELECT `+incomeColumns+` FROM incomes
		WHERE company_id = $1 AND NOT del_flag
		  AND ($2 = '' OR source = $2)
		  AND ($3::timestamptz IS NULL OR received_at >= $3)
		  AND ($4::timestamptz IS NULL OR received_at < $4)
		ORDER BY received_at DESC, id LIMIT $5 OFFSET $6`,
		f.CompanyID, f.Category, f.From, f.To, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	return scanAll(rows, func(rows pgx.Rows) (*entity.Income, error) { return scanIncome(rows) })
}

func (r *IncomeRepo) Update(ctx context.Context, in *entity.Income) error {
	tag, err := r.q.Exec(ctx, `UPDATE incomes
		SET source = $4, description = $5, amount = $6, received_at = $7, mod_flag = mod_flag + 1, updated_at = $8
		WHERE id = $1 AND company_id = $2 AND mod_flag = $3 AND NOT del_flag`,
		in.ID, in.CompanyID, in.ModFlag, in.Source, in.Description, in.Amount, in.ReceivedAt, in.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	if err := modResult(ctx, r.q, tag, "incomes", in.CompanyID, in.ID); err != nil {
		return err
	}
	in.ModFlag++
	return nil
}

func (r *IncomeRepo) Delete(ctx context.Context, companyID, id string, modFlag int) error {
	return softDelete(ctx, r.q, "incomes", companyID, id, modFlag)
}
