package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var (
	_ repository.EmployeeRepository = (*EmployeeRepo)(nil)
	_ repository.PayrollRepository  = (*PayrollRepo)(nil)
)

// EmployeeRepo empleados.
type EmployeeRepo struct {
	q Querier
}

const employeeColumns = `id, company_id, name, document_id, position, base_salary, hired_at, status, mod_flag, del_flag, created_at, updated_at`

func scanEmployee(row pgx.Row) (*entity.Employee, error) {
	var e entity.Employee
	err := row.Scan(&e.ID, &e.CompanyID, &e.Name, &e.DocumentID, &e.Position, &e.BaseSalary, &e.HiredAt, &e.Status,
		&e.ModFlag, &e.DelFlag, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepo) Create(ctx context.Context, e *entity.Employee) error {
	_, err := r.q.Exec(ctx, `INSERT INTO employees (`+employeeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		e.ID, e.CompanyID, e.Name, e.DocumentID, e.Position, e.BaseSalary, e.HiredAt, e.Status, e.ModFlag, e.DelFlag, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Employee, error) {
	e, err := scanEmployee(r.q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees
		WHERE company_id = $1 AND id = $2 AND NOT del_flag`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

func (r *EmployeeRepo) ListByCompany(ctx context.Context, companyID string, activeOnly bool, limit, offset int) ([]*entity.Employee, error) {
	rows, err := r.q.Query(ctx, `SELECT `+employeeColumns+` FROM employees
		WHERE company_id = $1 AND NOT del_flag AND (NOT $2 OR status = 'active')
		ORDER BY name, id LIMIT $3 OFFSET $4`, companyID, activeOnly, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return scanAll(rows, func(rows pgx.Rows) (*entity.Employee, error) { return scanEmployee(rows) })
}

func (r *EmployeeRepo) Update(ctx context.Context, e *entity.Employee) error {
	tag, err := r.q.Exec(ctx, `UPDATE employees
		SET name = $4, document_id = $5, position = $6, base_salary = $7, hired_at = $8, status = $9,
		    mod_flag = mod_flag + 1, updated_at = $10
		WHERE id = $1 AND company_id = $2 AND mod_flag = $3 AND NOT del_flag`,
		e.ID, e.CompanyID, e.ModFlag, e.Name, e.DocumentID, e.Position, e.BaseSalary, e.HiredAt, e.Status, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	if err := modResult(ctx, r.q, tag, "employees", e.CompanyID, e.ID); err != nil {
		return err
	}
	e.ModFlag++
	return nil
}

func (r *EmployeeRepo) Delete(ctx context.Context, companyID, id string, modFlag int) error {
	return softDelete(ctx, r.q, "employees", companyID, id, modFlag)
}

// PayrollRepo liquidaciones de nómina; una por empresa y período.
type PayrollRepo struct {
	q Querier
}

const payrollColumns = `id, company_id, period, run_at, total, expense_id, created_by, created_at`

func (r *PayrollRepo) Create(ctx context.Context, run *entity.PayrollRun) error {
	_, err := r.q.Exec(ctx, `INSERT INTO payroll_runs (`+payrollColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.ID, run.CompanyID, run.Period, run.RunAt, run.Total, run.ExpenseID, run.CreatedBy, run.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert payroll run: %w", err)
	}
	for i := range run.Lines {
		l := &run.Lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.PayrollRunID = run.ID
		_, err := r.q.Exec(ctx, `INSERT INTO payroll_lines
			(id, payroll_run_id, employee_id, employee_name, base_salary, allowances, deductions, net_pay)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			l.ID, run.ID, l.EmployeeID, l.EmployeeName, l.BaseSalary, l.Allowances, l.Deductions, l.NetPay)
		if err != nil {
			return fmt.Errorf("insert payroll line: %w", err)
		}
	}
	return nil
}

func scanPayroll(row pgx.Row) (*entity.PayrollRun, error) {
	var run entity.PayrollRun
	if err := row.Scan(&run.ID, &run.CompanyID, &run.Period, &run.RunAt, &run.Total, &run.ExpenseID, &run.CreatedBy, &run.CreatedAt); err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *PayrollRepo) loadLines(ctx context.Context, run *entity.PayrollRun) error {
	rows, err := r.q.Query(ctx, `SELECT id, payroll_run_id, employee_id, employee_name, base_salary, allowances, deductions, net_pay
		FROM payroll_lines WHERE payroll_run_id = $1 ORDER BY employee_name, id`, run.ID)
	if err != nil {
		return fmt.Errorf("list payroll lines: %w", err)
	}
	lines, err := scanAll(rows, func(rows pgx.Rows) (entity.PayrollLine, error) {
		var l entity.PayrollLine
		err := rows.Scan(&l.ID, &l.PayrollRunID, &l.EmployeeID, &l.EmployeeName, &l.BaseSalary, &l.Allowances, &l.Deductions, &l.NetPay)
		return l, err
	})
	if err != nil {
		return err
	}
	run.Lines = lines
	return nil
}

func (r *PayrollRepo) getOne(ctx context.Context, column, companyID, value string) (*entity.PayrollRun, error) {
	run, err := scanPayroll(r.q.QueryRow(ctx, `SELECT `+payrollColumns+` FROM payroll_runs
		WHERE company_id = $1 AND `+column+` = $2`, companyID, value))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payroll run: %w", err)
	}
	if err := r.loadLines(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (r *PayrollRepo) GetByID(ctx context.Context, companyID, id string) (*entity.PayrollRun, error) {
	return r.getOne(ctx, "id", companyID, id)
}

func (r *PayrollRepo) GetByPeriod(ctx context.Context, companyID, period string) (*entity.PayrollRun, error) {
	return r.getOne(ctx, "period", companyID, period)
}

// List liquidaciones del período más reciente al más antiguo, con sus líneas.
func (r *PayrollRepo) List(ctx context.Context, companyID string, limit, offset int) ([]*entity.PayrollRun, error) {
	rows, err := r.q.Query(ctx, `SELECT `+payrollColumns+` FROM payroll_runs
		WHERE company_id = $1 ORDER BY period DESC LIMIT $2 OFFSET $3`, companyID, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list payroll runs: %w", err)
	}
	list, err := scanAll(rows, func(rows pgx.Rows) (*entity.PayrollRun, error) { return scanPayroll(rows) })
	if err != nil {
		return nil, err
	}
	for _, run := range list {
		if err := r.loadLines(ctx, run); err != nil {
			return nil, err
		}
	}
	return list, nil
}
