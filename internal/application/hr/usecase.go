// Package hr gestiona empleados y la liquidación mensual de nómina.
package hr

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const (
	periodLayout = "2006-01"
	payrollTTL   = 30 * time.Second
)

// UseCase casos de uso de recursos humanos.
type UseCase struct {
	tx       ports.TxRunner
	repos    ports.Repos
	locker   ports.Locker
	audit    ports.AuditLogger
	renderer ports.DocumentRenderer
	now      func() time.Time
}

// NewUseCase construye el caso de uso. renderer puede ser nil.
func NewUseCase(tx ports.TxRunner, repos ports.Repos, locker ports.Locker, audit ports.AuditLogger, renderer ports.DocumentRenderer) *UseCase {
	return &UseCase{tx: tx, repos: repos, locker: locker, audit: audit, renderer: renderer, now: time.Now}
}

func validateEmployee(in dto.EmployeeRequest) error {
	if in.Name == "" {
		return fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if in.BaseSalary.IsNegative() {
		return fmt.Errorf("%w: el salario no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.Status != "" && in.Status != entity.EmployeeActive && in.Status != entity.EmployeeInactive {
		return fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
	}
	return nil
}

// CreateEmployee registra un empleado (activo por defecto).
func (uc *UseCase) CreateEmployee(ctx context.Context, companyID, userID string, in dto.EmployeeRequest) (*dto.EmployeeResponse, error) {
	if err := validateEmployee(in); err != nil {
		return nil, err
	}
	now := uc.now()
	e := &entity.Employee{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		Name:       in.Name,
		DocumentID: in.DocumentID,
		Position:   in.Position,
		BaseSalary: in.BaseSalary,
		HiredAt:    now,
		Status:     entity.EmployeeActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if in.HiredAt != nil {
		e.HiredAt = *in.HiredAt
	}
	if in.Status != "" {
		e.Status = in.Status
	}
	if err := uc.repos.Employees.Create(ctx, e); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{CompanyID: companyID, UserID: userID, Entity: "employee", EntityID: e.ID, Action: entity.AuditCreate})
	return toEmployeeResponse(e), nil
}

// GetEmployee obtiene un empleado; nil si no existe.
func (uc *UseCase) GetEmployee(ctx context.Context, companyID, id string) (*dto.EmployeeResponse, error) {
	e, err := uc.repos.Employees.GetByID(ctx, companyID, id)
	if err != nil || e == nil {
		return nil, err
	}
	return toEmployeeResponse(e), nil
}

// ListEmployees lista empleados por nombre.
func (uc *UseCase) ListEmployees(ctx context.Context, companyID string, activeOnly bool, page dto.PageRequest) ([]dto.EmployeeResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Employees.ListByCompany(ctx, companyID, activeOnly, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EmployeeResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *toEmployeeResponse(e))
	}
	return out, nil
}

// UpdateEmployee modifica un empleado validando mod_flag.
func (uc *UseCase) UpdateEmployee(ctx context.Context, companyID, userID, id string, in dto.EmployeeRequest) (*dto.EmployeeResponse, error) {
	if err := validateEmployee(in); err != nil {
		return nil, err
	}
	e, err := uc.repos.Employees.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	e.Name = in.Name
	e.DocumentID = in.DocumentID
	e.Position = in.Position
	e.BaseSalary = in.BaseSalary
	if in.HiredAt != nil {
		e.HiredAt = *in.HiredAt
	}
	if in.Status != "" {
		e.Status = in.Status
	}
	e.ModFlag = in.ModFlag
	e.UpdatedAt = uc.now()
	if err := uc.repos.Employees.Update(ctx, e); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{CompanyID: companyID, UserID: userID, Entity: "employee", EntityID: e.ID, Action: entity.AuditUpdate, ModFlag: e.ModFlag})
	return toEmployeeResponse(e), nil
}

// DeleteEmployee borrado lógico.
func (uc *UseCase) DeleteEmployee(ctx context.Context, companyID, userID, id string, modFlag int) error {
	if err := uc.repos.Employees.Delete(ctx, companyID, id, modFlag); err != nil {
		return err
	}
	uc.audit.Record(ctx, ports.AuditRecord{CompanyID: companyID, UserID: userID, Entity: "employee", EntityID: id, Action: entity.AuditDelete, ModFlag: modFlag + 1})
	return nil
}

// RunPayroll liquida la nómina del período (YYYY-MM) para los empleados activos.
// Solo hay una liquidación por empresa y período: la ejecución se serializa entre
// réplicas con un bloqueo distribuido y un período repetido devuelve domain.ErrDuplicate.
// El total se registra como gasto de categoría payroll.
func (uc *UseCase) RunPayroll(ctx context.Context, companyID, userID string, in dto.RunPayrollRequest) (*dto.PayrollRunResponse, error) {
	start, err := time.ParseInLocation(periodLayout, in.Period, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: el período debe ser YYYY-MM", domain.ErrInvalidInput)
	}
	adjustments := make(map[string]dto.PayrollAdjustment, len(in.Adjustments))
	for _, a := range in.Adjustments {
		if a.Allowances.IsNegative() || a.Deductions.IsNegative() {
			return nil, fmt.Errorf("%w: devengos y deducciones no pueden ser negativos", domain.ErrInvalidInput)
		}
		if _, dup := adjustments[a.EmployeeID]; dup {
			return nil, fmt.Errorf("%w: empleado %s repetido en los ajustes", domain.ErrInvalidInput, a.EmployeeID)
		}
		adjustments[a.EmployeeID] = a
	}

	release, err := uc.locker.Obtain(ctx, "payroll:"+companyID+":"+in.Period, payrollTTL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = release(context.WithoutCancel(ctx)) }()

	now := uc.now()
	run := &entity.PayrollRun{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Period:    in.Period,
		RunAt:     now,
		Total:     decimal.Zero,
		CreatedBy: userID,
		CreatedAt: now,
	}
	err = uc.tx.Run(ctx, func(r ports.Repos) error {
		prev, err := r.Payroll.GetByPeriod(ctx, companyID, in.Period)
		if err != nil {
			return err
		}
		if prev != nil {
			return fmt.Errorf("%w: la nómina de %s ya fue liquidada", domain.ErrDuplicate, in.Period)
		}
		employees, err := r.Employees.ListByCompany(ctx, companyID, true, 0, 0)
		if err != nil {
			return err
		}
		if len(employees) == 0 {
			return fmt.Errorf("%w: no hay empleados activos", domain.ErrInvalidInput)
		}
		for _, e := range employees {
			a := adjustments[e.ID]
			delete(adjustments, e.ID)
			line := entity.PayrollLine{
				ID:           uuid.New().String(),
				PayrollRunID: run.ID,
				EmployeeID:   e.ID,
				EmployeeName: e.Name,
				BaseSalary:   e.BaseSalary,
				Allowances:   a.Allowances,
				Deductions:   a.Deductions,
			}
			line.NetPay = line.BaseSalary.Add(line.Allowances).Sub(line.Deductions)
			if line.NetPay.IsNegative() {
				return fmt.Errorf("%w: el neto de %s sería negativo", domain.ErrInvalidInput, e.Name)
			}
			run.Lines = append(run.Lines, line)
			run.Total = run.Total.Add(line.NetPay)
		}
		if len(adjustments) > 0 {
			return fmt.Errorf("%w: hay ajustes para empleados inactivos o de otra empresa", domain.ErrInvalidInput)
		}

		// Una nómina en cero queda registrada sin gasto asociado.
		if !run.Total.IsPositive() {
			return r.Payroll.Create(ctx, run)
		}
		expense := &entity.Expense{
			ID:          uuid.New().String(),
			CompanyID:   companyID,
			Category:    entity.ExpenseCategoryPayroll,
			Description: "Nómina " + in.Period,
			Amount:      run.Total,
			SpentAt:     expenseDate(start, now),
			Reference:   run.ID,
			CreatedBy:   userID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := r.Expenses.Create(ctx, expense); err != nil {
			return err
		}
		run.ExpenseID = expense.ID
		return r.Payroll.Create(ctx, run)
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{
		CompanyID: companyID, UserID: userID, Entity: "payroll_run", EntityID: run.ID, Action: entity.AuditCreate,
		Details: map[string]string{"period": run.Period, "total": run.Total.StringFixed(2)},
	})
	return toRunResponse(run), nil
}

// expenseDate fecha contable del gasto: el momento de la liquidación si cae dentro
// del período, o el último segundo del período si se liquida después.
func expenseDate(periodStart, now time.Time) time.Time {
	end := periodStart.AddDate(0, 1, 0).Add(-time.Second)
	if now.Before(end) && !now.Before(periodStart) {
		return now
	}
	if now.Before(periodStart) {
		return periodStart
	}
	return end
}

// GetPayrollRun obtiene una liquidación; nil si no existe.
func (uc *UseCase) GetPayrollRun(ctx context.Context, companyID, id string) (*dto.PayrollRunResponse, error) {
	run, err := uc.repos.Payroll.GetByID(ctx, companyID, id)
	if err != nil || run == nil {
		return nil, err
	}
	return toRunResponse(run), nil
}

// ListPayrollRuns liquidaciones más recientes primero.
func (uc *UseCase) ListPayrollRuns(ctx context.Context, companyID string, page dto.PageRequest) ([]dto.PayrollRunResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Payroll.List(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PayrollRunResponse, 0, len(list))
	for _, run := range list {
		out = append(out, *toRunResponse(run))
	}
	return out, nil
}

// Payslips genera los desprendibles PDF de una liquidación.
func (uc *UseCase) Payslips(ctx context.Context, companyID, id string) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("%w: generación de PDF no configurada", domain.ErrInvalidInput)
	}
	run, err := uc.repos.Payroll.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, domain.ErrNotFound
	}
	company, err := uc.repos.Companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return uc.renderer.Payslips(company, run)
}

func toEmployeeResponse(e *entity.Employee) *dto.EmployeeResponse {
	return &dto.EmployeeResponse{
		ID: e.ID, Name: e.Name, DocumentID: e.DocumentID, Position: e.Position,
		BaseSalary: e.BaseSalary, HiredAt: e.HiredAt, Status: e.Status, ModFlag: e.ModFlag,
	}
}

func toRunResponse(run *entity.PayrollRun) *dto.PayrollRunResponse {
	lines := make([]dto.PayrollLineResponse, 0, len(run.Lines))
	for _, l := range run.Lines {
		lines = append(lines, dto.PayrollLineResponse{
			EmployeeID: l.EmployeeID, EmployeeName: l.EmployeeName, BaseSalary: l.BaseSalary,
			Allowances: l.Allowances, Deductions: l.Deductions, NetPay: l.NetPay,
		})
	}
	return &dto.PayrollRunResponse{
		ID: run.ID, Period: run.Period, RunAt: run.RunAt, Lines: lines, Total: run.Total, ExpenseID: run.ExpenseID,
	}
}
