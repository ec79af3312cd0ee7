package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var (
	_ repository.ShipmentRepository = (*shipmentRepo)(nil)
	_ repository.EmployeeRepository = (*employeeRepo)(nil)
	_ repository.PayrollRepository  = (*payrollRepo)(nil)
	_ repository.ExpenseRepository  = (*expenseRepo)(nil)
	_ repository.IncomeRepository   = (*incomeRepo)(nil)
)

type shipmentRepo struct{ s *Store }

func cloneShipment(sh entity.Shipment) *entity.Shipment {
	sh.Events = append([]entity.ShipmentEvent(nil), sh.Events...)
	return &sh
}

func (r *shipmentRepo) Create(_ context.Context, sh *entity.Shipment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.shipments[sh.ID] = *cloneShipment(*sh)
	return nil
}

func (r *shipmentRepo) GetByID(_ context.Context, companyID, id string) (*entity.Shipment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sh, ok := r.s.d.shipments[id]
	if !ok || sh.CompanyID != companyID || sh.DelFlag {
		return nil, nil
	}
	return cloneShipment(sh), nil
}

func (r *shipmentRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Shipment, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *shipmentRepo) List(_ context.Context, companyID, status string, limit, offset int) ([]*entity.Shipment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Shipment
	for _, sh := range r.s.d.shipments {
		if sh.CompanyID != companyID || sh.DelFlag || (status != "" && sh.Status != status) {
			continue
		}
		list = append(list, cloneShipment(sh))
	}
	newestFirst(list, func(s *entity.Shipment) time.Time { return s.CreatedAt }, func(s *entity.Shipment) string { return s.ID })
	return page(list, limit, offset), nil
}

func (r *shipmentRepo) Update(_ context.Context, sh *entity.Shipment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.shipments[sh.ID]
	if err := checkMod(ok && prev.CompanyID == sh.CompanyID, prev.DelFlag, prev.ModFlag, sh.ModFlag); err != nil {
		return err
	}
	sh.ModFlag++
	r.s.d.shipments[sh.ID] = *cloneShipment(*sh)
	return nil
}

type employeeRepo struct{ s *Store }

func (r *employeeRepo) Create(_ context.Context, e *entity.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.employees[e.ID] = *e
	return nil
}

func (r *employeeRepo) GetByID(_ context.Context, companyID, id string) (*entity.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.d.employees[id]
	if !ok || e.CompanyID != companyID || e.DelFlag {
		return nil, nil
	}
	return &e, nil
}

func (r *employeeRepo) ListByCompany(_ context.Context, companyID string, activeOnly bool, limit, offset int) ([]*entity.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Employee
	for _, e := range r.s.d.employees {
		if e.CompanyID != companyID || e.DelFlag || (activeOnly && e.Status != entity.EmployeeActive) {
			continue
		}
		e := e
		list = append(list, &e)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return page(list, limit, offset), nil
}

func (r *employeeRepo) Update(_ context.Context, e *entity.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.employees[e.ID]
	if err := checkMod(ok && prev.CompanyID == e.CompanyID, prev.DelFlag, prev.ModFlag, e.ModFlag); err != nil {
		return err
	}
	e.ModFlag++
	r.s.d.employees[e.ID] = *e
	return nil
}

func (r *employeeRepo) Delete(_ context.Context, companyID, id string, modFlag int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.employees[id]
	if err := checkMod(ok && prev.CompanyID == companyID, prev.DelFlag, prev.ModFlag, modFlag); err != nil {
		return err
	}
	prev.DelFlag, prev.ModFlag, prev.UpdatedAt = true, prev.ModFlag+1, time.Now()
	r.s.d.employees[id] = prev
	return nil
}

type payrollRepo struct{ s *Store }

func clonePayroll(run entity.PayrollRun) *entity.PayrollRun {
	run.Lines = append([]entity.PayrollLine(nil), run.Lines...)
	return &run
}

func (r *payrollRepo) Create(_ context.Context, run *entity.PayrollRun) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.d.payroll {
		if existing.CompanyID == run.CompanyID && existing.Period == run.Period {
			return domain.ErrDuplicate
		}
	}
	r.s.d.payroll[run.ID] = *clonePayroll(*run)
	return nil
}

func (r *payrollRepo) GetByID(_ context.Context, companyID, id string) (*entity.PayrollRun, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	run, ok := r.s.d.payroll[id]
	if !ok || run.CompanyID != companyID {
		return nil, nil
	}
	return clonePayroll(run), nil
}

func (r *payrollRepo) GetByPeriod(_ context.Context, companyID, period string) (*entity.PayrollRun, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, run := range r.s.d.payroll {
		if run.CompanyID == companyID && run.Period == period {
			return clonePayroll(run), nil
		}
	}
	return nil, nil
}

func (r *payrollRepo) List(_ context.Context, companyID string, limit, offset int) ([]*entity.PayrollRun, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.PayrollRun
	for _, run := range r.s.d.payroll {
		if run.CompanyID == companyID {
			list = append(list, clonePayroll(run))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Period > list[j].Period })
	return page(list, limit, offset), nil
}

type expenseRepo struct{ s *Store }

// Create replica el CHECK (amount > 0) de la tabla expenses.
func (r *expenseRepo) Create(_ context.Context, e *entity.Expense) error {
	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: el monto del gasto debe ser mayor a cero", domain.ErrInvalidInput)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.expenses[e.ID] = *e
	return nil
}

func (r *expenseRepo) GetByID(_ context.Context, companyID, id string) (*entity.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.d.expenses[id]
	if !ok || e.CompanyID != companyID || e.DelFlag {
		return nil, nil
	}
	return &e, nil
}

func (r *expenseRepo) GetByReference(_ context.Context, companyID, reference string) (*entity.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.d.expenses {
		if e.CompanyID == companyID && e.Reference == reference && !e.DelFlag {
			e := e
			return &e, nil
		}
	}
	return nil, nil
}

func (r *expenseRepo) List(_ context.Context, f entity.LedgerFilter) ([]*entity.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Expense
	for _, e := range r.s.d.expenses {
		if e.CompanyID != f.CompanyID || e.DelFlag || (f.Category != "" && e.Category != f.Category) {
			continue
		}
		if !inRange(e.SpentAt, f.From, f.To) {
			continue
		}
		e := e
		list = append(list, &e)
	}
	newestFirst(list, func(e *entity.Expense) time.Time { return e.SpentAt }, func(e *entity.Expense) string { return e.ID })
	return page(list, f.Limit, f.Offset), nil
}

func (r *expenseRepo) Update(_ context.Context, e *entity.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.expenses[e.ID]
	if err := checkMod(ok && prev.CompanyID == e.CompanyID, prev.DelFlag, prev.ModFlag, e.ModFlag); err != nil {
		return err
	}
	e.ModFlag++
	r.s.d.expenses[e.ID] = *e
	return nil
}

func (r *expenseRepo) Delete(_ context.Context, companyID, id string, modFlag int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.expenses[id]
	if err := checkMod(ok && prev.CompanyID == companyID, prev.DelFlag, prev.ModFlag, modFlag); err != nil {
		return err
	}
	prev.DelFlag, prev.ModFlag, prev.UpdatedAt = true, prev.ModFlag+1, time.Now()
	r.s.d.expenses[id] = prev
	return nil
}

type incomeRepo struct{ s *Store }

func (r *incomeRepo) Create(_ context.Context, in *entity.Income) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.incomes[in.ID] = *in
	return nil
}

func (r *incomeRepo) GetByID(_ context.Context, companyID, id string) (*entity.Income, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	in, ok := r.s.d.incomes[id]
	if !ok || in.CompanyID != companyID || in.DelFlag {
		return nil, nil
	}
	return &in, nil
}

func (r *incomeRepo) List(_ context.Context, f entity.LedgerFilter) ([]*entity.Income, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Income
	for _, in := range r.s.d.incomes {
		if in.CompanyID != f.CompanyID || in.DelFlag || (f.Category != "" && in.Source != f.Category) {
			continue
		}
		if !inRange(in.ReceivedAt, f.From, f.To) {
			continue
		}
		in := in
		list = append(list, &in)
	}
	newestFirst(list, func(i *entity.Income) time.Time { return i.ReceivedAt }, func(i *entity.Income) string { return i.ID })
	return page(list, f.Limit, f.Offset), nil
}

func (r *incomeRepo) Update(_ context.Context, in *entity.Income) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.incomes[in.ID]
	if err := checkMod(ok && prev.CompanyID == in.CompanyID, prev.DelFlag, prev.ModFlag, in.ModFlag); err != nil {
		return err
	}
	in.ModFlag++
	r.s.d.incomes[in.ID] = *in
	return nil
}

func (r *incomeRepo) Delete(_ context.Context, companyID, id string, modFlag int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.incomes[id]
	if err := checkMod(ok && prev.CompanyID == companyID, prev.DelFlag, prev.ModFlag, modFlag); err != nil {
		return err
	}
	prev.DelFlag, prev.ModFlag, prev.UpdatedAt = true, prev.ModFlag+1, time.Now()
	r.s.d.incomes[id] = prev
	return nil
}
