// Package accounting registra gastos operativos e ingresos no operacionales.
package accounting

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

// LedgerUseCase casos de uso de gastos e ingresos.
type LedgerUseCase struct {
	repos ports.Repos
	audit ports.AuditLogger
	now   func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(repos ports.Repos, audit ports.AuditLogger) *LedgerUseCase {
	return &LedgerUseCase{repos: repos, audit: audit, now: time.Now}
}

func positive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: el monto debe ser mayor que cero", domain.ErrInvalidInput)
	}
	return nil
}

func (uc *LedgerUseCase) filter(companyID string, q dto.LedgerListQuery) (entity.LedgerFilter, error) {
	from, to, err := q.DateRange.Bounds(time.Local)
	if err != nil {
		return entity.LedgerFilter{}, err
	}
	q.DefaultPage()
	return entity.LedgerFilter{
		CompanyID: companyID, Category: q.Category, From: from, To: to, Limit: q.Limit, Offset: q.Offset,
	}, nil
}

// CreateExpense registra un gasto.
func (uc *LedgerUseCase) CreateExpense(ctx context.Context, companyID, userID string, in dto.ExpenseRequest) (*dto.ExpenseResponse, error) {
	if err := positive(in.Amount); err != nil {
		return nil, err
	}
	now := uc.now()
	e := &entity.Expense{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Category:    in.Category,
		Description: in.Description,
		Amount:      in.Amount,
		SpentAt:     now,
		Reference:   in.Reference,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.SpentAt != nil {
		e.SpentAt = *in.SpentAt
	}
	if err := uc.repos.Expenses.Create(ctx, e); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{CompanyID: companyID, UserID: userID, Entity: "expense", EntityID: e.ID, Action: entity.AuditCreate})
	return toExpenseResponse(e), nil
}

// ListExpenses gastos por rango de días inclusivo y categoría.
func (uc *LedgerUseCase) ListExpenses(ctx context.Context, companyID string, q dto.LedgerListQuery) ([]dto.ExpenseResponse, error) {
	f, err := uc.filter(companyID, q)
	if err != nil {
		return nil, err
	}
	list, err := uc.repos.Expenses.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *toExpenseResponse(e))
	}
	return out, nil
}

// UpdateExpense modifica un gasto validando mod_flag.
func (uc *LedgerUseCase) UpdateExpense(ctx context.Context, companyID, userID, id string, in dto.ExpenseRequest) (*dto.ExpenseResponse, error) {
	if err := positive(in.Amount); err != nil {
		return nil, err
	}
	e, err := uc.repos.Expenses.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	e.Category = in.Category
	e.Description = in.Description
	e.Amount = in.Amount
	e.Reference = in.Reference
	if in.SpentAt != nil {
		e.SpentAt = *in.SpentAt
	}
	e.ModFlag = in.ModFlag
	e.UpdatedAt = uc.now()
	if err := uc.repos.Expenses.Update(ctx, e); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{CompanyID: companyID, UserID: userID, Entity: "expense", EntityID: e.ID, Action: entity.AuditUpdate, ModFlag: e.ModFlag})
	return toExpenseResponse(e), nil
}

// DeleteExpense borrado lógico.
func (uc *LedgerUseCase) DeleteExpense(ctx context.Context, companyID, userID, id string, modFlag int) error {
	if err := uc.repos.Expenses.Delete(ctx, companyID, id, modFlag); err != nil {
		return err
	}
	uc.audit.Record(ctx, ports.AuditRecord{CompanyID: companyID, UserID: userID, Entity: "expense", EntityID: id, Action: entity.AuditDelete, ModFlag: modFlag + 1})
	return nil
}

// CreateIncome registra un ingreso no operacional.
func (uc *LedgerUseCase) CreateIncome(ctx context.Context, companyID, userID string, in dto.IncomeRequest) (*dto.IncomeResponse, error) {
	if err := positive(in.Amount); err != nil {
		return nil, err
	}
	now := uc.now()
	inc := &entity.Income{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Source:      in.Source,
		Description: in.Description,
		Amount:      in.Amount,
		ReceivedAt:  now,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.ReceivedAt != nil {
		inc.ReceivedAt = *in.ReceivedAt
	}
	if err := uc.repos.Incomes.Create(ctx, inc); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{CompanyID: companyID, UserID: userID, Entity: "income", EntityID: inc.ID, Action: entity.AuditCreate})
	return toIncomeResponse(inc), nil
}

// ListIncomes ingresos por rango de días inclusivo y fuente.
func (uc *LedgerUseCase) ListIncomes(ctx context.Context, companyID string, q dto.LedgerListQuery) ([]dto.IncomeResponse, error) {
	f, err := uc.filter(companyID, q)
	if err != nil {
		return nil, err
	}
	list, err := uc.repos.Incomes.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.IncomeResponse, 0, len(list))
	for _, inc := range list {
		out = append(out, *toIncomeResponse(inc))
	}
	return out, nil
}

// UpdateIncome modifica un ingreso validando mod_flag.
func (uc *LedgerUseCase) UpdateIncome(ctx context.Context, companyID, userID, id string, in dto.IncomeRequest) (*dto.IncomeResponse, error) {
	if err := positive(in.Amount); err != nil {
		return nil, err
	}
	inc, err := uc.repos.Incomes.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if inc == nil {
		return nil, domain.ErrNotFound
	}
	inc.Source = in.Source
	inc.Description = in.Description
	inc.Amount = in.Amount
	if in.ReceivedAt != nil {
		inc.ReceivedAt = *in.ReceivedAt
	}
	inc.ModFlag = in.ModFlag
	inc.UpdatedAt = uc.now()
	if err := uc.repos.Incomes.Update(ctx, inc); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{CompanyID: companyID, UserID: userID, Entity: "income", EntityID: inc.ID, Action: entity.AuditUpdate, ModFlag: inc.ModFlag})
	return toIncomeResponse(inc), nil
}

// DeleteIncome borrado lógico.
func (uc *LedgerUseCase) DeleteIncome(ctx context.Context, companyID, userID, id string, modFlag int) error {
	if err := uc.repos.Incomes.Delete(ctx, companyID, id, modFlag); err != nil {
		return err
	}
	uc.audit.Record(ctx, ports.AuditRecord{CompanyID: companyID, UserID: userID, Entity: "income", EntityID: id, Action: entity.AuditDelete, ModFlag: modFlag + 1})
	return nil
}

func toExpenseResponse(e *entity.Expense) *dto.ExpenseResponse {
	return &dto.ExpenseResponse{
		ID: e.ID, Category: e.Category, Description: e.Description, Amount: e.Amount,
		SpentAt: e.SpentAt, Reference: e.Reference, ModFlag: e.ModFlag,
	}
}

func toIncomeResponse(in *entity.Income) *dto.IncomeResponse {
	return &dto.IncomeResponse{
		ID: in.ID, Source: in.Source, Description: in.Description, Amount: in.Amount,
		ReceivedAt: in.ReceivedAt, ModFlag: in.ModFlag,
	}
}
