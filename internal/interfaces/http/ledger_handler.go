package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/accounting"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
)

// LedgerHandler gastos e ingresos.
type LedgerHandler struct {
	uc *accounting.LedgerUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *accounting.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// CreateExpense POST /api/expenses
func (h *LedgerHandler) CreateExpense(c *fiber.Ctx) error {
	var in dto.ExpenseRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateExpense(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListExpenses GET /api/expenses?from=&to=&category=
func (h *LedgerHandler) ListExpenses(c *fiber.Ctx) error {
	var q dto.LedgerListQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListExpenses(c.Context(), GetCompanyID(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateExpense PUT /api/expenses/:id
func (h *LedgerHandler) UpdateExpense(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.ExpenseRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateExpense(c.Context(), GetCompanyID(c), GetUserID(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteExpense DELETE /api/expenses/:id?mod_flag=
func (h *LedgerHandler) DeleteExpense(c *fiber.Ctx) error {
	return deleteWith(c, func(id string, modFlag int) error {
		return h.uc.DeleteExpense(c.Context(), GetCompanyID(c), GetUserID(c), id, modFlag)
	})
}

// CreateIncome POST /api/incomes
func (h *LedgerHandler) CreateIncome(c *fiber.Ctx) error {
	var in dto.IncomeRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateIncome(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListIncomes GET /api/incomes?from=&to=&category=
func (h *LedgerHandler) ListIncomes(c *fiber.Ctx) error {
	var q dto.LedgerListQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListIncomes(c.Context(), GetCompanyID(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateIncome PUT /api/incomes/:id
func (h *LedgerHandler) UpdateIncome(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.IncomeRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateIncome(c.Context(), GetCompanyID(c), GetUserID(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteIncome DELETE /api/incomes/:id?mod_flag=
func (h *LedgerHandler) DeleteIncome(c *fiber.Ctx) error {
	return deleteWith(c, func(id string, modFlag int) error {
		return h.uc.DeleteIncome(c.Context(), GetCompanyID(c), GetUserID(c), id, modFlag)
	})
}
