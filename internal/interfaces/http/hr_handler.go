package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/hr"
)

// HRHandler empleados y nómina.
type HRHandler struct {
	uc *hr.UseCase
}

// NewHRHandler construye el handler.
func NewHRHandler(uc *hr.UseCase) *HRHandler {
	return &HRHandler{uc: uc}
}

// CreateEmployee godoc
// @Summary      Crear empleado
// @Tags         hr
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EmployeeRequest  true  "Empleado"
// @Success      201   {object}  dto.EmployeeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/employees [post]
func (h *HRHandler) CreateEmployee(c *fiber.Ctx) error {
	var in dto.EmployeeRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateEmployee(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetEmployee godoc
// @Summary      Obtener empleado
// @Tags         hr
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del empleado"
// @Success      200  {object}  dto.EmployeeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/employees/{id} [get]
func (h *HRHandler) GetEmployee(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetEmployee(c.Context(), GetCompanyID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "empleado no encontrado")
	}
	return c.JSON(out)
}

// ListEmployees godoc
// @Summary      Listar empleados
// @Tags         hr
// @Security     Bearer
// @Produce      json
// @Param        active_only  query  bool  false  "Solo activos"
// @Param        limit        query  int   false  "Límite"
// @Param        offset       query  int   false  "Offset"
// @Success      200  {array}  dto.EmployeeResponse
// @Router       /api/employees [get]
func (h *HRHandler) ListEmployees(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListEmployees(c.Context(), GetCompanyID(c), c.QueryBool("active_only", false), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateEmployee godoc
// @Summary      Modificar empleado
// @Tags         hr
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del empleado"
// @Param        body  body  dto.EmployeeRequest  true  "Empleado con mod_flag"
// @Success      200   {object}  dto.EmployeeResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/employees/{id} [put]
func (h *HRHandler) UpdateEmployee(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.EmployeeRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateEmployee(c.Context(), GetCompanyID(c), GetUserID(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteEmployee godoc
// @Summary      Eliminar empleado (lógico)
// @Tags         hr
// @Security     Bearer
// @Param        id        path   string  true  "ID del empleado"
// @Param        mod_flag  query  int     true  "mod_flag leído"
// @Success      204
// @Router       /api/employees/{id} [delete]
func (h *HRHandler) DeleteEmployee(c *fiber.Ctx) error {
	return deleteWith(c, func(id string, modFlag int) error {
		return h.uc.DeleteEmployee(c.Context(), GetCompanyID(c), GetUserID(c), id, modFlag)
	})
}

// RunPayroll godoc
// @Summary      Liquidar nómina del período
// @Description  Una liquidación por empresa y período; se serializa entre réplicas con un bloqueo distribuido.
// @Tags         hr
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RunPayrollRequest  true  "Período YYYY-MM y novedades"
// @Success      201   {object}  dto.PayrollRunResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      423   {object}  dto.ErrorResponse
// @Router       /api/payroll [post]
func (h *HRHandler) RunPayroll(c *fiber.Ctx) error {
	var in dto.RunPayrollRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.RunPayroll(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetPayrollRun godoc
// @Summary      Obtener liquidación
// @Tags         hr
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la liquidación"
// @Success      200  {object}  dto.PayrollRunResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payroll/{id} [get]
func (h *HRHandler) GetPayrollRun(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetPayrollRun(c.Context(), GetCompanyID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "liquidación no encontrada")
	}
	return c.JSON(out)
}

// ListPayrollRuns godoc
// @Summary      Listar liquidaciones (más reciente primero)
// @Tags         hr
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PayrollRunResponse
// @Router       /api/payroll [get]
func (h *HRHandler) ListPayrollRuns(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListPayrollRuns(c.Context(), GetCompanyID(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Payslips godoc
// @Summary      Desprendibles PDF de una liquidación
// @Tags         hr
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la liquidación"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payroll/{id}/payslips [get]
func (h *HRHandler) Payslips(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	pdf, err := h.uc.Payslips(c.Context(), GetCompanyID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, mimePDF, "nomina-"+id+".pdf", pdf)
}
