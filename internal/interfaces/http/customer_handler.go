package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/usecase"
)

// PartnerHandler maneja las peticiones HTTP de clientes y proveedores (protegido).
type PartnerHandler struct {
	uc *usecase.PartnerUseCase
}

// NewPartnerHandler construye el handler.
func NewPartnerHandler(uc *usecase.PartnerUseCase) *PartnerHandler {
	return &PartnerHandler{uc: uc}
}

// CreateCustomer POST /api/customers
func (h *PartnerHandler) CreateCustomer(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateCustomer(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetCustomer GET /api/customers/:id
func (h *PartnerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetCustomer(c.Context(), GetCompanyID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "cliente no encontrado")
	}
	return c.JSON(out)
}

// ListCustomers GET /api/customers?limit=&offset=
func (h *PartnerHandler) ListCustomers(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListCustomers(c.Context(), GetCompanyID(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateCustomer PUT /api/customers/:id
func (h *PartnerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CustomerRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateCustomer(c.Context(), GetCompanyID(c), GetUserID(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteCustomer DELETE /api/customers/:id?mod_flag=
func (h *PartnerHandler) DeleteCustomer(c *fiber.Ctx) error {
	return deleteWith(c, func(id string, modFlag int) error {
		return h.uc.DeleteCustomer(c.Context(), GetCompanyID(c), GetUserID(c), id, modFlag)
	})
}

// CreateSupplier POST /api/suppliers
func (h *PartnerHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.SupplierRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateSupplier(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetSupplier GET /api/suppliers/:id
func (h *PartnerHandler) GetSupplier(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetSupplier(c.Context(), GetCompanyID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "proveedor no encontrado")
	}
	return c.JSON(out)
}

// ListSuppliers GET /api/suppliers?limit=&offset=
func (h *PartnerHandler) ListSuppliers(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListSuppliers(c.Context(), GetCompanyID(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateSupplier PUT /api/suppliers/:id
func (h *PartnerHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.SupplierRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateSupplier(c.Context(), GetCompanyID(c), GetUserID(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteSupplier DELETE /api/suppliers/:id?mod_flag=
func (h *PartnerHandler) DeleteSupplier(c *fiber.Ctx) error {
	return deleteWith(c, func(id string, modFlag int) error {
		return h.uc.DeleteSupplier(c.Context(), GetCompanyID(c), GetUserID(c), id, modFlag)
	})
}
