package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// PartnerUseCase CRUD de clientes (punto de venta) y proveedores (compras).
type PartnerUseCase struct {
	repos ports.Repos
	audit ports.AuditLogger
}

// NewPartnerUseCase construye el caso de uso.
func NewPartnerUseCase(repos ports.Repos, audit ports.AuditLogger) *PartnerUseCase {
	return &PartnerUseCase{repos: repos, audit: audit}
}

func (uc *PartnerUseCase) record(ctx context.Context, companyID, userID, kind, id, action string, modFlag int) {
	uc.audit.Record(ctx, ports.AuditRecord{
		CompanyID: companyID, UserID: userID, Entity: kind, EntityID: id, Action: action, ModFlag: modFlag,
	})
}

// CreateCustomer crea un cliente.
func (uc *PartnerUseCase) CreateCustomer(ctx context.Context, companyID, userID string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	now := time.Now()
	c := &entity.Customer{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repos.Customers.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.record(ctx, companyID, userID, "customer", c.ID, entity.AuditCreate, c.ModFlag)
	return toCustomerResponse(c), nil
}

// GetCustomer obtiene un cliente; nil si no existe en la empresa.
func (uc *PartnerUseCase) GetCustomer(ctx context.Context, companyID, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repos.Customers.GetByID(ctx, companyID, id)
	if err != nil || c == nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// ListCustomers lista clientes con paginación.
func (uc *PartnerUseCase) ListCustomers(ctx context.Context, companyID string, page dto.PageRequest) ([]dto.CustomerResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Customers.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCustomerResponse(c))
	}
	return out, nil
}

// UpdateCustomer modifica un cliente comparando mod_flag.
func (uc *PartnerUseCase) UpdateCustomer(ctx context.Context, companyID, userID, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.repos.Customers.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	c.Name, c.TaxID, c.Email, c.Phone = in.Name, in.TaxID, in.Email, in.Phone
	c.ModFlag, c.UpdatedAt = in.ModFlag, time.Now()
	if err := uc.repos.Customers.Update(ctx, c); err != nil {
		return nil, err
	}
	uc.record(ctx, companyID, userID, "customer", id, entity.AuditUpdate, c.ModFlag)
	return toCustomerResponse(c), nil
}

// DeleteCustomer borrado lógico.
func (uc *PartnerUseCase) DeleteCustomer(ctx context.Context, companyID, userID, id string, modFlag int) error {
	if err := uc.repos.Customers.Delete(ctx, companyID, id, modFlag); err != nil {
		return err
	}
	uc.record(ctx, companyID, userID, "customer", id, entity.AuditDelete, modFlag+1)
	return nil
}

// CreateSupplier crea un proveedor.
func (uc *PartnerUseCase) CreateSupplier(ctx context.Context, companyID, userID string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	now := time.Now()
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repos.Suppliers.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.record(ctx, companyID, userID, "supplier", s.ID, entity.AuditCreate, s.ModFlag)
	return toSupplierResponse(s), nil
}

// GetSupplier obtiene un proveedor; nil si no existe en la empresa.
func (uc *PartnerUseCase) GetSupplier(ctx context.Context, companyID, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repos.Suppliers.GetByID(ctx, companyID, id)
	if err != nil || s == nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// ListSuppliers lista proveedores con paginación.
func (uc *PartnerUseCase) ListSuppliers(ctx context.Context, companyID string, page dto.PageRequest) ([]dto.SupplierResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Suppliers.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

// UpdateSupplier modifica un proveedor comparando mod_flag.
func (uc *PartnerUseCase) UpdateSupplier(ctx context.Context, companyID, userID, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.repos.Suppliers.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	s.Name, s.TaxID, s.Email, s.Phone, s.Address = in.Name, in.TaxID, in.Email, in.Phone, in.Address
	s.ModFlag, s.UpdatedAt = in.ModFlag, time.Now()
	if err := uc.repos.Suppliers.Update(ctx, s); err != nil {
		return nil, err
	}
	uc.record(ctx, companyID, userID, "supplier", id, entity.AuditUpdate, s.ModFlag)
	return toSupplierResponse(s), nil
}

// DeleteSupplier borrado lógico.
func (uc *PartnerUseCase) DeleteSupplier(ctx context.Context, companyID, userID, id string, modFlag int) error {
	if err := uc.repos.Suppliers.Delete(ctx, companyID, id, modFlag); err != nil {
		return err
	}
	uc.record(ctx, companyID, userID, "supplier", id, entity.AuditDelete, modFlag+1)
	return nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID: c.ID, Name: c.Name, TaxID: c.TaxID, Email: c.Email, Phone: c.Phone,
		ModFlag: c.ModFlag, UpdatedAt: c.UpdatedAt,
	}
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID: s.ID, Name: s.Name, TaxID: s.TaxID, Email: s.Email, Phone: s.Phone, Address: s.Address,
		ModFlag: s.ModFlag, UpdatedAt: s.UpdatedAt,
	}
}
