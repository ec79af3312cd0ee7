package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer emite el JWT de un usuario (implementado por auth.AuthUseCase).
type TokenIssuer interface {
	IssueToken(user *entity.User) (string, error)
}

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	tx     ports.TxRunner
	repos  ports.Repos
	tokens TokenIssuer
	audit  ports.AuditLogger
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(tx ports.TxRunner, repos ports.Repos, tokens TokenIssuer, audit ports.AuditLogger) *CompanyUseCase {
	return &CompanyUseCase{tx: tx, repos: repos, tokens: tokens, audit: audit}
}

// Create da de alta una empresa con sus roles de sistema, todos los módulos activos
// y el usuario administrador, en una sola transacción. Devuelve domain.ErrDuplicate si
// el NIT ya existe y domain.ErrEmailAlreadyExists si el email del admin está tomado.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CreateCompanyResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	currency := in.Currency
	if currency == "" {
		currency = "COP"
	}
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.Name,
		TaxID:     in.TaxID,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		Currency:  currency,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	admin := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Email:        strings.ToLower(in.AdminEmail),
		PasswordHash: string(hash),
		Name:         in.AdminName,
		Role:         entity.RoleAdmin,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.tx.Run(ctx, func(r ports.Repos) error {
		existing, err := r.Companies.GetByTaxID(ctx, in.TaxID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		taken, err := r.Users.GetByEmail(ctx, admin.Email)
		if err != nil {
			return err
		}
		if taken != nil {
			return domain.ErrEmailAlreadyExists
		}
		if err := r.Companies.Create(ctx, company); err != nil {
			return err
		}
		for name, perms := range entity.DefaultRoles() {
			role := &entity.Role{
				ID:          uuid.New().String(),
				CompanyID:   company.ID,
				Name:        name,
				Permissions: perms,
				IsSystem:    true,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := r.Roles.Create(ctx, role); err != nil {
				return fmt.Errorf("rol %s: %w", name, err)
			}
		}
		for _, m := range entity.AllModules {
			if err := r.Modules.Upsert(ctx, &entity.CompanyModule{
				ID:          uuid.New().String(),
				CompanyID:   company.ID,
				ModuleName:  m,
				IsActive:    true,
				ActivatedAt: now,
				CreatedAt:   now,
				UpdatedAt:   now,
			}); err != nil {
				return fmt.Errorf("módulo %s: %w", m, err)
			}
		}
		return r.Users.Create(ctx, admin)
	})
	if err != nil {
		return nil, err
	}

	token, err := uc.tokens.IssueToken(admin)
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{
		CompanyID: company.ID, UserID: admin.ID,
		Entity: "company", EntityID: company.ID, Action: entity.AuditCreate,
	})
	return &dto.CreateCompanyResponse{
		Company: *entityToCompanyResponse(company),
		Admin:   *EntityToUserResponse(admin),
		Token:   token,
	}, nil
}

// GetByID obtiene una empresa por ID. Devuelve nil si no existe.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repos.Companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// Update modifica los datos de contacto de la empresa del token.
func (uc *CompanyUseCase) Update(ctx context.Context, companyID, userID string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.repos.Companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		company.Name = *in.Name
	}
	if in.Address != nil {
		company.Address = *in.Address
	}
	if in.Phone != nil {
		company.Phone = *in.Phone
	}
	if in.Email != nil {
		company.Email = *in.Email
	}
	if in.Currency != nil {
		company.Currency = *in.Currency
	}
	company.UpdatedAt = time.Now()
	if err := uc.repos.Companies.Update(ctx, company); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{
		CompanyID: companyID, UserID: userID,
		Entity: "company", EntityID: companyID, Action: entity.AuditUpdate,
	})
	return entityToCompanyResponse(company), nil
}

// List lista empresas con paginación (uso de plataforma).
func (uc *CompanyUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.CompanyListResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Companies.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCompanyResponse(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		Currency:  c.Currency,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// EntityToUserResponse convierte un usuario en su DTO (sin password).
func EntityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
