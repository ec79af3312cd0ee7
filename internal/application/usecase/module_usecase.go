package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// ModuleService verifica qué módulos SaaS tiene activos una empresa.
// Es el único punto de la aplicación que conoce la lógica de activación de módulos.
type ModuleService struct {
	repos ports.Repos
	audit ports.AuditLogger
	now   func() time.Time
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(repos ports.Repos, audit ports.AuditLogger) *ModuleService {
	return &ModuleService{repos: repos, audit: audit, now: time.Now}
}

// HasActiveModule informa si la empresa tiene el módulo activo y sin vencer.
// Devuelve false (sin error) si la empresa no tiene el módulo contratado.
// Devuelve error solo ante fallos de infraestructura (DB caída, timeout, etc.).
func (s *ModuleService) HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error) {
	if companyID == "" || moduleName == "" {
		return false, fmt.Errorf("module: companyID y moduleName son obligatorios")
	}
	m, err := s.repos.Modules.Get(ctx, companyID, moduleName)
	if err != nil {
		return false, err
	}
	return m.ActiveAt(s.now()), nil
}

// ActivateModule activa o desactiva un módulo con vencimiento opcional.
func (s *ModuleService) ActivateModule(ctx context.Context, companyID, userID, moduleName string, in dto.ActivateModuleRequest) (*dto.ModuleResponse, error) {
	if !entity.IsValidModule(moduleName) || in.Active == nil {
		return nil, domain.ErrInvalidInput
	}
	now := s.now()
	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		return nil, fmt.Errorf("%w: expires_at debe ser futura", domain.ErrInvalidInput)
	}
	company, err := s.repos.Companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	m, err := s.repos.Modules.Get(ctx, companyID, moduleName)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = &entity.CompanyModule{ID: uuid.New().String(), CompanyID: companyID, ModuleName: moduleName, CreatedAt: now}
	}
	if *in.Active && !m.IsActive {
		m.ActivatedAt = now
	}
	m.IsActive = *in.Active
	m.ExpiresAt = in.ExpiresAt
	m.UpdatedAt = now
	if err := s.repos.Modules.Upsert(ctx, m); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, ports.AuditRecord{
		CompanyID: companyID, UserID: userID, Entity: "company_module", EntityID: moduleName,
		Action: entity.AuditUpdate, Details: map[string]string{"active": fmt.Sprint(m.IsActive)},
	})
	return toModuleResponse(m), nil
}

// ListModules estado de todos los módulos de la empresa.
func (s *ModuleService) ListModules(ctx context.Context, companyID string) ([]dto.ModuleResponse, error) {
	list, err := s.repos.Modules.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ModuleResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toModuleResponse(m))
	}
	return out, nil
}

// ActiveModules nombres de los módulos activos y vigentes.
func (s *ModuleService) ActiveModules(ctx context.Context, companyID string) ([]string, error) {
	list, err := s.repos.Modules.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := []string{}
	for _, m := range list {
		if m.ActiveAt(now) {
			out = append(out, m.ModuleName)
		}
	}
	return out, nil
}

func toModuleResponse(m *entity.CompanyModule) *dto.ModuleResponse {
	return &dto.ModuleResponse{
		Module:      m.ModuleName,
		IsActive:    m.IsActive,
		ActivatedAt: m.ActivatedAt,
		ExpiresAt:   m.ExpiresAt,
	}
}
