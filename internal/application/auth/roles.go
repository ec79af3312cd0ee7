package auth

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

// CreateRole crea un rol propio de la empresa. Nombre repetido → domain.ErrDuplicate.
func (uc *AuthUseCase) CreateRole(ctx context.Context, companyID, actorID string, in dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	existing, err := uc.repos.Roles.GetByName(ctx, companyID, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	role := &entity.Role{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Name:        in.Name,
		Permissions: in.Permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repos.Roles.Create(ctx, role); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{
		CompanyID: companyID, UserID: actorID, Entity: "role", EntityID: role.ID, Action: entity.AuditCreate,
	})
	return toRoleResponse(role), nil
}

// ListRoles lista los roles de la empresa.
func (uc *AuthUseCase) ListRoles(ctx context.Context, companyID string) ([]dto.RoleResponse, error) {
	list, err := uc.repos.Roles.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RoleResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toRoleResponse(r))
	}
	return out, nil
}

// UpdateRole cambia nombre y banderas comparando mod_flag. Los roles de sistema
// conservan su nombre y el admin no se puede modificar.
func (uc *AuthUseCase) UpdateRole(ctx context.Context, companyID, actorID, id string, in dto.UpdateRoleRequest) (*dto.RoleResponse, error) {
	role, err := uc.repos.Roles.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	if role.Name == entity.RoleAdmin {
		return nil, fmt.Errorf("%w: el rol admin no se puede modificar", domain.ErrForbidden)
	}
	if in.Name != nil && *in.Name != role.Name {
		if role.IsSystem {
			return nil, fmt.Errorf("%w: los roles de sistema no se renombran", domain.ErrInvalidInput)
		}
		role.Name = *in.Name
	}
	if in.Permissions != nil {
		role.Permissions = *in.Permissions
	}
	role.ModFlag = in.ModFlag
	role.UpdatedAt = time.Now()
	if err := uc.repos.Roles.Update(ctx, role); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{
		CompanyID: companyID, UserID: actorID, Entity: "role", EntityID: id,
		Action: entity.AuditUpdate, ModFlag: role.ModFlag,
	})
	return toRoleResponse(role), nil
}

// DeleteRole borrado lógico de un rol propio (los de sistema no se eliminan).
func (uc *AuthUseCase) DeleteRole(ctx context.Context, companyID, actorID, id string, modFlag int) error {
	role, err := uc.repos.Roles.GetByID(ctx, companyID, id)
	if err != nil {
		return err
	}
	if role == nil {
		return domain.ErrNotFound
	}
	if role.IsSystem {
		return fmt.Errorf("%w: los roles de sistema no se eliminan", domain.ErrForbidden)
	}
	if err := uc.repos.Roles.Delete(ctx, companyID, id, modFlag); err != nil {
		return err
	}
	uc.audit.Record(ctx, ports.AuditRecord{
		CompanyID: companyID, UserID: actorID, Entity: "role", EntityID: id,
		Action: entity.AuditDelete, ModFlag: modFlag + 1,
	})
	return nil
}

func toRoleResponse(r *entity.Role) *dto.RoleResponse {
	return &dto.RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Permissions: r.Permissions,
		IsSystem:    r.IsSystem,
		ModFlag:     r.ModFlag,
		UpdatedAt:   r.UpdatedAt,
	}
}
