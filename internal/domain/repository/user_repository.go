package repository

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, companyID, id string) (*entity.User, error)
	// GetByEmail busca en todas las empresas: el email es único a nivel global (login).
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.User, error)
}

// RoleRepository persiste roles y sus banderas de permiso.
// Update y Delete comparan mod_flag: si no coincide devuelven domain.ErrConflict.
type RoleRepository interface {
	Create(ctx context.Context, role *entity.Role) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Role, error)
	GetByName(ctx context.Context, companyID, name string) (*entity.Role, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Role, error)
	Update(ctx context.Context, role *entity.Role) error
	Delete(ctx context.Context, companyID, id string, modFlag int) error
}
