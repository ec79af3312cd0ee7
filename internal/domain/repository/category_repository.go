package repository

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// Convención de los repositorios con del_flag/mod_flag:
//   - los Get y List ignoran registros con del_flag = true;
//   - Update y Delete reciben el mod_flag leído por el cliente y fallan con
//     domain.ErrConflict si el registro cambió; al actualizar, mod_flag se incrementa
//     y se refleja en la entidad recibida.

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Category, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, companyID, id string, modFlag int) error
}

// BrandRepository define el puerto de persistencia para Brand.
type BrandRepository interface {
	Create(ctx context.Context, brand *entity.Brand) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Brand, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Brand, error)
	Update(ctx context.Context, brand *entity.Brand) error
	Delete(ctx context.Context, companyID, id string, modFlag int) error
}

// UnitRepository define el puerto de persistencia para Unit.
type UnitRepository interface {
	Create(ctx context.Context, unit *entity.Unit) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Unit, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Unit, error)
	Update(ctx context.Context, unit *entity.Unit) error
	Delete(ctx context.Context, companyID, id string, modFlag int) error
}
