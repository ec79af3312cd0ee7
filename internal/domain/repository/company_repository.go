package repository

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByTaxID(ctx context.Context, taxID string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
}

// ModuleRepository persiste la activación de módulos SaaS por empresa.
type ModuleRepository interface {
	// Upsert crea o reemplaza la activación (company_id, module_name).
	Upsert(ctx context.Context, module *entity.CompanyModule) error
	Get(ctx context.Context, companyID, moduleName string) (*entity.CompanyModule, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.CompanyModule, error)
}
