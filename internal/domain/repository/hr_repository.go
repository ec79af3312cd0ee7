package repository

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// EmployeeRepository define el puerto de persistencia de empleados.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *entity.Employee) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Employee, error)
	ListByCompany(ctx context.Context, companyID string, activeOnly bool, limit, offset int) ([]*entity.Employee, error)
	Update(ctx context.Context, employee *entity.Employee) error
	Delete(ctx context.Context, companyID, id string, modFlag int) error
}

// PayrollRepository define el puerto de persistencia de liquidaciones de nómina.
type PayrollRepository interface {
	// Create devuelve domain.ErrDuplicate si ya existe una liquidación del período.
	Create(ctx context.Context, run *entity.PayrollRun) error
	GetByID(ctx context.Context, companyID, id string) (*entity.PayrollRun, error)
	GetByPeriod(ctx context.Context, companyID, period string) (*entity.PayrollRun, error)
	List(ctx context.Context, companyID string, limit, offset int) ([]*entity.PayrollRun, error)
}
