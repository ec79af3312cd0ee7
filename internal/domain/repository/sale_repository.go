package repository

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia de ventas con sus líneas y asignaciones de lote.
type SaleRepository interface {
	// Create devuelve domain.ErrDuplicate si la clave de idempotencia ya existe para la empresa.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error)
	GetByIdempotencyKey(ctx context.Context, companyID, key string) (*entity.Sale, error)
	// GetForUpdate bloquea la venta (anulación) y carga líneas y asignaciones.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Sale, error)
	List(ctx context.Context, filter entity.SaleFilter) ([]*entity.Sale, error)
	// MarkVoided persiste estado, motivo y fecha de anulación; compara mod_flag.
	MarkVoided(ctx context.Context, sale *entity.Sale) error
}
