package repository

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// ShipmentRepository define el puerto de persistencia de envíos.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *entity.Shipment) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Shipment, error)
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Shipment, error)
	List(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.Shipment, error)
	// Update persiste estado y eventos; compara mod_flag.
	Update(ctx context.Context, shipment *entity.Shipment) error
}
