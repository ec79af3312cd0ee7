package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia de lotes (ProductBatch).
// Los métodos Lock* deben usarse dentro de una transacción (SELECT ... FOR UPDATE).
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.ProductBatch) error
	GetByID(ctx context.Context, companyID, id string) (*entity.ProductBatch, error)
	// ListByProduct devuelve los lotes en orden FIFO; openOnly filtra remanente > 0.
	ListByProduct(ctx context.Context, companyID, productID string, openOnly bool) ([]entity.ProductBatch, error)
	// LockOpenByProduct bloquea los lotes abiertos del producto en orden FIFO.
	LockOpenByProduct(ctx context.Context, companyID, productID string) ([]entity.ProductBatch, error)
	// LockByIDs bloquea los lotes indicados (anulaciones), ordenados por id.
	LockByIDs(ctx context.Context, companyID string, ids []string) ([]entity.ProductBatch, error)
	// UpdateRemaining persiste quantity_remaining e incrementa mod_flag.
	UpdateRemaining(ctx context.Context, batch *entity.ProductBatch) error
	// ListExpiring lotes abiertos con vencimiento anterior o igual a before.
	ListExpiring(ctx context.Context, companyID string, before time.Time) ([]entity.ProductBatch, error)
}

// MovementRepository define el puerto de persistencia para movimientos de stock (DIP).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, companyID, productID string, limit, offset int) ([]*entity.StockMovement, error)
}
