package repository

import (
	"context"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia de órdenes de compra.
type PurchaseOrderRepository interface {
	// Create persiste cabecera e ítems.
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	// GetByID devuelve la orden con sus ítems.
	GetByID(ctx context.Context, companyID, id string) (*entity.PurchaseOrder, error)
	// GetForUpdate bloquea la cabecera (uso transaccional) y carga los ítems.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.PurchaseOrder, error)
	List(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.PurchaseOrder, error)
	// Update persiste estado, pagos y fechas; compara mod_flag.
	Update(ctx context.Context, po *entity.PurchaseOrder) error
	CreatePayment(ctx context.Context, payment *entity.SupplierPayment) error
	ListPayments(ctx context.Context, companyID, purchaseOrderID string) ([]*entity.SupplierPayment, error)
}

// SequenceRepository entrega consecutivos por empresa y tipo de documento (PO, venta).
type SequenceRepository interface {
	Next(ctx context.Context, companyID, kind string) (int64, error)
}
