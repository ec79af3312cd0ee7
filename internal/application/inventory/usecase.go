// Package inventory orquesta los lotes de inventario: recepción, ajustes, consultas
// de existencias y el consumo FIFO transaccional que usan ventas y compras.
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/inventory"
)

// UseCase casos de uso de inventario por lotes.
type UseCase struct {
	tx    ports.TxRunner
	repos ports.Repos
	audit ports.AuditLogger
	now   func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner, repos ports.Repos, audit ports.AuditLogger) *UseCase {
	return &UseCase{tx: tx, repos: repos, audit: audit, now: time.Now}
}

func (uc *UseCase) product(ctx context.Context, companyID, productID string) (*entity.Product, error) {
	p, err := uc.repos.Products.GetByID(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// ReceiveBatch recepción manual de un lote (movimiento IN). Sin precio de venta se
// usa el precio del producto.
func (uc *UseCase) ReceiveBatch(ctx context.Context, companyID, userID string, in dto.ReceiveBatchRequest) (*dto.BatchResponse, error) {
	p, err := uc.product(ctx, companyID, in.ProductID)
	if err != nil {
		return nil, err
	}
	price := p.Price
	if in.SellingPrice != nil {
		price = *in.SellingPrice
	}
	receivedAt := uc.now()
	if in.ReceivedAt != nil {
		receivedAt = *in.ReceivedAt
	}
	if in.ExpiresAt != nil && in.ExpiresAt.Before(receivedAt) {
		return nil, fmt.Errorf("%w: expires_at anterior a received_at", domain.ErrInvalidInput)
	}
	var batch *entity.ProductBatch
	err = uc.tx.Run(ctx, func(r ports.Repos) error {
		var err error
		batch, err = ReceiveInTx(ctx, r, ReceiveInput{
			CompanyID:    companyID,
			UserID:       userID,
			ProductID:    p.ID,
			BatchNumber:  in.BatchNumber,
			Quantity:     in.Quantity,
			UnitCost:     in.UnitCost,
			SellingPrice: price,
			ReceivedAt:   receivedAt,
			ExpiresAt:    in.ExpiresAt,
			MovementType: entity.MovementIN,
			Reference:    "manual",
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{
		CompanyID: companyID, UserID: userID, Entity: "batch", EntityID: batch.ID, Action: entity.AuditReceive,
		Details: map[string]string{"product_id": p.ID, "quantity": in.Quantity.String(), "unit_cost": in.UnitCost.String()},
	})
	return ToBatchResponse(batch), nil
}

// ListBatches lotes del producto en orden FIFO; openOnly filtra los agotados.
func (uc *UseCase) ListBatches(ctx context.Context, companyID, productID string, openOnly bool) ([]dto.BatchResponse, error) {
	if _, err := uc.product(ctx, companyID, productID); err != nil {
		return nil, err
	}
	lots, err := uc.repos.Batches.ListByProduct(ctx, companyID, productID, openOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(lots))
	for i := range lots {
		out = append(out, *ToBatchResponse(&lots[i]))
	}
	return out, nil
}

// AdjustStock ajuste de inventario: cantidad positiva crea un lote al costo indicado;
// negativa consume FIFO y registra movimientos ADJUSTMENT con el motivo como referencia.
func (uc *UseCase) AdjustStock(ctx context.Context, companyID, userID string, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	p, err := uc.product(ctx, companyID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if in.Quantity.IsZero() {
		return nil, fmt.Errorf("%w: la cantidad no puede ser cero", domain.ErrInvalidInput)
	}
	out := &dto.AdjustStockResponse{ProductID: p.ID, Quantity: in.Quantity}
	now := uc.now()

	err = uc.tx.Run(ctx, func(r ports.Repos) error {
		if in.Quantity.IsPositive() {
			if in.UnitCost == nil {
				return fmt.Errorf("%w: unit_cost es obligatorio en ajustes positivos", domain.ErrInvalidInput)
			}
			batch, err := ReceiveInTx(ctx, r, ReceiveInput{
				CompanyID:    companyID,
				UserID:       userID,
				ProductID:    p.ID,
				Quantity:     in.Quantity,
				UnitCost:     *in.UnitCost,
				SellingPrice: p.Price,
				ReceivedAt:   now,
				MovementType: entity.MovementAdjustment,
				Reference:    in.Reason,
			})
			if err != nil {
				return err
			}
			out.Batch = ToBatchResponse(batch)
			out.Cost = batch.QuantityReceived.Mul(batch.UnitCost)
			return nil
		}
		allocs, err := ConsumeInTx(ctx, r, ConsumeInput{
			CompanyID:    companyID,
			UserID:       userID,
			ProductID:    p.ID,
			Quantity:     in.Quantity.Neg(),
			MovementType: entity.MovementAdjustment,
			Reference:    in.Reason,
			At:           now,
		})
		if err != nil {
			return err
		}
		out.Allocations = ToAllocationResponses(allocs)
		out.Cost = inventory.TotalCost(allocs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{
		CompanyID: companyID, UserID: userID, Entity: "product", EntityID: p.ID, Action: entity.AuditUpdate,
		Details: map[string]string{"adjustment": in.Quantity.String(), "reason": in.Reason},
	})
	return out, nil
}

// GetStockSummary existencias, valor FIFO y costo promedio ponderado del producto.
func (uc *UseCase) GetStockSummary(ctx context.Context, companyID, productID string) (*dto.StockSummaryResponse, error) {
	p, err := uc.product(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	lots, err := uc.repos.Batches.ListByProduct(ctx, companyID, productID, true)
	if err != nil {
		return nil, err
	}
	s := inventory.Valuation(lots)
	batches := make([]dto.BatchResponse, 0, len(lots))
	for i := range lots {
		batches = append(batches, *ToBatchResponse(&lots[i]))
	}
	return &dto.StockSummaryResponse{
		ProductID:   p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Quantity:    s.Quantity,
		Value:       s.Value,
		AverageCost: s.WeightedAverageCost().Round(4),
		Batches:     batches,
	}, nil
}

// LowStock productos con existencias en o por debajo del punto de reorden.
func (uc *UseCase) LowStock(ctx context.Context, companyID string) ([]dto.LowStockItem, error) {
	levels, err := uc.repos.Reports.StockLevels(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := []dto.LowStockItem{}
	for _, l := range levels {
		if l.IsLow() {
			out = append(out, dto.LowStockItem{
				ProductID: l.ProductID, SKU: l.SKU, Name: l.Name,
				Quantity: l.Quantity, ReorderPoint: l.ReorderPoint,
			})
		}
	}
	return out, nil
}

// ExpiringBatches lotes abiertos que vencen dentro de los próximos days días
// (incluye los ya vencidos).
func (uc *UseCase) ExpiringBatches(ctx context.Context, companyID string, days int) ([]dto.BatchResponse, error) {
	if days < 0 {
		return nil, domain.ErrInvalidInput
	}
	lots, err := uc.repos.Batches.ListExpiring(ctx, companyID, uc.now().AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(lots))
	for i := range lots {
		out = append(out, *ToBatchResponse(&lots[i]))
	}
	return out, nil
}

// ListMovements kardex del producto, más reciente primero.
func (uc *UseCase) ListMovements(ctx context.Context, companyID, productID string, page dto.PageRequest) ([]dto.MovementResponse, error) {
	if _, err := uc.product(ctx, companyID, productID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repos.Movements.ListByProduct(ctx, companyID, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementResponse{
			ID: m.ID, ProductID: m.ProductID, BatchID: m.BatchID, Type: m.Type,
			Quantity: m.Quantity, UnitCost: m.UnitCost, Reference: m.Reference,
			CreatedBy: m.CreatedBy, CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

// ToBatchResponse convierte un lote en su DTO.
func ToBatchResponse(b *entity.ProductBatch) *dto.BatchResponse {
	return &dto.BatchResponse{
		ID:                b.ID,
		ProductID:         b.ProductID,
		BatchNumber:       b.BatchNumber,
		PurchaseOrderID:   b.PurchaseOrderID,
		ReceivedAt:        b.ReceivedAt,
		ExpiresAt:         b.ExpiresAt,
		QuantityReceived:  b.QuantityReceived,
		QuantityRemaining: b.QuantityRemaining,
		UnitCost:          b.UnitCost,
		SellingPrice:      b.SellingPrice,
		ModFlag:           b.ModFlag,
	}
}

// ToAllocationResponses convierte asignaciones FIFO en DTOs.
func ToAllocationResponses(allocs []entity.BatchAllocation) []dto.AllocationResponse {
	out := make([]dto.AllocationResponse, 0, len(allocs))
	for _, a := range allocs {
		out = append(out, dto.AllocationResponse{BatchID: a.BatchID, Quantity: a.Quantity, UnitCost: a.UnitCost})
	}
	return out
}
