package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ReceiveInput datos de un lote nuevo.
type ReceiveInput struct {
	CompanyID       string
	UserID          string
	ProductID       string
	BatchNumber     string
	PurchaseOrderID string
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	SellingPrice    decimal.Decimal
	ReceivedAt      time.Time
	ExpiresAt       *time.Time
	MovementType    string // IN, PURCHASE o ADJUSTMENT
	Reference       string
}

// ReceiveInTx crea el lote y su movimiento de entrada usando los repositorios de la
// transacción del caller (recepción manual, orden de compra o ajuste positivo).
func ReceiveInTx(ctx context.Context, r ports.Repos, in ReceiveInput) (*entity.ProductBatch, error) {
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if in.UnitCost.IsNegative() || in.SellingPrice.IsNegative() {
		return nil, fmt.Errorf("%w: costo y precio no pueden ser negativos", domain.ErrInvalidInput)
	}
	now := time.Now()
	if in.ReceivedAt.IsZero() {
		in.ReceivedAt = now
	}
	batch := &entity.ProductBatch{
		ID:                uuid.New().String(),
		CompanyID:         in.CompanyID,
		ProductID:         in.ProductID,
		BatchNumber:       in.BatchNumber,
		PurchaseOrderID:   in.PurchaseOrderID,
		ReceivedAt:        in.ReceivedAt,
		ExpiresAt:         in.ExpiresAt,
		QuantityReceived:  in.Quantity,
		QuantityRemaining: in.Quantity,
		UnitCost:          in.UnitCost,
		SellingPrice:      in.SellingPrice,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if batch.BatchNumber == "" {
		batch.BatchNumber = batch.ID[:8]
	}
	if err := r.Batches.Create(ctx, batch); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		CompanyID: in.CompanyID,
		ProductID: in.ProductID,
		BatchID:   batch.ID,
		Type:      in.MovementType,
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
		Reference: in.Reference,
		CreatedBy: in.UserID,
		CreatedAt: in.ReceivedAt,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return batch, nil
}

// ConsumeInput salida de stock por FIFO.
type ConsumeInput struct {
	CompanyID    string
	UserID       string
	ProductID    string
	Quantity     decimal.Decimal
	MovementType string // SALE o ADJUSTMENT
	Reference    string
	At           time.Time
}

// ConsumeInTx bloquea los lotes abiertos del producto (SELECT FOR UPDATE en orden FIFO),
// asigna la cantidad del más antiguo al más nuevo, descuenta el remanente de cada lote
// tocado y registra un movimiento negativo por asignación. Debe ejecutarse dentro de
// TxRunner.Run; si falla, el caller revierte la transacción completa.
func ConsumeInTx(ctx context.Context, r ports.Repos, in ConsumeInput) ([]entity.BatchAllocation, error) {
	lots, err := r.Batches.LockOpenByProduct(ctx, in.CompanyID, in.ProductID)
	if err != nil {
		return nil, err
	}
	allocs, err := inventory.AllocateFIFO(lots, in.Quantity)
	if err != nil {
		return nil, fmt.Errorf("producto %s: %w", in.ProductID, err)
	}
	if in.At.IsZero() {
		in.At = time.Now()
	}
	if err := persistLots(ctx, r, lots, allocs, in.At); err != nil {
		return nil, err
	}
	for _, a := range allocs {
		if err := r.Movements.Create(ctx, &entity.StockMovement{
			ID:        uuid.New().String(),
			CompanyID: in.CompanyID,
			ProductID: in.ProductID,
			BatchID:   a.BatchID,
			Type:      in.MovementType,
			Quantity:  a.Quantity.Neg(),
			UnitCost:  a.UnitCost,
			Reference: in.Reference,
			CreatedBy: in.UserID,
			CreatedAt: in.At,
		}); err != nil {
			return nil, err
		}
	}
	return allocs, nil
}

// RestoreInput devolución de asignaciones a sus lotes de origen.
type RestoreInput struct {
	CompanyID   string
	UserID      string
	ProductID   string
	Allocations []entity.BatchAllocation
	Reference   string
	At          time.Time
}

// RestoreInTx devuelve cada asignación exactamente al lote del que salió y registra
// movimientos VOID. Los lotes se bloquean en orden de id.
func RestoreInTx(ctx context.Context, r ports.Repos, in RestoreInput) error {
	if len(in.Allocations) == 0 {
		return nil
	}
	ids := make([]string, 0, len(in.Allocations))
	seen := map[string]bool{}
	for _, a := range in.Allocations {
		if !seen[a.BatchID] {
			seen[a.BatchID] = true
			ids = append(ids, a.BatchID)
		}
	}
	lots, err := r.Batches.LockByIDs(ctx, in.CompanyID, ids)
	if err != nil {
		return err
	}
	if err := inventory.Restore(lots, in.Allocations); err != nil {
		return err
	}
	if in.At.IsZero() {
		in.At = time.Now()
	}
	if err := persistLots(ctx, r, lots, in.Allocations, in.At); err != nil {
		return err
	}
	for _, a := range in.Allocations {
		if err := r.Movements.Create(ctx, &entity.StockMovement{
			ID:        uuid.New().String(),
			CompanyID: in.CompanyID,
			ProductID: in.ProductID,
			BatchID:   a.BatchID,
			Type:      entity.MovementVoid,
			Quantity:  a.Quantity,
			UnitCost:  a.UnitCost,
			Reference: in.Reference,
			CreatedBy: in.UserID,
			CreatedAt: in.At,
		}); err != nil {
			return err
		}
	}
	return nil
}

// persistLots guarda el remanente de los lotes referenciados por las asignaciones.
func persistLots(ctx context.Context, r ports.Repos, lots []entity.ProductBatch, allocs []entity.BatchAllocation, at time.Time) error {
	touched := make(map[string]bool, len(allocs))
	for _, a := range allocs {
		touched[a.BatchID] = true
	}
	for i := range lots {
		if !touched[lots[i].ID] {
			continue
		}
		lots[i].UpdatedAt = at
		if err := r.Batches.UpdateRemaining(ctx, &lots[i]); err != nil {
			return err
		}
	}
	return nil
}
