// Package inventory contiene la valorización de inventario por lotes (FIFO) como
// servicio de dominio puro: sin base de datos, sin reloj, sin efectos secundarios.
package inventory

import (
	"fmt"
	"sort"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SortFIFO ordena los lotes del más antiguo al más nuevo: received_at, created_at, id.
func SortFIFO(lots []entity.ProductBatch) {
	sort.SliceStable(lots, func(i, j int) bool {
		a, b := lots[i], lots[j]
		if !a.ReceivedAt.Equal(b.ReceivedAt) {
			return a.ReceivedAt.Before(b.ReceivedAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// Available suma la cantidad remanente de los lotes abiertos.
func Available(lots []entity.ProductBatch) decimal.Decimal {
	total := decimal.Zero
	for i := range lots {
		if lots[i].IsOpen() {
			total = total.Add(lots[i].QuantityRemaining)
		}
	}
	return total
}

// AllocateFIFO consume qty de los lotes en orden FIFO y descuenta QuantityRemaining
// en el slice recibido. Si no hay stock suficiente no modifica ningún lote.
func AllocateFIFO(lots []entity.ProductBatch, qty decimal.Decimal) ([]entity.BatchAllocation, error) {
	if qty.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	SortFIFO(lots)
	if avail := Available(lots); avail.LessThan(qty) {
		return nil, fmt.Errorf("%w: disponible %s, solicitado %s", domain.ErrInsufficientStock, avail.String(), qty.String())
	}

	needed := qty
	var out []entity.BatchAllocation
	for i := range lots {
		if needed.IsZero() {
			break
		}
		if !lots[i].IsOpen() {
			continue
		}
		take := decimal.Min(lots[i].QuantityRemaining, needed)
		lots[i].QuantityRemaining = lots[i].QuantityRemaining.Sub(take)
		needed = needed.Sub(take)
		out = append(out, entity.BatchAllocation{
			BatchID:  lots[i].ID,
			Quantity: take,
			UnitCost: lots[i].UnitCost,
		})
	}
	return out, nil
}

// TotalCost es el costo de ventas (COGS) de un conjunto de asignaciones.
func TotalCost(allocs []entity.BatchAllocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Cost())
	}
	return total
}

// TotalQuantity suma las cantidades asignadas.
func TotalQuantity(allocs []entity.BatchAllocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Quantity)
	}
	return total
}

// Restore devuelve a cada lote la cantidad asignada (anulación o devolución).
// Falla con ErrNotFound si alguna asignación referencia un lote ausente, o con
// ErrConflict si la devolución supera la cantidad recibida del lote.
func Restore(lots []entity.ProductBatch, allocs []entity.BatchAllocation) error {
	idx := make(map[string]int, len(lots))
	for i := range lots {
		idx[lots[i].ID] = i
	}
	for _, a := range allocs {
		i, ok := idx[a.BatchID]
		if !ok {
			return fmt.Errorf("%w: lote %s", domain.ErrNotFound, a.BatchID)
		}
		next := lots[i].QuantityRemaining.Add(a.Quantity)
		if next.GreaterThan(lots[i].QuantityReceived) {
			return fmt.Errorf("%w: el lote %s excedería la cantidad recibida", domain.ErrConflict, a.BatchID)
		}
		lots[i].QuantityRemaining = next
	}
	return nil
}

// Stock cantidad en existencia y su valor al costo.
type Stock struct {
	Quantity decimal.Decimal
	Value    decimal.Decimal
}

// WeightedAverageCost valor / cantidad; cero sin existencias.
func (s Stock) WeightedAverageCost() decimal.Decimal {
	if s.Quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return s.Value.Div(s.Quantity)
}

// Valuation calcula existencias y valor exacto FIFO: Σ remanente × costo del lote.
func Valuation(lots []entity.ProductBatch) Stock {
	s := Stock{Quantity: decimal.Zero, Value: decimal.Zero}
	for i := range lots {
		if !lots[i].IsOpen() {
			continue
		}
		s.Quantity = s.Quantity.Add(lots[i].QuantityRemaining)
		s.Value = s.Value.Add(lots[i].QuantityRemaining.Mul(lots[i].UnitCost))
	}
	return s
}

// WeightedAverageCost costo promedio ponderado de los lotes abiertos.
func WeightedAverageCost(lots []entity.ProductBatch) decimal.Decimal {
	return Valuation(lots).WeightedAverageCost()
}
