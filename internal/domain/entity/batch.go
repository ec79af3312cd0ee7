package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductBatch es un lote recibido de inventario con su propio costo unitario,
// precio de venta y cantidad remanente. Los lotes se consumen del más antiguo al más nuevo.
type ProductBatch struct {
	ID                string
	CompanyID         string
	ProductID         string
	BatchNumber       string
	PurchaseOrderID   string // vacío si el lote no viene de una orden de compra
	ReceivedAt        time.Time
	ExpiresAt         *time.Time
	QuantityReceived  decimal.Decimal
	QuantityRemaining decimal.Decimal
	UnitCost          decimal.Decimal
	SellingPrice      decimal.Decimal
	ModFlag           int
	DelFlag           bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsOpen indica si el lote todavía tiene unidades disponibles.
func (b *ProductBatch) IsOpen() bool {
	return !b.DelFlag && b.QuantityRemaining.GreaterThan(decimal.Zero)
}

// Tipos de movimiento de stock.
const (
	MovementIN         = "IN"         // recepción manual
	MovementPurchase   = "PURCHASE"   // recepción de orden de compra
	MovementSale       = "SALE"       // consumo por venta
	MovementAdjustment = "ADJUSTMENT" // ajuste positivo o negativo
	MovementVoid       = "VOID"       // devolución al lote por anulación de venta
)

// StockMovement registra cada cambio en la cantidad de un lote.
type StockMovement struct {
	ID        string
	CompanyID string
	ProductID string
	BatchID   string
	Type      string
	Quantity  decimal.Decimal // positivo entrada, negativo salida
	UnitCost  decimal.Decimal
	Reference string // id de venta, orden de compra o motivo del ajuste
	CreatedBy string
	CreatedAt time.Time
}

// BatchAllocation es la porción de un lote consumida por una línea de venta o ajuste.
type BatchAllocation struct {
	BatchID  string
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// Cost devuelve cantidad × costo unitario de la asignación.
func (a BatchAllocation) Cost() decimal.Decimal {
	return a.Quantity.Mul(a.UnitCost)
}
