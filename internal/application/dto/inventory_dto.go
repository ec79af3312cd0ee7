package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveBatchRequest recepción manual de un lote.
type ReceiveBatchRequest struct {
	ProductID    string           `json:"product_id" validate:"required,uuid"`
	BatchNumber  string           `json:"batch_number" validate:"max=100"`
	Quantity     decimal.Decimal  `json:"quantity"`
	UnitCost     decimal.Decimal  `json:"unit_cost"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	ReceivedAt   *time.Time       `json:"received_at"`
	ExpiresAt    *time.Time       `json:"expires_at"`
}

// AdjustStockRequest ajuste de stock: positivo crea un lote al costo dado,
// negativo consume FIFO.
type AdjustStockRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost"`
	Reason    string           `json:"reason" validate:"required,min=3,max=300"`
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	BatchNumber       string          `json:"batch_number"`
	PurchaseOrderID   string          `json:"purchase_order_id,omitempty"`
	ReceivedAt        time.Time       `json:"received_at"`
	ExpiresAt         *time.Time      `json:"expires_at,omitempty"`
	QuantityReceived  decimal.Decimal `json:"quantity_received"`
	QuantityRemaining decimal.Decimal `json:"quantity_remaining"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	ModFlag           int             `json:"mod_flag"`
}

// AllocationResponse porción de lote consumida.
type AllocationResponse struct {
	BatchID  string          `json:"batch_id"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// AdjustStockResponse resultado de un ajuste.
type AdjustStockResponse struct {
	ProductID   string               `json:"product_id"`
	Quantity    decimal.Decimal      `json:"quantity"`
	Cost        decimal.Decimal      `json:"cost"`
	Batch       *BatchResponse       `json:"batch,omitempty"`
	Allocations []AllocationResponse `json:"allocations,omitempty"`
}

// StockSummaryResponse existencias de un producto valorizadas por FIFO.
type StockSummaryResponse struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Value       decimal.Decimal `json:"value"`
	AverageCost decimal.Decimal `json:"average_cost"`
	Batches     []BatchResponse `json:"batches"`
}

// LowStockItem producto en o por debajo del punto de reorden.
type LowStockItem struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
}

// MovementResponse salida de un movimiento de stock.
type MovementResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	BatchID   string          `json:"batch_id"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Reference string          `json:"reference"`
	CreatedBy string          `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
}
