package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	POStatusDraft     = "draft"
	POStatusOrdered   = "ordered"
	POStatusReceived  = "received"
	POStatusCancelled = "cancelled"
)

// Estados de pago hacia el proveedor.
const (
	PaymentUnpaid  = "unpaid"
	PaymentPartial = "partial"
	PaymentPaid    = "paid"
)

// PurchaseOrder cabecera de una orden de compra a proveedor.
type PurchaseOrder struct {
	ID            string
	CompanyID     string
	SupplierID    string
	Number        string
	Status        string
	OrderDate     time.Time
	ExpectedDate  *time.Time
	ReceivedAt    *time.Time
	Items         []PurchaseOrderItem
	Total         decimal.Decimal
	PaidAmount    decimal.Decimal
	PaymentStatus string
	Notes         string
	CreatedBy     string
	ModFlag       int
	DelFlag       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PurchaseOrderItem línea de la orden; al recibirse genera un ProductBatch.
type PurchaseOrderItem struct {
	ID              string
	PurchaseOrderID string
	ProductID       string
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	SellingPrice    decimal.Decimal
	BatchNumber     string
	ExpiresAt       *time.Time
}

// Subtotal cantidad × costo unitario.
func (i PurchaseOrderItem) Subtotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitCost)
}

// Balance saldo pendiente con el proveedor.
func (po *PurchaseOrder) Balance() decimal.Decimal {
	return po.Total.Sub(po.PaidAmount)
}

// PaymentStatusFor calcula el estado de pago para un monto pagado sobre un total.
func PaymentStatusFor(total, paid decimal.Decimal) string {
	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		return PaymentUnpaid
	case paid.GreaterThanOrEqual(total):
		return PaymentPaid
	default:
		return PaymentPartial
	}
}

// SupplierPayment pago registrado contra una orden de compra.
type SupplierPayment struct {
	ID              string
	CompanyID       string
	PurchaseOrderID string
	Amount          decimal.Decimal
	PaidAt          time.Time
	Reference       string
	CreatedBy       string
	CreatedAt       time.Time
}
