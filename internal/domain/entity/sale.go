package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de venta.
const (
	SaleStatusCompleted = "completed"
	SaleStatusVoided    = "voided"
)

// Medios de pago.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
	PaymentCredit   = "credit" // venta a crédito: genera cuenta por cobrar
)

// IsValidPaymentMethod indica si el medio de pago es conocido.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentCredit:
		return true
	}
	return false
}

// Sale cabecera de una venta de punto de venta.
type Sale struct {
	ID             string
	CompanyID      string
	Number         string
	CustomerID     string // vacío = cliente de mostrador
	CashierID      string
	SoldAt         time.Time
	IdempotencyKey string
	Items          []SaleItem
	Subtotal       decimal.Decimal // Σ cantidad × precio, antes de descuentos
	DiscountTotal  decimal.Decimal
	TaxTotal       decimal.Decimal
	Total          decimal.Decimal // subtotal − descuentos + impuestos
	COGSTotal      decimal.Decimal
	PaidAmount     decimal.Decimal
	Change         decimal.Decimal
	PaymentMethod  string
	Status         string
	VoidReason     string
	VoidedAt       *time.Time
	VoidedBy       string
	ModFlag        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NetRevenue ingreso neto de la venta (sin impuestos ni descuentos).
func (s *Sale) NetRevenue() decimal.Decimal {
	return s.Subtotal.Sub(s.DiscountTotal)
}

// Receivable saldo pendiente de cobro (ventas a crédito o pagos parciales).
func (s *Sale) Receivable() decimal.Decimal {
	collected := s.PaidAmount.Sub(s.Change)
	if collected.GreaterThanOrEqual(s.Total) {
		return decimal.Zero
	}
	return s.Total.Sub(collected)
}

// SaleItem línea de venta con el costo FIFO calculado al momento de vender.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal // monto de descuento de la línea
	TaxRate     decimal.Decimal // porcentaje 0..100
	Subtotal    decimal.Decimal // cantidad × precio − descuento
	Tax         decimal.Decimal
	COGS        decimal.Decimal
	Allocations []BatchAllocation
}

// SaleFilter filtros del listado de ventas.
type SaleFilter struct {
	CompanyID string
	CashierID string
	Status    string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}
