package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRequest alta o modificación de cliente.
type CustomerRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	TaxID   string `json:"tax_id" validate:"max=50"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=50"`
	ModFlag int    `json:"mod_flag" validate:"min=0"`
}

// CustomerResponse salida de cliente.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	ModFlag   int       `json:"mod_flag"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CheckoutItemRequest línea del carrito. Sin unit_price se usa el precio del producto.
type CheckoutItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal  `json:"discount"`
}

// CheckoutRequest cobro de una venta.
type CheckoutRequest struct {
	IdempotencyKey string                `json:"idempotency_key" validate:"required,min=8,max=100"`
	CustomerID     string                `json:"customer_id" validate:"omitempty,uuid"`
	PaymentMethod  string                `json:"payment_method" validate:"required,oneof=cash card transfer credit"`
	PaidAmount     decimal.Decimal       `json:"paid_amount"`
	Items          []CheckoutItemRequest `json:"items" validate:"required,min=1,dive"`
}

// VoidSaleRequest anulación de venta.
type VoidSaleRequest struct {
	Reason  string `json:"reason" validate:"required,min=3,max=300"`
	ModFlag int    `json:"mod_flag" validate:"min=0"`
}

// SaleItemResponse salida de línea de venta.
type SaleItemResponse struct {
	ProductID   string               `json:"product_id"`
	Quantity    decimal.Decimal      `json:"quantity"`
	UnitPrice   decimal.Decimal      `json:"unit_price"`
	Discount    decimal.Decimal      `json:"discount"`
	TaxRate     decimal.Decimal      `json:"tax_rate"`
	Subtotal    decimal.Decimal      `json:"subtotal"`
	Tax         decimal.Decimal      `json:"tax"`
	COGS        decimal.Decimal      `json:"cogs"`
	Allocations []AllocationResponse `json:"allocations"`
}

// SaleResponse salida de venta.
type SaleResponse struct {
	ID            string             `json:"id"`
	Number        string             `json:"number"`
	CustomerID    string             `json:"customer_id,omitempty"`
	CashierID     string             `json:"cashier_id"`
	SoldAt        time.Time          `json:"sold_at"`
	Items         []SaleItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	DiscountTotal decimal.Decimal    `json:"discount_total"`
	TaxTotal      decimal.Decimal    `json:"tax_total"`
	Total         decimal.Decimal    `json:"total"`
	COGSTotal     decimal.Decimal    `json:"cogs_total"`
	PaidAmount    decimal.Decimal    `json:"paid_amount"`
	Change        decimal.Decimal    `json:"change"`
	Receivable    decimal.Decimal    `json:"receivable"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	VoidReason    string             `json:"void_reason,omitempty"`
	VoidedAt      *time.Time         `json:"voided_at,omitempty"`
	ModFlag       int                `json:"mod_flag"`
	Replayed      bool               `json:"replayed"`
}

// SaleListQuery filtros del listado de ventas.
type SaleListQuery struct {
	PageRequest
	DateRange
	CashierID string `query:"cashier_id" validate:"omitempty,uuid"`
	Status    string `query:"status" validate:"omitempty,oneof=completed voided"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
