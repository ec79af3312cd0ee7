package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierRequest alta o modificación de proveedor (mod_flag se ignora al crear).
type SupplierRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	TaxID   string `json:"tax_id" validate:"max=50"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Address string `json:"address" validate:"max=300"`
	ModFlag int    `json:"mod_flag" validate:"min=0"`
}

// SupplierResponse salida de proveedor.
type SupplierResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	ModFlag   int       `json:"mod_flag"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PurchaseOrderItemRequest línea de orden de compra.
type PurchaseOrderItemRequest struct {
	ProductID    string           `json:"product_id" validate:"required,uuid"`
	Quantity     decimal.Decimal  `json:"quantity"`
	UnitCost     decimal.Decimal  `json:"unit_cost"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	BatchNumber  string           `json:"batch_number" validate:"max=100"`
	ExpiresAt    *time.Time       `json:"expires_at"`
}

// CreatePurchaseOrderRequest alta de orden de compra en borrador.
type CreatePurchaseOrderRequest struct {
	SupplierID   string                     `json:"supplier_id" validate:"required,uuid"`
	OrderDate    *time.Time                 `json:"order_date"`
	ExpectedDate *time.Time                 `json:"expected_date"`
	Notes        string                     `json:"notes" validate:"max=500"`
	Items        []PurchaseOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ModFlagRequest cuerpo de las transiciones que solo requieren el mod_flag leído.
type ModFlagRequest struct {
	ModFlag int `json:"mod_flag" validate:"min=0"`
}

// SupplierPaymentRequest pago a proveedor contra una orden.
type SupplierPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    *time.Time      `json:"paid_at"`
	Reference string          `json:"reference" validate:"max=100"`
}

// PurchaseOrderItemResponse salida de línea de orden.
type PurchaseOrderItemResponse struct {
	ProductID    string          `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	BatchNumber  string          `json:"batch_number,omitempty"`
	ExpiresAt    *time.Time      `json:"expires_at,omitempty"`
}

// PurchaseOrderResponse salida de orden de compra.
type PurchaseOrderResponse struct {
	ID            string                      `json:"id"`
	Number        string                      `json:"number"`
	SupplierID    string                      `json:"supplier_id"`
	Status        string                      `json:"status"`
	OrderDate     time.Time                   `json:"order_date"`
	ExpectedDate  *time.Time                  `json:"expected_date,omitempty"`
	ReceivedAt    *time.Time                  `json:"received_at,omitempty"`
	Items         []PurchaseOrderItemResponse `json:"items"`
	Total         decimal.Decimal             `json:"total"`
	PaidAmount    decimal.Decimal             `json:"paid_amount"`
	Balance       decimal.Decimal             `json:"balance"`
	PaymentStatus string                      `json:"payment_status"`
	Notes         string                      `json:"notes"`
	ModFlag       int                         `json:"mod_flag"`
	CreatedAt     time.Time                   `json:"created_at"`
}

// SupplierPaymentResponse salida de pago a proveedor.
type SupplierPaymentResponse struct {
	ID              string          `json:"id"`
	PurchaseOrderID string          `json:"purchase_order_id"`
	Amount          decimal.Decimal `json:"amount"`
	PaidAt          time.Time       `json:"paid_at"`
	Reference       string          `json:"reference"`
}
