package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU          string          `json:"sku" validate:"required,min=1,max=100"`
	Barcode      string          `json:"barcode" validate:"max=100"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description"`
	CategoryID   string          `json:"category_id" validate:"omitempty,uuid"`
	BrandID      string          `json:"brand_id" validate:"omitempty,uuid"`
	UnitID       string          `json:"unit_id" validate:"omitempty,uuid"`
	Price        decimal.Decimal `json:"price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
}

// UpdateProductRequest entrada para actualizar un producto; mod_flag es el valor leído.
type UpdateProductRequest struct {
	SKU          *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	Barcode      *string          `json:"barcode" validate:"omitempty,max=100"`
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description"`
	CategoryID   *string          `json:"category_id" validate:"omitempty,uuid"`
	BrandID      *string          `json:"brand_id" validate:"omitempty,uuid"`
	UnitID       *string          `json:"unit_id" validate:"omitempty,uuid"`
	Price        *decimal.Decimal `json:"price"`
	TaxRate      *decimal.Decimal `json:"tax_rate"`
	ReorderPoint *decimal.Decimal `json:"reorder_point"`
	ModFlag      int              `json:"mod_flag" validate:"min=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"company_id"`
	SKU          string          `json:"sku"`
	Barcode      string          `json:"barcode"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	CategoryID   string          `json:"category_id,omitempty"`
	BrandID      string          `json:"brand_id,omitempty"`
	UnitID       string          `json:"unit_id,omitempty"`
	Price        decimal.Decimal `json:"price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	ModFlag      int             `json:"mod_flag"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductListQuery filtros del listado de productos.
type ProductListQuery struct {
	PageRequest
	CategoryID string `query:"category_id" validate:"omitempty,uuid"`
	BrandID    string `query:"brand_id" validate:"omitempty,uuid"`
	Search     string `query:"q" validate:"max=100"`
}
