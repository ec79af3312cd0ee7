package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo.
// El costo no vive en el producto: cada lote (ProductBatch) tiene el suyo y se consume por FIFO.
type Product struct {
	ID           string
	CompanyID    string
	SKU          string // código único por empresa
	Barcode      string
	Name         string
	Description  string
	CategoryID   string
	BrandID      string
	UnitID       string
	Price        decimal.Decimal // precio de venta por defecto
	TaxRate      decimal.Decimal // porcentaje 0..100
	ReorderPoint decimal.Decimal
	ModFlag      int
	DelFlag      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	CompanyID  string
	CategoryID string
	BrandID    string
	Search     string // coincide con nombre, sku o código de barras
	Limit      int
	Offset     int
}
