package entity

import "time"

// Category representa una categoría de productos (jerárquica opcional).
type Category struct {
	ID        string
	CompanyID string
	ParentID  string // vacío si es raíz
	Name      string
	Code      string // código único por empresa
	ModFlag   int
	DelFlag   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Brand representa una marca comercial.
type Brand struct {
	ID        string
	CompanyID string
	Name      string
	ModFlag   int
	DelFlag   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Unit representa una unidad de medida (unidad, caja, kg...).
type Unit struct {
	ID           string
	CompanyID    string
	Name         string
	Abbreviation string
	ModFlag      int
	DelFlag      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
