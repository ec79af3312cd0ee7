package entity

import "time"

// Customer representa un cliente de la empresa. Las ventas sin cliente son de mostrador.
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	ModFlag   int
	DelFlag   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Supplier representa un proveedor.
type Supplier struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	Address   string
	ModFlag   int
	DelFlag   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
