package entity

import "time"

// Company representa una organización/tenant del sistema (multi-tenant).
type Company struct {
	ID        string
	Name      string
	TaxID     string
	Address   string
	Phone     string
	Email     string
	Currency  string // ISO 4217, ej. "COP", "USD"
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Módulos SaaS disponibles (deben coincidir con el CHECK de la tabla company_modules).
const (
	ModuleInventory  = "inventory"
	ModulePOS        = "pos"
	ModulePurchasing = "purchasing"
	ModuleTransport  = "transport"
	ModuleHR         = "hr"
	ModuleAccounting = "accounting"
	ModuleReports    = "reports"
)

// AllModules lista los módulos que se activan al crear una empresa.
var AllModules = []string{
	ModuleInventory, ModulePOS, ModulePurchasing, ModuleTransport,
	ModuleHR, ModuleAccounting, ModuleReports,
}

// IsValidModule indica si el nombre corresponde a un módulo conocido.
func IsValidModule(name string) bool {
	for _, m := range AllModules {
		if m == name {
			return true
		}
	}
	return false
}

// CompanyModule representa la activación de un módulo SaaS en una empresa.
type CompanyModule struct {
	ID          string
	CompanyID   string
	ModuleName  string
	IsActive    bool
	ActivatedAt time.Time
	ExpiresAt   *time.Time // nil = sin vencimiento
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ActiveAt informa si el módulo está activo y sin vencer en el instante dado.
func (m *CompanyModule) ActiveAt(now time.Time) bool {
	if m == nil || !m.IsActive {
		return false
	}
	return m.ExpiresAt == nil || m.ExpiresAt.After(now)
}
