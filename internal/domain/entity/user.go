package entity

import "time"

// Roles de sistema que se crean con cada empresa.
const (
	RoleAdmin       = "admin"
	RoleCashier     = "cashier"
	RoleStorekeeper = "storekeeper"
	RoleAccountant  = "accountant"
)

// Estados de usuario.
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // nombre del rol dentro de la empresa
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Permissions es el paquete de banderas booleanas que habilita acciones de un rol.
type Permissions struct {
	ManageProducts   bool `json:"manage_products"`
	ManageInventory  bool `json:"manage_inventory"`
	MakeSales        bool `json:"make_sales"`
	VoidSales        bool `json:"void_sales"`
	ManagePurchases  bool `json:"manage_purchases"`
	ManageShipments  bool `json:"manage_shipments"`
	ManageEmployees  bool `json:"manage_employees"`
	RunPayroll       bool `json:"run_payroll"`
	ManageAccounting bool `json:"manage_accounting"`
	ViewReports      bool `json:"view_reports"`
	ManageUsers      bool `json:"manage_users"`
}

// Nombres de permiso usados por RequirePermission.
const (
	PermManageProducts   = "manage_products"
	PermManageInventory  = "manage_inventory"
	PermMakeSales        = "make_sales"
	PermVoidSales        = "void_sales"
	PermManagePurchases  = "manage_purchases"
	PermManageShipments  = "manage_shipments"
	PermManageEmployees  = "manage_employees"
	PermRunPayroll       = "run_payroll"
	PermManageAccounting = "manage_accounting"
	PermViewReports      = "view_reports"
	PermManageUsers      = "manage_users"
)

// Allows informa si la bandera con ese nombre está activa. Un nombre desconocido nunca autoriza.
func (p Permissions) Allows(name string) bool {
	switch name {
	case PermManageProducts:
		return p.ManageProducts
	case PermManageInventory:
		return p.ManageInventory
	case PermMakeSales:
		return p.MakeSales
	case PermVoidSales:
		return p.VoidSales
	case PermManagePurchases:
		return p.ManagePurchases
	case PermManageShipments:
		return p.ManageShipments
	case PermManageEmployees:
		return p.ManageEmployees
	case PermRunPayroll:
		return p.RunPayroll
	case PermManageAccounting:
		return p.ManageAccounting
	case PermViewReports:
		return p.ViewReports
	case PermManageUsers:
		return p.ManageUsers
	}
	return false
}

// AllPermissions devuelve el paquete con todas las banderas activas.
func AllPermissions() Permissions {
	return Permissions{
		ManageProducts: true, ManageInventory: true, MakeSales: true, VoidSales: true,
		ManagePurchases: true, ManageShipments: true, ManageEmployees: true, RunPayroll: true,
		ManageAccounting: true, ViewReports: true, ManageUsers: true,
	}
}

// Role agrupa permisos con un nombre dentro de una empresa.
type Role struct {
	ID          string
	CompanyID   string
	Name        string
	Permissions Permissions
	IsSystem    bool // los roles de sistema no se pueden eliminar
	ModFlag     int
	DelFlag     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DefaultRoles devuelve los roles de sistema para una empresa recién creada.
func DefaultRoles() map[string]Permissions {
	return map[string]Permissions{
		RoleAdmin:   AllPermissions(),
		RoleCashier: {MakeSales: true},
		RoleStorekeeper: {
			ManageProducts: true, ManageInventory: true,
			ManagePurchases: true, ManageShipments: true,
		},
		RoleAccountant: {ManageAccounting: true, ViewReports: true, RunPayroll: true},
	}
}
