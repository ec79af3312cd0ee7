package dto

import (
	"time"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateShipmentRequest alta de envío.
type CreateShipmentRequest struct {
	ReferenceType  string          `json:"reference_type" validate:"required,oneof=sale purchase_order"`
	ReferenceID    string          `json:"reference_id" validate:"required,uuid"`
	Carrier        string          `json:"carrier" validate:"required,max=100"`
	TrackingNumber string          `json:"tracking_number" validate:"max=100"`
	Origin         string          `json:"origin" validate:"max=300"`
	Destination    string          `json:"destination" validate:"required,max=300"`
	Cost           decimal.Decimal `json:"cost"`
}

// ShipmentStatusRequest cambio de estado de envío.
type ShipmentStatusRequest struct {
	Status  string `json:"status" validate:"required,oneof=in_transit delivered cancelled"`
	Note    string `json:"note" validate:"max=300"`
	ModFlag int    `json:"mod_flag" validate:"min=0"`
}

// ShipmentResponse salida de envío.
type ShipmentResponse struct {
	ID             string                 `json:"id"`
	ReferenceType  string                 `json:"reference_type"`
	ReferenceID    string                 `json:"reference_id"`
	Carrier        string                 `json:"carrier"`
	TrackingNumber string                 `json:"tracking_number"`
	Origin         string                 `json:"origin"`
	Destination    string                 `json:"destination"`
	Cost           decimal.Decimal        `json:"cost"`
	Status         string                 `json:"status"`
	Events         []entity.ShipmentEvent `json:"events"`
	ShippedAt      *time.Time             `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time             `json:"delivered_at,omitempty"`
	ModFlag        int                    `json:"mod_flag"`
	CreatedAt      time.Time              `json:"created_at"`
}

// EmployeeRequest alta o modificación de empleado.
type EmployeeRequest struct {
	Name       string          `json:"name" validate:"required,min=2,max=200"`
	DocumentID string          `json:"document_id" validate:"max=50"`
	Position   string          `json:"position" validate:"max=100"`
	BaseSalary decimal.Decimal `json:"base_salary"`
	HiredAt    *time.Time      `json:"hired_at"`
	Status     string          `json:"status" validate:"omitempty,oneof=active inactive"`
	ModFlag    int             `json:"mod_flag" validate:"min=0"`
}

// EmployeeResponse salida de empleado.
type EmployeeResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	DocumentID string          `json:"document_id"`
	Position   string          `json:"position"`
	BaseSalary decimal.Decimal `json:"base_salary"`
	HiredAt    time.Time       `json:"hired_at"`
	Status     string          `json:"status"`
	ModFlag    int             `json:"mod_flag"`
}

// PayrollAdjustment devengos y deducciones de un empleado en la liquidación.
type PayrollAdjustment struct {
	EmployeeID string          `json:"employee_id" validate:"required,uuid"`
	Allowances decimal.Decimal `json:"allowances"`
	Deductions decimal.Decimal `json:"deductions"`
}

// RunPayrollRequest liquidación del período YYYY-MM.
type RunPayrollRequest struct {
	Period      string              `json:"period" validate:"required,datetime=2006-01"`
	Adjustments []PayrollAdjustment `json:"adjustments" validate:"dive"`
}

// PayrollLineResponse línea de nómina.
type PayrollLineResponse struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	BaseSalary   decimal.Decimal `json:"base_salary"`
	Allowances   decimal.Decimal `json:"allowances"`
	Deductions   decimal.Decimal `json:"deductions"`
	NetPay       decimal.Decimal `json:"net_pay"`
}

// PayrollRunResponse salida de liquidación.
type PayrollRunResponse struct {
	ID        string                `json:"id"`
	Period    string                `json:"period"`
	RunAt     time.Time             `json:"run_at"`
	Lines     []PayrollLineResponse `json:"lines"`
	Total     decimal.Decimal       `json:"total"`
	ExpenseID string                `json:"expense_id"`
}

// ExpenseRequest alta o modificación de gasto.
type ExpenseRequest struct {
	Category    string          `json:"category" validate:"required,min=2,max=50"`
	Description string          `json:"description" validate:"max=300"`
	Amount      decimal.Decimal `json:"amount"`
	SpentAt     *time.Time      `json:"spent_at"`
	Reference   string          `json:"reference" validate:"max=100"`
	ModFlag     int             `json:"mod_flag" validate:"min=0"`
}

// ExpenseResponse salida de gasto.
type ExpenseResponse struct {
	ID          string          `json:"id"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	SpentAt     time.Time       `json:"spent_at"`
	Reference   string          `json:"reference"`
	ModFlag     int             `json:"mod_flag"`
}

// IncomeRequest alta o modificación de ingreso.
type IncomeRequest struct {
	Source      string          `json:"source" validate:"required,min=2,max=50"`
	Description string          `json:"description" validate:"max=300"`
	Amount      decimal.Decimal `json:"amount"`
	ReceivedAt  *time.Time      `json:"received_at"`
	ModFlag     int             `json:"mod_flag" validate:"min=0"`
}

// IncomeResponse salida de ingreso.
type IncomeResponse struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	ReceivedAt  time.Time       `json:"received_at"`
	ModFlag     int             `json:"mod_flag"`
}

// LedgerListQuery filtros de gastos e ingresos.
type LedgerListQuery struct {
	PageRequest
	DateRange
	Category string `query:"category" validate:"max=50"`
}
