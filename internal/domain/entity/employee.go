package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de empleado.
const (
	EmployeeActive   = "active"
	EmployeeInactive = "inactive"
)

// Employee empleado de la empresa (nómina).
type Employee struct {
	ID         string
	CompanyID  string
	Name       string
	DocumentID string
	Position   string
	BaseSalary decimal.Decimal // salario mensual
	HiredAt    time.Time
	Status     string
	ModFlag    int
	DelFlag    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PayrollRun liquidación de nómina de un período (YYYY-MM). Una por empresa y período.
type PayrollRun struct {
	ID        string
	CompanyID string
	Period    string
	RunAt     time.Time
	Lines     []PayrollLine
	Total     decimal.Decimal
	ExpenseID string // gasto contable generado; vacío si el total es cero
	CreatedBy string
	CreatedAt time.Time
}

// PayrollLine línea de nómina por empleado.
type PayrollLine struct {
	ID           string
	PayrollRunID string
	EmployeeID   string
	EmployeeName string
	BaseSalary   decimal.Decimal
	Allowances   decimal.Decimal
	Deductions   decimal.Decimal
	NetPay       decimal.Decimal
}
