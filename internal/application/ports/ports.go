// Package ports define los puertos de salida de la capa de aplicación: persistencia
// transaccional, caché, bloqueos distribuidos, auditoría y generación de documentos.
// Las implementaciones viven en infrastructure (DIP).
package ports

import (
	"context"
	"time"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma conexión (pool o transacción).
type Repos struct {
	Companies      repository.CompanyRepository
	Modules        repository.ModuleRepository
	Users          repository.UserRepository
	Roles          repository.RoleRepository
	Categories     repository.CategoryRepository
	Brands         repository.BrandRepository
	Units          repository.UnitRepository
	Products       repository.ProductRepository
	Batches        repository.BatchRepository
	Movements      repository.MovementRepository
	Customers      repository.CustomerRepository
	Suppliers      repository.SupplierRepository
	PurchaseOrders repository.PurchaseOrderRepository
	Sequences      repository.SequenceRepository
	Sales          repository.SaleRepository
	Shipments      repository.ShipmentRepository
	Employees      repository.EmployeeRepository
	Payroll        repository.PayrollRepository
	Expenses       repository.ExpenseRepository
	Incomes        repository.IncomeRepository
	Reports        repository.ReportRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados a ella.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// Cache almacena resultados serializados de reportes. Una falla de caché nunca debe
// romper el reporte: los callers registran el error y continúan.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePrefix invalida las llaves que empiezan por prefix (ej. una empresa).
	DeletePrefix(ctx context.Context, prefix string) error
}

// Locker obtiene bloqueos exclusivos entre réplicas.
// Si la llave ya está tomada devuelve domain.ErrLocked.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

// AuditLogger registra operaciones en la bitácora. Nunca devuelve error: las
// implementaciones registran la falla en el log.
type AuditLogger interface {
	Record(ctx context.Context, entry AuditRecord)
}

// AuditRecord datos mínimos de una operación auditada.
type AuditRecord struct {
	CompanyID string
	UserID    string
	Entity    string
	EntityID  string
	Action    string
	ModFlag   int
	Details   map[string]string
}

// DocumentRenderer genera los PDF imprimibles (tirilla de venta y desprendibles de nómina).
// productNames mapea product_id → nombre para las líneas de la tirilla.
type DocumentRenderer interface {
	Receipt(company *entity.Company, sale *entity.Sale, productNames map[string]string) ([]byte, error)
	Payslips(company *entity.Company, run *entity.PayrollRun) ([]byte, error)
}

// Sheet hoja tabular exportable. Las celdas pueden ser string, número o decimal.Decimal.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// SpreadsheetExporter serializa hojas a un libro XLSX.
type SpreadsheetExporter interface {
	Export(sheets ...Sheet) ([]byte, error)
}

// NopAudit descarta los registros (sin almacén de bitácora configurado).
type NopAudit struct{}

// Record no hace nada.
func (NopAudit) Record(context.Context, AuditRecord) {}
