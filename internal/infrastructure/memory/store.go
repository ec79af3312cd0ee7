// Package memory implementa todos los puertos de persistencia en memoria.
// Se usa en pruebas de casos de uso y como backend de demo cuando no hay DATABASE_URL.
// Las transacciones se serializan y se revierten restaurando una copia del estado.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

var _ ports.TxRunner = (*Store)(nil)

// Store estado completo de la aplicación en memoria.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	d    *data
}

type data struct {
	companies  map[string]entity.Company
	modules    map[string]entity.CompanyModule
	users      map[string]entity.User
	roles      map[string]entity.Role
	categories map[string]entity.Category
	brands     map[string]entity.Brand
	units      map[string]entity.Unit
	products   map[string]entity.Product
	batches    map[string]entity.ProductBatch
	movements  []entity.StockMovement
	customers  map[string]entity.Customer
	suppliers  map[string]entity.Supplier
	orders     map[string]entity.PurchaseOrder
	payments   []entity.SupplierPayment
	sequences  map[string]int64
	sales      map[string]entity.Sale
	shipments  map[string]entity.Shipment
	employees  map[string]entity.Employee
	payroll    map[string]entity.PayrollRun
	expenses   map[string]entity.Expense
	incomes    map[string]entity.Income
	audit      []entity.AuditEntry
}

func newData() *data {
	return &data{
		companies:  map[string]entity.Company{},
		modules:    map[string]entity.CompanyModule{},
		users:      map[string]entity.User{},
		roles:      map[string]entity.Role{},
		categories: map[string]entity.Category{},
		brands:     map[string]entity.Brand{},
		units:      map[string]entity.Unit{},
		products:   map[string]entity.Product{},
		batches:    map[string]entity.ProductBatch{},
		customers:  map[string]entity.Customer{},
		suppliers:  map[string]entity.Supplier{},
		orders:     map[string]entity.PurchaseOrder{},
		sequences:  map[string]int64{},
		sales:      map[string]entity.Sale{},
		shipments:  map[string]entity.Shipment{},
		employees:  map[string]entity.Employee{},
		payroll:    map[string]entity.PayrollRun{},
		expenses:   map[string]entity.Expense{},
		incomes:    map[string]entity.Income{},
	}
}

// clone copia los mapas; las filas son valores inmutables una vez guardadas.
func (d *data) clone() *data {
	c := &data{
		companies:  copyMap(d.companies),
		modules:    copyMap(d.modules),
		users:      copyMap(d.users),
		roles:      copyMap(d.roles),
		categories: copyMap(d.categories),
		brands:     copyMap(d.brands),
		units:      copyMap(d.units),
		products:   copyMap(d.products),
		batches:    copyMap(d.batches),
		movements:  append([]entity.StockMovement(nil), d.movements...),
		customers:  copyMap(d.customers),
		suppliers:  copyMap(d.suppliers),
		orders:     copyMap(d.orders),
		payments:   append([]entity.SupplierPayment(nil), d.payments...),
		sequences:  copyMap(d.sequences),
		sales:      copyMap(d.sales),
		shipments:  copyMap(d.shipments),
		employees:  copyMap(d.employees),
		payroll:    copyMap(d.payroll),
		expenses:   copyMap(d.expenses),
		incomes:    copyMap(d.incomes),
		audit:      append([]entity.AuditEntry(nil), d.audit...),
	}
	return c
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// New crea un store vacío.
func New() *Store {
	return &Store{d: newData()}
}

// Repos devuelve los repositorios sobre el store (sin transacción).
func (s *Store) Repos() ports.Repos {
	return ports.Repos{
		Companies:      &companyRepo{s},
		Modules:        &moduleRepo{s},
		Users:          &userRepo{s},
		Roles:          &roleRepo{s},
		Categories:     &categoryRepo{s},
		Brands:         &brandRepo{s},
		Units:          &unitRepo{s},
		Products:       &productRepo{s},
		Batches:        &batchRepo{s},
		Movements:      &movementRepo{s},
		Customers:      &customerRepo{s},
		Suppliers:      &supplierRepo{s},
		PurchaseOrders: &purchaseOrderRepo{s},
		Sequences:      &sequenceRepo{s},
		Sales:          &saleRepo{s},
		Shipments:      &shipmentRepo{s},
		Employees:      &employeeRepo{s},
		Payroll:        &payrollRepo{s},
		Expenses:       &expenseRepo{s},
		Incomes:        &incomeRepo{s},
		Reports:        &reportRepo{s},
	}
}

// Audit devuelve el repositorio de bitácora en memoria.
func (s *Store) Audit() *AuditRepo {
	return &AuditRepo{s}
}

// Run ejecuta fn de forma exclusiva; si fn falla se restaura el estado previo.
func (s *Store) Run(ctx context.Context, fn func(r ports.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.d.clone()
	s.mu.RUnlock()

	if err := fn(s.Repos()); err != nil {
		s.mu.Lock()
		s.d = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

// checkMod aplica el control optimista: el registro debe existir, no estar
// eliminado y tener el mod_flag esperado.
func checkMod(found, deleted bool, stored, expected int) error {
	if !found || deleted {
		return domain.ErrNotFound
	}
	if stored != expected {
		return domain.ErrConflict
	}
	return nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// newestFirst ordena por fecha de creación descendente y luego por id.
func newestFirst[T any](list []T, created func(T) time.Time, id func(T) string) {
	sort.SliceStable(list, func(i, j int) bool {
		ci, cj := created(list[i]), created(list[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(list[i]) < id(list[j])
	})
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
