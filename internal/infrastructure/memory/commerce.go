package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var (
	_ repository.CustomerRepository      = (*customerRepo)(nil)
	_ repository.SupplierRepository      = (*supplierRepo)(nil)
	_ repository.PurchaseOrderRepository = (*purchaseOrderRepo)(nil)
	_ repository.SequenceRepository      = (*sequenceRepo)(nil)
	_ repository.SaleRepository          = (*saleRepo)(nil)
)

type customerRepo struct{ s *Store }

func (r *customerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.customers[c.ID] = *c
	return nil
}

func (r *customerRepo) GetByID(_ context.Context, companyID, id string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.d.customers[id]
	if !ok || c.CompanyID != companyID || c.DelFlag {
		return nil, nil
	}
	return &c, nil
}

func (r *customerRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Customer
	for _, c := range r.s.d.customers {
		if c.CompanyID == companyID && !c.DelFlag {
			c := c
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

func (r *customerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.customers[c.ID]
	if err := checkMod(ok && prev.CompanyID == c.CompanyID, prev.DelFlag, prev.ModFlag, c.ModFlag); err != nil {
		return err
	}
	c.ModFlag++
	r.s.d.customers[c.ID] = *c
	return nil
}

func (r *customerRepo) Delete(_ context.Context, companyID, id string, modFlag int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.customers[id]
	if err := checkMod(ok && prev.CompanyID == companyID, prev.DelFlag, prev.ModFlag, modFlag); err != nil {
		return err
	}
	prev.DelFlag, prev.ModFlag, prev.UpdatedAt = true, prev.ModFlag+1, time.Now()
	r.s.d.customers[id] = prev
	return nil
}

type supplierRepo struct{ s *Store }

func (r *supplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.suppliers[sp.ID] = *sp
	return nil
}

func (r *supplierRepo) GetByID(_ context.Context, companyID, id string) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sp, ok := r.s.d.suppliers[id]
	if !ok || sp.CompanyID != companyID || sp.DelFlag {
		return nil, nil
	}
	return &sp, nil
}

func (r *supplierRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Supplier
	for _, sp := range r.s.d.suppliers {
		if sp.CompanyID == companyID && !sp.DelFlag {
			sp := sp
			list = append(list, &sp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

func (r *supplierRepo) Update(_ context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.suppliers[sp.ID]
	if err := checkMod(ok && prev.CompanyID == sp.CompanyID, prev.DelFlag, prev.ModFlag, sp.ModFlag); err != nil {
		return err
	}
	sp.ModFlag++
	r.s.d.suppliers[sp.ID] = *sp
	return nil
}

func (r *supplierRepo) Delete(_ context.Context, companyID, id string, modFlag int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.suppliers[id]
	if err := checkMod(ok && prev.CompanyID == companyID, prev.DelFlag, prev.ModFlag, modFlag); err != nil {
		return err
	}
	prev.DelFlag, prev.ModFlag, prev.UpdatedAt = true, prev.ModFlag+1, time.Now()
	r.s.d.suppliers[id] = prev
	return nil
}

type purchaseOrderRepo struct{ s *Store }

func clonePO(po entity.PurchaseOrder) *entity.PurchaseOrder {
	po.Items = append([]entity.PurchaseOrderItem(nil), po.Items...)
	return &po
}

func (r *purchaseOrderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.orders[po.ID] = *clonePO(*po)
	return nil
}

func (r *purchaseOrderRepo) GetByID(_ context.Context, companyID, id string) (*entity.PurchaseOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	po, ok := r.s.d.orders[id]
	if !ok || po.CompanyID != companyID || po.DelFlag {
		return nil, nil
	}
	return clonePO(po), nil
}

func (r *purchaseOrderRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *purchaseOrderRepo) List(_ context.Context, companyID, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.PurchaseOrder
	for _, po := range r.s.d.orders {
		if po.CompanyID != companyID || po.DelFlag || (status != "" && po.Status != status) {
			continue
		}
		list = append(list, clonePO(po))
	}
	newestFirst(list, func(p *entity.PurchaseOrder) time.Time { return p.CreatedAt }, func(p *entity.PurchaseOrder) string { return p.ID })
	return page(list, limit, offset), nil
}

func (r *purchaseOrderRepo) Update(_ context.Context, po *entity.PurchaseOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.orders[po.ID]
	if err := checkMod(ok && prev.CompanyID == po.CompanyID, prev.DelFlag, prev.ModFlag, po.ModFlag); err != nil {
		return err
	}
	po.ModFlag++
	r.s.d.orders[po.ID] = *clonePO(*po)
	return nil
}

func (r *purchaseOrderRepo) CreatePayment(_ context.Context, p *entity.SupplierPayment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.payments = append(r.s.d.payments, *p)
	return nil
}

func (r *purchaseOrderRepo) ListPayments(_ context.Context, companyID, purchaseOrderID string) ([]*entity.SupplierPayment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.SupplierPayment
	for _, p := range r.s.d.payments {
		if p.CompanyID == companyID && p.PurchaseOrderID == purchaseOrderID {
			p := p
			list = append(list, &p)
		}
	}
	return list, nil
}

type sequenceRepo struct{ s *Store }

func (r *sequenceRepo) Next(_ context.Context, companyID, kind string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := companyID + "/" + kind
	r.s.d.sequences[key]++
	return r.s.d.sequences[key], nil
}

type saleRepo struct{ s *Store }

func cloneSale(s entity.Sale) *entity.Sale {
	items := make([]entity.SaleItem, len(s.Items))
	for i, it := range s.Items {
		it.Allocations = append([]entity.BatchAllocation(nil), it.Allocations...)
		items[i] = it
	}
	s.Items = items
	return &s
}

func (r *saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sale.IdempotencyKey != "" {
		for _, existing := range r.s.d.sales {
			if existing.CompanyID == sale.CompanyID && existing.IdempotencyKey == sale.IdempotencyKey {
				return domain.ErrDuplicate
			}
		}
	}
	r.s.d.sales[sale.ID] = *cloneSale(*sale)
	return nil
}

func (r *saleRepo) GetByID(_ context.Context, companyID, id string) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sale, ok := r.s.d.sales[id]
	if !ok || sale.CompanyID != companyID {
		return nil, nil
	}
	return cloneSale(sale), nil
}

func (r *saleRepo) GetByIdempotencyKey(_ context.Context, companyID, key string) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if key == "" {
		return nil, nil
	}
	for _, sale := range r.s.d.sales {
		if sale.CompanyID == companyID && sale.IdempotencyKey == key {
			return cloneSale(sale), nil
		}
	}
	return nil, nil
}

func (r *saleRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *saleRepo) List(_ context.Context, f entity.SaleFilter) ([]*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Sale
	for _, sale := range r.s.d.sales {
		if sale.CompanyID != f.CompanyID {
			continue
		}
		if f.CashierID != "" && sale.CashierID != f.CashierID {
			continue
		}
		if f.Status != "" && sale.Status != f.Status {
			continue
		}
		if !inRange(sale.SoldAt, f.From, f.To) {
			continue
		}
		list = append(list, cloneSale(sale))
	}
	newestFirst(list, func(s *entity.Sale) time.Time { return s.SoldAt }, func(s *entity.Sale) string { return s.ID })
	return page(list, f.Limit, f.Offset), nil
}

func (r *saleRepo) MarkVoided(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.d.sales[sale.ID]
	if err := checkMod(ok && prev.CompanyID == sale.CompanyID, false, prev.ModFlag, sale.ModFlag); err != nil {
		return err
	}
	prev.Status = sale.Status
	prev.VoidReason = sale.VoidReason
	prev.VoidedAt = sale.VoidedAt
	prev.VoidedBy = sale.VoidedBy
	prev.UpdatedAt = sale.UpdatedAt
	prev.ModFlag++
	r.s.d.sales[sale.ID] = prev
	sale.ModFlag = prev.ModFlag
	return nil
}

// collected pagado − vuelto de una venta.
func collected(s entity.Sale) decimal.Decimal {
	return s.PaidAmount.Sub(s.Change)
}
