package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercio-api/internal/domain/accounting"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/inventory"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*reportRepo)(nil)

type reportRepo struct{ s *Store }

func (r *reportRepo) completedSales(companyID string, from, to *time.Time) []entity.Sale {
	var list []entity.Sale
	for _, sale := range r.s.d.sales {
		if sale.CompanyID != companyID || sale.Status != entity.SaleStatusCompleted {
			continue
		}
		if inRange(sale.SoldAt, from, to) {
			list = append(list, sale)
		}
	}
	return list
}

func (r *reportRepo) SalesTotals(_ context.Context, companyID string, from, to time.Time) (repository.SalesTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t := repository.SalesTotals{Revenue: decimal.Zero, Tax: decimal.Zero, COGS: decimal.Zero, Collected: decimal.Zero}
	for _, sale := range r.completedSales(companyID, &from, &to) {
		t.Count++
		t.Revenue = t.Revenue.Add(sale.NetRevenue())
		t.Tax = t.Tax.Add(sale.TaxTotal)
		t.COGS = t.COGS.Add(sale.COGSTotal)
		t.Collected = t.Collected.Add(collected(sale))
	}
	return t, nil
}

func (r *reportRepo) SalesByProduct(_ context.Context, companyID string, from, to time.Time) ([]accounting.ProductSales, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byProduct := map[string]*accounting.ProductSales{}
	for _, sale := range r.completedSales(companyID, &from, &to) {
		for _, it := range sale.Items {
			row, ok := byProduct[it.ProductID]
			if !ok {
				p := r.s.d.products[it.ProductID]
				row = &accounting.ProductSales{
					ProductID: it.ProductID, SKU: p.SKU, Name: p.Name,
					Quantity: decimal.Zero, Revenue: decimal.Zero, COGS: decimal.Zero,
				}
				byProduct[it.ProductID] = row
			}
			row.Quantity = row.Quantity.Add(it.Quantity)
			row.Revenue = row.Revenue.Add(it.Subtotal)
			row.COGS = row.COGS.Add(it.COGS)
		}
	}
	out := make([]accounting.ProductSales, 0, len(byProduct))
	for _, row := range byProduct {
		row.Finalize()
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (r *reportRepo) ExpensesByCategory(_ context.Context, companyID string, from, to time.Time) ([]accounting.CategoryAmount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	totals := map[string]decimal.Decimal{}
	for _, e := range r.s.d.expenses {
		if e.CompanyID != companyID || e.DelFlag || !inRange(e.SpentAt, &from, &to) {
			continue
		}
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	out := make([]accounting.CategoryAmount, 0, len(totals))
	for cat, amt := range totals {
		out = append(out, accounting.CategoryAmount{Category: cat, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (r *reportRepo) IncomeTotal(_ context.Context, companyID string, from, to time.Time) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, in := range r.s.d.incomes {
		if in.CompanyID == companyID && !in.DelFlag && inRange(in.ReceivedAt, &from, &to) {
			total = total.Add(in.Amount)
		}
	}
	return total, nil
}

func (r *reportRepo) BalanceInputs(_ context.Context, companyID string, asOf time.Time) (accounting.BSInput, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	in := accounting.BSInput{
		SalesCollected: decimal.Zero, Income: decimal.Zero, Expenses: decimal.Zero,
		SupplierPayments: decimal.Zero, Receivables: decimal.Zero, Inventory: decimal.Zero, Payables: decimal.Zero,
	}

	for _, sale := range r.completedSales(companyID, nil, &asOf) {
		in.SalesCollected = in.SalesCollected.Add(collected(sale))
		in.Receivables = in.Receivables.Add(sale.Receivable())
	}
	for _, inc := range r.s.d.incomes {
		if inc.CompanyID == companyID && !inc.DelFlag && inc.ReceivedAt.Before(asOf) {
			in.Income = in.Income.Add(inc.Amount)
		}
	}
	for _, e := range r.s.d.expenses {
		if e.CompanyID == companyID && !e.DelFlag && e.SpentAt.Before(asOf) {
			in.Expenses = in.Expenses.Add(e.Amount)
		}
	}

	paidByPO := map[string]decimal.Decimal{}
	for _, p := range r.s.d.payments {
		po, ok := r.s.d.orders[p.PurchaseOrderID]
		if p.CompanyID != companyID || !ok || po.DelFlag || !p.PaidAt.Before(asOf) {
			continue
		}
		in.SupplierPayments = in.SupplierPayments.Add(p.Amount)
		paidByPO[p.PurchaseOrderID] = paidByPO[p.PurchaseOrderID].Add(p.Amount)
	}
	for _, po := range r.s.d.orders {
		if po.CompanyID != companyID || po.DelFlag || po.Status != entity.POStatusReceived {
			continue
		}
		if po.ReceivedAt == nil || !po.ReceivedAt.Before(asOf) {
			continue
		}
		if owed := po.Total.Sub(paidByPO[po.ID]); owed.GreaterThan(decimal.Zero) {
			in.Payables = in.Payables.Add(owed)
		}
	}

	for _, m := range r.s.d.movements {
		if m.CompanyID == companyID && m.CreatedAt.Before(asOf) {
			in.Inventory = in.Inventory.Add(m.Quantity.Mul(m.UnitCost))
		}
	}
	return in, nil
}

func (r *reportRepo) StockLevels(_ context.Context, companyID string) ([]repository.StockLevel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	lots := map[string][]entity.ProductBatch{}
	for _, b := range r.s.d.batches {
		if b.CompanyID == companyID {
			lots[b.ProductID] = append(lots[b.ProductID], b)
		}
	}
	var out []repository.StockLevel
	for _, p := range r.s.d.products {
		if p.CompanyID != companyID || p.DelFlag {
			continue
		}
		st := inventory.Valuation(lots[p.ID])
		out = append(out, repository.StockLevel{
			ProductID: p.ID, SKU: p.SKU, Name: p.Name, ReorderPoint: p.ReorderPoint,
			Quantity: st.Quantity, Value: st.Value,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}
