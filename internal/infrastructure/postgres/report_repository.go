package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercio-api/internal/domain/accounting"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas de solo lectura. Las ventas anuladas no cuentan.
type ReportRepo struct {
	q Querier
}

func (r *ReportRepo) SalesTotals(ctx context.Context, companyID string, from, to time.Time) (repository.SalesTotals, error) {
	var t repository.SalesTotals
	err := r.q.QueryRow(ctx, `SELECT COUNT(*),
			COALESCE(SUM(subtotal - discount_total), 0),
			COALESCE(SUM(tax_total), 0),
			COALESCE(SUM(cogs_total), 0),
			COALESCE(SUM(paid_amount - change), 0)
		FROM sales
		WHERE company_id = $1 AND status = 'completed' AND sold_at >= $2 AND sold_at < $3`,
		companyID, from, to,
	).Scan(&t.Count, &t.Revenue, &t.Tax, &t.COGS, &t.Collected)
	if err != nil {
		return t, fmt.Errorf("sales totals: %w", err)
	}
	return t, nil
}

func (r *ReportRepo) SalesByProduct(ctx context.Context, companyID string, from, to time.Time) ([]accounting.ProductSales, error) {
	rows, err := r.q.Query(ctx, `SELECT i.product_id, COALESCE(p.sku, ''), COALESCE(p.name, ''),
			SUM(i.quantity), SUM(i.subtotal), SUM(i.cogs)
		FROM sale_items i
		JOIN sales s ON s.id = i.sale_id
		LEFT JOIN products p ON p.id = i.product_id
		WHERE s.company_id = $1 AND s.status = 'completed' AND s.sold_at >= $2 AND s.sold_at < $3
		GROUP BY i.product_id, p.sku, p.name
		ORDER BY COALESCE(p.sku, ''), i.product_id`, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales by product: %w", err)
	}
	return scanAll(rows, func(rows pgx.Rows) (accounting.ProductSales, error) {
		var ps accounting.ProductSales
		if err := rows.Scan(&ps.ProductID, &ps.SKU, &ps.Name, &ps.Quantity, &ps.Revenue, &ps.COGS); err != nil {
			return ps, err
		}
		ps.Finalize()
		return ps, nil
	})
}

func (r *ReportRepo) ExpensesByCategory(ctx context.Context, companyID string, from, to time.Time) ([]accounting.CategoryAmount, error) {
	rows, err := r.q.Query(ctx, `SELECT category, SUM(amount) FROM expenses
		WHERE company_id = $1 AND NOT del_flag AND spent_at >= $2 AND spent_at < $3
		GROUP BY category ORDER BY category`, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("expenses by category: %w", err)
	}
	return scanAll(rows, func(rows pgx.Rows) (accounting.CategoryAmount, error) {
		var c accounting.CategoryAmount
		err := rows.Scan(&c.Category, &c.Amount)
		return c, err
	})
}

func (r *ReportRepo) IncomeTotal(ctx context.Context, companyID string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM incomes
		WHERE company_id = $1 AND NOT del_flag AND received_at >= $2 AND received_at < $3`,
		companyID, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("income total: %w", err)
	}
	return total, nil
}

// BalanceInputs resuelve todos los saldos en una sola consulta para que sean coherentes entre sí.
func (r *ReportRepo) BalanceInputs(ctx context.Context, companyID string, asOf time.Time) (accounting.BSInput, error) {
	var in accounting.BSInput
	err := r.q.QueryRow(ctx, `WITH
		s AS (
			SELECT COALESCE(SUM(paid_amount - change), 0) AS collected,
			       COALESCE(SUM(GREATEST(total - (paid_amount - change), 0)), 0) AS receivables
			FROM sales WHERE company_id = $1 AND status = 'completed' AND sold_at < $2
		),
		inc AS (
			SELECT COALESCE(SUM(amount), 0) AS total FROM incomes
			WHERE company_id = $1 AND NOT del_flag AND received_at < $2
		),
		exp AS (
			SELECT COALESCE(SUM(amount), 0) AS total FROM expenses
			WHERE company_id = $1 AND NOT del_flag AND spent_at < $2
		),
		pay AS (
			SELECT sp.purchase_order_id, SUM(sp.amount) AS paid
			FROM supplier_payments sp JOIN purchase_orders po ON po.id = sp.purchase_order_id
			WHERE sp.company_id = $1 AND NOT po.del_flag AND sp.paid_at < $2
			GROUP BY sp.purchase_order_id
		),
		owed AS (
			SELECT COALESCE(SUM(GREATEST(po.total - COALESCE(pay.paid, 0), 0)), 0) AS total
			FROM purchase_orders po LEFT JOIN pay ON pay.purchase_order_id = po.id
			WHERE po.company_id = $1 AND NOT po.del_flag AND po.status = 'received' AND po.received_at < $2
		),
		inv AS (
			SELECT COALESCE(SUM(quantity * unit_cost), 0) AS total FROM stock_movements
			WHERE company_id = $1 AND created_at < $2
		)
		SELECT s.collected, s.receivables, inc.total, exp.total,
		       (SELECT COALESCE(SUM(paid), 0) FROM pay), owed.total, inv.total
		FROM s, inc, exp, owed, inv`, companyID, asOf,
	).Scan(&in.SalesCollected, &in.Receivables, &in.Income, &in.Expenses, &in.SupplierPayments, &in.Payables, &in.Inventory)
	if err != nil {
		return in, fmt.Errorf("balance inputs: %w", err)
	}
	return in, nil
}

// StockLevels valoriza los lotes abiertos de cada producto no eliminado.
func (r *ReportRepo) StockLevels(ctx context.Context, companyID string) ([]repository.StockLevel, error) {
	rows, err := r.q.Query(ctx, `SELECT p.id, p.sku, p.name, p.reorder_point,
			COALESCE(SUM(b.quantity_remaining), 0),
			COALESCE(SUM(b.quantity_remaining * b.unit_cost), 0)
		FROM products p
		LEFT JOIN product_batches b
		       ON b.product_id = p.id AND b.company_id = p.company_id AND NOT b.del_flag AND b.quantity_remaining > 0
		WHERE p.company_id = $1 AND NOT p.del_flag
		GROUP BY p.id, p.sku, p.name, p.reorder_point
		ORDER BY p.sku`, companyID)
	if err != nil {
		return nil, fmt.Errorf("stock levels: %w", err)
	}
	return scanAll(rows, func(rows pgx.Rows) (repository.StockLevel, error) {
		var l repository.StockLevel
		err := rows.Scan(&l.ProductID, &l.SKU, &l.Name, &l.ReorderPoint, &l.Quantity, &l.Value)
		return l, err
	})
}
