package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var (
	_ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)
	_ repository.SequenceRepository      = (*SequenceRepo)(nil)
)

// PurchaseOrderRepo órdenes de compra con sus ítems y pagos.
type PurchaseOrderRepo struct {
	q Querier
}

const poColumns = `id, company_id, supplier_id, number, status, order_date, expected_date, received_at,
	total, paid_amount, payment_status, notes, created_by, mod_flag, del_flag, created_at, updated_at`

func scanPO(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := row.Scan(&po.ID, &po.CompanyID, &po.SupplierID, &po.Number, &po.Status, &po.OrderDate, &po.ExpectedDate, &po.ReceivedAt,
		&po.Total, &po.PaidAmount, &po.PaymentStatus, &po.Notes, &po.CreatedBy, &po.ModFlag, &po.DelFlag, &po.CreatedAt, &po.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &po, nil
}

// Create inserta cabecera e ítems. Debe ejecutarse dentro de una transacción.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	_, err := r.q.Exec(ctx, `INSERT INTO purchase_orders (`+poColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		po.ID, po.CompanyID, po.SupplierID, po.Number, po.Status, po.OrderDate, po.ExpectedDate, po.ReceivedAt,
		po.Total, po.PaidAmount, po.PaymentStatus, po.Notes, po.CreatedBy, po.ModFlag, po.DelFlag, po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	for i := range po.Items {
		it := &po.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.PurchaseOrderID = po.ID
		_, err := r.q.Exec(ctx, `INSERT INTO purchase_order_items
			(id, purchase_order_id, product_id, quantity, unit_cost, selling_price, batch_number, expires_at, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, po.ID, it.ProductID, it.Quantity, it.UnitCost, it.SellingPrice, it.BatchNumber, it.ExpiresAt, i)
		if err != nil {
			return fmt.Errorf("insert purchase order item: %w", err)
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) loadItems(ctx context.Context, po *entity.PurchaseOrder) error {
	rows, err := r.q.Query(ctx, `SELECT id, purchase_order_id, product_id, quantity, unit_cost, selling_price, batch_number, expires_at
		FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY position`, po.ID)
	if err != nil {
		return fmt.Errorf("list purchase order items: %w", err)
	}
	items, err := scanAll(rows, func(rows pgx.Rows) (entity.PurchaseOrderItem, error) {
		var it entity.PurchaseOrderItem
		err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.ProductID, &it.Quantity, &it.UnitCost, &it.SellingPrice, &it.BatchNumber, &it.ExpiresAt)
		return it, err
	})
	if err != nil {
		return err
	}
	po.Items = items
	return nil
}

func (r *PurchaseOrderRepo) get(ctx context.Context, companyID, id, suffix string) (*entity.PurchaseOrder, error) {
	po, err := scanPO(r.q.QueryRow(ctx, `SELECT `+poColumns+` FROM purchase_orders
		WHERE company_id = $1 AND id = $2 AND NOT del_flag`+suffix, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if err := r.loadItems(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, companyID, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, companyID, id, "")
}

func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, companyID, id, " FOR UPDATE")
}

// List devuelve las cabeceras con ítems, más recientes primero.
func (r *PurchaseOrderRepo) List(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	rows, err := r.q.Query(ctx, `SELECT `+poColumns+` FROM purchase_orders
		WHERE company_id = $1 AND NOT del_flag AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`, companyID, status, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	list, err := scanAll(rows, func(rows pgx.Rows) (*entity.PurchaseOrder, error) { return scanPO(rows) })
	if err != nil {
		return nil, err
	}
	for _, po := range list {
		if err := r.loadItems(ctx, po); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Update persiste estado, pagos y fechas. Los ítems son inmutables tras la creación.
func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	tag, err := r.q.Exec(ctx, `UPDATE purchase_orders
		SET status = $4, expected_date = $5, received_at = $6, total = $7, paid_amount = $8, payment_status = $9,
		    notes = $10, mod_flag = mod_flag + 1, updated_at = $11
		WHERE id = $1 AND company_id = $2 AND mod_flag = $3 AND NOT del_flag`,
		po.ID, po.CompanyID, po.ModFlag, po.Status, po.ExpectedDate, po.ReceivedAt, po.Total, po.PaidAmount, po.PaymentStatus,
		po.Notes, po.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if err := modResult(ctx, r.q, tag, "purchase_orders", po.CompanyID, po.ID); err != nil {
		return err
	}
	po.ModFlag++
	return nil
}

func (r *PurchaseOrderRepo) CreatePayment(ctx context.Context, p *entity.SupplierPayment) error {
	_, err := r.q.Exec(ctx, `INSERT INTO supplier_payments
		(id, company_id, purchase_order_id, amount, paid_at, reference, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.CompanyID, p.PurchaseOrderID, p.Amount, p.PaidAt, p.Reference, p.CreatedBy, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert supplier payment: %w", err)
	}
	return nil
}

func (r *PurchaseOrderRepo) ListPayments(ctx context.Context, companyID, purchaseOrderID string) ([]*entity.SupplierPayment, error) {
	rows, err := r.q.Query(ctx, `SELECT id, company_id, purchase_order_id, amount, paid_at, reference, created_by, created_at
		FROM supplier_payments WHERE company_id = $1 AND purchase_order_id = $2
		ORDER BY created_at, id`, companyID, purchaseOrderID)
	if err != nil {
		return nil, fmt.Errorf("list supplier payments: %w", err)
	}
	return scanAll(rows, func(rows pgx.Rows) (*entity.SupplierPayment, error) {
		var p entity.SupplierPayment
		err := rows.Scan(&p.ID, &p.CompanyID, &p.PurchaseOrderID, &p.Amount, &p.PaidAt, &p.Reference, &p.CreatedBy, &p.CreatedAt)
		return &p, err
	})
}

// SequenceRepo consecutivos por empresa y tipo. El upsert serializa a los concurrentes sobre la misma fila.
type SequenceRepo struct {
	q Querier
}

func (r *SequenceRepo) Next(ctx context.Context, companyID, kind string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `INSERT INTO document_sequences (company_id, kind, last_value) VALUES ($1, $2, 1)
		ON CONFLICT (company_id, kind) DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`, companyID, kind).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", kind, err)
	}
	return n, nil
}
