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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas con líneas y asignaciones de lote.
type SaleRepo struct {
	q Querier
}

const saleColumns = `id, company_id, number, customer_id, cashier_id, sold_at, idempotency_key,
	subtotal, discount_total, tax_total, total, cogs_total, paid_amount, change, payment_method,
	status, void_reason, voided_at, voided_by, mod_flag, created_at, updated_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.CompanyID, &s.Number, &s.CustomerID, &s.CashierID, &s.SoldAt, &s.IdempotencyKey,
		&s.Subtotal, &s.DiscountTotal, &s.TaxTotal, &s.Total, &s.COGSTotal, &s.PaidAmount, &s.Change, &s.PaymentMethod,
		&s.Status, &s.VoidReason, &s.VoidedAt, &s.VoidedBy, &s.ModFlag, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta cabecera, líneas y asignaciones. Clave de idempotencia repetida → domain.ErrDuplicate.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
		s.ID, s.CompanyID, s.Number, s.CustomerID, s.CashierID, s.SoldAt, s.IdempotencyKey,
		s.Subtotal, s.DiscountTotal, s.TaxTotal, s.Total, s.COGSTotal, s.PaidAmount, s.Change, s.PaymentMethod,
		s.Status, s.VoidReason, s.VoidedAt, s.VoidedBy, s.ModFlag, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	for i := range s.Items {
		it := &s.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.SaleID = s.ID
		_, err := r.q.Exec(ctx, `INSERT INTO sale_items
			(id, sale_id, product_id, quantity, unit_price, discount, tax_rate, subtotal, tax, cogs, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			it.ID, s.ID, it.ProductID, it.Quantity, it.UnitPrice, it.Discount, it.TaxRate, it.Subtotal, it.Tax, it.COGS, i)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
		for j, a := range it.Allocations {
			_, err := r.q.Exec(ctx, `INSERT INTO sale_item_allocations (sale_item_id, batch_id, quantity, unit_cost, position)
				VALUES ($1, $2, $3, $4, $5)`, it.ID, a.BatchID, a.Quantity, a.UnitCost, j)
			if err != nil {
				return fmt.Errorf("insert sale allocation: %w", err)
			}
		}
	}
	return nil
}

// loadItems carga líneas y asignaciones en dos consultas.
func (r *SaleRepo) loadItems(ctx context.Context, s *entity.Sale) error {
	rows, err := r.q.Query(ctx, `SELECT id, sale_id, product_id, quantity, unit_price, discount, tax_rate, subtotal, tax, cogs
		FROM sale_items WHERE sale_id = $1 ORDER BY position`, s.ID)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	items, err := scanAll(rows, func(rows pgx.Rows) (entity.SaleItem, error) {
		var it entity.SaleItem
		err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Discount, &it.TaxRate, &it.Subtotal, &it.Tax, &it.COGS)
		return it, err
	})
	if err != nil {
		return err
	}

	rows, err = r.q.Query(ctx, `SELECT a.sale_item_id, a.batch_id, a.quantity, a.unit_cost
		FROM sale_item_allocations a JOIN sale_items i ON i.id = a.sale_item_id
		WHERE i.sale_id = $1 ORDER BY i.position, a.position`, s.ID)
	if err != nil {
		return fmt.Errorf("list sale allocations: %w", err)
	}
	type alloc struct {
		itemID string
		entity.BatchAllocation
	}
	allocs, err := scanAll(rows, func(rows pgx.Rows) (alloc, error) {
		var a alloc
		err := rows.Scan(&a.itemID, &a.BatchID, &a.Quantity, &a.UnitCost)
		return a, err
	})
	if err != nil {
		return err
	}
	byItem := make(map[string]int, len(items))
	for i := range items {
		byItem[items[i].ID] = i
	}
	for _, a := range allocs {
		if i, ok := byItem[a.itemID]; ok {
			items[i].Allocations = append(items[i].Allocations, a.BatchAllocation)
		}
	}
	s.Items = items
	return nil
}

func (r *SaleRepo) getOne(ctx context.Context, where string, args ...any) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE `+where, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadItems(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `company_id = $1 AND id = $2`, companyID, id)
}

func (r *SaleRepo) GetByIdempotencyKey(ctx context.Context, companyID, key string) (*entity.Sale, error) {
	if key == "" {
		return nil, nil
	}
	return r.getOne(ctx, `company_id = $1 AND idempotency_key = $2`, companyID, key)
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `company_id = $1 AND id = $2 FOR UPDATE`, companyID, id)
}

// List filtra por cajero, estado y rango [From, To) sobre sold_at. Devuelve cabeceras con líneas.
func (r *SaleRepo) List(ctx context.Context, f entity.SaleFilter) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM sales
		WHERE company_id = $1
		  AND ($2 = '' OR cashier_id = $2)
		  AND ($3 = '' OR status = $3)
		  AND ($4::timestamptz IS NULL OR sold_at >= $4)
		  AND ($5::timestamptz IS NULL OR sold_at < $5)
		ORDER BY sold_at DESC, id LIMIT $6 OFFSET $7`,
		f.CompanyID, f.CashierID, f.Status, f.From, f.To, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	list, err := scanAll(rows, func(rows pgx.Rows) (*entity.Sale, error) { return scanSale(rows) })
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		if err := r.loadItems(ctx, s); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// MarkVoided persiste la anulación. Las ventas no se borran, así que cero filas con la venta existente es conflicto.
func (r *SaleRepo) MarkVoided(ctx context.Context, s *entity.Sale) error {
	err := r.q.QueryRow(ctx, `UPDATE sales
		SET status = $4, void_reason = $5, voided_at = $6, voided_by = $7, mod_flag = mod_flag + 1, updated_at = $8
		WHERE id = $1 AND company_id = $2 AND mod_flag = $3
		RETURNING mod_flag`,
		s.ID, s.CompanyID, s.ModFlag, s.Status, s.VoidReason, s.VoidedAt, s.VoidedBy, s.UpdatedAt,
	).Scan(&s.ModFlag)
	if err == nil {
		return nil
	}
	if !isNoRows(err) {
		return fmt.Errorf("void sale: %w", err)
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sales WHERE id = $1 AND company_id = $2)`,
		s.ID, s.CompanyID).Scan(&exists); err != nil {
		return fmt.Errorf("check sales: %w", err)
	}
	if exists {
		return domain.ErrConflict
	}
	return domain.ErrNotFound
}
