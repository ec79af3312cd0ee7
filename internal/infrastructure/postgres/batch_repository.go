package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var (
	_ repository.BatchRepository    = (*BatchRepo)(nil)
	_ repository.MovementRepository = (*MovementRepo)(nil)
)

// BatchRepo lotes de inventario. Los Lock* requieren un Querier transaccional.
type BatchRepo struct {
	q Querier
}

const batchColumns = `id, company_id, product_id, batch_number, purchase_order_id, received_at, expires_at,
	quantity_received, quantity_remaining, unit_cost, selling_price, mod_flag, del_flag, created_at, updated_at`

// fifoOrder orden de consumo: recepción, luego creación, luego id.
const fifoOrder = ` ORDER BY received_at, created_at, id`

func scanBatch(row pgx.Row) (entity.ProductBatch, error) {
	var b entity.ProductBatch
	err := row.Scan(&b.ID, &b.CompanyID, &b.ProductID, &b.BatchNumber, &b.PurchaseOrderID, &b.ReceivedAt, &b.ExpiresAt,
		&b.QuantityReceived, &b.QuantityRemaining, &b.UnitCost, &b.SellingPrice, &b.ModFlag, &b.DelFlag, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *BatchRepo) Create(ctx context.Context, b *entity.ProductBatch) error {
	_, err := r.q.Exec(ctx, `INSERT INTO product_batches (`+batchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		b.ID, b.CompanyID, b.ProductID, b.BatchNumber, b.PurchaseOrderID, b.ReceivedAt, b.ExpiresAt,
		b.QuantityReceived, b.QuantityRemaining, b.UnitCost, b.SellingPrice, b.ModFlag, b.DelFlag, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

func (r *BatchRepo) GetByID(ctx context.Context, companyID, id string) (*entity.ProductBatch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+` FROM product_batches
		WHERE company_id = $1 AND id = $2 AND NOT del_flag`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return &b, nil
}

func (r *BatchRepo) query(ctx context.Context, op, sql string, args ...any) ([]entity.ProductBatch, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return scanAll(rows, func(rows pgx.Rows) (entity.ProductBatch, error) { return scanBatch(rows) })
}

func (r *BatchRepo) ListByProduct(ctx context.Context, companyID, productID string, openOnly bool) ([]entity.ProductBatch, error) {
	return r.query(ctx, "list batches", `SELECT `+batchColumns+` FROM product_batches
		WHERE company_id = $1 AND product_id = $2 AND NOT del_flag
		  AND (NOT $3 OR quantity_remaining > 0)`+fifoOrder, companyID, productID, openOnly)
}

// LockOpenByProduct bloquea las filas en el mismo orden en que se consumen.
func (r *BatchRepo) LockOpenByProduct(ctx context.Context, companyID, productID string) ([]entity.ProductBatch, error) {
	return r.query(ctx, "lock open batches", `SELECT `+batchColumns+` FROM product_batches
		WHERE company_id = $1 AND product_id = $2 AND NOT del_flag AND quantity_remaining > 0`+fifoOrder+`
		FOR UPDATE`, companyID, productID)
}

// LockByIDs incluye lotes eliminados: una anulación debe poder devolver unidades a cualquier lote.
func (r *BatchRepo) LockByIDs(ctx context.Context, companyID string, ids []string) ([]entity.ProductBatch, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.query(ctx, "lock batches", `SELECT `+batchColumns+` FROM product_batches
		WHERE company_id = $1 AND id = ANY($2) ORDER BY id FOR UPDATE`, companyID, ids)
}

func (r *BatchRepo) UpdateRemaining(ctx context.Context, b *entity.ProductBatch) error {
	err := r.q.QueryRow(ctx, `UPDATE product_batches
		SET quantity_remaining = $3, mod_flag = mod_flag + 1, updated_at = $4
		WHERE company_id = $1 AND id = $2
		RETURNING mod_flag`, b.CompanyID, b.ID, b.QuantityRemaining, b.UpdatedAt).Scan(&b.ModFlag)
	if err != nil {
		if isNoRows(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update batch remaining: %w", err)
	}
	return nil
}

func (r *BatchRepo) ListExpiring(ctx context.Context, companyID string, before time.Time) ([]entity.ProductBatch, error) {
	return r.query(ctx, "list expiring batches", `SELECT `+batchColumns+` FROM product_batches
		WHERE company_id = $1 AND NOT del_flag AND quantity_remaining > 0
		  AND expires_at IS NOT NULL AND expires_at <= $2
		ORDER BY expires_at, id`, companyID, before)
}

// MovementRepo kardex de movimientos. Solo inserción.
type MovementRepo struct {
	q Querier
}

const movementColumns = `id, company_id, product_id, batch_id, type, quantity, unit_cost, reference, created_by, created_at`

func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx, `INSERT INTO stock_movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.CompanyID, m.ProductID, m.BatchID, m.Type, m.Quantity, m.UnitCost, m.Reference, m.CreatedBy, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func (r *MovementRepo) ListByProduct(ctx context.Context, companyID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `SELECT `+movementColumns+` FROM stock_movements
		WHERE company_id = $1 AND product_id = $2
		ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`, companyID, productID, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return scanAll(rows, func(rows pgx.Rows) (*entity.StockMovement, error) {
		var m entity.StockMovement
		err := rows.Scan(&m.ID, &m.CompanyID, &m.ProductID, &m.BatchID, &m.Type, &m.Quantity, &m.UnitCost, &m.Reference, &m.CreatedBy, &m.CreatedAt)
		return &m, err
	})
}
