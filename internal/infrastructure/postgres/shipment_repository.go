package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// ShipmentRepo envíos; el historial de eventos se guarda como JSONB.
type ShipmentRepo struct {
	q Querier
}

const shipmentColumns = `id, company_id, reference_type, reference_id, carrier, tracking_number, origin, destination,
	cost, status, events, shipped_at, delivered_at, created_by, mod_flag, del_flag, created_at, updated_at`

func scanShipment(row pgx.Row) (*entity.Shipment, error) {
	var (
		sh     entity.Shipment
		events []byte
	)
	err := row.Scan(&sh.ID, &sh.CompanyID, &sh.ReferenceType, &sh.ReferenceID, &sh.Carrier, &sh.TrackingNumber, &sh.Origin, &sh.Destination,
		&sh.Cost, &sh.Status, &events, &sh.ShippedAt, &sh.DeliveredAt, &sh.CreatedBy, &sh.ModFlag, &sh.DelFlag, &sh.CreatedAt, &sh.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(events) > 0 {
		if err := json.Unmarshal(events, &sh.Events); err != nil {
			return nil, fmt.Errorf("decode shipment events: %w", err)
		}
	}
	return &sh, nil
}

func encodeEvents(events []entity.ShipmentEvent) ([]byte, error) {
	if events == nil {
		events = []entity.ShipmentEvent{}
	}
	return json.Marshal(events)
}

func (r *ShipmentRepo) Create(ctx context.Context, sh *entity.Shipment) error {
	events, err := encodeEvents(sh.Events)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `INSERT INTO shipments (`+shipmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		sh.ID, sh.CompanyID, sh.ReferenceType, sh.ReferenceID, sh.Carrier, sh.TrackingNumber, sh.Origin, sh.Destination,
		sh.Cost, sh.Status, events, sh.ShippedAt, sh.DeliveredAt, sh.CreatedBy, sh.ModFlag, sh.DelFlag, sh.CreatedAt, sh.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert shipment: %w", err)
	}
	return nil
}

func (r *ShipmentRepo) get(ctx context.Context, companyID, id, suffix string) (*entity.Shipment, error) {
	sh, err := scanShipment(r.q.QueryRow(ctx, `SELECT `+shipmentColumns+` FROM shipments
		WHERE company_id = $1 AND id = $2 AND NOT del_flag`+suffix, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	return sh, nil
}

func (r *ShipmentRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Shipment, error) {
	return r.get(ctx, companyID, id, "")
}

func (r *ShipmentRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Shipment, error) {
	return r.get(ctx, companyID, id, " FOR UPDATE")
}

func (r *ShipmentRepo) List(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.Shipment, error) {
	rows, err := r.q.Query(ctx, `SELECT `+shipmentColumns+` FROM shipments
		WHERE company_id = $1 AND NOT del_flag AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`, companyID, status, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	return scanAll(rows, func(rows pgx.Rows) (*entity.Shipment, error) { return scanShipment(rows) })
}

func (r *ShipmentRepo) Update(ctx context.Context, sh *entity.Shipment) error {
	events, err := encodeEvents(sh.Events)
	if err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx, `UPDATE shipments
		SET carrier = $4, tracking_number = $5, origin = $6, destination = $7, cost = $8, status = $9, events = $10,
		    shipped_at = $11, delivered_at = $12, mod_flag = mod_flag + 1, updated_at = $13
		WHERE id = $1 AND company_id = $2 AND mod_flag = $3 AND NOT del_flag`,
		sh.ID, sh.CompanyID, sh.ModFlag, sh.Carrier, sh.TrackingNumber, sh.Origin, sh.Destination, sh.Cost, sh.Status, events,
		sh.ShippedAt, sh.DeliveredAt, sh.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update shipment: %w", err)
	}
	if err := modResult(ctx, r.q, tag, "shipments", sh.CompanyID, sh.ID); err != nil {
		return err
	}
	sh.ModFlag++
	return nil
}
