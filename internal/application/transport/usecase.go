// Package transport gestiona el seguimiento de envíos de ventas y órdenes de compra.
package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// UseCase casos de uso de envíos.
type UseCase struct {
	tx    ports.TxRunner
	repos ports.Repos
	audit ports.AuditLogger
	now   func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner, repos ports.Repos, audit ports.AuditLogger) *UseCase {
	return &UseCase{tx: tx, repos: repos, audit: audit, now: time.Now}
}

func (uc *UseCase) referenceExists(ctx context.Context, r ports.Repos, companyID, refType, refID string) (bool, error) {
	switch refType {
	case entity.ShipmentRefSale:
		s, err := r.Sales.GetByID(ctx, companyID, refID)
		return s != nil, err
	case entity.ShipmentRefPurchaseOrder:
		po, err := r.PurchaseOrders.GetByID(ctx, companyID, refID)
		return po != nil, err
	}
	return false, nil
}

// Create registra un envío pendiente. Si tiene costo, genera en la misma transacción
// un gasto de categoría transport referenciado al envío.
func (uc *UseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateShipmentRequest) (*dto.ShipmentResponse, error) {
	if in.Cost.IsNegative() {
		return nil, fmt.Errorf("%w: el costo no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.Carrier == "" || in.Destination == "" {
		return nil, fmt.Errorf("%w: transportadora y destino son obligatorios", domain.ErrInvalidInput)
	}
	now := uc.now()
	sh := &entity.Shipment{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		ReferenceType:  in.ReferenceType,
		ReferenceID:    in.ReferenceID,
		Carrier:        in.Carrier,
		TrackingNumber: in.TrackingNumber,
		Origin:         in.Origin,
		Destination:    in.Destination,
		Cost:           in.Cost,
		Status:         entity.ShipmentPending,
		Events:         []entity.ShipmentEvent{{Status: entity.ShipmentPending, At: now}},
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := uc.tx.Run(ctx, func(r ports.Repos) error {
		ok, err := uc.referenceExists(ctx, r, companyID, in.ReferenceType, in.ReferenceID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s %s inexistente", domain.ErrInvalidInput, in.ReferenceType, in.ReferenceID)
		}
		if err := r.Shipments.Create(ctx, sh); err != nil {
			return err
		}
		if !in.Cost.IsPositive() {
			return nil
		}
		return r.Expenses.Create(ctx, &entity.Expense{
			ID:          uuid.New().String(),
			CompanyID:   companyID,
			Category:    entity.ExpenseCategoryTransport,
			Description: fmt.Sprintf("Envío %s %s", sh.Carrier, sh.TrackingNumber),
			Amount:      in.Cost,
			SpentAt:     now,
			Reference:   sh.ID,
			CreatedBy:   userID,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{
		CompanyID: companyID, UserID: userID, Entity: "shipment", EntityID: sh.ID, Action: entity.AuditCreate,
		Details: map[string]string{"reference_type": sh.ReferenceType, "reference_id": sh.ReferenceID},
	})
	return ToShipmentResponse(sh), nil
}

// UpdateStatus avanza el envío. Las transiciones no permitidas devuelven
// domain.ErrInvalidTransition; al cancelar se anula el gasto de transporte asociado.
func (uc *UseCase) UpdateStatus(ctx context.Context, companyID, userID, id string, in dto.ShipmentStatusRequest) (*dto.ShipmentResponse, error) {
	var sh *entity.Shipment
	err := uc.tx.Run(ctx, func(r ports.Repos) error {
		var err error
		sh, err = r.Shipments.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if sh == nil {
			return domain.ErrNotFound
		}
		if sh.ModFlag != in.ModFlag {
			return domain.ErrConflict
		}
		if !entity.CanTransition(sh.Status, in.Status) {
			return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, sh.Status, in.Status)
		}
		now := uc.now()
		sh.Status = in.Status
		sh.Events = append(sh.Events, entity.ShipmentEvent{Status: in.Status, Note: in.Note, At: now})
		switch in.Status {
		case entity.ShipmentInTransit:
			sh.ShippedAt = &now
		case entity.ShipmentDelivered:
			sh.DeliveredAt = &now
		case entity.ShipmentCancelled:
			exp, err := r.Expenses.GetByReference(ctx, companyID, sh.ID)
			if err != nil {
				return err
			}
			if exp != nil {
				if err := r.Expenses.Delete(ctx, companyID, exp.ID, exp.ModFlag); err != nil {
					return err
				}
			}
		}
		sh.UpdatedAt = now
		return r.Shipments.Update(ctx, sh)
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{
		CompanyID: companyID, UserID: userID, Entity: "shipment", EntityID: sh.ID, Action: entity.AuditStatus,
		ModFlag: sh.ModFlag, Details: map[string]string{"status": sh.Status},
	})
	return ToShipmentResponse(sh), nil
}

// Get obtiene un envío; nil si no existe.
func (uc *UseCase) Get(ctx context.Context, companyID, id string) (*dto.ShipmentResponse, error) {
	sh, err := uc.repos.Shipments.GetByID(ctx, companyID, id)
	if err != nil || sh == nil {
		return nil, err
	}
	return ToShipmentResponse(sh), nil
}

// List lista envíos, opcionalmente por estado.
func (uc *UseCase) List(ctx context.Context, companyID, status string, page dto.PageRequest) ([]dto.ShipmentResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Shipments.List(ctx, companyID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShipmentResponse, 0, len(list))
	for _, sh := range list {
		out = append(out, *ToShipmentResponse(sh))
	}
	return out, nil
}

// ToShipmentResponse convierte el envío en su DTO.
func ToShipmentResponse(sh *entity.Shipment) *dto.ShipmentResponse {
	return &dto.ShipmentResponse{
		ID:             sh.ID,
		ReferenceType:  sh.ReferenceType,
		ReferenceID:    sh.ReferenceID,
		Carrier:        sh.Carrier,
		TrackingNumber: sh.TrackingNumber,
		Origin:         sh.Origin,
		Destination:    sh.Destination,
		Cost:           sh.Cost,
		Status:         sh.Status,
		Events:         sh.Events,
		ShippedAt:      sh.ShippedAt,
		DeliveredAt:    sh.DeliveredAt,
		ModFlag:        sh.ModFlag,
		CreatedAt:      sh.CreatedAt,
	}
}
