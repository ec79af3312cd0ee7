// Package purchasing gestiona órdenes de compra a proveedores: borrador, pedido,
// recepción (que crea los lotes de inventario) y pagos.
package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/inventory"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SequencePurchaseOrder tipo de consecutivo de las órdenes de compra.
const SequencePurchaseOrder = "purchase_order"

// UseCase casos de uso de compras.
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

func (uc *UseCase) record(ctx context.Context, po *entity.PurchaseOrder, userID, action string, details map[string]string) {
	uc.audit.Record(ctx, ports.AuditRecord{
		CompanyID: po.CompanyID, UserID: userID, Entity: "purchase_order", EntityID: po.ID,
		Action: action, ModFlag: po.ModFlag, Details: details,
	})
}

// Create registra una orden en borrador. Proveedor y productos deben ser de la empresa.
func (uc *UseCase) Create(ctx context.Context, companyID, userID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	supplier, err := uc.repos.Suppliers.GetByID(ctx, companyID, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor inexistente", domain.ErrInvalidInput)
	}
	now := uc.now()
	po := &entity.PurchaseOrder{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		SupplierID:    supplier.ID,
		Status:        entity.POStatusDraft,
		OrderDate:     now,
		ExpectedDate:  in.ExpectedDate,
		Total:         decimal.Zero,
		PaidAmount:    decimal.Zero,
		PaymentStatus: entity.PaymentUnpaid,
		Notes:         in.Notes,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.OrderDate != nil {
		po.OrderDate = *in.OrderDate
	}
	for i, it := range in.Items {
		if !it.Quantity.IsPositive() || it.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: ítem %d: cantidad > 0 y costo >= 0", domain.ErrInvalidInput, i+1)
		}
		p, err := uc.repos.Products.GetByID(ctx, companyID, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: ítem %d: producto inexistente", domain.ErrInvalidInput, i+1)
		}
		price := p.Price
		if it.SellingPrice != nil {
			price = *it.SellingPrice
		}
		item := entity.PurchaseOrderItem{
			ID:              uuid.New().String(),
			PurchaseOrderID: po.ID,
			ProductID:       p.ID,
			Quantity:        it.Quantity,
			UnitCost:        it.UnitCost,
			SellingPrice:    price,
			BatchNumber:     it.BatchNumber,
			ExpiresAt:       it.ExpiresAt,
		}
		po.Items = append(po.Items, item)
		po.Total = po.Total.Add(item.Subtotal())
	}

	err = uc.tx.Run(ctx, func(r ports.Repos) error {
		n, err := r.Sequences.Next(ctx, companyID, SequencePurchaseOrder)
		if err != nil {
			return err
		}
		po.Number = fmt.Sprintf("OC-%06d", n)
		return r.PurchaseOrders.Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	uc.record(ctx, po, userID, entity.AuditCreate, map[string]string{"number": po.Number})
	return ToPurchaseOrderResponse(po), nil
}

// Get obtiene una orden con sus ítems; nil si no existe en la empresa.
func (uc *UseCase) Get(ctx context.Context, companyID, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.repos.PurchaseOrders.GetByID(ctx, companyID, id)
	if err != nil || po == nil {
		return nil, err
	}
	return ToPurchaseOrderResponse(po), nil
}

// List lista órdenes, opcionalmente filtradas por estado.
func (uc *UseCase) List(ctx context.Context, companyID, status string, page dto.PageRequest) ([]dto.PurchaseOrderResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.PurchaseOrders.List(ctx, companyID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		out = append(out, *ToPurchaseOrderResponse(po))
	}
	return out, nil
}

// transition aplica un cambio de estado bajo bloqueo, validando mod_flag y el estado previo.
func (uc *UseCase) transition(ctx context.Context, companyID, id string, modFlag int, fn func(r ports.Repos, po *entity.PurchaseOrder) error) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := uc.tx.Run(ctx, func(r ports.Repos) error {
		po, err := r.PurchaseOrders.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if po.ModFlag != modFlag {
			return domain.ErrConflict
		}
		if err := fn(r, po); err != nil {
			return err
		}
		po.UpdatedAt = uc.now()
		if err := r.PurchaseOrders.Update(ctx, po); err != nil {
			return err
		}
		out = po
		return nil
	})
	return out, err
}

// MarkOrdered pasa la orden de borrador a pedida.
func (uc *UseCase) MarkOrdered(ctx context.Context, companyID, userID, id string, modFlag int) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.transition(ctx, companyID, id, modFlag, func(_ ports.Repos, po *entity.PurchaseOrder) error {
		if po.Status != entity.POStatusDraft {
			return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, po.Status, entity.POStatusOrdered)
		}
		po.Status = entity.POStatusOrdered
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.record(ctx, po, userID, entity.AuditStatus, map[string]string{"status": po.Status})
	return ToPurchaseOrderResponse(po), nil
}

// Receive recibe la orden pedida: crea un lote por ítem con su movimiento PURCHASE,
// todo en una transacción. Recibir una orden ya recibida devuelve domain.ErrConflict.
func (uc *UseCase) Receive(ctx context.Context, companyID, userID, id string, modFlag int) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.transition(ctx, companyID, id, modFlag, func(r ports.Repos, po *entity.PurchaseOrder) error {
		switch po.Status {
		case entity.POStatusReceived:
			return fmt.Errorf("%w: la orden %s ya fue recibida", domain.ErrConflict, po.Number)
		case entity.POStatusOrdered:
		default:
			return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, po.Status, entity.POStatusReceived)
		}
		now := uc.now()
		for _, it := range po.Items {
			if _, err := inventory.ReceiveInTx(ctx, r, inventory.ReceiveInput{
				CompanyID:       companyID,
				UserID:          userID,
				ProductID:       it.ProductID,
				BatchNumber:     it.BatchNumber,
				PurchaseOrderID: po.ID,
				Quantity:        it.Quantity,
				UnitCost:        it.UnitCost,
				SellingPrice:    it.SellingPrice,
				ReceivedAt:      now,
				ExpiresAt:       it.ExpiresAt,
				MovementType:    entity.MovementPurchase,
				Reference:       po.ID,
			}); err != nil {
				return err
			}
		}
		po.Status = entity.POStatusReceived
		po.ReceivedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.record(ctx, po, userID, entity.AuditReceive, map[string]string{"items": fmt.Sprint(len(po.Items))})
	return ToPurchaseOrderResponse(po), nil
}

// Cancel anula una orden en borrador o pedida.
func (uc *UseCase) Cancel(ctx context.Context, companyID, userID, id string, modFlag int) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.transition(ctx, companyID, id, modFlag, func(_ ports.Repos, po *entity.PurchaseOrder) error {
		if po.Status != entity.POStatusDraft && po.Status != entity.POStatusOrdered {
			return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, po.Status, entity.POStatusCancelled)
		}
		if po.PaidAmount.IsPositive() {
			return fmt.Errorf("%w: la orden tiene pagos registrados", domain.ErrConflict)
		}
		po.Status = entity.POStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.record(ctx, po, userID, entity.AuditStatus, map[string]string{"status": po.Status})
	return ToPurchaseOrderResponse(po), nil
}

// RegisterPayment registra un pago al proveedor. El acumulado no puede superar el
// total de la orden; las órdenes en borrador o anuladas no admiten pagos.
func (uc *UseCase) RegisterPayment(ctx context.Context, companyID, userID, id string, in dto.SupplierPaymentRequest) (*dto.SupplierPaymentResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser mayor que cero", domain.ErrInvalidInput)
	}
	now := uc.now()
	payment := &entity.SupplierPayment{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		PurchaseOrderID: id,
		Amount:          in.Amount,
		PaidAt:          now,
		Reference:       in.Reference,
		CreatedBy:       userID,
		CreatedAt:       now,
	}
	if in.PaidAt != nil {
		payment.PaidAt = *in.PaidAt
	}
	var po *entity.PurchaseOrder
	err := uc.tx.Run(ctx, func(r ports.Repos) error {
		var err error
		po, err = r.PurchaseOrders.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if po.Status != entity.POStatusOrdered && po.Status != entity.POStatusReceived {
			return fmt.Errorf("%w: la orden está en estado %s", domain.ErrInvalidTransition, po.Status)
		}
		paid := po.PaidAmount.Add(in.Amount)
		if paid.GreaterThan(po.Total) {
			return fmt.Errorf("%w: el pago supera el saldo %s", domain.ErrInvalidInput, po.Balance().String())
		}
		if err := r.PurchaseOrders.CreatePayment(ctx, payment); err != nil {
			return err
		}
		po.PaidAmount = paid
		po.PaymentStatus = entity.PaymentStatusFor(po.Total, paid)
		po.UpdatedAt = now
		return r.PurchaseOrders.Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	uc.record(ctx, po, userID, entity.AuditUpdate, map[string]string{"payment": in.Amount.String(), "payment_status": po.PaymentStatus})
	return toPaymentResponse(payment), nil
}

// ListPayments pagos registrados contra la orden.
func (uc *UseCase) ListPayments(ctx context.Context, companyID, id string) ([]dto.SupplierPaymentResponse, error) {
	po, err := uc.repos.PurchaseOrders.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.repos.PurchaseOrders.ListPayments(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierPaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPaymentResponse(p))
	}
	return out, nil
}

// ToPurchaseOrderResponse convierte la orden en su DTO.
func ToPurchaseOrderResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	items := make([]dto.PurchaseOrderItemResponse, 0, len(po.Items))
	for _, it := range po.Items {
		items = append(items, dto.PurchaseOrderItemResponse{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			UnitCost:     it.UnitCost,
			SellingPrice: it.SellingPrice,
			Subtotal:     it.Subtotal(),
			BatchNumber:  it.BatchNumber,
			ExpiresAt:    it.ExpiresAt,
		})
	}
	return &dto.PurchaseOrderResponse{
		ID:            po.ID,
		Number:        po.Number,
		SupplierID:    po.SupplierID,
		Status:        po.Status,
		OrderDate:     po.OrderDate,
		ExpectedDate:  po.ExpectedDate,
		ReceivedAt:    po.ReceivedAt,
		Items:         items,
		Total:         po.Total,
		PaidAmount:    po.PaidAmount,
		Balance:       po.Balance(),
		PaymentStatus: po.PaymentStatus,
		Notes:         po.Notes,
		ModFlag:       po.ModFlag,
		CreatedAt:     po.CreatedAt,
	}
}

func toPaymentResponse(p *entity.SupplierPayment) *dto.SupplierPaymentResponse {
	return &dto.SupplierPaymentResponse{
		ID: p.ID, PurchaseOrderID: p.PurchaseOrderID, Amount: p.Amount, PaidAt: p.PaidAt, Reference: p.Reference,
	}
}
