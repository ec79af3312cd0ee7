// Package pos implementa el punto de venta: cobro con consumo FIFO de lotes,
// anulación con devolución a los lotes de origen y tirilla en PDF.
package pos

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/inventory"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SequenceSale tipo de consecutivo de las ventas.
const SequenceSale = "sale"

var hundred = decimal.NewFromInt(100)

// amountScale decimales de las columnas NUMERIC(18,4) de ventas.
const amountScale = 4

func withinScale(v decimal.Decimal) bool { return v.Equal(v.Round(amountScale)) }

// UseCase casos de uso del punto de venta.
type UseCase struct {
	tx       ports.TxRunner
	repos    ports.Repos
	audit    ports.AuditLogger
	renderer ports.DocumentRenderer
	now      func() time.Time
}

// NewUseCase construye el caso de uso. renderer puede ser nil si no se generan PDF.
func NewUseCase(tx ports.TxRunner, repos ports.Repos, audit ports.AuditLogger, renderer ports.DocumentRenderer) *UseCase {
	return &UseCase{tx: tx, repos: repos, audit: audit, renderer: renderer, now: time.Now}
}

// Checkout cobra una venta. Cada línea consume lotes FIFO dentro de una sola
// transacción y guarda su costo (COGS). Reintentar con la misma idempotency_key
// devuelve la venta original con Replayed = true, sin volver a descontar stock.
func (uc *UseCase) Checkout(ctx context.Context, companyID, cashierID string, in dto.CheckoutRequest) (*dto.SaleResponse, error) {
	if in.IdempotencyKey == "" {
		return nil, fmt.Errorf("%w: idempotency_key requerido", domain.ErrInvalidInput)
	}
	if !entity.IsValidPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("%w: medio de pago %q", domain.ErrInvalidInput, in.PaymentMethod)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la venta no tiene ítems", domain.ErrInvalidInput)
	}
	if in.PaidAmount.IsNegative() || !withinScale(in.PaidAmount) {
		return nil, fmt.Errorf("%w: paid_amount no puede ser negativo ni tener más de %d decimales", domain.ErrInvalidInput, amountScale)
	}
	if prev, err := uc.replay(ctx, companyID, in.IdempotencyKey); prev != nil || err != nil {
		return prev, err
	}
	for i, it := range in.Items {
		if !it.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: ítem %d: la cantidad debe ser mayor que cero", domain.ErrInvalidInput, i+1)
		}
		if it.Discount.IsNegative() || (it.UnitPrice != nil && it.UnitPrice.IsNegative()) {
			return nil, fmt.Errorf("%w: ítem %d: precio y descuento no pueden ser negativos", domain.ErrInvalidInput, i+1)
		}
		if !withinScale(it.Quantity) || !withinScale(it.Discount) || (it.UnitPrice != nil && !withinScale(*it.UnitPrice)) {
			return nil, fmt.Errorf("%w: ítem %d: máximo %d decimales", domain.ErrInvalidInput, i+1, amountScale)
		}
	}
	if in.CustomerID != "" {
		c, err := uc.repos.Customers.GetByID(ctx, companyID, in.CustomerID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("%w: cliente inexistente", domain.ErrInvalidInput)
		}
	}

	now := uc.now()
	sale := &entity.Sale{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		CustomerID:     in.CustomerID,
		CashierID:      cashierID,
		SoldAt:         now,
		IdempotencyKey: in.IdempotencyKey,
		Items:          make([]entity.SaleItem, len(in.Items)),
		PaymentMethod:  in.PaymentMethod,
		Status:         entity.SaleStatusCompleted,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// Los lotes se bloquean en orden de producto para evitar interbloqueos entre cajas.
	order := make([]int, len(in.Items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return in.Items[order[a]].ProductID < in.Items[order[b]].ProductID })

	err := uc.tx.Run(ctx, func(r ports.Repos) error {
		for _, idx := range order {
			line, err := buildLine(ctx, r, companyID, in.Items[idx], idx)
			if err != nil {
				return err
			}
			line.ID = uuid.New().String()
			line.SaleID = sale.ID
			allocs, err := inventory.ConsumeInTx(ctx, r, inventory.ConsumeInput{
				CompanyID:    companyID,
				UserID:       cashierID,
				ProductID:    line.ProductID,
				Quantity:     line.Quantity,
				MovementType: entity.MovementSale,
				Reference:    sale.ID,
				At:           now,
			})
			if err != nil {
				return err
			}
			line.Allocations = allocs
			line.COGS = decimal.Zero
			for _, a := range allocs {
				line.COGS = line.COGS.Add(a.Cost())
			}
			line.COGS = line.COGS.Round(amountScale)
			sale.Items[idx] = *line
		}
		sale.Subtotal, sale.DiscountTotal, sale.TaxTotal, sale.COGSTotal = decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
		for _, it := range sale.Items {
			sale.Subtotal = sale.Subtotal.Add(it.Quantity.Mul(it.UnitPrice).Round(amountScale))
			sale.DiscountTotal = sale.DiscountTotal.Add(it.Discount)
			sale.TaxTotal = sale.TaxTotal.Add(it.Tax)
			sale.COGSTotal = sale.COGSTotal.Add(it.COGS)
		}
		sale.Total = sale.Subtotal.Sub(sale.DiscountTotal).Add(sale.TaxTotal)
		if err := settlePayment(sale, in.PaidAmount); err != nil {
			return err
		}
		n, err := r.Sequences.Next(ctx, companyID, SequenceSale)
		if err != nil {
			return err
		}
		sale.Number = fmt.Sprintf("V-%06d", n)
		return r.Sales.Create(ctx, sale)
	})
	if errors.Is(err, domain.ErrDuplicate) {
		// Otra petición con la misma llave confirmó primero.
		if prev, rerr := uc.replay(ctx, companyID, in.IdempotencyKey); prev != nil || rerr != nil {
			return prev, rerr
		}
	}
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{
		CompanyID: companyID, UserID: cashierID, Entity: "sale", EntityID: sale.ID, Action: entity.AuditCreate,
		Details: map[string]string{"number": sale.Number, "total": sale.Total.StringFixed(2)},
	})
	return ToSaleResponse(sale), nil
}

func (uc *UseCase) replay(ctx context.Context, companyID, key string) (*dto.SaleResponse, error) {
	prev, err := uc.repos.Sales.GetByIdempotencyKey(ctx, companyID, key)
	if err != nil || prev == nil {
		return nil, err
	}
	out := ToSaleResponse(prev)
	out.Replayed = true
	return out, nil
}

// buildLine valida el producto y calcula subtotal e impuesto de la línea.
func buildLine(ctx context.Context, r ports.Repos, companyID string, it dto.CheckoutItemRequest, idx int) (*entity.SaleItem, error) {
	p, err := r.Products.GetByID(ctx, companyID, it.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: ítem %d: producto inexistente", domain.ErrInvalidInput, idx+1)
	}
	price := p.Price
	if it.UnitPrice != nil {
		price = *it.UnitPrice
	}
	gross := it.Quantity.Mul(price).Round(amountScale)
	if it.Discount.GreaterThan(gross) {
		return nil, fmt.Errorf("%w: ítem %d: el descuento supera el valor de la línea", domain.ErrInvalidInput, idx+1)
	}
	subtotal := gross.Sub(it.Discount)
	return &entity.SaleItem{
		ProductID: p.ID,
		Quantity:  it.Quantity,
		UnitPrice: price,
		Discount:  it.Discount,
		TaxRate:   p.TaxRate,
		Subtotal:  subtotal,
		Tax:       subtotal.Mul(p.TaxRate).Div(hundred).Round(2),
	}, nil
}

// settlePayment aplica las reglas del medio de pago: efectivo exige pago completo y
// devuelve vuelto; tarjeta y transferencia cobran el total; crédito admite abono parcial.
func settlePayment(sale *entity.Sale, paid decimal.Decimal) error {
	sale.Change = decimal.Zero
	switch sale.PaymentMethod {
	case entity.PaymentCash:
		if paid.LessThan(sale.Total) {
			return fmt.Errorf("%w: pago en efectivo %s menor que el total %s", domain.ErrInvalidInput, paid.StringFixed(2), sale.Total.StringFixed(2))
		}
		sale.PaidAmount = paid
		sale.Change = paid.Sub(sale.Total)
	case entity.PaymentCard, entity.PaymentTransfer:
		if paid.IsPositive() && !paid.Equal(sale.Total) {
			return fmt.Errorf("%w: el pago con %s debe ser igual al total", domain.ErrInvalidInput, sale.PaymentMethod)
		}
		sale.PaidAmount = sale.Total
	case entity.PaymentCredit:
		if paid.GreaterThan(sale.Total) {
			return fmt.Errorf("%w: el abono supera el total", domain.ErrInvalidInput)
		}
		sale.PaidAmount = paid
	}
	return nil
}

// VoidSale anula una venta devolviendo cada asignación a su lote de origen.
// Anular una venta ya anulada devuelve domain.ErrConflict.
func (uc *UseCase) VoidSale(ctx context.Context, companyID, userID, id string, in dto.VoidSaleRequest) (*dto.SaleResponse, error) {
	if in.Reason == "" {
		return nil, fmt.Errorf("%w: motivo requerido", domain.ErrInvalidInput)
	}
	var sale *entity.Sale
	err := uc.tx.Run(ctx, func(r ports.Repos) error {
		var err error
		sale, err = r.Sales.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.SaleStatusVoided {
			return fmt.Errorf("%w: la venta %s ya está anulada", domain.ErrConflict, sale.Number)
		}
		if sale.ModFlag != in.ModFlag {
			return domain.ErrConflict
		}
		now := uc.now()
		for _, it := range sale.Items {
			if err := inventory.RestoreInTx(ctx, r, inventory.RestoreInput{
				CompanyID:   companyID,
				UserID:      userID,
				ProductID:   it.ProductID,
				Allocations: it.Allocations,
				Reference:   sale.ID,
				At:          now,
			}); err != nil {
				return err
			}
		}
		sale.Status = entity.SaleStatusVoided
		sale.VoidReason = in.Reason
		sale.VoidedAt = &now
		sale.VoidedBy = userID
		sale.UpdatedAt = now
		return r.Sales.MarkVoided(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{
		CompanyID: companyID, UserID: userID, Entity: "sale", EntityID: sale.ID, Action: entity.AuditVoid,
		ModFlag: sale.ModFlag, Details: map[string]string{"reason": in.Reason},
	})
	return ToSaleResponse(sale), nil
}

// GetSale obtiene una venta; nil si no existe en la empresa.
func (uc *UseCase) GetSale(ctx context.Context, companyID, id string) (*dto.SaleResponse, error) {
	sale, err := uc.repos.Sales.GetByID(ctx, companyID, id)
	if err != nil || sale == nil {
		return nil, err
	}
	return ToSaleResponse(sale), nil
}

// ListSales lista ventas por rango de días inclusivo, cajero y estado.
func (uc *UseCase) ListSales(ctx context.Context, companyID string, q dto.SaleListQuery) (*dto.SaleListResponse, error) {
	from, to, err := q.DateRange.Bounds(time.Local)
	if err != nil {
		return nil, err
	}
	q.DefaultPage()
	list, err := uc.repos.Sales.List(ctx, entity.SaleFilter{
		CompanyID: companyID,
		CashierID: q.CashierID,
		Status:    q.Status,
		From:      from,
		To:        to,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{Items: make([]dto.SaleResponse, 0, len(list)), Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}}
	for _, s := range list {
		out.Items = append(out.Items, *ToSaleResponse(s))
	}
	return out, nil
}

// Receipt genera la tirilla PDF de la venta.
func (uc *UseCase) Receipt(ctx context.Context, companyID, id string) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("%w: generación de PDF no configurada", domain.ErrInvalidInput)
	}
	sale, err := uc.repos.Sales.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	company, err := uc.repos.Companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	names := make(map[string]string, len(sale.Items))
	for _, it := range sale.Items {
		if _, ok := names[it.ProductID]; ok {
			continue
		}
		p, err := uc.repos.Products.GetByID(ctx, companyID, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			names[it.ProductID] = p.Name
		}
	}
	return uc.renderer.Receipt(company, sale, names)
}

// ToSaleResponse convierte la venta en su DTO.
func ToSaleResponse(s *entity.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			TaxRate:     it.TaxRate,
			Subtotal:    it.Subtotal,
			Tax:         it.Tax,
			COGS:        it.COGS,
			Allocations: inventory.ToAllocationResponses(it.Allocations),
		})
	}
	return &dto.SaleResponse{
		ID:            s.ID,
		Number:        s.Number,
		CustomerID:    s.CustomerID,
		CashierID:     s.CashierID,
		SoldAt:        s.SoldAt,
		Items:         items,
		Subtotal:      s.Subtotal,
		DiscountTotal: s.DiscountTotal,
		TaxTotal:      s.TaxTotal,
		Total:         s.Total,
		COGSTotal:     s.COGSTotal,
		PaidAmount:    s.PaidAmount,
		Change:        s.Change,
		Receivable:    s.Receivable(),
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		VoidReason:    s.VoidReason,
		VoidedAt:      s.VoidedAt,
		ModFlag:       s.ModFlag,
	}
}
