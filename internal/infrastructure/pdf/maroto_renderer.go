// Package pdf genera los documentos imprimibles del comercio con Maroto v2:
// la tirilla de venta del punto de venta y los desprendibles de nómina.
//
// Layout de la tirilla (A4 vertical):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón social + NIT   │  N° venta + fecha           │
//	│  TABLA: Cant | Producto | P.Unit | Desc. | IVA | Subtotal    │
//	│  TOTALES: Subtotal / Descuentos / Impuestos / TOTAL           │
//	│  PAGO: medio, recibido, vuelto   │  QR con el id de la venta │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

var _ ports.DocumentRenderer = (*MarotoRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var paymentLabels = map[string]string{
	entity.PaymentCash:     "Efectivo",
	entity.PaymentCard:     "Tarjeta",
	entity.PaymentTransfer: "Transferencia",
	entity.PaymentCredit:   "Crédito",
}

// MarotoRenderer implementa ports.DocumentRenderer usando Maroto v2.
type MarotoRenderer struct {
	printer *message.Printer
}

// NewMarotoRenderer construye el renderizador con separadores de miles en español.
func NewMarotoRenderer() *MarotoRenderer {
	return &MarotoRenderer{printer: message.NewPrinter(language.Spanish)}
}

func (g *MarotoRenderer) document(title string, company *entity.Company) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(company.Name, true).
		Build()
	return maroto.New(cfg)
}

// Receipt genera la tirilla de una venta. productNames mapea product_id → nombre.
func (g *MarotoRenderer) Receipt(company *entity.Company, sale *entity.Sale, productNames map[string]string) ([]byte, error) {
	if company == nil || sale == nil {
		return nil, fmt.Errorf("pdf: tirilla sin empresa o venta")
	}
	m := g.document("Comprobante de venta "+sale.Number, company)

	m.AddRows(g.headerRow(company, "COMPROBANTE DE VENTA", sale.Number, sale.SoldAt.Format("02/01/2006 15:04")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if sale.Status == entity.SaleStatusVoided {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("VENTA ANULADA: "+sale.VoidReason, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Center, Top: 2,
			}),
		)))
	}

	m.AddRows(saleHeaderRow())
	for _, it := range sale.Items {
		m.AddRows(g.saleItemRow(it, nonEmpty(productNames[it.ProductID], it.ProductID)))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(
		[]string{"Subtotal:", "Descuentos:", "Impuestos:"},
		[]decimal.Decimal{sale.Subtotal, sale.DiscountTotal, sale.TaxTotal},
		"TOTAL:", sale.Total,
	))
	m.AddRows(line.NewRow(3))
	m.AddRows(g.paymentRow(sale))

	return generate(m)
}

// Payslips genera un desprendible por empleado, uno por página.
func (g *MarotoRenderer) Payslips(company *entity.Company, run *entity.PayrollRun) ([]byte, error) {
	if company == nil || run == nil {
		return nil, fmt.Errorf("pdf: desprendibles sin empresa o liquidación")
	}
	m := g.document("Nómina "+run.Period, company)

	for _, l := range run.Lines {
		m.AddPages(page.New().Add(
			g.headerRow(company, "DESPRENDIBLE DE NÓMINA", "Período "+run.Period, run.RunAt.Format("02/01/2006")),
			line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}),
			row.New(12).Add(col.New(12).Add(
				text.New("EMPLEADO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
				text.New(l.EmployeeName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			)),
			line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}),
			g.totalsRow(
				[]string{"Salario base:", "Devengos:", "Deducciones:"},
				[]decimal.Decimal{l.BaseSalary, l.Allowances, l.Deductions.Neg()},
				"NETO A PAGAR:", l.NetPay,
			),
		))
	}
	if len(run.Lines) == 0 {
		m.AddRows(g.headerRow(company, "NÓMINA", "Período "+run.Period, run.RunAt.Format("02/01/2006")))
	}
	return generate(m)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: razón social + NIT (izq) y título, número y fecha (der).
func (g *MarotoRenderer) headerRow(company *entity.Company, title, number, date string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+nonEmpty(company.TaxID, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+date, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func saleHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 4, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Desc.", 2, align.Right),
		h("IVA%", 1, align.Center),
		h("Subtotal", 2, align.Right),
	)
}

func (g *MarotoRenderer) saleItemRow(it entity.SaleItem, name string) core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	return row.New(7).Add(
		cell(it.Quantity.String(), 1, align.Center),
		cell(name, 4, align.Left),
		cell(g.money(it.UnitPrice), 2, align.Right),
		cell(g.money(it.Discount), 2, align.Right),
		cell(it.TaxRate.String()+"%", 1, align.Center),
		cell(g.money(it.Subtotal), 2, align.Right),
	)
}

// totalsRow: etiquetas y valores alineados a la derecha con un total destacado.
func (g *MarotoRenderer) totalsRow(labels []string, values []decimal.Decimal, grandLabel string, grand decimal.Decimal) core.Row {
	labelCol := col.New(3)
	valueCol := col.New(3)
	top := 0.0
	for i := range labels {
		labelCol.Add(text.New(labels[i], props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top}))
		valueCol.Add(text.New(g.money(values[i]), props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}))
		top += 5
	}
	labelCol.Add(text.New(grandLabel, props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: top,
	}))
	valueCol.Add(text.New(g.money(grand), props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: top,
	}))
	return row.New(top+8).Add(col.New(3), labelCol, valueCol, col.New(3))
}

// paymentRow: medio de pago, recibido y vuelto (izq) + QR con el id de la venta (der).
func (g *MarotoRenderer) paymentRow(sale *entity.Sale) core.Row {
	details := fmt.Sprintf("Medio de pago: %s\nRecibido: %s\nVuelto: %s",
		nonEmpty(paymentLabels[sale.PaymentMethod], sale.PaymentMethod),
		g.money(sale.PaidAmount), g.money(sale.Change))
	if pending := sale.Receivable(); pending.IsPositive() {
		details += "\nSaldo por cobrar: " + g.money(pending)
	}
	return row.New(35).Add(
		col.New(8).Add(text.New(details, props.Text{Size: 9, Top: 2, Color: colorGray})),
		col.New(4).Add(code.NewQr(sale.ID, props.Rect{Percent: 90, Center: true})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea con separador de miles y sin decimales. Ej: 25000 → "$25.000".
func (g *MarotoRenderer) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$%d", d.Round(0).IntPart())
}
