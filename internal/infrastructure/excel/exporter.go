// Package excel genera libros XLSX con excelize a partir de hojas tabulares.
package excel

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Comercio-api/internal/application/ports"
)

var _ ports.SpreadsheetExporter = Exporter{}

// ContentType tipo MIME de los libros generados.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// defaultSheet hoja que excelize crea con cada libro nuevo.
const defaultSheet = "Sheet1"

// Exporter implementa ports.SpreadsheetExporter.
type Exporter struct{}

// Export escribe una hoja por elemento: encabezados en negrilla en la fila 1
// y los datos desde la fila 2. Los decimales se escriben como número.
func (Exporter) Export(sheets ...ports.Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel: libro sin hojas")
	}
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sh.Name); err != nil {
				return nil, fmt.Errorf("excel: hoja %q: %w", sh.Name, err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return nil, fmt.Errorf("excel: hoja %q: %w", sh.Name, err)
		}
		if err := writeSheet(f, sh, bold); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sh ports.Sheet, headerStyle int) error {
	if len(sh.Headers) > 0 {
		headers := make([]any, len(sh.Headers))
		for i, h := range sh.Headers {
			headers[i] = h
		}
		if err := f.SetSheetRow(sh.Name, "A1", &headers); err != nil {
			return fmt.Errorf("excel: encabezados %q: %w", sh.Name, err)
		}
		last, _ := excelize.CoordinatesToCellName(len(sh.Headers), 1)
		if err := f.SetCellStyle(sh.Name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("excel: estilo encabezados %q: %w", sh.Name, err)
		}
	}

	for r, values := range sh.Rows {
		cells := make([]any, len(values))
		for i, v := range values {
			cells[i] = cellValue(v)
		}
		start, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("excel: fila %d: %w", r+2, err)
		}
		if err := f.SetSheetRow(sh.Name, start, &cells); err != nil {
			return fmt.Errorf("excel: fila %d de %q: %w", r+2, sh.Name, err)
		}
	}
	return nil
}

func cellValue(v any) any {
	switch d := v.(type) {
	case decimal.Decimal:
		return d.InexactFloat64()
	case *decimal.Decimal:
		if d == nil {
			return nil
		}
		return d.InexactFloat64()
	}
	return v
}
