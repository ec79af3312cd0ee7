// seed_catalog genera un script SQL con los productos de una empresa a partir de un
// CSV exportado desde hojas de cálculo en ISO-8859-1 (separador ';').
//
// Uso: go run ./cmd/seed_catalog <company_id> <productos.csv> [salida.sql]
// Columnas: sku;nombre;codigo_barras;precio;iva;punto_reorden
// Sin archivo de salida el script se escribe en stdout.
package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type productRow struct {
	SKU          string
	Name         string
	Barcode      string
	Price        decimal.Decimal
	TaxRate      decimal.Decimal
	ReorderPoint decimal.Decimal
}

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalog <company_id> <productos.csv> [salida.sql]")
		os.Exit(2)
	}
	companyID := os.Args[1]
	if _, err := uuid.Parse(companyID); err != nil {
		fmt.Fprintf(os.Stderr, "company_id inválido: %v\n", err)
		os.Exit(2)
	}

	f, err := os.Open(os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := readCatalog(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if len(os.Args) > 3 {
		file, err := os.Create(os.Args[3])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		out = file
	}
	w := bufio.NewWriter(out)
	writeSQL(w, companyID, rows)
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generados %d productos\n", len(rows))
}

// readCatalog decodifica ISO-8859-1 y valida cada fila. La primera fila es el encabezado.
func readCatalog(r io.Reader) ([]productRow, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}
	var (
		rows []productRow
		seen = map[string]int{}
	)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("línea %d: se esperaban al menos sku y nombre", line)
		}
		row := productRow{SKU: strings.TrimSpace(rec[0]), Name: strings.TrimSpace(rec[1])}
		if row.SKU == "" || row.Name == "" {
			return nil, fmt.Errorf("línea %d: sku y nombre son obligatorios", line)
		}
		if prev, dup := seen[row.SKU]; dup {
			return nil, fmt.Errorf("línea %d: sku %q repetido (línea %d)", line, row.SKU, prev)
		}
		seen[row.SKU] = line
		if len(rec) > 2 {
			row.Barcode = strings.TrimSpace(rec[2])
		}
		nums := []*decimal.Decimal{&row.Price, &row.TaxRate, &row.ReorderPoint}
		for i, dst := range nums {
			col := 3 + i
			if col >= len(rec) || strings.TrimSpace(rec[col]) == "" {
				continue
			}
			// Las hojas en español exportan la coma como separador decimal.
			d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[col]), ",", "."))
			if err != nil || d.IsNegative() {
				return nil, fmt.Errorf("línea %d columna %d: número inválido %q", line, col+1, rec[col])
			}
			*dst = d
		}
		if row.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("línea %d: iva %s fuera de rango", line, row.TaxRate)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func writeSQL(w io.Writer, companyID string, rows []productRow) {
	fmt.Fprintf(w, "-- Catálogo de productos para la empresa %s\n", companyID)
	fmt.Fprintln(w, "-- Generado por cmd/seed_catalog")
	fmt.Fprintln(w, "BEGIN;")
	for _, r := range rows {
		fmt.Fprintf(w,
			"INSERT INTO products (id, company_id, sku, barcode, name, price, tax_rate, reorder_point, created_at, updated_at)\n"+
				"VALUES ('%s', '%s', '%s', '%s', '%s', %s, %s, %s, now(), now())\n"+
				"ON CONFLICT DO NOTHING;\n",
			uuid.New().String(), companyID, escapeSQL(r.SKU), escapeSQL(r.Barcode), escapeSQL(r.Name),
			r.Price.String(), r.TaxRate.String(), r.ReorderPoint.String())
	}
	fmt.Fprintln(w, "COMMIT;")
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
