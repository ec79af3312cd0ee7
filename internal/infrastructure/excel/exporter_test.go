package excel

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Comercio-api/internal/application/ports"
)

func TestExport_HojasEncabezadosYFilas(t *testing.T) {
	out, err := Exporter{}.Export(
		ports.Sheet{
			Name:    "Ventas por producto",
			Headers: []string{"SKU", "Producto", "Cantidad", "Ingresos"},
			Rows: [][]any{
				{"A-1", "Arroz", decimal.RequireFromString("3"), decimal.RequireFromString("4500.5")},
				{"B-2", "Frijol", 2, 1000},
			},
		},
		ports.Sheet{Name: "Inventario", Headers: []string{"SKU"}},
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Ventas por producto", "Inventario"}, f.GetSheetList())
	rows, err := f.GetRows("Ventas por producto")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"SKU", "Producto", "Cantidad", "Ingresos"}, rows[0])
	assert.Equal(t, []string{"A-1", "Arroz", "3", "4500.5"}, rows[1])
	assert.Equal(t, "Frijol", rows[2][1])
}

func TestExport_SinHojas(t *testing.T) {
	_, err := Exporter{}.Export()
	assert.Error(t, err)
}
