package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCatalog_DecodificaLatin1(t *testing.T) {
	// "Café" y "Azúcar" en ISO-8859-1.
	raw := []byte("sku;nombre;barras;precio;iva;reorden\n" +
		"CAF-1;Caf\xe9 molido;7701;12500,50;19;5\n" +
		"AZU-1;Az\xfacar;;3200;;\n")

	rows, err := readCatalog(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Café molido", rows[0].Name)
	assert.True(t, decimal.RequireFromString("12500.50").Equal(rows[0].Price))
	assert.True(t, decimal.NewFromInt(19).Equal(rows[0].TaxRate))
	assert.Equal(t, "Azúcar", rows[1].Name)
	assert.True(t, rows[1].TaxRate.IsZero())
}

func TestReadCatalog_Errores(t *testing.T) {
	cases := map[string]string{
		"sku repetido":    "h\nA;Uno\nA;Dos\n",
		"sin nombre":      "h\nA;\n",
		"precio negativo": "h\nA;Uno;;-5\n",
		"iva fuera rango": "h\nA;Uno;;10;150\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := readCatalog(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestWriteSQL_EscapaComillas(t *testing.T) {
	var buf bytes.Buffer
	writeSQL(&buf, "00000000-0000-0000-0000-000000000002", []productRow{{SKU: "X-1", Name: "D'Onofrio"}})
	assert.Contains(t, buf.String(), "'D''Onofrio'")
	assert.Contains(t, buf.String(), "ON CONFLICT DO NOTHING")
}
