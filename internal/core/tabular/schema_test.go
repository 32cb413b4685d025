package tabular

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSchema_WritesHeaderOnEmptyRange(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	schema, err := ResolveSchema(ctx, store, Definition{
		RangeID: "Clientes",
		Columns: []string{"ID_Cliente", "WhatsApp", "Empresa"},
	})
	require.NoError(t, err)

	rows, err := store.ReadRows(ctx, "Clientes")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"ID_Cliente", "WhatsApp", "Empresa"}, rows[0])
	assert.Equal(t, 3, schema.Width())
}

func TestResolveSchema_UsesExistingHeaderOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Seed("Pedidos", [][]string{
		{"Estado", "ID", "Usuario WhatsApp"},
		{"Pendiente verificación", "CAF-000001", "'51999888777"},
	})

	schema, err := ResolveSchema(ctx, store, Definition{
		RangeID:  "Pedidos",
		Columns:  []string{"ID", "Estado", "Usuario_WhatsApp"},
		Required: []string{"ID", "Estado", "Usuario_WhatsApp"},
	})
	require.NoError(t, err)

	idx, ok := schema.Index("ID")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	rows, _ := store.ReadRows(ctx, "Pedidos")
	assert.Equal(t, "CAF-000001", schema.Get(rows[1], "id"))
	assert.Equal(t, "'51999888777", schema.Get(rows[1], "usuario_whatsapp"))
}

func TestResolveSchema_MissingRequiredColumn(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Seed("Pedidos", [][]string{{"ID", "Fecha"}})

	_, err := ResolveSchema(ctx, store, Definition{
		RangeID:  "Pedidos",
		Required: []string{"ID", "Estado"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Estado")
}

func TestSchema_RowAndShortRows(t *testing.T) {
	schema := NewSchema("Clientes", []string{"ID_Cliente", "WhatsApp", "Empresa", "Notas"})

	row := schema.Row(map[string]string{
		"WhatsApp": "+51999888777",
		"Empresa":  "Café Central",
		"Unknown":  "ignored",
	})
	assert.Equal(t, []string{"", "+51999888777", "Café Central", ""}, row)

	assert.Equal(t, "", schema.Get([]string{"CLI-1"}, "Notas"))
	assert.Equal(t, "", schema.Get(row, "Missing"))
}

func TestMemoryStore_UpdateCell(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Seed("Pedidos", [][]string{
		{"ID", "Estado"},
		{"CAF-1"},
	})

	require.NoError(t, store.UpdateCell(ctx, "Pedidos", 0, 1, "Entregado"))

	rows, _ := store.ReadRows(ctx, "Pedidos")
	assert.Equal(t, []string{"CAF-1", "Entregado"}, rows[1])

	assert.ErrorIs(t, store.UpdateCell(ctx, "Pedidos", 5, 1, "x"), ErrRowOutOfRange)
	assert.ErrorIs(t, store.UpdateCell(ctx, "Nope", 0, 0, "x"), ErrRangeNotFound)
	assert.ErrorIs(t, store.UpdateCell(ctx, "Pedidos", -1, 0, "x"), ErrRowOutOfRange)
}

func TestMemoryStore_ReadReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.AppendRow(ctx, "R", []string{"a"}))

	rows, _ := store.ReadRows(ctx, "R")
	rows[0][0] = "mutated"

	again, _ := store.ReadRows(ctx, "R")
	assert.Equal(t, "a", again[0][0])
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "A", ColumnName(1))
	assert.Equal(t, "T", ColumnName(20))
	assert.Equal(t, "Z", ColumnName(26))
	assert.Equal(t, "AA", ColumnName(27))
	assert.Equal(t, "AZ", ColumnName(52))
}
