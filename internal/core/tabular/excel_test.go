package tabular

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExcelStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pedidos.xlsx")

	store, err := NewExcelStore(path)
	require.NoError(t, err)

	rows, err := store.ReadRows(ctx, "PedidosWhatsApp")
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, store.AppendRow(ctx, "PedidosWhatsApp", []string{"ID", "Estado", "Usuario_WhatsApp"}))
	require.NoError(t, store.AppendRow(ctx, "PedidosWhatsApp", []string{"CAF-123456", "Pendiente verificación", "+51999888777"}))
	require.NoError(t, store.UpdateCell(ctx, "PedidosWhatsApp", 0, 1, "Pago confirmado"))
	require.NoError(t, store.Close())

	reopened, err := NewExcelStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	rows, err = reopened.ReadRows(ctx, "PedidosWhatsApp")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"CAF-123456", "Pago confirmado", "+51999888777"}, rows[1])

	assert.ErrorIs(t, reopened.UpdateCell(ctx, "PedidosWhatsApp", 3, 0, "x"), ErrRowOutOfRange)
	assert.ErrorIs(t, reopened.UpdateCell(ctx, "Missing", 0, 0, "x"), ErrRangeNotFound)
}
