package tabular

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var rowColumns = []string{"id", "range_id", "row_index", "cells", "created_at", "updated_at"}

func newMockPostgresStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewPostgresStore(gormDB), mock
}

func TestPostgresStore_ReadRows(t *testing.T) {
	store, mock := newMockPostgresStore(t)
	now := time.Now()

	rows := sqlmock.NewRows(rowColumns).
		AddRow(uuid.New().String(), "Clientes", 0, []byte(`["ID_Cliente","WhatsApp"]`), now, now).
		AddRow(uuid.New().String(), "Clientes", 1, []byte(`["CLI-00000001","+51999888777"]`), now, now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, range_id, row_index, cells, created_at, updated_at FROM tabular_rows WHERE range_id = $1 ORDER BY row_index")).
		WithArgs("Clientes").
		WillReturnRows(rows)

	got, err := store.ReadRows(context.Background(), "Clientes")
	assert.NoError(t, err)
	assert.Equal(t, [][]string{
		{"ID_Cliente", "WhatsApp"},
		{"CLI-00000001", "+51999888777"},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_AppendRow(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tabular_rows")).
		WithArgs(sqlmock.AnyArg(), "PedidosWhatsApp", sqlmock.AnyArg(), "PedidosWhatsApp").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.AppendRow(context.Background(), "PedidosWhatsApp", []string{"CAF-123456", "Pendiente verificación"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_AppendRowError(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tabular_rows")).
		WillReturnError(errors.New("connection reset"))

	err := store.AppendRow(context.Background(), "PedidosWhatsApp", []string{"CAF-1"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestPostgresStore_UpdateCell(t *testing.T) {
	store, mock := newMockPostgresStore(t)
	now := time.Now()
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, range_id, row_index, cells, created_at, updated_at FROM tabular_rows WHERE range_id = $1 AND row_index = $2 FOR UPDATE")).
		WithArgs("PedidosWhatsApp", 1).
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow(id.String(), "PedidosWhatsApp", 1, []byte(`["CAF-1"]`), now, now))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tabular_rows SET cells = $1, updated_at = NOW() WHERE id = $2")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.UpdateCell(context.Background(), "PedidosWhatsApp", 0, 2, "Entregado")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateCellMissingRow(t *testing.T) {
	store, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM tabular_rows WHERE range_id = $1 AND row_index = $2 FOR UPDATE")).
		WithArgs("PedidosWhatsApp", 10).
		WillReturnRows(sqlmock.NewRows(rowColumns))
	mock.ExpectRollback()

	err := store.UpdateCell(context.Background(), "PedidosWhatsApp", 9, 0, "x")
	assert.ErrorIs(t, err, ErrRowOutOfRange)
	assert.NoError(t, mock.ExpectationsWereMet())
}
