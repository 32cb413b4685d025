package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMemoryMessageRepo_CapsHistory(t *testing.T) {
	repo := NewMemoryMessageRepo(50)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		require.NoError(t, repo.Log(ctx, &models.MessageLog{
			Sender:    "+51999888777",
			Direction: models.DirectionIncoming,
			Text:      fmt.Sprintf("msg %d", i),
		}))
	}
	require.NoError(t, repo.Log(ctx, &models.MessageLog{Sender: "+51911111111", Text: "other"}))

	msgs, err := repo.Recent(ctx, "+51999888777", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 50)
	assert.Equal(t, "msg 10", msgs[0].Text)
	assert.Equal(t, "msg 59", msgs[49].Text)

	last, err := repo.Recent(ctx, "+51999888777", 3)
	require.NoError(t, err)
	assert.Equal(t, "msg 57", last[0].Text)
}

func TestMessageRepo_RecentReturnsOldestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "sender", "direction", "step", "text", "created_at"}).
		AddRow(uuid.New().String(), "+51999888777", "outgoing", "main_menu", "menu", now).
		AddRow(uuid.New().String(), "+51999888777", "incoming", "start", "hola", now.Add(-time.Second))

	mock.ExpectQuery(`SELECT \* FROM "ordering_messages" WHERE sender = \$1 ORDER BY created_at DESC LIMIT`).
		WillReturnRows(rows)

	msgs, err := NewMessageRepo(gormDB, 50).Recent(context.Background(), "+51999888777", 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hola", msgs[0].Text)
	assert.Equal(t, "menu", msgs[1].Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}
