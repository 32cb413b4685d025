package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
	"gorm.io/gorm"
)

// MessageRepo keeps the recent conversation history of each sender
type MessageRepo interface {
	Log(ctx context.Context, msg *models.MessageLog) error
	// Recent returns up to limit messages, oldest first
	Recent(ctx context.Context, sender string, limit int) ([]models.MessageLog, error)
}

type messageRepo struct {
	db    *gorm.DB
	limit int
}

// NewMessageRepo stores history in postgres, trimming each sender to the
// last limit messages.
func NewMessageRepo(db *gorm.DB, limit int) MessageRepo {
	return &messageRepo{db: db, limit: limit}
}

func (r *messageRepo) Log(ctx context.Context, msg *models.MessageLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		if r.limit <= 0 {
			return nil
		}
		// drop everything older than the newest r.limit rows
		return tx.Exec(`
			DELETE FROM ordering_messages
			WHERE sender = ?
			AND id NOT IN (
				SELECT id FROM ordering_messages
				WHERE sender = ?
				ORDER BY created_at DESC
				LIMIT ?
			)
		`, msg.Sender, msg.Sender, r.limit).Error
	})
}

func (r *messageRepo) Recent(ctx context.Context, sender string, limit int) ([]models.MessageLog, error) {
	var msgs []models.MessageLog
	err := r.db.WithContext(ctx).
		Where("sender = ?", sender).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

type memoryMessageRepo struct {
	mu    sync.Mutex
	limit int
	logs  map[string][]models.MessageLog
}

// NewMemoryMessageRepo is used when no database is configured
func NewMemoryMessageRepo(limit int) MessageRepo {
	return &memoryMessageRepo{limit: limit, logs: make(map[string][]models.MessageLog)}
}

func (r *memoryMessageRepo) Log(ctx context.Context, msg *models.MessageLog) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	history := append(r.logs[msg.Sender], *msg)
	if r.limit > 0 && len(history) > r.limit {
		history = append([]models.MessageLog(nil), history[len(history)-r.limit:]...)
	}
	r.logs[msg.Sender] = history
	return nil
}

func (r *memoryMessageRepo) Recent(ctx context.Context, sender string, limit int) ([]models.MessageLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.logs[sender]
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	return append([]models.MessageLog(nil), history...), nil
}
