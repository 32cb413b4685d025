package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
)

// ConversationRepo stores one ConversationState per sender. Callers hold
// Lock(sender) across Get and Save so a sender's messages are handled one at
// a time.
type ConversationRepo interface {
	// Get returns a copy of the stored state, or a fresh one at StepStart
	Get(ctx context.Context, sender string) (*models.ConversationState, error)
	Save(ctx context.Context, state *models.ConversationState) error
	Delete(ctx context.Context, sender string) error
	Lock(sender string) (unlock func())
	// CleanupExpired drops states idle for longer than ttl
	CleanupExpired(ctx context.Context, ttl time.Duration) (int, error)
}

type memoryConversationRepo struct {
	mu     sync.RWMutex
	states map[string]*models.ConversationState
	locks  *keyedMutex
	now    func() time.Time
}

func NewMemoryConversationRepo() ConversationRepo {
	return &memoryConversationRepo{
		states: make(map[string]*models.ConversationState),
		locks:  newKeyedMutex(),
		now:    time.Now,
	}
}

func (r *memoryConversationRepo) Get(ctx context.Context, sender string) (*models.ConversationState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.states[sender]; ok {
		return s.Clone(), nil
	}
	return models.NewConversationState(sender), nil
}

func (r *memoryConversationRepo) Save(ctx context.Context, state *models.ConversationState) error {
	saved := state.Clone()
	saved.UpdatedAt = r.now()

	r.mu.Lock()
	r.states[state.Sender] = saved
	r.mu.Unlock()
	return nil
}

func (r *memoryConversationRepo) Delete(ctx context.Context, sender string) error {
	r.mu.Lock()
	delete(r.states, sender)
	r.mu.Unlock()
	return nil
}

func (r *memoryConversationRepo) Lock(sender string) func() {
	return r.locks.Lock(sender)
}

func (r *memoryConversationRepo) CleanupExpired(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for sender, s := range r.states {
		if s.UpdatedAt.Before(cutoff) {
			delete(r.states, sender)
			removed++
		}
	}
	return removed, nil
}
