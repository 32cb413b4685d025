package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryConversationRepo_GetReturnsCopies(t *testing.T) {
	repo := NewMemoryConversationRepo()
	ctx := context.Background()

	fresh, err := repo.Get(ctx, "+51999888777")
	require.NoError(t, err)
	assert.Equal(t, models.StepStart, fresh.Step)
	assert.Nil(t, fresh.Draft)

	fresh.Step = models.StepProductSelected
	fresh.EnsureDraft().Product = &models.Product{Code: "2", Name: "Estándar", PricePerKg: 40}
	require.NoError(t, repo.Save(ctx, fresh))

	fresh.Draft.Product.PricePerKg = 1

	loaded, err := repo.Get(ctx, "+51999888777")
	require.NoError(t, err)
	assert.Equal(t, models.StepProductSelected, loaded.Step)
	assert.Equal(t, 40.0, loaded.Draft.Product.PricePerKg)
}

func TestMemoryConversationRepo_CleanupExpired(t *testing.T) {
	repo := NewMemoryConversationRepo().(*memoryConversationRepo)
	ctx := context.Background()

	clock := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return clock }
	require.NoError(t, repo.Save(ctx, models.NewConversationState("old")))

	clock = clock.Add(25 * time.Minute)
	require.NoError(t, repo.Save(ctx, models.NewConversationState("recent")))

	clock = clock.Add(10 * time.Minute)
	removed, err := repo.CleanupExpired(ctx, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	old, _ := repo.Get(ctx, "old")
	assert.Equal(t, models.StepStart, old.Step)
	_, kept := repo.states["recent"]
	assert.True(t, kept)
}

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := newKeyedMutex()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("+51999888777")
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, km.size(), "entries are released")
}

func TestKeyedMutex_DistinctKeysRunInParallel(t *testing.T) {
	km := newKeyedMutex()

	unlockA := km.Lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("b")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b blocked behind a")
	}
	unlockA()
	unlockA()
}
