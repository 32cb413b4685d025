package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessenger struct {
	mu      sync.Mutex
	sent    map[string][]string
	typing  []string
	sendErr error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{sent: make(map[string][]string)}
}

func (f *fakeMessenger) SendMessage(to, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent[to] = append(f.sent[to], message)
	return nil
}

func (f *fakeMessenger) StartTyping(to string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typing = append(f.typing, to)
	return nil
}

func (f *fakeMessenger) StopTyping(to string) error {
	return errors.New("not supported")
}

func TestBotService_ProcessMessageRepliesToCanonicalPhone(t *testing.T) {
	h := newHarness(t)
	messenger := newFakeMessenger()
	history := repositories.NewMemoryMessageRepo(50)
	bot := NewBotService(h.machine, messenger, history)

	bot.ProcessMessage(&whatsapp.InboundMessage{ID: "m1", Sender: "51999888777@s.whatsapp.net", Text: "hola"})

	require.Len(t, messenger.sent["+51999888777"], 1)
	assert.Contains(t, messenger.sent["+51999888777"][0], "MENÚ PRINCIPAL")
	assert.Equal(t, []string{"+51999888777"}, messenger.typing)

	logs, err := bot.History(context.Background(), "+51999888777", 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.DirectionIncoming, logs[0].Direction)
	assert.Equal(t, "hola", logs[0].Text)
	assert.Equal(t, models.DirectionOutgoing, logs[1].Direction)
	assert.Equal(t, string(models.StepMainMenu), logs[1].Step)
}

func TestBotService_ReplyDoesNotSend(t *testing.T) {
	h := newHarness(t)
	messenger := newFakeMessenger()
	bot := NewBotService(h.machine, messenger, nil)

	reply, err := bot.Reply(context.Background(), &whatsapp.InboundMessage{Sender: "5551", Text: "3"})
	require.NoError(t, err)
	assert.Equal(t, models.StepInfo, reply.Step)
	assert.Empty(t, messenger.sent)

	st, err := bot.Conversation(context.Background(), reply.To)
	require.NoError(t, err)
	assert.Equal(t, models.StepInfo, st.Step)
}

func TestBotService_InvalidSenderIsDropped(t *testing.T) {
	h := newHarness(t)
	messenger := newFakeMessenger()
	bot := NewBotService(h.machine, messenger, repositories.NewMemoryMessageRepo(10))

	bot.ProcessMessage(&whatsapp.InboundMessage{ID: "m2", Sender: "status@broadcast", Text: "hola"})
	assert.Empty(t, messenger.sent)
	assert.Empty(t, messenger.typing)
}
