package services

import (
	"context"
	"log"
	"time"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/phone"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/repositories"
)

const processTimeout = 30 * time.Second

// Messenger is the outbound side of WhatsApp. *whatsapp.Service satisfies it.
type Messenger interface {
	SendMessage(phoneNumber, message string) error
	StartTyping(phoneNumber string) error
	StopTyping(phoneNumber string) error
}

// BotService connects the transports to the state machine
type BotService struct {
	machine   *StateMachine
	messenger Messenger
	history   repositories.MessageRepo
}

func NewBotService(machine *StateMachine, messenger Messenger, history repositories.MessageRepo) *BotService {
	return &BotService{
		machine:   machine,
		messenger: messenger,
		history:   history,
	}
}

// HandleInbound is the transport callback. Processing runs in its own
// goroutine so webhooks can answer immediately.
func (s *BotService) HandleInbound(msg *whatsapp.InboundMessage) {
	go s.ProcessMessage(msg)
}

// ProcessMessage runs a message through the conversation and sends the reply
func (s *BotService) ProcessMessage(msg *whatsapp.InboundMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	log.Printf("📩 Message from %s: %q (media: %t)", msg.Sender, msg.Text, msg.HasMedia())

	to := s.machine.Sender(msg.Sender)
	if to.Valid() {
		if err := s.messenger.StartTyping(string(to)); err != nil {
			log.Printf("⚠️ Failed to start typing indicator: %v", err)
		}
		defer func() {
			if err := s.messenger.StopTyping(string(to)); err != nil {
				log.Printf("⚠️ Failed to stop typing indicator: %v", err)
			}
		}()
	}

	reply, err := s.Reply(ctx, msg)
	if err != nil {
		log.Printf("❌ Dropping message %s: %v", msg.ID, err)
		return
	}

	if err := s.messenger.SendMessage(string(reply.To), reply.Text); err != nil {
		log.Printf("❌ Failed to send reply to %s: %v", reply.To, err)
		return
	}
	log.Printf("✅ Reply sent to %s (step: %s)", reply.To, reply.Step)
}

// Reply runs a message through the conversation without sending anything.
// Both sides are recorded in the history.
func (s *BotService) Reply(ctx context.Context, msg *whatsapp.InboundMessage) (Reply, error) {
	reply, err := s.machine.Handle(ctx, msg)
	if err != nil {
		return Reply{}, err
	}

	incoming := msg.Text
	if msg.HasMedia() && incoming == "" {
		incoming = "[" + msg.Media.ContentType + "]"
	}
	s.record(ctx, reply.To, models.DirectionIncoming, reply.Step, incoming)
	s.record(ctx, reply.To, models.DirectionOutgoing, reply.Step, reply.Text)
	return reply, nil
}

// History returns the recent messages of a sender, oldest first
func (s *BotService) History(ctx context.Context, sender phone.Canonical, limit int) ([]models.MessageLog, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.Recent(ctx, string(sender), limit)
}

// Sender normalizes a raw address. ok is false when it is not a phone.
func (s *BotService) Sender(raw string) (phone.Canonical, bool) {
	c := s.machine.Sender(raw)
	return c, c.Valid()
}

// Conversation returns the sender's stored conversation state
func (s *BotService) Conversation(ctx context.Context, sender phone.Canonical) (*models.ConversationState, error) {
	return s.machine.Conversation(ctx, sender)
}

func (s *BotService) record(ctx context.Context, sender phone.Canonical, direction string, step models.Step, text string) {
	if s.history == nil {
		return
	}
	err := s.history.Log(ctx, &models.MessageLog{
		Sender:    string(sender),
		Direction: direction,
		Step:      string(step),
		Text:      text,
	})
	if err != nil {
		log.Printf("⚠️ Failed to log %s message for %s: %v", direction, sender, err)
	}
}
