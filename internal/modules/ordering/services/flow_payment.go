package services

import (
	"log"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/upload"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
)

var proofSentWords = map[string]bool{
	"listo": true, "enviado": true, "ya": true, "transferido": true, "hecho": true,
	"pagado": true, "ya pague": true, "ya pagué": true, "ya transferi": true, "ya transferí": true,
}

// enterPaymentPending shows the final confirmation. The order id is reserved
// here so the customer sees it before paying.
func (m *StateMachine) enterPaymentPending(t *turn) string {
	draft := t.state.EnsureDraft()
	if draft.PendingOrderID == "" {
		draft.PendingOrderID = m.ids.Next("CAF-", 6, nil)
	}
	t.state.Step = models.StepPaymentPending
	return paymentPendingText(draft, m.settings)
}

func (m *StateMachine) handlePaymentPending(t *turn) (string, error) {
	switch {
	case isYes(t.word) || t.word == "1" || t.word == "pagar":
		t.state.Step = models.StepAwaitingProof
		return bankInstructionsText(t.state.EnsureDraft(), m.settings), nil
	case t.word == "modificar" || t.word == "editar" || t.word == "2":
		t.state.Step = models.StepSelectingField
		return fieldMenuText(t.state.EnsureDraft()), nil
	case isNo(t.word):
		draft := t.state.Draft
		t.state.Reset(models.StepCancelled)
		return cancelledText(draft), nil
	}
	return "", &ValidationError{Prompt: paymentPendingReprompt()}
}

// handleAwaitingProof accepts an image or a text confirmation. A proof that
// cannot be stored does not block the order; operators verify the transfer
// in the bank either way.
func (m *StateMachine) handleAwaitingProof(t *turn) (string, error) {
	if t.msg.Media != nil {
		if !t.msg.Media.IsImage() {
			return "", &ValidationError{Prompt: awaitingProofReprompt()}
		}
		draft := t.state.EnsureDraft()
		if url, err := m.storeProof(t); err != nil {
			log.Printf("⚠️ Failed to store payment proof for %s: %v", t.sender, err)
		} else {
			draft.ProofURL = url
		}
		return m.finalize(t), nil
	}
	if proofSentWords[t.word] {
		return m.finalize(t), nil
	}
	return "", &ValidationError{Prompt: awaitingProofReprompt()}
}

func (m *StateMachine) storeProof(t *turn) (string, error) {
	media := t.msg.Media
	data := media.Data
	if len(data) == 0 {
		if m.deps.Media == nil {
			return "", errNoMediaFetcher
		}
		var err error
		if data, err = m.deps.Media.DownloadMedia(t.ctx, media); err != nil {
			return "", err
		}
	}
	if m.deps.Proofs == nil {
		return "", errNoProofStore
	}
	ref, err := m.deps.Proofs.StoreProof(t.ctx, data, upload.ProofMeta{
		Sender:      string(t.sender),
		ContentType: media.ContentType,
		ReceivedAt:  m.now(),
	})
	if err != nil {
		return "", err
	}
	return ref.URL, nil
}
