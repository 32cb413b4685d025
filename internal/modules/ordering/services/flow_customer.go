package services

import (
	"strings"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
)

// handleCollecting stores one delivery field and asks for the next missing
// one. Once all four are present the order goes to payment.
func (m *StateMachine) handleCollecting(field models.CustomerField) stepHandler {
	return func(t *turn) (string, error) {
		value, err := m.validateField(field, t.text)
		if err != nil {
			return "", err
		}
		draft := t.state.EnsureDraft()
		setField(draft, field, value)

		ack := fieldAck(field, value)
		if step, prompt := nextMissing(draft); step != "" {
			t.state.Step = step
			return ack + prompt, nil
		}
		return ack + m.enterPaymentPending(t), nil
	}
}

func (m *StateMachine) validateField(field models.CustomerField, text string) (string, error) {
	value := strings.Join(strings.Fields(text), " ")
	if value == "" {
		return "", &ValidationError{Prompt: emptyFieldText(fieldLabel(field))}
	}
	if field == models.FieldContactPhone {
		// stored as typed; only checked for enough digits
		if c := m.deps.Normalizer.Normalize(value); !c.Valid() || len(c.Digits()) < 7 {
			return "", &ValidationError{Prompt: invalidPhoneText()}
		}
	}
	return value, nil
}

func (m *StateMachine) handleConfirmKnownData(t *turn) (string, error) {
	switch {
	case isYes(t.word) || t.word == "1" || t.word == "continuar":
		return m.enterPaymentPending(t), nil
	case t.word == "2" || t.word == "modificar" || t.word == "editar":
		t.state.Step = models.StepSelectingField
		return fieldMenuText(t.state.EnsureDraft()), nil
	case isNo(t.word) || t.word == "3":
		draft := t.state.Draft
		t.state.Reset(models.StepCancelled)
		return cancelledText(draft), nil
	}
	return "", &ValidationError{Prompt: knownDataReprompt()}
}

func (m *StateMachine) handleSelectingField(t *turn) (string, error) {
	draft := t.state.EnsureDraft()
	var field models.CustomerField
	switch t.word {
	case "1":
		field = models.FieldBusinessName
	case "2":
		field = models.FieldContactName
	case "3":
		field = models.FieldContactPhone
	case "4":
		field = models.FieldAddress
	case "5":
		draft.BusinessName, draft.ContactName, draft.ContactPhone, draft.Address = "", "", "", ""
		t.state.Step = models.StepCollectingBusinessName
		return promptBusinessName(), nil
	default:
		return "", &ValidationError{Prompt: fieldMenuText(draft)}
	}

	draft.EditField = field
	t.state.Step = models.StepEditingField
	return editPromptText(field, getField(draft, field)), nil
}

func (m *StateMachine) handleEditingField(t *turn) (string, error) {
	draft := t.state.EnsureDraft()
	if draft.EditField == models.FieldNone {
		t.state.Step = models.StepSelectingField
		return fieldMenuText(draft), nil
	}
	value, err := m.validateField(draft.EditField, t.text)
	if err != nil {
		return "", err
	}
	setField(draft, draft.EditField, value)
	draft.EditField = models.FieldNone

	if step, prompt := nextMissing(draft); step != "" {
		t.state.Step = step
		return prompt, nil
	}
	t.state.Step = models.StepConfirmKnownData
	return knownDataText("✅ *Dato actualizado*\n\n", draft, m.settings), nil
}

func setField(d *models.Draft, f models.CustomerField, v string) {
	switch f {
	case models.FieldBusinessName:
		d.BusinessName = v
	case models.FieldContactName:
		d.ContactName = v
	case models.FieldContactPhone:
		d.ContactPhone = v
	case models.FieldAddress:
		d.Address = v
	}
}

func getField(d *models.Draft, f models.CustomerField) string {
	switch f {
	case models.FieldBusinessName:
		return d.BusinessName
	case models.FieldContactName:
		return d.ContactName
	case models.FieldContactPhone:
		return d.ContactPhone
	case models.FieldAddress:
		return d.Address
	}
	return ""
}
