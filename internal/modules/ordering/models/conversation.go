package models

import (
	"strings"
	"time"
)

// Step is a position in the ordering conversation
type Step string

const (
	StepStart           Step = "start"
	StepMainMenu        Step = "main_menu"
	StepBrowsingCatalog Step = "browsing_catalog"
	StepCheckingOrder   Step = "checking_order"
	StepContactAdvisor  Step = "contact_advisor"
	StepInfo            Step = "info"

	StepProductSelected Step = "product_selected"
	StepQuantityEntered Step = "quantity_entered"
	StepOrderReview     Step = "order_review"

	StepCollectingBusinessName Step = "collecting_business_name"
	StepCollectingContactName  Step = "collecting_contact_name"
	StepCollectingContactPhone Step = "collecting_contact_phone"
	StepCollectingAddress      Step = "collecting_address"

	StepConfirmKnownData Step = "confirm_known_data"
	StepSelectingField   Step = "selecting_field"
	StepEditingField     Step = "editing_field"

	StepPaymentPending Step = "payment_pending"
	StepAwaitingProof  Step = "awaiting_proof"
	StepCompleted      Step = "completed"
	StepCancelled      Step = "cancelled"

	StepSelectingReorder Step = "selecting_reorder"

	// free-sample campaign
	StepPromoBusinessName Step = "promo_business_name"
	StepPromoAddress      Step = "promo_address"
	StepPromoDistrict     Step = "promo_district"
	StepPromoPhoto        Step = "promo_photo"
	StepPromoContact      Step = "promo_contact"
)

// Terminal reports whether the conversation ended with the previous message
func (s Step) Terminal() bool {
	return s == StepCompleted || s == StepCancelled
}

// Promo reports whether the step belongs to the free-sample campaign
func (s Step) Promo() bool {
	return strings.HasPrefix(string(s), "promo_")
}

// CustomerField identifies an editable delivery field
type CustomerField int

const (
	FieldNone CustomerField = iota
	FieldBusinessName
	FieldContactName
	FieldContactPhone
	FieldAddress
)

// Draft is the order under construction
type Draft struct {
	Product    *Product `json:"product,omitempty"`
	QuantityKg float64  `json:"quantity_kg,omitempty"`
	Subtotal   float64  `json:"subtotal,omitempty"`
	Discount   float64  `json:"discount,omitempty"`
	Total      float64  `json:"total,omitempty"`

	BusinessName string `json:"business_name,omitempty"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	Address      string `json:"address,omitempty"`
	District     string `json:"district,omitempty"`

	EditField      CustomerField `json:"edit_field,omitempty"`
	ProofURL       string        `json:"proof_url,omitempty"`
	IsReorder      bool          `json:"is_reorder,omitempty"`
	PendingOrderID string        `json:"pending_order_id,omitempty"`
}

// HasCustomerData reports whether every delivery field is filled
func (d *Draft) HasCustomerData() bool {
	return d.BusinessName != "" && d.ContactName != "" && d.ContactPhone != "" && d.Address != ""
}

// ClearPricing drops quantity and amounts, used when the product changes
func (d *Draft) ClearPricing() {
	d.QuantityKg = 0
	d.Subtotal = 0
	d.Discount = 0
	d.Total = 0
}

// ConversationState is the per-sender dialogue position
type ConversationState struct {
	Sender        string    `json:"sender"`
	Step          Step      `json:"step"`
	Draft         *Draft    `json:"draft,omitempty"`
	CustomerKnown bool      `json:"customer_known,omitempty"`
	CustomerID    string    `json:"customer_id,omitempty"`
	OrderCount    int       `json:"order_count,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewConversationState starts a conversation at StepStart
func NewConversationState(sender string) *ConversationState {
	return &ConversationState{
		Sender:    sender,
		Step:      StepStart,
		UpdatedAt: time.Now(),
	}
}

// Clone returns a deep copy. Transitions run against clones so a failed
// transition leaves the stored state untouched.
func (s *ConversationState) Clone() *ConversationState {
	if s == nil {
		return nil
	}
	c := *s
	if s.Draft != nil {
		d := *s.Draft
		if s.Draft.Product != nil {
			p := *s.Draft.Product
			d.Product = &p
		}
		c.Draft = &d
	}
	return &c
}

// EnsureDraft returns the draft, creating an empty one if needed
func (s *ConversationState) EnsureDraft() *Draft {
	if s.Draft == nil {
		s.Draft = &Draft{}
	}
	return s.Draft
}

// Reset clears the draft and moves to step
func (s *ConversationState) Reset(step Step) {
	s.Step = step
	s.Draft = nil
	s.CustomerKnown = false
	s.CustomerID = ""
	s.OrderCount = 0
}
