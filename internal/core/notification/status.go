package notification

import (
	"errors"
	"fmt"
	"strings"
)

// OrderStatus is the lifecycle of an order after it is finalized.
type OrderStatus string

const (
	StatusPendingVerification OrderStatus = "pending_verification"
	StatusPaymentVerified     OrderStatus = "payment_verified"
	StatusInPreparation       OrderStatus = "in_preparation"
	StatusInTransit           OrderStatus = "in_transit"
	StatusReadyForPickup      OrderStatus = "ready_for_pickup"
	StatusDelivered           OrderStatus = "delivered"
	StatusCompleted           OrderStatus = "completed"
	StatusCancelled           OrderStatus = "cancelled"
)

// ApprovalStatus is the onboarding decision about a customer. It shares no
// tokens with OrderStatus.
type ApprovalStatus string

const (
	ApprovalVerified ApprovalStatus = "verified"
	ApprovalRejected ApprovalStatus = "rejected"
	ApprovalProspect ApprovalStatus = "prospect"
)

var (
	ErrUnknownStatus   = errors.New("unknown status")
	ErrWrongVocabulary = errors.New("status belongs to another vocabulary")
)

// orderLabels are the values operators see in the orders sheet
var orderLabels = map[OrderStatus]string{
	StatusPendingVerification: "Pendiente verificación",
	StatusPaymentVerified:     "Pago confirmado",
	StatusInPreparation:       "En preparación",
	StatusInTransit:           "En camino",
	StatusReadyForPickup:      "Listo para recoger",
	StatusDelivered:           "Entregado",
	StatusCompleted:           "Completado",
	StatusCancelled:           "Cancelado",
}

var approvalLabels = map[ApprovalStatus]string{
	ApprovalVerified: "Verificado",
	ApprovalRejected: "Rechazado",
	ApprovalProspect: "Prospecto",
}

var (
	orderByKey    = map[string]OrderStatus{}
	approvalByKey = map[string]ApprovalStatus{}
)

func init() {
	for s, label := range orderLabels {
		orderByKey[statusKey(string(s))] = s
		orderByKey[statusKey(label)] = s
	}
	for s, label := range approvalLabels {
		approvalByKey[statusKey(string(s))] = s
		approvalByKey[statusKey(label)] = s
	}
	// older sheets used these
	orderByKey[statusKey("Pendiente")] = StatusPendingVerification
	orderByKey[statusKey("Pagado")] = StatusPaymentVerified
}

// ParseOrderStatus accepts a canonical token or a sheet label, ignoring case
// and accents. Approval tokens are rejected with ErrWrongVocabulary.
func ParseOrderStatus(s string) (OrderStatus, error) {
	key := statusKey(s)
	if st, ok := orderByKey[key]; ok {
		return st, nil
	}
	if _, ok := approvalByKey[key]; ok {
		return "", fmt.Errorf("%w: %q is a customer approval status", ErrWrongVocabulary, s)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// ParseApprovalStatus is the approval counterpart of ParseOrderStatus.
func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	key := statusKey(s)
	if st, ok := approvalByKey[key]; ok {
		return st, nil
	}
	if _, ok := orderByKey[key]; ok {
		return "", fmt.Errorf("%w: %q is an order status", ErrWrongVocabulary, s)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Label is the Spanish label written to the orders sheet
func (s OrderStatus) Label() string {
	if l, ok := orderLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s ApprovalStatus) Label() string {
	if l, ok := approvalLabels[s]; ok {
		return l
	}
	return string(s)
}

var accentReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ñ", "n",
)

func statusKey(s string) string {
	k := accentReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
	k = strings.ReplaceAll(k, "-", "_")
	return strings.Join(strings.Fields(k), "_")
}
