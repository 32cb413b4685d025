package notification

import (
	"fmt"
	"strings"
	"time"
)

// OrderStatusChange is an out-of-band change an operator made to an order
type OrderStatusChange struct {
	OrderID    string
	Product    string
	QuantityKg int
	Status     OrderStatus
	ChangedBy  string
	At         time.Time
}

// ApprovalChange is an operator decision about a registered customer
type ApprovalChange struct {
	CustomerID   string
	BusinessName string
	ContactName  string
	Status       ApprovalStatus
	At           time.Time
}

var statusMessages = map[OrderStatus]string{
	StatusPendingVerification: "⏳ Estamos verificando tu pago. Te avisaremos apenas se confirme.",
	StatusPaymentVerified:     "✅ Tu pago ha sido confirmado. Pronto comenzaremos a preparar tu pedido.",
	StatusInPreparation:       "👨‍🍳 Estamos preparando tu pedido con mucho cuidado.",
	StatusInTransit:           "🚚 Tu pedido está en camino. Pronto llegará a su destino.",
	StatusReadyForPickup:      "📍 Tu pedido está listo para ser recogido en nuestro local.",
	StatusDelivered:           "✅ Tu pedido ha sido entregado. ¡Gracias por tu compra!",
	StatusCompleted:           "🎉 Pedido completado exitosamente.",
	StatusCancelled:           "❌ Tu pedido ha sido cancelado. Contáctanos si necesitas ayuda.",
}

// CustomerMessage is the line explaining a status to the customer
func (s OrderStatus) CustomerMessage() string {
	return statusMessages[s]
}

const timestampLayout = "02/01/2006 15:04:05"

// FormatOrderStatus renders the customer message for an order update
func FormatOrderStatus(change OrderStatusChange, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("📦 *ACTUALIZACIÓN DE TU PEDIDO*\n\n")
	fmt.Fprintf(&b, "Pedido: *#%s*\n", change.OrderID)
	if change.Product != "" {
		fmt.Fprintf(&b, "Producto: %s\n", change.Product)
	}
	if change.QuantityKg > 0 {
		fmt.Fprintf(&b, "Cantidad: %d kg\n", change.QuantityKg)
	}
	fmt.Fprintf(&b, "\n✨ *Nuevo estado:* %s\n", change.Status.Label())
	if msg := change.Status.CustomerMessage(); msg != "" {
		fmt.Fprintf(&b, "\n%s", msg)
	}
	if change.ChangedBy != "" {
		fmt.Fprintf(&b, "\n\n_Actualizado por: %s_", change.ChangedBy)
	}
	fmt.Fprintf(&b, "\n_%s_", stamp(change.At, loc))
	return b.String()
}

// FormatApproval renders the customer message for an onboarding decision
func FormatApproval(change ApprovalChange, supportPhone string, loc *time.Location) string {
	var b strings.Builder
	switch change.Status {
	case ApprovalVerified:
		b.WriteString("🎉 *¡FELICITACIONES!*\n\n")
		b.WriteString("Tu registro ha sido *APROBADO* ✅\n\n")
		if change.BusinessName != "" {
			fmt.Fprintf(&b, "*Empresa:* %s\n", change.BusinessName)
		}
		if change.ContactName != "" {
			fmt.Fprintf(&b, "*Contacto:* %s\n", change.ContactName)
		}
		b.WriteString("\n📋 *Beneficios de ser cliente verificado:*\n")
		b.WriteString("• Acceso completo a nuestro catálogo\n")
		b.WriteString("• Precios especiales por volumen\n")
		b.WriteString("• Atención prioritaria\n")
		b.WriteString("• Seguimiento de pedidos en tiempo real\n")
		b.WriteString("\n🛍️ *¿Cómo hacer tu primer pedido?*\n")
		b.WriteString("1. Escribe \"menu\" y elige *1* para ver productos\n")
		b.WriteString("2. Selecciona el café que desees\n")
		b.WriteString("3. Indica la cantidad en kg\n")
		b.WriteString("4. Confirma tu pedido\n")
		b.WriteString("\n¡Bienvenido a nuestra familia cafetera! ☕")
	case ApprovalRejected:
		b.WriteString("📋 *ACTUALIZACIÓN DE TU REGISTRO*\n\n")
		b.WriteString("Lamentamos informarte que tu registro no ha podido ser aprobado en este momento.\n\n")
		b.WriteString("*Posibles razones:*\n")
		b.WriteString("• Información incompleta\n")
		b.WriteString("• Zona de cobertura no disponible\n")
		b.WriteString("• Datos de contacto incorrectos\n")
		b.WriteString("\n📞 *¿Qué puedes hacer?*\n")
		b.WriteString("• Verifica que tus datos sean correctos\n")
		if supportPhone != "" {
			fmt.Fprintf(&b, "• Contáctanos directamente al: %s\n", supportPhone)
		}
		b.WriteString("\nPuedes volver a registrarte cuando gustes.")
	default:
		b.WriteString("📋 *ACTUALIZACIÓN DE TU REGISTRO*\n\n")
		b.WriteString("Tu registro está siendo evaluado.\n")
		b.WriteString("Te contactaremos pronto con más información.\n\n")
		b.WriteString("Si tienes preguntas, no dudes en escribirnos.")
	}
	fmt.Fprintf(&b, "\n\n_%s_", stamp(change.At, loc))
	return b.String()
}

func stamp(at time.Time, loc *time.Location) string {
	if at.IsZero() {
		at = time.Now()
	}
	if loc != nil {
		at = at.In(loc)
	}
	return at.Format(timestampLayout)
}

// LimaLocation returns America/Lima, or a fixed UTC-5 zone when tzdata is
// missing.
func LimaLocation() *time.Location {
	loc, err := time.LoadLocation("America/Lima")
	if err != nil {
		return time.FixedZone("PET", -5*60*60)
	}
	return loc
}
