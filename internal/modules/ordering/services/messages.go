package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
)

const divider = "━━━━━━━━━━━━━━━━━"

const (
	msgRetry = "❌ Error procesando tu solicitud.\n\nIntenta nuevamente o escribe *menu* para reiniciar."

	msgProofNotExpected = "📸 Recibimos una imagen, pero en este momento no estamos esperando un comprobante.\n\n" +
		"Los comprobantes se envían al final del pedido.\n_Escribe *menu* para ver las opciones_"

	msgAdvisorFallback = "🙋 Gracias por tu mensaje. Un asesor te contactará a la brevedad.\n\n_Escribe *menu* para volver_"
)

func formatPrice(currency string, v float64) string {
	return fmt.Sprintf("%s %.2f", currency, v)
}

func formatKg(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// ageLabel renders how long ago an order was placed. Orders whose stored
// date could not be read get a label instead of a number.
func ageLabel(o models.Order, now time.Time) string {
	if o.AgeUnknown {
		return "antigüedad desconocida"
	}
	d := now.Sub(o.CreatedAt)
	switch {
	case d < time.Minute:
		return "hace un momento"
	case d < time.Hour:
		return fmt.Sprintf("hace %d min", int(d.Minutes()))
	case d < 48*time.Hour:
		h := int(d.Hours())
		if h == 1 {
			return "hace 1 hora"
		}
		return fmt.Sprintf("hace %d horas", h)
	default:
		return fmt.Sprintf("hace %d días", int(d.Hours()/24))
	}
}

func statusLine(o models.Order) string {
	if o.Status == "" {
		return "⏳ Estado por confirmar"
	}
	return "⏳ " + o.Status.Label()
}

func welcomeText(s Settings) string {
	return fmt.Sprintf(`Hola 👋

Soy el asistente virtual de *%s*

Escribe *hola* para ver el menú
O envía directamente:
*1* para ver catálogo
*2* para consultar pedido
*3* para información`, s.BusinessName)
}

func menuText(s Settings, active []models.Order, draft *models.Draft, hasHistory bool, now time.Time) string {
	var b strings.Builder

	if len(active) > 0 {
		b.WriteString("📦 *PEDIDOS PENDIENTES:*\n" + divider + "\n")
		for _, o := range active {
			fmt.Fprintf(&b, "📦 *%s*\n   %s\n   %skg - %s\n   %s · %s\n\n",
				o.ID, o.ProductName, formatKg(o.QuantityKg), formatPrice(s.Currency, o.Total),
				statusLine(o), ageLabel(o, now))
		}
		b.WriteString("💡 _Consulta el estado con el código (opción 2)_\n" + divider + "\n\n")
	}

	if draft != nil && draft.Product != nil {
		qty := "cantidad por definir"
		if draft.QuantityKg > 0 {
			qty = formatKg(draft.QuantityKg) + "kg"
		}
		total := "por calcular"
		if draft.Total > 0 {
			total = formatPrice(s.Currency, draft.Total)
		}
		fmt.Fprintf(&b, "🛒 *PEDIDO ACTUAL:*\n%s\n📦 %s\n⚖️ Cantidad: %s\n💰 Total: %s\n%s\n\n💡 _Escribe *cancelar* para eliminar el pedido_\n\n",
			divider, draft.Product.Name, qty, total, divider)
	}

	b.WriteString("📱 *MENÚ PRINCIPAL*\n\n")
	b.WriteString("*1* - Ver catálogo y pedir ☕\n")
	b.WriteString("*2* - Consultar pedido 📦\n")
	b.WriteString("*3* - Información del negocio ℹ️\n")
	if hasHistory {
		b.WriteString("*4* - Volver a pedir 🔄\n")
	}
	b.WriteString("\nEnvía el número de tu elección\n_Escribe *asesor* para hablar con una persona_")
	return b.String()
}

func menuReprompt(hasHistory bool) string {
	text := "Por favor, envía un número válido:\n\n*1* - Ver catálogo\n*2* - Consultar pedido\n*3* - Información"
	if hasHistory {
		text += "\n*4* - Volver a pedir"
	}
	return text
}

// CatalogText lists the available products. It is also sent to newly
// approved customers.
func CatalogText(products []models.Product, s Settings) string {
	s = s.withDefaults()
	var b strings.Builder
	b.WriteString("☕ *CATÁLOGO DE CAFÉ*\n\n")
	for _, p := range products {
		fmt.Fprintf(&b, "*%s. %s* - %s/kg\n", p.Code, p.Name, formatPrice(s.Currency, p.PricePerKg))
		if p.Origin != "" {
			fmt.Fprintf(&b, "   📍 %s\n", p.Origin)
		}
		if p.Notes != "" {
			fmt.Fprintf(&b, "   🎯 %s\n", p.Notes)
		}
		if p.StockTracked {
			fmt.Fprintf(&b, "   📦 Stock: %skg disponibles\n", formatKg(p.StockKg))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "📦 *Pedido mínimo: %skg*\n", formatKg(s.MinOrderKg))
	fmt.Fprintf(&b, "🎁 *%.0f%% de descuento desde %skg*\n\n", s.BulkDiscountRate*100, formatKg(s.BulkThresholdKg))
	b.WriteString("*Envía el número del producto que deseas*\n_Escribe *menu* para volver_")
	return b.String()
}

func catalogText(products []models.Product, s Settings, draft *models.Draft) string {
	header := ""
	if draft != nil && draft.Product != nil {
		qty := "?"
		if draft.QuantityKg > 0 {
			qty = formatKg(draft.QuantityKg)
		}
		header = fmt.Sprintf("🔄 *Tienes un pedido en proceso*\n%s - %skg\n\n_Selecciona un nuevo producto para reemplazarlo_\n%s\n\n",
			draft.Product.Name, qty, divider)
	}
	return header + CatalogText(products, s)
}

func invalidProductText(products []models.Product) string {
	codes := make([]string, 0, len(products))
	for _, p := range products {
		codes = append(codes, p.Code)
	}
	return fmt.Sprintf("❌ Por favor, selecciona un producto válido (%s)\n\nO escribe *menu* para volver al menú", strings.Join(codes, ", "))
}

func productSelectedText(p *models.Product, previous *models.Product, s Settings) string {
	change := ""
	if previous != nil && previous.Code != p.Code {
		change = fmt.Sprintf("_Cambiando de %s a %s_\n\n", previous.Name, p.Name)
	}
	return fmt.Sprintf(`%s✅ Has seleccionado:
*%s*

📍 Origen: %s
🎯 Notas: %s
💰 Precio: %s/kg

*¿Cuántos kilos necesitas?*
_Pedido mínimo: %skg_`, change, p.Name, p.Origin, p.Notes, formatPrice(s.Currency, p.PricePerKg), formatKg(s.MinOrderKg))
}

func invalidQuantityText(s Settings) string {
	return fmt.Sprintf("❌ Por favor, ingresa una cantidad válida en números.\n\n_Ejemplo: 10_\n\nMínimo: %skg", formatKg(s.MinOrderKg))
}

func belowMinimumText(q float64, s Settings) string {
	return fmt.Sprintf("❌ El pedido mínimo es de *%skg*\n\nHas ingresado: %skg\n\nPor favor, ingresa una cantidad de %skg o más:",
		formatKg(s.MinOrderKg), formatKg(q), formatKg(s.MinOrderKg))
}

func insufficientStockText(p *models.Product) string {
	return fmt.Sprintf("❌ Lo sentimos, solo tenemos *%skg* de %s disponibles.\n\nIngresa una cantidad de hasta %skg:",
		formatKg(p.StockKg), p.Name, formatKg(p.StockKg))
}

func pricingLines(d *models.Draft, s Settings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📦 *%s*\n", d.Product.Name)
	fmt.Fprintf(&b, "⚖️ Cantidad: *%s kg*\n", formatKg(d.QuantityKg))
	fmt.Fprintf(&b, "💵 Precio unitario: %s/kg\n", formatPrice(s.Currency, d.Product.PricePerKg))
	fmt.Fprintf(&b, "🧾 Subtotal: %s\n", formatPrice(s.Currency, d.Subtotal))
	if d.Discount > 0 {
		fmt.Fprintf(&b, "🎁 Descuento (%.0f%%): -%s\n", s.BulkDiscountRate*100, formatPrice(s.Currency, d.Discount))
	}
	fmt.Fprintf(&b, "%s\n💰 *TOTAL: %s*\n%s", divider, formatPrice(s.Currency, d.Total), divider)
	return b.String()
}

func orderSummaryText(d *models.Draft, s Settings) string {
	tip := ""
	if d.Discount == 0 && d.QuantityKg < s.BulkThresholdKg {
		tip = fmt.Sprintf("\n💡 _Desde %skg obtienes %.0f%% de descuento_\n", formatKg(s.BulkThresholdKg), s.BulkDiscountRate*100)
	}
	return fmt.Sprintf(`📊 *RESUMEN DEL PEDIDO*

%s
%s
*¿Confirmar pedido?*
Envía *SI* para continuar
Envía *NO* para cancelar
Envía *MENU* para volver`, pricingLines(d, s), tip)
}

func quantityConfirmReprompt() string {
	return "Por favor, responde:\n\n*SI* - Confirmar pedido\n*NO* - Cancelar\n*MENU* - Volver al menú"
}

func cancelledText(d *models.Draft) string {
	prefix := ""
	if d != nil && d.Product != nil {
		prefix = fmt.Sprintf("❌ Pedido de *%s* cancelado\n\n", d.Product.Name)
	} else {
		prefix = "❌ Pedido cancelado\n\n"
	}
	return prefix + "Escribe *hola* para empezar de nuevo o *menu* para ver las opciones"
}

func loyaltyHeader(tier models.LoyaltyTier, name string) string {
	who := ""
	if name != "" {
		who = ", " + name
	}
	switch tier {
	case models.TierVIP:
		return fmt.Sprintf("🌟 *¡Bienvenido de vuelta%s!* Eres cliente VIP ☕\n\n", who)
	case models.TierFrequent:
		return fmt.Sprintf("⭐ *¡Qué gusto verte de nuevo%s!* Gracias por ser cliente frecuente\n\n", who)
	case models.TierRecurring:
		return fmt.Sprintf("😊 *¡Hola de nuevo%s!* Gracias por volver a elegirnos\n\n", who)
	default:
		return ""
	}
}

func promptBusinessName() string {
	return "👤 *DATOS DEL CLIENTE*\n\nPor favor, ingresa el *nombre de tu empresa o negocio*:"
}

func promptContactName() string {
	return "Ahora ingresa el *nombre del contacto*:"
}

func promptContactPhone() string {
	return "Ingresa tu *número de teléfono*:"
}

func promptAddress() string {
	return "Ingresa la *dirección de entrega completa*:\n_Incluye distrito y referencia_"
}

func fieldAck(f models.CustomerField, value string) string {
	return fmt.Sprintf("✅ %s: *%s*\n\n", fieldLabel(f), value)
}

func emptyFieldText(label string) string {
	return fmt.Sprintf("❌ El campo *%s* no puede estar vacío. Por favor, ingrésalo nuevamente:", label)
}

func invalidPhoneText() string {
	return "❌ El número de teléfono no es válido.\n\n_Ejemplo: 987654321_\n\nIngresa tu *número de teléfono*:"
}

func fieldLabel(f models.CustomerField) string {
	switch f {
	case models.FieldBusinessName:
		return "Empresa"
	case models.FieldContactName:
		return "Contacto"
	case models.FieldContactPhone:
		return "Teléfono"
	case models.FieldAddress:
		return "Dirección"
	default:
		return ""
	}
}

func orEmpty(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

func deliveryLines(d *models.Draft) string {
	return fmt.Sprintf("🏢 %s\n👤 %s\n📱 %s\n📍 %s",
		orEmpty(d.BusinessName), orEmpty(d.ContactName), orEmpty(d.ContactPhone), orEmpty(d.Address))
}

func knownDataText(header string, d *models.Draft, s Settings) string {
	reorder := ""
	if d.IsReorder {
		reorder = "🔄 *REPETIR PEDIDO*\n\n"
	}
	return fmt.Sprintf(`%s%s%s

*DATOS DE ENTREGA REGISTRADOS:*
%s

¿Usamos estos datos?
*1* - Sí, continuar ✅
*2* - Modificar datos ✏️
*3* - No, cancelar ❌`, header, reorder, pricingLines(d, s), deliveryLines(d))
}

func knownDataReprompt() string {
	return "Por favor, responde:\n\n*1* o *SI* - Continuar\n*2* o *MODIFICAR* - Cambiar datos\n*3* o *NO* - Cancelar"
}

func fieldMenuText(d *models.Draft) string {
	return fmt.Sprintf(`✏️ *¿QUÉ DATO DESEAS MODIFICAR?*

*1* - Empresa: %s
*2* - Contacto: %s
*3* - Teléfono: %s
*4* - Dirección: %s
*5* - Ingresar todos los datos de nuevo`,
		orEmpty(d.BusinessName), orEmpty(d.ContactName), orEmpty(d.ContactPhone), orEmpty(d.Address))
}

func editPromptText(f models.CustomerField, current string) string {
	return fmt.Sprintf("✏️ *%s* actual: %s\n\nEnvía el nuevo valor:", fieldLabel(f), orEmpty(current))
}

func paymentPendingText(d *models.Draft, s Settings) string {
	return fmt.Sprintf(`📋 *CONFIRMA TU PEDIDO*

%s

*DATOS DE ENTREGA:*
%s

🔖 Código de pedido: *%s*

Envía *SI* para ver los datos de pago
Envía *MODIFICAR* para cambiar los datos de entrega`, pricingLines(d, s), deliveryLines(d), d.PendingOrderID)
}

func paymentPendingReprompt() string {
	return "Por favor, responde *SI* para ver los datos de pago o *MODIFICAR* para cambiar tus datos."
}

func bankInstructionsText(d *models.Draft, s Settings) string {
	return fmt.Sprintf(`*MÉTODO DE PAGO*
💳 Realiza la transferencia a:

*Cuenta BCP Soles:*
*%s*

*Cuenta Interbancaria (CCI):*
*%s*

*Titular:* %s

%s

💰 *Monto a transferir: %s*

📸 *Envía la foto del voucher o comprobante*

_Si no puedes enviar la imagen, escribe *"listo"* o *"enviado"* después de transferir_

💡 *Tu código de pedido es: %s*`,
		orEmpty(s.BankBCPAccount), orEmpty(s.BankCCIAccount), s.BusinessName, divider,
		formatPrice(s.Currency, d.Total), d.PendingOrderID)
}

func awaitingProofReprompt() string {
	return "📸 *Por favor, envía la foto del comprobante de transferencia*\n\n" +
		"⚠️ Si no puedes enviar la imagen ahora, escribe *\"listo\"* o *\"enviado\"* después de realizar la transferencia.\n\n" +
		"_O escribe *cancelar* para cancelar el proceso_"
}

func receiptText(o *models.Order, s Settings) string {
	head := "✅ *¡PEDIDO REGISTRADO!*"
	if o.PaymentProofRef != "" {
		head = "📸 *¡COMPROBANTE RECIBIDO!*"
	}
	return fmt.Sprintf(`%s
%s

✅ Tu pedido ha sido registrado exitosamente

📋 *Código de pedido:* %s
📅 *Fecha:* %s

*RESUMEN DEL PEDIDO:*
📦 %s
⚖️ %skg
💰 Total: %s

*DATOS DE ENTREGA:*
🏢 %s
👤 %s
📱 %s
📍 %s

%s

⏳ *ESTADO:* %s

🔍 *Próximos pasos:*
1️⃣ Verificaremos tu pago (máx. 30 min)
2️⃣ Te confirmaremos por este medio
3️⃣ Coordinaremos la entrega (24-48h)

💡 *Guarda tu código: %s*

¡Gracias por tu compra! ☕

_Escribe *menu* para realizar otro pedido_`,
		head, divider, o.ID, o.CreatedAt.In(s.Location).Format("02/01/2006"),
		o.ProductName, formatKg(o.QuantityKg), formatPrice(s.Currency, o.Total),
		o.BusinessName, o.ContactName, o.ContactPhone, o.Address,
		divider, o.Status.Label(), o.ID)
}

func persistenceRetryText(d *models.Draft) string {
	return fmt.Sprintf(`⚠️ *No pudimos registrar tu pedido en este momento.*

Tu pedido *%s* sigue guardado.
Envía *SI* en unos minutos para reintentar
o escribe *cancelar* para anularlo.`, d.PendingOrderID)
}

func orderReviewReprompt(d *models.Draft) string {
	return fmt.Sprintf("Tu pedido *%s* aún no se registró.\n\nEnvía *SI* para reintentar o *cancelar* para anularlo.", d.PendingOrderID)
}

func checkOrderText(active []models.Order, s Settings, now time.Time) string {
	var b strings.Builder
	b.WriteString("🔍 *CONSULTAR PEDIDO*\n\n")
	if len(active) > 0 {
		b.WriteString("*Tus pedidos activos:*\n")
		for _, o := range active {
			fmt.Fprintf(&b, "• *%s* - %s %skg (%s)\n", o.ID, o.ProductName, formatKg(o.QuantityKg), ageLabel(o, now))
		}
		b.WriteString("\n")
	}
	b.WriteString("Por favor, ingresa tu código de pedido\n_Ejemplo: CAF-123456_\n\nEscribe *menu* para volver")
	return b.String()
}

func orderStatusText(o *models.Order, s Settings, now time.Time) string {
	status := "Pendiente"
	if o.Status != "" {
		status = o.Status.Label()
	}
	hint := ""
	if msg := o.Status.CustomerMessage(); msg != "" {
		hint = "\n" + msg + "\n"
	}
	return fmt.Sprintf(`📦 *ESTADO DEL PEDIDO*

📋 *Código:* %s
📌 *Estado:* %s
⏱️ *Registrado:* %s

*DETALLES:*
🏢 %s
📦 %s
⚖️ %skg
💰 Total: %s
📍 %s
%s
Puedes consultar otro código o escribir *menu* para volver`,
		o.ID, status, ageLabel(*o, now),
		orEmpty(o.BusinessName), o.ProductName, formatKg(o.QuantityKg), formatPrice(s.Currency, o.Total), orEmpty(o.Address), hint)
}

func orderNotFoundText(code string) string {
	return fmt.Sprintf("❌ No encontramos el pedido *%s*\n\nVerifica que el código sea correcto.\n_Formato: CAF-123456_\n\nEscribe *menu* para volver", code)
}

func lookupUnavailableText() string {
	return "⚠️ No pudimos consultar tus pedidos en este momento. Intenta de nuevo en unos minutos.\n\nEscribe *menu* para volver"
}

func infoText(s Settings) string {
	return fmt.Sprintf(`ℹ️ *INFORMACIÓN*

*%s*
_Importadores de café peruano premium_

📱 WhatsApp: %s
📧 Email: %s
🕒 Horario: %s
📍 %s

*Servicios:*
• Venta al por mayor (mín. %skg)
• Entregas a todo Lima
• Productos certificados

*Método de pago:*
💳 Transferencia bancaria

Escribe *menu* para volver`,
		s.BusinessName, orEmpty(s.BusinessPhone), orEmpty(s.BusinessEmail), orEmpty(s.BusinessHours), s.BusinessCity, formatKg(s.MinOrderKg))
}

func advisorEntryText(s Settings) string {
	return fmt.Sprintf(`🙋 *HABLAR CON UN ASESOR*

Hemos avisado a nuestro equipo. Un asesor te escribirá pronto.
🕒 Horario de atención: %s

Mientras tanto, puedes escribir tu consulta aquí.
_Escribe *menu* para volver_`, orEmpty(s.BusinessHours))
}

func reorderListText(orders []models.Order, s Settings) string {
	var b strings.Builder
	b.WriteString("🔄 *TUS PEDIDOS ANTERIORES*\n" + divider + "\n\n")
	for i, o := range orders {
		date := "fecha desconocida"
		if !o.AgeUnknown {
			date = o.CreatedAt.In(s.Location).Format("02/01/2006")
		}
		fmt.Fprintf(&b, "*%d.* %s\n   📦 %skg - %s\n   📅 %s\n\n",
			i+1, o.ProductName, formatKg(o.QuantityKg), formatPrice(s.Currency, o.Total), date)
	}
	b.WriteString("*Envía el número del pedido que deseas repetir*\n\n_O escribe *menu* para volver_")
	return b.String()
}

func invalidReorderText() string {
	return "❌ Por favor, selecciona un número válido de la lista.\n\n_Escribe *menu* para volver_"
}

func operatorOrderText(o *models.Order, s Settings) string {
	kind := "NUEVO"
	if o.OrderType == models.OrderTypeReorder {
		kind = "REORDEN"
	}
	proof := "⚠️ Sin imagen (cliente confirmó por texto)"
	if o.PaymentProofRef != "" {
		proof = "📎 " + o.PaymentProofRef
	}
	return fmt.Sprintf(`🔔 *NUEVO PEDIDO (%s)*

📋 %s
🏢 %s
👤 %s - %s
📱 WhatsApp: %s
📦 %s x %skg
💰 Total: %s
📍 %s

🧾 Comprobante: %s

✅ Verificar el pago y actualizar el estado en la hoja`,
		kind, o.ID, o.BusinessName, o.ContactName, o.ContactPhone, o.SessionPhone,
		o.ProductName, formatKg(o.QuantityKg), formatPrice(s.Currency, o.Total), o.Address, proof)
}

func productionText(o *models.Order) string {
	return fmt.Sprintf("🏭 *PEDIDO MAYORISTA*\n\n📋 %s\n📦 %s x %skg\n🏢 %s\n📍 %s\n\nPreparar stock tras la verificación del pago.",
		o.ID, o.ProductName, formatKg(o.QuantityKg), o.BusinessName, o.Address)
}

func operatorAdvisorRequestText(sender string, st *models.ConversationState) string {
	return fmt.Sprintf("🙋 *SOLICITUD DE ASESOR*\n\n📱 %s\n📌 Paso anterior: %s\n\nEl cliente quiere hablar con una persona.", sender, st.Step)
}

func operatorAdvisorMessageText(sender, text string) string {
	return fmt.Sprintf("💬 *Mensaje para asesor*\n📱 %s\n\n%s", sender, text)
}

func promoWelcomeText(s Settings) string {
	return fmt.Sprintf(`☕ *PROGRAMA DE MUESTRAS*
%s

Obtén 1kg de %s para tu cafetería.

Para validar tu solicitud necesitamos algunos datos.

*PASO 1 DE 5: NOMBRE DE LA CAFETERÍA*

Escribe el nombre completo de tu cafetería:`, divider, s.PromoProduct)
}

func promoAlreadyUsedText() string {
	return "⚠️ *LO SENTIMOS*\n\nYa recibiste tu café de muestra anteriormente.\n" +
		"La promoción es válida una sola vez por cafetería.\n\n" +
		"*¿Deseas realizar un pedido regular?*\nEscribe *menu* para ver nuestro catálogo."
}

func promoNameReprompt() string {
	return "Por favor, ingresa un nombre válido (mínimo 3 caracteres)."
}

func promoAddressText(name string) string {
	return fmt.Sprintf("✅ Registrado: %s\n\n*PASO 2 DE 5: DIRECCIÓN*\n\nEscribe la dirección completa de tu cafetería\n(calle, número y referencias):", name)
}

func promoAddressReprompt() string {
	return "Por favor, ingresa una dirección completa (calle, número y referencias)."
}

func promoDistrictText(s Settings) string {
	var b strings.Builder
	b.WriteString("✅ Dirección registrada\n\n*PASO 3 DE 5: DISTRITO*\n\nSelecciona tu distrito:\n\n")
	for i, d := range s.PromoDistricts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, d)
	}
	fmt.Fprintf(&b, "%d. Otro distrito\n\nEnvía el número de tu distrito", len(s.PromoDistricts)+1)
	return b.String()
}

func promoDistrictReprompt(s Settings) string {
	return fmt.Sprintf("Por favor, envía un número del 1 al %d.", len(s.PromoDistricts)+1)
}

func promoOutOfAreaText() string {
	return "😔 *LO SENTIMOS*\n\nPor ahora la promoción solo está disponible en los distritos listados.\n" +
		"Pronto ampliaremos la cobertura.\n\nGracias por tu interés. Escribe *menu* para ver nuestro catálogo."
}

func promoPhotoText(district string) string {
	return fmt.Sprintf("📍 Distrito: %s\n\n*PASO 4 DE 5: VERIFICACIÓN*\n\n📸 Envía una foto de la *FACHADA* de tu cafetería\n(debe verse claramente el nombre del local)", district)
}

func promoPhotoReprompt() string {
	return "📸 No recibimos la foto.\n\nEnvía una foto clara de la fachada de tu cafetería donde se vea el nombre."
}

func promoContactText() string {
	return "✅ Foto recibida\n\n*PASO 5 DE 5: DATOS DE CONTACTO*\n\n¿Cuál es tu nombre completo?\n(propietario o encargado)"
}

func promoContactReprompt() string {
	return "Por favor, ingresa tu nombre completo."
}

func promoRegisteredText(o *models.Order, district string) string {
	return fmt.Sprintf(`✅ *SOLICITUD REGISTRADA*
%s

🏢 Cafetería: %s
📍 Distrito: %s
👤 Contacto: %s

🎁 Tu muestra: 1kg %s

*PRÓXIMOS PASOS:*
1. Validaremos tu información (24 horas)
2. Te confirmaremos la fecha de entrega
3. Recibirás tu muestra

📋 Código de seguimiento: *%s*`, divider, o.BusinessName, district, o.ContactName, o.ProductName, o.ID)
}

func promoRetryText(d *models.Draft) string {
	return fmt.Sprintf("⚠️ *No pudimos registrar tu solicitud en este momento.*\n\nTu solicitud *%s* sigue guardada.\n"+
		"Envía tu nombre nuevamente en unos minutos para reintentar o escribe *cancelar* para anularla.", d.PendingOrderID)
}

func operatorPromoText(o *models.Order) string {
	photo := "⚠️ Sin foto"
	if o.PaymentProofRef != "" {
		photo = "📎 " + o.PaymentProofRef
	}
	return fmt.Sprintf("🎁 *SOLICITUD DE MUESTRA*\n\n📋 %s\n🏢 %s\n👤 %s\n📱 WhatsApp: %s\n📍 %s\n\n🏪 Fachada: %s\n\nValidar la cafetería antes de programar la entrega.",
		o.ID, o.BusinessName, o.ContactName, o.SessionPhone, o.Address, photo)
}
