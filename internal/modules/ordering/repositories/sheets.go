package repositories

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/tabular"
)

// Order sheet columns
const (
	colOrderID       = "ID"
	colOrderDate     = "Fecha"
	colOrderTime     = "Hora"
	colBusiness      = "Empresa"
	colContact       = "Contacto"
	colContactPhone  = "Telefono"
	colAddress       = "Direccion"
	colProduct       = "Producto"
	colQuantityKg    = "Cantidad_kg"
	colUnitPrice     = "Precio_Unitario"
	colSubtotal      = "Subtotal"
	colDiscount      = "Descuento"
	colTotal         = "Total"
	colPaymentMethod = "Metodo_Pago"
	colStatus        = "Estado"
	colProofURL      = "URL_Comprobante"
	colObservations  = "Observaciones"
	colOrderType     = "Tipo_Pedido"
	colCustomerID    = "ID_Cliente"
	colSessionPhone  = "Usuario_WhatsApp"
)

// Customer sheet columns
const (
	colCustID         = "ID_Cliente"
	colCustWhatsApp   = "WhatsApp"
	colCustBusiness   = "Empresa"
	colCustContact    = "Nombre_Contacto"
	colCustPhone      = "Telefono_Contacto"
	colCustEmail      = "Email"
	colCustAddress    = "Direccion"
	colCustDistrict   = "Distrito"
	colCustCity       = "Ciudad"
	colCustRegistered = "Fecha_Registro"
	colCustLastOrder  = "Ultima_Compra"
	colCustOrders     = "Total_Pedidos"
	colCustSpent      = "Total_Comprado"
	colCustKg         = "Total_Kg"
	colCustNotes      = "Notas"
)

// Catalog sheet columns
const (
	colCatCode      = "Codigo"
	colCatProduct   = "Producto"
	colCatPrice     = "Precio_kg"
	colCatOrigin    = "Origen"
	colCatNotes     = "Notas"
	colCatAvailable = "Disponible"
	colCatStock     = "Stock_kg"
)

// OrdersDefinition is the order ledger layout
func OrdersDefinition(rangeID string) tabular.Definition {
	return tabular.Definition{
		RangeID: rangeID,
		Columns: []string{
			colOrderID, colOrderDate, colOrderTime, colBusiness, colContact, colContactPhone,
			colAddress, colProduct, colQuantityKg, colUnitPrice, colSubtotal, colDiscount,
			colTotal, colPaymentMethod, colStatus, colProofURL, colObservations, colOrderType,
			colCustomerID, colSessionPhone,
		},
		Required: []string{colOrderID, colOrderDate, colStatus, colTotal, colSessionPhone},
	}
}

// CustomersDefinition is the customer sheet layout
func CustomersDefinition(rangeID string) tabular.Definition {
	return tabular.Definition{
		RangeID: rangeID,
		Columns: []string{
			colCustID, colCustWhatsApp, colCustBusiness, colCustContact, colCustPhone,
			colCustEmail, colCustAddress, colCustDistrict, colCustCity, colCustRegistered,
			colCustLastOrder, colCustOrders, colCustSpent, colCustKg, colCustNotes,
		},
		Required: []string{colCustID, colCustWhatsApp, colCustOrders, colCustSpent},
	}
}

// StoreOptions are shared by the tabular repositories
type StoreOptions struct {
	// Timeout bounds every store call
	Timeout  time.Duration
	Location *time.Location
}

func (o StoreOptions) withDefaults() StoreOptions {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}

func (o StoreOptions) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, o.Timeout)
}

const (
	dateLayout     = "02/01/2006"
	clockLayout    = "15:04:05"
	dateTimeLayout = dateLayout + " " + clockLayout
)

var timeLayouts = []string{
	dateTimeLayout,
	"02/01/2006 15:04",
	"2/1/2006 15:04:05",
	"2/1/2006, 15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	dateLayout,
	"2/1/2006",
}

// parseTime reads the date formats found in the sheets. ok is false for empty
// or unrecognized values.
func parseTime(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(strings.TrimLeft(value, "'"))
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func formatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(dateTimeLayout)
}

// parseAmount tolerates currency symbols, spaces and thousands separators
func parseAmount(value string) float64 {
	v := strings.TrimSpace(strings.TrimLeft(value, "'"))
	v = strings.TrimPrefix(v, "S/")
	v = strings.TrimSpace(strings.TrimSuffix(strings.ToLower(v), "kg"))
	v = strings.ReplaceAll(v, ",", "")
	v = strings.ReplaceAll(v, " ", "")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func formatQuantity(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "si", "sí", "true", "1", "yes", "x", "disponible":
		return true
	default:
		return false
	}
}
