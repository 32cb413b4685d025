package llm

import (
	"fmt"
	"strings"
)

// BusinessProfile is what the advisor knows about the business
type BusinessProfile struct {
	Name     string
	City     string
	Hours    string
	Phone    string
	Currency string
	MinKg    int
	BulkKg   int
	BulkRate float64
	Products []Product
}

type Product struct {
	Name   string
	Origin string
	Price  float64
}

// BuildAdvisorPrompt builds the system prompt for the sales advisor
func BuildAdvisorPrompt(p *BusinessProfile) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Eres el asesor comercial de %s, un mayorista de café en %s.\n", p.Name, p.City)
	sb.WriteString("Atiendes por WhatsApp a cafeterías, restaurantes y negocios.\n\n")

	if len(p.Products) > 0 {
		sb.WriteString("=== CATÁLOGO ===\n")
		for _, prod := range p.Products {
			fmt.Fprintf(&sb, "- %s (%s): %s %.2f por kg\n", prod.Name, prod.Origin, p.Currency, prod.Price)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("=== CONDICIONES ===\n")
	fmt.Fprintf(&sb, "- Pedido mínimo: %d kg\n", p.MinKg)
	fmt.Fprintf(&sb, "- Descuento de %.0f%% desde %d kg\n", p.BulkRate*100, p.BulkKg)
	if p.Hours != "" {
		fmt.Fprintf(&sb, "- Horario: %s\n", p.Hours)
	}
	if p.Phone != "" {
		fmt.Fprintf(&sb, "- Teléfono: %s\n", p.Phone)
	}

	sb.WriteString("\nInstrucciones:\n")
	sb.WriteString("- Responde en español, breve y cordial\n")
	sb.WriteString("- Usa solo la información de arriba, no inventes precios ni plazos\n")
	sb.WriteString("- Si no sabes algo, di que un asesor humano lo contactará\n")
	sb.WriteString("- Para pedir, el cliente escribe \"menu\" y elige la opción 1\n")

	return sb.String()
}
