package models

// Product is a catalog entry. Orders keep a copy so later price changes do not
// alter them.
type Product struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	PricePerKg   float64 `json:"price_per_kg"`
	Origin       string  `json:"origin"`
	Notes        string  `json:"notes"`
	Available    bool    `json:"available"`
	StockKg      float64 `json:"stock_kg,omitempty"`
	// StockTracked is false when the catalog row has no stock figure
	StockTracked bool    `json:"stock_tracked,omitempty"`
}

// DefaultCatalog is used when the store has no catalog range
func DefaultCatalog() []Product {
	return []Product{
		{Code: "1", Name: "Premium", PricePerKg: 50, Origin: "Chanchamayo", Notes: "Chocolate y frutos rojos", Available: true},
		{Code: "2", Name: "Estándar", PricePerKg: 40, Origin: "Satipo", Notes: "Caramelo y nueces", Available: true},
		{Code: "3", Name: "Orgánico", PricePerKg: 60, Origin: "Villa Rica", Notes: "Floral y cítrico", Available: true},
		{Code: "4", Name: "Mezcla Especial", PricePerKg: 35, Origin: "Blend peruano", Notes: "Ideal para espresso", Available: true},
		{Code: "5", Name: "Descafeinado", PricePerKg: 45, Origin: "Cusco", Notes: "Suave sin cafeína", Available: true},
	}
}
