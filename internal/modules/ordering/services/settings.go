package services

import (
	"time"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/notification"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/shared/config"
)

// Settings is the business configuration the conversation needs
type Settings struct {
	BusinessName  string
	BusinessPhone string
	BusinessEmail string
	BusinessHours string
	BusinessCity  string

	BankBCPAccount string
	BankCCIAccount string
	Currency       string

	MinOrderKg       float64
	BulkThresholdKg  float64
	BulkDiscountRate float64

	// ReorderChoices is how many past orders the reorder menu lists
	ReorderChoices int
	Location       *time.Location

	// PromoDistricts are where the free sample is delivered
	PromoDistricts []string
	PromoProduct   string
}

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		BusinessName:     cfg.BusinessName,
		BusinessPhone:    cfg.BusinessPhone,
		BusinessEmail:    cfg.BusinessEmail,
		BusinessHours:    cfg.BusinessHours,
		BusinessCity:     cfg.BusinessCity,
		BankBCPAccount:   cfg.BankBCPAccount,
		BankCCIAccount:   cfg.BankCCIAccount,
		Currency:         cfg.CurrencySymbol,
		MinOrderKg:       float64(cfg.MinOrderKg),
		BulkThresholdKg:  float64(cfg.BulkThresholdKg),
		BulkDiscountRate: cfg.BulkDiscount,
		ReorderChoices:   5,
		Location:         notification.LimaLocation(),
		PromoDistricts:   cfg.PromoDistricts,
		PromoProduct:     cfg.PromoProduct,
	}
}

func (s Settings) withDefaults() Settings {
	if s.BusinessName == "" {
		s.BusinessName = "Coffee Express"
	}
	if s.Currency == "" {
		s.Currency = "S/"
	}
	if s.MinOrderKg <= 0 {
		s.MinOrderKg = 5
	}
	if s.BulkThresholdKg <= 0 {
		s.BulkThresholdKg = 50
	}
	if s.ReorderChoices <= 0 {
		s.ReorderChoices = 5
	}
	if s.Location == nil {
		s.Location = time.UTC
	}
	if len(s.PromoDistricts) == 0 {
		s.PromoDistricts = config.DefaultPromoDistricts
	}
	if s.PromoProduct == "" {
		s.PromoProduct = "Café Orgánico Premium - MUESTRA"
	}
	return s
}
