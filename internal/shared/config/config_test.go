package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("MIN_ORDER_KG", "")
	t.Setenv("SESSION_TIMEOUT", "")
	t.Setenv("CLOSED_ORDER_STATUSES", "")
	t.Setenv("PROMO_DISTRICTS", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/cafe")
	t.Setenv("WHATSAPP_STORE_URL", "")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5, cfg.MinOrderKg)
	assert.Equal(t, 50, cfg.BulkThresholdKg)
	assert.InDelta(t, 0.10, cfg.BulkDiscount, 1e-9)
	assert.Equal(t, 30*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, []string{"completed", "delivered", "cancelled"}, cfg.ClosedStatuses)
	assert.Equal(t, "postgres://localhost/cafe", cfg.WhatsAppStoreURL)
	assert.Equal(t, DefaultPromoDistricts, cfg.PromoDistricts)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("MIN_ORDER_KG", "10")
	t.Setenv("SESSION_TIMEOUT", "5m")
	t.Setenv("BULK_DISCOUNT_RATE", "0.15")
	t.Setenv("CLOSED_ORDER_STATUSES", "Delivered, cancelled")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("PROMO_DISTRICTS", "Miraflores, Surquillo ,")

	cfg := LoadConfig()

	assert.Equal(t, 10, cfg.MinOrderKg)
	assert.Equal(t, 5*time.Minute, cfg.SessionTimeout)
	assert.InDelta(t, 0.15, cfg.BulkDiscount, 1e-9)
	assert.Equal(t, []string{"delivered", "cancelled"}, cfg.ClosedStatuses)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, []string{"Miraflores", "Surquillo"}, cfg.PromoDistricts)
}
