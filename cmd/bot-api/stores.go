package main

import (
	"context"
	"fmt"
	"log"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/tabular"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/handlers"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/repositories"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/shared/config"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/shared/database"
)

// openTabularStore returns the configured record store and its close func
func openTabularStore(ctx context.Context, cfg *config.Config, db *database.DB) (tabular.Store, func(), error) {
	noop := func() {}

	switch tabular.BackendType(cfg.TabularBackend) {
	case tabular.BackendSheets:
		if cfg.GoogleSheetsID == "" {
			return nil, noop, fmt.Errorf("GOOGLE_SHEETS_ID is required for the sheets backend")
		}
		store, err := tabular.NewSheetsStore(ctx, cfg.GoogleSheetsID, cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil

	case tabular.BackendExcel:
		store, err := tabular.NewExcelStore(cfg.ExcelFilePath)
		if err != nil {
			return nil, noop, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Printf("⚠️ Failed to close workbook: %v", err)
			}
		}, nil

	case tabular.BackendPostgres:
		if db == nil {
			return nil, noop, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
		return tabular.NewPostgresStore(db.GORM), noop, nil

	case tabular.BackendMemory, "":
		log.Println("⚠️ Using the in-memory tabular store, orders are lost on restart")
		return tabular.NewMemoryStore(), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown tabular backend: %s", cfg.TabularBackend)
	}
}

func openConversationRepo(ctx context.Context, cfg *config.Config) (repositories.ConversationRepo, error) {
	switch cfg.ConversationBackend {
	case "redis":
		client, err := repositories.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		log.Printf("🧠 Conversations stored in Redis at %s", cfg.RedisAddr)
		return repositories.NewRedisConversationRepo(client, cfg.SessionTimeout), nil
	case "memory", "":
		return repositories.NewMemoryConversationRepo(), nil
	default:
		return nil, fmt.Errorf("unknown conversation backend: %s", cfg.ConversationBackend)
	}
}

// openWhatsApp builds the transport from the WHATSAPP_* environment. The
// Twilio provider doubles as the webhook signature validator.
func openWhatsApp(cfg *config.Config) (*whatsapp.Service, handlers.SignatureValidator, *whatsapp.ProviderConfig, error) {
	providerCfg, err := whatsapp.LoadProviderFromEnv()
	if err != nil {
		return nil, nil, nil, err
	}
	if providerCfg.StoreURL == "" {
		providerCfg.StoreURL = cfg.WhatsAppStoreURL
	}

	provider, err := whatsapp.NewProvider(providerCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Printf("📱 Using WhatsApp provider: %s", provider.GetProviderName())

	var validator handlers.SignatureValidator
	if tw, ok := provider.(*whatsapp.TwilioProvider); ok {
		validator = tw
	}
	return whatsapp.NewServiceWithProvider(provider), validator, providerCfg, nil
}
