package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/export"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/llm"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/notification"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/phone"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/scheduler"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/tabular"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/upload"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/handlers"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/repositories"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/services"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/shared/config"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/shared/database"
	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/cafe-order-bot/cmd/bot-api/docs"
)

// @title Coffee Express Ordering Bot API
// @version 1.0
// @description WhatsApp ordering assistant for coffee wholesale: transport webhooks, operator status webhook and order admin
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env)
	log.Printf("🚀 Starting bot-api on port %s (env: %s)", cfg.Port, cfg.Env)

	ctx := context.Background()

	// Database is optional: history log and the postgres tabular backend
	var db *database.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.NewDB(cfg.DatabaseURL, !cfg.IsProduction())
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		defer db.Close()
	} else {
		log.Println("⚠️ DATABASE_URL not set, message history is kept in memory")
	}

	// Tabular store (orders, customers, catalog)
	store, closeStore, err := openTabularStore(ctx, cfg, db)
	if err != nil {
		log.Fatalf("❌ Failed to open tabular store: %v", err)
	}
	defer closeStore()
	log.Printf("📊 Using tabular backend: %s", store.GetBackendName())

	storeOpts := repositories.StoreOptions{
		Timeout:  cfg.StoreTimeout,
		Location: notification.LimaLocation(),
	}
	orderSchema, err := tabular.ResolveSchema(ctx, store, repositories.OrdersDefinition(cfg.OrdersRange))
	if err != nil {
		log.Fatalf("❌ Orders sheet: %v", err)
	}
	customerSchema, err := tabular.ResolveSchema(ctx, store, repositories.CustomersDefinition(cfg.CustomersRange))
	if err != nil {
		log.Fatalf("❌ Customers sheet: %v", err)
	}

	// Init repositories
	normalizer := phone.NewNormalizer(cfg.DefaultCountry)
	orderRepo := repositories.NewOrderRepo(store, orderSchema, normalizer, cfg.ClosedStatuses, storeOpts)
	customerRepo := repositories.NewCustomerRepo(store, customerSchema, normalizer, storeOpts)
	catalogRepo := repositories.NewCatalogRepo(store, cfg.CatalogRange, storeOpts)
	if err := catalogRepo.Refresh(ctx); err != nil {
		log.Printf("⚠️ Catalog not loaded, using the default products: %v", err)
	}

	conversationRepo, err := openConversationRepo(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open conversation store: %v", err)
	}

	var messageRepo repositories.MessageRepo
	if db != nil {
		messageRepo = repositories.NewMessageRepo(db.GORM, cfg.HistoryLimit)
	} else {
		messageRepo = repositories.NewMemoryMessageRepo(cfg.HistoryLimit)
	}

	// Init WhatsApp service
	waService, twilioValidator, providerCfg, err := openWhatsApp(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize WhatsApp: %v", err)
	}

	// Init proof storage
	uploadProvider, err := upload.NewProvider(ctx, upload.ProviderConfig{
		Type:                  upload.ProviderType(cfg.UploadProvider),
		LocalDir:              cfg.UploadLocalDir,
		BaseURL:               cfg.UploadBaseURL,
		AWSRegion:             cfg.AWSRegion,
		AWSBucket:             cfg.AWSBucket,
		AWSAccessKeyID:        cfg.AWSAccessKeyID,
		AWSSecretAccessKey:    cfg.AWSSecretAccessKey,
		AWSPublicURL:          cfg.AWSPublicURL,
		CloudinaryCloudName:   cfg.CloudinaryCloudName,
		CloudinaryAPIKey:      cfg.CloudinaryAPIKey,
		CloudinaryAPISecret:   cfg.CloudinaryAPISecret,
		GoogleCredentialsFile: cfg.GoogleCredentialsFile,
		DriveFolderID:         cfg.GoogleDriveFolderID,
	})
	if err != nil {
		log.Fatalf("❌ Failed to initialize upload provider: %v", err)
	}
	proofPolicy := upload.DefaultProofPolicy()
	proofPolicy.Folder = cfg.UploadFolder
	uploadService := upload.NewServiceWithPolicy(uploadProvider, proofPolicy)
	log.Printf("📎 Using upload provider: %s", uploadService.GetProviderName())

	// Init LLM service (optional advisor)
	llmService, err := llm.NewService(&llm.ProviderConfig{
		Type:        llm.ProviderType(cfg.LLMProvider),
		OpenAIKey:   cfg.OpenAIKey,
		GroqKey:     cfg.GroqAPIKey,
		DeepSeekKey: cfg.DeepSeekAPIKey,
		Model:       cfg.LLMModel,
		Temperature: 0.4,
		MaxTokens:   400,
	})
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	// Init services
	settings := services.SettingsFromConfig(cfg)
	relay := notification.NewRelay(waService, notification.RelayConfig{
		AdminPhone:      cfg.AdminPhone,
		AdminGroup:      cfg.AdminGroup,
		ProductionGroup: cfg.ProductionGroup,
		SupportPhone:    cfg.BusinessPhone,
		Location:        settings.Location,
		CatalogMessage: func() string {
			return services.CatalogText(catalogRepo.List(context.Background()), settings)
		},
	})

	machine := services.NewStateMachine(services.MachineDeps{
		Conversations:  conversationRepo,
		Orders:         orderRepo,
		Customers:      customerRepo,
		Catalog:        catalogRepo,
		Normalizer:     normalizer,
		Notifier:       relay,
		Proofs:         uploadService,
		Media:          waService,
		Advisor:        llmService,
		Settings:       settings,
		SessionTimeout: cfg.SessionTimeout,
	})
	botService := services.NewBotService(machine, waService, messageRepo)
	statusService := services.NewStatusService(orderRepo, relay, normalizer)
	orderService := services.NewOrderService(orderRepo, normalizer, export.NewService(), settings)

	utils.LogInfo("Ordering bot configured", map[string]interface{}{
		"business":       settings.BusinessName,
		"min_kg":         settings.MinOrderKg,
		"bulk_kg":        settings.BulkThresholdKg,
		"session_ttl":    cfg.SessionTimeout.String(),
		"conversations":  cfg.ConversationBackend,
		"whatsapp":       waService.GetProviderName(),
		"advisor":        llmService.GetProviderName(),
		"admin_notified": cfg.AdminPhone != "" || cfg.AdminGroup != "",
	})

	// Scheduled jobs
	sched := scheduler.New(time.Minute)
	if err := sched.AddJob("session-cleanup", cfg.SessionCleanupSchedule, func(ctx context.Context) {
		n, err := machine.CleanupExpired(ctx)
		if err != nil {
			utils.LogError("Session cleanup failed", err, nil)
			return
		}
		if n > 0 {
			utils.LogInfo("Expired sessions removed", map[string]interface{}{"count": n})
		}
	}); err != nil {
		log.Fatalf("❌ %v", err)
	}
	if err := sched.AddJob("catalog-refresh", cfg.CatalogRefreshSchedule, func(ctx context.Context) {
		if err := catalogRepo.Refresh(ctx); err != nil {
			utils.LogWarn("Catalog refresh failed, keeping the previous products", map[string]interface{}{"error": err.Error()})
		}
	}); err != nil {
		log.Fatalf("❌ %v", err)
	}
	sched.Start()

	// Connect WhatsApp and start receiving
	if err := waService.Connect(); err != nil {
		log.Printf("⚠️ WhatsApp not connected yet: %v", err)
	}
	if err := waService.StartListening(botService.HandleInbound); err != nil {
		log.Printf("⚠️ Failed to start listening: %v", err)
	}
	keepAliveCtx, stopKeepAlive := context.WithCancel(ctx)
	defer stopKeepAlive()
	go waService.StartKeepAlive(keepAliveCtx)

	// Init handlers
	routes := handlers.Routes{
		Health:   handlers.NewHealthHandler(waService, store.GetBackendName()),
		WhatsApp: handlers.NewWhatsAppHandler(waService),
		Webhook: handlers.NewWebhookHandler(botService, handlers.WebhookOptions{
			Twilio:           twilioValidator,
			CloudVerifyToken: providerCfg.CloudVerifyToken,
			PublicBaseURL:    cfg.PublicBaseURL,
		}),
		Status:          handlers.NewStatusHandler(statusService, cfg.WebhookSecretToken),
		Orders:          handlers.NewOrderHandler(orderService),
		Conversation:    handlers.NewConversationHandler(botService, cfg.HistoryLimit),
		EnableSimulator: cfg.Env == "development",
	}

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Coffee Express Ordering Bot",
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Locally stored payment proofs
	if upload.ProviderType(cfg.UploadProvider) == upload.ProviderLocal {
		app.Static("/uploads", cfg.UploadLocalDir)
	}

	routes.Register(app)

	go func() {
		log.Printf("✅ bot-api running at :%s", cfg.Port)
		log.Printf("📄 Swagger UI: http://localhost:%s/swagger/", cfg.Port)
		if providerCfg.Type == whatsapp.ProviderWhatsmeow || providerCfg.Type == whatsapp.ProviderWAHA {
			log.Printf("🔗 QR Endpoint: http://localhost:%s/whatsapp/qr", cfg.Port)
		}
		if routes.EnableSimulator {
			log.Printf("🧪 Simulator: POST http://localhost:%s/simulate", cfg.Port)
		}
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("❌ Server stopped: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("🛑 Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("⚠️ HTTP shutdown: %v", err)
	}
	sched.Stop()
	relay.Wait()
	waService.Disconnect()
	log.Println("Goodbye 👋")
}
