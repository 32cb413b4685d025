package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	Env              string
	PublicBaseURL    string
	DatabaseURL      string
	WhatsAppStoreURL string

	// Business profile shown to customers
	BusinessName    string
	BusinessPhone   string
	BusinessEmail   string
	BusinessHours   string
	BusinessCity    string
	BankBCPAccount  string
	BankCCIAccount  string
	CurrencySymbol  string
	DefaultCountry  string
	MinOrderKg      int
	BulkThresholdKg int
	BulkDiscount    float64
	ClosedStatuses  []string

	// Free-sample campaign
	PromoDistricts []string
	PromoProduct   string

	// Sessions
	SessionTimeout         time.Duration
	SessionCleanupSchedule string
	CatalogRefreshSchedule string
	StoreTimeout           time.Duration
	HistoryLimit           int
	ConversationBackend    string
	RedisAddr              string
	RedisPassword          string
	RedisDB                int

	// Tabular store
	TabularBackend        string
	GoogleSheetsID        string
	GoogleCredentialsFile string
	ExcelFilePath         string
	OrdersRange           string
	CustomersRange        string
	CatalogRange          string

	// Payment proof storage
	UploadProvider      string
	UploadLocalDir      string
	UploadBaseURL       string
	UploadFolder        string
	GoogleDriveFolderID string
	AWSRegion           string
	AWSBucket           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSPublicURL        string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Notifications
	AdminPhone         string
	AdminGroup         string
	ProductionGroup    string
	WebhookSecretToken string

	// LLM advisor
	LLMProvider    string
	LLMModel       string
	OpenAIKey      string
	GroqAPIKey     string
	DeepSeekAPIKey string
}

// DefaultPromoDistricts are the Lima districts the free sample is delivered to
var DefaultPromoDistricts = []string{
	"Miraflores", "San Isidro", "Barranco", "San Borja", "Surco", "La Molina",
	"Jesús María", "Lince", "Magdalena", "Pueblo Libre", "San Miguel",
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		PublicBaseURL:    os.Getenv("PUBLIC_BASE_URL"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		WhatsAppStoreURL: os.Getenv("WHATSAPP_STORE_URL"),

		BusinessName:    getEnv("BUSINESS_NAME", "Coffee Express"),
		BusinessPhone:   os.Getenv("BUSINESS_PHONE"),
		BusinessEmail:   os.Getenv("BUSINESS_EMAIL"),
		BusinessHours:   getEnv("BUSINESS_HOURS", "Lun-Sab 8:00-18:00"),
		BusinessCity:    getEnv("BUSINESS_CITY", "Lima, Perú"),
		BankBCPAccount:  os.Getenv("BANK_BCP_ACCOUNT"),
		BankCCIAccount:  os.Getenv("BANK_CCI_ACCOUNT"),
		CurrencySymbol:  getEnv("CURRENCY_SYMBOL", "S/"),
		DefaultCountry:  getEnv("DEFAULT_COUNTRY_CODE", "51"),
		MinOrderKg:      getInt("MIN_ORDER_KG", 5),
		BulkThresholdKg: getInt("BULK_DISCOUNT_THRESHOLD_KG", 50),
		BulkDiscount:    getFloat("BULK_DISCOUNT_RATE", 0.10),
		ClosedStatuses:  lowerAll(getList("CLOSED_ORDER_STATUSES", []string{"completed", "delivered", "cancelled"})),

		PromoDistricts: getList("PROMO_DISTRICTS", DefaultPromoDistricts),
		PromoProduct:   getEnv("PROMO_PRODUCT", "Café Orgánico Premium - MUESTRA"),

		SessionTimeout:         getDuration("SESSION_TIMEOUT", 30*time.Minute),
		SessionCleanupSchedule: getEnv("SESSION_CLEANUP_SCHEDULE", "@every 10m"),
		CatalogRefreshSchedule: getEnv("CATALOG_REFRESH_SCHEDULE", "@every 5m"),
		StoreTimeout:           getDuration("STORE_TIMEOUT", 10*time.Second),
		HistoryLimit:           getInt("HISTORY_LIMIT", 50),
		ConversationBackend:    getEnv("CONVERSATION_BACKEND", "memory"),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:                getInt("REDIS_DB", 0),

		TabularBackend:        getEnv("TABULAR_BACKEND", "memory"),
		GoogleSheetsID:        os.Getenv("GOOGLE_SHEETS_ID"),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		ExcelFilePath:         getEnv("EXCEL_FILE_PATH", "pedidos.xlsx"),
		OrdersRange:           getEnv("ORDERS_RANGE", "PedidosWhatsApp"),
		CustomersRange:        getEnv("CUSTOMERS_RANGE", "Clientes"),
		CatalogRange:          getEnv("CATALOG_RANGE", "CatalogoWhatsApp"),

		UploadProvider:      getEnv("UPLOAD_PROVIDER", "local"),
		UploadLocalDir:      getEnv("UPLOAD_LOCAL_DIR", "./uploads"),
		UploadBaseURL:       getEnv("UPLOAD_BASE_URL", "http://localhost:8080/uploads"),
		UploadFolder:        getEnv("UPLOAD_FOLDER", "comprobantes"),
		GoogleDriveFolderID: os.Getenv("GOOGLE_DRIVE_FOLDER_ID"),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSBucket:           os.Getenv("AWS_S3_BUCKET"),
		AWSAccessKeyID:      os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey:  os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSPublicURL:        os.Getenv("AWS_S3_PUBLIC_URL"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		AdminPhone:         os.Getenv("ADMIN_PHONE"),
		AdminGroup:         os.Getenv("WHATSAPP_ADMIN_GROUP"),
		ProductionGroup:    os.Getenv("WHATSAPP_PRODUCTION_GROUP"),
		WebhookSecretToken: os.Getenv("WEBHOOK_SECRET_TOKEN"),

		LLMProvider:    getEnv("LLM_PROVIDER", "none"),
		LLMModel:       os.Getenv("LLM_MODEL"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		GroqAPIKey:     os.Getenv("GROQ_API_KEY"),
		DeepSeekAPIKey: os.Getenv("DEEPSEEK_API_KEY"),
	}

	if cfg.WhatsAppStoreURL == "" {
		// Default to main database if not specified
		cfg.WhatsAppStoreURL = cfg.DatabaseURL
	}

	return cfg
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
