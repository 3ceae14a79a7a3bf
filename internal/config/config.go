package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	PayPal   PayPalConfig
	Email    EmailConfig
	Catalog  CatalogConfig
	Order    OrderConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port          int
	PublicBaseURL string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Migrate         bool
}

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	CartCacheTTL time.Duration
}

type RabbitMQConfig struct {
	URL string
}

type PayPalConfig struct {
	Mode         string
	ClientID     string
	ClientSecret string
	WebhookID    string
	Currency     string
	Timeout      time.Duration
}

// IsLive reports whether calls go to the production PayPal API.
func (c PayPalConfig) IsLive() bool {
	return c.Mode == "live"
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	From         string
	SupportEmail string
	Mock         bool
}

type CatalogConfig struct {
	Path string
}

type OrderConfig struct {
	MaxRetryAttempts int
	TxTimeout        time.Duration
}

type LogConfig struct {
	Level string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:3000")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "inkwell")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "inkwell")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("DB_MIGRATE", true)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CART_CACHE_TTL", "15m")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("PAYPAL_MODE", "sandbox")
	viper.SetDefault("PAYPAL_CLIENT_ID", "")
	viper.SetDefault("PAYPAL_CLIENT_SECRET", "")
	viper.SetDefault("PAYPAL_WEBHOOK_ID", "")
	viper.SetDefault("PAYPAL_CURRENCY", "AUD")
	viper.SetDefault("PAYPAL_TIMEOUT", "15s")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("EMAIL_FROM", "orders@inkwell.local")
	viper.SetDefault("SUPPORT_EMAIL", "support@inkwell.local")
	viper.SetDefault("EMAIL_MOCK", true)
	viper.SetDefault("CATALOG_PATH", "internal/config/catalog.yaml")
	viper.SetDefault("ORDER_MAX_RETRY_ATTEMPTS", 3)
	viper.SetDefault("ORDER_TX_TIMEOUT", "5s")
	viper.SetDefault("LOG_LEVEL", "info")

	connMaxLifetime, err := parseDuration("DB_CONN_MAX_LIFETIME")
	if err != nil {
		return nil, err
	}
	cartCacheTTL, err := parseDuration("CART_CACHE_TTL")
	if err != nil {
		return nil, err
	}
	paypalTimeout, err := parseDuration("PAYPAL_TIMEOUT")
	if err != nil {
		return nil, err
	}
	orderTxTimeout, err := parseDuration("ORDER_TX_TIMEOUT")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:          viper.GetInt("SERVER_PORT"),
			PublicBaseURL: viper.GetString("PUBLIC_BASE_URL"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
			Migrate:         viper.GetBool("DB_MIGRATE"),
		},
		Redis: RedisConfig{
			Addr:         viper.GetString("REDIS_ADDR"),
			Password:     viper.GetString("REDIS_PASSWORD"),
			DB:           viper.GetInt("REDIS_DB"),
			CartCacheTTL: cartCacheTTL,
		},
		RabbitMQ: RabbitMQConfig{
			URL: viper.GetString("RABBITMQ_URL"),
		},
		PayPal: PayPalConfig{
			Mode:         viper.GetString("PAYPAL_MODE"),
			ClientID:     viper.GetString("PAYPAL_CLIENT_ID"),
			ClientSecret: viper.GetString("PAYPAL_CLIENT_SECRET"),
			WebhookID:    viper.GetString("PAYPAL_WEBHOOK_ID"),
			Currency:     viper.GetString("PAYPAL_CURRENCY"),
			Timeout:      paypalTimeout,
		},
		Email: EmailConfig{
			SMTPHost:     viper.GetString("SMTP_HOST"),
			SMTPPort:     viper.GetInt("SMTP_PORT"),
			SMTPUser:     viper.GetString("SMTP_USER"),
			SMTPPassword: viper.GetString("SMTP_PASSWORD"),
			From:         viper.GetString("EMAIL_FROM"),
			SupportEmail: viper.GetString("SUPPORT_EMAIL"),
			Mock:         viper.GetBool("EMAIL_MOCK"),
		},
		Catalog: CatalogConfig{
			Path: viper.GetString("CATALOG_PATH"),
		},
		Order: OrderConfig{
			MaxRetryAttempts: viper.GetInt("ORDER_MAX_RETRY_ATTEMPTS"),
			TxTimeout:        orderTxTimeout,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	return cfg, nil
}

// Warnings lists configuration gaps that do not stop the server from booting
// but make some operations fail at call time.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.PayPal.ClientID == "" || c.PayPal.ClientSecret == "" {
		warnings = append(warnings, "PAYPAL_CLIENT_ID or PAYPAL_CLIENT_SECRET not set; payment calls will fail")
	}
	if c.PayPal.WebhookID == "" {
		warnings = append(warnings, "PAYPAL_WEBHOOK_ID not set; every webhook will fail signature verification")
	}
	if !c.Email.Mock && c.Email.SMTPHost == "" {
		warnings = append(warnings, "SMTP_HOST not set with EMAIL_MOCK=false; emails will fail")
	}
	return warnings
}

func parseDuration(key string) (time.Duration, error) {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}
