package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port      string
	JWTSecret string
	TokenTTL  time.Duration
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MigrationsPath  string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	BCC      string
}

// InvoiceConfig holds the seller block printed on every invoice header.
type InvoiceConfig struct {
	SellerName    string
	SellerStreet  string
	SellerCity    string
	SellerCountry string
}

type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	SMTP     SMTPConfig
	Invoice  InvoiceConfig
}

// Load reads configuration from the environment. If path is non-empty, the
// .env file at path is loaded first; a missing file is not an error so the
// same binary runs in containers with plain env vars.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}

	cfg.App.Port = getenvDefault("APP_PORT", "8080")
	cfg.App.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	ttl, err := getenvDuration("TOKEN_TTL", 72*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.App.TokenTTL = ttl

	cfg.Postgres.Host = os.Getenv("DB_HOST")
	cfg.Postgres.Port = os.Getenv("DB_PORT")
	cfg.Postgres.User = os.Getenv("DB_USER")
	cfg.Postgres.Password = os.Getenv("DB_PASSWORD")
	cfg.Postgres.DBName = os.Getenv("DB_NAME")
	for name, v := range map[string]string{
		"DB_HOST": cfg.Postgres.Host,
		"DB_PORT": cfg.Postgres.Port,
		"DB_USER": cfg.Postgres.User,
		"DB_NAME": cfg.Postgres.DBName,
	} {
		if v == "" {
			return nil, fmt.Errorf("%s is required", name)
		}
	}
	cfg.Postgres.SSLMode = getenvDefault("DB_SSLMODE", "disable")
	cfg.Postgres.MaxConns = 10
	cfg.Postgres.MinConns = 2
	cfg.Postgres.MaxConnLifetime = 30 * time.Minute
	cfg.Postgres.MigrationsPath = getenvDefault("DB_MIGRATIONS_PATH", "migrations")

	cfg.SMTP.Host = os.Getenv("MAIL_SMTP_HOST")
	if cfg.SMTP.Host == "" {
		return nil, fmt.Errorf("MAIL_SMTP_HOST is required")
	}
	smtpPort, err := strconv.Atoi(getenvDefault("MAIL_SMTP_PORT", "465"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAIL_SMTP_PORT: %w", err)
	}
	cfg.SMTP.Port = smtpPort
	cfg.SMTP.Username = os.Getenv("MAIL_USER")
	cfg.SMTP.Password = os.Getenv("MAIL_PASSWORD")
	cfg.SMTP.From = getenvDefault("MAIL_FROM", cfg.SMTP.Username)
	cfg.SMTP.FromName = getenvDefault("MAIL_FROM_NAME", "Brokoly Invoice")
	cfg.SMTP.BCC = getenvDefault("MAIL_BCC", "invoices@shop.brokoly.de")

	cfg.Invoice.SellerName = getenvDefault("INVOICE_SELLER_NAME", "Brokoly Music")
	cfg.Invoice.SellerStreet = os.Getenv("INVOICE_SELLER_STREET")
	cfg.Invoice.SellerCity = os.Getenv("INVOICE_SELLER_CITY")
	cfg.Invoice.SellerCountry = os.Getenv("INVOICE_SELLER_COUNTRY")

	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
