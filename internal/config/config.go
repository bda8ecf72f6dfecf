package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type App struct {
	Env           string
	Mode          string // "sync" | "async"
	LedgerBackend string // "memory" | "redis" | "postgres"
}

type HTTP struct {
	Port string
}

type Shopify struct {
	Domain        string // e.g. "mystore.myshopify.com"
	AdminToken    string
	WebhookSecret string
	APIVersion    string
}

type Printful struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Mapping struct {
	CacheTTL    time.Duration
	FailBackoff time.Duration
}

type Kafka struct {
	Brokers []string
	Topic   string
	Group   string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type DB struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type Config struct {
	App      App
	HTTP     HTTP
	Shopify  Shopify
	Printful Printful
	Mapping  Mapping
	Kafka    Kafka
	Redis    Redis
	DB       DB
}

func Load() Config {
	return Config{
		App: App{
			Env:           getenv("APP_ENV", "dev"),
			Mode:          getenv("FULFILLMENT_MODE", "sync"),
			LedgerBackend: getenv("LEDGER_BACKEND", "memory"),
		},
		HTTP: HTTP{
			Port: getenv("PORT", "8080"),
		},
		Shopify: Shopify{
			Domain:        getenv("SHOPIFY_DOMAIN", ""),
			AdminToken:    getenv("SHOPIFY_ADMIN_ACCESS_TOKEN", ""),
			WebhookSecret: getenv("SHOPIFY_WEBHOOK_SECRET", ""),
			APIVersion:    getenv("SHOPIFY_API_VERSION", "2024-01"),
		},
		Printful: Printful{
			BaseURL: getenv("PRINTFUL_BASE_URL", "https://api.printful.com"),
			APIKey:  getenv("PRINTFUL_API_KEY", ""),
			Timeout: parseDuration(getenv("PRINTFUL_TIMEOUT", "10s")),
		},
		Mapping: Mapping{
			CacheTTL:    parseDuration(getenv("MAPPING_CACHE_TTL", "1h")),
			FailBackoff: parseDuration(getenv("MAPPING_FAIL_BACKOFF", "1m")),
		},
		Kafka: Kafka{
			Brokers: splitCSV(getenv("KAFKA_BROKERS", "localhost:19092")),
			Topic:   getenv("FULFILLMENT_TOPIC", "fulfillment-items"),
			Group:   getenv("FULFILLMENT_CONSUMER_GROUP", "fulfillment-submitter"),
		},
		Redis: Redis{
			Addr:     getenv("REDIS_ADDR", "localhost:6379"),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       atoi(getenv("REDIS_DB", "0")),
			Prefix:   getenv("REDIS_PREFIX", "fulfillment:"),
		},
		DB: DB{
			Host:     getenv("DB_HOST", "127.0.0.1"),
			Port:     getenv("DB_PORT", "5432"),
			Name:     getenv("DB_NAME", "fulfillment_db"),
			User:     getenv("DB_USER", "postgres"),
			Password: getenv("DB_PASSWORD", "postgres"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
