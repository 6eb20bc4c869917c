package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	APIBaseURL string
	APIToken   string
	Port       string
	LogLevel   string
	LogFormat  string // json, text or auto

	GatewayTimeout       time.Duration
	GatewayRatePerSecond float64
	GatewayBurst         int

	InventoryPageSize  int
	RecentTransactions int

	AllowedOrigins      []string
	ServerRatePerSecond float64
	ServerBurst         int
}

var Cfg *AppConfig

// LoadConfig populates the global Cfg. Call once at startup.
func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	Cfg = Load()

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, APIBaseURL=%s, PageSize=%d",
		Cfg.Port, Cfg.LogLevel, Cfg.APIBaseURL, Cfg.InventoryPageSize)
}

// Load builds an AppConfig from the current environment without touching Cfg.
func Load() *AppConfig {
	log.Println("Loading application configuration...")

	pageSize := getEnvAsInt("INVENTORY_PAGE_SIZE", 8)
	if pageSize <= 0 {
		log.Printf("WARNING: INVENTORY_PAGE_SIZE must be positive, got %d. Using default 8.", pageSize)
		pageSize = 8
	}

	recent := getEnvAsInt("RECENT_TRANSACTIONS", 5)
	if recent < 0 {
		log.Printf("WARNING: RECENT_TRANSACTIONS must not be negative, got %d. Using default 5.", recent)
		recent = 5
	}

	return &AppConfig{
		APIBaseURL: strings.TrimRight(getEnv("API_BASE_URL", "https://finanphy.onrender.com"), "/"),
		APIToken:   getSecretEnv("API_TOKEN"),
		Port:       getEnv("PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "auto"),

		GatewayTimeout:       getEnvAsDuration("GATEWAY_TIMEOUT", 15*time.Second),
		GatewayRatePerSecond: getEnvAsFloat("GATEWAY_RATE_PER_SECOND", 10),
		GatewayBurst:         getEnvAsInt("GATEWAY_BURST", 20),

		InventoryPageSize:  pageSize,
		RecentTransactions: recent,

		AllowedOrigins:      splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		ServerRatePerSecond: getEnvAsFloat("SERVER_RATE_PER_SECOND", 10),
		ServerBurst:         getEnvAsInt("SERVER_BURST", 30),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

// getSecretEnv never logs the value.
func getSecretEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		log.Printf("Environment variable %s not set, starting without it", key)
		return ""
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Integer value for %s not set or empty, using default: %d", key, fallback)
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil && value > 0 {
		return value
	}
	log.Printf("Invalid rate value for %s ('%s'), using default: %g", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Duration value for %s not set or empty, using default: %s", key, fallback.String())
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
