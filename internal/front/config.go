package front

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ConfigPath string
	ApiGinMode string

	Port string

	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string

	// collection store endpoints
	StoreBase   string
	StorageBase string

	SessionSecret string
	SessionTTL    time.Duration
}

func loadConfig(path string) Config {
	if err := godotenv.Load(path); err != nil {
		log.Printf("Failed to load the config file at %s, using default ones...", path)
	}

	config := Config{
		ConfigPath: path,
		ApiGinMode: getEnv("GIN_MODE", "debug"),

		Port: getEnv("PORT", "5045"),

		AllowedOrigins: getEnvFields("ALLOW_ORIGINS", []string{"*"}),
		AllowedMethods: getEnvFields("ALLOW_METHODS", []string{"*"}),
		AllowedHeaders: getEnvFields("ALLOW_HEADERS", []string{"*"}),

		StoreBase:   getEnv("STORE_BASE", "http://localhost:5030/store/v1"),
		StorageBase: getEnv("STORAGE_BASE", "http://localhost:5030/storage/v1"),

		SessionSecret: getEnv("SESSION_SECRET", "dev-secret-change-me"),
		SessionTTL:    getDurationEnv("SESSION_TTL", 12*time.Hour),
	}

	return config
}

func getEnv(env, fallback string) string {
	if value, exists := os.LookupEnv(env); exists {
		return value
	}

	return fallback
}

func getEnvFields(env string, fallback []string) []string {
	if value, exists := os.LookupEnv(env); exists {
		return strings.Split(strings.TrimSpace(value), ",")
	}

	return fallback
}

func getDurationEnv(env string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(env); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}

	return fallback
}
