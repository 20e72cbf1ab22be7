package collections

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ConfigPath  string
	ApiGinMode  string
	InitSQLPath string

	Port string

	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string

	// database
	DBAddress  string
	DBUser     string
	DBPassword string
	DBName     string

	// storage
	AllowBucketCreate bool
}

func loadConfig(path string) Config {
	if err := godotenv.Load(path); err != nil {
		log.Printf("Failed to load the config file at %s, using default ones...", path)
	}

	config := Config{
		ConfigPath:  path,
		ApiGinMode:  getEnv("GIN_MODE", "debug"),
		InitSQLPath: getEnv("INIT_SQL_PATH", "./internal/collections/db/init.sql"),

		Port: getEnv("PORT", "5030"),

		AllowedOrigins: getEnvFields("ALLOW_ORIGINS", []string{"*"}),
		AllowedMethods: getEnvFields("ALLOW_METHODS", []string{"*"}),
		AllowedHeaders: getEnvFields("ALLOW_HEADERS", []string{"*"}),

		DBAddress:  getEnv("DB_ADDRESS", "localhost:5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "taskflow"),

		AllowBucketCreate: getBoolEnv("ALLOW_BUCKET_CREATE", "true"),
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

func getBoolEnv(env, fallback string) bool {
	if value, exists := os.LookupEnv(env); exists {
		return strings.ToLower(value) == "true"
	}

	return strings.ToLower(fallback) == "true"
}
