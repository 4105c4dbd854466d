package config

import (
	"encoding/base64"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port          string
	MongoString   string
	PasetoSecret  string
	HolidayAPIURL string
}

// LoadConfig reads configuration from the environment, with .env as a
// development convenience.
func LoadConfig() *AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: no .env file loaded: %v", err)
	}

	secret := getEnv("PASETO_SECRET", "")
	if secret == "" {
		log.Fatal("PASETO_SECRET is not set")
	}

	decoded, err := base64.URLEncoding.DecodeString(secret)
	if err != nil {
		log.Fatalf("PASETO_SECRET is not valid base64 URL-encoded: %v", err)
	}
	if len(decoded) != 32 {
		log.Fatalf("PASETO_SECRET must decode to exactly 32 bytes, got %d", len(decoded))
	}

	return &AppConfig{
		Port:          getEnv("PORT", "3000"),
		MongoString:   getEnv("MONGOSTRING", ""),
		PasetoSecret:  secret,
		HolidayAPIURL: getEnv("HOLIDAY_API_URL", "https://api-harilibur.vercel.app/api"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
