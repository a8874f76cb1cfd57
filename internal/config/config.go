package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds process-level settings. Database connection settings are read
// by the database package directly.
type Config struct {
	Port          string
	JWTSecret     string
	AdminEmail    string
	AdminPassword string
}

// Load reads .env if present, then the environment. Missing keys fall back
// to development defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file found, using environment")
	}

	return Config{
		Port:          getEnv("PORT", "8080"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@pdassess.local"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
