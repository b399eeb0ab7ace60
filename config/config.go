package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Env  string
	Port string

	DBURL string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	AccessExpiryMin  int
	RefreshExpiryDay int

	BlacklistDefaultExpiryMin int
	BlacklistSweepIntervalMin int

	FrontendBaseURL string

	SMTPHost     string
	SMTPPort     int
	SMTPEmail    string
	SMTPPassword string
}

func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DBURL: mustGetEnv("DB_URL"),

		JWTSecret:   mustGetEnv("JWT_SECRET"),
		JWTIssuer:   getEnv("JWT_ISSUER", "web-application"),
		JWTAudience: getEnv("JWT_AUDIENCE", "web-application-client"),

		AccessExpiryMin:  getEnvAsInt("ACCESS_TOKEN_EXPIRY", 15),
		RefreshExpiryDay: getEnvAsInt("REFRESH_TOKEN_EXPIRY_DAYS", 7),

		BlacklistDefaultExpiryMin: getEnvAsInt("BLACKLIST_DEFAULT_EXPIRY", 60),
		BlacklistSweepIntervalMin: getEnvAsInt("BLACKLIST_SWEEP_INTERVAL", 60),

		FrontendBaseURL: getEnv("FRONTEND_BASE_URL", "http://localhost:3000"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPEmail:    getEnv("SMTP_EMAIL", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
