package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresURL    string
	MongoURL       string
	MongoDatabase  string
	MigrationsPath string
	DBType         string
	Port           string
	AppEnv         string

	JWTSecret string
	TokenTTL  time.Duration

	CountryCode        string
	CurrencyCode       string
	DefaultUPIID       string
	DefaultCompanyName string

	R2AccountID    string
	R2Bucket       string
	R2Endpoint     string
	BackupFileName string

	OverdueScanInterval time.Duration
	OverdueAfterDays    int
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		PostgresURL:    os.Getenv("POSTGRES_URL"),
		MongoURL:       os.Getenv("MONGO_URL"),
		MongoDatabase:  getEnv("MONGO_DATABASE", "harvester"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://db/migrations"),
		DBType:         getEnv("DB_TYPE", "postgres"),
		Port:           getEnv("PORT", "8080"),
		AppEnv:         getEnv("APP_ENV", "development"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  getDuration("TOKEN_TTL", 24*time.Hour),

		CountryCode:        getEnv("COUNTRY_CODE", "+91"),
		CurrencyCode:       getEnv("CURRENCY_CODE", "INR"),
		DefaultUPIID:       os.Getenv("DEFAULT_UPI_ID"),
		DefaultCompanyName: getEnv("DEFAULT_COMPANY_NAME", "Harvester Services"),

		R2AccountID:    os.Getenv("R2_ACCOUNT_ID"),
		R2Bucket:       os.Getenv("R2_BUCKET"),
		R2Endpoint:     os.Getenv("R2_ENDPOINT"),
		BackupFileName: getEnv("BACKUP_FILENAME", "harvester_cloud_backup.json"),

		OverdueScanInterval: getDuration("OVERDUE_SCAN_INTERVAL", 10*time.Minute),
		OverdueAfterDays:    getInt("OVERDUE_AFTER_DAYS", 3),
	}
	return cfg
}

// IsDevelopment reports whether console-style logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv != "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("invalid %s %q, using %s", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("invalid %s %q, using %d", key, raw, defaultValue)
		return defaultValue
	}
	return n
}
