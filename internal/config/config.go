package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName    string
	AppVersion string
	LogLevel   string

	HTTPAddr string

	// ScheduleHorizonMonths bounds payment generation for subscriptions
	// without an end date.
	ScheduleHorizonMonths int

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:               getenv("APP_SERVICE", "subtrack"),
		AppVersion:            getenv("APP_VERSION", "0.1.0"),
		LogLevel:              getenv("LOG_LEVEL", "info"),
		HTTPAddr:              getenv("HTTP_ADDR", ":8080"),
		ScheduleHorizonMonths: getenvInt("SCHEDULE_HORIZON_MONTHS", 12),
		DBType:                getenv("DATABASE_TYPE", "postgres"),
		DBHost:                getenv("DATABASE_HOST", "localhost"),
		DBPort:                getenv("DATABASE_PORT", "5432"),
		DBName:                getenv("DATABASE_NAME", "subtrack"),
		DBUser:                getenv("DATABASE_USER", "postgres"),
		DBPassword:            getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:             getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:         getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:         getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime:     getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
	}
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}

var Module = fx.Module("config",
	fx.Provide(Load),
)
