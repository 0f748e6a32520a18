package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverDynamoDB = "dynamodb"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	UsersTable                 string // Required: table (or namespace) holding profiles
	FirebaseProjectID          string // Required: expected aud/iss of ID tokens
	FirebaseServiceAccountJSON string // Required: service-account key for the project

	StoreDriver         string        // Optional: dynamodb, sqlite, memory (default: dynamodb)
	DatabaseFile        string        // Optional: SQLite file for the sqlite driver (default: profiles.db)
	DynamoDBEndpoint    string        // Optional: endpoint override, e.g. DynamoDB Local
	AWSRegion           string        // Optional: region override, otherwise the AWS default chain
	FirebaseCertsURL    string        // Optional: override Google's securetoken certificate URL
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads the environment. A .env file in the working directory is
// loaded first when present; real environment variables win over it.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		UsersTable:                 os.Getenv("USERS_TABLE"),
		FirebaseProjectID:          os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseServiceAccountJSON: os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"),

		StoreDriver:         getEnvOrDefault("STORE_DRIVER", DriverDynamoDB),
		DatabaseFile:        getEnvOrDefault("DATABASE_FILE", "profiles.db"),
		DynamoDBEndpoint:    os.Getenv("DYNAMODB_ENDPOINT"),
		AWSRegion:           os.Getenv("AWS_REGION"),
		FirebaseCertsURL:    os.Getenv("FIREBASE_CERTS_URL"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate reports every missing or invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.UsersTable == "" {
		errs = append(errs, errors.New("USERS_TABLE is required"))
	}
	if c.FirebaseProjectID == "" {
		errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required"))
	}
	if c.FirebaseServiceAccountJSON == "" {
		errs = append(errs, errors.New("FIREBASE_SERVICE_ACCOUNT_JSON is required"))
	}

	switch c.StoreDriver {
	case DriverDynamoDB, DriverSQLite, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q is not one of dynamodb, sqlite, memory", c.StoreDriver))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
