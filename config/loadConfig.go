package config

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default values for testing.
const (
	defaultTimeoutSeconds      = 30
	defaultMongoURI            = "mongodb://localhost:27017/commission"
	defaultMongoHost           = "localhost"
	defaultMongoPort           = "27017"
	defaultInputExtension      = "csv"
	defaultExchangeAPIEndpoint = "http://api.exchangeratesapi.io/v1/latest"
	defaultStrictRows          = false
	defaultPersistFees         = false
	defaultSyntheticDataDir    = "tmp/synthetic"
	defaultSyntheticDataRows   = 100
	envFeeConfigPath           = "FEE_CONFIG_PATH"
	envInputExtension          = "INPUT_EXTENSION"
	envExchangeAPIEndpoint     = "EXCHANGE_API_ENDPOINT"
	envExchangeAPIKey          = "EXCHANGE_API_KEY"
	envStrictRows              = "STRICT_ROWS"
	envPersistFees             = "PERSIST_FEES"
	envMongoURI                = "MONGO_URI"
	envMongoHost               = "MONGO_HOST"
	envMongoUser               = "MONGO_USER"
	envMongoPassword           = "MONGO_PASSWORD"
	envSyntheticDataDir        = "SYNTHETIC_DATA_DIR"
	envSyntheticDataRows       = "SYNTHETIC_DATA_ROWS"
	envTimeoutSeconds          = "TIMEOUT_SECONDS"
)

// LoadEnv loads variables from a .env file in the working directory, if
// there is one. Variables already set in the environment win.
func LoadEnv(ctx context.Context, logger *slog.Logger) {
	if err := godotenv.Load(); err != nil {
		logger.DebugContext(ctx, "No .env file loaded", "error", err)
		return
	}
	logger.DebugContext(ctx, "Loaded environment from .env file")
}

// LoadConfig loads the application configuration from environment variables or uses default values.
func LoadConfig(ctx context.Context, logger *slog.Logger) *Config {
	mongoURI := os.Getenv(envMongoURI)
	mongoURI = formatMongoURI(ctx, mongoURI, logger)

	return &Config{
		FeeConfigPath:       envString(ctx, logger, envFeeConfigPath, ""),
		InputExtension:      envString(ctx, logger, envInputExtension, defaultInputExtension),
		ExchangeAPIEndpoint: envString(ctx, logger, envExchangeAPIEndpoint, defaultExchangeAPIEndpoint),
		ExchangeAPIKey:      os.Getenv(envExchangeAPIKey),
		StrictRows:          envBool(ctx, logger, envStrictRows, defaultStrictRows),
		PersistFees:         envBool(ctx, logger, envPersistFees, defaultPersistFees),
		MongoURI:            mongoURI,
		SyntheticDataDir:    envString(ctx, logger, envSyntheticDataDir, defaultSyntheticDataDir),
		SyntheticDataRows:   envInt(ctx, logger, envSyntheticDataRows, defaultSyntheticDataRows),
		Timeout:             time.Duration(envInt(ctx, logger, envTimeoutSeconds, defaultTimeoutSeconds)) * time.Second,
	}
}

func envString(ctx context.Context, logger *slog.Logger, name, defaultValue string) string {
	value := os.Getenv(name)
	if value == "" {
		logger.DebugContext(ctx, "Using default value", "name", name, "value", defaultValue)
		return defaultValue
	}
	logger.DebugContext(ctx, "Using value from environment variable", "name", name, "value", value)

	return value
}

func envBool(ctx context.Context, logger *slog.Logger, name string, defaultValue bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		logger.DebugContext(ctx, "Using default value", "name", name, "value", defaultValue)
		return defaultValue
	}

	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		logger.WarnContext(
			ctx,
			"Invalid boolean environment variable, using default",
			"name", name,
			"value", raw,
			"default", defaultValue,
			"error", err,
		)
		return defaultValue
	}
	logger.DebugContext(ctx, "Using value from environment variable", "name", name, "value", parsed)

	return parsed
}

func envInt(ctx context.Context, logger *slog.Logger, name string, defaultValue int) int {
	raw := os.Getenv(name)
	if raw == "" {
		logger.DebugContext(ctx, "Using default value", "name", name, "value", defaultValue)
		return defaultValue
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		logger.WarnContext(
			ctx,
			"Invalid positive integer environment variable, using default",
			"name", name,
			"value", raw,
			"default", defaultValue,
		)
		return defaultValue
	}
	logger.DebugContext(ctx, "Using value from environment variable", "name", name, "value", parsed)

	return parsed
}

// formatMongoURI formats mongo settings to a url and return the result.
func formatMongoURI(
	ctx context.Context,
	mongoURI string,
	logger *slog.Logger,
) string {
	if mongoURI != "" {
		logger.DebugContext(ctx, "Using MongoDB URI from environment variable", "uri", mongoURI)
		return mongoURI
	}

	mongoHost := os.Getenv(envMongoHost)
	if mongoHost == "" {
		mongoHost = defaultMongoHost
		logger.DebugContext(ctx, "Using default MongoDB host", "host", mongoHost)
	} else {
		logger.DebugContext(ctx, "Using MongoDB host from environment variable", "host", mongoHost)
	}

	mongoUser := os.Getenv(envMongoUser)
	mongoPassword := os.Getenv(envMongoPassword)

	if mongoUser != "" && mongoPassword != "" {
		hostPort := net.JoinHostPort(mongoHost, defaultMongoPort)
		mongoURI = fmt.Sprintf(
			"mongodb://%s:%s@%s/commission?authSource=admin",
			mongoUser,
			mongoPassword,
			hostPort,
		)
		logger.DebugContext(ctx, "Created MongoDB URI from user, password, and host", "host", hostPort)
	} else {
		mongoURI = defaultMongoURI
		logger.DebugContext(ctx, "Using default MongoDB URI", "uri", mongoURI)
	}
	return mongoURI
}
