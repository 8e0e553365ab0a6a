package config

import (
	"time"
)

// Config holds the application configuration.
type Config struct {
	// FeeConfigPath points at a YAML fee table; empty means the built-in one.
	FeeConfigPath       string
	InputExtension      string
	ExchangeAPIEndpoint string
	ExchangeAPIKey      string
	DemoRates           bool
	StrictRows          bool
	PersistFees         bool
	MongoURI            string
	SyntheticDataDir    string
	SyntheticDataRows   int
	Timeout             time.Duration
}
