package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	FirebaseProject string
	Environment     string

	// Walrus decentralized blob storage. When HybridStorageEnabled is false
	// message text is kept in Firestore only.
	WalrusPublisherURL   string
	WalrusAggregatorURL  string
	WalrusEpochs         int
	WalrusTimeout        time.Duration
	HybridStorageEnabled bool
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		Environment:     getEnv("ENVIRONMENT", "development"),

		WalrusPublisherURL:   getEnv("WALRUS_PUBLISHER_URL", "https://publisher.walrus-testnet.walrus.space"),
		WalrusAggregatorURL:  getEnv("WALRUS_AGGREGATOR_URL", "https://aggregator.walrus-testnet.walrus.space"),
		WalrusEpochs:         getEnvAsInt("WALRUS_EPOCHS", 5),
		WalrusTimeout:        time.Duration(getEnvAsInt("WALRUS_TIMEOUT_SECONDS", 30)) * time.Second,
		HybridStorageEnabled: getEnvAsBool("HYBRID_STORAGE_ENABLED", false),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}
