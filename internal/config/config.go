package config

import "os"

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port     string
	MongoURL string
	MongoDB  string
}

func Load() *Config {
	return &Config{
		Port:     getenv("PORT", "8080"),
		MongoURL: getenv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:  getenv("MONGO_DB", "budget_db"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
