package config

import (
	"os"
	"strconv"
)

// loadDevelopmentConfig honors the PORT variable that dev tooling sets.
func loadDevelopmentConfig(cfg *Config) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err == nil {
		cfg.ServerPort = port
	}
}

func loadTestConfig(cfg *Config) {
	cfg.ServerHost = "127.0.0.1"
	cfg.DatabaseConnectRetryCount = 1
	cfg.DatabaseConnectRetryDelay = 0
	cfg.MetricsEnabled = false
	cfg.RateLimit = ""
}
