package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all environment-driven settings for the service.
type Config struct {
	Port           int
	DatabaseURL    string
	SupabaseSchema string
	AdminPassword  string
	LogLevel       string
	LogFormat      string

	MetricsNamespace string

	// Fallback persistence through the GitHub contents API. Used when
	// StoreBackend is "github" or when no DatabaseURL is configured.
	StoreBackend string
	GitHubToken  string
	GitHubRepo   string
	GitHubBranch string

	KeepAliveInterval time.Duration
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		Port:              5000,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SupabaseSchema:    getEnv("SUPABASE_SCHEMA", "public"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		MetricsNamespace:  getEnv("METRICS_NAMESPACE", "thunder"),
		StoreBackend:      getEnv("STORE_BACKEND", "postgres"),
		GitHubToken:       os.Getenv("GITHUB_TOKEN"),
		GitHubRepo:        os.Getenv("GITHUB_REPO"),
		GitHubBranch:      getEnv("GITHUB_BRANCH", "main"),
		KeepAliveInterval: 5 * time.Minute,
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("parse PORT: %w", err)
		}
		cfg.Port = port
	}

	if cfg.AdminPassword == "" {
		return Config{}, fmt.Errorf("ADMIN_PASSWORD is required")
	}

	switch cfg.StoreBackend {
	case "postgres", "github":
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	if cfg.StoreBackend == "github" && (cfg.GitHubToken == "" || cfg.GitHubRepo == "") {
		return Config{}, fmt.Errorf("GITHUB_TOKEN and GITHUB_REPO are required for the github backend")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
