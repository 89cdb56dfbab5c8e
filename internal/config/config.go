package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string

	RegistryAPIBaseURL   string
	RegistryAPIToken     string
	RegistryRateLimitRPS int
	RegistryTimeoutMs    int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "fleet.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		RegistryAPIBaseURL:   getEnv("REGISTRY_API_BASE_URL", "https://api.voertuigregister.example/v1"),
		RegistryAPIToken:     getEnv("REGISTRY_API_TOKEN", ""),
		RegistryRateLimitRPS: getEnvInt("REGISTRY_RATE_LIMIT_RPS", 5),
		RegistryTimeoutMs:    getEnvInt("REGISTRY_TIMEOUT_MS", 30000),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
