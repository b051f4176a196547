// Package config loads solver settings from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"trash-route-solver/internal/domain"
)

// Config holds the runtime settings shared by the CLI and the server.
type Config struct {
	Port        string  `yaml:"port"`
	CacheDBPath string  `yaml:"cache_db_path"`
	DatabaseURL string  `yaml:"database_url"`
	OSRMBaseURL string  `yaml:"osrm_base_url"`
	OSRMProfile string  `yaml:"osrm_profile"`
	Weights     Weights `yaml:"weights"`
}

// Weights mirrors domain.Weights for YAML decoding.
type Weights struct {
	Duration float64 `yaml:"duration"`
	TWV      float64 `yaml:"twv"`
	CV       float64 `yaml:"cv"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	w := domain.DefaultWeights()
	return Config{
		Port:        "8080",
		CacheDBPath: "data/solver.db",
		OSRMProfile: "driving",
		Weights:     Weights{Duration: w.Duration, TWV: w.TWV, CV: w.CV},
	}
}

// Load builds the configuration in three layers: defaults, then the YAML
// file at path (skipped when path is empty or missing), then environment
// variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("load config: parse %q: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load config: read %q: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.CacheDBPath = getEnv("CACHE_DB_PATH", cfg.CacheDBPath)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.OSRMBaseURL = getEnv("OSRM_BASE_URL", cfg.OSRMBaseURL)
	cfg.OSRMProfile = getEnv("OSRM_PROFILE", cfg.OSRMProfile)
	cfg.Weights.Duration = getEnvFloat("WEIGHT_DURATION", cfg.Weights.Duration)
	cfg.Weights.TWV = getEnvFloat("WEIGHT_TWV", cfg.Weights.TWV)
	cfg.Weights.CV = getEnvFloat("WEIGHT_CV", cfg.Weights.CV)

	return cfg, nil
}

// DomainWeights converts the decoded weights to the domain type.
func (c Config) DomainWeights() domain.Weights {
	return domain.Weights{Duration: c.Weights.Duration, TWV: c.Weights.TWV, CV: c.Weights.CV}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
