package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	applog "playstats/internal/log"
)

type Config struct {
	// Report source
	StoreBackend  string
	Bucket        string
	Packages      []string
	LocalStoreDir string

	// Google service account
	ServiceAccountJSON string
	ServiceAccountFile string

	// Runner
	PackageConcurrency int
	LogLevel           string

	// AMQP (optional summary publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	cfg := &Config{
		StoreBackend:  getEnv("STORE_BACKEND", "gcs"),
		Bucket:        getEnv("PLAYSTATS_BUCKET", ""),
		Packages:      getEnvList("PLAYSTATS_PACKAGES"),
		LocalStoreDir: getEnv("LOCAL_STORE_DIR", "./data"),

		ServiceAccountJSON: strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")),
		ServiceAccountFile: strings.TrimSpace(getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))),

		PackageConcurrency: getEnvInt("PACKAGE_CONCURRENCY", 2),
		LogLevel:           getEnv("LOG_LEVEL", "info"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "playstats"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "monthly_installs"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{"gcs", "local"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.StoreBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid store backend '%s': must be one of %v", c.StoreBackend, validBackends))
	}

	if strings.TrimSpace(c.Bucket) == "" {
		errors = append(errors, "PLAYSTATS_BUCKET is required")
	}
	if len(c.Packages) == 0 {
		errors = append(errors, "PLAYSTATS_PACKAGES must list at least one package")
	}

	if c.StoreBackend == "gcs" {
		if c.ServiceAccountJSON == "" && c.ServiceAccountFile == "" {
			errors = append(errors, "missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
		}
		if c.ServiceAccountJSON == "" && c.ServiceAccountFile != "" {
			if _, err := os.Stat(c.ServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("service account file does not exist: %s", c.ServiceAccountFile))
			}
		}
	}

	if c.StoreBackend == "local" {
		if c.LocalStoreDir == "" {
			errors = append(errors, "LOCAL_STORE_DIR cannot be empty when using local backend")
		} else if info, err := os.Stat(c.LocalStoreDir); err != nil || !info.IsDir() {
			errors = append(errors, fmt.Sprintf("local store directory does not exist: %s", c.LocalStoreDir))
		}
	}

	if c.PackageConcurrency < 1 {
		errors = append(errors, fmt.Sprintf("invalid package concurrency %d: must be at least 1", c.PackageConcurrency))
	} else if c.PackageConcurrency > 16 {
		errors = append(errors, fmt.Sprintf("invalid package concurrency %d: must be at most 16", c.PackageConcurrency))
	}

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level: %v", err))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Credentials returns the service account key, reading it from disk when only
// a file path is configured.
func (c *Config) Credentials() ([]byte, error) {
	if c.ServiceAccountJSON != "" {
		return []byte(c.ServiceAccountJSON), nil
	}
	if c.ServiceAccountFile == "" {
		return nil, fmt.Errorf("no service account credentials configured")
	}
	b, err := os.ReadFile(c.ServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return b, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping blanks and duplicates.
func getEnvList(key string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, v := range strings.Split(os.Getenv(key), ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
