package backend

import (
	"fmt"
	"strings"

	"playstats/internal/config"
)

// FromAppConfig converts the application config to backend config. For the
// gcs backend the service account key is read here, once per run.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.StoreBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s (valid: %s)",
			appConfig.StoreBackend, strings.Join(GetBackendTypeStrings(), ", "))
	}

	cfg := Config{
		Type:          backendType,
		DataDirectory: appConfig.LocalStoreDir,
	}
	if backendType == GCSBackend {
		creds, err := appConfig.Credentials()
		if err != nil {
			return Config{}, err
		}
		cfg.CredentialsJSON = creds
	}
	return cfg, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case GCSBackend:
		if len(c.CredentialsJSON) == 0 {
			return fmt.Errorf("service account credentials are required for gcs backend")
		}
	case LocalBackend:
		// DataDirectory will default to "data" if empty
	}

	return nil
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := []BackendType{GCSBackend, LocalBackend}
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
