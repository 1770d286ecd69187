package backend

import (
	"context"
	"fmt"
	"log/slog"

	"playstats/internal/reports"
	"playstats/internal/reports/gcs"
	"playstats/internal/reports/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateStore implements Factory.CreateStore
func (f *DefaultFactory) CreateStore(ctx context.Context, config Config) (reports.Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case GCSBackend:
		return f.createGCSStore(ctx, config)
	case LocalBackend:
		return f.createLocalStore(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createGCSStore(ctx context.Context, config Config) (reports.Store, error) {
	cli, err := gcs.NewFromCredentialsJSON(ctx, config.CredentialsJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Cloud Storage client: %w", err)
	}

	f.logger.Info("Initialized Google Cloud Storage backend")

	return cli, nil
}

func (f *DefaultFactory) createLocalStore(config Config) (reports.Store, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data" // Default directory
	}

	store, err := memory.NewFromDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load local store: %w", err)
	}

	f.logger.Info("Initialized local backend", "data_directory", dataDir)

	return store, nil
}
