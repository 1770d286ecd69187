package backend

import (
	"context"

	"playstats/internal/reports"
)

// Factory creates report stores based on configuration
type Factory interface {
	// CreateStore creates a store instance based on the provided config
	CreateStore(ctx context.Context, config Config) (reports.Store, error)
}

// Config holds configuration for store creation
type Config struct {
	// Backend type
	Type BackendType

	// Google Cloud Storage specific
	CredentialsJSON []byte

	// Local mirror specific
	DataDirectory string
}

// BackendType represents the type of backend
type BackendType string

const (
	GCSBackend   BackendType = "gcs"
	LocalBackend BackendType = "local"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case GCSBackend, LocalBackend:
		return true
	default:
		return false
	}
}
