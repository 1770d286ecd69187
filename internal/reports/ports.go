package reports

import (
	"context"
)

// Ports for outbound adapters.
type (
	// ObjectLister enumerates object names in a bucket.
	ObjectLister interface {
		// ListObjects returns the names of all objects whose name starts with prefix.
		ListObjects(ctx context.Context, bucket, prefix string) ([]string, error)
	}

	// ObjectReader fetches the raw content of a single object.
	ObjectReader interface {
		ReadObject(ctx context.Context, bucket, name string) ([]byte, error)
	}

	Store interface {
		ObjectLister
		ObjectReader
	}
)
