package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	ports "playstats/internal/reports"

	goption "google.golang.org/api/option"
	gstorage "google.golang.org/api/storage/v1"
)

// Client reads report objects from Google Cloud Storage through the JSON API.
type Client struct {
	svc *gstorage.Service
}

// Ensure interface conformance
var _ ports.Store = (*Client)(nil)

// New creates a storage client from explicit client options.
func New(ctx context.Context, opts ...goption.ClientOption) (*Client, error) {
	svc, err := gstorage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// NewFromCredentialsJSON authenticates once with a service account key and
// returns a read-only storage client.
func NewFromCredentialsJSON(ctx context.Context, credentialsJSON []byte) (*Client, error) {
	if len(credentialsJSON) == 0 {
		return nil, errors.New("missing service account credentials")
	}

	slog.InfoContext(ctx, "Creating Google Cloud Storage service with Service Account",
		"credentials_size", len(credentialsJSON),
		"scope", gstorage.DevstorageReadOnlyScope)

	c, err := New(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gstorage.DevstorageReadOnlyScope))
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Google Cloud Storage service created successfully")
	return c, nil
}

// ListObjects implements ports.ObjectLister. Every result page is consumed.
func (c *Client) ListObjects(ctx context.Context, bucket, prefix string) ([]string, error) {
	if c.svc == nil {
		return nil, errors.New("storage service not initialized")
	}
	var names []string
	err := c.svc.Objects.List(bucket).Prefix(prefix).Fields("nextPageToken", "items/name").
		Pages(ctx, func(objs *gstorage.Objects) error {
			for _, o := range objs.Items {
				names = append(names, o.Name)
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list gs://%s/%s: %w", bucket, prefix, err)
	}
	return names, nil
}

// ReadObject implements ports.ObjectReader.
func (c *Client) ReadObject(ctx context.Context, bucket, name string) ([]byte, error) {
	if c.svc == nil {
		return nil, errors.New("storage service not initialized")
	}
	resp, err := c.svc.Objects.Get(bucket, name).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download gs://%s/%s: %w", bucket, name, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gs://%s/%s: %w", bucket, name, err)
	}
	return b, nil
}
