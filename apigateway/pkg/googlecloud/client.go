package googlecloud

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/datastore"
)

// Client wraps the Google Cloud Datastore client with task-specific operations.
type Client struct {
	ds *datastore.Client
}

// NewClient creates a new Google Cloud Datastore client.
// The official client picks up DATASTORE_EMULATOR_HOST on its own.
func NewClient(ctx context.Context, projectID string) (*Client, error) {
	ds, err := datastore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create datastore client: %w", err)
	}

	return &Client{ds: ds}, nil
}

// EmulatorHost returns the emulator address the client talks to, if any.
func EmulatorHost() string {
	return os.Getenv("DATASTORE_EMULATOR_HOST")
}

// Close closes the underlying datastore client.
func (c *Client) Close() error {
	return c.ds.Close()
}
