// Package photostore persists the photos behind camera inserts; the stored
// key lands in the item's image_path column.
package photostore

import (
	"context"
	"io"
)

type PhotoStore interface {
	// Save stores the image and returns the storage key to record on the
	// item. label is the detected food label; implementations may use it to
	// make keys readable.
	Save(ctx context.Context, label, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}
