// Package photos stores the binary photo attached to a thanks entry outside
// the SQLite database, keyed by the owning entry's ID.
package photos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("photo not found")

// Store is large-object storage for entry photos. Delete of a missing photo is not an error.
type Store interface {
	Put(ctx context.Context, entryID uuid.UUID, data []byte) error
	Get(ctx context.Context, entryID uuid.UUID) ([]byte, error)
	Delete(ctx context.Context, entryID uuid.UUID) error
}

// Config selects and configures a Store backend.
type Config struct {
	Backend     string
	Dir         string
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3Prefix    string
	S3AccessKey string
	S3SecretKey string
}

// New builds the Store named by cfg.Backend ("disk" or "s3").
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "disk":
		if cfg.Dir == "" {
			return nil, errors.New("photos: disk backend requires a directory")
		}
		return NewDiskStore(cfg.Dir), nil
	case "s3":
		return NewS3Store(ctx, S3Options{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		return nil, fmt.Errorf("photos: unknown backend %q", cfg.Backend)
	}
}
