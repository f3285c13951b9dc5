package photos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"
)

// DiskStore keeps photos as plain files under a base directory.
type DiskStore struct {
	d *diskv.Diskv
}

// NewDiskStore stores photos below dir, fanned out by the first two characters of the ID.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    fanOut,
		CacheSizeMax: 8 * 1024 * 1024,
	})}
}

func fanOut(key string) []string {
	if len(key) < 2 {
		return []string{}
	}
	return []string{key[:2]}
}

func (s *DiskStore) Put(_ context.Context, entryID uuid.UUID, data []byte) error {
	if err := s.d.Write(entryID.String(), data); err != nil {
		return fmt.Errorf("photos: write %s: %w", entryID, err)
	}
	return nil
}

func (s *DiskStore) Get(_ context.Context, entryID uuid.UUID) ([]byte, error) {
	key := entryID.String()
	if !s.d.Has(key) {
		return nil, ErrNotFound
	}
	data, err := s.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("photos: read %s: %w", entryID, err)
	}
	return data, nil
}

func (s *DiskStore) Delete(_ context.Context, entryID uuid.UUID) error {
	key := entryID.String()
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("photos: erase %s: %w", entryID, err)
	}
	return nil
}
