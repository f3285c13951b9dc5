package thanks

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Lister is the read side of a Repository.
type Lister interface {
	List(ctx context.Context, sort SortOption) ([]Entry, error)
}

// snapshotKey covers every displayed field; updated_at alone only has
// one-second resolution.
type snapshotKey struct {
	id        uuid.UUID
	updatedAt float64
	title     string
	reason    string
	date      int64
	favorite  bool
	icon      Icon
	color     string
	hasPhoto  bool
}

func keysOf(entries []Entry) []snapshotKey {
	keys := make([]snapshotKey, len(entries))
	for i, e := range entries {
		keys[i] = snapshotKey{
			id:        e.ID,
			updatedAt: e.UpdatedAt,
			title:     e.Title,
			reason:    e.Reason,
			date:      e.Date.UnixNano(),
			favorite:  e.IsFavorite,
			icon:      e.Icon,
			color:     e.ColorHex,
			hasPhoto:  e.HasPhoto,
		}
	}
	return keys
}

// Poll re-reads the collection every interval and calls fn with the projected
// view whenever it differs from the last one delivered. The first view is
// always delivered. Poll returns when ctx is done or a list call fails.
func Poll(ctx context.Context, lister Lister, opts ViewOptions, interval time.Duration, fn func([]Entry)) error {
	if interval <= 0 {
		return errors.New("thanks: poll interval must be positive")
	}

	var last []snapshotKey
	delivered := false

	refresh := func() error {
		entries, err := lister.List(ctx, opts.Sort)
		if err != nil {
			return err
		}
		view := Project(entries, opts)
		keys := keysOf(view)
		if delivered && slices.Equal(keys, last) {
			return nil
		}
		last, delivered = keys, true
		fn(view)
		return nil
	}

	if err := refresh(); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := refresh(); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}
