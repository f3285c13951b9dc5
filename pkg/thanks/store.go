package thanks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unowned-ai/thankful/pkg/photos"
)

// PersistenceError reports a failed storage operation. Callers log it and
// carry on; nothing was committed.
type PersistenceError struct {
	Op  string
	ID  uuid.UUID
	Err error
}

func (e *PersistenceError) Error() string {
	if e.ID == uuid.Nil {
		return fmt.Sprintf("thanks: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("thanks: %s %s: %v", e.Op, e.ID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistErr(op string, id uuid.UUID, err error) error {
	if err == nil {
		return nil
	}
	// Not-found is a domain answer rather than a storage failure.
	if errors.Is(err, ErrEntryNotFound) {
		return err
	}
	return &PersistenceError{Op: op, ID: id, Err: err}
}

// Repository is the entry collection as seen by the CLI, the MCP server and the Editor.
type Repository interface {
	Insert(ctx context.Context, entry Entry, photo []byte) (Entry, error)
	Get(ctx context.Context, id uuid.UUID) (Entry, error)
	Update(ctx context.Context, entry Entry, photo []byte) (Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, sort SortOption) ([]Entry, error)
}

// Store is the SQLite and photo-store backed Repository.
type Store struct {
	db     *sql.DB
	photos photos.Store
	logger *zap.Logger
}

var _ Repository = (*Store)(nil)

// NewStore wires the entry table and the photo store together. photoStore may
// be nil, in which case photo attachments are rejected.
func NewStore(db *sql.DB, photoStore photos.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, photos: photoStore, logger: logger.Named("thanks")}
}

// Insert stores a new entry and, when photo is non-empty, its attachment.
// Either both are stored or neither: a failed photo write removes the new row.
func (s *Store) Insert(ctx context.Context, entry Entry, photo []byte) (Entry, error) {
	if len(photo) > 0 && s.photos == nil {
		return Entry{}, &PersistenceError{Op: "attach photo", Err: errNoPhotoStore}
	}

	created, err := CreateEntry(ctx, s.db, entry)
	if err != nil {
		return Entry{}, persistErr("insert", uuid.Nil, err)
	}
	s.logger.Debug("entry inserted", zap.Stringer("id", created.ID))

	if len(photo) == 0 {
		return created, nil
	}

	withPhoto, err := s.attachPhoto(ctx, created, photo)
	if err != nil {
		s.rollbackInsert(ctx, created.ID)
		return Entry{}, err
	}
	return withPhoto, nil
}

// rollbackInsert removes a freshly inserted entry and any photo written for it.
func (s *Store) rollbackInsert(ctx context.Context, id uuid.UUID) {
	if _, err := DeleteEntry(ctx, s.db, id); err != nil {
		s.logger.Error("failed to roll back entry after photo failure", zap.Stringer("id", id), zap.Error(err))
	}
	if s.photos != nil {
		if err := s.photos.Delete(ctx, id); err != nil {
			s.logger.Warn("failed to remove photo of rolled back entry", zap.Stringer("id", id), zap.Error(err))
		}
	}
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (Entry, error) {
	entry, err := GetEntry(ctx, s.db, id)
	return entry, persistErr("get", id, err)
}

func (s *Store) List(ctx context.Context, sort SortOption) ([]Entry, error) {
	entries, err := ListEntries(ctx, s.db, sort)
	return entries, persistErr("list", uuid.Nil, err)
}

// Update copies entry's editable fields onto the stored entry. A non-empty
// photo replaces the current attachment; nil leaves it alone. The photo is
// written first, so a failed photo write leaves the stored entry untouched.
func (s *Store) Update(ctx context.Context, entry Entry, photo []byte) (Entry, error) {
	if len(photo) > 0 {
		if _, err := GetEntry(ctx, s.db, entry.ID); err != nil {
			return Entry{}, persistErr("update", entry.ID, err)
		}
		if err := s.putPhoto(ctx, entry.ID, photo); err != nil {
			return Entry{}, err
		}
	}

	updated, err := UpdateEntry(ctx, s.db, entry)
	if err != nil {
		return Entry{}, persistErr("update", entry.ID, err)
	}
	if len(photo) == 0 {
		return updated, nil
	}
	if err := SetHasPhoto(ctx, s.db, entry.ID, true); err != nil {
		return Entry{}, persistErr("attach photo", entry.ID, err)
	}
	updated.HasPhoto = true
	return updated, nil
}

var errNoPhotoStore = errors.New("no photo store configured")

func (s *Store) putPhoto(ctx context.Context, id uuid.UUID, photo []byte) error {
	if s.photos == nil {
		return &PersistenceError{Op: "attach photo", ID: id, Err: errNoPhotoStore}
	}
	if err := s.photos.Put(ctx, id, photo); err != nil {
		return &PersistenceError{Op: "attach photo", ID: id, Err: err}
	}
	return nil
}

func (s *Store) attachPhoto(ctx context.Context, entry Entry, photo []byte) (Entry, error) {
	if err := s.putPhoto(ctx, entry.ID, photo); err != nil {
		return Entry{}, err
	}
	if err := SetHasPhoto(ctx, s.db, entry.ID, true); err != nil {
		return Entry{}, persistErr("attach photo", entry.ID, err)
	}
	entry.HasPhoto = true
	return entry, nil
}

// Photo returns the attachment of an entry, or photos.ErrNotFound.
func (s *Store) Photo(ctx context.Context, id uuid.UUID) ([]byte, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entry.HasPhoto || s.photos == nil {
		return nil, photos.ErrNotFound
	}
	return s.photos.Get(ctx, id)
}

// Delete removes an entry and the photo it owns. Deleting an entry that does
// not exist, or no longer exists, succeeds without effect.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	entry, err := GetEntry(ctx, s.db, id)
	if errors.Is(err, ErrEntryNotFound) {
		return nil
	}
	if err != nil {
		return persistErr("delete", id, err)
	}

	if _, err := DeleteEntry(ctx, s.db, id); err != nil {
		return persistErr("delete", id, err)
	}
	s.logger.Debug("entry deleted", zap.Stringer("id", id))

	if entry.HasPhoto && s.photos != nil {
		// The row is gone; an orphaned file is logged rather than resurrecting the entry.
		if err := s.photos.Delete(ctx, id); err != nil {
			s.logger.Warn("failed to delete photo of removed entry", zap.Stringer("id", id), zap.Error(err))
		}
	}
	return nil
}

// ToggleFavorite flips the favorite flag of an entry.
func (s *Store) ToggleFavorite(ctx context.Context, id uuid.UUID) (Entry, error) {
	entry, err := ToggleFavorite(ctx, s.db, id)
	return entry, persistErr("toggle favorite", id, err)
}

// EraseAll deletes every entry and every photo. The photo owners are read
// first so that their attachments can be removed after the rows are gone.
func (s *Store) EraseAll(ctx context.Context) (int64, error) {
	owners, err := listPhotoOwners(ctx, s.db)
	if err != nil {
		return 0, persistErr("erase all", uuid.Nil, err)
	}

	n, err := DeleteAllEntries(ctx, s.db)
	if err != nil {
		return 0, persistErr("erase all", uuid.Nil, err)
	}

	if s.photos != nil {
		for _, id := range owners {
			if err := s.photos.Delete(ctx, id); err != nil {
				return n, &PersistenceError{Op: "erase photo", ID: id, Err: err}
			}
		}
	}
	s.logger.Info("erased all entries", zap.Int64("entries", n), zap.Int("photos", len(owners)))
	return n, nil
}
