package thanks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/unowned-ai/thankful/pkg/photos"
)

type failingPhotoStore struct{ err error }

func (f failingPhotoStore) Put(context.Context, uuid.UUID, []byte) error { return f.err }
func (f failingPhotoStore) Get(context.Context, uuid.UUID) ([]byte, error) {
	return nil, f.err
}
func (f failingPhotoStore) Delete(context.Context, uuid.UUID) error { return f.err }

func setupTestStore(t *testing.T) (*Store, *photos.DiskStore) {
	t.Helper()
	photoStore := photos.NewDiskStore(t.TempDir())
	return NewStore(setupTestDB(t), photoStore, nil), photoStore
}

func TestStoreInsertWithPhoto(t *testing.T) {
	store, photoStore := setupTestStore(t)
	ctx := context.Background()
	photo := []byte("jpeg bytes")

	entry, err := store.Insert(ctx, Entry{Title: "Sunset", Icon: IconSun, ColorHex: DefaultColorHex}, photo)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if !entry.HasPhoto {
		t.Errorf("Expected returned entry to have a photo")
	}

	stored, err := store.Get(ctx, entry.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !stored.HasPhoto {
		t.Errorf("Expected stored entry to have a photo")
	}

	got, err := store.Photo(ctx, entry.ID)
	if err != nil {
		t.Fatalf("Photo failed: %v", err)
	}
	if string(got) != string(photo) {
		t.Errorf("Expected photo %q, got %q", photo, got)
	}

	if _, err := photoStore.Get(ctx, entry.ID); err != nil {
		t.Errorf("Expected photo to be in the photo store, got %v", err)
	}
}

func TestStorePhotoMissing(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	entry, err := store.Insert(ctx, Entry{Title: "No photo", Icon: DefaultIcon, ColorHex: DefaultColorHex}, nil)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := store.Photo(ctx, entry.ID); !errors.Is(err, photos.ErrNotFound) {
		t.Errorf("Expected photos.ErrNotFound, got %v", err)
	}
}

func TestStoreInsertPhotoFailureCommitsNothing(t *testing.T) {
	store := NewStore(setupTestDB(t), failingPhotoStore{err: errors.New("disk full")}, nil)
	ctx := context.Background()

	entry, err := store.Insert(ctx, Entry{Title: "Concert", Icon: DefaultIcon, ColorHex: DefaultColorHex}, []byte("x"))
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected *PersistenceError, got %v", err)
	}
	if perr.Op != "attach photo" {
		t.Errorf("Expected op %q, got %q", "attach photo", perr.Op)
	}
	if entry.ID != uuid.Nil {
		t.Errorf("Expected a zero entry, got ID %s", entry.ID)
	}

	entries, err := store.List(ctx, SortTitleAsc)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries after a failed photo write, got %v", titles(entries))
	}
}

func TestStoreInsertPhotoWithoutPhotoStore(t *testing.T) {
	store := NewStore(setupTestDB(t), nil, nil)
	ctx := context.Background()

	if _, err := store.Insert(ctx, Entry{Title: "Lake", Icon: DefaultIcon, ColorHex: DefaultColorHex}, []byte("x")); err == nil {
		t.Fatalf("Expected an error without a photo store")
	}

	entries, err := store.List(ctx, SortTitleAsc)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %v", titles(entries))
	}
}

func TestStoreUpdatePhotoFailureLeavesEntryUntouched(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	created, err := NewStore(testDB, photos.NewDiskStore(t.TempDir()), nil).
		Insert(ctx, Entry{Title: "Picnic", Icon: DefaultIcon, ColorHex: DefaultColorHex}, nil)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	store := NewStore(testDB, failingPhotoStore{err: errors.New("disk full")}, nil)
	created.Title = "Picnic in the rain"
	if _, err := store.Update(ctx, created, []byte("x")); err == nil {
		t.Fatalf("Expected the photo failure to be returned")
	}

	stored, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.Title != "Picnic" {
		t.Errorf("Expected title to stay %q, got %q", "Picnic", stored.Title)
	}
	if stored.HasPhoto {
		t.Errorf("Expected no photo flag after a failed photo write")
	}
}

func TestStoreUpdateKeepsPhotoWhenNil(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	entry, err := store.Insert(ctx, Entry{Title: "Hike", Icon: IconWalk, ColorHex: DefaultColorHex}, []byte("trail"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	entry.Title = "Long hike"
	updated, err := store.Update(ctx, entry, nil)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "Long hike" {
		t.Errorf("Expected updated title, got %q", updated.Title)
	}
	if !updated.HasPhoto {
		t.Errorf("Expected photo flag to survive an update without a photo")
	}
}

func TestStoreDeleteIsIdempotent(t *testing.T) {
	store, photoStore := setupTestStore(t)
	ctx := context.Background()

	entry, err := store.Insert(ctx, Entry{Title: "Library", Icon: IconPencil, ColorHex: DefaultColorHex}, []byte("books"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := store.Delete(ctx, entry.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, entry.ID); err != nil {
		t.Errorf("Second Delete should be a no-op, got %v", err)
	}
	if err := store.Delete(ctx, uuid.New()); err != nil {
		t.Errorf("Deleting an unknown entry should be a no-op, got %v", err)
	}

	if _, err := photoStore.Get(ctx, entry.ID); !errors.Is(err, photos.ErrNotFound) {
		t.Errorf("Expected owned photo to be removed with the entry, got %v", err)
	}
}

func TestStoreDeleteSecondOfThree(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i, title := range []string{"A", "B", "C"} {
		entry, err := store.Insert(ctx, Entry{Title: title, Date: base.Add(time.Duration(i) * time.Minute), Icon: DefaultIcon, ColorHex: DefaultColorHex}, nil)
		if err != nil {
			t.Fatalf("Insert %s failed: %v", title, err)
		}
		ids = append(ids, entry.ID)
	}

	if err := store.Delete(ctx, ids[1]); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	entries, err := store.List(ctx, SortDateAsc)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	view := Project(entries, ViewOptions{Sort: SortDateAsc})
	if len(view) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(view))
	}
	if view[0].ID != ids[0] || view[1].ID != ids[2] {
		t.Errorf("Expected remaining entries A and C, got %v", titles(view))
	}
}

func TestStoreEraseAll(t *testing.T) {
	store, photoStore := setupTestStore(t)
	ctx := context.Background()

	withPhoto, err := store.Insert(ctx, Entry{Title: "Beach", Icon: DefaultIcon, ColorHex: DefaultColorHex}, []byte("sand"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := store.Insert(ctx, Entry{Title: "Tea", Icon: DefaultIcon, ColorHex: DefaultColorHex}, nil); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	n, err := store.EraseAll(ctx)
	if err != nil {
		t.Fatalf("EraseAll failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 erased entries, got %d", n)
	}
	if _, err := photoStore.Get(ctx, withPhoto.ID); !errors.Is(err, photos.ErrNotFound) {
		t.Errorf("Expected photo to be erased, got %v", err)
	}
}

func TestStoreGetNotFoundIsNotPersistenceError(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("Expected ErrEntryNotFound, got %v", err)
	}
	var perr *PersistenceError
	if errors.As(err, &perr) {
		t.Errorf("Expected a plain not-found error, got %v", perr)
	}
}
