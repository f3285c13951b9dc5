package thanks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEntryNotFound = errors.New("thanks entry not found")
)

const entryColumns = `id, title, reason, date, is_favorite, icon, color, has_photo, created_at, updated_at`

const (
	createEntryStatement = `
	INSERT INTO thanks (id, title, reason, date, is_favorite, icon, color, has_photo)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	getEntryStatement = `
	SELECT ` + entryColumns + `
	FROM thanks
	WHERE id = ?
	`

	// rowid keeps insertion order as the final tie-breaker.
	listEntriesStatement = `
	SELECT ` + entryColumns + `
	FROM thanks
	ORDER BY %s, rowid ASC
	`

	updateEntryStatement = `
	UPDATE thanks
	SET title = ?, reason = ?, date = ?, is_favorite = ?, icon = ?, color = ?, updated_at = unixepoch()
	WHERE id = ?
	`

	setFavoriteStatement = `
	UPDATE thanks
	SET is_favorite = ?, updated_at = unixepoch()
	WHERE id = ?
	`

	setHasPhotoStatement = `
	UPDATE thanks
	SET has_photo = ?, updated_at = unixepoch()
	WHERE id = ?
	`

	deleteEntryStatement = `
	DELETE FROM thanks
	WHERE id = ?
	`

	deleteAllEntriesStatement = `
	DELETE FROM thanks
	`

	listPhotoOwnersStatement = `
	SELECT id FROM thanks WHERE has_photo = TRUE
	`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		entry Entry
		icon  string
		date  int64
	)
	err := row.Scan(
		&entry.ID,
		&entry.Title,
		&entry.Reason,
		&date,
		&entry.IsFavorite,
		&icon,
		&entry.ColorHex,
		&entry.HasPhoto,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return Entry{}, err
	}
	entry.Icon = Icon(icon)
	entry.Date = time.Unix(0, date)
	return entry, nil
}

// CreateEntry inserts a new entry with a fresh ID. The entry's ID, HasPhoto and
// timestamps are ignored; everything else is stored as given.
func CreateEntry(ctx context.Context, db *sql.DB, entry Entry) (Entry, error) {
	entryID := uuid.New()

	if entry.Date.IsZero() {
		entry.Date = time.Now()
	}

	_, err := db.ExecContext(
		ctx,
		createEntryStatement,
		entryID,
		entry.Title,
		entry.Reason,
		entry.Date.UnixNano(),
		entry.IsFavorite,
		string(entry.Icon),
		entry.ColorHex,
		false,
	)
	if err != nil {
		return Entry{}, err
	}

	return GetEntry(ctx, db, entryID)
}

// GetEntry retrieves an entry by ID.
func GetEntry(ctx context.Context, db *sql.DB, id uuid.UUID) (Entry, error) {
	entry, err := scanEntry(db.QueryRowContext(ctx, getEntryStatement, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrEntryNotFound
		}
		return Entry{}, err
	}
	return entry, nil
}

func orderClause(sort SortOption) string {
	switch sort {
	case SortTitleDesc:
		return "title DESC"
	case SortDateAsc:
		return "date ASC"
	case SortDateDesc:
		return "date DESC"
	default:
		return "title ASC"
	}
}

// ListEntries returns every entry ordered by sort. SQLite compares TEXT with
// BINARY collation, which matches the ordinal compare used by Project.
func ListEntries(ctx context.Context, db *sql.DB, sort SortOption) ([]Entry, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(listEntriesStatement, orderClause(sort)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// UpdateEntry copies every editable field of entry onto the stored row with the same ID.
func UpdateEntry(ctx context.Context, db *sql.DB, entry Entry) (Entry, error) {
	res, err := db.ExecContext(
		ctx,
		updateEntryStatement,
		entry.Title,
		entry.Reason,
		entry.Date.UnixNano(),
		entry.IsFavorite,
		string(entry.Icon),
		entry.ColorHex,
		entry.ID,
	)
	if err != nil {
		return Entry{}, err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return Entry{}, err
	}
	if rowsAffected == 0 {
		return Entry{}, ErrEntryNotFound
	}

	return GetEntry(ctx, db, entry.ID)
}

// SetFavorite sets the favorite flag.
func SetFavorite(ctx context.Context, db *sql.DB, id uuid.UUID, favorite bool) (Entry, error) {
	res, err := db.ExecContext(ctx, setFavoriteStatement, favorite, id)
	if err != nil {
		return Entry{}, err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return Entry{}, err
	}
	if rowsAffected == 0 {
		return Entry{}, ErrEntryNotFound
	}

	return GetEntry(ctx, db, id)
}

// ToggleFavorite flips the favorite flag and returns the updated entry.
func ToggleFavorite(ctx context.Context, db *sql.DB, id uuid.UUID) (Entry, error) {
	entry, err := GetEntry(ctx, db, id)
	if err != nil {
		return Entry{}, err
	}
	return SetFavorite(ctx, db, id, !entry.IsFavorite)
}

// SetHasPhoto records whether the photo store holds an attachment for the entry.
func SetHasPhoto(ctx context.Context, db *sql.DB, id uuid.UUID, hasPhoto bool) error {
	res, err := db.ExecContext(ctx, setHasPhotoStatement, hasPhoto, id)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// DeleteEntry removes an entry. Deleting an unknown or already deleted entry
// is a no-op; the returned bool reports whether a row was removed.
func DeleteEntry(ctx context.Context, db *sql.DB, id uuid.UUID) (bool, error) {
	res, err := db.ExecContext(ctx, deleteEntryStatement, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// DeleteAllEntries removes every entry and returns how many were deleted.
func DeleteAllEntries(ctx context.Context, db *sql.DB) (int64, error) {
	res, err := db.ExecContext(ctx, deleteAllEntriesStatement)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// listPhotoOwners returns the IDs of entries that have a photo attached.
func listPhotoOwners(ctx context.Context, db *sql.DB) ([]uuid.UUID, error) {
	rows, err := db.QueryContext(ctx, listPhotoOwnersStatement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
