package thanks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrCommitInProgress = errors.New("a commit is already in progress")

// Draft is a detached, editable copy of an entry. A draft with a nil ID is in
// add mode; otherwise it edits the entry with that ID.
type Draft struct {
	ID         uuid.UUID
	Title      string
	Reason     string
	Date       time.Time
	IsFavorite bool
	Icon       Icon
	ColorHex   string
	Photo      []byte
}

// NewDraft starts an add-mode draft with the default icon and color.
func NewDraft(now time.Time) Draft {
	return Draft{
		Date:     now,
		Icon:     DefaultIcon,
		ColorHex: DefaultColorHex,
	}
}

// DraftFrom starts an edit-mode draft of entry. The photo is not loaded; set
// Photo only to replace the attachment.
func DraftFrom(entry Entry) Draft {
	return Draft{
		ID:         entry.ID,
		Title:      entry.Title,
		Reason:     entry.Reason,
		Date:       entry.Date,
		IsFavorite: entry.IsFavorite,
		Icon:       entry.Icon,
		ColorHex:   entry.ColorHex,
	}
}

// ParseDate reads a draft date given as RFC3339 or as a local YYYY-MM-DD day.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want RFC3339 or YYYY-MM-DD", raw)
	}
	return t, nil
}

// IsNew reports whether the draft would insert a new entry.
func (d Draft) IsNew() bool { return d.ID == uuid.Nil }

// Committable reports whether the trimmed title is non-empty.
func (d Draft) Committable() bool { return strings.TrimSpace(d.Title) != "" }

func (d Draft) entry() Entry {
	return Entry{
		ID:         d.ID,
		Title:      d.Title,
		Reason:     d.Reason,
		Date:       d.Date,
		IsFavorite: d.IsFavorite,
		Icon:       d.Icon,
		ColorHex:   d.ColorHex,
	}
}

const (
	editorIdle int32 = iota
	editorSubmitting
)

// Editor commits drafts to a Repository. Only one commit runs at a time: a
// second Commit while the first is in flight fails with ErrCommitInProgress.
type Editor struct {
	repo   Repository
	logger *zap.Logger
	state  atomic.Int32
}

func NewEditor(repo Repository, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{repo: repo, logger: logger.Named("editor")}
}

// Busy reports whether a commit is in flight.
func (e *Editor) Busy() bool { return e.state.Load() == editorSubmitting }

// Commit persists the draft. A draft with a blank title is discarded: nothing
// is inserted in add mode and the existing entry is left untouched in edit
// mode. The returned bool reports whether anything was written.
//
// Storage failures are logged and returned with nothing written; the editor
// returns to idle either way.
func (e *Editor) Commit(ctx context.Context, d Draft) (Entry, bool, error) {
	if !e.state.CompareAndSwap(editorIdle, editorSubmitting) {
		return Entry{}, false, ErrCommitInProgress
	}
	defer e.state.Store(editorIdle)

	if !d.Committable() {
		e.logger.Debug("discarding draft with empty title", zap.Bool("new", d.IsNew()))
		return Entry{}, false, nil
	}

	var (
		entry Entry
		err   error
	)
	if d.IsNew() {
		entry, err = e.repo.Insert(ctx, d.entry(), d.Photo)
	} else {
		entry, err = e.repo.Update(ctx, d.entry(), d.Photo)
	}
	if err != nil {
		e.logger.Error("failed to commit draft", zap.Stringer("id", d.ID), zap.Bool("new", d.IsNew()), zap.Error(err))
		return Entry{}, false, err
	}
	return entry, true, nil
}
