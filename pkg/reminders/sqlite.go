package reminders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// notificationPermission is the permissions row that gates registration.
const notificationPermission = "notifications"

const (
	getPermissionStatement = `
	SELECT granted FROM permissions WHERE name = ?
	`

	setPermissionStatement = `
	INSERT INTO permissions (name, granted) VALUES (?, ?)
	ON CONFLICT(name) DO UPDATE SET granted = excluded.granted, updated_at = unixepoch()
	`

	upsertReminderStatement = `
	INSERT INTO reminders (identifier, weekday, hour, minute, title, body)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(identifier) DO UPDATE SET
		weekday = excluded.weekday,
		hour = excluded.hour,
		minute = excluded.minute,
		title = excluded.title,
		body = excluded.body,
		updated_at = unixepoch()
	`

	listRemindersStatement = `
	SELECT identifier, weekday, hour, minute, title, body
	FROM reminders
	ORDER BY weekday, hour, minute, identifier
	`

	cancelRemindersStatement = `
	DELETE FROM reminders WHERE identifier IN (%s)
	`
)

// SQLiteNotifier keeps registrations in the reminders table. Delivery is done
// by a Dispatcher reading the same table.
type SQLiteNotifier struct {
	db        *sql.DB
	autoGrant bool
	logger    *zap.Logger
}

var _ Notifier = (*SQLiteNotifier)(nil)

// NewSQLiteNotifier returns a notifier over db. autoGrant is the permission
// recorded the first time permission is requested.
func NewSQLiteNotifier(db *sql.DB, autoGrant bool, logger *zap.Logger) *SQLiteNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLiteNotifier{db: db, autoGrant: autoGrant, logger: logger.Named("notifier")}
}

// Permission reports the recorded decision. decided is false when permission
// has never been requested or set.
func (n *SQLiteNotifier) Permission(ctx context.Context) (granted, decided bool, err error) {
	err = n.db.QueryRowContext(ctx, getPermissionStatement, notificationPermission).Scan(&granted)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return granted, true, nil
}

// SetPermission records a decision, replacing any earlier one.
func (n *SQLiteNotifier) SetPermission(ctx context.Context, granted bool) error {
	_, err := n.db.ExecContext(ctx, setPermissionStatement, notificationPermission, granted)
	return err
}

// RequestPermission returns the recorded decision, recording autoGrant if
// there is none yet.
func (n *SQLiteNotifier) RequestPermission(ctx context.Context) (bool, error) {
	granted, decided, err := n.Permission(ctx)
	if err != nil {
		return false, err
	}
	if decided {
		return granted, nil
	}
	if err := n.SetPermission(ctx, n.autoGrant); err != nil {
		return false, err
	}
	n.logger.Info("recorded initial notification permission", zap.Bool("granted", n.autoGrant))
	return n.autoGrant, nil
}

// Register upserts req. Without permission it does nothing.
func (n *SQLiteNotifier) Register(ctx context.Context, req Request) error {
	granted, _, err := n.Permission(ctx)
	if err != nil {
		return err
	}
	if !granted {
		n.logger.Debug("ignoring registration without permission", zap.String("identifier", req.Trigger.Identifier))
		return nil
	}

	t := req.Trigger
	_, err = n.db.ExecContext(ctx, upsertReminderStatement,
		t.Identifier, t.Weekday, t.Hour, t.Minute, req.Content.Title, req.Content.Body)
	return err
}

func (n *SQLiteNotifier) ListPending(ctx context.Context) ([]Pending, error) {
	rows, err := n.db.QueryContext(ctx, listRemindersStatement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []Pending
	for rows.Next() {
		var p Pending
		if err := rows.Scan(&p.Identifier, &p.Weekday, &p.Hour, &p.Minute, &p.Content.Title, &p.Content.Body); err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// Cancel deletes the given registrations. Unknown identifiers are ignored.
func (n *SQLiteNotifier) Cancel(ctx context.Context, identifiers []string) error {
	if len(identifiers) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(identifiers)), ",")
	args := make([]any, len(identifiers))
	for i, id := range identifiers {
		args[i] = id
	}
	_, err := n.db.ExecContext(ctx, fmt.Sprintf(cancelRemindersStatement, placeholders), args...)
	return err
}
