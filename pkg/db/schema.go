package db

const (
	// SchemaV1 is version 1 of the thanksdb component schema.
	// Dates are unix nanoseconds so ordering survives round trips exactly.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS thankful_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS thanks (
    id UUID PRIMARY KEY,
    title VARCHAR(256) NOT NULL,
    reason TEXT NOT NULL DEFAULT '',
    date INTEGER NOT NULL,
    is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
    icon VARCHAR(64) NOT NULL,
    color VARCHAR(16) NOT NULL,
    has_photo BOOLEAN NOT NULL DEFAULT FALSE,
    created_at REAL DEFAULT (unixepoch()),
    updated_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS reminders (
    identifier VARCHAR(64) PRIMARY KEY,
    weekday INTEGER NOT NULL CHECK (weekday BETWEEN 1 AND 7),
    hour INTEGER NOT NULL CHECK (hour BETWEEN 0 AND 23),
    minute INTEGER NOT NULL CHECK (minute BETWEEN 0 AND 59),
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    created_at REAL DEFAULT (unixepoch()),
    updated_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS permissions (
    name VARCHAR(64) PRIMARY KEY,
    granted BOOLEAN NOT NULL,
    updated_at REAL DEFAULT (unixepoch())
);
`
)
