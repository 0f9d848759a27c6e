package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// :memory: databases exist per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema. It is safe to run on every start.
func (db *DB) RunMigrations() error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

const schema = `
-- Activity log
CREATE TABLE IF NOT EXISTS activity_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tenant_id TEXT NOT NULL,
    path TEXT NOT NULL DEFAULT '',
    activity_type TEXT NOT NULL,
    summary TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_tenant_activity ON activity_log(tenant_id);
CREATE INDEX IF NOT EXISTS idx_path_activity ON activity_log(path);
CREATE INDEX IF NOT EXISTS idx_created_at ON activity_log(created_at);

-- Current tasks, rebuilt from every vault snapshot
CREATE TABLE IF NOT EXISTS task_index (
    path TEXT NOT NULL,
    section_start INTEGER NOT NULL,
    section_index INTEGER NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('todo', 'done')),
    description TEXT NOT NULL,
    header TEXT NOT NULL DEFAULT '',
    priority TEXT NOT NULL,
    due TEXT,
    done TEXT,
    recurrence TEXT NOT NULL DEFAULT '',
    line TEXT NOT NULL,
    PRIMARY KEY (path, section_start, section_index)
);

-- Full-text search (SQLite FTS5)
CREATE VIRTUAL TABLE IF NOT EXISTS task_fts USING fts5(
    description,
    header,
    path,
    content='task_index',
    content_rowid='rowid'
);

-- Triggers to keep FTS index synchronized
CREATE TRIGGER IF NOT EXISTS task_index_ai AFTER INSERT ON task_index BEGIN
    INSERT INTO task_fts(rowid, description, header, path)
    VALUES (new.rowid, new.description, new.header, new.path);
END;

CREATE TRIGGER IF NOT EXISTS task_index_ad AFTER DELETE ON task_index BEGIN
    INSERT INTO task_fts(task_fts, rowid, description, header, path)
    VALUES ('delete', old.rowid, old.description, old.header, old.path);
END;

CREATE TRIGGER IF NOT EXISTS task_index_au AFTER UPDATE ON task_index BEGIN
    INSERT INTO task_fts(task_fts, rowid, description, header, path)
    VALUES ('delete', old.rowid, old.description, old.header, old.path);
    INSERT INTO task_fts(rowid, description, header, path)
    VALUES (new.rowid, new.description, new.header, new.path);
END;

-- API keys for authentication
CREATE TABLE IF NOT EXISTS api_keys (
    key_hash TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    last_used TIMESTAMP,
    description TEXT
);
CREATE INDEX IF NOT EXISTS idx_tenant_keys ON api_keys(tenant_id);
`
