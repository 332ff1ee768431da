package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the history tables. rendered_at holds Unix nanoseconds.
const Schema = `
CREATE TABLE IF NOT EXISTS renders (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    run_id TEXT NOT NULL,
    pack TEXT NOT NULL,
    hunt_id TEXT NOT NULL,
    pattern TEXT NOT NULL,
    severity TEXT NOT NULL DEFAULT '',
    query TEXT NOT NULL DEFAULT '',
    query_hash TEXT NOT NULL DEFAULT '',
    error TEXT,
    changed INTEGER NOT NULL DEFAULT 0,
    rendered_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_renders_rendered_at ON renders(rendered_at);
CREATE INDEX IF NOT EXISTS idx_renders_hunt ON renders(pack, hunt_id);
CREATE INDEX IF NOT EXISTS idx_renders_run_id ON renders(run_id);
`

// InsertSchemaVersion records the schema version once.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const insertRender = `
INSERT INTO renders (
    id, run_id, pack, hunt_id, pattern, severity,
    query, query_hash, error, changed, rendered_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectRenders = `
SELECT id, run_id, pack, hunt_id, pattern, severity,
       query, query_hash, error, changed, rendered_at
FROM renders`

const orderNewestFirst = " ORDER BY rendered_at DESC, seq DESC"
