package transcript

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the transcript database schema.
// created_at holds Unix nanoseconds so range comparisons stay numeric.
const Schema = `
-- Transcript entries table
CREATE TABLE IF NOT EXISTS entries (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    session_id TEXT NOT NULL,
    request_id TEXT,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    model TEXT,
    created_at INTEGER NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_entries_session ON entries(session_id, seq);
CREATE INDEX IF NOT EXISTS idx_entries_created_at ON entries(created_at);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const insertEntry = `
INSERT INTO entries (id, session_id, request_id, role, content, model, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?);
`

const selectSession = `
SELECT id, session_id, COALESCE(request_id, ''), role, content, COALESCE(model, ''), created_at
FROM entries
WHERE session_id = ?
ORDER BY seq;
`

const selectSessions = `
SELECT
    e.session_id,
    COUNT(*),
    MIN(e.created_at),
    MAX(e.created_at),
    COALESCE((
        SELECT p.content FROM entries p
        WHERE p.session_id = e.session_id AND p.role = 'user'
        ORDER BY p.seq LIMIT 1
    ), '')
FROM entries e
GROUP BY e.session_id
ORDER BY MAX(e.created_at) DESC, e.session_id;
`

const deleteBefore = `
DELETE FROM entries WHERE created_at < ?;
`
