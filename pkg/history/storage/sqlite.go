package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"mercator-hq/huntquery/pkg/history"

	_ "github.com/mattn/go-sqlite3" // registers "sqlite3" (cgo)
	_ "modernc.org/sqlite"          // registers "sqlite" (pure Go)
)

// SQLite driver names.
const (
	DriverSQLite  = "sqlite"
	DriverSQLite3 = "sqlite3"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Driver is DriverSQLite or DriverSQLite3.
	// Default: DriverSQLite
	Driver string

	// Path is the database file path.
	Path string

	// WALMode enables Write-Ahead Logging so readers do not block the
	// watch-mode writer.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Driver:      DriverSQLite,
		Path:        "huntquery-history.db",
		WALMode:     true,
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStorage implements history.Store using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
	closed atomic.Bool
}

// NewSQLiteStorage opens the database and creates the schema. A nil config
// uses DefaultSQLiteConfig and a nil logger uses slog.Default.
func NewSQLiteStorage(config *SQLiteConfig, logger *slog.Logger) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = DriverSQLite
	}
	if config.Path == "" {
		return nil, history.NewStorageError(config.Driver, "open", errors.New("database path is empty"))
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "history.storage.sqlite")

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, history.NewStorageError(config.Driver, "open", err)
	}

	// SQLite allows a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("SQLite history storage initialized",
		"path", config.Path,
		"driver", config.Driver,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

// initialize sets pragmas, creates the schema and checks its version.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return s.wrap("enable_wal", err)
		}
	}

	if s.config.BusyTimeout > 0 {
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
			return s.wrap("set_busy_timeout", err)
		}
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return s.wrap("create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return s.wrap("insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return s.wrap("get_schema_version", err)
	}
	if version != SchemaVersion {
		return s.wrap("schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Store inserts records in a single transaction.
func (s *SQLiteStorage) Store(ctx context.Context, records []*history.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.wrap("store", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertRender)
	if err != nil {
		return s.wrap("store", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var errVal sql.NullString
		if rec.Error != "" {
			errVal = sql.NullString{String: rec.Error, Valid: true}
		}
		changed := 0
		if rec.Changed {
			changed = 1
		}

		_, err := stmt.ExecContext(ctx,
			rec.ID, rec.RunID, rec.Pack, rec.HuntID, rec.Pattern, rec.Severity,
			rec.Query, rec.QueryHash, errVal, changed, rec.RenderedAt.UnixNano(),
		)
		if err != nil {
			return s.wrap("store", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return s.wrap("store", err)
	}
	return nil
}

// Query returns the records matching q, newest first.
func (s *SQLiteStorage) Query(ctx context.Context, q *history.Query) ([]*history.Record, error) {
	where, args := buildWhereClause(q)

	sqlQuery := selectRenders + where + orderNewestFirst
	if q != nil && q.Limit > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	return s.query(ctx, "query", sqlQuery, args...)
}

// Latest returns the most recent successful record for a hunt.
func (s *SQLiteStorage) Latest(ctx context.Context, pack, huntID string) (*history.Record, error) {
	records, err := s.Query(ctx, &history.Query{
		Pack:   pack,
		HuntID: huntID,
		Status: history.StatusSuccess,
		Limit:  1,
	})
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return records[0], nil
}

// Count returns the number of records matching q.
func (s *SQLiteStorage) Count(ctx context.Context, q *history.Query) (int64, error) {
	where, args := buildWhereClause(q)

	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM renders"+where, args...).Scan(&count); err != nil {
		return 0, s.wrap("count", err)
	}
	return count, nil
}

// Delete removes the records matching q.
func (s *SQLiteStorage) Delete(ctx context.Context, q *history.Query) (int64, error) {
	where, args := buildWhereClause(q)
	return s.exec(ctx, "delete", "DELETE FROM renders"+where, args...)
}

// Trim keeps only the newest keep records.
func (s *SQLiteStorage) Trim(ctx context.Context, keep int64) (int64, error) {
	return s.exec(ctx, "trim", `
		DELETE FROM renders WHERE seq NOT IN (
			SELECT seq FROM renders`+orderNewestFirst+` LIMIT ?
		)`, keep)
}

// Close releases the database connection.
func (s *SQLiteStorage) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return history.NewStorageError(s.config.Driver, "close", err)
	}
	return nil
}

func (s *SQLiteStorage) exec(ctx context.Context, op, sqlQuery string, args ...any) (int64, error) {
	result, err := s.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, s.wrap(op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, s.wrap(op, err)
	}
	return n, nil
}

func (s *SQLiteStorage) query(ctx context.Context, op, sqlQuery string, args ...any) ([]*history.Record, error) {
	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, s.wrap(op, err)
	}
	defer rows.Close()

	records := []*history.Record{}
	for rows.Next() {
		rec, err := scanRow(rows)
		if err != nil {
			return nil, s.wrap("scan", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap(op, err)
	}
	return records, nil
}

// wrap reports err as a StorageError. database/sql's own error for a closed
// pool is not exported, so ErrClosed is substituted after Close.
func (s *SQLiteStorage) wrap(op string, err error) error {
	if s.closed.Load() {
		err = history.ErrClosed
	}
	return history.NewStorageError(s.config.Driver, op, err)
}

// buildWhereClause returns a " WHERE ..." clause, or "", with its arguments.
func buildWhereClause(q *history.Query) (string, []any) {
	if q == nil {
		return "", nil
	}

	var conditions []string
	var args []any

	if q.Pack != "" {
		conditions = append(conditions, "pack = ?")
		args = append(args, q.Pack)
	}
	if q.HuntID != "" {
		conditions = append(conditions, "hunt_id = ?")
		args = append(args, q.HuntID)
	}
	if q.Pattern != "" {
		conditions = append(conditions, "pattern = ?")
		args = append(args, q.Pattern)
	}
	switch q.Status {
	case history.StatusSuccess:
		conditions = append(conditions, "error IS NULL")
	case history.StatusError:
		conditions = append(conditions, "error IS NOT NULL")
	}
	if q.StartTime != nil {
		conditions = append(conditions, "rendered_at >= ?")
		args = append(args, q.StartTime.UnixNano())
	}
	if q.EndTime != nil {
		conditions = append(conditions, "rendered_at < ?")
		args = append(args, q.EndTime.UnixNano())
	}
	if q.ChangedOnly {
		conditions = append(conditions, "changed = 1")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanRow(rows *sql.Rows) (*history.Record, error) {
	var rec history.Record
	var errVal sql.NullString
	var changed, renderedAt int64

	err := rows.Scan(
		&rec.ID, &rec.RunID, &rec.Pack, &rec.HuntID, &rec.Pattern, &rec.Severity,
		&rec.Query, &rec.QueryHash, &errVal, &changed, &renderedAt,
	)
	if err != nil {
		return nil, err
	}

	if errVal.Valid {
		rec.Error = errVal.String
	}
	rec.Changed = changed != 0
	rec.RenderedAt = time.Unix(0, renderedAt).UTC()

	return &rec, nil
}
