// Package storage provides history.Store backends.
//
// # Backends
//
//   - SQLiteStorage: durable storage in a single SQLite file. The "sqlite"
//     driver (modernc.org/sqlite) is pure Go; "sqlite3" (mattn/go-sqlite3)
//     needs cgo.
//   - MemoryStorage: process-local storage for tests and one-shot runs.
//
// Open picks the backend from config.HistoryConfig:
//
//	history:
//	  enabled: true
//	  driver: sqlite
//	  path: /var/lib/huntquery/history.db
package storage
