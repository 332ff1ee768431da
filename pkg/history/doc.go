// Package history keeps a record of every rendered hunt query.
//
// A pack re-rendered after a config or pack edit can silently change the
// query a detection engine runs. The history store keeps one Record per hunt
// per run, with a SHA-256 hash of the query text, so those changes can be
// listed, alerted on and audited.
//
// # Architecture
//
//  1. Recorder - Turns a pack.Run into Records and flags changed queries
//  2. Store - Persists Records (storage.SQLiteStorage, storage.MemoryStorage)
//  3. Pruner - Enforces retention (retention.Pruner, retention.Scheduler)
//
// # Basic Usage
//
//	store, err := storage.Open(cfg.History, logger.Slog())
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	recorder := history.NewRecorder(store, logger)
//	records, err := recorder.RecordRun(ctx, run)
//
//	// Hunts rendered in the last day, newest first
//	since := time.Now().Add(-24 * time.Hour)
//	recent, err := store.Query(ctx, &history.Query{StartTime: &since})
package history
