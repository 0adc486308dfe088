// Package transcript persists conversation exchanges and restores them.
//
// # Storage
//
// SQLiteStore keeps entries in a single SQLite file using the pure-Go
// modernc.org/sqlite driver with WAL mode and a versioned schema:
//
//	store, err := transcript.NewSQLiteStore(&transcript.SQLiteConfig{
//	    Path:    "converse.db",
//	    WALMode: true,
//	})
//
// # Recording
//
// Recorder is a conversation.Observer. Installed on a client it stores the
// user turn and the assistant reply of every successful completion:
//
//	client.SetObserver(conversation.Observers{collector, transcript.NewRecorder(store)})
//
// # Resuming
//
// Resume loads a stored session and replays it into a client through the
// ordinary bounded push path, so the client's history limit still applies.
//
// # Retention
//
// Pruner deletes entries older than RetentionDays; Scheduler runs it on a
// cron schedule (robfig/cron/v3).
package transcript
