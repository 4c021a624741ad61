// Package backup produces point-in-time snapshots of the bot's SQLite
// database and prunes old snapshot files from the backup directory.
//
// Snapshots are taken with SQLite's VACUUM INTO statement, which yields a
// transactionally consistent copy even while the bot is writing, including
// under WAL mode. A plain file copy of a live database can tear; nothing in
// this package copies the database bytes directly.
package backup

import (
	"errors"
	"time"
)

// Snapshot files are named bot-<timestamp>.db with a sortable local-time
// stamp at second granularity. Pruning matches on this pattern only, so
// unrelated files in the backup directory are never touched.
const (
	snapshotPrefix     = "bot-"
	snapshotSuffix     = ".db"
	snapshotTimeLayout = "20060102-150405"
	snapshotGlob       = snapshotPrefix + "*" + snapshotSuffix
)

// ErrSourceNotFound reports that no regular file exists at the configured
// database path. Callers map it to a distinct exit status.
var ErrSourceNotFound = errors.New("source database not found")

// Config holds the settings for a Runner.
type Config struct {
	// DBPath is the path to the live SQLite database file.
	DBPath string

	// BackupDir is the directory where snapshots are stored. It is created
	// on first use if it does not exist.
	BackupDir string

	// RetentionDays is the age in days beyond which a snapshot becomes
	// eligible for deletion. Age is measured by file modification time,
	// not by the timestamp in the filename.
	RetentionDays int
}

// Result describes one completed backup-and-prune pass.
type Result struct {
	// RunID identifies the run in log output.
	RunID string

	// SnapshotPath is the path of the snapshot this run created.
	SnapshotPath string

	// Size is the snapshot file size in bytes.
	Size int64

	// Duration is how long the whole pass took.
	Duration time.Duration

	// Pruned is the number of snapshot files deleted by the retention sweep.
	Pruned int

	// PruneErrors holds per-file deletion failures. These are soft: the
	// sweep continues past them and the run still succeeds.
	PruneErrors []error
}

// Info describes one snapshot file in the backup directory.
type Info struct {
	// Path is the full path to the snapshot file.
	Path string

	// ModTime is the file's last modification time, which pruning uses as
	// the snapshot's age.
	ModTime time.Time

	// Size is the file size in bytes.
	Size int64
}
