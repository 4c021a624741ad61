package backup

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

// snapshotSQLite writes a consistent point-in-time copy of the database at
// sourcePath to destPath using VACUUM INTO. The source may have concurrent
// writers; the statement snapshots a single transaction. A busy timeout on
// the read connection rides out short write locks held by the bot.
func snapshotSQLite(ctx context.Context, sourcePath, destPath string) error {
	src, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", sourcePath))
	if err != nil {
		return fmt.Errorf("open source database: %w", err)
	}
	defer func() { _ = src.Close() }()

	if err := src.PingContext(ctx); err != nil {
		return fmt.Errorf("ping source database: %w", err)
	}

	// VACUUM INTO refuses to overwrite an existing file. Two runs starting
	// within the same second produce the same name, and the later one wins,
	// so clear the target first.
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear snapshot target: %w", err)
	}

	if _, err := src.ExecContext(ctx, "VACUUM INTO "+quoteSQLString(destPath)); err != nil {
		// A failed VACUUM INTO can leave a partial file behind.
		_ = os.Remove(destPath)
		return fmt.Errorf("snapshot database: %w", err)
	}

	return nil
}

// quoteSQLString quotes a string literal for SQLite. VACUUM INTO does not
// accept bound parameters, so the target path has to be inlined.
func quoteSQLString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// checkIntegrity opens the database at path read-only and runs SQLite's
// integrity_check pragma. Used before and after a restore, never as part
// of the regular backup run.
func checkIntegrity(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("run integrity check: %w", err)
	}

	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}

	return nil
}

// restoreSQLite copies a verified snapshot over targetPath. The bot must
// not be running; the target is clobbered in place.
func restoreSQLite(ctx context.Context, snapshotPath, targetPath string) error {
	if err := checkIntegrity(ctx, snapshotPath); err != nil {
		return fmt.Errorf("snapshot verification failed: %w", err)
	}

	src, err := os.Open(snapshotPath)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(targetPath)
	if err != nil {
		return fmt.Errorf("create target file: %w", err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy snapshot: %w", err)
	}

	if err := dst.Sync(); err != nil {
		return fmt.Errorf("sync target file: %w", err)
	}

	if err := checkIntegrity(ctx, targetPath); err != nil {
		return fmt.Errorf("restored database verification failed: %w", err)
	}

	return nil
}
