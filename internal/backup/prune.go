package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// listSnapshots returns the snapshot files in backupDir, newest first.
// Only regular files matching bot-*.db count; subdirectories and unrelated
// files are ignored.
func listSnapshots(backupDir string) ([]Info, error) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	var snaps []Info
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if ok, _ := filepath.Match(snapshotGlob, entry.Name()); !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue // vanished between ReadDir and stat
		}

		snaps = append(snaps, Info{
			Path:    filepath.Join(backupDir, entry.Name()),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].ModTime.After(snaps[j].ModTime)
	})

	return snaps, nil
}

// pruneSnapshots deletes snapshot files whose modification time is strictly
// older than retentionDays before now; a file exactly at the boundary is
// kept. Individual deletion failures do not stop the sweep — they are
// returned for the caller to log.
func pruneSnapshots(backupDir string, retentionDays int, now time.Time) (int, []error) {
	snaps, err := listSnapshots(backupDir)
	if err != nil {
		return 0, []error{err}
	}

	cutoff := now.AddDate(0, 0, -retentionDays)

	deleted := 0
	var errs []error
	for _, snap := range snaps {
		if !snap.ModTime.Before(cutoff) {
			continue
		}
		if err := os.Remove(snap.Path); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", snap.Path, err))
			continue
		}
		deleted++
	}

	return deleted, errs
}
