package feed

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"sprintd/internal/providers"
)

const archiveSuffix = ".snap.zst"

// SnapshotArchive keeps timestamped copies of persisted snapshots so an
// operator can roll back to an earlier timeline after a bad upstream
// push. Entries older than the TTL are pruned on every archive cycle.
type SnapshotArchive struct {
	dir    string
	ttl    time.Duration
	logger providers.Logger
}

func NewSnapshotArchive(dir string, ttl time.Duration, logger providers.Logger) *SnapshotArchive {
	return &SnapshotArchive{
		dir:    dir,
		ttl:    ttl,
		logger: logger,
	}
}

// Enabled reports whether archiving is configured at all.
func (a *SnapshotArchive) Enabled() bool {
	return a.dir != ""
}

// Archive copies the current snapshot file into the archive directory
// under a timestamped name. The copy is of the already-compressed file,
// so no re-encoding happens here.
func (a *SnapshotArchive) Archive(snapshotPath string) error {
	if !a.Enabled() {
		return nil
	}

	data, err := os.ReadFile(snapshotPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return err
	}

	name := fmt.Sprintf("timeline-%s%s", time.Now().UTC().Format("20060102-150405"), archiveSuffix)
	path := filepath.Join(a.dir, name)

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpFile, path)
}

// Prune deletes archive entries older than the TTL. A zero TTL keeps
// everything.
func (a *SnapshotArchive) Prune() error {
	if !a.Enabled() || a.ttl <= 0 {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(a.dir, "timeline-*"+archiveSuffix))
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-a.ttl)
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(file); err != nil {
				a.logger.Errorf(providers.TypeApp, "Failed to prune archived snapshot %s: %s", file, err)
				continue
			}
			a.logger.Infof(providers.TypeApp, "Pruned archived snapshot %s", file)
		}
	}
	return nil
}

// Latest returns the path of the newest archived snapshot.
func (a *SnapshotArchive) Latest() (string, bool) {
	if !a.Enabled() {
		return "", false
	}
	files, err := filepath.Glob(filepath.Join(a.dir, "timeline-*"+archiveSuffix))
	if err != nil || len(files) == 0 {
		return "", false
	}
	sort.Strings(files)
	return files[len(files)-1], true
}
