package feed

import (
	"os"
	"time"

	json "github.com/goccy/go-json"

	"sprintd/internal/feed/interfaces"
	"sprintd/internal/models"
	"sprintd/internal/providers"
)

// snapshotFile is the on-disk envelope around a persisted timeline.
type snapshotFile struct {
	BuiltAt  time.Time            `json:"built_at"`
	Timeline *models.TimelineData `json:"timeline"`
}

// SnapshotManager persists the computed timeline as a zstd-compressed
// JSON file so a restart can serve stale-but-valid data immediately.
type SnapshotManager struct {
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewSnapshotManager(compressor interfaces.CompressorInterface, logger providers.Logger) *SnapshotManager {
	return &SnapshotManager{
		compressor: compressor,
		logger:     logger,
	}
}

func (m *SnapshotManager) SaveToFile(fileName string, data *models.TimelineData, builtAt time.Time) error {
	jsonData, err := json.Marshal(snapshotFile{BuiltAt: builtAt, Timeline: data})
	if err != nil {
		return err
	}
	compressed, err := m.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(compressed)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

// LoadFromFile reads a persisted snapshot. A missing file is not an
// error; the daemon simply starts cold.
func (m *SnapshotManager) LoadFromFile(fileName string) (*models.TimelineData, time.Time, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, time.Time{}, nil
		}
		return nil, time.Time{}, err
	}

	decompressed, err := m.compressor.Decompress(data)
	if err != nil {
		return nil, time.Time{}, err
	}

	var snap snapshotFile
	if err := json.Unmarshal(decompressed, &snap); err != nil {
		m.logger.Warnf(providers.TypeApp, "Snapshot file %s is unreadable, starting cold", fileName)
		return nil, time.Time{}, err
	}
	return snap.Timeline, snap.BuiltAt, nil
}

func (m *SnapshotManager) Close() {
	m.compressor.Close()
}
