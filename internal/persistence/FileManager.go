package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/persistence/interfaces"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/providers"
)

// SnapshotSource is the part of the injector service the file manager needs.
type SnapshotSource interface {
	GetSnapshot() *models.Storage
	Restore(storage *models.Storage) error
}

type FileManager struct {
	source     SnapshotSource
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewFileManager(compressor interfaces.CompressorInterface, source SnapshotSource, logger providers.Logger, metrics providers.MetricsProviderInterface) *FileManager {
	return &FileManager{
		compressor: compressor,
		source:     source,
		logger:     logger,
		metrics:    metrics,
	}
}

// SaveToFile writes the current snapshot next to fileName and renames it
// into place, so a crash never leaves a truncated file behind.
func (f *FileManager) SaveToFile(fileName string) error {
	started := time.Now()
	storage := f.source.GetSnapshot()

	jsonData, err := json.Marshal(storage)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(fileName); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
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
	if err = os.Rename(tmpFile, fileName); err != nil {
		return err
	}

	f.metrics.ObservePersistenceDuration(time.Since(started))
	return nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores the service from fileName. A missing file is a
// fresh start, not an error.
func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			f.logger.Infof(providers.TypeApp, "No snapshot at %s, starting empty", fileName)
			return nil
		}
		return err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", fileName, err)
	}

	var storage models.Storage
	if err := json.Unmarshal(decompressed, &storage); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidSnapshot, err)
	}
	if err := f.source.Restore(&storage); err != nil {
		return err
	}

	f.logger.Infof(providers.TypeApp, "Restored %d receivers from %s", len(storage.WatchList), fileName)
	return nil
}
