package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/verte-zerg/paomem/internal/model"
)

// Load reads a persisted ledger from path. A missing file yields a fresh
// ledger; a corrupt file yields a fresh ledger and a non-nil error so the
// caller can warn without aborting.
func (l *Ledger) Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read stats: %w", err)
	}
	var records map[string]*model.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("failed to decode stats: %w", err)
	}
	for key, rec := range records {
		if rec == nil {
			continue
		}
		l.records[key] = rec
	}
	l.normalize()
	return nil
}

// Save serializes the full ledger to path via a temp file and rename.
func (l *Ledger) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create stats dir: %w", err)
	}
	raw, err := json.MarshalIndent(l.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), "stats-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp stats file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(raw); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close stats file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}
	return nil
}
