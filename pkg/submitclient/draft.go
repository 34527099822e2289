package submitclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Draft is the persisted save point for one logical submission. It
// survives process restarts so an interrupted submission can resume with
// the same idempotency key.
type Draft struct {
	Path           string            `json:"path"`
	Fields         map[string]string `json:"fields"`
	AttachmentPath string            `json:"attachmentPath,omitempty"`
	IdempotencyKey string            `json:"idempotencyKey"`
	SavedAt        time.Time         `json:"savedAt"`
}

// DraftStore persists a Draft as a JSON file. Clearing happens only on
// confirmed success.
type DraftStore struct {
	path string
}

func NewDraftStore(path string) *DraftStore {
	return &DraftStore{path: path}
}

// Load returns the stored draft, or nil when none exists.
func (s *DraftStore) Load() (*Draft, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading draft: %w", err)
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parsing draft: %w", err)
	}
	return &d, nil
}

func (s *DraftStore) Save(d *Draft) error {
	d.SavedAt = time.Now().UTC()
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating draft dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("writing draft: %w", err)
	}
	return nil
}

func (s *DraftStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
