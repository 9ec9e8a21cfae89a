package logsink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const ManifestFile = "found.jsonl"

// Found is one manifest line. It never carries key material.
type Found struct {
	Session  string    `json:"session"`
	Index    int       `json:"index"`
	Address  string    `json:"address"`
	Dir      string    `json:"dir,omitempty"`
	Attempts uint64    `json:"attempts"`
	Elapsed  string    `json:"elapsed"`
	At       time.Time `json:"at"`
	Error    string    `json:"error,omitempty"`
}

// Manifest appends Found records to <dir>/found.jsonl.
type Manifest struct {
	mu   sync.Mutex
	path string
}

func NewManifest(dir string) *Manifest {
	return &Manifest{path: filepath.Join(dir, ManifestFile)}
}

func (m *Manifest) Path() string { return m.path }

func (m *Manifest) Append(rec Found) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal manifest record: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return AppendJSONL(m.path, b)
}

func AppendJSONL(path string, jsonBlob []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := OpenAppend(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(jsonBlob, '\n')); err != nil {
		return err
	}
	return nil
}
