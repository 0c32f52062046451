package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/roach88/sellbot/internal/model"
	"github.com/roach88/sellbot/internal/vault"
)

// ErrStorageIO marks read, write, encrypt, and decrypt failures.
var ErrStorageIO = errors.New("storage I/O error")

// Store persists the document to a single JSON file.
type Store struct {
	mu    sync.Mutex
	path  string
	vault *vault.Vault
}

// New creates a Store for the given file path.
// The file does not need to exist yet.
func New(path string, v *vault.Vault) *Store {
	return &Store{path: path, vault: v}
}

// Path returns the canonical data file path.
func (s *Store) Path() string {
	return s.path
}

// tmpPath mirrors Path with the extension replaced by ".tmp",
// so data.json is staged as data.tmp in the same directory.
func (s *Store) tmpPath() string {
	return strings.TrimSuffix(s.path, filepath.Ext(s.path)) + ".tmp"
}

// Load reads and decrypts the document.
//
// Load never fails: a missing file returns an empty document silently,
// read or parse failures are logged and return an empty document, and a
// field that fails to decrypt is logged and replaced by "".
func (s *Store) Load(ctx context.Context) model.Document {
	doc, err := s.load(ctx)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Error("failed to load data file", "path", s.path, "error", err)
		}
		return model.NewDocument()
	}
	return doc
}

// Read is Load for offline tools: it returns read and parse failures,
// including a missing file, instead of an empty document. Fields that
// fail to decrypt are still logged and blanked.
func (s *Store) Read(ctx context.Context) (model.Document, error) {
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) (model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return model.Document{}, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.Document{}, fmt.Errorf("%w: read %s: %w", ErrStorageIO, s.path, err)
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Document{}, fmt.Errorf("%w: parse %s: %w", ErrStorageIO, s.path, err)
	}
	doc.Normalize()

	for _, fe := range s.openDocument(&doc) {
		slog.Error("failed to decrypt field",
			"path", s.path,
			"product_id", fe.productID,
			"field", fe.field,
			"error", fe.err,
		)
	}
	return doc, nil
}

// Save encrypts a deep copy of doc and atomically replaces the data file.
//
// The caller's document is never modified. On failure the temporary file
// is removed and an error wrapping ErrStorageIO is returned.
func (s *Store) Save(ctx context.Context, doc model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	sealed := doc.Clone()
	if err := s.sealDocument(&sealed); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageIO, err)
	}

	data, err := json.MarshalIndent(sealed, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal: %w", ErrStorageIO, err)
	}

	tmp := s.tmpPath()
	if err := writeFileSync(tmp, data); err != nil {
		removeTemp(tmp)
		slog.Error("failed to save data file", "path", s.path, "error", err)
		return fmt.Errorf("%w: write %s: %w", ErrStorageIO, tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		removeTemp(tmp)
		slog.Error("failed to save data file", "path", s.path, "error", err)
		return fmt.Errorf("%w: rename %s: %w", ErrStorageIO, tmp, err)
	}
	return nil
}

// writeFileSync writes data and fsyncs before closing so the rename
// publishes fully written content.
func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func removeTemp(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to remove temp file", "path", path, "error", err)
	}
}
