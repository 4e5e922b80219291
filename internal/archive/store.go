// Package archive keeps the original bytes of every upload on the local
// filesystem. The searchable record never holds the binary content; this
// store is the only place the original file survives.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/docvault/backend/pkg/logger"
)

type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	logger.Info("upload archive initialized", zap.String("root", root))
	return &Store{root: root}, nil
}

// Save writes the original upload bytes under the sanitized filename,
// replacing any previous archive of the same name.
func (s *Store) Save(filename string, data []byte) error {
	path, err := s.resolve(filename)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to archive %s: %w", filename, err)
	}
	logger.Debug("upload archived", zap.String("file", filename), zap.Int("bytes", len(data)))
	return nil
}

// Path returns the on-disk location of an archived upload.
func (s *Store) Path(filename string) (string, error) {
	return s.resolve(filename)
}

// List returns the archived filenames.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list archive: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// resolve rejects names that would escape the archive root.
func (s *Store) resolve(filename string) (string, error) {
	name := filepath.Base(filepath.Clean(filename))
	if name == "." || name == string(filepath.Separator) || strings.Contains(filename, "..") {
		return "", fmt.Errorf("invalid archive filename %q", filename)
	}
	return filepath.Join(s.root, name), nil
}
