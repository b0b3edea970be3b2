// internal/adapter/artifact/store.go

// Package artifact reads the precomputed JSON datasets the resolver's
// artifact tiers are backed by. The store is strictly read-only.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"trendlens/internal/domain/topic"
)

// Store loads artifacts from a single directory. Artifact filenames form an
// explicit, ordered priority list per request kind, held in configuration
// rather than scattered through handlers.
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore creates an artifact store rooted at dir.
func NewStore(dir string, logger *zap.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Load decodes the named artifact into v. A missing file yields
// topic.ErrArtifactNotFound; an undecodable one yields an
// ArtifactParseError. Both cause the resolver to fall through.
func (s *Store) Load(name string, v any) error {
	path := filepath.Join(s.dir, name)

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", name, topic.ErrArtifactNotFound)
		}
		return fmt.Errorf("reading artifact %s: %w", name, err)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return &topic.ArtifactParseError{Path: path, Err: err}
	}
	return nil
}

// FirstAvailable tries names in order and decodes the first artifact that
// exists and parses, returning its name. Failed candidates are logged and
// skipped; if none succeed the last error is returned.
func (s *Store) FirstAvailable(names []string, v any) (string, error) {
	var lastErr error = topic.ErrArtifactNotFound
	for _, name := range names {
		err := s.Load(name, v)
		if err == nil {
			return name, nil
		}
		if !errors.Is(err, topic.ErrArtifactNotFound) {
			s.logger.Warn("skipping unreadable artifact",
				zap.String("artifact", name),
				zap.Error(err))
		}
		lastErr = err
	}
	return "", lastErr
}
