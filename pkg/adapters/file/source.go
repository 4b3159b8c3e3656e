// Package file provides filesystem-backed implementations of the
// engine's ports: a GraphSource reading a single YAML/JSON document and
// a SessionStore writing one JSON file per session.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/espalier/pkg/codec"
	"github.com/aretw0/espalier/pkg/domain"
)

// Source implements ports.GraphSource over a single graph document.
type Source struct {
	path string
}

// NewSource creates a source for the document at path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Load reads and decodes the document.
func (s *Source) Load(ctx context.Context) (*domain.Graph, error) {
	return codec.LoadFile(s.path)
}

// Watch polls the document's modification time and signals when it
// changes. The channel closes when ctx is canceled.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", s.path, err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		last := info.ModTime()
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				info, err := os.Stat(s.path)
				if err != nil {
					continue
				}
				if mod := info.ModTime(); mod.After(last) {
					last = mod
					select {
					case ch <- struct{}{}:
					default:
					}
				}
			}
		}
	}()
	return ch, nil
}

// Path returns the document location.
func (s *Source) Path() string {
	return filepath.Clean(s.path)
}
