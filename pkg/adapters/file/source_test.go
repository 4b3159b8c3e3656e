package file_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/espalier/pkg/adapters/file"
	"github.com/aretw0/espalier/pkg/codec"
	"github.com/aretw0/espalier/pkg/ports"
)

var _ ports.GraphSource = (*file.Source)(nil)
var _ ports.Watchable = (*file.Source)(nil)

const sourceDoc = `
rootId: root
nodes:
  - id: root
    kind: question
    prompt: "Pick"
    options:
      - label: "Go"
        targetId: end
  - id: end
    kind: leaf
    recommendation: "Done"
`

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}
	return path
}

func TestFileSource_Contract(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "flow.yaml", sourceDoc)

	want, err := codec.Load([]byte(sourceDoc))
	if err != nil {
		t.Fatalf("codec.Load() unexpected error: %v", err)
	}

	ports.RunGraphSourceContract(t, file.NewSource(path), want)
}

func TestFileSource_MissingFile(t *testing.T) {
	source := file.NewSource(filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := source.Load(context.Background()); err == nil {
		t.Fatal("Load() = nil error for a missing document")
	}
}

func TestFileSource_MalformedDocument(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "broken.yaml", "rootId: [unclosed")
	_, err := file.NewSource(path).Load(context.Background())
	if !errors.Is(err, codec.ErrParse) {
		t.Errorf("Load() error = %v, want ErrParse", err)
	}
}

func TestFileSource_Watch(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "flow.yaml", sourceDoc)
	source := file.NewSource(path)

	t.Run("Missing File", func(t *testing.T) {
		bad := file.NewSource(filepath.Join(t.TempDir(), "absent.yaml"))
		if _, err := bad.Watch(context.Background()); err == nil {
			t.Error("Watch() = nil error for a missing document")
		}
	})

	t.Run("Signals On Change", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ch, err := source.Watch(ctx)
		if err != nil {
			t.Fatalf("Watch() unexpected error: %v", err)
		}

		// Bump the mtime well past the recorded one so the next poll
		// sees it regardless of filesystem timestamp granularity.
		future := time.Now().Add(2 * time.Second)
		if err := os.Chtimes(path, future, future); err != nil {
			t.Fatalf("Chtimes failed: %v", err)
		}

		select {
		case _, ok := <-ch:
			if !ok {
				t.Fatal("watch channel closed before signaling")
			}
		case <-time.After(3 * time.Second):
			t.Fatal("no change signal within 3s")
		}
	})

	t.Run("Closes On Cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		ch, err := source.Watch(ctx)
		if err != nil {
			t.Fatalf("Watch() unexpected error: %v", err)
		}
		cancel()

		select {
		case _, ok := <-ch:
			if ok {
				// A queued signal may arrive first; the close must follow.
				if _, ok := <-ch; ok {
					t.Fatal("channel not closed after cancel")
				}
			}
		case <-time.After(2 * time.Second):
			t.Fatal("channel not closed within 2s of cancel")
		}
	})
}
