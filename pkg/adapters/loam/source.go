// Package loam adapts a Loam repository (a directory of Markdown
// documents with frontmatter) into a ports.GraphSource. Each document
// is one node: the frontmatter carries the structure, the body carries
// the prompt or recommendation copy. This is the authoring-friendly
// source; one file per node keeps diffs small and reviews readable.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"

	"github.com/aretw0/espalier/pkg/domain"
)

// Source implements ports.GraphSource and ports.Watchable over a Loam
// repository.
type Source struct {
	repo *loam.TypedRepository[NodeMetadata]
	root string
}

// Option configures a Source.
type Option func(*Source)

// WithRoot forces the graph entry point to the given node id,
// overriding any frontmatter root flag.
func WithRoot(id string) Option {
	return func(s *Source) {
		s.root = id
	}
}

// New opens the Loam repository at path.
func New(path string, opts ...Option) (*Source, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps frontmatter decoding consistent across the
	// Markdown, JSON and YAML adapters; read-only because a source
	// never writes.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	return NewFromRepository(repo, opts...), nil
}

// NewFromRepository wraps an already initialized Loam repository.
func NewFromRepository(repo core.Repository, opts ...Option) *Source {
	s := &Source{
		repo: loam.NewTypedRepository[NodeMetadata](repo),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load assembles a graph from every document in the repository.
//
// Node ids derive from filenames with the extension trimmed (an explicit
// frontmatter id wins); two documents normalizing to the same id is an
// error. The root is, in order of precedence: the WithRoot override, the
// single document flagged `root: true`, or the node named "root".
func (s *Source) Load(ctx context.Context) (*domain.Graph, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string) // id -> document path
	nodes := make([]domain.Node, 0, len(docs))
	flagged := ""

	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: id %q is defined in both %q and %q", id, existing, doc.ID)
		}
		seen[id] = doc.ID

		if doc.Data.Root {
			if flagged != "" {
				return nil, fmt.Errorf("multiple documents flagged as root: %q and %q", flagged, id)
			}
			flagged = id
		}

		nodes = append(nodes, buildNode(id, doc.Data, doc.Content))
	}

	return domain.New(s.rootID(flagged), nodes)
}

func (s *Source) rootID(flagged string) string {
	if s.root != "" {
		return s.root
	}
	if flagged != "" {
		return flagged
	}
	return "root"
}

// buildNode maps one document onto a domain node. A missing kind is
// inferred from the options: documents with options are questions,
// documents without are leaves. Explicit kinds pass through untouched
// so authoring mistakes surface as construction or validation errors
// instead of being papered over.
func buildNode(id string, meta NodeMetadata, content string) domain.Node {
	kind := domain.Kind(meta.Kind)
	if meta.Kind == "" {
		if len(meta.Options) > 0 {
			kind = domain.KindQuestion
		} else {
			kind = domain.KindLeaf
		}
	}

	node := domain.Node{
		ID:   id,
		Kind: kind,
	}

	body := strings.TrimSpace(content)
	if kind == domain.KindLeaf {
		node.Recommendation = body
	} else {
		node.Prompt = body
	}

	for _, opt := range meta.Options {
		node.Options = append(node.Options, domain.Option{
			Label: opt.Label,
			// Authors may reference targets by filename; ids are
			// extension-trimmed, so targets are too.
			TargetID: trimExtension(opt.To),
		})
	}

	return node
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable. Loam debounces filesystem events
// internally; here they collapse into a single dirty signal.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := s.repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- struct{}{}:
				default: // a pending signal already covers this change
				}
			}
		}
	}()

	return ch, nil
}
