package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/adapters/file"
	"github.com/aretw0/espalier/pkg/adapters/loam"
	"github.com/aretw0/espalier/pkg/observability"
	"github.com/aretw0/espalier/pkg/ports"
)

// createEngine initializes an Espalier engine with standard CLI conventions.
func createEngine(ctx context.Context, opts RunOptions, logger *slog.Logger) (*espalier.Engine, error) {
	engineOpts := []espalier.Option{
		espalier.WithLogger(logger),
	}
	if opts.Debug {
		engineOpts = append(engineOpts, espalier.WithLifecycleHooks(
			observability.NewLogHooks(logger, slog.LevelDebug),
		))
	}

	source, err := ResolveSource(opts.Path, opts.Root)
	if err != nil {
		return nil, err
	}

	engine, err := espalier.Open(ctx, source, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}

	return engine, nil
}

// ResolveSource picks the graph source for the given path: a directory
// is a Loam repository of one-node documents, anything else is a single
// graph document. The root override applies to directories only.
func ResolveSource(path, root string) (ports.GraphSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", path, err)
	}

	if info.IsDir() {
		var loamOpts []loam.Option
		if entry := determineEntryPoint(path, root); entry != "" {
			loamOpts = append(loamOpts, loam.WithRoot(entry))
		}
		return loam.New(path, loamOpts...)
	}

	return file.NewSource(path), nil
}

// determineEntryPoint picks the root override for a directory source.
// An explicit root always wins. When the directory carries a "root"
// document the source's own conventions cover it, so no override is
// needed. Otherwise common entry names are probed, so running against
// repositories authored around start.md or <dirname>.md still works.
func determineEntryPoint(dir, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if hasNode(dir, "root") {
		return ""
	}
	for _, candidate := range []string{"start", "index", filepath.Base(dir)} {
		if hasNode(dir, candidate) {
			return candidate
		}
	}
	return ""
}

// hasNode checks if a node exists as a file in the directory.
func hasNode(dir, nodeID string) bool {
	extensions := []string{".md", ".yaml", ".yml", ".json"}
	for _, ext := range extensions {
		path := filepath.Join(dir, nodeID+ext)
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}
	return false
}
