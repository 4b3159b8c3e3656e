package loam

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/internal/testutils"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

var (
	_ ports.GraphSource = (*Source)(nil)
	_ ports.Watchable   = (*Source)(nil)
)

func seedFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for filename, content := range files {
		err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644)
		require.NoError(t, err)
	}
}

func TestSource_Contract(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)

	seedFiles(t, tmpDir, map[string]string{
		"flavor.md": `---
kind: question
root: true
options:
  - label: Chocolate
    to: chocolate
  - label: Vanilla
    to: vanilla.md
---
What base flavor do you want?`,
		"chocolate.md": `---
kind: leaf
---
Go with the double chocolate cupcake.`,
		"vanilla.md": `---
kind: leaf
---
Go with the vanilla bean cupcake.`,
	})

	want, err := domain.New("flavor", []domain.Node{
		{ID: "flavor", Kind: domain.KindQuestion, Prompt: "What base flavor do you want?", Options: []domain.Option{
			{Label: "Chocolate", TargetID: "chocolate"},
			{Label: "Vanilla", TargetID: "vanilla"},
		}},
		{ID: "chocolate", Kind: domain.KindLeaf, Recommendation: "Go with the double chocolate cupcake."},
		{ID: "vanilla", Kind: domain.KindLeaf, Recommendation: "Go with the vanilla bean cupcake."},
	})
	require.NoError(t, err)

	ports.RunGraphSourceContract(t, NewFromRepository(repo), want)
}

func TestSource_KindInference(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)

	seedFiles(t, tmpDir, map[string]string{
		"root.md": `---
options:
  - label: Next
    to: end
---
Implied question`,
		"end.md": `Implied leaf`,
	})

	g, err := NewFromRepository(repo).Load(context.Background())
	require.NoError(t, err)

	root, ok := g.Node("root")
	require.True(t, ok)
	assert.Equal(t, domain.KindQuestion, root.Kind, "options imply a question")
	assert.Equal(t, "Implied question", root.Prompt)

	end, ok := g.Node("end")
	require.True(t, ok)
	assert.Equal(t, domain.KindLeaf, end.Kind, "no options implies a leaf")
	assert.Equal(t, "Implied leaf", end.Recommendation)
}

func TestSource_ExplicitKindPassesThrough(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)

	// A declared leaf with options is an authoring mistake; the source
	// must hand it to the validator instead of silently reclassifying.
	seedFiles(t, tmpDir, map[string]string{
		"root.md": `---
kind: leaf
options:
  - label: Oops
    to: root
---
Contradictory`,
	})

	g, err := NewFromRepository(repo).Load(context.Background())
	require.NoError(t, err)

	root, ok := g.Node("root")
	require.True(t, ok)
	assert.Equal(t, domain.KindLeaf, root.Kind)
	assert.Len(t, root.Options, 1)
}

func TestSource_ExplicitIDOverride(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)

	seedFiles(t, tmpDir, map[string]string{
		"some-file.md": `---
id: custom.md
kind: leaf
---
Renamed`,
	})

	g, err := NewFromRepository(repo, WithRoot("custom")).Load(context.Background())
	require.NoError(t, err)

	_, ok := g.Node("custom")
	assert.True(t, ok, "explicit id should win over the filename, extension trimmed")
	_, ok = g.Node("some-file")
	assert.False(t, ok)
}

func TestSource_CollisionDetected(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)

	seedFiles(t, tmpDir, map[string]string{
		"foo.md":   "Leaf one",
		"foo.json": `{"kind": "leaf"}`,
	})

	_, err := NewFromRepository(repo).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
	assert.Contains(t, err.Error(), "foo")
}

func TestSource_RootResolution(t *testing.T) {
	t.Run("Flag Wins Over Convention", func(t *testing.T) {
		tmpDir, repo := testutils.SetupTestRepo(t)
		seedFiles(t, tmpDir, map[string]string{
			"root.md": "Decoy",
			"entry.md": `---
root: true
---
Real entry`,
		})

		g, err := NewFromRepository(repo).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "entry", g.RootID())
	})

	t.Run("Override Wins Over Flag", func(t *testing.T) {
		tmpDir, repo := testutils.SetupTestRepo(t)
		seedFiles(t, tmpDir, map[string]string{
			"entry.md": `---
root: true
---
Flagged`,
			"other.md": "Forced",
		})

		g, err := NewFromRepository(repo, WithRoot("other")).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "other", g.RootID())
	})

	t.Run("Convention Fallback", func(t *testing.T) {
		tmpDir, repo := testutils.SetupTestRepo(t)
		seedFiles(t, tmpDir, map[string]string{
			"root.md": "By convention",
		})

		g, err := NewFromRepository(repo).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "root", g.RootID())
	})

	t.Run("Multiple Flags Rejected", func(t *testing.T) {
		tmpDir, repo := testutils.SetupTestRepo(t)
		seedFiles(t, tmpDir, map[string]string{
			"a.md": `---
root: true
---
A`,
			"b.md": `---
root: true
---
B`,
		})

		_, err := NewFromRepository(repo).Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "multiple documents flagged as root")
	})

	t.Run("Missing Root Defers To Validation", func(t *testing.T) {
		tmpDir, repo := testutils.SetupTestRepo(t)
		seedFiles(t, tmpDir, map[string]string{
			"island.md": "No entry anywhere",
		})

		g, err := NewFromRepository(repo).Load(context.Background())
		require.NoError(t, err, "a rootless directory still loads; the validator reports it")
		assert.Equal(t, "root", g.RootID())
		_, ok := g.Root()
		assert.False(t, ok)
	})
}
