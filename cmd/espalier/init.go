package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/loam"
	"github.com/spf13/cobra"

	loamadapter "github.com/aretw0/espalier/pkg/adapters/loam"
	"github.com/aretw0/espalier/pkg/codec"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/dsl"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Scaffold a starter decision graph",
	Long: `Creates a small example graph to edit: one Markdown document per node
by default, or a single YAML document with --document. The result runs
as-is with 'espalier run'.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInit(cmd, args); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("document", false, "Write a single espalier.yaml instead of node files")
}

func runInit(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("cannot create %q: %w", targetDir, err)
	}

	g, err := starterGraph()
	if err != nil {
		return err
	}

	if single, _ := cmd.Flags().GetBool("document"); single {
		return initDocument(targetDir, g)
	}
	return initRepository(cmd.Context(), targetDir, g)
}

// starterGraph is the scaffold every new project begins with: one
// question branching into two recommendations.
func starterGraph() (*domain.Graph, error) {
	return dsl.New().
		Ask("root", "What are you optimizing for?").
		Option("A quick first harvest", "stone-fruit").
		Option("Fruit that keeps all winter", "apples").
		Recommend("stone-fruit", "Train a fan peach or cherry against a warm wall. They crop within two seasons.").
		Recommend("apples", "Train a cordon apple on dwarf rootstock. The fruit stores for months and the form stays compact.").
		Build()
}

func initDocument(dir string, g *domain.Graph) error {
	path := filepath.Join(dir, "espalier.yaml")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	data, err := codec.Dump(g)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	fmt.Printf("Wrote starter graph to %s\n", path)
	fmt.Printf("Try: espalier run %s\n", path)
	return nil
}

func initRepository(ctx context.Context, dir string, g *domain.Graph) error {
	// No versioning: init is pure file generation.
	repo, err := loam.Init(dir, loam.WithVersioning(false))
	if err != nil {
		return fmt.Errorf("failed to init repository: %w", err)
	}
	typed := loam.NewTypedRepository[loamadapter.NodeMetadata](repo)

	for _, node := range g.Nodes() {
		meta := loamadapter.NodeMetadata{
			Kind: string(node.Kind),
			Root: node.ID == g.RootID(),
		}
		for _, opt := range node.Options {
			meta.Options = append(meta.Options, loamadapter.OptionMeta{
				Label: opt.Label,
				To:    opt.TargetID,
			})
		}

		content := node.Prompt
		if node.Kind == domain.KindLeaf {
			content = node.Recommendation
		}

		if err := typed.Save(ctx, &loam.DocumentModel[loamadapter.NodeMetadata]{
			ID:      node.ID,
			Content: content,
			Data:    meta,
		}); err != nil {
			return fmt.Errorf("failed to write node %q: %w", node.ID, err)
		}
	}

	fmt.Printf("Wrote %d starter nodes to %s\n", g.Len(), dir)
	fmt.Printf("Try: espalier run %s\n", dir)
	return nil
}
