package main

import (
	"fmt"
	"os"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/pkg/validate"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check the graph for structural defects",
	Long: `Loads the graph and reports every structural defect at once: dangling
options, unreachable nodes, cycles, leaves with options, and questions
without any.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Graph is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("dir")
	if !cmd.Flags().Changed("dir") && len(args) > 0 {
		path = args[0]
	}

	source, err := cli.ResolveSource(path, "")
	if err != nil {
		return err
	}

	g, err := source.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}

	return validate.Graph(g).Err()
}
