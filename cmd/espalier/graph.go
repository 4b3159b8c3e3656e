package main

import (
	"fmt"
	"os"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/internal/presentation/graph"
	"github.com/aretw0/espalier/pkg/codec"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [path]",
	Short: "Export the graph visualization",
	Long: `Loads the graph and prints a Mermaid diagram (graph TD) of its
structure. --format switches to the JSON or YAML document form, which
round-trips back through 'espalier run'.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("dir")
		if !cmd.Flags().Changed("dir") && len(args) > 0 {
			path = args[0]
		}
		format, _ := cmd.Flags().GetString("format")

		source, err := cli.ResolveSource(path, "")
		if err != nil {
			fmt.Printf("Error opening graph: %v\n", err)
			os.Exit(1)
		}

		g, err := source.Load(cmd.Context())
		if err != nil {
			fmt.Printf("Error loading graph: %v\n", err)
			os.Exit(1)
		}

		switch format {
		case "mermaid":
			fmt.Print(graph.Mermaid(g, nil))
		case "json":
			data, err := codec.DumpJSON(g)
			if err != nil {
				fmt.Printf("Error encoding graph: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(data))
		case "yaml", "yml":
			data, err := codec.Dump(g)
			if err != nil {
				fmt.Printf("Error encoding graph: %v\n", err)
				os.Exit(1)
			}
			fmt.Print(string(data))
		default:
			fmt.Printf("Unknown format: %s. Supported: mermaid, json, yaml\n", format)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringP("format", "f", "mermaid", "Output format: 'mermaid', 'json' or 'yaml'")
}
