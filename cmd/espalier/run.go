package main

import (
	"fmt"
	"os"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Walk the decision graph interactively",
	Long: `Starts an interactive walk over the graph at the given path: a directory
of node documents, or a single YAML/JSON document.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("dir")
		if !cmd.Flags().Changed("dir") && len(args) > 0 {
			path = args[0]
		}

		opts := cli.RunOptions{Path: path}
		opts.Root, _ = cmd.Flags().GetString("root")
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		opts.RedisURL, _ = cmd.Flags().GetString("redis-url")

		if err := cli.Execute(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	runCmd.Flags().BoolP("watch", "w", false, "Run in development mode with hot-reload")
	runCmd.Flags().Bool("debug", false, "Enable debug logging")
	runCmd.Flags().String("session", "", "Session ID for a persistent, resumable walk")
	runCmd.Flags().Bool("fresh", false, "Discard the stored session before starting")
	runCmd.Flags().String("redis-url", "", "Store sessions in Redis at the given URL")
	runCmd.Flags().String("root", "", "Override the graph entry point (directory sources)")

	// Make 'run' the default if no command is provided
	rootCmd.Run = runCmd.Run
}
