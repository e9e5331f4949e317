package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cinewise/moviedex/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "moviedexctl",
		Short: "Offline tooling for moviedex catalog snapshots",
		Long: `moviedexctl builds and inspects the catalog snapshot the moviedex
server loads at startup.

The snapshot is two gob blobs: the catalog table (movie ids and titles)
and the square similarity matrix aligned with it. Both are produced from
CSV exports with 'pack' and sanity-checked with 'inspect'.`,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for scripting)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newPackCmd(),
		newInspectCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{
					"version": version.Version,
					"commit":  version.Commit,
					"date":    version.Date,
				})
				return
			}
			fmt.Printf("moviedexctl %s (commit %s, built %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
