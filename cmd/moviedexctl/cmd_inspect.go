package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	catalogrepo "github.com/cinewise/moviedex/internal/repository/catalog"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load a snapshot and print its contents",
		Long: `Load the snapshot blobs the way the server does and report what is in
them. With --title, also rank that movie's nearest neighbors, which is
the quickest way to spot a misaligned matrix before deploying.

Examples:
  moviedexctl inspect --table data/movies.gob --matrix data/similarity.gob
  moviedexctl inspect --table data/movies.gob --matrix data/similarity.gob --title "Alien" --k 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tablePath, _ := cmd.Flags().GetString("table")
			matrixPath, _ := cmd.Flags().GetString("matrix")
			title, _ := cmd.Flags().GetString("title")
			k, _ := cmd.Flags().GetInt("k")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cat, err := catalogrepo.Load(tablePath, matrixPath)
			if err != nil {
				return fmt.Errorf("inspect failed: %w", err)
			}

			if title == "" {
				if jsonOut {
					return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
						"movies": cat.Len(),
					})
				}
				fmt.Printf("Snapshot OK: %d movies, %dx%d matrix\n", cat.Len(), cat.Len(), cat.Len())
				return nil
			}

			neighbors, err := cat.Neighbors(title, k)
			if err != nil {
				return fmt.Errorf("inspect failed: %w", err)
			}

			if jsonOut {
				type neighborOut struct {
					ID    string  `json:"id"`
					Title string  `json:"title"`
					Score float64 `json:"score"`
				}
				out := make([]neighborOut, len(neighbors))
				for i, n := range neighbors {
					out[i] = neighborOut{ID: n.Item.ID(), Title: n.Item.Title(), Score: n.Score}
				}
				return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"movies":    cat.Len(),
					"query":     title,
					"neighbors": out,
				})
			}

			fmt.Printf("Snapshot OK: %d movies\n", cat.Len())
			fmt.Printf("Nearest to %q:\n", title)
			for i, n := range neighbors {
				fmt.Printf("  %2d. %-40s %.4f  (id %s)\n", i+1, n.Item.Title(), n.Score, n.Item.ID())
			}
			return nil
		},
	}

	cmd.Flags().String("table", "data/movies.gob", "Path to the catalog table blob")
	cmd.Flags().String("matrix", "data/similarity.gob", "Path to the similarity matrix blob")
	cmd.Flags().String("title", "", "Rank neighbors for this exact title")
	cmd.Flags().Int("k", 5, "How many neighbors to show")

	return cmd
}
