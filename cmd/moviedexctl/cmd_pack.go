package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	catalogrepo "github.com/cinewise/moviedex/internal/repository/catalog"
)

func newPackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Build snapshot blobs from CSV exports",
		Long: `Read the movie table and similarity matrix from CSV files and write
the gob blobs the server loads.

The movies CSV has two columns, id and title, one row per movie (a
header row is skipped when present). The similarity CSV is a square
grid of scores with neither header nor id column; row and column order
must match the movies CSV.

Examples:
  moviedexctl pack --movies movies.csv --similarity similarity.csv
  moviedexctl pack --movies movies.csv --similarity similarity.csv --table data/movies.gob --matrix data/similarity.gob`,
		RunE: func(cmd *cobra.Command, args []string) error {
			moviesPath, _ := cmd.Flags().GetString("movies")
			similarityPath, _ := cmd.Flags().GetString("similarity")
			tablePath, _ := cmd.Flags().GetString("table")
			matrixPath, _ := cmd.Flags().GetString("matrix")
			jsonOut, _ := cmd.Flags().GetBool("json")

			ids, titles, err := readMoviesCSV(moviesPath)
			if err != nil {
				return fmt.Errorf("pack failed: %w", err)
			}
			matrix, err := readSimilarityCSV(similarityPath)
			if err != nil {
				return fmt.Errorf("pack failed: %w", err)
			}

			snap := catalogrepo.Snapshot{IDs: ids, Titles: titles, Matrix: matrix}
			if err := catalogrepo.Save(tablePath, matrixPath, snap); err != nil {
				return fmt.Errorf("pack failed: %w", err)
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"movies": len(ids),
					"table":  tablePath,
					"matrix": matrixPath,
				})
			}

			fmt.Printf("Snapshot packed: %d movies\n", len(ids))
			fmt.Printf("  Table:  %s\n", tablePath)
			fmt.Printf("  Matrix: %s\n", matrixPath)
			return nil
		},
	}

	cmd.Flags().String("movies", "", "Movies CSV (id,title per row)")
	cmd.Flags().String("similarity", "", "Similarity matrix CSV (square grid of scores)")
	cmd.Flags().String("table", "data/movies.gob", "Output path for the catalog table blob")
	cmd.Flags().String("matrix", "data/similarity.gob", "Output path for the similarity matrix blob")
	cmd.MarkFlagRequired("movies")
	cmd.MarkFlagRequired("similarity")

	return cmd
}

// readMoviesCSV parses the id,title table. A first row of "id,title" is
// treated as a header and skipped.
func readMoviesCSV(path string) (ids, titles []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open movies csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	r.TrimLeadingSpace = true

	row := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse movies csv: %w", err)
		}
		row++
		if row == 1 && strings.EqualFold(rec[0], "id") && strings.EqualFold(rec[1], "title") {
			continue
		}
		id := strings.TrimSpace(rec[0])
		title := strings.TrimSpace(rec[1])
		if id == "" || title == "" {
			return nil, nil, fmt.Errorf("movies csv row %d: empty id or title", row)
		}
		ids = append(ids, id)
		titles = append(titles, title)
	}
	if len(ids) == 0 {
		return nil, nil, fmt.Errorf("movies csv %s has no rows", path)
	}
	return ids, titles, nil
}

// readSimilarityCSV parses the score grid. Squareness against the movie
// table is validated later by Save; here every cell just has to be a float.
func readSimilarityCSV(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open similarity csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	var matrix [][]float64
	row := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse similarity csv: %w", err)
		}
		row++
		scores := make([]float64, len(rec))
		for col, cell := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("similarity csv row %d col %d: %q is not a number", row, col+1, cell)
			}
			scores[col] = v
		}
		matrix = append(matrix, scores)
	}
	if len(matrix) == 0 {
		return nil, fmt.Errorf("similarity csv %s has no rows", path)
	}
	return matrix, nil
}
