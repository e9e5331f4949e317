package catalog

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	domcat "github.com/cinewise/moviedex/internal/domain/catalog"
)

// Snapshot is the raw material for the two on-disk blobs. IDs and Titles
// are parallel slices aligned with the matrix.
type Snapshot struct {
	IDs    []string
	Titles []string
	Matrix [][]float64
}

// Load reads the catalog table and similarity matrix blobs and builds the
// in-memory catalog. Any missing file, decode failure, or inconsistency
// between the two blobs is an error; callers treat it as fatal at startup.
func Load(catalogPath, matrixPath string) (*domcat.Catalog, error) {
	var cb catalogBlob
	if err := decodeBlob(catalogPath, &cb); err != nil {
		return nil, fmt.Errorf("load catalog table: %w", err)
	}
	var mb matrixBlob
	if err := decodeBlob(matrixPath, &mb); err != nil {
		return nil, fmt.Errorf("load similarity matrix: %w", err)
	}

	ids := make([]string, len(cb.Items))
	titles := make([]string, len(cb.Items))
	for i, it := range cb.Items {
		ids[i] = it.ID
		titles[i] = it.Title
	}
	return domcat.New(ids, titles, mb.Scores)
}

// Save validates the snapshot and writes both blobs. A snapshot that Save
// accepts is guaranteed to Load.
func Save(catalogPath, matrixPath string, snap Snapshot) error {
	if _, err := domcat.New(snap.IDs, snap.Titles, snap.Matrix); err != nil {
		return err
	}

	items := make([]itemRow, len(snap.IDs))
	for i := range snap.IDs {
		items[i] = itemRow{ID: snap.IDs[i], Title: snap.Titles[i]}
	}
	if err := encodeBlob(catalogPath, catalogBlob{Items: items}); err != nil {
		return fmt.Errorf("write catalog table: %w", err)
	}
	if err := encodeBlob(matrixPath, matrixBlob{Scores: snap.Matrix}); err != nil {
		return fmt.Errorf("write similarity matrix: %w", err)
	}
	return nil
}

func decodeBlob(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

func encodeBlob(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
