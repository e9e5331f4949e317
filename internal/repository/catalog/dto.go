package catalog

// itemRow is the gob-serializable representation of one catalog entry.
// Row order defines the matrix index.
type itemRow struct {
	ID    string
	Title string
}

// catalogBlob is the on-disk catalog table snapshot.
type catalogBlob struct {
	Items []itemRow
}

// matrixBlob is the on-disk similarity matrix snapshot.
type matrixBlob struct {
	Scores [][]float64
}
