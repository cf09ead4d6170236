package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kubev2v/vsphere-reporter/internal/inventory"
)

// WriteCSV serializes rows into <outputDir>/<name>.csv, header first, force
// overwriting any previous file. All rows of a report share one fixed column
// set; an empty row set still produces the header so the column contract
// holds for downstream consumers.
func WriteCSV[R inventory.Row](outputDir, name string, rows []R) (string, error) {
	path := filepath.Join(outputDir, name+".csv")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	var zero R
	if err := writer.Write(zero.Header()); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row.Record()); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return path, nil
}
