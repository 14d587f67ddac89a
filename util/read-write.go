package util

import (
	"encoding/csv"
	"fmt"
	"os"
)

func WriteCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}

	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows to %s: %w", path, err)
	}

	return nil
}
