// Package export writes the flattened menu dataset to tabular files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/menucarta/carta/internal/menu"
)

// CSV writes the dataset to path as UTF-8 CSV with a header row.
// An empty dataset produces headers only.
func CSV(data *menu.MenuData, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(menu.ExportColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range data.Rows() {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return f.Close()
}
