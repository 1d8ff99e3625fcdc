package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/followme/attendance-cli/pkg/logger"
	"github.com/followme/attendance-cli/pkg/output"
)

// ImportService bulk-loads attendance entries from a CSV roster.
type ImportService struct {
	app *App
}

// NewImportService creates a new import service
func NewImportService(app *App) *ImportService {
	return &ImportService{app: app}
}

// ImportCSV queues one entry per data row. The first row is a header; a
// "name" column is required, every other column is carried into the entry
// data under its lower-cased header.
func (s *ImportService) ImportCSV(path, category string) (int, error) {
	cfg, err := s.app.Settings.Load()
	if err != nil {
		return 0, err
	}
	if category != "" && !cfg.HasCategory(category) {
		return 0, fmt.Errorf("unknown category %q", category)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("reading header: %w", err)
	}

	nameCol := -1
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(h))
		if columns[i] == "name" {
			nameCol = i
		}
	}
	if nameCol == -1 {
		return 0, fmt.Errorf("csv has no name column")
	}

	imported := 0
	skipped := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, err
		}

		if nameCol >= len(row) || strings.TrimSpace(row[nameCol]) == "" {
			skipped++
			continue
		}

		data := map[string]string{}
		for i, cell := range row {
			if i < len(columns) && strings.TrimSpace(cell) != "" {
				data[columns[i]] = strings.TrimSpace(cell)
			}
		}

		if err := s.app.Coordinator.AddEntry(data, category); err != nil {
			return imported, err
		}
		imported++
	}

	if skipped > 0 {
		logger.Warn("Skipped rows without a name", "count", skipped)
		output.PrintWarning("Skipped %d rows without a name", skipped)
	}
	output.PrintSuccess("Imported %d entries", imported)
	return imported, nil
}
