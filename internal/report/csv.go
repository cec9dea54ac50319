package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CSVExporter writes one CSV file per table into a directory.
type CSVExporter struct {
	OutputDir string
}

func NewCSVExporter(outputDir string) *CSVExporter {
	return &CSVExporter{OutputDir: outputDir}
}

// Export returns the paths written, in table order.
func (e *CSVExporter) Export(tables []*Table) ([]string, error) {
	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var paths []string
	used := make(map[string]bool)
	for _, table := range tables {
		name := uniqueFileName(fileName(table.Title), used)
		path := filepath.Join(e.OutputDir, name+".csv")
		if err := writeCSV(path, table); err != nil {
			return paths, fmt.Errorf("failed to export %s: %w", table.Title, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSV(path string, table *Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(table.Headers); err != nil {
		return err
	}
	if err := writer.WriteAll(table.Sorted()); err != nil {
		return err
	}
	return file.Close()
}

// fileName turns a section title such as "Reviews: openstack/nova" into
// "reviews_openstack-nova".
func fileName(title string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			underscore = false
		case r == '/':
			b.WriteByte('-')
			underscore = false
		default:
			if !underscore && b.Len() > 0 {
				b.WriteByte('_')
				underscore = true
			}
		}
	}
	name := strings.TrimSuffix(b.String(), "_")
	if name == "" {
		name = "report"
	}
	return name
}

func uniqueFileName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s_%d", name, n)
	}
	used[candidate] = true
	return candidate
}
