package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelExporter writes every table to its own sheet of one workbook.
type ExcelExporter struct {
	Path string
}

func NewExcelExporter(path string) *ExcelExporter {
	return &ExcelExporter{Path: path}
}

func (e *ExcelExporter) Export(tables []*Table) error {
	if len(tables) == 0 {
		return nil
	}
	if dir := filepath.Dir(e.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	used := make(map[string]bool)
	for i, table := range tables {
		name := uniqueSheetName(sanitizeSheetName(table.Title), used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet for %s: %w", table.Title, err)
		}
		if err := writeSheet(f, name, table, headerStyle); err != nil {
			return fmt.Errorf("failed to fill sheet for %s: %w", table.Title, err)
		}
	}

	if err := f.SaveAs(e.Path); err != nil {
		return fmt.Errorf("failed to save excel file: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, table *Table, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &table.Headers); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(table.Headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range table.Sorted() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	for col, header := range table.Headers {
		width := 10.0
		if header == "Summary" || header == "Subject" {
			width = 45
		}
		letter, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, letter, letter, width); err != nil {
			return err
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func sanitizeSheetName(name string) string {
	r := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "",
		"?", "",
		"*", "",
		"[", "(",
		"]", ")",
	)
	name = strings.TrimSpace(r.Replace(name))
	if name == "" {
		name = "Report"
	}
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	return name
}

func uniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" %d", n)
		base := []rune(name)
		if len(base)+len(suffix) > 31 {
			base = base[:31-len(suffix)]
		}
		candidate = string(base) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
