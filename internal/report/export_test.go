package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTables() []*Table {
	summary := NewTable("nova: Summary", "", "NEW", "ASSIGNED")
	summary.ShowCount = false
	summary.Append("3", "1")

	bugs := NewTable("nova: Untriaged", "ID", "ID", "Summary")
	bugs.Append("1001", "Instance fails to boot")
	bugs.Append("1003", "Live migration stalls")

	return []*Table{summary, bugs}
}

func TestExcelExporter_Export(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "weekly.xlsx")

	require.NoError(t, NewExcelExporter(path).Export(sampleTables()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"nova Summary", "nova Untriaged"}, f.GetSheetList())

	v, err := f.GetCellValue("nova Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "NEW", v)
	v, err = f.GetCellValue("nova Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "3", v)

	// Rows are written in display order.
	v, err = f.GetCellValue("nova Untriaged", "A2")
	require.NoError(t, err)
	assert.Equal(t, "1003", v)
	v, err = f.GetCellValue("nova Untriaged", "B3")
	require.NoError(t, err)
	assert.Equal(t, "Instance fails to boot", v)
}

func TestExcelExporter_NoTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weekly.xlsx")

	require.NoError(t, NewExcelExporter(path).Export(nil))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCSVExporter_Export(t *testing.T) {
	dir := t.TempDir()

	paths, err := NewCSVExporter(dir).Export(sampleTables())
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "nova_summary.csv"),
		filepath.Join(dir, "nova_untriaged.csv"),
	}, paths)

	f, err := os.Open(paths[1])
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"ID", "Summary"},
		{"1003", "Live migration stalls"},
		{"1001", "Instance fails to boot"},
	}, rows)
}

func TestSheetAndFileNames(t *testing.T) {
	assert.Equal(t, "Closed in the last 7 days", sanitizeSheetName("Closed in the last 7 days"))
	assert.Equal(t, "Reviews openstack-nova", sanitizeSheetName("Reviews: openstack/nova"))
	assert.Len(t, []rune(sanitizeSheetName("a very long title that does not fit in a sheet name")), 31)

	used := map[string]bool{}
	assert.Equal(t, "Reviews", uniqueSheetName("Reviews", used))
	assert.Equal(t, "Reviews 2", uniqueSheetName("Reviews", used))

	assert.Equal(t, "review_owners_openstack-nova", fileName("Review owners: openstack/nova"))
	assert.Equal(t, "report", fileName("➤"))
}
