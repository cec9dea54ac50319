package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Marker prefixes every section heading.
const Marker = "➤"

// Compare orders two cells of the sort column.
type Compare func(a, b string) int

// Table is one rendered report: a heading plus aligned rows.
type Table struct {
	Title     string
	Headers   []string
	Rows      [][]string
	SortBy    string
	Ascending bool
	Compare   Compare
	// ShowCount appends the row count to the heading.
	ShowCount bool
}

// NewTable returns a table sorted descending on sortBy with the count shown in its heading.
func NewTable(title, sortBy string, headers ...string) *Table {
	return &Table{
		Title:     title,
		Headers:   headers,
		SortBy:    sortBy,
		Compare:   NaturalCompare,
		ShowCount: true,
	}
}

func (t *Table) Append(row ...string) {
	t.Rows = append(t.Rows, row)
}

func (t *Table) Len() int {
	return len(t.Rows)
}

func (t *Table) Heading() string {
	if t.ShowCount {
		return fmt.Sprintf("%s %s (%d)", Marker, t.Title, t.Len())
	}
	return fmt.Sprintf("%s %s", Marker, t.Title)
}

// Sorted returns the rows in display order. The table itself is left untouched.
func (t *Table) Sorted() [][]string {
	rows := slices.Clone(t.Rows)
	col := slices.Index(t.Headers, t.SortBy)
	if col < 0 {
		return rows
	}
	compare := t.Compare
	if compare == nil {
		compare = NaturalCompare
	}
	slices.SortStableFunc(rows, func(a, b []string) int {
		c := compare(cell(a, col), cell(b, col))
		if t.Ascending {
			return c
		}
		return -c
	})
	return rows
}

// Render writes the heading line followed by the table.
func (t *Table) Render(w io.Writer) error {
	if _, err := fmt.Fprintln(w, t.Heading()); err != nil {
		return err
	}
	table := tablewriter.NewTable(w,
		tablewriter.WithRendition(tw.Rendition{Symbols: tw.NewSymbols(tw.StyleASCII)}),
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
	)
	table.Header(t.Headers)
	for _, row := range t.Sorted() {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// NaturalCompare compares integers numerically and everything else lexically.
func NaturalCompare(a, b string) int {
	x, errA := strconv.Atoi(strings.TrimSpace(a))
	y, errB := strconv.Atoi(strings.TrimSpace(b))
	if errA == nil && errB == nil {
		return cmp.Compare(x, y)
	}
	return strings.Compare(a, b)
}

// DateCompare compares "Mon DD" cells by DateOrdinal.
func DateCompare(a, b string) int {
	x, okA := DateOrdinal(a)
	y, okB := DateOrdinal(b)
	if okA && okB {
		return cmp.Compare(x, y)
	}
	return NaturalCompare(a, b)
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
