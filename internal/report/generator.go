package report

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Section is one named report of a run.
type Section struct {
	Title string
	// SkipEmpty leaves an empty table out of the output.
	SkipEmpty bool
	Build     func(ctx context.Context) (*Table, error)
}

// Progress is told when each section starts and finishes.
type Progress interface {
	Start(title string)
	Done()
}

type Generator struct {
	Log      zerolog.Logger
	Progress Progress
}

func NewGenerator(log zerolog.Logger) *Generator {
	return &Generator{Log: log}
}

// SectionsError lists the sections that failed during a run.
type SectionsError struct {
	Total  int
	Failed []error
}

func (e *SectionsError) Error() string {
	return fmt.Sprintf("%d of %d reports failed", len(e.Failed), e.Total)
}

func (e *SectionsError) Unwrap() []error {
	return e.Failed
}

// Generate builds and renders sections in order, each followed by a blank
// line. A failing section is replaced by an error marker and the rest still
// run; the failures are returned as a *SectionsError once every section is done.
func (g *Generator) Generate(ctx context.Context, w io.Writer, sections ...Section) ([]*Table, error) {
	var tables []*Table
	var failed []error

	for _, s := range sections {
		select {
		case <-ctx.Done():
			return tables, ctx.Err()
		default:
		}

		g.Log.Debug().Str("section", s.Title).Msg("building report")
		table, err := g.build(ctx, s)
		if err != nil {
			g.Log.Error().Err(err).Str("section", s.Title).Stringer("kind", KindOf(err)).Msg("report failed")
			failed = append(failed, fmt.Errorf("%s: %w", s.Title, err))
			if _, werr := fmt.Fprintf(w, "%s %s: ERROR: %v\n\n", Marker, s.Title, err); werr != nil {
				return tables, werr
			}
			continue
		}

		if s.SkipEmpty && table.Len() == 0 {
			g.Log.Debug().Str("section", s.Title).Msg("no rows, skipped")
			continue
		}

		if err := table.Render(w); err != nil {
			return tables, err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return tables, err
		}
		tables = append(tables, table)
	}

	if len(failed) > 0 {
		return tables, &SectionsError{Total: len(sections), Failed: failed}
	}
	return tables, nil
}

func (g *Generator) build(ctx context.Context, s Section) (*Table, error) {
	if g.Progress != nil {
		g.Progress.Start(s.Title)
		defer g.Progress.Done()
	}
	return s.Build(ctx)
}

// AppendRecords adds one row per record. Records whose row cannot be built
// are skipped and their errors returned.
func (t *Table) AppendRecords(records []Record, row func(Record) ([]string, error)) []error {
	var skipped []error
	for _, r := range records {
		cells, err := row(r)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("record %s: %w", r.ID, err))
			continue
		}
		t.Append(cells...)
	}
	return skipped
}

// LogSkipped reports records dropped by a parser or formatter.
func LogSkipped(log zerolog.Logger, section string, skipped []error) {
	for _, err := range skipped {
		log.Warn().Err(err).Str("section", section).Msg("record skipped")
	}
}
