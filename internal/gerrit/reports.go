package gerrit

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Afrawles/weekly/internal/report"
)

const SubjectWidth = 38

// searchKind is one per-person query run for every project.
type searchKind struct {
	field  string
	title  string
	person string
	row    func(r report.Record, loc *time.Location) []string
}

var searches = []searchKind{
	{
		field:  "owner",
		title:  "Review owners",
		person: "Dev",
		row: func(r report.Record, loc *time.Location) []string {
			return []string{r.Owner, report.Truncate(r.Summary, SubjectWidth), r.ID, report.MonthDay(r.Updated.In(loc))}
		},
	},
	{
		field:  "reviewer",
		title:  "Reviews",
		person: "Reviewer",
		row: func(r report.Record, loc *time.Location) []string {
			return []string{r.SearchedFor, report.Truncate(r.Summary, SubjectWidth), r.ID, report.MonthDay(r.Updated.In(loc))}
		},
	},
}

// Reporter builds the review report sections of a team.
type Reporter struct {
	Runner Runner
	// ProjectPrefix is prepended to project names, e.g. DefaultProjectPrefix.
	ProjectPrefix string
	Location      *time.Location
	Log           zerolog.Logger
}

// Sections returns, per project, the changes owned by and the changes
// reviewed by the team's people. Empty sections are left out.
func (r *Reporter) Sections(p report.Params) []report.Section {
	var sections []report.Section
	for _, project := range p.Projects {
		for _, s := range searches {
			sections = append(sections, r.section(s, project, p))
		}
	}
	return sections
}

func (r *Reporter) section(s searchKind, project string, p report.Params) report.Section {
	title := fmt.Sprintf("%s: %s", s.title, project)
	return report.Section{
		Title:     title,
		SkipEmpty: true,
		Build: func(ctx context.Context) (*report.Table, error) {
			var changes []report.Record
			for _, person := range p.People {
				q := NewQuery().
					Field(s.field, report.Email(person, p.EmailDomain)).
					Project(r.ProjectPrefix + project)
				found, err := r.query(ctx, title, q)
				if err != nil {
					return nil, err
				}
				for _, c := range found {
					c.SearchedFor = person
					changes = append(changes, c)
				}
			}

			changes = report.Recent(report.WithSummary(changes), p.Days, p.Now)

			table := report.NewTable(title, "Date", s.person, "Subject", "ID", "Date")
			table.Compare = report.DateCompare
			loc := r.location()
			for _, c := range changes {
				table.Append(s.row(c, loc)...)
			}
			return table, nil
		},
	}
}

func (r *Reporter) query(ctx context.Context, section string, q *Query) ([]report.Record, error) {
	raw, err := r.Runner.Run(ctx, q.Command())
	if err != nil {
		return nil, err
	}
	result, err := ParseJSONLines(raw)
	if err != nil {
		return nil, err
	}
	report.LogSkipped(r.Log, section, result.Skipped)
	return result.Records, nil
}

func (r *Reporter) location() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}
