package bugzilla

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Afrawles/weekly/internal/report"
)

const (
	DefaultOwner   = "rhos-maint@redhat.com"
	TriagedKeyword = "Triaged"
	SummaryWidth   = 36
)

var bugHeaders = []string{"ID", "Src", "Sta", "Summary", "Owner"}

// Reporter builds the bug report sections of a team.
type Reporter struct {
	Fetcher Fetcher
	// URL of buglist.cgi; DefaultURL when empty.
	URL string
	// DefaultOwner owns bugs nobody has picked up yet.
	DefaultOwner string
	Location     *time.Location
	Log          zerolog.Logger
}

// Sections returns, in output order, a summary and an untriaged list per
// project followed by the recently closed and in-progress lists of the team.
func (r *Reporter) Sections(p report.Params) []report.Section {
	var sections []report.Section
	for _, project := range p.Projects {
		sections = append(sections,
			r.summary(project),
			r.untriaged(project, p.IncludeAll),
		)
	}

	if len(p.People) == 0 {
		r.Log.Debug().Str("team", p.Team).Msg("no people configured, skipping per-engineer reports")
		return sections
	}
	emails := make([]string, len(p.People))
	for i, person := range p.People {
		emails[i] = report.Email(person, p.EmailDomain)
	}
	return append(sections, r.closed(emails, p.Days, p.Now), r.inProgress(emails))
}

func (r *Reporter) summary(project string) report.Section {
	title := project + ": Summary"
	return report.Section{
		Title: title,
		Build: func(ctx context.Context) (*report.Table, error) {
			q := NewQuery(r.URL).Component(project).Statuses(StatusesAll)
			bugs, err := r.fetch(ctx, title, q)
			if err != nil {
				return nil, err
			}

			headers := make([]string, len(StatusesAll))
			counts := make([]string, len(StatusesAll))
			for i, status := range StatusesAll {
				headers[i] = SummaryHeader(status)
				counts[i] = fmt.Sprint(len(report.WithStatus(bugs, report.StatusSet{status})))
			}

			table := report.NewTable(title, "", headers...)
			table.ShowCount = false
			table.Append(counts...)
			return table, nil
		},
	}
}

func (r *Reporter) untriaged(project string, includeAll bool) report.Section {
	title := project + ": Untriaged"
	return report.Section{
		Title: title,
		Build: func(ctx context.Context) (*report.Table, error) {
			q := NewQuery(r.URL).Component(project).Statuses(StatusesNew).ExcludeKeyword(TriagedKeyword)
			bugs, err := r.fetch(ctx, title, q)
			if err != nil {
				return nil, err
			}
			bugs = report.WithoutKeyword(bugs, TriagedKeyword)
			if !includeAll {
				bugs = report.OwnedBy(bugs, r.defaultOwner())
			}
			return r.bugTable(title, bugs), nil
		},
	}
}

func (r *Reporter) closed(emails []string, days int, now time.Time) report.Section {
	title := fmt.Sprintf("Closed in the last %d days", days)
	return report.Section{
		Title: title,
		Build: func(ctx context.Context) (*report.Table, error) {
			q := NewQuery(r.URL).AssignedToAny(emails...).Statuses(StatusesDone)
			bugs, err := r.fetch(ctx, title, q)
			if err != nil {
				return nil, err
			}
			return r.bugTable(title, report.Recent(bugs, days, now)), nil
		},
	}
}

func (r *Reporter) inProgress(emails []string) report.Section {
	title := "Bugs being fixed up"
	return report.Section{
		Title: title,
		Build: func(ctx context.Context) (*report.Table, error) {
			q := NewQuery(r.URL).AssignedToAny(emails...).Statuses(StatusesWIP)
			bugs, err := r.fetch(ctx, title, q)
			if err != nil {
				return nil, err
			}
			return r.bugTable(title, bugs), nil
		},
	}
}

func (r *Reporter) fetch(ctx context.Context, section string, q *Query) ([]report.Record, error) {
	raw, err := r.Fetcher.Fetch(ctx, q.String())
	if err != nil {
		return nil, err
	}

	result, err := ParseCSV(raw, r.Location)
	if errors.Is(err, report.ErrNoData) {
		r.Log.Warn().Str("section", section).Msg("empty buglist response")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	report.LogSkipped(r.Log, section, result.Skipped)
	return result.Records, nil
}

func (r *Reporter) bugTable(title string, bugs []report.Record) *report.Table {
	table := report.NewTable(title, "ID", bugHeaders...)
	skipped := table.AppendRecords(bugs, BugRow)
	report.LogSkipped(r.Log, title, skipped)
	return table
}

func (r *Reporter) defaultOwner() string {
	if r.DefaultOwner == "" {
		return DefaultOwner
	}
	return r.DefaultOwner
}

// BugRow formats a bug as ID, Src, Sta, Summary, Owner.
func BugRow(bug report.Record) ([]string, error) {
	status, err := ShortStatus(bug.Status)
	if err != nil {
		return nil, err
	}
	return []string{
		bug.ID,
		SourceCode(bug.Category),
		status,
		report.Truncate(bug.Summary, SummaryWidth),
		report.LocalPart(bug.Owner),
	}, nil
}
