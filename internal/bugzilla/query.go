package bugzilla

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Afrawles/weekly/internal/report"
)

const DefaultURL = "https://bugzilla.redhat.com/buglist.cgi"

// Columns requested from buglist.cgi, in the order the parser reads them.
var Columns = []string{"product", "component", "assigned_to", "bug_status", "resolution", "short_desc", "keywords", "changeddate"}

type predicate struct {
	field, op, value string
}

// Query builds a buglist.cgi search returning CSV.
type Query struct {
	base       string
	statuses   []report.Status
	components []string
	assignees  []string
	excluded   []string
}

func NewQuery(base string) *Query {
	if base == "" {
		base = DefaultURL
	}
	return &Query{base: base}
}

func (q *Query) Statuses(set report.StatusSet) *Query {
	q.statuses = append(q.statuses, set...)
	return q
}

func (q *Query) Component(name string) *Query {
	q.components = append(q.components, name)
	return q
}

// AssignedToAny matches bugs whose assignee contains any of the addresses.
func (q *Query) AssignedToAny(emails ...string) *Query {
	q.assignees = append(q.assignees, emails...)
	return q
}

func (q *Query) ExcludeKeyword(keyword string) *Query {
	q.excluded = append(q.excluded, keyword)
	return q
}

// String serialises the query into a URL.
func (q *Query) String() string {
	v := url.Values{}
	v.Set("query_format", "advanced")
	v.Set("ctype", "csv")
	v.Set("human", "1")
	v.Set("columnlist", strings.Join(Columns, ","))
	for _, c := range q.components {
		v.Add("component", c)
	}
	for _, s := range q.statuses {
		v.Add("bug_status", string(s))
	}

	var preds []predicate
	for _, email := range q.assignees {
		preds = append(preds, predicate{"assigned_to", "substring", email})
	}
	// Assignee predicates are alternatives, so the top-level join becomes OR.
	// Mixing them with keyword exclusions would turn those into alternatives too.
	if len(q.assignees) > 0 {
		v.Set("j_top", "OR")
	} else {
		for _, k := range q.excluded {
			preds = append(preds, predicate{"keywords", "notsubstring", k})
		}
	}
	for i, p := range preds {
		n := i + 1
		v.Set(fmt.Sprintf("f%d", n), p.field)
		v.Set(fmt.Sprintf("o%d", n), p.op)
		v.Set(fmt.Sprintf("v%d", n), p.value)
	}

	sep := "?"
	if strings.Contains(q.base, "?") {
		sep = "&"
	}
	return q.base + sep + v.Encode()
}
