package gerrit

import (
	"strings"
)

const DefaultProjectPrefix = "openstack/"

type term struct {
	field, value string
}

// Query is a conjunction of Gerrit search operators.
type Query struct {
	terms []term
}

func NewQuery() *Query {
	return &Query{}
}

// Field adds a field:value operator, e.g. Field("owner", "jdoe@example.com").
func (q *Query) Field(field, value string) *Query {
	q.terms = append(q.terms, term{field, value})
	return q
}

func (q *Query) Project(name string) *Query {
	return q.Field("project", name)
}

// String serialises the query in Gerrit's search syntax.
func (q *Query) String() string {
	parts := make([]string, len(q.terms))
	for i, t := range q.terms {
		parts[i] = t.field + ":" + quoteValue(t.value)
	}
	return strings.Join(parts, " AND ")
}

// Command is the remote command running the query over SSH.
func (q *Query) Command() string {
	return "gerrit query --format=JSON " + shellQuote(q.String())
}

func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\"'(){}:") {
		return v
	}
	return `"` + strings.ReplaceAll(strings.ReplaceAll(v, `\`, `\\`), `"`, `\"`) + `"`
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
