package bugzilla

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query()
}

func TestQuery_Component(t *testing.T) {
	raw := NewQuery("").Component("openstack-nova").Statuses(StatusesNew).ExcludeKeyword(TriagedKeyword).String()
	require.True(t, strings.HasPrefix(raw, DefaultURL+"?"))

	v := parseQuery(t, raw)
	assert.Equal(t, "advanced", v.Get("query_format"))
	assert.Equal(t, "csv", v.Get("ctype"))
	assert.Equal(t, "1", v.Get("human"))
	assert.Equal(t, strings.Join(Columns, ","), v.Get("columnlist"))
	assert.Equal(t, []string{"openstack-nova"}, v["component"])
	assert.Equal(t, []string{"NEW", "ASSIGNED"}, v["bug_status"])
	assert.Equal(t, "keywords", v.Get("f1"))
	assert.Equal(t, "notsubstring", v.Get("o1"))
	assert.Equal(t, "Triaged", v.Get("v1"))
	assert.Empty(t, v.Get("j_top"))
}

func TestQuery_AssignedToAny(t *testing.T) {
	raw := NewQuery("https://bugzilla.example.com/buglist.cgi").
		AssignedToAny("jdoe@redhat.com", "asmith@redhat.com").
		Statuses(StatusesDone).
		String()

	assert.Contains(t, raw, "v1=jdoe%40redhat.com")

	v := parseQuery(t, raw)
	assert.Equal(t, "OR", v.Get("j_top"))
	assert.Equal(t, "assigned_to", v.Get("f1"))
	assert.Equal(t, "substring", v.Get("o1"))
	assert.Equal(t, "jdoe@redhat.com", v.Get("v1"))
	assert.Equal(t, "assigned_to", v.Get("f2"))
	assert.Equal(t, "asmith@redhat.com", v.Get("v2"))
	assert.Len(t, v["bug_status"], len(StatusesDone))
}

func TestQuery_EscapesValues(t *testing.T) {
	raw := NewQuery("").Component("a&b=c #d").String()

	v := parseQuery(t, raw)
	assert.Equal(t, []string{"a&b=c #d"}, v["component"])
}

func TestQuery_BaseWithParameters(t *testing.T) {
	raw := NewQuery("https://bugzilla.example.com/buglist.cgi?classification=Red+Hat").String()

	v := parseQuery(t, raw)
	assert.Equal(t, "Red Hat", v.Get("classification"))
	assert.Equal(t, "csv", v.Get("ctype"))
}
