package bugzilla

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Afrawles/weekly/internal/report"
)

func readFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("testdata/buglist.csv")
	require.NoError(t, err)
	return string(data)
}

func TestParseCSV(t *testing.T) {
	result, err := ParseCSV(readFixture(t), time.UTC)
	require.NoError(t, err)
	assert.Empty(t, result.Skipped)
	require.Len(t, result.Records, 3)

	first := result.Records[0]
	assert.Equal(t, "1001", first.ID)
	assert.Equal(t, StatusNew, first.Status)
	assert.Equal(t, "rhos-maint@redhat.com", first.Owner)
	assert.Equal(t, "Red Hat OpenStack", first.Category)
	assert.Equal(t, "openstack-nova", first.Component)
	assert.Equal(t, time.Date(2024, time.January, 20, 10, 0, 0, 0, time.UTC), first.Updated)

	// Quoted commas and doubled quotes stay inside the summary.
	assert.Equal(t, `Scheduler ignores, "soft" anti-affinity`, result.Records[1].Summary)
}

func TestParseCSV_Empty(t *testing.T) {
	for _, raw := range []string{"", "  \n"} {
		_, err := ParseCSV(raw, time.UTC)
		require.Error(t, err)
		assert.ErrorIs(t, err, report.ErrNoData)
		assert.Equal(t, report.KindParse, report.KindOf(err))
	}
}

func TestParseCSV_SkipsMalformedRows(t *testing.T) {
	raw := `"Bug ID","Product","Component","Assignee","Status","Resolution","Summary","Keywords","Changed"
1001,"Fedora","nova","a@redhat.com","NEW","---","Ok","","2024-01-20 10:00:00"
1002,"Fedora","nova","a@redhat.com"
1003,"Fedora","nova","a@redhat.com","NEW","---","Bad date","","yesterday"
1004,"Fedora","nova","a@redhat.com","POST","---","Date only","Triaged, Regression","2024-01-21"
`
	result, err := ParseCSV(raw, time.UTC)
	require.NoError(t, err)

	require.Len(t, result.Records, 2)
	assert.Equal(t, "1001", result.Records[0].ID)
	assert.Equal(t, "1004", result.Records[1].ID)
	assert.Equal(t, []string{"Triaged", "Regression"}, result.Records[1].Keywords)

	require.Len(t, result.Skipped, 2)
	for _, err := range result.Skipped {
		assert.ErrorIs(t, err, report.ErrMalformedRecord)
	}
	assert.Contains(t, result.Skipped[0].Error(), "buglist line 3")
}

func TestSplitKeywords(t *testing.T) {
	assert.Nil(t, splitKeywords(""))
	assert.Equal(t, []string{"Triaged"}, splitKeywords("Triaged"))
	assert.Equal(t, []string{"Triaged", "ZStream"}, splitKeywords(" Triaged ,, ZStream "))
}
