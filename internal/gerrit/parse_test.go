package gerrit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Afrawles/weekly/internal/report"
)

const sampleOutput = `{"project":"openstack/nova","branch":"master","number":"700123","subject":"Fix resize race","owner":{"name":"Jane Doe","email":"jdoe@redhat.com","username":"jdoe"},"url":"https://review.openstack.org/700123","status":"NEW","lastUpdated":1706184000}
{"project":"openstack/nova","branch":"master","number":700124,"subject":"Add scheduler hint",
{"project":"openstack/nova","branch":"master","number":700125,"subject":"Drop py2 shims","owner":{"name":"Al Smith","email":"asmith@redhat.com"},"status":"MERGED","lastUpdated":1706788800}
{"type":"stats","rowCount":2,"runTimeMilliseconds":12,"moreChanges":false}
`

func TestParseJSONLines(t *testing.T) {
	result, err := ParseJSONLines(sampleOutput)
	require.NoError(t, err)

	require.Len(t, result.Records, 2)
	require.Len(t, result.Skipped, 1)
	assert.ErrorIs(t, result.Skipped[0], report.ErrMalformedRecord)
	assert.Contains(t, result.Skipped[0].Error(), "gerrit line 2")

	first := result.Records[0]
	assert.Equal(t, "700123", first.ID)
	assert.Equal(t, "jdoe", first.Owner)
	assert.Equal(t, "Fix resize race", first.Summary)
	assert.Equal(t, report.Status("NEW"), first.Status)
	assert.Equal(t, "openstack/nova", first.Category)
	assert.True(t, time.Unix(1706184000, 0).Equal(first.Updated))

	// Numeric change numbers and owners without a username.
	second := result.Records[1]
	assert.Equal(t, "700125", second.ID)
	assert.Equal(t, "asmith", second.Owner)
}

func TestParseJSONLines_IgnoresNoise(t *testing.T) {
	result, err := ParseJSONLines("\nWarning: something\n\n")
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Empty(t, result.Skipped)
}

func TestParseJSONLines_ErrorObject(t *testing.T) {
	_, err := ParseJSONLines(`{"type":"error","message":"permission denied"}` + "\n")
	require.Error(t, err)
	assert.Equal(t, report.KindTransport, report.KindOf(err))
	assert.Contains(t, err.Error(), "permission denied")
}
