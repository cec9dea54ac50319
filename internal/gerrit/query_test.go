package gerrit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery_String(t *testing.T) {
	tests := []struct {
		name  string
		query *Query
		want  string
	}{
		{
			name:  "owner and project",
			query: NewQuery().Field("owner", "jdoe@redhat.com").Project("openstack/nova"),
			want:  "owner:jdoe@redhat.com AND project:openstack/nova",
		},
		{
			name:  "value with spaces",
			query: NewQuery().Field("message", `fix "the" bug`),
			want:  `message:"fix \"the\" bug"`,
		},
		{
			name:  "empty value",
			query: NewQuery().Field("topic", ""),
			want:  `topic:""`,
		},
		{
			name:  "no terms",
			query: NewQuery(),
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.String())
		})
	}
}

func TestQuery_Command(t *testing.T) {
	q := NewQuery().Field("reviewer", "jdoe@redhat.com").Project("openstack/nova")
	assert.Equal(t,
		"gerrit query --format=JSON 'reviewer:jdoe@redhat.com AND project:openstack/nova'",
		q.Command())

	q = NewQuery().Field("message", "don't")
	assert.Equal(t, `gerrit query --format=JSON 'message:"don'\''t"'`, q.Command())
}
