package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Afrawles/weekly/internal/report"
)

const testConfig = `teams:
  compute:
    projects: [openstack-nova]
    people: [jdoe]
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weekly.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0644))
	return path
}

func TestBugsCommand_UnknownTeam(t *testing.T) {
	cmd := NewBugsCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--debug", "--config", writeConfig(t), "storage"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, report.ErrUnknownTeam)
	assert.Empty(t, stdout.String())
}

func TestReviewsCommand_NoGerritProjects(t *testing.T) {
	cmd := NewReviewsCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--debug", "--config", writeConfig(t), "compute"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, report.KindConfig, report.KindOf(err))
	assert.Contains(t, err.Error(), "no gerrit projects configured")
}

func TestCommand_RequiresTeam(t *testing.T) {
	cmd := NewBugsCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())

	cmd = NewReviewsCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"a", "b"})
	assert.Error(t, cmd.Execute())
}

func TestCommand_MissingConfig(t *testing.T) {
	cmd := NewBugsCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--debug", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "compute"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, report.KindConfig, report.KindOf(err))
}

func TestCommand_Flags(t *testing.T) {
	bugs := NewBugsCommand()
	for _, name := range []string{"debug", "days", "config", "xlsx", "csv", "untriaged-all", "cookie", "api-key"} {
		assert.NotNil(t, bugs.Flags().Lookup(name), name)
	}
	assert.Equal(t, "7", bugs.Flags().Lookup("days").DefValue)

	reviews := NewReviewsCommand()
	assert.NotNil(t, reviews.Flags().Lookup("days"))
	assert.Nil(t, reviews.Flags().Lookup("untriaged-all"))
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, errors.New(`team "storage": team not in the configuration`))

	out := buf.String()
	assert.Contains(t, out, "ERROR:")
	assert.Contains(t, out, `team "storage": team not in the configuration`)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}
