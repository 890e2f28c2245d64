package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"migrate", "seed", "version"}, names)

	flag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)
}

func TestVersionCmd_Output(t *testing.T) {
	original := versionInfo
	t.Cleanup(func() { versionInfo = original })

	SetVersion("1.2.3", "abc123", "2026-01-31")

	cmd := NewVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "habitctl 1.2.3")
	assert.Contains(t, out.String(), "Commit: abc123")
	assert.Contains(t, out.String(), "Built:  2026-01-31")
}

func TestSeedCmd_DryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
habits:
  - name: Running
    description: Go for a run
    references: [a person running, a jogger]
  - name: Reading
    description: Read a book
`), 0o600))

	cmd := NewSeedCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--file", path, "--dry-run"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Running (2 references)\nReading (0 references)\n", out.String())
}

func TestSeedCmd_MissingFile(t *testing.T) {
	cmd := NewSeedCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--file", filepath.Join(t.TempDir(), "missing.yaml"), "--dry-run"})

	assert.Error(t, cmd.Execute())
}
