package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/animicons/internal/testutil"
)

const testTraceID = "test-trace-cli"

type cliRun struct {
	stdout string
	stderr string
	err    error
}

func (r cliRun) code() int { return GetExitCode(r.err) }

// execute runs the root command with a fixed trace id.
func execute(t *testing.T, args ...string) cliRun {
	t.Helper()
	opts := &RootOptions{IDGenerator: testutil.NewFixedIDGenerator(testTraceID)}
	cmd := NewRootCommandWithOptions(opts)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return cliRun{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// settingsFile writes a settings file whose data_dir is a fresh temp dir.
// extra lines are appended verbatim.
func settingsFile(t *testing.T, extra ...string) string {
	t.Helper()
	dir := t.TempDir()
	lines := append([]string{"data_dir: " + filepath.Join(dir, "data")}, extra...)
	path := filepath.Join(dir, "animicons.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
