package hooks

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/propdesk/propdesk/internal/colors"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &Runner{
		Dir:          t.TempDir(),
		Enabled:      true,
		FailureMode:  FailureWarn,
		AsyncTimeout: 5 * time.Second,
		MaxAsync:     10,
		Output:       &out,
	}, &out
}

func writeScript(t *testing.T, r *Runner, point, name, body string, mode os.FileMode) {
	t.Helper()
	dir := filepath.Join(r.Dir, point)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body+"\n"), mode))
}

func TestRunWithoutScriptsIsNoop(t *testing.T) {
	r, out := newRunner(t)
	assert.NoError(t, r.Run(PostCreate))
	assert.Empty(t, out.String())

	r.Dir = ""
	assert.NoError(t, r.Run(PostCreate))
}

func TestRunPassesEventEnvironment(t *testing.T) {
	r, out := newRunner(t)
	writeScript(t, r, PostCreate, "10-echo.sh", `echo "$HOOK_POINT $PROPDESK_PROPERTY_ID $PROPDESK_PROPERTY_TITLE"`, 0755)

	err := r.Run(PostCreate, PropertyEnv(domain.Property{ID: "p1", Title: "Marina View"})...)
	require.NoError(t, err)
	assert.Equal(t, "post-create p1 Marina View\n", out.String())
}

func TestRunOrdersScriptsByName(t *testing.T) {
	r, out := newRunner(t)
	writeScript(t, r, DraftSaved, "20-second.sh", "echo second", 0755)
	writeScript(t, r, DraftSaved, "10-first.sh", "echo first", 0755)

	require.NoError(t, r.Run(DraftSaved, DraftEnv("d1")...))
	assert.Equal(t, "first\nsecond\n", out.String())
}

func TestRunSkipsNonExecutableScripts(t *testing.T) {
	r, out := newRunner(t)
	writeScript(t, r, PostUpdate, "notes.txt", "echo nope", 0644)

	require.NoError(t, r.Run(PostUpdate))
	assert.Empty(t, out.String())
}

func TestRunDisabled(t *testing.T) {
	r, out := newRunner(t)
	r.Enabled = false
	writeScript(t, r, PostCreate, "a.sh", "echo ran", 0755)

	require.NoError(t, r.Run(PostCreate))
	assert.Empty(t, out.String())
}

func TestFailureModes(t *testing.T) {
	tests := []struct {
		mode    FailureMode
		wantErr bool
	}{
		{FailureAbort, true},
		{FailureWarn, false},
		{FailureIgnore, false},
		{"bogus", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r, _ := newRunner(t)
			r.FailureMode = tt.mode
			writeScript(t, r, PreSubmit, "a.sh", "exit 3", 0755)
			writeScript(t, r, PreSubmit, "b.sh", "exit 0", 0755)

			err := r.Run(PreSubmit)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "hook a.sh failed")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSilencedRunnerLogsFailures(t *testing.T) {
	var stderr, logs bytes.Buffer
	colors.SetOutput(io.Discard, &stderr)
	t.Cleanup(func() { colors.SetOutput(nil, nil) })

	r, _ := newRunner(t)
	r.Logger = logging.New(&logs, logging.Config{Level: "debug"})
	writeScript(t, r, PostCreate, "a.sh", "echo noisy; exit 1", 0755)

	require.NoError(t, r.Run(PostCreate))
	assert.Contains(t, stderr.String(), "hook a.sh failed")

	stderr.Reset()
	r.Silence()
	require.NoError(t, r.Run(PostCreate))
	assert.Empty(t, stderr.String())
	assert.Contains(t, logs.String(), "hook a.sh failed")
	assert.NotContains(t, logs.String(), "noisy")
}

func TestPayloadEnv(t *testing.T) {
	env := PayloadEnv("", map[string]any{"price": 10})
	assert.Equal(t, []string{"PROPDESK_PROPERTY_ID=", `PROPDESK_PAYLOAD={"price":10}`}, env)
}

func TestAsyncHooksAreAwaited(t *testing.T) {
	r, _ := newRunner(t)
	r.Async = true
	marker := filepath.Join(t.TempDir(), "done")
	writeScript(t, r, PostCreate, "a.sh", "sleep 0.2; touch "+marker, 0755)

	require.NoError(t, r.Run(PostCreate))
	r.Wait()
	assert.Equal(t, 0, r.Pending())
	_, err := os.Stat(marker)
	assert.NoError(t, err)
}

func TestAsyncHookTimeout(t *testing.T) {
	r, _ := newRunner(t)
	r.Async = true
	r.AsyncTimeout = 100 * time.Millisecond
	writeScript(t, r, PostCreate, "slow.sh", "sleep 5", 0755)

	start := time.Now()
	require.NoError(t, r.Run(PostCreate))
	r.Wait()
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestMaxAsyncSkipsExtraScripts(t *testing.T) {
	r, _ := newRunner(t)
	r.Async = true
	r.MaxAsync = 1
	marker := filepath.Join(t.TempDir(), "count")
	writeScript(t, r, PostCreate, "a.sh", "sleep 0.3; echo a >> "+marker, 0755)
	writeScript(t, r, PostCreate, "b.sh", "echo b >> "+marker, 0755)

	require.NoError(t, r.Run(PostCreate))
	r.Wait()
	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, strings.Fields(string(data)))
}
