package colors

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	entries []string
}

func (r *recordingLogger) Debug(msg string, args ...any) { r.entries = append(r.entries, "debug:"+msg) }
func (r *recordingLogger) Info(msg string, args ...any)  { r.entries = append(r.entries, "info:"+msg) }
func (r *recordingLogger) Warn(msg string, args ...any)  { r.entries = append(r.entries, "warn:"+msg) }
func (r *recordingLogger) Error(msg string, args ...any) { r.entries = append(r.entries, "error:"+msg) }

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	t.Cleanup(func() { SetOutput(nil, nil) })
	return &out, &errOut
}

func TestErrorAndWarningGoToStderr(t *testing.T) {
	out, errOut := captureOutput(t)

	Error("draft", "not", "found")
	Warning("retrying")

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Error:")
	assert.Contains(t, errOut.String(), "draft not found")
	assert.Contains(t, errOut.String(), "Warning:")
}

func TestInfoAndSuccessRespectQuiet(t *testing.T) {
	out, _ := captureOutput(t)

	Info("loaded 10 properties")
	Success("draft saved")
	assert.Contains(t, out.String(), "loaded 10 properties")
	assert.Contains(t, out.String(), checkmark+" draft saved")

	out.Reset()
	SetQuiet(true)
	defer SetQuiet(false)
	Info("hidden")
	Success("hidden")
	assert.Empty(t, out.String())
}

func TestDebugIsGated(t *testing.T) {
	_, errOut := captureOutput(t)

	SetDebug(false)
	Debug("invisible")
	assert.Empty(t, errOut.String())

	SetDebug(true)
	defer SetDebug(false)
	Debug("visible")
	assert.Contains(t, errOut.String(), "visible")
}

func TestMessagesMirrorToLogger(t *testing.T) {
	captureOutput(t)
	rec := &recordingLogger{}
	SetLogger(rec)
	defer SetLogger(nil)

	Error("boom")
	Warning("careful")
	Success("done")

	assert.Equal(t, []string{"error:boom", "warn:careful", "info:done"}, rec.entries)
}

func TestStructuredDebugIsGatedByDebugMode(t *testing.T) {
	_, errOut := captureOutput(t)
	EnableStructuredLogging()
	SetDebug(false)
	defer SetDebug(false)

	StructuredDebug("listing", "fetch_page", "skipped", nil, "", nil)
	assert.Empty(t, errOut.String())

	SetDebug(true)
	StructuredDebug("listing", "fetch_page", "written", nil, "", map[string]interface{}{"page": 2})
	assert.True(t, strings.Contains(errOut.String(), `"level":"debug"`), errOut.String())
	assert.Contains(t, errOut.String(), `"component":"listing"`)
}

func TestStructuredLoggingCanBeDisabled(t *testing.T) {
	_, errOut := captureOutput(t)
	SetDebug(true)
	defer SetDebug(false)
	DisableStructuredLogging()
	defer EnableStructuredLogging()

	StructuredInfo("tui", "start", "skipped", nil, "", nil)
	assert.Empty(t, errOut.String())
}
