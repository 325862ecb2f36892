package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/propdesk/propdesk/internal/colors"
	"github.com/stretchr/testify/assert"
)

func captureStructured(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	colors.SetOutput(&buf, &buf)
	colors.EnableStructuredLogging()
	colors.SetDebug(true)
	defer func() {
		colors.SetOutput(nil, nil)
		colors.EnableStructuredLogging()
		colors.SetDebug(false)
	}()
	fn()
	return buf.String()
}

func TestRunLogsStartupAndCompletion(t *testing.T) {
	var exitCode int
	output := captureStructured(t, func() {
		exitCode = run([]string{"list"}, func() error { return nil })
	})

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, output, `"component":"startup"`)
	assert.Contains(t, output, `"status":"started"`)
	assert.Contains(t, output, `"status":"completed"`)
}

func TestRunLogsFailure(t *testing.T) {
	var exitCode int
	output := captureStructured(t, func() {
		exitCode = run([]string{"list"}, func() error { return errors.New("boom") })
	})

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, output, `"status":"failed"`)
	assert.Contains(t, output, `"error":"boom"`)
}

func TestRunInteractiveSkipsStructuredLogs(t *testing.T) {
	var exitCode int
	output := captureStructured(t, func() {
		exitCode = run([]string{"browse"}, func() error { return nil })
	})

	assert.Equal(t, 0, exitCode)
	assert.Empty(t, output)
}

func TestInteractive(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"browse"}, true},
		{[]string{"create"}, true},
		{[]string{"create", "--category", "land"}, false},
		{[]string{"edit", "p1"}, true},
		{[]string{"edit", "p1", "--set", "price=1"}, false},
		{[]string{"list"}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, interactive(tt.args), "%v", tt.args)
	}
}
