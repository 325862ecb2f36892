package main

import (
	"io"
	"strings"
	"testing"

	"github.com/propdesk/propdesk/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsPinShowAndReset(t *testing.T) {
	app := newFakeApp(t)

	_, err := execute(t, NewSettingsCmd(app), "pin", "Vault")
	require.NoError(t, err)
	assert.True(t, app.store.IsPinned(settings.NavVault))

	_, err = execute(t, NewSettingsCmd(app), "pin", "nowhere")
	assert.EqualError(t, err, "unknown item: nowhere")

	out, err := execute(t, NewSettingsCmd(app), "show")
	require.NoError(t, err)
	assert.Regexp(t, `pinned = \[.vault.\]`, out)

	_, err = execute(t, NewSettingsCmd(app), "unpin", "vault")
	require.NoError(t, err)
	assert.False(t, app.store.IsPinned(settings.NavVault))

	require.NoError(t, app.store.Pin(settings.NavDrafts))
	_, err = execute(t, NewSettingsCmd(app), "reset", "--force")
	require.NoError(t, err)
	assert.False(t, app.store.IsPinned(settings.NavDrafts))
}

func TestConfirmReset(t *testing.T) {
	assert.True(t, confirmReset(strings.NewReader("yes\n"), io.Discard))
	assert.True(t, confirmReset(strings.NewReader("Y"), io.Discard))
	assert.False(t, confirmReset(strings.NewReader("\n"), io.Discard))
	assert.False(t, confirmReset(strings.NewReader(""), io.Discard))
}
