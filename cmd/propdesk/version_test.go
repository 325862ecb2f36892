package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, NewVersionCmd())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "propdesk version "))
}

func TestNilClientPanics(t *testing.T) {
	assert.Panics(t, func() { NewListCmd(nil) })
	assert.Panics(t, func() { NewCreateCmd(nil) })
	assert.Panics(t, func() { NewSettingsCmd(nil) })
}
