package main

import (
	"strings"
	"testing"

	"github.com/propdesk/propdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftSaveResumeAndSubmit(t *testing.T) {
	app := newFakeApp(t)
	stubReadFile(t, map[string][]byte{"noc.pdf": []byte("%PDF")})

	out, err := execute(t, NewCreateCmd(app), "--category", "residential", "--purpose", "sale", "--noc", "noc.pdf",
		"--set", "propertyTitle=Half done", "--draft")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	d, ok := app.server.Draft(id)
	require.True(t, ok)
	assert.Equal(t, "Half done", d.Data["propertyTitle"])
	assert.Empty(t, app.server.Properties())

	listOut, err := execute(t, NewDraftCmd(app), "list", "--format=json")
	require.NoError(t, err)
	assert.Contains(t, listOut, id)

	_, err = execute(t, NewDraftCmd(app), "resume", id, "--set", "location=JVC", "--set", "price=500000", "--submit")
	require.NoError(t, err)

	props := app.server.Properties()
	require.Len(t, props, 1)
	assert.Equal(t, "Half done", props[0].Title)
	assert.Equal(t, "JVC", props[0].Location)
	_, ok = app.server.Draft(id)
	assert.False(t, ok, "submitted draft should be deleted")
	assert.Equal(t, []string{"draft-saved", "pre-submit", "post-create", "draft-deleted"}, app.hooks)
}

func TestDraftResumeWithoutSubmitUpdatesDraft(t *testing.T) {
	app := newFakeApp(t)
	app.server.SeedDrafts(domain.Draft{ID: "d1", Data: map[string]any{"propertyTitle": "Old"}})

	out, err := execute(t, NewDraftCmd(app), "resume", "d1", "--set", "propertyTitle=New")
	require.NoError(t, err)
	assert.Equal(t, "d1", strings.TrimSpace(out))

	d, ok := app.server.Draft("d1")
	require.True(t, ok)
	assert.Equal(t, "New", d.Data["propertyTitle"])
}

func TestDraftRm(t *testing.T) {
	app := newFakeApp(t)
	app.server.SeedDrafts(domain.Draft{ID: "d1", Data: map[string]any{}})

	_, err := execute(t, NewDraftCmd(app), "rm", "d1")
	require.NoError(t, err)
	_, ok := app.server.Draft("d1")
	assert.False(t, ok)
	assert.Equal(t, []string{"draft-deleted"}, app.hooks)
}
