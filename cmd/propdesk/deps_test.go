package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/propdesk/propdesk/internal/api"
	"github.com/propdesk/propdesk/internal/colors"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/drafts"
	"github.com/propdesk/propdesk/internal/mockapi"
	"github.com/propdesk/propdesk/internal/settings"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// fakeApp wires the commands to a fixture API over HTTP.
type fakeApp struct {
	server *mockapi.Server
	client *api.Client
	store  *settings.Store
	drafts *drafts.Service
	// hooks records hook points in the order they ran.
	hooks   []string
	hookErr map[string]error
}

func newFakeApp(t *testing.T) *fakeApp {
	t.Helper()
	server := mockapi.New()
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	client, err := api.NewClient(ts.URL+mockapi.Prefix, api.WithRetry(0, 0))
	require.NoError(t, err)

	colors.SetOutput(io.Discard, io.Discard)
	t.Cleanup(func() { colors.SetOutput(nil, nil) })

	app := &fakeApp{
		server:  server,
		client:  client,
		store:   settings.NewMemoryStore(nil),
		drafts:  drafts.NewService(client, nil, nil),
		hookErr: map[string]error{},
	}
	origHook := runHook
	runHook = func(point string, env ...string) error {
		app.hooks = append(app.hooks, point)
		return app.hookErr[point]
	}
	t.Cleanup(func() { runHook = origHook })
	return app
}

func (a *fakeApp) API() (*api.Client, error)          { return a.client, nil }

func (a *fakeApp) Settings() (*settings.Store, error) { return a.store, nil }

func (a *fakeApp) Drafts() (*drafts.Service, error)   { return a.drafts, nil }

func execute(t *testing.T, c *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c.SetArgs(args)
	c.SetOut(&out)
	c.SetErr(io.Discard)
	err := c.Execute()
	return out.String(), err
}

func decodeProperties(t *testing.T, out string) []domain.Property {
	t.Helper()
	var props []domain.Property
	require.NoError(t, json.Unmarshal([]byte(out), &props))
	return props
}

func seedNumbered(app *fakeApp, n int) {
	props := make([]domain.Property, n)
	for i := range props {
		props[i] = domain.Property{
			ID:        fmt.Sprintf("p%02d", i+1),
			Reference: fmt.Sprintf("REF-%02d", i+1),
			Title:     fmt.Sprintf("Unit %d", i+1),
			Category:  domain.CategoryResidential,
			Purpose:   domain.PurposeSale,
			Price:     float64(1000 * (i + 1)),
		}
	}
	props[0].Category = domain.CategoryCommercial
	app.server.SeedProperties(props...)
}

func stubReadFile(t *testing.T, files map[string][]byte) {
	t.Helper()
	orig := readFile
	readFile = func(path string) ([]byte, error) {
		if data, ok := files[path]; ok {
			return data, nil
		}
		return nil, os.ErrNotExist
	}
	t.Cleanup(func() { readFile = orig })
}
