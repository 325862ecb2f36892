package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/propdesk/propdesk/cmd"
	"github.com/propdesk/propdesk/internal/colors"
	"github.com/propdesk/propdesk/internal/logging"
	"github.com/propdesk/propdesk/internal/mockapi"
	"github.com/propdesk/propdesk/internal/search"
	"github.com/spf13/cobra"
)

const mockAPICommandLong = `Serve a local fixture API.

USAGE:
    propdesk mock-api [OPTIONS]

OPTIONS:
    --addr <host:port>    Listen address (default 127.0.0.1:8787)
    --seed <n>            Fixture seed; the same seed gives the same data
    --empty               Start without fixtures
    --search <mode>       How ?search= matches: substring, token, regex
    -h, --help            Show this help

Point the other commands at it with --api-url or PROPDESK_API_BASE_URL.`

const shutdownTimeout = 5 * time.Second

type mockAPIOptions struct {
	addr   string
	seed   int64
	empty  bool
	search string
}

// NewMockAPICmd creates the mock-api command.
func NewMockAPICmd() *cobra.Command {
	var opts mockAPIOptions
	mockCmd := &cobra.Command{
		Use:   "mock-api",
		Short: "Serve a local fixture API",
		Long:  mockAPICommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := search.New(opts.search); err != nil {
				return err
			}
			ln, err := net.Listen("tcp", opts.addr)
			if err != nil {
				return fmt.Errorf("mock-api: %w", err)
			}
			return serveMockAPI(commandContext(cmd), ln, opts)
		},
	}
	mockCmd.Flags().StringVar(&opts.addr, "addr", "127.0.0.1:8787", "Listen address")
	mockCmd.Flags().Int64Var(&opts.seed, "seed", 1, "Fixture seed")
	mockCmd.Flags().BoolVar(&opts.empty, "empty", false, "Start without fixtures")
	mockCmd.Flags().StringVar(&opts.search, "search", "substring", "Search mode: substring, token, regex")
	return mockCmd
}

// serveMockAPI serves until ctx is cancelled.
func serveMockAPI(ctx context.Context, ln net.Listener, opts mockAPIOptions) error {
	provider, err := search.New(opts.search)
	if err != nil {
		return err
	}
	server := mockapi.New(
		mockapi.WithLogger(logging.With("component", "mock-api")),
		mockapi.WithSearch(provider),
	)
	if !opts.empty {
		server.Seed(opts.seed)
	}

	srv := &http.Server{
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	colors.Info(fmt.Sprintf("Mock API listening on http://%s%s", ln.Addr(), mockapi.Prefix))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("mock-api shutdown: %w", err)
	}
	colors.Info("Mock API stopped")
	return nil
}

func init() {
	cmd.RootCmd.AddCommand(NewMockAPICmd())
}
