// Package hooks runs user scripts when properties and drafts change.
//
// Scripts live in <hooks_dir>/<hook point>/ and run in name order. Only
// executable files are run. Event details reach the scripts as
// environment variables prefixed with PROPDESK_.
package hooks

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/propdesk/propdesk/internal/colors"
	"github.com/propdesk/propdesk/internal/config"
	"github.com/propdesk/propdesk/internal/logging"
)

// Hook points.
const (
	// PreSubmit runs before a property is created or updated. In abort
	// mode a failing script cancels the submission.
	PreSubmit    = "pre-submit"
	PostCreate   = "post-create"
	PostUpdate   = "post-update"
	DraftSaved   = "draft-saved"
	DraftDeleted = "draft-deleted"
)

// FailureMode says what a failing script does to the caller.
type FailureMode string

const (
	FailureAbort  FailureMode = "abort"
	FailureWarn   FailureMode = "warn"
	FailureIgnore FailureMode = "ignore"
)

// Runner executes hook scripts.
type Runner struct {
	Dir          string
	Enabled      bool
	FailureMode  FailureMode
	Async        bool
	AsyncTimeout time.Duration
	MaxAsync     int
	// Output receives script output and progress lines.
	Output io.Writer
	// Logger receives failure warnings while the runner is silenced.
	Logger logging.Logger

	mu      sync.Mutex
	silent  bool
	pending int
	wg      sync.WaitGroup
}

// FromConfig builds a runner from the loaded configuration.
func FromConfig() *Runner {
	return &Runner{
		Dir:          config.Get("hooks_dir", ""),
		Enabled:      config.GetBool("hooks_enabled", true),
		FailureMode:  FailureMode(config.Get("hooks_failure_mode", string(FailureWarn))),
		Async:        config.GetBool("hooks_async", false),
		AsyncTimeout: config.GetDuration("hooks_async_timeout", time.Second, 30*time.Second),
		MaxAsync:     config.GetInt("hooks_max_async", 10),
		Output:       os.Stderr,
		Logger:       logging.With("component", "hooks"),
	}
}

// Silence keeps the terminal clear while a full-screen view is open.
// Script output is dropped and failures only reach the log file.
func (r *Runner) Silence() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.silent = true
	r.Output = io.Discard
}

func (r *Runner) warn(msg string) {
	r.mu.Lock()
	silent := r.silent
	r.mu.Unlock()
	if !silent {
		colors.Warning(msg)
		return
	}
	if r.Logger != nil {
		r.Logger.Warn(msg)
	}
}

var (
	defaultRunner *Runner
	defaultOnce   sync.Once
)

// Default returns the process-wide runner, built from the configuration
// on first use.
func Default() *Runner {
	defaultOnce.Do(func() {
		defaultRunner = FromConfig()
	})
	return defaultRunner
}

// Run runs point on the default runner. env entries are KEY=VALUE.
func Run(point string, env ...string) error {
	return Default().Run(point, env...)
}

// Shutdown waits for async hooks started by the default runner.
func Shutdown() {
	if defaultRunner != nil {
		defaultRunner.Wait()
	}
}

type script struct {
	path string
	name string
}

func (r *Runner) scripts(point string) []script {
	if !r.Enabled || r.Dir == "" {
		return nil
	}
	dir := filepath.Join(r.Dir, point)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []script
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path)
		if err != nil || info.Mode()&0111 == 0 {
			continue
		}
		out = append(out, script{path: path, name: e.Name()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func (r *Runner) environ(point string, env []string) []string {
	out := append(os.Environ(),
		"HOOK_POINT="+point,
		"HOOK_TIMESTAMP="+time.Now().Format(time.RFC3339),
		"PROPDESK_HOOKS_FAILURE_MODE="+string(r.mode()),
	)
	if exe, err := os.Executable(); err == nil {
		out = append(out, "PROPDESK_BINARY="+exe)
	}
	for _, kv := range env {
		if strings.Contains(kv, "=") {
			out = append(out, kv)
		}
	}
	return out
}

func (r *Runner) mode() FailureMode {
	switch r.FailureMode {
	case FailureAbort, FailureIgnore:
		return r.FailureMode
	default:
		return FailureWarn
	}
}

func (r *Runner) output() io.Writer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Output == nil {
		return io.Discard
	}
	return r.Output
}

// Run executes the scripts for point. It only returns an error in abort
// mode, for the first failing synchronous script.
func (r *Runner) Run(point string, env ...string) error {
	scripts := r.scripts(point)
	if len(scripts) == 0 {
		return nil
	}
	colors.Debug(fmt.Sprintf("running %s hooks (%d script(s))", point, len(scripts)))
	environ := r.environ(point, env)

	for _, s := range scripts {
		if r.Async {
			r.startAsync(s, environ)
			continue
		}
		if err := r.runSync(s, environ); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runSync(s script, environ []string) error {
	start := time.Now()
	cmd := exec.Command(s.path)
	cmd.Env = environ
	output, err := cmd.CombinedOutput()
	if len(output) > 0 {
		_, _ = r.output().Write(output)
	}
	if err == nil {
		colors.Debug(fmt.Sprintf("hook %s completed in %.2fs", s.name, time.Since(start).Seconds()))
		return nil
	}
	switch r.mode() {
	case FailureAbort:
		return fmt.Errorf("hook %s failed: %w", s.name, err)
	case FailureWarn:
		r.warn(fmt.Sprintf("hook %s failed: %v", s.name, err))
	}
	return nil
}

func (r *Runner) startAsync(s script, environ []string) {
	r.mu.Lock()
	if r.MaxAsync > 0 && r.pending >= r.MaxAsync {
		r.mu.Unlock()
		r.warn(fmt.Sprintf("too many async hooks pending (max: %d), skipping %s", r.MaxAsync, s.name))
		return
	}
	r.pending++
	r.wg.Add(1)
	r.mu.Unlock()

	timeout := r.AsyncTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	cmd := exec.CommandContext(ctx, s.path)
	cmd.Env = environ
	cmd.Stdout = r.output()
	cmd.Stderr = r.output()
	cmd.WaitDelay = time.Second

	done := func() {
		cancel()
		r.mu.Lock()
		r.pending--
		r.mu.Unlock()
		r.wg.Done()
	}
	if err := cmd.Start(); err != nil {
		if r.mode() != FailureIgnore {
			r.warn(fmt.Sprintf("async hook %s failed to start: %v", s.name, err))
		}
		done()
		return
	}

	go func() {
		defer done()
		err := cmd.Wait()
		if ctx.Err() == context.DeadlineExceeded {
			r.warn(fmt.Sprintf("async hook %s timed out after %s", s.name, timeout))
			return
		}
		if err != nil && r.mode() != FailureIgnore {
			r.warn(fmt.Sprintf("async hook %s failed: %v", s.name, err))
		}
	}()
}

// Pending returns the number of async hooks still running.
func (r *Runner) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// Wait blocks until every async hook has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}
