// Package publish pushes generated artifacts to a git remote. It shells out
// to the git binary through a small Runner abstraction so the sequence of
// invocations stays unit-testable without a repository. Credentials, remote
// URLs, and branch setup are git's concern, not this package's.
package publish

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/lc/hostip/internal/log"
)

// Runner executes an external command and returns an error on non-zero exit.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

var _ Runner = ExecRunner{}

// ExecRunner runs commands with os/exec, folding combined output into the
// returned error so callers get git's stderr in their logs.
type ExecRunner struct{}

// Run executes name with args and waits for completion.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
		}
		return fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
	}
	return nil
}

// Config holds the publish settings, mirroring the git section of the
// application configuration.
type Config struct {
	Dir    string   // repository working directory
	Remote string   // optional remote name for git push
	Branch string   // optional branch for git push; requires Remote
	Files  []string // artifact paths to stage, relative to Dir
}

// Publisher stages, commits, and pushes artifacts.
type Publisher struct {
	runner Runner
	cfg    Config
}

// New creates a Publisher that invokes git through runner.
func New(runner Runner, cfg Config) *Publisher {
	return &Publisher{runner: runner, cfg: cfg}
}

// Publish stages the configured files, commits them with msg, and pushes.
// When staging produces no change against HEAD the commit and push are
// skipped and Publish succeeds. Any git failure is returned for the caller
// to treat as it sees fit; local artifacts are already on disk either way.
func (p *Publisher) Publish(ctx context.Context, msg string) error {
	addArgs := append(p.git("add", "--"), p.cfg.Files...)
	if err := p.runner.Run(ctx, "git", addArgs...); err != nil {
		return fmt.Errorf("staging artifacts: %w", err)
	}

	// diff --cached --quiet exits 0 when nothing is staged.
	if err := p.runner.Run(ctx, "git", p.git("diff", "--cached", "--quiet")...); err == nil {
		log.Debug("publish: no changes staged, skipping commit")
		return nil
	}

	if err := p.runner.Run(ctx, "git", p.git("commit", "-m", msg)...); err != nil {
		return fmt.Errorf("committing artifacts: %w", err)
	}

	pushArgs := p.git("push")
	if p.cfg.Remote != "" {
		pushArgs = append(pushArgs, p.cfg.Remote)
		if p.cfg.Branch != "" {
			pushArgs = append(pushArgs, p.cfg.Branch)
		}
	}
	if err := p.runner.Run(ctx, "git", pushArgs...); err != nil {
		return fmt.Errorf("pushing artifacts: %w", err)
	}

	return nil
}

// git prefixes args with the working-directory selector.
func (p *Publisher) git(args ...string) []string {
	return append([]string{"-C", p.cfg.Dir}, args...)
}
