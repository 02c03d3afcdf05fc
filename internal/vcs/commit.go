// Package vcs makes best-effort progress commits in the workspace while the
// loop runs. Failures never interrupt the session.
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// commandTimeout bounds every git invocation.
const commandTimeout = 30 * time.Second

// run executes git with the given arguments in dir.
func run(ctx context.Context, dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return strings.TrimSpace(out.String()), err
}

// HasChanges reports whether the worktree has anything to commit.
func HasChanges(ctx context.Context, dir string) bool {
	out, err := run(ctx, dir, "status", "--porcelain")
	return err == nil && out != ""
}

// CommitProgress stages everything and commits with a loop-stamped message.
// Returns an error only for the caller to log; a clean worktree is not an
// error.
func CommitProgress(ctx context.Context, dir string, loop int) error {
	if !HasChanges(ctx, dir) {
		return nil
	}
	if _, err := run(ctx, dir, "add", "-A"); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	msg := fmt.Sprintf("checkpoint: loop %d progress", loop)
	if out, err := run(ctx, dir, "commit", "-m", msg); err != nil {
		return fmt.Errorf("git commit: %w (%s)", err, out)
	}
	return nil
}
