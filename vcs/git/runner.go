// Package git reads source files as they were at a git revision.
package git

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const gitCommandTimeout = 10 * time.Second

// ErrGit is the mark carried by every failed git invocation.
var ErrGit = errors.New("git command failed")

func runGitCommand(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, gitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoPath

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrText := strings.TrimSpace(stderr.String())
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errors.Mark(errors.Newf("git %s timed out after %s", args[0], gitCommandTimeout), ErrGit)
		}
		if stderrText != "" {
			return nil, errors.Mark(errors.Newf("git %s: %s", args[0], stderrText), ErrGit)
		}
		return nil, errors.Mark(errors.Wrapf(err, "git %s", args[0]), ErrGit)
	}

	return stdout.Bytes(), nil
}

func validateGitRef(ref string) error {
	if ref == "" {
		return errors.New("git reference cannot be empty")
	}
	if strings.HasPrefix(ref, "-") {
		return errors.Newf("git reference cannot start with '-': %q", ref)
	}
	if strings.ContainsAny(ref, "\x00\n\r\t ") {
		return errors.Newf("git reference contains whitespace or NUL: %q", ref)
	}
	return nil
}

func validateGitRelPath(path string) error {
	if path == "" {
		return errors.New("git path cannot be empty")
	}
	if filepath.IsAbs(path) {
		return errors.Newf("git path must be relative: %q", path)
	}
	if strings.Contains(path, "\x00") {
		return errors.Newf("git path contains NUL: %q", path)
	}
	cleaned := filepath.Clean(path)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return errors.Newf("git path escapes repository: %q", path)
	}
	return nil
}
