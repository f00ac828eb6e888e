package git

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/LegacyCodeHQ/implgen/vcs"
)

// Revision is a commit of a repository whose tree is read instead of the working copy.
// Paths passed in and returned are absolute working-copy paths.
type Revision struct {
	root string
	rev  string
}

// OpenRevision resolves the repository containing repoPath and checks that rev names a commit.
func OpenRevision(ctx context.Context, repoPath, rev string) (*Revision, error) {
	if err := validateGitRef(rev); err != nil {
		return nil, err
	}

	out, err := runGitCommand(ctx, repoPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "%s is not inside a git repository", repoPath),
			"--revision reads sources from git history; run it inside a repository.")
	}
	root := strings.TrimSpace(string(out))

	if _, err := runGitCommand(ctx, root, "rev-parse", "--verify", "--quiet", rev+"^{commit}"); err != nil {
		return nil, errors.Wrapf(err, "invalid commit reference %q", rev)
	}

	return &Revision{root: root, rev: rev}, nil
}

// Root returns the repository's top-level directory.
func (r *Revision) Root() string {
	return r.root
}

// Files lists the files under paths in the revision's tree.
func (r *Revision) Files(ctx context.Context, paths ...string) ([]string, error) {
	args := []string{"ls-tree", "-r", "--name-only", r.rev, "--"}
	for _, p := range paths {
		rel, err := r.relative(p)
		if err != nil {
			return nil, err
		}
		args = append(args, rel)
	}

	out, err := runGitCommand(ctx, r.root, args...)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, filepath.Join(r.root, filepath.FromSlash(line)))
		}
	}
	return files, nil
}

// ContentReader reads files as they are in the revision's tree.
func (r *Revision) ContentReader(ctx context.Context) vcs.ContentReader {
	return func(filePath string) ([]byte, error) {
		rel, err := r.relative(filePath)
		if err != nil {
			return nil, err
		}
		return runGitCommand(ctx, r.root, "show", r.rev+":"+rel)
	}
}

// relative converts a working-copy path into a slash-separated path from the repository root.
func (r *Revision) relative(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", path)
	}
	abs = evalSymlinksBestEffort(abs)
	root := evalSymlinksBestEffort(r.root)

	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", errors.Wrapf(err, "%s is outside the repository", path)
	}
	if rel == "." {
		return ".", nil
	}
	if err := validateGitRelPath(rel); err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// evalSymlinksBestEffort resolves symlinks in the longest existing prefix of path, so files
// deleted from the working copy still map into the repository.
func evalSymlinksBestEffort(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	parent := filepath.Dir(path)
	if parent == path {
		return path
	}
	return filepath.Join(evalSymlinksBestEffort(parent), filepath.Base(path))
}
