package packaging

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	shellquote "github.com/kballard/go-shellquote"

	"github.com/LegacyCodeHQ/implgen/internal/logging"
)

const defaultJavac = "javac"

// Compiler invokes javac.
type Compiler struct {
	// Javac is the compiler executable; "javac" on PATH when empty.
	Javac string
	// SourcePath lists source roots javac may read referenced types from.
	SourcePath []string
	// ClassPath lists class roots and jars javac may read referenced types from.
	ClassPath []string
	// Flags holds extra javac arguments in shell syntax, e.g. `--release 17 -Xlint:none`.
	Flags string
}

// Compile compiles the given source files into outDir.
func (c Compiler) Compile(ctx context.Context, outDir string, sources ...string) error {
	args, err := c.args(outDir, sources)
	if err != nil {
		return err
	}

	javac := c.Javac
	if javac == "" {
		javac = defaultJavac
	}

	logging.Debug("running javac", map[string]any{"javac": javac, "args": strings.Join(args, " ")})

	cmd := exec.CommandContext(ctx, javac, args...)
	var stderr bytes.Buffer
	cmd.Stdout = &stderr
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		wrapped := errors.Mark(errors.Wrapf(err, "%s failed", javac), ErrCompilationFailed)
		if diagnostics := strings.TrimSpace(stderr.String()); diagnostics != "" {
			wrapped = errors.WithDetail(wrapped, diagnostics)
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			wrapped = errors.WithHint(wrapped, "install a JDK or point --javac at the compiler")
		}
		return wrapped
	}
	return nil
}

func (c Compiler) args(outDir string, sources []string) ([]string, error) {
	args := []string{"-d", outDir, "-encoding", "UTF-8", "-implicit:none"}
	if len(c.SourcePath) > 0 {
		args = append(args, "-sourcepath", strings.Join(c.SourcePath, string(filepath.ListSeparator)))
	}
	if len(c.ClassPath) > 0 {
		args = append(args, "-classpath", strings.Join(c.ClassPath, string(filepath.ListSeparator)))
	}
	if c.Flags != "" {
		extra, err := shellquote.Split(c.Flags)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid javac flags %q", c.Flags)
		}
		args = append(args, extra...)
	}
	return append(args, sources...), nil
}
