package loader

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/LegacyCodeHQ/implgen/internal/logging"
	"github.com/LegacyCodeHQ/implgen/loader/javasrc"
	"github.com/LegacyCodeHQ/implgen/loader/manifest"
	"github.com/LegacyCodeHQ/implgen/typegraph"
	"github.com/LegacyCodeHQ/implgen/typemodel"
	"github.com/LegacyCodeHQ/implgen/vcs"
	"github.com/LegacyCodeHQ/implgen/vcs/git"
)

// ErrNoInputs is returned when neither source roots nor manifests are configured.
var ErrNoInputs = errors.New("no type inputs")

// Inputs names where type metadata is read from.
type Inputs struct {
	SourceRoots []string
	Manifests   []string
	// Revision, when set, reads sources and manifests as committed at this git revision
	// instead of from the working copy.
	Revision string
	// Reader reads file content; nil means the filesystem.
	Reader vcs.ContentReader
}

// Load reads every configured input and builds the type graph.
func Load(ctx context.Context, in Inputs) (*typegraph.Graph, error) {
	types, err := Descriptors(ctx, in)
	if err != nil {
		return nil, err
	}
	return typegraph.Build(types)
}

// Descriptors reads every configured input without building a graph.
func Descriptors(ctx context.Context, in Inputs) ([]*typemodel.TypeDescriptor, error) {
	if len(in.SourceRoots) == 0 && len(in.Manifests) == 0 {
		return nil, errors.WithHint(ErrNoInputs, "Pass --source <dir> and/or --manifest <file.yaml>.")
	}

	reader := in.Reader
	if reader == nil {
		reader = vcs.FilesystemContentReader()
	}
	discover := Discover

	if in.Revision != "" {
		rev, err := git.OpenRevision(ctx, repoAnchor(in), in.Revision)
		if err != nil {
			return nil, err
		}
		reader = rev.ContentReader(ctx)
		discover = func(roots []string) ([]string, error) {
			return discoverAtRevision(ctx, rev, roots)
		}
	}

	var types []*typemodel.TypeDescriptor

	if len(in.SourceRoots) > 0 {
		files, err := discover(in.SourceRoots)
		if err != nil {
			return nil, err
		}
		logging.Debug("discovered java sources", map[string]any{"roots": in.SourceRoots, "files": len(files)})

		fromSource, err := javasrc.NewLoader(reader).Load(ctx, files)
		if err != nil {
			return nil, err
		}
		types = append(types, fromSource...)
	}

	if len(in.Manifests) > 0 {
		fromManifest, err := manifest.Load(reader, in.Manifests...)
		if err != nil {
			return nil, err
		}
		types = append(types, fromManifest...)
	}

	return types, nil
}

// repoAnchor picks a directory inside the repository the inputs live in.
func repoAnchor(in Inputs) string {
	paths := append(append([]string{}, in.SourceRoots...), in.Manifests...)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if info.IsDir() {
			return p
		}
		return filepath.Dir(p)
	}
	return "."
}

func discoverAtRevision(ctx context.Context, rev *git.Revision, roots []string) ([]string, error) {
	files, err := rev.Files(ctx, roots...)
	if err != nil {
		return nil, err
	}

	var java []string
	for _, f := range files {
		if filepath.Ext(f) != JavaExt || inSkippedDir(rev.Root(), f) {
			continue
		}
		java = append(java, f)
	}
	sort.Strings(java)
	return java, nil
}

func inSkippedDir(root, path string) bool {
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || rel == "." {
		return false
	}
	for _, dir := range strings.Split(filepath.ToSlash(rel), "/") {
		if IsSkippedDir(dir) {
			return true
		}
	}
	return false
}
