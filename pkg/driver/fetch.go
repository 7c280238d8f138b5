package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// DepsDirName is the per-project cache the fetcher populates.
const DepsDirName = ".glang/deps"

// Fetcher materialises manifest dependencies into the project's dependency
// cache so the loader can resolve load/import paths against them.
type Fetcher struct {
	root string
}

// NewFetcher builds a fetcher for the project rooted at the manifest's
// directory.
func NewFetcher(manifest *Manifest) (*Fetcher, error) {
	if manifest == nil || manifest.Path == "" {
		return nil, fmt.Errorf("fetch: manifest has no path")
	}
	return &Fetcher{root: filepath.Dir(manifest.Path)}, nil
}

// DepsDir returns the cache directory dependencies are fetched into.
func (f *Fetcher) DepsDir() string {
	return filepath.Join(f.root, filepath.FromSlash(DepsDirName))
}

// FetchAll fetches every manifest dependency, in name order, returning one
// log line per dependency. Path dependencies are verified, not copied.
func (f *Fetcher) FetchAll(manifest *Manifest) ([]string, error) {
	names := make([]string, 0, len(manifest.Dependencies))
	for name := range manifest.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	logs := make([]string, 0, len(names))
	for _, name := range names {
		line, err := f.Fetch(name, manifest.Dependencies[name])
		if err != nil {
			return logs, fmt.Errorf("fetch %s: %w", name, err)
		}
		logs = append(logs, line)
	}
	return logs, nil
}

// Fetch materialises one dependency and returns a log line describing what
// happened.
func (f *Fetcher) Fetch(name string, dep *DependencySpec) (string, error) {
	if dep == nil {
		return "", fmt.Errorf("nil dependency spec")
	}
	if dep.Path != "" {
		target := dep.Path
		if !filepath.IsAbs(target) {
			target = filepath.Join(f.root, filepath.FromSlash(dep.Path))
		}
		info, err := os.Stat(target)
		if err != nil {
			return "", fmt.Errorf("path dependency %s: %w", dep.Path, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("path dependency %s is not a directory", dep.Path)
		}
		return fmt.Sprintf("%s: using local path %s", name, target), nil
	}

	dest := filepath.Join(f.DepsDir(), name)
	if _, err := os.Stat(filepath.Join(dest, ".git")); err == nil {
		return fmt.Sprintf("%s: already fetched", name), nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}

	options := &git.CloneOptions{URL: dep.Git, Depth: 1}
	switch {
	case dep.Tag != "":
		options.ReferenceName = plumbing.NewTagReferenceName(dep.Tag)
		options.SingleBranch = true
	case dep.Branch != "":
		options.ReferenceName = plumbing.NewBranchReferenceName(dep.Branch)
		options.SingleBranch = true
	case dep.Rev != "":
		// A specific revision needs full history to resolve the hash.
		options.Depth = 0
	}

	repo, err := git.PlainClone(dest, false, options)
	if err != nil {
		return "", fmt.Errorf("clone %s: %w", dep.Git, err)
	}
	if dep.Rev != "" {
		worktree, err := repo.Worktree()
		if err != nil {
			return "", err
		}
		if err := worktree.Checkout(&git.CheckoutOptions{Hash: plumbing.NewHash(dep.Rev)}); err != nil {
			return "", fmt.Errorf("checkout %s: %w", dep.Rev, err)
		}
	}

	ref := dep.Tag
	if ref == "" {
		ref = dep.Branch
	}
	if ref == "" {
		ref = dep.Rev
	}
	if ref == "" {
		ref = "HEAD"
	}
	return fmt.Sprintf("%s: fetched %s @ %s", name, dep.Git, ref), nil
}
