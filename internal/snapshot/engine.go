// Package snapshot holds the in-memory Merkle snapshot of a tracked
// directory and diffs later rescans against it.
//
// An Engine is not safe for concurrent use; callers serialize Build and Diff.
package snapshot

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"merkle-snap/internal/compare"
	"merkle-snap/internal/fsys"
	"merkle-snap/internal/hash"
	"merkle-snap/internal/tree"
	"merkle-snap/internal/walker"
)

var (
	ErrDirectoryUnavailable = errors.New("directory unavailable")
	ErrFileUnreadable       = errors.New("file unreadable")
	ErrNoSnapshotAvailable  = errors.New("no snapshot available")
)

type Engine struct {
	fs         fsys.FS
	dir        string
	digest     hash.Func
	exclusions []string
	removals   bool

	current *tree.Node
}

type Option func(*Engine)

// WithHasher replaces the default SHA-256 digest.
func WithHasher(fn hash.Func) Option {
	return func(e *Engine) {
		if fn != nil {
			e.digest = fn
		}
	}
}

// WithExclusions skips file names matching any of the glob patterns.
func WithExclusions(patterns []string) Option {
	return func(e *Engine) {
		e.exclusions = append([]string(nil), patterns...)
	}
}

// WithRemovals makes Diff report files that were snapshotted but have since
// disappeared. Off by default.
func WithRemovals(enabled bool) Option {
	return func(e *Engine) {
		e.removals = enabled
	}
}

func New(fs fsys.FS, dir string, opts ...Option) *Engine {
	e := &Engine{
		fs:     fs,
		dir:    dir,
		digest: hash.Digest,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Build scans the tracked directory and replaces the stored snapshot. On
// error the previous snapshot is kept.
func (e *Engine) Build() error {
	leaves, err := e.scan()
	if err != nil {
		return err
	}

	root := tree.Build(leaves, e.digest)
	e.current = &root
	return nil
}

// Diff rescans the tracked directory and classifies every file against the
// stored snapshot. It never modifies the snapshot.
func (e *Engine) Diff() (*compare.Report, error) {
	if e.current == nil {
		return nil, ErrNoSnapshotAvailable
	}
	stored := *e.current

	leaves, err := e.scan()
	if err != nil {
		return nil, err
	}

	return &compare.Report{
		Changes:     compare.Compare(stored, leaves, e.removals),
		StoredRoot:  stored.Digest,
		CurrentRoot: tree.RootDigest(leaves, e.digest),
		Tree:        tree.Render(stored),
	}, nil
}

// Snapshot returns a copy of the stored tree, if any.
func (e *Engine) Snapshot() (tree.Node, bool) {
	if e.current == nil {
		return tree.Node{}, false
	}
	return e.current.Clone(), true
}

// scan returns one leaf per tracked file, sorted by name.
func (e *Engine) scan() ([]tree.Node, error) {
	files, err := walker.Walk(e.fs, e.dir, e.exclusions)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDirectoryUnavailable, e.dir, err)
	}

	leaves := make([]tree.Node, 0, len(files))
	for _, f := range files {
		data, err := e.fs.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFileUnreadable, f.Name, err)
		}
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("%w: %s: content is not valid UTF-8 text", ErrFileUnreadable, f.Name)
		}
		leaves = append(leaves, tree.NewLeaf(f.Name, string(data), e.digest))
	}
	return leaves, nil
}
