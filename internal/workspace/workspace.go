// Package workspace manages the demo files the snapshot engine tracks.
// Files are addressed by index and named file{index}.txt.
package workspace

import (
	"errors"
	"fmt"
	"path/filepath"

	"merkle-snap/internal/fsys"
)

var ErrInvalidIndex = errors.New("invalid file index")

type Workspace struct {
	fs    fsys.FS
	dir   string
	count int
}

func New(fs fsys.FS, dir string, count int) *Workspace {
	return &Workspace{fs: fs, dir: dir, count: count}
}

func (w *Workspace) Count() int { return w.count }

// FileName returns the tracked file name for index.
func FileName(index int) string {
	return fmt.Sprintf("file%d.txt", index)
}

func (w *Workspace) path(index int) (string, error) {
	if index < 1 || index > w.count {
		return "", fmt.Errorf("%w: %d (valid range 1-%d)", ErrInvalidIndex, index, w.count)
	}
	return filepath.Join(w.dir, FileName(index)), nil
}

// Seed creates the directory and writes the initial content of every file.
func (w *Workspace) Seed() error {
	if err := w.fs.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	for i := 1; i <= w.count; i++ {
		if err := w.WriteFile(i, fmt.Sprintf("Initial content of file %d", i)); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile overwrites the file at index with content.
func (w *Workspace) WriteFile(index int, content string) error {
	p, err := w.path(index)
	if err != nil {
		return err
	}
	if err := w.fs.WriteFile(p, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", FileName(index), err)
	}
	return nil
}

func (w *Workspace) ReadFile(index int) (string, error) {
	p, err := w.path(index)
	if err != nil {
		return "", err
	}
	data, err := w.fs.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", FileName(index), err)
	}
	return string(data), nil
}

// Contents returns the content of every tracked file in index order.
func (w *Workspace) Contents() ([]string, error) {
	contents := make([]string, 0, w.count)
	for i := 1; i <= w.count; i++ {
		content, err := w.ReadFile(i)
		if err != nil {
			return nil, err
		}
		contents = append(contents, content)
	}
	return contents, nil
}
