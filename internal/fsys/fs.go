// Package fsys abstracts the filesystem operations the snapshot engine and
// the workspace helper need, so they can run against disk or memory.
package fsys

import (
	"os"
)

// FS abstracts filesystem operations.
type FS interface {
	ReadDir(path string) ([]os.DirEntry, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	Remove(path string) error
}

// OSFS is the FS backed by the host filesystem.
type OSFS struct{}

func NewOSFS() *OSFS { return &OSFS{} }

func (OSFS) ReadDir(path string) ([]os.DirEntry, error) { return os.ReadDir(path) }

func (OSFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (OSFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (OSFS) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

func (OSFS) Remove(path string) error { return os.Remove(path) }
