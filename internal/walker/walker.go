package walker

import (
	"fmt"
	"path/filepath"
	"sort"

	"merkle-snap/internal/fsys"
)

type FileInfo struct {
	Name string
	Path string
}

// Walk lists the regular files directly inside rootPath, sorted by name.
// Subdirectories are not descended into and names matching any exclusion
// pattern are skipped.
func Walk(fs fsys.FS, rootPath string, exclusions []string) ([]FileInfo, error) {
	entries, err := fs.ReadDir(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if Excluded(entry.Name(), exclusions) {
			continue
		}

		files = append(files, FileInfo{
			Name: entry.Name(),
			Path: filepath.Join(rootPath, entry.Name()),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// Excluded reports whether a file name matches any exclusion pattern, either
// as a glob or literally.
func Excluded(name string, exclusions []string) bool {
	for _, pattern := range exclusions {
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
		if pattern == name {
			return true
		}
	}
	return false
}

// ValidatePatterns reports the first malformed exclusion pattern.
func ValidatePatterns(exclusions []string) error {
	for _, pattern := range exclusions {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid exclusion pattern %q: %w", pattern, err)
		}
	}
	return nil
}
