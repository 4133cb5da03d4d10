package tree

import (
	"encoding/json"
	"fmt"
	"time"
)

type SerializedTree struct {
	Generator string    `json:"generator"`
	Created   time.Time `json:"created"`
	Algorithm string    `json:"algorithm"`
	Files     int       `json:"files"`
	Size      string    `json:"size"`
	Tree      Node      `json:"tree"`
}

func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
	)

	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// Marshal renders a snapshot as indented JSON for display. Snapshots are
// never read back from this form.
func Marshal(root Node, algorithm string, created time.Time) ([]byte, error) {
	var totalSize int64
	for _, child := range root.Children {
		totalSize += int64(len(child.Content))
	}

	serialized := SerializedTree{
		Generator: "merkle-snap",
		Created:   created,
		Algorithm: algorithm,
		Files:     len(root.Children),
		Size:      formatSize(totalSize),
		Tree:      root,
	}

	data, err := json.MarshalIndent(serialized, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tree: %w", err)
	}
	return data, nil
}
