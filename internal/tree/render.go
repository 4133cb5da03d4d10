package tree

import (
	"fmt"
	"strings"

	"merkle-snap/internal/hash"
)

// ShortDigestLen is the number of digest characters shown per node.
const ShortDigestLen = 8

// Render lists the tree root first, one node per line, each nesting level
// indented by one guide column.
func Render(root Node) string {
	var sb strings.Builder
	render(&sb, root, "")
	return sb.String()
}

func render(sb *strings.Builder, node Node, prefix string) {
	fmt.Fprintf(sb, "%s├── %s (%s)\n", prefix, node.Name, hash.Short(node.Digest, ShortDigestLen))
	for _, child := range node.Children {
		render(sb, child, prefix+"│   ")
	}
}
