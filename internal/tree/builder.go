package tree

import (
	"sort"
	"strings"

	"merkle-snap/internal/hash"
)

// DigestSeparator joins child digests before the root digest is computed.
// It is part of the digest contract: changing it changes every root digest.
const DigestSeparator = ", "

// NewLeaf creates the leaf node for one tracked file.
func NewLeaf(name, content string, digest hash.Func) Node {
	return Node{
		Name:    name,
		Digest:  digest([]byte(content)),
		Content: content,
	}
}

// Build assembles the root over leaves:
// 1. Sort leaves by name (byte-wise ascending)
// 2. Join their digests with DigestSeparator
// 3. Hash the joined string to obtain the root digest
//
// The input slice is not modified. An empty leaf set yields digest("").
func Build(leaves []Node, digest hash.Func) Node {
	sorted := make([]Node, len(leaves))
	copy(sorted, leaves)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	return Node{
		Name:     RootName,
		Digest:   RootDigest(sorted, digest),
		Children: sorted,
	}
}

// RootDigest hashes the ordered child digests. Callers must pass children
// already sorted by name.
func RootDigest(children []Node, digest hash.Func) string {
	digests := make([]string, len(children))
	for i, child := range children {
		digests[i] = child.Digest
	}
	return digest([]byte(strings.Join(digests, DigestSeparator)))
}
